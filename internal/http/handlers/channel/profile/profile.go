// Package profile реализует HTTP-обработчик публичного профиля канала.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/videotube/internal/http/middlewarectx"
	"github.com/magabrotheeeer/videotube/internal/http/response"
	"github.com/magabrotheeeer/videotube/internal/lib/sl"
	"github.com/magabrotheeeer/videotube/internal/models"
)

// Service описывает получение профиля канала.
type Service interface {
	ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error)
}

// Handler обрабатывает HTTP-запросы профиля канала.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль канала
// @Description Счетчики подписчиков и подписок. isSubscribed учитывается только для авторизованного зрителя.
// @Tags Channel
// @Produce  json
// @Param username path string true "Имя канала"
// @Success 200 {object} response.Response{data=models.ChannelProfile} "Профиль канала"
// @Failure 400 {object} response.ErrorResponse "Не указано имя"
// @Failure 404 {object} response.ErrorResponse "Канал не найден"
// @Router /users/c/{username} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.channel.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")

	var viewerID string
	if viewer, ok := middlewarectx.UserFromContext(r.Context()); ok {
		viewerID = viewer.ID
	}

	profile, err := h.service.ChannelProfile(r.Context(), username, viewerID)
	if err != nil {
		log.Info("channel profile not served", slog.String("username", username), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	response.OK(w, r, profile, "channel profile fetched successfully")
}
