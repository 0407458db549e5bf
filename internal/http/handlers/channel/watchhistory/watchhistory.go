// Package watchhistory реализует HTTP-обработчик истории просмотров.
package watchhistory

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/videotube/internal/http/middlewarectx"
	"github.com/magabrotheeeer/videotube/internal/http/response"
	"github.com/magabrotheeeer/videotube/internal/lib/apperr"
	"github.com/magabrotheeeer/videotube/internal/lib/sl"
	"github.com/magabrotheeeer/videotube/internal/models"
)

// Service описывает получение истории просмотров.
type Service interface {
	WatchHistory(ctx context.Context, userID string) ([]models.WatchedVideo, error)
}

// Handler обрабатывает HTTP-запросы истории просмотров.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary История просмотров
// @Tags Channel
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]models.WatchedVideo} "Видео в порядке просмотра"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Router /users/history [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.channel.watchhistory"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user missing in context")
		response.Fail(w, r, apperr.Unauthorized("unauthorized request"))
		return
	}

	history, err := h.service.WatchHistory(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to fetch watch history", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	if history == nil {
		history = []models.WatchedVideo{}
	}
	response.OK(w, r, history, "watch history fetched successfully")
}
