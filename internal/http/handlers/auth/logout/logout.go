// Package logout реализует HTTP-обработчик выхода: очищает сохраненный
// refresh токен текущего пользователя и удаляет cookie с токенами.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/videotube/internal/http/cookie"
	"github.com/magabrotheeeer/videotube/internal/http/middlewarectx"
	"github.com/magabrotheeeer/videotube/internal/http/response"
	"github.com/magabrotheeeer/videotube/internal/lib/apperr"
	"github.com/magabrotheeeer/videotube/internal/lib/sl"
)

// Service описывает выход пользователя.
type Service interface {
	Logout(ctx context.Context, userID string) error
}

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log     *slog.Logger
	service Service
	cookies cookie.Options
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, cookies cookie.Options) *Handler {
	return &Handler{
		log:     log,
		service: service,
		cookies: cookies,
	}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Отзывает refresh токен и очищает cookie.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Пользователь вышел"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

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

	if err := h.service.Logout(r.Context(), user.ID); err != nil {
		log.Error("logout failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	cookie.ClearTokens(w, h.cookies)
	log.Info("user logged out", slog.String("user_id", user.ID))
	response.OK(w, r, struct{}{}, "user logged out successfully")
}
