// Package refresh реализует HTTP-обработчик ротации токенов.
//
// Refresh токен берется из cookie refreshToken или из поля refreshToken тела запроса.
package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/videotube/internal/http/cookie"
	"github.com/magabrotheeeer/videotube/internal/http/response"
	"github.com/magabrotheeeer/videotube/internal/lib/apperr"
	"github.com/magabrotheeeer/videotube/internal/lib/sl"
	"github.com/magabrotheeeer/videotube/internal/models"
)

// Request необязательное тело запроса.
type Request struct {
	RefreshToken string `json:"refreshToken"`
}

// Service описывает ротацию токенов.
type Service interface {
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
}

// Handler обрабатывает HTTP-запросы обновления токенов.
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
// @Summary Обновление токенов
// @Description Проверяет refresh токен, выпускает новую пару и выставляет cookie.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request false "Refresh токен, если он не передан в cookie"
// @Success 200 {object} response.Response{data=models.TokenPair} "Токены обновлены"
// @Failure 401 {object} response.ErrorResponse "Невалидный или отозванный токен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/refresh-token [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refresh"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := ""
	if c, err := r.Cookie(cookie.RefreshToken); err == nil {
		token = c.Value
	}
	if token == "" && r.Body != nil {
		var req Request
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil && !errors.Is(err, io.EOF) {
			log.Error("failed to decode request body", sl.Err(err))
			response.Fail(w, r, apperr.Validation("invalid request body"))
			return
		}
		token = req.RefreshToken
	}

	pair, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		log.Info("refresh failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	cookie.SetTokens(w, pair, h.cookies)
	log.Info("tokens refreshed")
	response.OK(w, r, pair, "access token refreshed")
}
