// Package updateaccount реализует HTTP-обработчик изменения полного имени и email.
package updateaccount

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/videotube/internal/http/middlewarectx"
	"github.com/magabrotheeeer/videotube/internal/http/response"
	"github.com/magabrotheeeer/videotube/internal/lib/apperr"
	"github.com/magabrotheeeer/videotube/internal/lib/sl"
	"github.com/magabrotheeeer/videotube/internal/models"
)

// Request новые данные аккаунта.
type Request struct {
	FullName string `json:"fullname" validate:"required"`
	Email    string `json:"email" validate:"required"`
}

// Service описывает изменение данных аккаунта.
type Service interface {
	UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы изменения аккаунта.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменение данных аккаунта
// @Tags Profile
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Полное имя и email"
// @Success 200 {object} response.Response{data=models.User} "Данные обновлены"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 409 {object} response.ErrorResponse "Email занят"
// @Router /users/update-account [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.updateaccount"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Fail(w, r, apperr.Validation("invalid request body"))
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.Fail(w, r, response.ValidationError(verrs))
			return
		}
		response.Fail(w, r, apperr.Validation("all fields are required"))
		return
	}

	updated, err := h.service.UpdateAccountDetails(r.Context(), user.ID, req.FullName, req.Email)
	if err != nil {
		log.Error("update account failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("account details updated", slog.String("user_id", user.ID))
	response.OK(w, r, updated, "account details updated successfully")
}
