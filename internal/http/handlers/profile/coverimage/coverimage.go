// Package coverimage реализует HTTP-обработчик замены обложки канала.
package coverimage

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/videotube/internal/http/middlewarectx"
	"github.com/magabrotheeeer/videotube/internal/http/response"
	"github.com/magabrotheeeer/videotube/internal/http/upload"
	"github.com/magabrotheeeer/videotube/internal/lib/apperr"
	"github.com/magabrotheeeer/videotube/internal/lib/sl"
	"github.com/magabrotheeeer/videotube/internal/models"
)

const field = "coverImage"

// Service описывает замену обложки.
type Service interface {
	UpdateCoverImage(ctx context.Context, userID, localPath string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы замены обложки.
type Handler struct {
	log     *slog.Logger
	service Service
	upload  upload.Config
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, uploadCfg upload.Config) *Handler {
	return &Handler{
		log:     log,
		service: service,
		upload:  uploadCfg,
	}
}

// ServeHTTP godoc
// @Summary Замена обложки канала
// @Tags Profile
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param coverImage formData file true "Обложка"
// @Success 200 {object} response.Response{data=models.User} "Обложка обновлена"
// @Failure 400 {object} response.ErrorResponse "Файл не передан или не загружен"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Router /users/cover-image [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.coverimage"

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

	files, err := upload.Parse(w, r, h.upload, field, field)
	if err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		if errors.Is(err, upload.ErrTooLarge) {
			response.Fail(w, r, apperr.Validation("file is too large"))
			return
		}
		response.Fail(w, r, apperr.Validation("cover image file is missing"))
		return
	}
	defer func() {
		if err := files.Cleanup(); err != nil {
			log.Warn("failed to remove temp files", sl.Err(err))
		}
	}()

	path := files.Path(field)
	if path == "" {
		response.Fail(w, r, apperr.Validation("cover image file is missing"))
		return
	}

	updated, err := h.service.UpdateCoverImage(r.Context(), user.ID, path)
	if err != nil {
		log.Error("cover image update failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("cover image updated", slog.String("user_id", user.ID))
	response.OK(w, r, updated, "cover image updated successfully")
}
