// Package register реализует HTTP-обработчик регистрации пользователя.
//
// Запрос приходит как multipart-форма: текстовые поля fullname, email, username,
// password и файлы avatar (обязательный) и coverImage (необязательный).
// Файлы сохраняются во временный каталог и удаляются после обработки запроса.
package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/videotube/internal/http/response"
	"github.com/magabrotheeeer/videotube/internal/http/upload"
	"github.com/magabrotheeeer/videotube/internal/lib/apperr"
	"github.com/magabrotheeeer/videotube/internal/lib/sl"
	"github.com/magabrotheeeer/videotube/internal/models"
	services "github.com/magabrotheeeer/videotube/internal/services/auth"
)

// Request текстовые поля формы регистрации.
type Request struct {
	FullName string `validate:"required"`
	Email    string `validate:"required"`
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Service описывает регистрацию пользователя.
type Service interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger
	service  Service
	upload   upload.Config
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, uploadCfg upload.Config) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		upload:   uploadCfg,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создает пользователя, загружает аватар и обложку на медиахостинг.
// @Tags Auth
// @Accept  multipart/form-data
// @Produce  json
// @Param fullname formData string true "Полное имя"
// @Param email formData string true "Email"
// @Param username formData string true "Имя пользователя"
// @Param password formData string true "Пароль"
// @Param avatar formData file true "Аватар"
// @Param coverImage formData file false "Обложка канала"
// @Success 201 {object} response.Response{data=models.User} "Пользователь создан"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 409 {object} response.ErrorResponse "Пользователь уже существует"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	files, err := upload.Parse(w, r, h.upload, "", "avatar", "coverImage")
	if err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		if errors.Is(err, upload.ErrTooLarge) {
			response.Fail(w, r, apperr.Validation("file is too large"))
			return
		}
		response.Fail(w, r, apperr.Validation("invalid multipart form"))
		return
	}
	defer func() {
		if err := files.Cleanup(); err != nil {
			log.Warn("failed to remove temp files", sl.Err(err))
		}
	}()

	req := Request{
		FullName: strings.TrimSpace(r.FormValue("fullname")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.Fail(w, r, response.ValidationError(verrs))
			return
		}
		response.Fail(w, r, apperr.Validation("all fields are required"))
		return
	}

	user, err := h.service.Register(r.Context(), services.RegisterInput{
		FullName:       req.FullName,
		Email:          req.Email,
		Username:       req.Username,
		Password:       req.Password,
		AvatarPath:     files.Path("avatar"),
		CoverImagePath: files.Path("coverImage"),
	})
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("user registered", slog.String("user_id", user.ID))
	response.Created(w, r, user, "user registered successfully")
}
