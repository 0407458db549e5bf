// Package videotube собирает HTTP-приложение: зависимости, маршруты и жизненный цикл сервера.
package videotube

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/videotube/internal/config"
	"github.com/magabrotheeeer/videotube/internal/http/cookie"
	"github.com/magabrotheeeer/videotube/internal/http/handlers/auth/changepassword"
	"github.com/magabrotheeeer/videotube/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/videotube/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/videotube/internal/http/handlers/auth/refresh"
	"github.com/magabrotheeeer/videotube/internal/http/handlers/auth/register"
	channelprofile "github.com/magabrotheeeer/videotube/internal/http/handlers/channel/profile"
	"github.com/magabrotheeeer/videotube/internal/http/handlers/channel/watchhistory"
	"github.com/magabrotheeeer/videotube/internal/http/handlers/health"
	"github.com/magabrotheeeer/videotube/internal/http/handlers/profile/avatar"
	"github.com/magabrotheeeer/videotube/internal/http/handlers/profile/coverimage"
	"github.com/magabrotheeeer/videotube/internal/http/handlers/profile/current"
	"github.com/magabrotheeeer/videotube/internal/http/handlers/profile/updateaccount"
	"github.com/magabrotheeeer/videotube/internal/http/middlewarectx"
	"github.com/magabrotheeeer/videotube/internal/http/upload"
	authservice "github.com/magabrotheeeer/videotube/internal/services/auth"
	channelservice "github.com/magabrotheeeer/videotube/internal/services/channel"
	profileservice "github.com/magabrotheeeer/videotube/internal/services/profile"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	cfg *config.Config,
	storage health.Pinger,
	metrics *middlewarectx.Metrics,
	authService *authservice.AuthService,
	profileService *profileservice.ProfileService,
	channelService *channelservice.ChannelService,
) {
	cookies := cookie.Options{
		Secure:     !cfg.CookieInsecure,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	}
	uploads := upload.Config{
		Dir:     cfg.UploadDir,
		MaxSize: cfg.MaxUploadSize,
	}

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.New(logger, storage).ServeHTTP)

		r.Route("/users", func(r chi.Router) {
			// Открытые конечные точки с ограничением частоты
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateLimit, cfg.RateBurst))
				r.Post("/register", register.New(logger, authService, uploads).ServeHTTP)
				r.Post("/login", login.New(logger, authService, cookies).ServeHTTP)
				r.Post("/refresh-token", refresh.New(logger, authService, cookies).ServeHTTP)
			})

			// Профиль канала доступен анонимно
			r.With(middlewarectx.OptionalJWTMiddleware(authService, logger)).
				Get("/c/{username}", channelprofile.New(logger, channelService).ServeHTTP)

			// Группа с JWT аутентификацией
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.JWTMiddleware(authService, logger))
				r.Post("/logout", logout.New(logger, authService, cookies).ServeHTTP)
				r.Post("/change-password", changepassword.New(logger, authService).ServeHTTP)
				r.Get("/current-user", current.New(logger).ServeHTTP)
				r.Patch("/update-account", updateaccount.New(logger, profileService).ServeHTTP)
				r.Patch("/avatar", avatar.New(logger, profileService, uploads).ServeHTTP)
				r.Patch("/cover-image", coverimage.New(logger, profileService, uploads).ServeHTTP)
				r.Get("/history", watchhistory.New(logger, channelService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
