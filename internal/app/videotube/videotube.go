package videotube

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/videotube/internal/cache"
	"github.com/magabrotheeeer/videotube/internal/config"
	"github.com/magabrotheeeer/videotube/internal/http/middlewarectx"
	"github.com/magabrotheeeer/videotube/internal/lib/jwt"
	"github.com/magabrotheeeer/videotube/internal/lib/password"
	"github.com/magabrotheeeer/videotube/internal/lib/sl"
	"github.com/magabrotheeeer/videotube/internal/media"
	"github.com/magabrotheeeer/videotube/internal/migrations"
	"github.com/magabrotheeeer/videotube/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/videotube/internal/services/auth"
	channelservice "github.com/magabrotheeeer/videotube/internal/services/channel"
	profileservice "github.com/magabrotheeeer/videotube/internal/services/profile"
	"github.com/magabrotheeeer/videotube/internal/storage/repository"
)

type eventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
	Close() error
}

// App HTTP-приложение со всеми внешними подключениями.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	events eventPublisher
}

// New подключается к хранилищам, применяет миграции и собирает роутер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	mediaHost, err := media.New(ctx, cfg.Media)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, err
	}

	events, err := newEventPublisher(ctx, cfg.RabbitMQ, logger)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, err
	}

	authService := authservice.NewAuthService(authservice.Deps{
		Users:        db,
		AccessMaker:  jwt.NewJWTMaker(cfg.AccessSecret, cfg.AccessTTL),
		RefreshMaker: jwt.NewJWTMaker(cfg.RefreshSecret, cfg.RefreshTTL),
		Hasher:       password.NewHasher(cfg.PasswordCost),
		Media:        mediaHost,
		Cache:        cacheRedis,
		Events:       events,
		UserCacheTTL: cfg.UserCacheTTL,
	}, logger)
	profileService := profileservice.NewProfileService(db, mediaHost, cacheRedis, logger)
	channelService := channelservice.NewChannelService(db)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, db, middlewarectx.NewMetrics(prometheus.DefaultRegisterer),
		authService, profileService, channelService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		events: events,
	}, nil
}

func newEventPublisher(ctx context.Context, cfg config.RabbitMQ, logger *slog.Logger) (eventPublisher, error) {
	if cfg.URL == "" {
		logger.Info("rabbitmq url is empty, domain events are disabled")
		return rabbitmq.NoopPublisher{}, nil
	}
	conn, err := rabbitmq.Connect(ctx, cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	publisher, err := rabbitmq.NewPublisher(conn, cfg.Exchange)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return publisher, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.events.Close(); err != nil {
		a.logger.Warn("failed to close event publisher", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close redis client", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}
