// Package services содержит бизнес-логику регистрации, входа, ротации токенов
// и определения текущего пользователя по access токену.
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/videotube/internal/cache"
	"github.com/magabrotheeeer/videotube/internal/lib/apperr"
	"github.com/magabrotheeeer/videotube/internal/lib/jwt"
	"github.com/magabrotheeeer/videotube/internal/lib/password"
	"github.com/magabrotheeeer/videotube/internal/lib/sl"
	"github.com/magabrotheeeer/videotube/internal/media"
	"github.com/magabrotheeeer/videotube/internal/models"
	"github.com/magabrotheeeer/videotube/internal/rabbitmq"
	"github.com/magabrotheeeer/videotube/internal/storage/repository"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает созданную запись.
	CreateUser(ctx context.Context, user models.NewUser) (*models.User, error)
	// GetUserByID возвращает пользователя по id или repository.ErrUserNotFound.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// FindUserByUsernameOrEmail ищет пользователя по любому из идентификаторов.
	FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	// SetRefreshToken заменяет сохраненный refresh токен. Пустая строка очищает его.
	SetRefreshToken(ctx context.Context, id, token string) error
	// UpdatePassword сохраняет новый хэш пароля.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// PasswordHasher хэширует и проверяет пароли.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// MediaUploader загружает файлы на медиахостинг.
type MediaUploader interface {
	Upload(ctx context.Context, localPath string) (*media.Asset, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Deps собирает зависимости AuthService.
type Deps struct {
	Users        UserRepository
	AccessMaker  jwt.Maker
	RefreshMaker jwt.Maker
	Hasher       PasswordHasher
	Media        MediaUploader
	Cache        Cache
	Events       EventPublisher
	UserCacheTTL time.Duration
}

// AuthService отвечает за регистрацию, вход, выпуск и ротацию токенов.
type AuthService struct {
	users    UserRepository
	access   jwt.Maker
	refresh  jwt.Maker
	hasher   PasswordHasher
	media    MediaUploader
	cache    Cache
	events   EventPublisher
	cacheTTL time.Duration
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(deps Deps, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    deps.Users,
		access:   deps.AccessMaker,
		refresh:  deps.RefreshMaker,
		hasher:   deps.Hasher,
		media:    deps.Media,
		cache:    deps.Cache,
		events:   deps.Events,
		cacheTTL: deps.UserCacheTTL,
		log:      log,
	}
}

// RegisterInput данные регистрации. Пути указывают на временные файлы загрузки.
type RegisterInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// LoginResult пользователь и выданная ему пара токенов.
type LoginResult struct {
	User   *models.User
	Tokens *models.TokenPair
}

// Register проверяет уникальность, загружает изображения и создает пользователя.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	const op = "services.auth.Register"
	log := s.log.With(slog.String("op", op))

	fullName := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if fullName == "" || email == "" || username == "" || strings.TrimSpace(in.Password) == "" {
		return nil, apperr.Validation("all fields are required")
	}

	existing, err := s.users.FindUserByUsernameOrEmail(ctx, username, email)
	switch {
	case err == nil && existing != nil:
		return nil, apperr.Conflict("user with email or username already exists")
	case err != nil && !errors.Is(err, repository.ErrUserNotFound):
		return nil, apperr.Internal("failed to check existing user", err)
	}

	if in.AvatarPath == "" {
		return nil, apperr.Validation("avatar file is required")
	}
	avatar, err := s.media.Upload(ctx, in.AvatarPath)
	if err != nil || avatar == nil || avatar.URL == "" {
		log.Error("avatar upload failed", sl.Err(err))
		return nil, apperr.Validation("avatar file is required")
	}

	var coverImageURL string
	if in.CoverImagePath != "" {
		coverImage, err := s.media.Upload(ctx, in.CoverImagePath)
		if err != nil || coverImage == nil {
			log.Warn("cover image upload failed", sl.Err(err))
		} else {
			coverImageURL = coverImage.URL
		}
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Internal("something went wrong while registering the user", err)
	}

	user, err := s.users.CreateUser(ctx, models.NewUser{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		Avatar:       avatar.URL,
		CoverImage:   coverImageURL,
		PasswordHash: hashed,
	})
	if errors.Is(err, repository.ErrUserExists) {
		return nil, apperr.Conflict("user with email or username already exists")
	}
	if err != nil {
		return nil, apperr.Internal("something went wrong while registering the user", err)
	}

	s.publish(ctx, log, rabbitmq.RoutingUserRegistered, user)
	log.Info("user registered", slog.String("user_id", user.ID))
	return user, nil
}

// Login проверяет пароль и выдает новую пару токенов.
//
// Неверный пароль возвращает ту же ошибку NotFound, что и неизвестный пользователь.
func (s *AuthService) Login(ctx context.Context, username, email, rawPassword string) (*LoginResult, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.TrimSpace(email)
	if username == "" && email == "" {
		return nil, apperr.Validation("username or email is required")
	}

	user, err := s.users.FindUserByUsernameOrEmail(ctx, username, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperr.NotFound("user does not exist")
	}
	if err != nil {
		return nil, apperr.Internal("failed to find user", err)
	}

	err = s.hasher.Compare(user.PasswordHash, rawPassword)
	if errors.Is(err, password.ErrMismatch) {
		return nil, apperr.NotFound("user does not exist")
	}
	if err != nil {
		return nil, apperr.Internal("failed to verify password", err)
	}

	tokens, err := s.IssueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.RefreshToken = tokens.RefreshToken
	return &LoginResult{User: user, Tokens: tokens}, nil
}

// IssueTokenPair загружает пользователя, выпускает access и refresh токены
// и сохраняет refresh токен в записи пользователя.
func (s *AuthService) IssueTokenPair(ctx context.Context, userID string) (*models.TokenPair, error) {
	const op = "services.auth.IssueTokenPair"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID))

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		log.Error("failed to load user", sl.Err(err))
		return nil, apperr.Internal("token generation failed", err)
	}
	identity := jwt.Identity{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
	}
	accessToken, err := s.access.GenerateToken(identity)
	if err != nil {
		log.Error("failed to sign access token", sl.Err(err))
		return nil, apperr.Internal("token generation failed", err)
	}
	refreshToken, err := s.refresh.GenerateToken(jwt.Identity{UserID: user.ID})
	if err != nil {
		log.Error("failed to sign refresh token", sl.Err(err))
		return nil, apperr.Internal("token generation failed", err)
	}
	if err = s.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		log.Error("failed to persist refresh token", sl.Err(err))
		return nil, apperr.Internal("token generation failed", err)
	}
	s.invalidate(ctx, log, user.ID)

	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout очищает сохраненный refresh токен пользователя.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	const op = "services.auth.Logout"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID))

	err := s.users.SetRefreshToken(ctx, userID, "")
	if errors.Is(err, repository.ErrUserNotFound) {
		return apperr.NotFound("user does not exist")
	}
	if err != nil {
		return apperr.Internal("failed to log out", err)
	}
	s.invalidate(ctx, log, userID)
	return nil
}

// Refresh проверяет refresh токен, сверяет его с сохраненным и выполняет ротацию пары.
func (s *AuthService) Refresh(ctx context.Context, incoming string) (*models.TokenPair, error) {
	if incoming == "" {
		return nil, apperr.Unauthorized("unauthorized request")
	}

	claims, err := s.refresh.ParseToken(incoming)
	if err != nil {
		msg := err.Error()
		if inner := errors.Unwrap(err); inner != nil {
			msg = inner.Error()
		}
		return nil, apperr.Unauthorized(msg)
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperr.Unauthorized("invalid refresh token")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	if user.RefreshToken == "" || incoming != user.RefreshToken {
		return nil, apperr.Unauthorized("refresh token is expired")
	}

	return s.IssueTokenPair(ctx, user.ID)
}

// ChangePassword проверяет старый пароль и сохраняет хэш нового.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	const op = "services.auth.ChangePassword"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID))

	if oldPassword == "" || strings.TrimSpace(newPassword) == "" {
		return apperr.Validation("old and new password are required")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return apperr.NotFound("user does not exist")
	}
	if err != nil {
		return apperr.Internal("failed to load user", err)
	}

	err = s.hasher.Compare(user.PasswordHash, oldPassword)
	if errors.Is(err, password.ErrMismatch) {
		return apperr.Validation("invalid old password")
	}
	if err != nil {
		return apperr.Internal("failed to verify password", err)
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperr.Internal("failed to change password", err)
	}
	if err = s.users.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return apperr.Internal("failed to change password", err)
	}
	s.invalidate(ctx, log, user.ID)
	s.publish(ctx, log, rabbitmq.RoutingUserPasswordChanged, user)
	return nil
}

// Authenticate проверяет access токен и возвращает текущего пользователя.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, apperr.Unauthorized("unauthorized request")
	}
	claims, err := s.access.ParseToken(accessToken)
	if err != nil {
		return nil, apperr.Unauthorized("invalid access token")
	}
	user, err := s.ResolveUser(ctx, claims.UserID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Unauthorized("invalid access token")
	}
	return user, err
}

// ResolveUser возвращает публичное представление пользователя, сначала из кеша.
func (s *AuthService) ResolveUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "services.auth.ResolveUser"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID))
	key := cache.UserKey(userID)

	var cached models.User
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn("failed to read user from cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperr.NotFound("user does not exist")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}

	if err := s.cache.Set(ctx, key, user, s.cacheTTL); err != nil {
		log.Warn("failed to cache user", sl.Err(err))
	}
	return user, nil
}

func (s *AuthService) invalidate(ctx context.Context, log *slog.Logger, userID string) {
	if err := s.cache.Invalidate(ctx, cache.UserKey(userID)); err != nil {
		log.Warn("failed to invalidate cached user", sl.Err(err))
	}
}

func (s *AuthService) publish(ctx context.Context, log *slog.Logger, routingKey string, user *models.User) {
	event := rabbitmq.UserEvent{
		UserID:     user.ID,
		Username:   user.Username,
		Email:      user.Email,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, routingKey, event); err != nil {
		log.Warn("failed to publish event", slog.String("routing_key", routingKey), sl.Err(err))
	}
}
