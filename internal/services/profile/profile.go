// Package services содержит бизнес-логику изменения профиля пользователя:
// данных аккаунта, аватара и обложки канала.
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/videotube/internal/cache"
	"github.com/magabrotheeeer/videotube/internal/lib/apperr"
	"github.com/magabrotheeeer/videotube/internal/lib/sl"
	"github.com/magabrotheeeer/videotube/internal/media"
	"github.com/magabrotheeeer/videotube/internal/models"
	"github.com/magabrotheeeer/videotube/internal/storage/repository"
)

// ProfileRepository описывает изменения профиля в хранилище.
type ProfileRepository interface {
	UpdateAccountDetails(ctx context.Context, id, fullName, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, id, avatarURL string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, id, coverImageURL string) (*models.User, error)
}

// MediaHost загружает и удаляет изображения.
type MediaHost interface {
	Upload(ctx context.Context, localPath string) (*media.Asset, error)
	Delete(ctx context.Context, publicID string) error
}

// CacheInvalidator сбрасывает закэшированного пользователя.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, key string) error
}

// ProfileService изменяет профиль текущего пользователя.
type ProfileService struct {
	repo  ProfileRepository
	media MediaHost
	cache CacheInvalidator
	log   *slog.Logger
}

// NewProfileService создает новый экземпляр ProfileService.
func NewProfileService(repo ProfileRepository, mediaHost MediaHost, cache CacheInvalidator, log *slog.Logger) *ProfileService {
	return &ProfileService{
		repo:  repo,
		media: mediaHost,
		cache: cache,
		log:   log,
	}
}

// UpdateAccountDetails меняет полное имя и email.
func (s *ProfileService) UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	const op = "services.profile.UpdateAccountDetails"
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" || email == "" {
		return nil, apperr.Validation("all fields are required")
	}

	user, err := s.repo.UpdateAccountDetails(ctx, userID, fullName, email)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	s.invalidate(ctx, op, userID)
	return user, nil
}

// UpdateAvatar загружает новый аватар, сохраняет его URL и удаляет старый объект.
// Ошибка удаления старого объекта только логируется.
func (s *ProfileService) UpdateAvatar(ctx context.Context, current *models.User, localPath string) (*models.User, error) {
	const op = "services.profile.UpdateAvatar"
	log := s.log.With(slog.String("op", op), slog.String("user_id", current.ID))

	if current.Avatar == "" {
		return nil, apperr.Internal("old avatar not found", nil)
	}
	oldPublicID := media.PublicIDFromURL(current.Avatar)

	if localPath == "" {
		return nil, apperr.Validation("avatar file is required")
	}
	asset, err := s.media.Upload(ctx, localPath)
	if err != nil || asset == nil || asset.URL == "" {
		log.Error("avatar upload failed", sl.Err(err))
		return nil, apperr.Validation("error while uploading avatar")
	}

	user, err := s.repo.UpdateAvatar(ctx, current.ID, asset.URL)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	s.invalidate(ctx, op, current.ID)

	if oldPublicID != "" && oldPublicID != asset.PublicID {
		if err := s.media.Delete(ctx, oldPublicID); err != nil {
			log.Warn("failed to delete old avatar", slog.String("public_id", oldPublicID), sl.Err(err))
		}
	}
	return user, nil
}

// UpdateCoverImage загружает новую обложку и сохраняет её URL.
func (s *ProfileService) UpdateCoverImage(ctx context.Context, userID, localPath string) (*models.User, error) {
	const op = "services.profile.UpdateCoverImage"

	if localPath == "" {
		return nil, apperr.Validation("cover image file is required")
	}
	asset, err := s.media.Upload(ctx, localPath)
	if err != nil || asset == nil || asset.URL == "" {
		s.log.Error("cover image upload failed", slog.String("op", op), sl.Err(err))
		return nil, apperr.Validation("error while uploading cover image")
	}

	user, err := s.repo.UpdateCoverImage(ctx, userID, asset.URL)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	s.invalidate(ctx, op, userID)
	return user, nil
}

func (s *ProfileService) invalidate(ctx context.Context, op, userID string) {
	if err := s.cache.Invalidate(ctx, cache.UserKey(userID)); err != nil {
		s.log.Warn("failed to invalidate cached user", slog.String("op", op), sl.Err(err))
	}
}

func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return apperr.NotFound("user does not exist")
	case errors.Is(err, repository.ErrUserExists):
		return apperr.Conflict("email is already in use")
	default:
		return apperr.Internal("failed to update profile", err)
	}
}
