// Package services содержит чтение агрегированных представлений:
// профиля канала и истории просмотров.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/magabrotheeeer/videotube/internal/lib/apperr"
	"github.com/magabrotheeeer/videotube/internal/models"
	"github.com/magabrotheeeer/videotube/internal/storage/repository"
)

// ChannelRepository выполняет агрегирующие запросы.
type ChannelRepository interface {
	// GetChannelProfile собирает профиль канала. viewerID может быть пустым.
	GetChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error)
	// GetWatchHistory возвращает просмотренные видео в порядке истории.
	GetWatchHistory(ctx context.Context, userID string) ([]models.WatchedVideo, error)
}

// ChannelService отдает профили каналов и историю просмотров.
type ChannelService struct {
	repo ChannelRepository
}

// NewChannelService создает новый экземпляр ChannelService.
func NewChannelService(repo ChannelRepository) *ChannelService {
	return &ChannelService{repo: repo}
}

// ChannelProfile возвращает профиль канала по username.
// viewerID пустой для анонимного запроса, тогда IsSubscribed всегда false.
func (s *ChannelService) ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperr.Validation("username is missing")
	}

	profile, err := s.repo.GetChannelProfile(ctx, username, viewerID)
	if errors.Is(err, repository.ErrChannelNotFound) {
		return nil, apperr.NotFound("channel does not exist")
	}
	if err != nil {
		return nil, apperr.Internal("failed to fetch channel profile", err)
	}
	return profile, nil
}

// WatchHistory возвращает историю просмотров пользователя.
func (s *ChannelService) WatchHistory(ctx context.Context, userID string) ([]models.WatchedVideo, error) {
	history, err := s.repo.GetWatchHistory(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperr.NotFound("user does not exist")
	}
	if err != nil {
		return nil, apperr.Internal("failed to fetch watch history", err)
	}
	return history, nil
}
