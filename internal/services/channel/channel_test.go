package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/videotube/internal/lib/apperr"
	"github.com/magabrotheeeer/videotube/internal/models"
	services "github.com/magabrotheeeer/videotube/internal/services/channel"
	"github.com/magabrotheeeer/videotube/internal/storage/repository"
)

type ChannelRepoMock struct {
	mock.Mock
}

func (m *ChannelRepoMock) GetChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	args := m.Called(ctx, username, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChannelProfile), args.Error(1)
}

func (m *ChannelRepoMock) GetWatchHistory(ctx context.Context, userID string) ([]models.WatchedVideo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WatchedVideo), args.Error(1)
}

func TestChannelService_ChannelProfile(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		viewerID   string
		setupMocks func(r *ChannelRepoMock)
		want       *models.ChannelProfile
		wantKind   error
	}{
		{
			name:     "anonymous viewer, empty channel",
			username: "  Lonely ",
			setupMocks: func(r *ChannelRepoMock) {
				r.On("GetChannelProfile", mock.Anything, "lonely", "").
					Return(&models.ChannelProfile{Username: "lonely"}, nil).Once()
			},
			want: &models.ChannelProfile{Username: "lonely"},
		},
		{
			name:     "subscribed viewer",
			username: "chan",
			viewerID: "viewer",
			setupMocks: func(r *ChannelRepoMock) {
				r.On("GetChannelProfile", mock.Anything, "chan", "viewer").
					Return(&models.ChannelProfile{Username: "chan", SubscribersCount: 2, IsSubscribed: true}, nil).Once()
			},
			want: &models.ChannelProfile{Username: "chan", SubscribersCount: 2, IsSubscribed: true},
		},
		{
			name:       "blank username",
			username:   "   ",
			setupMocks: func(*ChannelRepoMock) {},
			wantKind:   apperr.ErrValidation,
		},
		{
			name:     "unknown channel",
			username: "ghost",
			setupMocks: func(r *ChannelRepoMock) {
				r.On("GetChannelProfile", mock.Anything, "ghost", "").Return(nil, repository.ErrChannelNotFound).Once()
			},
			wantKind: apperr.ErrNotFound,
		},
		{
			name:     "store failure",
			username: "chan",
			setupMocks: func(r *ChannelRepoMock) {
				r.On("GetChannelProfile", mock.Anything, "chan", "").Return(nil, errors.New("db down")).Once()
			},
			wantKind: apperr.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(ChannelRepoMock)
			tt.setupMocks(repo)
			svc := services.NewChannelService(repo)

			got, err := svc.ChannelProfile(context.Background(), tt.username, tt.viewerID)
			if tt.wantKind != nil {
				assert.ErrorIs(t, err, tt.wantKind)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestChannelService_WatchHistory(t *testing.T) {
	history := []models.WatchedVideo{
		{ID: "v2", Title: "second", Owner: &models.VideoOwner{ID: "o", Username: "author"}},
		{ID: "v1", Title: "first"},
	}

	repo := new(ChannelRepoMock)
	repo.On("GetWatchHistory", mock.Anything, "u1").Return(history, nil).Once()
	repo.On("GetWatchHistory", mock.Anything, "ghost").Return(nil, repository.ErrUserNotFound).Once()
	repo.On("GetWatchHistory", mock.Anything, "u2").Return(nil, errors.New("db down")).Once()
	svc := services.NewChannelService(repo)

	got, err := svc.WatchHistory(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, history, got)

	_, err = svc.WatchHistory(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.WatchHistory(context.Background(), "u2")
	assert.ErrorIs(t, err, apperr.ErrInternal)
	repo.AssertExpectations(t)
}
