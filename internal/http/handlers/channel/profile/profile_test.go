package profile

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/videotube/internal/http/middlewarectx"
	"github.com/magabrotheeeer/videotube/internal/lib/apperr"
	"github.com/magabrotheeeer/videotube/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	args := m.Called(ctx, username, viewerID)
	p, _ := args.Get(0).(*models.ChannelProfile)
	return p, args.Error(1)
}

func newRequest(username string, viewer *models.User) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/users/c/"+username, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("username", username)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if viewer != nil {
		ctx = middlewarectx.WithUser(ctx, viewer)
	}
	return req.WithContext(ctx)
}

func TestChannelProfileHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		username       string
		viewer         *models.User
		wantViewerID   string
		mockProfile    *models.ChannelProfile
		mockErr        error
		wantStatusCode int
		wantMessage    string
	}{
		{
			name:           "anonymous viewer",
			username:       "ada",
			mockProfile:    &models.ChannelProfile{Username: "ada", SubscribersCount: 2},
			wantStatusCode: http.StatusOK,
			wantMessage:    "channel profile fetched successfully",
		},
		{
			name:           "authenticated viewer",
			username:       "ada",
			viewer:         &models.User{ID: "viewer-1"},
			wantViewerID:   "viewer-1",
			mockProfile:    &models.ChannelProfile{Username: "ada", IsSubscribed: true},
			wantStatusCode: http.StatusOK,
			wantMessage:    "channel profile fetched successfully",
		},
		{
			name:           "unknown channel",
			username:       "ghost",
			mockErr:        apperr.NotFound("channel does not exist"),
			wantStatusCode: http.StatusNotFound,
			wantMessage:    "channel does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			svc.On("ChannelProfile", mock.Anything, tt.username, tt.wantViewerID).
				Return(tt.mockProfile, tt.mockErr).Once()
			handler := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequest(tt.username, tt.viewer))

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantMessage, resp["message"])
			if tt.mockProfile != nil {
				data := resp["data"].(map[string]any)
				assert.Equal(t, tt.mockProfile.IsSubscribed, data["isSubscribed"])
			}
			svc.AssertExpectations(t)
		})
	}
}
