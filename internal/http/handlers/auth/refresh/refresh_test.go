package refresh

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/videotube/internal/http/cookie"
	"github.com/magabrotheeeer/videotube/internal/lib/apperr"
	"github.com/magabrotheeeer/videotube/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Refresh(ctx context.Context, token string) (*models.TokenPair, error) {
	args := m.Called(ctx, token)
	pair, _ := args.Get(0).(*models.TokenPair)
	return pair, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRefreshHandler_ServeHTTP(t *testing.T) {
	pair := &models.TokenPair{AccessToken: "new-acc", RefreshToken: "new-ref"}

	tests := []struct {
		name           string
		cookie         string
		body           string
		wantToken      string
		mockPair       *models.TokenPair
		mockErr        error
		wantStatusCode int
		wantMessage    string
	}{
		{
			name:           "token from cookie",
			cookie:         "old-ref",
			body:           `{"refreshToken":"ignored"}`,
			wantToken:      "old-ref",
			mockPair:       pair,
			wantStatusCode: http.StatusOK,
			wantMessage:    "access token refreshed",
		},
		{
			name:           "token from body",
			body:           `{"refreshToken":"old-ref"}`,
			wantToken:      "old-ref",
			mockPair:       pair,
			wantStatusCode: http.StatusOK,
			wantMessage:    "access token refreshed",
		},
		{
			name:           "no token anywhere",
			wantToken:      "",
			mockErr:        apperr.Unauthorized("unauthorized request"),
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "unauthorized request",
		},
		{
			name:           "stale token",
			cookie:         "stale",
			wantToken:      "stale",
			mockErr:        apperr.Unauthorized("refresh token is expired"),
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "refresh token is expired",
		},
		{
			name:           "malformed body",
			body:           `{"refreshToken":`,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.mockPair != nil || tt.mockErr != nil {
				svc.On("Refresh", mock.Anything, tt.wantToken).Return(tt.mockPair, tt.mockErr).Once()
			}
			handler := New(newNoopLogger(), svc, cookie.Options{Secure: true})

			req := httptest.NewRequest(http.MethodPost, "/users/refresh-token", bytes.NewBufferString(tt.body))
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cookie.RefreshToken, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantMessage, resp["message"])

			if tt.mockPair != nil {
				data := resp["data"].(map[string]any)
				assert.Equal(t, "new-acc", data["accessToken"])
				assert.Equal(t, "new-ref", data["refreshToken"])
				assert.Len(t, rec.Result().Cookies(), 2)
			} else {
				assert.Empty(t, rec.Result().Cookies())
			}
			svc.AssertExpectations(t)
		})
	}
}
