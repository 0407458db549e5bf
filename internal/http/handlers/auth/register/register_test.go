package register

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/videotube/internal/http/upload"
	"github.com/magabrotheeeer/videotube/internal/lib/apperr"
	"github.com/magabrotheeeer/videotube/internal/models"
	services "github.com/magabrotheeeer/videotube/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
	seenPaths []string
}

func (m *ServiceMock) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	m.seenPaths = append(m.seenPaths, in.AvatarPath, in.CoverImagePath)
	args := m.Called(ctx, in)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newRequest(t *testing.T, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for k, v := range files {
		fw, err := mw.CreateFormFile(k, k+".png")
		require.NoError(t, err)
		_, err = fw.Write([]byte(v))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/users/register", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	validFields := map[string]string{
		"fullname": "Ada Lovelace",
		"email":    "ada@example.com",
		"username": "Ada",
		"password": "s3cret",
	}

	tests := []struct {
		name           string
		fields         map[string]string
		files          map[string]string
		mockUser       *models.User
		mockErr        error
		callService    bool
		wantStatusCode int
		wantStatus     string
		wantMessage    string
	}{
		{
			name:           "registered",
			fields:         validFields,
			files:          map[string]string{"avatar": "A", "coverImage": "C"},
			mockUser:       &models.User{ID: "u1", Username: "ada", PasswordHash: "hash", RefreshToken: "rt"},
			callService:    true,
			wantStatusCode: http.StatusCreated,
			wantStatus:     "OK",
			wantMessage:    "user registered successfully",
		},
		{
			name:           "missing field",
			fields:         map[string]string{"fullname": "Ada", "email": "ada@example.com", "username": " "},
			files:          map[string]string{"avatar": "A"},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantMessage:    "field Username is a required field, field Password is a required field",
		},
		{
			name:           "conflict",
			fields:         validFields,
			files:          map[string]string{"avatar": "A"},
			mockErr:        apperr.Conflict("user with email or username already exists"),
			callService:    true,
			wantStatusCode: http.StatusConflict,
			wantStatus:     "Error",
			wantMessage:    "user with email or username already exists",
		},
		{
			name:           "missing avatar",
			fields:         validFields,
			mockErr:        apperr.Validation("avatar file is required"),
			callService:    true,
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantMessage:    "avatar file is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callService {
				svc.On("Register", mock.Anything, mock.MatchedBy(func(in services.RegisterInput) bool {
					return in.Username == "Ada" && in.Password == "s3cret"
				})).Return(tt.mockUser, tt.mockErr).Once()
			}
			handler := New(newNoopLogger(), svc, upload.Config{Dir: t.TempDir(), MaxSize: 1 << 20})

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequest(t, tt.fields, tt.files))

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp["status"])
			assert.Equal(t, tt.wantMessage, resp["message"])

			if tt.mockUser != nil {
				data := resp["data"].(map[string]any)
				assert.Equal(t, "ada", data["username"])
				assert.NotContains(t, data, "password")
				assert.NotContains(t, data, "passwordHash")
				assert.NotContains(t, data, "refreshToken")
			}

			for _, p := range svc.seenPaths {
				if p == "" {
					continue
				}
				_, err := os.Stat(p)
				assert.ErrorIs(t, err, os.ErrNotExist, "temp file must be removed")
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestRegisterHandler_NotMultipart(t *testing.T) {
	handler := New(newNoopLogger(), new(ServiceMock), upload.Config{Dir: t.TempDir()})

	req := httptest.NewRequest(http.MethodPost, "/users/register", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
