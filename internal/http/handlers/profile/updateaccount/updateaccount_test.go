package updateaccount

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

	"github.com/magabrotheeeer/videotube/internal/http/middlewarectx"
	"github.com/magabrotheeeer/videotube/internal/lib/apperr"
	"github.com/magabrotheeeer/videotube/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	args := m.Called(ctx, userID, fullName, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func TestUpdateAccountHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockUser       *models.User
		mockErr        error
		callService    bool
		wantStatusCode int
		wantMessage    string
	}{
		{
			name:           "updated",
			body:           `{"fullname":" Ada King ","email":"king@example.com"}`,
			mockUser:       &models.User{ID: "u1", FullName: "Ada King", Email: "king@example.com"},
			callService:    true,
			wantStatusCode: http.StatusOK,
			wantMessage:    "account details updated successfully",
		},
		{
			name:           "blank full name",
			body:           `{"fullname":"  ","email":"king@example.com"}`,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "field FullName is a required field",
		},
		{
			name:           "email taken",
			body:           `{"fullname":"Ada King","email":"king@example.com"}`,
			mockErr:        apperr.Conflict("email is already in use"),
			callService:    true,
			wantStatusCode: http.StatusConflict,
			wantMessage:    "email is already in use",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callService {
				svc.On("UpdateAccountDetails", mock.Anything, "u1", "Ada King", "king@example.com").
					Return(tt.mockUser, tt.mockErr).Once()
			}
			handler := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)

			req := httptest.NewRequest(http.MethodPatch, "/users/update-account", bytes.NewBufferString(tt.body))
			req = req.WithContext(middlewarectx.WithUser(req.Context(), &models.User{ID: "u1"}))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantMessage, resp["message"])
			if tt.mockUser != nil {
				assert.Equal(t, "Ada King", resp["data"].(map[string]any)["fullname"])
			}
			svc.AssertExpectations(t)
		})
	}
}
