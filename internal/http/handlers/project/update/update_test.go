package update

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/techwave/project-manager/internal/authz"
	"github.com/techwave/project-manager/internal/http/middlewarectx"
	"github.com/techwave/project-manager/internal/models"
)

// MockService реализует интерфейс update.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, req models.DummyProject, id int64) (int, error) {
	args := m.Called(ctx, req, id)
	return args.Int(0), args.Error(1)
}

// MockAuthorizer реализует интерфейс update.Authorizer
type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) CanManageProject(ctx context.Context, ident models.Identity, projectID int64) error {
	args := m.Called(ctx, ident, projectID)
	return args.Error(0)
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := models.DummyProject{
		Name:      "Redesign",
		StartDate: "2026-01-15",
		Status:    "IN_PROGRESS",
		ManagerID: 7,
	}

	tests := []struct {
		name           string
		url            string
		requestBody    interface{}
		username       string
		role           string
		setupMocks     func(*MockService, *MockAuthorizer)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "менеджер обновляет свой проект",
			url:         "/projects/123",
			requestBody: validBody,
			username:    "manager1",
			role:        "PROJECT_MANAGER",
			setupMocks: func(s *MockService, a *MockAuthorizer) {
				a.On("CanManageProject", mock.Anything, mock.AnythingOfType("models.Identity"), int64(123)).
					Return(nil)
				s.On("Update", mock.Anything, mock.AnythingOfType("models.DummyProject"), int64(123)).
					Return(1, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"updated_count":1`,
		},
		{
			name:        "чужой проект запрещен",
			url:         "/projects/123",
			requestBody: validBody,
			username:    "manager2",
			role:        "PROJECT_MANAGER",
			setupMocks: func(_ *MockService, a *MockAuthorizer) {
				a.On("CanManageProject", mock.Anything, mock.AnythingOfType("models.Identity"), int64(123)).
					Return(authz.ErrAccessDenied)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"access denied"}`,
		},
		{
			name:        "несуществующий проект",
			url:         "/projects/999",
			requestBody: validBody,
			username:    "manager1",
			role:        "PROJECT_MANAGER",
			setupMocks: func(_ *MockService, a *MockAuthorizer) {
				a.On("CanManageProject", mock.Anything, mock.AnythingOfType("models.Identity"), int64(999)).
					Return(authz.ErrResourceNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"project not found"}`,
		},
		{
			name:           "анонимный запрос",
			url:            "/projects/123",
			requestBody:    validBody,
			username:       "",
			setupMocks:     func(_ *MockService, _ *MockAuthorizer) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"authentication required"}`,
		},
		{
			name:        "некорректный JSON",
			url:         "/projects/123",
			requestBody: "not a json",
			username:    "admin",
			role:        "ADMIN",
			setupMocks: func(_ *MockService, a *MockAuthorizer) {
				a.On("CanManageProject", mock.Anything, mock.AnythingOfType("models.Identity"), int64(123)).
					Return(nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name: "ошибка валидации",
			url:  "/projects/123",
			requestBody: models.DummyProject{
				Name:      "",
				StartDate: "",
				ManagerID: 0,
			},
			username: "admin",
			role:     "ADMIN",
			setupMocks: func(_ *MockService, a *MockAuthorizer) {
				a.On("CanManageProject", mock.Anything, mock.AnythingOfType("models.Identity"), int64(123)).
					Return(nil)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:           "некорректный id в url",
			url:            "/projects/abc",
			requestBody:    validBody,
			username:       "admin",
			role:           "ADMIN",
			setupMocks:     func(_ *MockService, _ *MockAuthorizer) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode id from url"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockPolicy := new(MockAuthorizer)
			tt.setupMocks(mockService, mockPolicy)

			handler := New(logger, mockService, mockPolicy)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPut, tt.url, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			ctx := req.Context()
			if tt.username != "" {
				ctx = context.WithValue(ctx, middlewarectx.User, tt.username)
				ctx = context.WithValue(ctx, middlewarectx.Role, tt.role)
			}
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", strings.TrimPrefix(tt.url, "/projects/"))
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
			mockPolicy.AssertExpectations(t)
		})
	}
}
