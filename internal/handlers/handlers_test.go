package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"taskKeeper/internal/auth"
	"taskKeeper/internal/handlers"
	"taskKeeper/internal/handlers/dto"
	"taskKeeper/internal/logger"
	"taskKeeper/internal/middleware"
	"taskKeeper/internal/models/task"
	"taskKeeper/internal/models/user"
	"taskKeeper/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	code := m.Run()
	logger.Sync()
	os.Exit(code)
}

// MockAuthService - мок сервиса сессий
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*service.Session, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*service.Session, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var _ handlers.AuthService = (*MockAuthService)(nil)

// MockTaskService - мок сервиса задач
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskService) CreateTask(ctx context.Context, ownerID uuid.UUID, title, description string, startAt, endAt *time.Time) (*task.Task, error) {
	args := m.Called(ctx, ownerID, title, description, startAt, endAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, requesterID, id uuid.UUID, options ...service.TaskOption) (*task.Task, error) {
	args := m.Called(ctx, requesterID, id, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) CompleteTask(ctx context.Context, requesterID, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, requesterID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, requesterID, id uuid.UUID) error {
	args := m.Called(ctx, requesterID, id)
	return args.Error(0)
}

func (m *MockTaskService) ListTasks(ctx context.Context, requesterID uuid.UUID, page, limit int) (*service.TaskPage, error) {
	args := m.Called(ctx, requesterID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TaskPage), args.Error(1)
}

var _ handlers.TaskService = (*MockTaskService)(nil)

func testSession(userID uuid.UUID) *service.Session {
	return &service.Session{
		User: user.Public{
			ID:    userID,
			Name:  "Иван",
			Email: "ivan@example.com",
		},
		Tokens: &auth.TokenPair{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			ExpiresAt:    time.Now().Add(time.Hour),
		},
	}
}

// withIdentity подкладывает идентичность так же, как middleware.Auth
func withIdentity(r *http.Request, userID uuid.UUID) *http.Request {
	identity := &service.Identity{UserID: userID, Email: "ivan@example.com"}
	ctx := context.WithValue(r.Context(), middleware.IdentityKey, identity)
	return r.WithContext(ctx)
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// TestAuthHandler_Register тестирует регистрацию через HTTP
func TestAuthHandler_Register(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		body           any
		contentType    string
		setupMock      func(*MockAuthService)
		expectedStatus int
		expectedError  string
	}{
		{
			name:        "success",
			body:        dto.RegisterRequest{Name: "Иван", Email: "ivan@example.com", Password: "secret123"},
			contentType: "application/json",
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "Иван", "ivan@example.com", "secret123").
					Return(testSession(userID), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "error - wrong content type",
			body:           dto.RegisterRequest{Name: "Иван"},
			contentType:    "text/plain",
			setupMock:      func(m *MockAuthService) {},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:        "error - duplicate email maps to 409",
			body:        dto.RegisterRequest{Name: "Иван", Email: "taken@example.com", Password: "secret123"},
			contentType: "application/json",
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "Иван", "taken@example.com", "secret123").
					Return(nil, service.NewEmailConflict("taken@example.com"))
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "EMAIL_CONFLICT",
		},
		{
			name:        "error - validation maps to 400",
			body:        dto.RegisterRequest{Email: "ivan@example.com", Password: "secret123"},
			contentType: "application/json",
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "", "ivan@example.com", "secret123").
					Return(nil, service.NewValidationError("name", "обязательное поле"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockAuthService)
			tt.setupMock(mockSvc)
			handler := handlers.NewAuthHandler(mockSvc)

			req := jsonRequest(t, http.MethodPost, "/auth/register", tt.body)
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()

			handler.Register(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedError != "" {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedError, body["error"])
			}
			if tt.expectedStatus == http.StatusCreated {
				var resp dto.AuthResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "access-token", resp.Token)
				assert.Equal(t, "refresh-token", resp.RefreshToken)
				assert.Equal(t, userID, resp.User.ID)
			}
			mockSvc.AssertExpectations(t)
		})
	}

	t.Run("error - malformed json", func(t *testing.T) {
		handler := handlers.NewAuthHandler(new(MockAuthService))

		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("{не json"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

// TestAuthHandler_Login тестирует вход через HTTP
func TestAuthHandler_Login(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		setupMock      func(*MockAuthService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "success",
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "ivan@example.com", "secret123").
					Return(testSession(userID), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - wrong password maps to 401",
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "ivan@example.com", "secret123").
					Return(nil, service.NewUnauthorized("неверный пароль"))
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "UNAUTHORIZED",
		},
		{
			name: "error - unknown user maps to 404",
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "ivan@example.com", "secret123").
					Return(nil, service.NewNotFound("пользователь", "ivan@example.com"))
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockAuthService)
			tt.setupMock(mockSvc)
			handler := handlers.NewAuthHandler(mockSvc)

			req := jsonRequest(t, http.MethodPost, "/auth/login",
				dto.LoginRequest{Email: "ivan@example.com", Password: "secret123"})
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedError != "" {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedError, body["error"])
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

// TestAuthHandler_Refresh тестирует обновление токенов через HTTP
func TestAuthHandler_Refresh(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		setupMock      func(*MockAuthService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "success",
			setupMock: func(m *MockAuthService) {
				m.On("Refresh", mock.Anything, "old-refresh").Return(testSession(userID), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - rotated token maps to 403",
			setupMock: func(m *MockAuthService) {
				m.On("Refresh", mock.Anything, "old-refresh").
					Return(nil, service.NewForbidden("refresh-токен недействителен"))
			},
			expectedStatus: http.StatusForbidden,
			expectedError:  "FORBIDDEN",
		},
		{
			name: "error - expired token maps to 401",
			setupMock: func(m *MockAuthService) {
				m.On("Refresh", mock.Anything, "old-refresh").
					Return(nil, service.NewTokenExpired())
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "TOKEN_EXPIRED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockAuthService)
			tt.setupMock(mockSvc)
			handler := handlers.NewAuthHandler(mockSvc)

			req := jsonRequest(t, http.MethodPost, "/auth/refresh",
				dto.RefreshRequest{RefreshToken: "old-refresh"})
			rec := httptest.NewRecorder()

			handler.Refresh(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedError != "" {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedError, body["error"])
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

// TestAuthHandler_Logout тестирует выход
func TestAuthHandler_Logout(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockSvc := new(MockAuthService)
		mockSvc.On("Logout", mock.Anything, userID).Return(nil)
		handler := handlers.NewAuthHandler(mockSvc)

		req := withIdentity(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), userID)
		rec := httptest.NewRecorder()

		handler.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("error - no identity in context", func(t *testing.T) {
		handler := handlers.NewAuthHandler(new(MockAuthService))

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		rec := httptest.NewRecorder()

		handler.Logout(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

// TestTaskHandler_CreateTask тестирует создание задачи через HTTP
func TestTaskHandler_CreateTask(t *testing.T) {
	userID := uuid.New()
	taskUUID := uuid.New()

	t.Run("success - plain fields", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		mockSvc.On("CreateTask", mock.Anything, userID, "Купить хлеб", "описание",
			(*time.Time)(nil), (*time.Time)(nil)).
			Return(&task.Task{
				UUID:    taskUUID,
				UserID:  userID,
				Title:   "Купить хлеб",
				Status:  task.StatusPending,
				Version: 1,
			}, nil)

		handler := handlers.NewTaskHandler(mockSvc)
		req := withIdentity(jsonRequest(t, http.MethodPost, "/tasks",
			dto.CreateTaskRequest{Title: "Купить хлеб", Description: "описание"}), userID)
		rec := httptest.NewRecorder()

		handler.CreateTask(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp dto.TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, taskUUID, resp.UUID)
		assert.Equal(t, 1, resp.Version)
		assert.Equal(t, "pending", resp.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("success - split date and time combined", func(t *testing.T) {
		expected := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

		mockSvc := new(MockTaskService)
		mockSvc.On("CreateTask", mock.Anything, userID, "Встреча", "",
			mock.MatchedBy(func(ts *time.Time) bool { return ts != nil && ts.Equal(expected) }),
			(*time.Time)(nil)).
			Return(&task.Task{UUID: taskUUID, UserID: userID, Title: "Встреча", Version: 1}, nil)

		handler := handlers.NewTaskHandler(mockSvc)
		req := withIdentity(jsonRequest(t, http.MethodPost, "/tasks", dto.CreateTaskRequest{
			Title:     "Встреча",
			StartDate: "2026-03-15",
			StartTime: "09:30",
		}), userID)
		rec := httptest.NewRecorder()

		handler.CreateTask(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("error - malformed date pair", func(t *testing.T) {
		handler := handlers.NewTaskHandler(new(MockTaskService))
		req := withIdentity(jsonRequest(t, http.MethodPost, "/tasks", dto.CreateTaskRequest{
			Title:     "Встреча",
			StartDate: "15.03.2026",
			StartTime: "09:30",
		}), userID)
		rec := httptest.NewRecorder()

		handler.CreateTask(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("error - no identity", func(t *testing.T) {
		handler := handlers.NewTaskHandler(new(MockTaskService))
		req := jsonRequest(t, http.MethodPost, "/tasks", dto.CreateTaskRequest{Title: "X"})
		rec := httptest.NewRecorder()

		handler.CreateTask(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

// routeWithID прогоняет запрос через chi, чтобы URLParam заработал
func routeWithID(handler http.HandlerFunc, method, pattern string, req *http.Request) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.MethodFunc(method, pattern, handler)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// TestTaskHandler_UpdateTask тестирует обновление через HTTP
func TestTaskHandler_UpdateTask(t *testing.T) {
	userID := uuid.New()
	taskUUID := uuid.New()
	newTitle := "Новый заголовок"

	t.Run("success", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		mockSvc.On("UpdateTask", mock.Anything, userID, taskUUID,
			mock.MatchedBy(func(opts []service.TaskOption) bool { return len(opts) == 1 })).
			Return(&task.Task{UUID: taskUUID, UserID: userID, Title: newTitle, Version: 2}, nil)

		handler := handlers.NewTaskHandler(mockSvc)
		req := withIdentity(jsonRequest(t, http.MethodPut, "/tasks/"+taskUUID.String(),
			dto.UpdateTaskRequest{Title: &newTitle}), userID)

		rec := routeWithID(handler.UpdateTask, http.MethodPut, "/tasks/{id}", req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp dto.TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Version)
		mockSvc.AssertExpectations(t)
	})

	t.Run("error - bad id", func(t *testing.T) {
		handler := handlers.NewTaskHandler(new(MockTaskService))
		req := withIdentity(jsonRequest(t, http.MethodPut, "/tasks/не-uuid",
			dto.UpdateTaskRequest{Title: &newTitle}), userID)

		rec := routeWithID(handler.UpdateTask, http.MethodPut, "/tasks/{id}", req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("error - version conflict maps to 409", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		mockSvc.On("UpdateTask", mock.Anything, userID, taskUUID, mock.Anything).
			Return(nil, service.NewVersionConflict("задача", taskUUID.String()))

		handler := handlers.NewTaskHandler(mockSvc)
		req := withIdentity(jsonRequest(t, http.MethodPut, "/tasks/"+taskUUID.String(),
			dto.UpdateTaskRequest{Title: &newTitle}), userID)

		rec := routeWithID(handler.UpdateTask, http.MethodPut, "/tasks/{id}", req)

		assert.Equal(t, http.StatusConflict, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "VERSION_CONFLICT", body["error"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("error - foreign task maps to 403", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		mockSvc.On("UpdateTask", mock.Anything, userID, taskUUID, mock.Anything).
			Return(nil, service.NewForbidden("задача принадлежит другому пользователю"))

		handler := handlers.NewTaskHandler(mockSvc)
		req := withIdentity(jsonRequest(t, http.MethodPut, "/tasks/"+taskUUID.String(),
			dto.UpdateTaskRequest{Title: &newTitle}), userID)

		rec := routeWithID(handler.UpdateTask, http.MethodPut, "/tasks/{id}", req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		mockSvc.AssertExpectations(t)
	})
}

// TestTaskHandler_CompleteTask тестирует завершение через HTTP
func TestTaskHandler_CompleteTask(t *testing.T) {
	userID := uuid.New()
	taskUUID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		mockSvc.On("CompleteTask", mock.Anything, userID, taskUUID).
			Return(&task.Task{UUID: taskUUID, UserID: userID, Status: task.StatusCompleted, Version: 2}, nil)

		handler := handlers.NewTaskHandler(mockSvc)
		req := withIdentity(httptest.NewRequest(http.MethodPatch, "/tasks/"+taskUUID.String()+"/status", nil), userID)

		rec := routeWithID(handler.CompleteTask, http.MethodPatch, "/tasks/{id}/status", req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp dto.TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "completed", resp.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("error - wrong state maps to 409", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		mockSvc.On("CompleteTask", mock.Anything, userID, taskUUID).
			Return(nil, service.NewInvalidState("completed", "pending"))

		handler := handlers.NewTaskHandler(mockSvc)
		req := withIdentity(httptest.NewRequest(http.MethodPatch, "/tasks/"+taskUUID.String()+"/status", nil), userID)

		rec := routeWithID(handler.CompleteTask, http.MethodPatch, "/tasks/{id}/status", req)

		assert.Equal(t, http.StatusConflict, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "INVALID_STATE", body["error"])
		mockSvc.AssertExpectations(t)
	})
}

// TestTaskHandler_DeleteTask тестирует удаление через HTTP
func TestTaskHandler_DeleteTask(t *testing.T) {
	userID := uuid.New()
	taskUUID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		mockSvc.On("DeleteTask", mock.Anything, userID, taskUUID).Return(nil)

		handler := handlers.NewTaskHandler(mockSvc)
		req := withIdentity(httptest.NewRequest(http.MethodDelete, "/tasks/"+taskUUID.String(), nil), userID)

		rec := routeWithID(handler.DeleteTask, http.MethodDelete, "/tasks/{id}", req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("error - not found maps to 404", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		mockSvc.On("DeleteTask", mock.Anything, userID, taskUUID).
			Return(service.NewNotFound("задача", taskUUID.String()))

		handler := handlers.NewTaskHandler(mockSvc)
		req := withIdentity(httptest.NewRequest(http.MethodDelete, "/tasks/"+taskUUID.String(), nil), userID)

		rec := routeWithID(handler.DeleteTask, http.MethodDelete, "/tasks/{id}", req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		mockSvc.AssertExpectations(t)
	})
}

// TestTaskHandler_ListTasks тестирует листинг через HTTP
func TestTaskHandler_ListTasks(t *testing.T) {
	userID := uuid.New()

	t.Run("success - pagination from query", func(t *testing.T) {
		tasks := []*task.Task{
			{UUID: uuid.New(), UserID: userID, Title: "Задача 1"},
			{UUID: uuid.New(), UserID: userID, Title: "Задача 2"},
		}

		mockSvc := new(MockTaskService)
		mockSvc.On("ListTasks", mock.Anything, userID, 2, 5).
			Return(&service.TaskPage{Tasks: tasks, Total: 12, Page: 2, Limit: 5}, nil)

		handler := handlers.NewTaskHandler(mockSvc)
		req := withIdentity(httptest.NewRequest(http.MethodGet, "/tasks?page=2&limit=5", nil), userID)
		rec := httptest.NewRecorder()

		handler.ListTasks(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp dto.TaskListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 12, resp.Total)
		assert.Equal(t, 2, resp.Page)
		assert.Len(t, resp.Data, 2)
		mockSvc.AssertExpectations(t)
	})

	t.Run("success - garbage pagination passed as zeroes", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		mockSvc.On("ListTasks", mock.Anything, userID, 0, 0).
			Return(&service.TaskPage{Tasks: nil, Total: 0, Page: 1, Limit: 20}, nil)

		handler := handlers.NewTaskHandler(mockSvc)
		req := withIdentity(httptest.NewRequest(http.MethodGet, "/tasks?page=abc&limit=xyz", nil), userID)
		rec := httptest.NewRecorder()

		handler.ListTasks(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockSvc.AssertExpectations(t)
	})
}

// TestTaskHandler_HealthCheck тестирует health-эндпоинт
func TestTaskHandler_HealthCheck(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		mockSvc.On("HealthCheck", mock.Anything).Return(nil)

		handler := handlers.NewTaskHandler(mockSvc)
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()

		handler.HealthCheck(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("error - storage down", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		mockSvc.On("HealthCheck", mock.Anything).Return(assert.AnError)

		handler := handlers.NewTaskHandler(mockSvc)
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()

		handler.HealthCheck(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		mockSvc.AssertExpectations(t)
	})
}
