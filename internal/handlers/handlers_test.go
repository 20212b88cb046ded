package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todoTracker/internal/handlers"
	"todoTracker/internal/models/task"
	"todoTracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaskService - мок сервиса
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) ListTasks(ctx context.Context) ([]*task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskService) GetTask(ctx context.Context, id int64) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) ListTasksByPeriod(ctx context.Context, period string) ([]*task.Task, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskService) UpsertTask(ctx context.Context, draft *task.Draft) (*service.UpsertResult, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UpsertResult), args.Error(1)
}

func (m *MockTaskService) CreateTask(ctx context.Context, draft *task.Draft) (*task.Task, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, draft *task.Draft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockTaskService) UpdatePercentage(ctx context.Context, update *task.PercentageUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskService) MarkAsDone(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ handlers.Service = (*MockTaskService)(nil)

type MockHealth struct {
	mock.Mock
}

func (m *MockHealth) HealthCheck(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type envelope struct {
	StatusCode    int             `json:"statusCode"`
	IsSuccess     bool            `json:"isSuccess"`
	ErrorMessages []string        `json:"errorMessages"`
	Result        json.RawMessage `json:"result"`
}

func newRouter(h *handlers.TaskHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", h.HealthCheck)
	r.Route("/api/tasks", h.Routes)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env
}

func sampleTask(id int64) *task.Task {
	return &task.Task{
		ID:             id,
		Title:          "Write report",
		Description:    "Quarterly",
		ExpirationDate: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:         task.StatusInProgress,
	}
}

// TestTaskHandler_HealthCheck тестирует HealthCheck
func TestTaskHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "success - healthy", err: nil, expectedStatus: http.StatusOK},
		{name: "error - unhealthy", err: errors.New("db down"), expectedStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			health := new(MockHealth)
			health.On("HealthCheck", mock.Anything).Return(tt.err)

			router := newRouter(handlers.NewTaskHandler(new(MockTaskService), health))
			w := doRequest(t, router, http.MethodGet, "/health", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			health.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_ListTasks(t *testing.T) {
	mockService := new(MockTaskService)
	mockService.On("ListTasks", mock.Anything).Return([]*task.Task{sampleTask(1), sampleTask(2)}, nil)

	w := doRequest(t, newRouter(handlers.NewTaskHandler(mockService, nil)), http.MethodGet, "/api/tasks", "")

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.IsSuccess)
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.Empty(t, env.ErrorMessages)

	var result []map[string]any
	require.NoError(t, json.Unmarshal(env.Result, &result))
	require.Len(t, result, 2)
	assert.Equal(t, "Write report", result[0]["title"])
	assert.Equal(t, "InProgress", result[0]["status"])
	mockService.AssertExpectations(t)
}

// TestTaskHandler_GetTask тестирует получение задачи по ID
func TestTaskHandler_GetTask(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockTaskService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "success - get task",
			path: "/api/tasks/7",
			setupMock: func(m *MockTaskService) {
				m.On("GetTask", mock.Anything, int64(7)).Return(sampleTask(7), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "error - non numeric id",
			path:           "/api/tasks/abc",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "error - zero id",
			path: "/api/tasks/0",
			setupMock: func(m *MockTaskService) {
				m.On("GetTask", mock.Anything, int64(0)).
					Return(nil, service.NewInvalidArgument("id", "ID cannot be null"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "ID cannot be null",
		},
		{
			name: "error - task not found",
			path: "/api/tasks/99",
			setupMock: func(m *MockTaskService) {
				m.On("GetTask", mock.Anything, int64(99)).Return(nil, service.NewNotFound(99))
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "Task 99 not found.",
		},
		{
			name: "error - unexpected error",
			path: "/api/tasks/5",
			setupMock: func(m *MockTaskService) {
				m.On("GetTask", mock.Anything, int64(5)).Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			w := doRequest(t, newRouter(handlers.NewTaskHandler(mockService, nil)), http.MethodGet, tt.path, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			env := decodeEnvelope(t, w)
			assert.Equal(t, tt.expectedStatus, env.StatusCode)
			assert.Equal(t, tt.expectedStatus == http.StatusOK, env.IsSuccess)
			if tt.expectedError != "" {
				assert.Contains(t, env.ErrorMessages, tt.expectedError)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_ListTasksByPeriod(t *testing.T) {
	mockService := new(MockTaskService)
	mockService.On("ListTasksByPeriod", mock.Anything, "nextday").Return([]*task.Task{sampleTask(3)}, nil)

	w := doRequest(t, newRouter(handlers.NewTaskHandler(mockService, nil)), http.MethodGet, "/api/tasks/incoming/nextday", "")

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

// TestTaskHandler_UpsertTask тестирует создание и замену задачи
func TestTaskHandler_UpsertTask(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		contentType    string
		setupMock      func(*MockTaskService)
		expectedStatus int
		expectBody     bool
	}{
		{
			name:        "success - created",
			body:        `{"id":0,"title":"A","description":"B","expirationDate":"2030-01-01T00:00:00Z"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("UpsertTask", mock.Anything, mock.MatchedBy(func(d *task.Draft) bool {
					return d.ID == 0 && d.Title == "A" && d.Description == "B"
				})).Return(&service.UpsertResult{Outcome: service.OutcomeCreated, Task: sampleTask(11)}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectBody:     true,
		},
		{
			name:        "success - replaced",
			body:        `{"id":11,"title":"A","description":"B","expirationDate":"2030-01-01T00:00:00Z"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("UpsertTask", mock.Anything, mock.MatchedBy(func(d *task.Draft) bool {
					return d.ID == 11
				})).Return(&service.UpsertResult{Outcome: service.OutcomeNoContent}, nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:        "error - null payload",
			body:        `null`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("UpsertTask", mock.Anything, (*task.Draft)(nil)).
					Return(nil, service.NewInvalidArgument("task", "Task payload is required."))
			},
			expectedStatus: http.StatusBadRequest,
			expectBody:     true,
		},
		{
			name:           "error - invalid JSON",
			body:           `{invalid json}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
			expectBody:     true,
		},
		{
			name:           "error - invalid content type",
			body:           `{}`,
			contentType:    "text/plain",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusUnsupportedMediaType,
			expectBody:     true,
		},
		{
			name:        "error - store failure",
			body:        `{"id":0,"title":"A","description":"B","expirationDate":"2030-01-01T00:00:00Z"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("UpsertTask", mock.Anything, mock.Anything).
					Return(nil, service.NewBusinessError(service.CodePersistence, []string{"The store rejected the operation."}))
			},
			expectedStatus: http.StatusInternalServerError,
			expectBody:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)
			router := newRouter(handlers.NewTaskHandler(mockService, nil))

			req := httptest.NewRequest(http.MethodPost, "/api/tasks/upsert", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectBody {
				env := decodeEnvelope(t, w)
				assert.Equal(t, tt.expectedStatus, env.StatusCode)
			} else {
				assert.Zero(t, w.Body.Len())
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_CreateTask(t *testing.T) {
	mockService := new(MockTaskService)
	mockService.On("CreateTask", mock.Anything, mock.MatchedBy(func(d *task.Draft) bool {
		return d.Title == "A"
	})).Return(sampleTask(21), nil)

	w := doRequest(t, newRouter(handlers.NewTaskHandler(mockService, nil)), http.MethodPost, "/api/tasks",
		`{"title":"A","description":"B","expirationDate":"2030-01-01T00:00:00Z"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	var result map[string]any
	require.NoError(t, json.Unmarshal(env.Result, &result))
	assert.EqualValues(t, 21, result["id"])
	mockService.AssertExpectations(t)
}

func TestTaskHandler_UpdateTask(t *testing.T) {
	mockService := new(MockTaskService)
	mockService.On("UpdateTask", mock.Anything, mock.MatchedBy(func(d *task.Draft) bool {
		return d.ID == 4 && d.Title == "New"
	})).Return(nil)

	w := doRequest(t, newRouter(handlers.NewTaskHandler(mockService, nil)), http.MethodPut, "/api/tasks/4",
		`{"title":"New","description":"D","expirationDate":"2030-01-01T00:00:00Z"}`)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
	mockService.AssertExpectations(t)
}

func TestTaskHandler_UpdatePercentage(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "success", err: nil, expectedStatus: http.StatusNoContent},
		{name: "error - out of range", err: service.NewInvalidArgument("percentage", "Percentage must be between 0 and 100."), expectedStatus: http.StatusBadRequest},
		{name: "error - not found", err: service.NewNotFound(3), expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			mockService.On("UpdatePercentage", mock.Anything, &task.PercentageUpdate{ID: 3, Percentage: 40}).Return(tt.err)

			w := doRequest(t, newRouter(handlers.NewTaskHandler(mockService, nil)), http.MethodPatch,
				"/api/tasks/update-percentage", `{"id":3,"percentage":40}`)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_MarkAsDone(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "success", err: nil, expectedStatus: http.StatusNoContent},
		{name: "error - already done", err: service.NewAlreadyDone(8), expectedStatus: http.StatusBadRequest},
		{name: "error - not found", err: service.NewNotFound(8), expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			mockService.On("MarkAsDone", mock.Anything, int64(8)).Return(tt.err)

			w := doRequest(t, newRouter(handlers.NewTaskHandler(mockService, nil)), http.MethodPatch, "/api/tasks/markAsDone/8", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.err != nil {
				env := decodeEnvelope(t, w)
				assert.False(t, env.IsSuccess)
				assert.NotEmpty(t, env.ErrorMessages)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	mockService := new(MockTaskService)
	mockService.On("DeleteTask", mock.Anything, int64(12)).Return(nil)

	w := doRequest(t, newRouter(handlers.NewTaskHandler(mockService, nil)), http.MethodDelete, "/api/tasks/12", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
	mockService.AssertExpectations(t)
}
