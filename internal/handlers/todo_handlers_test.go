package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todoService/internal/handlers"
	"todoService/internal/logger"
	"todoService/internal/models/todo"
	"todoService/internal/models/video"
	"todoService/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	m.Run()
}

// MockTodoService - мок сервиса задач
type MockTodoService struct {
	mock.Mock
}

func (m *MockTodoService) CreateTodo(ctx context.Context, input service.NewTodo) (*todo.Todo, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) GetTodoByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) UpdateTodo(ctx context.Context, id uuid.UUID, patch service.TodoPatch) (*todo.Todo, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) ToggleTodo(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) DeleteTodo(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) DeleteCompleted(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTodoService) ListTodos(ctx context.Context, params service.ListParams) ([]*todo.Todo, service.Pagination, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, service.Pagination{}, args.Error(2)
	}
	return args.Get(0).([]*todo.Todo), args.Get(1).(service.Pagination), args.Error(2)
}

func (m *MockTodoService) GetOverdueTodos(ctx context.Context) ([]*todo.Todo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*todo.Todo), args.Error(1)
}

func (m *MockTodoService) GetTodosByPriority(ctx context.Context, level string) ([]*todo.Todo, error) {
	args := m.Called(ctx, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*todo.Todo), args.Error(1)
}

func (m *MockTodoService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ handlers.TodoService = (*MockTodoService)(nil)

// MockVideoService - мок сервиса видео
type MockVideoService struct {
	mock.Mock
}

func (m *MockVideoService) Upload(ctx context.Context, data []byte, originalName, mimeType string) (*service.UploadResult, error) {
	args := m.Called(ctx, data, originalName, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockVideoService) GetVideo(ctx context.Context, id int64) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockVideoService) ListVideos(ctx context.Context) ([]video.VideoInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]video.VideoInfo), args.Error(1)
}

func (m *MockVideoService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ handlers.VideoService = (*MockVideoService)(nil)

// роуты поднимаются так же, как в app, чтобы работал chi.URLParam
func newTodoRouter(mockService *MockTodoService) *chi.Mux {
	handler := handlers.NewTodoHandler(mockService)

	r := chi.NewRouter()
	r.Route("/api/todos", func(r chi.Router) {
		r.Get("/", handler.ListTodos)
		r.Post("/", handler.PostTodo)
		r.Get("/overdue", handler.GetOverdueTodos)
		r.Get("/priority/{level}", handler.GetTodosByPriority)
		r.Delete("/bulk/completed", handler.DeleteCompletedTodos)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handler.GetTodoByID)
			r.Put("/", handler.UpdateTodoByID)
			r.Patch("/toggle", handler.ToggleTodo)
			r.Delete("/", handler.DeleteTodoByID)
		})
	})
	r.Get("/health", handler.HealthCheck)
	return r
}

func sampleTodo() *todo.Todo {
	past := time.Now().Add(-24 * time.Hour)
	return &todo.Todo{
		UUID:      uuid.New(),
		Task:      "buy milk",
		Completed: false,
		Priority:  todo.PriorityHigh,
		DueDate:   &past,
		Category:  "shopping",
		Tags:      []string{"errands"},
		CreatedAt: time.Now(),
	}
}

func TestTodoHandler_PostTodo(t *testing.T) {
	t.Run("created with derived fields", func(t *testing.T) {
		created := sampleTodo()

		mockService := new(MockTodoService)
		mockService.On("CreateTodo", mock.Anything, mock.Anything).Return(created, nil)
		router := newTodoRouter(mockService)

		body := bytes.NewBufferString(`{"task": "buy milk", "priority": "high", "category": "shopping"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/todos/", body)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "buy milk", response["task"])
		assert.Equal(t, true, response["isOverdue"])
		assert.Contains(t, response, "daysUntilDue")
		mockService.AssertExpectations(t)
	})

	t.Run("validation error - 400 with details", func(t *testing.T) {
		mockService := new(MockTodoService)
		mockService.On("CreateTodo", mock.Anything, mock.Anything).
			Return(nil, service.NewValidationError([]string{"Task is required"}))
		router := newTodoRouter(mockService)

		req := httptest.NewRequest(http.MethodPost, "/api/todos/", bytes.NewBufferString(`{"task": ""}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var response struct {
			Error   string   `json:"error"`
			Details []string `json:"details"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "Validation failed", response.Error)
		assert.Equal(t, []string{"Task is required"}, response.Details)
	})

	t.Run("malformed body - 400", func(t *testing.T) {
		mockService := new(MockTodoService)
		router := newTodoRouter(mockService)

		req := httptest.NewRequest(http.MethodPost, "/api/todos/", bytes.NewBufferString(`{not json`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "CreateTodo")
	})
}

func TestTodoHandler_GetTodoByID(t *testing.T) {
	t.Run("unknown id - 404", func(t *testing.T) {
		mockService := new(MockTodoService)
		mockService.On("GetTodoByID", mock.Anything, mock.Anything).
			Return(nil, service.NewNotFound("Todo not found", nil))
		router := newTodoRouter(mockService)

		req := httptest.NewRequest(http.MethodGet, "/api/todos/"+uuid.NewString()+"/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)

		var response map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "Todo not found", response["error"])
	})

	t.Run("malformed id - 400", func(t *testing.T) {
		mockService := new(MockTodoService)
		router := newTodoRouter(mockService)

		req := httptest.NewRequest(http.MethodGet, "/api/todos/not-a-uuid/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "GetTodoByID")
	})
}

func TestTodoHandler_ListTodos(t *testing.T) {
	t.Run("filters and pagination passed through", func(t *testing.T) {
		mockService := new(MockTodoService)
		mockService.On("ListTodos", mock.Anything, mock.MatchedBy(func(p service.ListParams) bool {
			return p.Completed != nil && *p.Completed &&
				p.Priority != nil && *p.Priority == "high" &&
				p.Limit == 10 && p.Page == 2
		})).Return([]*todo.Todo{}, service.Pagination{CurrentPage: 2, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10}, nil)
		router := newTodoRouter(mockService)

		req := httptest.NewRequest(http.MethodGet, "/api/todos/?completed=true&priority=high&limit=10&page=2", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var response struct {
			Todos      []any `json:"todos"`
			Pagination struct {
				CurrentPage  int   `json:"currentPage"`
				TotalPages   int   `json:"totalPages"`
				TotalItems   int64 `json:"totalItems"`
				ItemsPerPage int   `json:"itemsPerPage"`
			} `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, 3, response.Pagination.TotalPages)
		assert.Equal(t, int64(25), response.Pagination.TotalItems)
		mockService.AssertExpectations(t)
	})

	t.Run("bad completed value - 400", func(t *testing.T) {
		mockService := new(MockTodoService)
		router := newTodoRouter(mockService)

		req := httptest.NewRequest(http.MethodGet, "/api/todos/?completed=maybe", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "ListTodos")
	})

	t.Run("non-positive limit - 400", func(t *testing.T) {
		mockService := new(MockTodoService)
		router := newTodoRouter(mockService)

		req := httptest.NewRequest(http.MethodGet, "/api/todos/?limit=0", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTodoHandler_GetTodosByPriority(t *testing.T) {
	t.Run("bare array response", func(t *testing.T) {
		mockService := new(MockTodoService)
		mockService.On("GetTodosByPriority", mock.Anything, "high").
			Return([]*todo.Todo{sampleTodo()}, nil)
		router := newTodoRouter(mockService)

		req := httptest.NewRequest(http.MethodGet, "/api/todos/priority/high", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var response []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Len(t, response, 1)
	})

	t.Run("invalid level - 400", func(t *testing.T) {
		mockService := new(MockTodoService)
		mockService.On("GetTodosByPriority", mock.Anything, "urgent").
			Return(nil, service.NewValidationError([]string{"Priority must be one of: low, medium, high"}))
		router := newTodoRouter(mockService)

		req := httptest.NewRequest(http.MethodGet, "/api/todos/priority/urgent", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTodoHandler_ToggleTodo(t *testing.T) {
	toggled := sampleTodo()
	toggled.Completed = true

	mockService := new(MockTodoService)
	mockService.On("ToggleTodo", mock.Anything, toggled.UUID).Return(toggled, nil)
	router := newTodoRouter(mockService)

	req := httptest.NewRequest(http.MethodPatch, "/api/todos/"+toggled.UUID.String()+"/toggle", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, true, response["completed"])
}

func TestTodoHandler_DeleteTodoByID(t *testing.T) {
	t.Run("deleted record echoed", func(t *testing.T) {
		deleted := sampleTodo()

		mockService := new(MockTodoService)
		mockService.On("DeleteTodo", mock.Anything, deleted.UUID).Return(deleted, nil)
		router := newTodoRouter(mockService)

		req := httptest.NewRequest(http.MethodDelete, "/api/todos/"+deleted.UUID.String()+"/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var response struct {
			Message     string         `json:"message"`
			DeletedTodo map[string]any `json:"deletedTodo"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "Todo deleted successfully", response.Message)
		assert.Equal(t, deleted.Task, response.DeletedTodo["task"])
	})

	t.Run("unknown id - 404, not 500", func(t *testing.T) {
		mockService := new(MockTodoService)
		mockService.On("DeleteTodo", mock.Anything, mock.Anything).
			Return(nil, service.NewNotFound("Todo not found", nil))
		router := newTodoRouter(mockService)

		req := httptest.NewRequest(http.MethodDelete, "/api/todos/"+uuid.NewString()+"/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTodoHandler_DeleteCompletedTodos(t *testing.T) {
	tests := []struct {
		name  string
		count int64
	}{
		{name: "several removed", count: 3},
		{name: "nothing to remove is still success", count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTodoService)
			mockService.On("DeleteCompleted", mock.Anything).Return(tt.count, nil)
			router := newTodoRouter(mockService)

			req := httptest.NewRequest(http.MethodDelete, "/api/todos/bulk/completed", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)

			var response map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.Equal(t, fmt.Sprintf("%d completed todos deleted successfully", tt.count), response["message"])
		})
	}
}

func TestTodoHandler_HealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		mockService := new(MockTodoService)
		mockService.On("HealthCheck", mock.Anything).Return(nil)
		router := newTodoRouter(mockService)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("store unreachable - 503", func(t *testing.T) {
		mockService := new(MockTodoService)
		mockService.On("HealthCheck", mock.Anything).Return(assert.AnError)
		router := newTodoRouter(mockService)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
