package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"todoService/internal/handlers/dto"
	"todoService/internal/logger"
	"todoService/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TodoHandler struct {
	TodoService TodoService
}

func NewTodoHandler(todoService TodoService) TodoHandler {
	return TodoHandler{
		TodoService: todoService,
	}
}

func parseTodoID(r *http.Request) (uuid.UUID, error) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("не удалось получить id: %w", err)
	}
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("id не может быть пустым")
	}
	return id, nil
}

func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	q := r.URL.Query()
	params := service.ListParams{
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	if v := q.Get("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "completed"),
				zap.Error(err),
				zap.String("client_ip", r.RemoteAddr))
			responseWithError(w, http.StatusBadRequest, "неверное значение completed")
			return
		}
		params.Completed = &completed
	}
	if v := q.Get("priority"); v != "" {
		params.Priority = &v
	}
	if v := q.Get("category"); v != "" {
		params.Category = &v
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "limit"),
				zap.String("client_ip", r.RemoteAddr))
			responseWithError(w, http.StatusBadRequest, "неверное значение limit")
			return
		}
		params.Limit = limit
	}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "page"),
				zap.String("client_ip", r.RemoteAddr))
			responseWithError(w, http.StatusBadRequest, "неверное значение page")
			return
		}
		params.Page = page
	}

	todos, pagination, err := h.TodoService.ListTodos(r.Context(), params)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "list_todos"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "Failed to fetch todos")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(todos)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.ListTodosResponse{
		Todos:      dto.FromTodoList(todos),
		Pagination: pagination,
	})
}

func (h *TodoHandler) GetOverdueTodos(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	todos, err := h.TodoService.GetOverdueTodos(r.Context())
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "get_overdue_todos"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "Failed to fetch overdue todos")
		return
	}

	logger.Info("HTTP_OUT: Просроченные задачи получены",
		zap.Int("count", len(todos)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTodoList(todos))
}

func (h *TodoHandler) GetTodosByPriority(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	level := chi.URLParam(r, "level")

	todos, err := h.TodoService.GetTodosByPriority(r.Context(), level)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "get_todos_by_priority"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "Failed to fetch todos by priority")
		return
	}

	logger.Info("HTTP_OUT: Задачи по приоритету получены",
		zap.String("priority", level),
		zap.Int("count", len(todos)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTodoList(todos))
}

func (h *TodoHandler) GetTodoByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := parseTodoID(r)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.TodoService.GetTodoByID(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "get_todo"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "Failed to fetch todo")
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.String("todo_id", t.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTodo(t))
}

func (h *TodoHandler) PostTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}
	defer r.Body.Close()

	t, err := h.TodoService.CreateTodo(r.Context(), request.ToNewTodo())
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_todo"),
			zap.String("client_ip", r.RemoteAddr),
			zap.Duration("ms", time.Since(start)))
		responseWithError(w, http.StatusInternalServerError, "Failed to add todo")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("todo_id", t.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, dto.FromTodo(t))
}

func (h *TodoHandler) UpdateTodoByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := parseTodoID(r)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var request dto.UpdateTodoRequest
	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	t, err := h.TodoService.UpdateTodo(r.Context(), id, request.ToPatch())
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "update_todo"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "Failed to update todo")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("todo_id", t.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTodo(t))
}

func (h *TodoHandler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := parseTodoID(r)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.TodoService.ToggleTodo(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "toggle_todo"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "Failed to toggle todo")
		return
	}

	logger.Info("HTTP_OUT: Статус задачи переключён",
		zap.String("todo_id", t.UUID.String()),
		zap.Bool("completed", t.Completed),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTodo(t))
}

func (h *TodoHandler) DeleteTodoByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := parseTodoID(r)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.TodoService.DeleteTodo(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "delete_todo"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "Failed to delete todo")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("todo_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.DeleteTodoResponse{
		Message:     "Todo deleted successfully",
		DeletedTodo: dto.FromTodo(deleted),
	})
}

func (h *TodoHandler) DeleteCompletedTodos(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	count, err := h.TodoService.DeleteCompleted(r.Context())
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "delete_completed_todos"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "Failed to bulk delete todos")
		return
	}

	logger.Info("HTTP_OUT: Выполненные задачи удалены",
		zap.Int64("count", count),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("%d completed todos deleted successfully", count),
	})
}

func (h *TodoHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := h.TodoService.HealthCheck(r.Context()); err != nil {
		responseWithJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "unavailable",
			"service": "todo-service",
		})
		return
	}

	responseWithJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "todo-service",
	})
}
