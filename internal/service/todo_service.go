package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todoService/internal/logger"
	"todoService/internal/models/todo"
	repo "todoService/internal/repository"
	"todoService/internal/repository/inter"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит валидация и проверка ошибок бизнес-логики

type TodoService struct {
	repo inter.TodoRepository
}

func NewTodoService(repo inter.TodoRepository) TodoService {
	return TodoService{
		repo: repo,
	}
}

type NewTodo struct {
	Task     string
	Priority string
	DueDate  *time.Time
	Category string
	Tags     []string
	Notes    string
}

// OptionalTime различает три состояния поля: ключ отсутствует,
// явный null (сбросить значение) и явное значение
type OptionalTime struct {
	Present bool
	Value   *time.Time
}

// TodoPatch: nil-поле не трогает сохранённое значение
type TodoPatch struct {
	Task      *string
	Completed *bool
	Priority  *string
	DueDate   OptionalTime
	Category  *string
	Tags      *[]string
	Notes     *string
}

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

type ListParams struct {
	Completed *bool
	Priority  *string
	Category  *string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

func validateTodo(t *todo.Todo) []string {
	violations := []string{}

	if t.Task == "" {
		violations = append(violations, "Task is required")
	}
	if len([]rune(t.Task)) > todo.TaskMaxLength {
		violations = append(violations, fmt.Sprintf("Task cannot exceed %d characters", todo.TaskMaxLength))
	}
	if !t.Priority.IsValid() {
		violations = append(violations, "Priority must be one of: low, medium, high")
	}
	if len([]rune(t.Notes)) > todo.NotesMaxLength {
		violations = append(violations, fmt.Sprintf("Notes cannot exceed %d characters", todo.NotesMaxLength))
	}

	return violations
}

func (s *TodoService) CreateTodo(ctx context.Context, input NewTodo) (*todo.Todo, error) {
	t := &todo.Todo{
		UUID:      uuid.New(),
		Task:      strings.TrimSpace(input.Task),
		Completed: false,
		Priority:  todo.Priority(input.Priority),
		DueDate:   input.DueDate,
		Category:  strings.TrimSpace(input.Category),
		Tags:      todo.NormalizeTags(input.Tags),
		Notes:     strings.TrimSpace(input.Notes),
	}

	if t.Priority == "" {
		t.Priority = todo.PriorityMedium
	}
	if t.Category == "" {
		t.Category = todo.DefaultCategory
	}

	if violations := validateTodo(t); len(violations) > 0 {
		logger.Info("Service: Ошибка валидации", zap.Strings("fields", violations))
		return nil, NewValidationError(violations)
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}
	return t, nil
}

func (s *TodoService) GetTodoByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("Todo not found", err)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

// частичное обновление: применяются только присутствующие поля, затем повторная валидация
func (s *TodoService) UpdateTodo(ctx context.Context, id uuid.UUID, patch TodoPatch) (*todo.Todo, error) {
	t, err := s.GetTodoByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Task != nil {
		t.Task = strings.TrimSpace(*patch.Task)
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	if patch.Priority != nil {
		t.Priority = todo.Priority(*patch.Priority)
	}
	if patch.DueDate.Present {
		t.DueDate = patch.DueDate.Value
	}
	if patch.Category != nil {
		t.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Tags != nil {
		t.Tags = todo.NormalizeTags(*patch.Tags)
	}
	if patch.Notes != nil {
		t.Notes = strings.TrimSpace(*patch.Notes)
	}

	if violations := validateTodo(t); len(violations) > 0 {
		logger.Info("Service: Ошибка валидации", zap.Strings("fields", violations))
		return nil, NewValidationError(violations)
	}

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound("Todo not found", err)
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return t, nil
}

func (s *TodoService) ToggleTodo(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	t, err := s.GetTodoByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Completed = !t.Completed

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound("Todo not found", err)
		}
		return nil, fmt.Errorf("переключение задачи: %w", err)
	}
	return t, nil
}

func (s *TodoService) DeleteTodo(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("Todo not found", err)
		}
		return nil, fmt.Errorf("удаление задачи: %w", err)
	}
	return deleted, nil
}

// ноль удалённых — не ошибка
func (s *TodoService) DeleteCompleted(ctx context.Context) (int64, error) {
	count, err := s.repo.DeleteCompleted(ctx)
	if err != nil {
		return 0, fmt.Errorf("удаление выполненных задач: %w", err)
	}

	logger.Info("Service: Выполненные задачи удалены", zap.Int64("count", count))
	return count, nil
}

// срез и общее количество считаются двумя независимыми запросами,
// согласованность между ними при параллельной записи не гарантируется
func (s *TodoService) ListTodos(ctx context.Context, params ListParams) ([]*todo.Todo, Pagination, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 50
	}

	filter := inter.TodoFilter{
		Completed: params.Completed,
		Category:  params.Category,
	}
	if params.Priority != nil {
		p := todo.Priority(*params.Priority)
		filter.Priority = &p
	}

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	sort := inter.TodoSort{
		By:   sortBy,
		Desc: params.SortOrder != "asc",
	}

	todos, err := s.repo.List(ctx, filter, sort, params.Page, params.Limit)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("получение задач: %w", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("подсчёт задач: %w", err)
	}

	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))

	pagination := Pagination{
		CurrentPage:  params.Page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: params.Limit,
	}
	return todos, pagination, nil
}

func (s *TodoService) GetOverdueTodos(ctx context.Context) ([]*todo.Todo, error) {
	todos, err := s.repo.GetOverdue(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("получение просроченных задач: %w", err)
	}
	return todos, nil
}

func (s *TodoService) GetTodosByPriority(ctx context.Context, level string) ([]*todo.Todo, error) {
	priority := todo.Priority(level)
	if !priority.IsValid() {
		return nil, NewValidationError([]string{"Priority must be one of: low, medium, high"})
	}

	todos, err := s.repo.GetByPriority(ctx, priority)
	if err != nil {
		return nil, fmt.Errorf("получение задач по приоритету: %w", err)
	}
	return todos, nil
}

func (s *TodoService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}
