package postgres

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
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TodoRepo struct {
	storage *Storage
}

func NewTodoRepo(storage *Storage) *TodoRepo {
	return &TodoRepo{storage: storage}
}

func (r *TodoRepo) HealthCheck(ctx context.Context) error {
	return r.storage.HealthCheck(ctx)
}

// разрешённые поля сортировки: имя в API -> колонка
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"priority":  "priority",
	"task":      "task",
	"completed": "completed",
	"category":  "category",
}

const todoColumns = `uuid,
				task,
				completed,
				priority,
				due_date,
				category,
				tags,
				notes,
				created_at,
				updated_at`

func scanTodo(row pgx.Row) (*todo.Todo, error) {
	t := &todo.Todo{}
	err := row.Scan(
		&t.UUID,
		&t.Task,
		&t.Completed,
		&t.Priority,
		&t.DueDate,
		&t.Category,
		&t.Tags,
		&t.Notes,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// условия WHERE и аргументы по заданному фильтру
func buildFilter(filter inter.TodoFilter) (string, []any) {
	conds := []string{}
	args := []any{}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		conds = append(conds, fmt.Sprintf("completed = $%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		conds = append(conds, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *TodoRepo) Create(ctx context.Context, todoToCreate *todo.Todo) error {
	start := time.Now()

	query := `INSERT INTO todos
				(uuid, task, completed, priority, due_date, category, tags, notes, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
				RETURNING created_at`

	err := r.storage.pool.QueryRow(ctx, query,
		todoToCreate.UUID,
		todoToCreate.Task,
		todoToCreate.Completed,
		todoToCreate.Priority,
		todoToCreate.DueDate,
		todoToCreate.Category,
		todoToCreate.Tags,
		todoToCreate.Notes,
	).Scan(&todoToCreate.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (r *TodoRepo) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	start := time.Now()

	query := `SELECT ` + todoColumns + `
				FROM todos
				WHERE uuid = $1`

	t, err := scanTodo(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return t, nil
}

func (r *TodoRepo) Update(ctx context.Context, todoToUpdate *todo.Todo) error {
	start := time.Now()

	query := `UPDATE todos
			SET task = $1,
				completed = $2,
				priority = $3,
				due_date = $4,
				category = $5,
				tags = $6,
				notes = $7,
				updated_at = NOW()
			WHERE uuid = $8
			RETURNING updated_at`

	err := r.storage.pool.QueryRow(ctx, query,
		todoToUpdate.Task,
		todoToUpdate.Completed,
		todoToUpdate.Priority,
		todoToUpdate.DueDate,
		todoToUpdate.Category,
		todoToUpdate.Tags,
		todoToUpdate.Notes,
		todoToUpdate.UUID,
	).Scan(&todoToUpdate.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// удаление с возвратом удалённой записи
func (r *TodoRepo) Delete(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	start := time.Now()

	query := `DELETE FROM todos
				WHERE uuid = $1
				RETURNING ` + todoColumns

	t, err := scanTodo(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("удаление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return t, nil
}

func (r *TodoRepo) DeleteCompleted(ctx context.Context) (int64, error) {
	start := time.Now()

	query := `DELETE FROM todos
				WHERE completed = TRUE`

	tag, err := r.storage.pool.Exec(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось удалить выполненные задачи", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("удаление выполненных задач: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *TodoRepo) List(ctx context.Context, filter inter.TodoFilter, sort inter.TodoSort, page, limit int) ([]*todo.Todo, error) {
	start := time.Now()

	where, args := buildFilter(filter)

	column, ok := sortColumns[sort.By]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}

	offset := (page - 1) * limit
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM todos%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		todoColumns, where, column, direction, len(args)-1, len(args))

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	todos := []*todo.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		todos = append(todos, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > time.Millisecond*50+time.Millisecond*10*time.Duration(limit) {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return todos, nil
}

// отдельный запрос от List; транзакционной согласованности между ними нет
func (r *TodoRepo) Count(ctx context.Context, filter inter.TodoFilter) (int64, error) {
	where, args := buildFilter(filter)

	var total int64
	query := `SELECT COUNT(*) FROM todos` + where
	err := r.storage.pool.QueryRow(ctx, query, args...).Scan(&total)
	if err != nil {
		logger.Error("Repository: Не удалось посчитать задачи", err)
		return 0, fmt.Errorf("подсчёт задач: %w", err)
	}

	return total, nil
}

func (r *TodoRepo) GetOverdue(ctx context.Context, now time.Time) ([]*todo.Todo, error) {
	start := time.Now()

	query := `SELECT ` + todoColumns + `
				FROM todos
				WHERE completed = FALSE
					AND due_date IS NOT NULL
					AND due_date < $1
				ORDER BY due_date ASC`

	rows, err := r.storage.pool.Query(ctx, query, now)
	if err != nil {
		logger.Error("Repository: Не удалось получить просроченные задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение просроченных задач: %w", err)
	}
	defer rows.Close()

	todos := []*todo.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		todos = append(todos, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return todos, nil
}

func (r *TodoRepo) GetByPriority(ctx context.Context, priority todo.Priority) ([]*todo.Todo, error) {
	start := time.Now()

	query := `SELECT ` + todoColumns + `
				FROM todos
				WHERE priority = $1`

	rows, err := r.storage.pool.Query(ctx, query, priority)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	todos := []*todo.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		todos = append(todos, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return todos, nil
}
