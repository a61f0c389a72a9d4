package inter

import (
	"context"
	"time"

	"todoService/internal/models/todo"
	"todoService/internal/models/video"

	"github.com/google/uuid"
)

type TodoFilter struct {
	Completed *bool
	Priority  *todo.Priority
	Category  *string
}

type TodoSort struct {
	By   string // имя поля в формате API: createdAt, dueDate, priority...
	Desc bool
}

type TodoRepository interface {
	Create(ctx context.Context, t *todo.Todo) error
	GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error)
	Update(ctx context.Context, t *todo.Todo) error
	Delete(ctx context.Context, id uuid.UUID) (*todo.Todo, error)
	DeleteCompleted(ctx context.Context) (int64, error)
	List(ctx context.Context, filter TodoFilter, sort TodoSort, page, limit int) ([]*todo.Todo, error)
	Count(ctx context.Context, filter TodoFilter) (int64, error)
	GetOverdue(ctx context.Context, now time.Time) ([]*todo.Todo, error)
	GetByPriority(ctx context.Context, priority todo.Priority) ([]*todo.Todo, error)
	HealthCheck(ctx context.Context) error
}

type VideoRepository interface {
	Create(ctx context.Context, data []byte) (int64, error)
	GetByID(ctx context.Context, id int64) ([]byte, error)
	List(ctx context.Context) ([]video.VideoInfo, error)
	HealthCheck(ctx context.Context) error
}
