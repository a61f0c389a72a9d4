package handlers

import (
	"context"

	"todoService/internal/models/todo"
	"todoService/internal/models/video"
	"todoService/internal/service"

	"github.com/google/uuid"
)

type TodoService interface {
	CreateTodo(ctx context.Context, input service.NewTodo) (*todo.Todo, error)
	GetTodoByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error)
	UpdateTodo(ctx context.Context, id uuid.UUID, patch service.TodoPatch) (*todo.Todo, error)
	ToggleTodo(ctx context.Context, id uuid.UUID) (*todo.Todo, error)
	DeleteTodo(ctx context.Context, id uuid.UUID) (*todo.Todo, error)
	DeleteCompleted(ctx context.Context) (int64, error)
	ListTodos(ctx context.Context, params service.ListParams) ([]*todo.Todo, service.Pagination, error)
	GetOverdueTodos(ctx context.Context) ([]*todo.Todo, error)
	GetTodosByPriority(ctx context.Context, level string) ([]*todo.Todo, error)
	HealthCheck(ctx context.Context) error
}

type VideoService interface {
	Upload(ctx context.Context, data []byte, originalName, mimeType string) (*service.UploadResult, error)
	GetVideo(ctx context.Context, id int64) ([]byte, error)
	ListVideos(ctx context.Context) ([]video.VideoInfo, error)
	HealthCheck(ctx context.Context) error
}
