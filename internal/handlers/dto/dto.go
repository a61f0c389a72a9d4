package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"todoService/internal/models/todo"
	"todoService/internal/models/video"
	"todoService/internal/service"

	"github.com/google/uuid"
)

// принимаем и RFC3339, и короткую дату вида 2020-01-01
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("неверный формат даты: %q", s)
}

type DateTime struct {
	time.Time
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	t, err := parseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// NullableTime различает отсутствующий ключ, явный null и значение:
// UnmarshalJSON вызывается только если ключ присутствует в теле
type NullableTime struct {
	Present bool
	Valid   bool
	Time    time.Time
}

func (n *NullableTime) UnmarshalJSON(b []byte) error {
	n.Present = true

	if string(b) == "null" {
		n.Valid = false
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	t, err := parseDate(s)
	if err != nil {
		return err
	}
	n.Valid = true
	n.Time = t
	return nil
}

type CreateTodoRequest struct {
	Task     string    `json:"task"`
	Priority string    `json:"priority"`
	DueDate  *DateTime `json:"dueDate"`
	Category string    `json:"category"`
	Tags     []string  `json:"tags"`
	Notes    string    `json:"notes"`
}

func (r *CreateTodoRequest) ToNewTodo() service.NewTodo {
	input := service.NewTodo{
		Task:     r.Task,
		Priority: r.Priority,
		Category: r.Category,
		Tags:     r.Tags,
		Notes:    r.Notes,
	}
	if r.DueDate != nil {
		due := r.DueDate.Time
		input.DueDate = &due
	}
	return input
}

type UpdateTodoRequest struct {
	Task      *string      `json:"task"`
	Completed *bool        `json:"completed"`
	Priority  *string      `json:"priority"`
	DueDate   NullableTime `json:"dueDate"`
	Category  *string      `json:"category"`
	Tags      *[]string    `json:"tags"`
	Notes     *string      `json:"notes"`
}

func (r *UpdateTodoRequest) ToPatch() service.TodoPatch {
	patch := service.TodoPatch{
		Task:      r.Task,
		Completed: r.Completed,
		Priority:  r.Priority,
		Category:  r.Category,
		Tags:      r.Tags,
		Notes:     r.Notes,
	}
	if r.DueDate.Present {
		patch.DueDate.Present = true
		if r.DueDate.Valid {
			due := r.DueDate.Time
			patch.DueDate.Value = &due
		}
	}
	return patch
}

type TodoResponse struct {
	ID           uuid.UUID  `json:"id"`
	Task         string     `json:"task"`
	Completed    bool       `json:"completed"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	Category     string     `json:"category"`
	Tags         []string   `json:"tags"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
	IsOverdue    bool       `json:"isOverdue"`
	DaysUntilDue *int       `json:"daysUntilDue,omitempty"`
}

func FromTodo(t *todo.Todo) TodoResponse {
	now := time.Now()
	return TodoResponse{
		ID:           t.UUID,
		Task:         t.Task,
		Completed:    t.Completed,
		Priority:     string(t.Priority),
		DueDate:      t.DueDate,
		Category:     t.Category,
		Tags:         t.Tags,
		Notes:        t.Notes,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		IsOverdue:    t.IsOverdue(now),
		DaysUntilDue: t.DaysUntilDue(now),
	}
}

func FromTodoList(todos []*todo.Todo) []TodoResponse {
	result := make([]TodoResponse, len(todos))
	for i, t := range todos {
		result[i] = FromTodo(t)
	}
	return result
}

type ListTodosResponse struct {
	Todos      []TodoResponse     `json:"todos"`
	Pagination service.Pagination `json:"pagination"`
}

type DeleteTodoResponse struct {
	Message     string       `json:"message"`
	DeletedTodo TodoResponse `json:"deletedTodo"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UploadVideoResponse struct {
	Message      string `json:"message"`
	VideoID      int64  `json:"videoId"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int    `json:"size"`
}

type VideoListResponse struct {
	Videos []video.VideoInfo `json:"videos"`
	Count  int               `json:"count"`
}
