package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"todoService/internal/models/todo"
	repo "todoService/internal/repository"
	"todoService/internal/repository/inter"

	"github.com/google/uuid"
)

type TodoStorage struct {
	storage map[uuid.UUID]*todo.Todo
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTodoStorage() *TodoStorage {
	return &TodoStorage{
		storage: make(map[uuid.UUID]*todo.Todo),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TodoStorage) HealthCheck(ctx context.Context) error {
	return nil
}

// наружу и внутрь ходят только копии: правки возвращённой записи
// не должны менять хранилище в обход Update
func cloneTodo(t *todo.Todo) *todo.Todo {
	c := *t
	c.Tags = append([]string{}, t.Tags...)
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	if t.UpdatedAt != nil {
		updated := *t.UpdatedAt
		c.UpdatedAt = &updated
	}
	return &c
}

func (s *TodoStorage) Create(ctx context.Context, todoToCreate *todo.Todo) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	todoToCreate.CreatedAt = time.Now()

	s.storage[todoToCreate.UUID] = cloneTodo(todoToCreate)
	s.ids = append(s.ids, todoToCreate.UUID)
	return nil
}

func (s *TodoStorage) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	todoToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneTodo(todoToGet), nil
}

func (s *TodoStorage) Update(ctx context.Context, todoToUpdate *todo.Todo) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[todoToUpdate.UUID]; !ok {
		return repo.ErrNotFound
	}

	now := time.Now()
	todoToUpdate.UpdatedAt = &now
	s.storage[todoToUpdate.UUID] = cloneTodo(todoToUpdate)
	return nil
}

func (s *TodoStorage) Delete(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	deleted, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return deleted, nil
}

func (s *TodoStorage) DeleteCompleted(ctx context.Context) (int64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	var count int64
	remaining := s.ids[:0]
	for _, id := range s.ids {
		if s.storage[id].Completed {
			delete(s.storage, id)
			count++
			continue
		}
		remaining = append(remaining, id)
	}
	s.ids = remaining

	return count, nil
}

func matchesFilter(t *todo.Todo, filter inter.TodoFilter) bool {
	if filter.Completed != nil && t.Completed != *filter.Completed {
		return false
	}
	if filter.Priority != nil && t.Priority != *filter.Priority {
		return false
	}
	if filter.Category != nil && t.Category != *filter.Category {
		return false
	}
	return true
}

// сравнение по возрастанию для заданного поля сортировки
func lessBy(a, b *todo.Todo, by string) bool {
	switch by {
	case "dueDate":
		switch {
		case a.DueDate == nil:
			return b.DueDate != nil
		case b.DueDate == nil:
			return false
		default:
			return a.DueDate.Before(*b.DueDate)
		}
	case "updatedAt":
		switch {
		case a.UpdatedAt == nil:
			return b.UpdatedAt != nil
		case b.UpdatedAt == nil:
			return false
		default:
			return a.UpdatedAt.Before(*b.UpdatedAt)
		}
	case "priority":
		return a.Priority < b.Priority
	case "task":
		return a.Task < b.Task
	case "category":
		return a.Category < b.Category
	case "completed":
		return !a.Completed && b.Completed
	default: // createdAt
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

func (s *TodoStorage) List(ctx context.Context, filter inter.TodoFilter, sortOpt inter.TodoSort, page, limit int) ([]*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	filtered := []*todo.Todo{}
	for _, id := range s.ids {
		t := s.storage[id]
		if matchesFilter(t, filter) {
			filtered = append(filtered, cloneTodo(t))
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if sortOpt.Desc {
			return lessBy(filtered[j], filtered[i], sortOpt.By)
		}
		return lessBy(filtered[i], filtered[j], sortOpt.By)
	})

	offset := (page - 1) * limit
	if offset >= len(filtered) {
		return []*todo.Todo{}, nil
	}

	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], nil
}

func (s *TodoStorage) Count(ctx context.Context, filter inter.TodoFilter) (int64, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var total int64
	for _, id := range s.ids {
		if matchesFilter(s.storage[id], filter) {
			total++
		}
	}
	return total, nil
}

func (s *TodoStorage) GetOverdue(ctx context.Context, now time.Time) ([]*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	overdue := []*todo.Todo{}
	for _, id := range s.ids {
		t := s.storage[id]
		if !t.Completed && t.DueDate != nil && t.DueDate.Before(now) {
			overdue = append(overdue, cloneTodo(t))
		}
	}

	sort.SliceStable(overdue, func(i, j int) bool {
		return overdue[i].DueDate.Before(*overdue[j].DueDate)
	})

	return overdue, nil
}

func (s *TodoStorage) GetByPriority(ctx context.Context, priority todo.Priority) ([]*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	todos := []*todo.Todo{}
	for _, id := range s.ids {
		t := s.storage[id]
		if t.Priority == priority {
			todos = append(todos, cloneTodo(t))
		}
	}
	return todos, nil
}
