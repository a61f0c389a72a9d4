package todo_test

import (
	"testing"
	"time"

	"todoService/internal/models/todo"

	"github.com/stretchr/testify/assert"
)

func TestTodo_IsOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name     string
		todo     todo.Todo
		expected bool
	}{
		{
			name:     "overdue - due date in the past, not completed",
			todo:     todo.Todo{DueDate: &past, Completed: false},
			expected: true,
		},
		{
			name:     "not overdue - due date in the past, completed",
			todo:     todo.Todo{DueDate: &past, Completed: true},
			expected: false,
		},
		{
			name:     "not overdue - due date in the future",
			todo:     todo.Todo{DueDate: &future, Completed: false},
			expected: false,
		},
		{
			name:     "not overdue - no due date",
			todo:     todo.Todo{Completed: false},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.todo.IsOverdue(now))
		})
	}
}

func TestTodo_DaysUntilDue(t *testing.T) {
	now := time.Now()

	t.Run("no due date - nil", func(t *testing.T) {
		noDue := todo.Todo{}
		assert.Nil(t, noDue.DaysUntilDue(now))
	})

	t.Run("due in 48 hours - 2 days", func(t *testing.T) {
		due := now.Add(48 * time.Hour)
		withDue := todo.Todo{DueDate: &due}

		days := withDue.DaysUntilDue(now)
		assert.NotNil(t, days)
		assert.Equal(t, 2, *days)
	})

	t.Run("due in 36 hours - rounds up to 2 days", func(t *testing.T) {
		due := now.Add(36 * time.Hour)
		withDue := todo.Todo{DueDate: &due}

		days := withDue.DaysUntilDue(now)
		assert.NotNil(t, days)
		assert.Equal(t, 2, *days)
	})

	t.Run("overdue - negative days", func(t *testing.T) {
		due := now.Add(-72 * time.Hour)
		withDue := todo.Todo{DueDate: &due}

		days := withDue.DaysUntilDue(now)
		assert.NotNil(t, days)
		assert.Negative(t, *days)
	})
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name     string
		tags     []string
		expected []string
	}{
		{
			name:     "blank entries stripped",
			tags:     []string{"a", "", "  ", "b"},
			expected: []string{"a", "b"},
		},
		{
			name:     "entries trimmed",
			tags:     []string{" home ", "work"},
			expected: []string{"home", "work"},
		},
		{
			name:     "nil tags - empty slice",
			tags:     nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, todo.NormalizeTags(tt.tags))
		})
	}
}

func TestPriority_IsValid(t *testing.T) {
	assert.True(t, todo.PriorityLow.IsValid())
	assert.True(t, todo.PriorityMedium.IsValid())
	assert.True(t, todo.PriorityHigh.IsValid())
	assert.False(t, todo.Priority("urgent").IsValid())
	assert.False(t, todo.Priority("").IsValid())
}
