package todo

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Priority string

const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"

const TaskMaxLength = 500
const NotesMaxLength = 1000
const DefaultCategory = "general"

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Todo struct {
	UUID      uuid.UUID  `json:"id" db:"uuid"`
	Task      string     `json:"task" db:"task"`
	Completed bool       `json:"completed" db:"completed"`
	Priority  Priority   `json:"priority" db:"priority"`
	DueDate   *time.Time `json:"dueDate,omitempty" db:"due_date"`
	Category  string     `json:"category" db:"category"`
	Tags      []string   `json:"tags" db:"tags"`
	Notes     string     `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// просрочена: дедлайн задан, прошёл, а задача не выполнена
func (t *Todo) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return !t.Completed && now.After(*t.DueDate)
}

// дней до дедлайна (округление вверх), nil если дедлайна нет
func (t *Todo) DaysUntilDue(now time.Time) *int {
	if t.DueDate == nil {
		return nil
	}
	diff := t.DueDate.Sub(now)
	days := int(math.Ceil(diff.Hours() / 24))
	return &days
}

// убирает пустые теги перед сохранением
func NormalizeTags(tags []string) []string {
	normalized := []string{}
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
