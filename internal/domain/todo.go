package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category groups todos by area of life.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryShopping Category = "shopping"
	CategoryHealth   Category = "health"
	CategoryOther    Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryWork, CategoryPersonal, CategoryShopping, CategoryHealth, CategoryOther}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Priority is the urgency the owner assigned to a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

const (
	DefaultCategory = CategoryPersonal
	DefaultPriority = PriorityMedium
)

// Todo is a single owner-scoped task row.
// ID and the timestamps are assigned by the backend, never by the client.
type Todo struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" db:"id" json:"id"`
	OwnerID   string    `gorm:"column:user_id;not null;index" db:"user_id" json:"-"`
	Text      string    `gorm:"not null" db:"text" json:"text"`
	Completed bool      `gorm:"not null;default:false" db:"completed" json:"completed"`
	DueDate   *Date     `gorm:"type:date" db:"due_date" json:"dueDate,omitempty"`
	Category  Category  `gorm:"not null;default:personal" db:"category" json:"category"`
	Priority  Priority  `gorm:"not null;default:medium" db:"priority" json:"priority"`
	CreatedAt time.Time `gorm:"not null;index" db:"created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at" json:"updated_at"`
}

// TableName keeps the table name stable across all backends.
func (Todo) TableName() string {
	return "todos"
}

// Validate checks a row coming back from a backend before it is trusted.
func (t Todo) Validate() error {
	if t.ID == "" {
		return &ValidationError{Field: "id", Message: "must not be empty"}
	}
	if strings.TrimSpace(t.Text) == "" {
		return &ValidationError{Field: "text", Message: "must not be empty"}
	}
	if !t.Category.Valid() {
		return &ValidationError{Field: "category", Message: fmt.Sprintf("has unknown value %q", t.Category)}
	}
	if !t.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: fmt.Sprintf("has unknown value %q", t.Priority)}
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		return &ValidationError{Field: "updated_at", Message: "must not precede created_at"}
	}
	return nil
}

// NewTodo carries the fields a caller may supply when creating a todo.
type NewTodo struct {
	Text     string
	DueDate  *Date
	Category Category
	Priority Priority
}

// Normalize trims the text, fills in defaults and rejects invalid input.
func (n NewTodo) Normalize() (NewTodo, error) {
	n.Text = strings.TrimSpace(n.Text)
	if n.Text == "" {
		return NewTodo{}, &ValidationError{Field: "text", Message: "must not be empty"}
	}
	if n.Category == "" {
		n.Category = DefaultCategory
	}
	if !n.Category.Valid() {
		return NewTodo{}, &ValidationError{Field: "category", Message: fmt.Sprintf("has unknown value %q", n.Category)}
	}
	if n.Priority == "" {
		n.Priority = DefaultPriority
	}
	if !n.Priority.Valid() {
		return NewTodo{}, &ValidationError{Field: "priority", Message: fmt.Sprintf("has unknown value %q", n.Priority)}
	}
	return n, nil
}

// Todo builds the row to insert for ownerID. Normalize must have succeeded first.
func (n NewTodo) Todo(ownerID string) *Todo {
	return &Todo{
		OwnerID:  ownerID,
		Text:     n.Text,
		DueDate:  n.DueDate,
		Category: n.Category,
		Priority: n.Priority,
	}
}
