package domain

import (
	"fmt"
	"strings"
)

// TodoPatch is a partial update. Nil fields (and an unset DueDate) leave the
// stored value unchanged.
type TodoPatch struct {
	Text      *string      `json:"text,omitempty"`
	Completed *bool        `json:"completed,omitempty"`
	DueDate   OptionalDate `json:"dueDate,omitzero"`
	Category  *Category    `json:"category,omitempty"`
	Priority  *Priority    `json:"priority,omitempty"`
}

// IsEmpty reports whether the patch changes no field.
func (p TodoPatch) IsEmpty() bool {
	return p.Text == nil && p.Completed == nil && !p.DueDate.Set && p.Category == nil && p.Priority == nil
}

// Normalize trims the text and rejects values a backend must never store.
func (p TodoPatch) Normalize() (TodoPatch, error) {
	if p.Text != nil {
		text := strings.TrimSpace(*p.Text)
		if text == "" {
			return TodoPatch{}, &ValidationError{Field: "text", Message: "must not be empty"}
		}
		p.Text = &text
	}
	if p.Category != nil && !p.Category.Valid() {
		return TodoPatch{}, &ValidationError{Field: "category", Message: fmt.Sprintf("has unknown value %q", *p.Category)}
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return TodoPatch{}, &ValidationError{Field: "priority", Message: fmt.Sprintf("has unknown value %q", *p.Priority)}
	}
	return p, nil
}

// Apply merges the present fields into t.
func (p TodoPatch) Apply(t *Todo) {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.DueDate.Set {
		if p.DueDate.Value == nil {
			t.DueDate = nil
		} else {
			due := *p.DueDate.Value
			t.DueDate = &due
		}
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
}

// Columns returns the column/value pairs the patch writes, keyed by column name.
func (p TodoPatch) Columns() map[string]any {
	cols := make(map[string]any, 5)
	if p.Text != nil {
		cols["text"] = *p.Text
	}
	if p.Completed != nil {
		cols["completed"] = *p.Completed
	}
	if p.DueDate.Set {
		if p.DueDate.Value == nil {
			cols["due_date"] = nil
		} else {
			cols["due_date"] = *p.DueDate.Value
		}
	}
	if p.Category != nil {
		cols["category"] = string(*p.Category)
	}
	if p.Priority != nil {
		cols["priority"] = string(*p.Priority)
	}
	return cols
}

// Ptr returns a pointer to v, handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}
