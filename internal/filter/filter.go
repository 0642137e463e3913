// Package filter derives the visible subset of a todo list. Everything here is
// pure: no I/O, safe to call on every render.
package filter

import (
	"fmt"
	"strings"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// All matches every category or priority.
const All = "all"

// Spec is the set of criteria a todo must satisfy to be shown.
type Spec struct {
	SearchText    string `json:"searchText"`
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	ShowCompleted bool   `json:"showCompleted"`
}

// Default shows everything.
func Default() Spec {
	return Spec{Category: All, Priority: All, ShowCompleted: true}
}

// Matches reports whether todo satisfies every criterion of spec.
func Matches(todo domain.Todo, spec Spec) bool {
	// strings.Contains with an empty needle is always true, which is what an
	// empty search needs.
	if !strings.Contains(strings.ToLower(todo.Text), strings.ToLower(spec.SearchText)) {
		return false
	}
	if !matchesEnum(spec.Category, string(todo.Category)) {
		return false
	}
	if !matchesEnum(spec.Priority, string(todo.Priority)) {
		return false
	}
	return spec.ShowCompleted || !todo.Completed
}

func matchesEnum(want, got string) bool {
	return want == "" || want == All || want == got
}

// Apply returns the todos matching spec in their original order.
// The input slice is never modified.
func Apply(todos []domain.Todo, spec Spec) []domain.Todo {
	out := make([]domain.Todo, 0, len(todos))
	for _, todo := range todos {
		if Matches(todo, spec) {
			out = append(out, todo)
		}
	}
	return out
}

// Stats is the completion progress of a list.
type Stats struct {
	Total     int
	Completed int
}

// Percent is the completed share in [0, 100]; an empty list is 0.
func (s Stats) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total) * 100
}

// Summarize counts completed todos.
func Summarize(todos []domain.Todo) Stats {
	stats := Stats{Total: len(todos)}
	for _, todo := range todos {
		if todo.Completed {
			stats.Completed++
		}
	}
	return stats
}

// ParseCategoryFilter accepts "all" or a known category name, case-insensitively.
func ParseCategoryFilter(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == All {
		return All, nil
	}
	if !domain.Category(s).Valid() {
		return "", &domain.ValidationError{Field: "category", Message: fmt.Sprintf("has unknown value %q", s)}
	}
	return s, nil
}

// ParsePriorityFilter accepts "all" or a known priority name, case-insensitively.
func ParsePriorityFilter(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == All {
		return All, nil
	}
	if !domain.Priority(s).Valid() {
		return "", &domain.ValidationError{Field: "priority", Message: fmt.Sprintf("has unknown value %q", s)}
	}
	return s, nil
}
