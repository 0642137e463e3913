// Package duedate buckets todos by how close their due date is.
package duedate

import (
	"fmt"
	"time"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// Bucket is the display urgency of a due date.
type Bucket int

const (
	Normal Bucket = iota
	DueSoon
	DueToday
	Overdue
)

// SoonWithinDays is the largest day delta still considered due soon.
const SoonWithinDays = 3

func (b Bucket) String() string {
	switch b {
	case Overdue:
		return "overdue"
	case DueToday:
		return "due-today"
	case DueSoon:
		return "due-soon"
	default:
		return "normal"
	}
}

// Classification is the advisory result for a single due date. It is never stored.
type Classification struct {
	DaysDelta int
	Bucket    Bucket
}

// Classify compares a due date against today, both as calendar dates.
func Classify(due, today domain.Date) Classification {
	delta := today.DaysUntil(due)

	var bucket Bucket
	switch {
	case delta < 0:
		bucket = Overdue
	case delta == 0:
		bucket = DueToday
	case delta <= SoonWithinDays:
		bucket = DueSoon
	default:
		bucket = Normal
	}

	return Classification{DaysDelta: delta, Bucket: bucket}
}

// ForTodo classifies todo's due date against the calendar day of now in loc.
// The second result is false when the todo has no due date.
func ForTodo(todo domain.Todo, now time.Time, loc *time.Location) (Classification, bool) {
	if todo.DueDate == nil {
		return Classification{}, false
	}
	return Classify(*todo.DueDate, domain.DateOf(now.In(loc))), true
}

// Describe renders a classification for people.
func Describe(c Classification) string {
	switch {
	case c.DaysDelta < -1:
		return fmt.Sprintf("%d days overdue", -c.DaysDelta)
	case c.DaysDelta == -1:
		return "1 day overdue"
	case c.DaysDelta == 0:
		return "due today"
	case c.DaysDelta == 1:
		return "due tomorrow"
	default:
		return fmt.Sprintf("due in %d days", c.DaysDelta)
	}
}
