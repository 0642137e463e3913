package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// TodoRepository defines owner-scoped persistence for todos.
//
// Every operation filters by owner. Update and Delete on an id that does not
// exist, or belongs to someone else, succeed without touching anything and
// without telling the two cases apart.
type TodoRepository interface {
	// ListByOwner returns the owner's todos, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Todo, error)

	// Create inserts todo and fills in ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, todo *domain.Todo) error

	// Update writes the fields present in patch and refreshes updated_at.
	Update(ctx context.Context, id, ownerID string, patch domain.TodoPatch) error

	// Delete removes the todo.
	Delete(ctx context.Context, id, ownerID string) error
}

// validUUID reports whether id can be compared against a UUID column at all.
// Anything else cannot match a row, so callers treat it as "not found".
func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
