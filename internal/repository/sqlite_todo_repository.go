package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// sqliteTodoRepository implements TodoRepository on the embedded SQLite database.
type sqliteTodoRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLiteTodoRepository creates a todo repository over an sqlx SQLite handle.
func NewSQLiteTodoRepository(db *sqlx.DB) TodoRepository {
	return &sqliteTodoRepository{db: db, now: time.Now}
}

const sqliteTodoColumns = `id, user_id, text, completed, due_date, category, priority, created_at, updated_at`

func (r *sqliteTodoRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	todos := []domain.Todo{}
	// rowid breaks created_at ties in insertion order.
	err := r.db.SelectContext(ctx, &todos,
		`SELECT `+sqliteTodoColumns+` FROM todos WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	return todos, nil
}

func (r *sqliteTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	now := r.now().UTC()
	todo.ID = uuid.New().String()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO todos (`+sqliteTodoColumns+`)
		 VALUES (:id, :user_id, :text, :completed, :due_date, :category, :priority, :created_at, :updated_at)`,
		todo,
	)
	if err != nil {
		return fmt.Errorf("creating todo: %w", err)
	}
	return nil
}

func (r *sqliteTodoRepository) Update(ctx context.Context, id, ownerID string, patch domain.TodoPatch) error {
	cols := patch.Columns()

	sets := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+3)
	// Fixed column order keeps the statement text stable.
	for _, col := range []string{"text", "completed", "due_date", "category", "priority"} {
		if v, ok := cols[col]; ok {
			sets = append(sets, col+" = ?")
			args = append(args, v)
		}
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, r.now().UTC(), id, ownerID)

	_, err := r.db.ExecContext(ctx,
		`UPDATE todos SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("updating todo %s: %w", id, err)
	}
	return nil
}

func (r *sqliteTodoRepository) Delete(ctx context.Context, id, ownerID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting todo %s: %w", id, err)
	}
	return nil
}
