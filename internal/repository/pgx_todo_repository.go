package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// pgxTodoRepository talks to a managed postgres database with hand-written,
// owner-filtered SQL.
type pgxTodoRepository struct {
	pool *pgxpool.Pool
}

// NewPgxTodoRepository creates a todo repository over a pgx pool.
func NewPgxTodoRepository(pool *pgxpool.Pool) TodoRepository {
	return &pgxTodoRepository{pool: pool}
}

const pgxTodoColumns = `id::text, user_id, text, completed, due_date, category, priority, created_at, updated_at`

func (r *pgxTodoRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+pgxTodoColumns+` FROM todos WHERE user_id = $1 ORDER BY created_at DESC, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	defer rows.Close()

	todos := []domain.Todo{}
	for rows.Next() {
		todo, err := scanPgxTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	return todos, nil
}

func (r *pgxTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	var due pgtype.Date
	if todo.DueDate != nil {
		due = pgtype.Date{Time: todo.DueDate.In(time.UTC), Valid: true}
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO todos (user_id, text, due_date, category, priority, completed)
		 VALUES ($1, $2, $3, $4, $5, false)
		 RETURNING `+pgxTodoColumns,
		todo.OwnerID, todo.Text, due, string(todo.Category), string(todo.Priority),
	)
	created, err := scanPgxTodo(row)
	if err != nil {
		return fmt.Errorf("creating todo: %w", err)
	}
	*todo = created
	return nil
}

func (r *pgxTodoRepository) Update(ctx context.Context, id, ownerID string, patch domain.TodoPatch) error {
	if !validUUID(id) {
		return nil
	}

	cols := patch.Columns()
	sets := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+2)
	for _, col := range []string{"text", "completed", "due_date", "category", "priority"} {
		v, ok := cols[col]
		if !ok {
			continue
		}
		if d, isDate := v.(domain.Date); isDate {
			v = pgtype.Date{Time: d.In(time.UTC), Valid: true}
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id, ownerID)

	query := fmt.Sprintf(`UPDATE todos SET %s WHERE id = $%d AND user_id = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("updating todo %s: %w", id, err)
	}
	return nil
}

func (r *pgxTodoRepository) Delete(ctx context.Context, id, ownerID string) error {
	if !validUUID(id) {
		return nil
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, ownerID); err != nil {
		return fmt.Errorf("deleting todo %s: %w", id, err)
	}
	return nil
}

func scanPgxTodo(row pgx.Row) (domain.Todo, error) {
	var (
		todo     domain.Todo
		due      pgtype.Date
		category string
		priority string
	)
	err := row.Scan(&todo.ID, &todo.OwnerID, &todo.Text, &todo.Completed, &due,
		&category, &priority, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("scanning todo row: %w", err)
	}
	todo.Category = domain.Category(category)
	todo.Priority = domain.Priority(priority)
	if due.Valid {
		d := domain.DateOf(due.Time)
		todo.DueDate = &d
	}
	return todo, nil
}
