package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-tracker/internal/database"
	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
)

func newTestService(t *testing.T) TodoService {
	t.Helper()

	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "todos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewTodoService(repository.NewSQLiteTodoRepository(db.DB()))
}

type failingRepo struct {
	repository.TodoRepository
	err error
}

func (f failingRepo) ListByOwner(context.Context, string) ([]domain.Todo, error) {
	return nil, f.err
}

func (f failingRepo) Create(context.Context, *domain.Todo) error {
	return f.err
}

func TestCreateTodoAppliesDefaults(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	todo, err := svc.CreateTodo(context.Background(), CreateTodoRequest{UserID: "u1", Text: "  Call mom "})
	require.NoError(t, err)

	assert.NotEmpty(t, todo.ID)
	assert.Equal(t, "Call mom", todo.Text)
	assert.Equal(t, "u1", todo.OwnerID)
	assert.Equal(t, domain.CategoryPersonal, todo.Category)
	assert.Equal(t, domain.PriorityMedium, todo.Priority)
	assert.False(t, todo.Completed)
}

func TestCreateTodoValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTodo(ctx, CreateTodoRequest{Text: "orphan"})
	assert.ErrorIs(t, err, domain.ErrUserIDRequired)

	_, err = svc.CreateTodo(ctx, CreateTodoRequest{UserID: "u1", Text: "   "})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.CreateTodo(ctx, CreateTodoRequest{UserID: "u1", Text: "x", Category: "errands"})
	assert.True(t, domain.IsValidation(err))

	todos, err := svc.ListTodos(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestUpdateAndDeleteRequireUser(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.UpdateTodo(ctx, "id", UpdateTodoRequest{Completed: domain.Ptr(true)}), domain.ErrUserIDRequired)
	assert.ErrorIs(t, svc.DeleteTodo(ctx, "id", ""), domain.ErrUserIDRequired)
	_, err := svc.ListTodos(ctx, " ")
	assert.ErrorIs(t, err, domain.ErrUserIDRequired)
}

func TestUpdateTodoIsPartialAndOwnerScoped(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	todo, err := svc.CreateTodo(ctx, CreateTodoRequest{UserID: "u1", Text: "Gym", Category: domain.CategoryHealth, Priority: domain.PriorityHigh})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateTodo(ctx, todo.ID, UpdateTodoRequest{UserID: "u2", Text: domain.Ptr("hijacked")}))
	require.NoError(t, svc.UpdateTodo(ctx, todo.ID, UpdateTodoRequest{UserID: "u1", Completed: domain.Ptr(true)}))

	err = svc.UpdateTodo(ctx, todo.ID, UpdateTodoRequest{UserID: "u1", Text: domain.Ptr("")})
	assert.True(t, domain.IsValidation(err))

	todos, err := svc.ListTodos(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "Gym", todos[0].Text)
	assert.True(t, todos[0].Completed)
	assert.Equal(t, domain.CategoryHealth, todos[0].Category)
	assert.Equal(t, domain.PriorityHigh, todos[0].Priority)

	require.NoError(t, svc.DeleteTodo(ctx, todo.ID, "u2"))
	todos, err = svc.ListTodos(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, todos, 1)

	require.NoError(t, svc.DeleteTodo(ctx, todo.ID, "u1"))
	todos, err = svc.ListTodos(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestRepositoryErrorsAreWrapped(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	svc := NewTodoService(failingRepo{err: cause})
	ctx := context.Background()

	_, err := svc.ListTodos(ctx, "u1")
	assert.ErrorIs(t, err, cause)

	_, err = svc.CreateTodo(ctx, CreateTodoRequest{UserID: "u1", Text: "x"})
	assert.ErrorIs(t, err, cause)
	assert.False(t, domain.IsValidation(err))
}

func TestUpdateRequestPatchRoundTrip(t *testing.T) {
	t.Parallel()

	patch := domain.TodoPatch{Text: domain.Ptr("a"), DueDate: domain.ClearDate()}
	req := NewUpdateTodoRequest("u1", patch)

	assert.Equal(t, "u1", req.UserID)
	assert.Equal(t, patch, req.Patch())
}
