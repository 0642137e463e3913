package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-tracker/internal/database"
	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/testutil"
)

// runRepositoryContract checks the owner-scoped semantics every backend shares.
// newRepo must return an empty repository.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) TodoRepository) {
	ctx := context.Background()

	t.Run("create assigns id and equal timestamps", func(t *testing.T) {
		repo := newRepo(t)

		todo := &domain.Todo{OwnerID: "alice", Text: "Buy milk", Category: domain.CategoryShopping, Priority: domain.PriorityLow}
		require.NoError(t, repo.Create(ctx, todo))

		assert.NotEmpty(t, todo.ID)
		assert.False(t, todo.Completed)
		assert.False(t, todo.CreatedAt.IsZero())
		assert.True(t, todo.CreatedAt.Equal(todo.UpdatedAt))

		list, err := repo.ListByOwner(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Buy milk", list[0].Text)
		assert.Equal(t, domain.CategoryShopping, list[0].Category)
		assert.Equal(t, domain.PriorityLow, list[0].Priority)
		assert.Nil(t, list[0].DueDate)
	})

	t.Run("list is newest first and owner scoped", func(t *testing.T) {
		repo := newRepo(t)

		for _, text := range []string{"first", "second", "third"} {
			require.NoError(t, repo.Create(ctx, &domain.Todo{OwnerID: "alice", Text: text, Category: domain.CategoryWork, Priority: domain.PriorityMedium}))
			time.Sleep(5 * time.Millisecond)
		}
		require.NoError(t, repo.Create(ctx, &domain.Todo{OwnerID: "bob", Text: "bob's", Category: domain.CategoryWork, Priority: domain.PriorityMedium}))

		list, err := repo.ListByOwner(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"third", "second", "first"}, texts(list))

		empty, err := repo.ListByOwner(ctx, "carol")
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	})

	t.Run("partial update leaves omitted fields", func(t *testing.T) {
		repo := newRepo(t)

		due := domain.MustParseDate("2026-11-02")
		todo := &domain.Todo{OwnerID: "alice", Text: "Dentist", DueDate: &due, Category: domain.CategoryHealth, Priority: domain.PriorityHigh}
		require.NoError(t, repo.Create(ctx, todo))

		time.Sleep(5 * time.Millisecond)
		require.NoError(t, repo.Update(ctx, todo.ID, "alice", domain.TodoPatch{Completed: domain.Ptr(true)}))

		got := only(t, repo, "alice")
		assert.True(t, got.Completed)
		assert.Equal(t, "Dentist", got.Text)
		require.NotNil(t, got.DueDate)
		assert.Equal(t, due, *got.DueDate)
		assert.Equal(t, domain.CategoryHealth, got.Category)
		assert.Equal(t, domain.PriorityHigh, got.Priority)
		assert.True(t, got.UpdatedAt.After(got.CreatedAt), "updated_at must be refreshed")

		newDue := domain.MustParseDate("2026-12-01")
		require.NoError(t, repo.Update(ctx, todo.ID, "alice", domain.TodoPatch{
			Text:    domain.Ptr("Dentist checkup"),
			DueDate: domain.SetDate(newDue),
		}))
		got = only(t, repo, "alice")
		assert.Equal(t, "Dentist checkup", got.Text)
		assert.Equal(t, newDue, *got.DueDate)
		assert.True(t, got.Completed)

		require.NoError(t, repo.Update(ctx, todo.ID, "alice", domain.TodoPatch{DueDate: domain.ClearDate()}))
		got = only(t, repo, "alice")
		assert.Nil(t, got.DueDate)
	})

	t.Run("foreign and unknown ids are silent no-ops", func(t *testing.T) {
		repo := newRepo(t)

		todo := &domain.Todo{OwnerID: "alice", Text: "Private", Category: domain.CategoryPersonal, Priority: domain.PriorityMedium}
		require.NoError(t, repo.Create(ctx, todo))

		require.NoError(t, repo.Update(ctx, todo.ID, "mallory", domain.TodoPatch{Text: domain.Ptr("pwned")}))
		require.NoError(t, repo.Delete(ctx, todo.ID, "mallory"))
		require.NoError(t, repo.Update(ctx, uuid.NewString(), "alice", domain.TodoPatch{Completed: domain.Ptr(true)}))
		require.NoError(t, repo.Delete(ctx, uuid.NewString(), "alice"))
		require.NoError(t, repo.Delete(ctx, "not-a-uuid", "alice"))

		got := only(t, repo, "alice")
		assert.Equal(t, "Private", got.Text)
		assert.False(t, got.Completed)
	})

	t.Run("delete removes and is idempotent", func(t *testing.T) {
		repo := newRepo(t)

		todo := &domain.Todo{OwnerID: "alice", Text: "Temp", Category: domain.CategoryOther, Priority: domain.PriorityLow}
		require.NoError(t, repo.Create(ctx, todo))

		require.NoError(t, repo.Delete(ctx, todo.ID, "alice"))
		require.NoError(t, repo.Delete(ctx, todo.ID, "alice"))

		list, err := repo.ListByOwner(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func only(t *testing.T, repo TodoRepository, owner string) domain.Todo {
	t.Helper()

	list, err := repo.ListByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	return list[0]
}

func texts(list []domain.Todo) []string {
	out := make([]string, len(list))
	for i, todo := range list {
		out[i] = todo.Text
	}
	return out
}

func TestSQLiteTodoRepository(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) TodoRepository {
		db, err := database.NewSQLite(filepath.Join(t.TempDir(), "todos.db"))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		return NewSQLiteTodoRepository(db.DB())
	})
}

func TestGormTodoRepository(t *testing.T) {
	url := testutil.StartPostgres(t)

	db, err := database.NewPostgresDSN(url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.AutoMigrate())

	runRepositoryContract(t, func(t *testing.T) TodoRepository {
		require.NoError(t, db.DB().Exec("TRUNCATE todos").Error)
		return NewGormTodoRepository(db.DB())
	})
}

func TestPgxTodoRepository(t *testing.T) {
	url := testutil.StartPostgres(t)
	ctx := context.Background()

	pool, err := database.NewPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	require.NoError(t, pool.Migrate(ctx))

	runRepositoryContract(t, func(t *testing.T) TodoRepository {
		_, err := pool.Exec(ctx, "TRUNCATE todos")
		require.NoError(t, err)
		return NewPgxTodoRepository(pool.Pool)
	})
}
