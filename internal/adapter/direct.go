package adapter

import (
	"context"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
)

// DirectAdapter calls a repository in-process. Over the pgx repository and a
// managed database it is the managed backend.
type DirectAdapter struct {
	repo repository.TodoRepository
}

func NewDirectAdapter(repo repository.TodoRepository) *DirectAdapter {
	return &DirectAdapter{repo: repo}
}

func (a *DirectAdapter) List(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	todos, err := a.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, &domain.BackendError{Op: "list", Cause: err}
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	return todos, nil
}

func (a *DirectAdapter) Create(ctx context.Context, ownerID string, input domain.NewTodo) (domain.Todo, error) {
	if err := requireOwner(ownerID); err != nil {
		return domain.Todo{}, err
	}
	input, err := input.Normalize()
	if err != nil {
		return domain.Todo{}, err
	}

	todo := input.Todo(ownerID)
	if err := a.repo.Create(ctx, todo); err != nil {
		return domain.Todo{}, &domain.BackendError{Op: "create", Cause: err}
	}
	return *todo, nil
}

func (a *DirectAdapter) Update(ctx context.Context, id, ownerID string, patch domain.TodoPatch) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	patch, err := patch.Normalize()
	if err != nil {
		return err
	}

	if err := a.repo.Update(ctx, id, ownerID, patch); err != nil {
		return &domain.BackendError{Op: "update", Cause: err}
	}
	return nil
}

func (a *DirectAdapter) Delete(ctx context.Context, id, ownerID string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}

	if err := a.repo.Delete(ctx, id, ownerID); err != nil {
		return &domain.BackendError{Op: "delete", Cause: err}
	}
	return nil
}
