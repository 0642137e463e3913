package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
)

// Input DTOs decouple the HTTP wire shape from the domain and the repositories.

// CreateTodoRequest is the body of POST /api/todos.
type CreateTodoRequest struct {
	UserID   string          `json:"userId"`
	Text     string          `json:"text"`
	DueDate  *domain.Date    `json:"dueDate,omitempty"`
	Category domain.Category `json:"category,omitempty"`
	Priority domain.Priority `json:"priority,omitempty"`
}

// UpdateTodoRequest is the body of PUT /api/todos/{id}.
// Pointer fields tell an omitted field apart from its zero value; an explicit
// "dueDate": null clears the due date.
type UpdateTodoRequest struct {
	UserID    string              `json:"userId"`
	Text      *string             `json:"text,omitempty"`
	Completed *bool               `json:"completed,omitempty"`
	DueDate   domain.OptionalDate `json:"dueDate,omitzero"`
	Category  *domain.Category    `json:"category,omitempty"`
	Priority  *domain.Priority    `json:"priority,omitempty"`
}

// Patch extracts the partial update carried by the request.
func (r UpdateTodoRequest) Patch() domain.TodoPatch {
	return domain.TodoPatch{
		Text:      r.Text,
		Completed: r.Completed,
		DueDate:   r.DueDate,
		Category:  r.Category,
		Priority:  r.Priority,
	}
}

// NewUpdateTodoRequest builds the request body for a patch issued by userID.
func NewUpdateTodoRequest(userID string, patch domain.TodoPatch) UpdateTodoRequest {
	return UpdateTodoRequest{
		UserID:    userID,
		Text:      patch.Text,
		Completed: patch.Completed,
		DueDate:   patch.DueDate,
		Category:  patch.Category,
		Priority:  patch.Priority,
	}
}

// TodoService defines the operations the local REST proxy offers.
// Every operation is scoped to the calling user's id.
type TodoService interface {
	// ListTodos returns the user's todos, newest first.
	ListTodos(ctx context.Context, userID string) ([]domain.Todo, error)

	// CreateTodo validates and stores a new todo for req.UserID.
	CreateTodo(ctx context.Context, req CreateTodoRequest) (*domain.Todo, error)

	// UpdateTodo applies a partial update. Unknown or foreign ids are a no-op.
	UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) error

	// DeleteTodo removes a todo. Unknown or foreign ids are a no-op.
	DeleteTodo(ctx context.Context, id, userID string) error
}

type todoService struct {
	repo repository.TodoRepository
}

// NewTodoService creates a TodoService backed by repo.
func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{repo: repo}
}

func (s *todoService) ListTodos(ctx context.Context, userID string) ([]domain.Todo, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUserIDRequired
	}

	todos, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch todos: %w", err)
	}
	return todos, nil
}

func (s *todoService) CreateTodo(ctx context.Context, req CreateTodoRequest) (*domain.Todo, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, domain.ErrUserIDRequired
	}

	input, err := domain.NewTodo{
		Text:     req.Text,
		DueDate:  req.DueDate,
		Category: req.Category,
		Priority: req.Priority,
	}.Normalize()
	if err != nil {
		return nil, err
	}

	todo := input.Todo(req.UserID)
	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to add todo: %w", err)
	}
	return todo, nil
}

func (s *todoService) UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return domain.ErrUserIDRequired
	}

	patch, err := req.Patch().Normalize()
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		log.Printf("Empty update for todo %s, refreshing updated_at only", id)
	}

	if err := s.repo.Update(ctx, id, req.UserID, patch); err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	return nil
}

func (s *todoService) DeleteTodo(ctx context.Context, id, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrUserIDRequired
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}
