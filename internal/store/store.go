// Package store holds the signed-in owner's todo list in memory and keeps it in
// step with the backend. It is the only caller of the data access adapter.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Tomlord1122/todo-tracker/internal/adapter"
	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/filter"
)

var (
	ErrNotFound    = errors.New("todo not found")
	ErrAmbiguousID = errors.New("id prefix matches more than one todo")
)

// Store is safe for concurrent use.
//
// Mutations are pessimistic: the backend is asked first and the in-memory list
// changes only after it succeeded. Operations on the same id are serialized in
// issue order.
type Store struct {
	adapter adapter.Adapter
	queue   *idQueue
	now     func() time.Time

	mu         sync.RWMutex
	owner      string
	todos      []domain.Todo
	generation uint64
}

func New(a adapter.Adapter) *Store {
	return &Store{
		adapter: a,
		queue:   newIDQueue(),
		now:     time.Now,
	}
}

// Load makes ownerID the current owner and replaces the list with theirs.
// An empty ownerID signs out: the list is cleared without calling the backend.
// A load that finishes after another Load started is discarded.
func (s *Store) Load(ctx context.Context, ownerID string) error {
	ownerID = strings.TrimSpace(ownerID)

	s.mu.Lock()
	s.generation++
	gen := s.generation
	if ownerID != s.owner {
		s.todos = nil
	}
	s.owner = ownerID
	s.mu.Unlock()

	if ownerID == "" {
		return nil
	}

	todos, err := s.adapter.List(ctx, ownerID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		log.Printf("Discarding stale load for %s", ownerID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading todos: %w", err)
	}
	s.todos = todos
	return nil
}

// Add creates a todo and puts it at the front of the list.
func (s *Store) Add(ctx context.Context, input domain.NewTodo) (domain.Todo, error) {
	owner, err := s.requireOwner()
	if err != nil {
		return domain.Todo{}, err
	}
	input, err = input.Normalize()
	if err != nil {
		return domain.Todo{}, err
	}

	created, err := s.adapter.Create(ctx, owner, input)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("adding todo: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A reload may already have picked the new row up.
	if s.owner == owner && s.indexOf(created.ID) < 0 {
		s.todos = append([]domain.Todo{created}, s.todos...)
	}
	return cloneTodo(created), nil
}

// Update applies patch to the todo with id. Ids the owner does not have are
// accepted by the backend without effect and leave the list untouched.
func (s *Store) Update(ctx context.Context, id string, patch domain.TodoPatch) error {
	owner, err := s.requireOwner()
	if err != nil {
		return err
	}
	patch, err = patch.Normalize()
	if err != nil {
		return err
	}

	release, err := s.queue.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	if err := s.adapter.Update(ctx, id, owner, patch); err != nil {
		return fmt.Errorf("updating todo: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owner != owner {
		return nil
	}
	if i := s.indexOf(id); i >= 0 {
		todo := &s.todos[i]
		patch.Apply(todo)
		if now := s.now().UTC(); now.After(todo.UpdatedAt) {
			todo.UpdatedAt = now
		}
	}
	return nil
}

// Delete removes the todo with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	owner, err := s.requireOwner()
	if err != nil {
		return err
	}

	release, err := s.queue.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	if err := s.adapter.Delete(ctx, id, owner); err != nil {
		return fmt.Errorf("deleting todo: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owner != owner {
		return nil
	}
	if i := s.indexOf(id); i >= 0 {
		s.todos = append(s.todos[:i:i], s.todos[i+1:]...)
	}
	return nil
}

// Owner returns the current owner id, empty when signed out.
func (s *Store) Owner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner
}

// Todos returns a copy of the list, newest first.
func (s *Store) Todos() []domain.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Todo, len(s.todos))
	for i, todo := range s.todos {
		out[i] = cloneTodo(todo)
	}
	return out
}

func (s *Store) Find(id string) (domain.Todo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return cloneTodo(s.todos[i]), true
	}
	return domain.Todo{}, false
}

// ResolveID expands a unique id prefix to the full id.
func (s *Store) ResolveID(prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var match string
	for _, todo := range s.todos {
		id := strings.ToLower(todo.ID)
		if id == prefix {
			return todo.ID, nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %q", ErrAmbiguousID, prefix)
			}
			match = todo.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %q", ErrNotFound, prefix)
	}
	return match, nil
}

// View returns the todos matching spec.
func (s *Store) View(spec filter.Spec) []domain.Todo {
	return filter.Apply(s.Todos(), spec)
}

func (s *Store) Stats() filter.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.Summarize(s.todos)
}

func (s *Store) requireOwner() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.owner == "" {
		return "", domain.ErrAuthRequired
	}
	return s.owner, nil
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id string) int {
	for i := range s.todos {
		if s.todos[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneTodo(t domain.Todo) domain.Todo {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}
