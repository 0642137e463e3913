// Package adapter is the data access boundary between the client-side store and
// whichever persistence backend is configured.
package adapter

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/database"
	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
)

// Adapter performs owner-scoped CRUD against a backend.
//
// Update and Delete on an id the owner does not have succeed without effect.
// Failures surface as *domain.BackendError, except input problems which are
// reported as *domain.ValidationError before anything is sent.
type Adapter interface {
	List(ctx context.Context, ownerID string) ([]domain.Todo, error)
	Create(ctx context.Context, ownerID string, input domain.NewTodo) (domain.Todo, error)
	Update(ctx context.Context, id, ownerID string, patch domain.TodoPatch) error
	Delete(ctx context.Context, id, ownerID string) error
}

// New builds the adapter selected by cfg.Backend, wrapped with timeouts and
// retries. The returned func releases whatever the backend holds open.
func New(ctx context.Context, cfg config.ClientConfig) (Adapter, func() error, error) {
	var (
		inner   Adapter
		cleanup = func() error { return nil }
	)

	switch cfg.Backend {
	case config.BackendLocal, "":
		inner = NewRESTAdapter(cfg.APIBaseURL, &http.Client{})
		log.Printf("Using local REST backend at %s", cfg.APIBaseURL)

	case config.BackendManaged:
		pool, err := database.NewPool(ctx, cfg.ManagedDatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to managed backend: %w", err)
		}
		if err := pool.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrating managed backend: %w", err)
		}
		inner = NewDirectAdapter(repository.NewPgxTodoRepository(pool.Pool))
		cleanup = pool.Close
		log.Printf("Using managed backend")

	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}

	return NewResilient(inner, cfg.RequestTimeout, cfg.MaxRetries), cleanup, nil
}

func requireOwner(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return &domain.ValidationError{Field: "userId", Message: "must not be empty"}
	}
	return nil
}
