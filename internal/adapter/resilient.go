package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// Resilient bounds every call with a timeout and retries the idempotent
// operations (List and Delete) with exponential backoff.
type Resilient struct {
	next       Adapter
	timeout    time.Duration
	maxRetries int
	newBackOff func() backoff.BackOff
}

func NewResilient(next Adapter, timeout time.Duration, maxRetries int) *Resilient {
	return &Resilient{
		next:       next,
		timeout:    timeout,
		maxRetries: maxRetries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}
}

func (r *Resilient) List(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	var todos []domain.Todo
	err := r.retry(ctx, "list", func(ctx context.Context) error {
		var err error
		todos, err = r.next.List(ctx, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return todos, nil
}

func (r *Resilient) Create(ctx context.Context, ownerID string, input domain.NewTodo) (domain.Todo, error) {
	var created domain.Todo
	err := r.once(ctx, "create", func(ctx context.Context) error {
		var err error
		created, err = r.next.Create(ctx, ownerID, input)
		return err
	})
	return created, err
}

func (r *Resilient) Update(ctx context.Context, id, ownerID string, patch domain.TodoPatch) error {
	return r.once(ctx, "update", func(ctx context.Context) error {
		return r.next.Update(ctx, id, ownerID, patch)
	})
}

func (r *Resilient) Delete(ctx context.Context, id, ownerID string) error {
	return r.retry(ctx, "delete", func(ctx context.Context) error {
		return r.next.Delete(ctx, id, ownerID)
	})
}

func (r *Resilient) once(ctx context.Context, op string, call func(context.Context) error) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return asBackendError(op, call(ctx))
}

func (r *Resilient) retry(ctx context.Context, op string, call func(context.Context) error) error {
	if r.maxRetries <= 0 {
		return r.once(ctx, op, call)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), uint64(r.maxRetries)), ctx)
	err := backoff.Retry(func() error {
		attemptCtx, cancel := r.withTimeout(ctx)
		defer cancel()

		err := call(attemptCtx)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b)

	return asBackendError(op, err)
}

func (r *Resilient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// retryable rejects failures that repeating cannot fix.
func retryable(err error) bool {
	switch {
	case domain.IsValidation(err):
		return false
	case errors.Is(err, context.Canceled):
		return false
	case isClientError(err):
		return false
	default:
		return true
	}
}

// asBackendError keeps validation errors and already wrapped backend errors as
// they are and wraps anything else.
func asBackendError(op string, err error) error {
	if err == nil {
		return nil
	}
	var be *domain.BackendError
	if errors.As(err, &be) {
		return err
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return err
	}
	return &domain.BackendError{Op: op, Cause: err}
}
