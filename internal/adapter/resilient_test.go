package adapter

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

var errFlaky = errors.New("connection reset")

// scriptedAdapter fails its first failures calls with err, then succeeds.
type scriptedAdapter struct {
	calls    atomic.Int64
	failures int64
	err      error
	block    bool
}

func (s *scriptedAdapter) result(ctx context.Context) error {
	n := s.calls.Add(1)
	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if n <= s.failures {
		return s.err
	}
	return nil
}

func (s *scriptedAdapter) List(ctx context.Context, _ string) ([]domain.Todo, error) {
	if err := s.result(ctx); err != nil {
		return nil, err
	}
	return []domain.Todo{{ID: "1"}}, nil
}

func (s *scriptedAdapter) Create(ctx context.Context, _ string, input domain.NewTodo) (domain.Todo, error) {
	if err := s.result(ctx); err != nil {
		return domain.Todo{}, err
	}
	return domain.Todo{ID: "1", Text: input.Text}, nil
}

func (s *scriptedAdapter) Update(ctx context.Context, _, _ string, _ domain.TodoPatch) error {
	return s.result(ctx)
}

func (s *scriptedAdapter) Delete(ctx context.Context, _, _ string) error {
	return s.result(ctx)
}

func newTestResilient(next Adapter, timeout time.Duration, retries int) *Resilient {
	r := NewResilient(next, timeout, retries)
	r.newBackOff = func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }
	return r
}

func TestResilientRetriesIdempotentOperations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	next := &scriptedAdapter{failures: 2, err: errFlaky}
	todos, err := newTestResilient(next, time.Second, 3).List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, todos, 1)
	assert.EqualValues(t, 3, next.calls.Load())

	next = &scriptedAdapter{failures: 2, err: errFlaky}
	require.NoError(t, newTestResilient(next, time.Second, 3).Delete(ctx, "1", "u1"))
	assert.EqualValues(t, 3, next.calls.Load())
}

func TestResilientGivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	next := &scriptedAdapter{failures: 100, err: errFlaky}
	_, err := newTestResilient(next, time.Second, 2).List(context.Background(), "u1")

	require.Error(t, err)
	assert.True(t, domain.IsBackend(err))
	assert.ErrorIs(t, err, errFlaky)
	assert.EqualValues(t, 3, next.calls.Load())
}

func TestResilientDoesNotRetryWrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	next := &scriptedAdapter{failures: 1, err: errFlaky}
	_, err := newTestResilient(next, time.Second, 3).Create(ctx, "u1", domain.NewTodo{Text: "x"})
	assert.True(t, domain.IsBackend(err))
	assert.EqualValues(t, 1, next.calls.Load())

	next = &scriptedAdapter{failures: 1, err: errFlaky}
	err = newTestResilient(next, time.Second, 3).Update(ctx, "1", "u1", domain.TodoPatch{Completed: domain.Ptr(true)})
	assert.True(t, domain.IsBackend(err))
	assert.EqualValues(t, 1, next.calls.Load())
}

func TestResilientStopsOnPermanentErrors(t *testing.T) {
	t.Parallel()

	validation := &domain.ValidationError{Field: "userId", Message: "must not be empty"}
	next := &scriptedAdapter{failures: 100, err: validation}
	_, err := newTestResilient(next, time.Second, 3).List(context.Background(), "")

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.False(t, domain.IsBackend(err))
	assert.EqualValues(t, 1, next.calls.Load())

	notFound := &domain.BackendError{Op: "delete", Cause: &StatusError{Code: 400, Message: "User ID is required"}}
	next = &scriptedAdapter{failures: 100, err: notFound}
	err = newTestResilient(next, time.Second, 3).Delete(context.Background(), "1", "u1")
	assert.Same(t, notFound, err)
	assert.EqualValues(t, 1, next.calls.Load())
}

func TestResilientTimesOut(t *testing.T) {
	t.Parallel()

	next := &scriptedAdapter{block: true}
	err := newTestResilient(next, 20*time.Millisecond, 0).Update(context.Background(), "1", "u1", domain.TodoPatch{})

	require.Error(t, err)
	assert.True(t, domain.IsBackend(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
