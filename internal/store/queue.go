package store

import (
	"context"
	"sync"
)

// idQueue runs operations on the same id one at a time, in the order acquire
// was called. Operations on different ids do not wait for each other.
type idQueue struct {
	mu    sync.Mutex
	tails map[string]chan struct{}
}

func newIDQueue() *idQueue {
	return &idQueue{tails: make(map[string]chan struct{})}
}

// acquire waits for every earlier operation on id. The returned release must be
// called exactly once.
func (q *idQueue) acquire(ctx context.Context, id string) (func(), error) {
	done := make(chan struct{})

	q.mu.Lock()
	prev := q.tails[id]
	q.tails[id] = done
	q.mu.Unlock()

	release := func() {
		q.mu.Lock()
		if q.tails[id] == done {
			delete(q.tails, id)
		}
		q.mu.Unlock()
		close(done)
	}

	if prev == nil {
		return release, nil
	}

	select {
	case <-prev:
		return release, nil
	case <-ctx.Done():
		// Later operations are already queued behind us, so hand the slot on
		// only once our predecessor finishes.
		go func() {
			<-prev
			release()
		}()
		return nil, ctx.Err()
	}
}
