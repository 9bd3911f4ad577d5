package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (r *recordingPublisher) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, e.EventType())
	return nil
}

func (r *recordingPublisher) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.types...)
}

// blockingPublisher holds every delivery until its context ends.
type blockingPublisher struct{}

func (blockingPublisher) Publish(ctx context.Context, _ Event) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestAsyncPublisherKeepsOrderAndDrainsOnClose(t *testing.T) {
	next := &recordingPublisher{}
	p := NewAsyncPublisher(next, 8, time.Second, nil)

	for _, typ := range []string{"A", "B", "C"} {
		require.NoError(t, p.Publish(context.Background(), NewEvent(typ, nil)))
	}
	p.Close()

	assert.Equal(t, []string{"A", "B", "C"}, next.snapshot())
	assert.ErrorIs(t, p.Publish(context.Background(), NewEvent("D", nil)), ErrPublisherClosed)
}

func TestAsyncPublisherNeverBlocksCaller(t *testing.T) {
	var (
		mu     sync.Mutex
		failed int
	)
	p := NewAsyncPublisher(blockingPublisher{}, 1, 50*time.Millisecond, func(Event, error) {
		mu.Lock()
		failed++
		mu.Unlock()
	})

	start := time.Now()
	var full int
	for i := 0; i < 5; i++ {
		if err := p.Publish(context.Background(), NewEvent("X", nil)); err == ErrQueueFull {
			full++
		}
	}
	assert.Less(t, time.Since(start), 20*time.Millisecond)
	assert.Greater(t, full, 0)

	p.Close()
	mu.Lock()
	defer mu.Unlock()
	assert.Greater(t, failed, 0)
}
