package events

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrQueueFull       = errors.New("event queue full")
	ErrPublisherClosed = errors.New("event publisher closed")
)

// AsyncPublisher queues events and hands them to the next publisher from a single goroutine,
// so callers never wait on the bus. Order is preserved; events are dropped when the queue is full.
type AsyncPublisher struct {
	next    Publisher
	timeout time.Duration
	onError func(Event, error)

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// NewAsyncPublisher starts the drain goroutine. Each delivery gets timeout; onError may be nil.
func NewAsyncPublisher(next Publisher, buffer int, timeout time.Duration, onError func(Event, error)) *AsyncPublisher {
	ctx, cancel := context.WithCancel(context.Background())
	p := &AsyncPublisher{
		next:    next,
		timeout: timeout,
		onError: onError,
		queue:   make(chan Event, buffer),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
	go p.run()
	return p
}

// Publish enqueues without blocking. ctx is not used for delivery.
func (p *AsyncPublisher) Publish(_ context.Context, event Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for event := range p.queue {
		ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
		err := p.next.Publish(ctx, event)
		cancel()
		if err != nil && p.onError != nil {
			p.onError(event, err)
		}
	}
}

// Close stops accepting events and drains the queue. Deliveries still pending after one
// timeout are cancelled.
func (p *AsyncPublisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
	case <-time.After(p.timeout):
		p.cancel()
		<-p.done
	}
	p.cancel()
}
