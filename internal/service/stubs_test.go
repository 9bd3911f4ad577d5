package service

import (
	"context"
	"errors"
	"sync"

	"en-garde-armory-be/internal/entity"
	"en-garde-armory-be/internal/repository/specification"
	"en-garde-armory-be/pkg/events"
	"en-garde-armory-be/pkg/llm"
)

// stubGenerator answers every prompt with text/err. When gate is set each call blocks on it.
type stubGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	panics  bool
	gate    chan struct{}
	prompts []string
	options llm.Options
}

func (g *stubGenerator) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return g.Generate(ctx, history[len(history)-1].Content, options...)
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.options = llm.Resolve(llm.Options{}, options...)
	gate := g.gate
	g.mu.Unlock()

	if g.panics {
		panic("provider exploded")
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.text, g.err
}

func (g *stubGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type fakeInsightLogRepo struct {
	mu        sync.Mutex
	logs      []*entity.InsightLog
	createErr error

	findSpecs  []specification.Specification
	countSpecs []specification.Specification
}

func (r *fakeInsightLogRepo) Create(ctx context.Context, l *entity.InsightLog) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, l)
	return nil
}

func (r *fakeInsightLogRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.InsightLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findSpecs = specs
	return r.logs, nil
}

func (r *fakeInsightLogRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.countSpecs = specs
	return int64(len(r.logs)), nil
}

type capturePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (p *capturePublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return p.err
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}

type captureEvents struct {
	mu    sync.Mutex
	types []string
}

func (e *captureEvents) Publish(ctx context.Context, event events.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.types = append(e.types, event.EventType())
	return nil
}

func (e *captureEvents) snapshot() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.types...)
}

// hangingEvents never delivers; every publish waits for its context.
type hangingEvents struct{}

func (hangingEvents) Publish(ctx context.Context, _ events.Event) error {
	<-ctx.Done()
	return ctx.Err()
}

var errUpstream = errors.New("upstream 503")
