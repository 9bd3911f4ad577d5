package llm

import (
	"context"
)

// Message is one turn of a conversation. Roles are "user", "assistant" (or "model") and "system".
type Message struct {
	Role    string
	Content string
}

type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // overrides the provider's default model
}

// Resolve applies opts over the given defaults.
func Resolve(defaults Options, opts ...Option) Options {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}

// ModelOr returns the overriding model name, or fallback when none was set.
func (o Options) ModelOr(fallback string) string {
	if o.Model != "" {
		return o.Model
	}
	return fallback
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider is the text-generation backend the insight requester talks to.
type LLMProvider interface {
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)
	// Generate is a single-turn Chat.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
