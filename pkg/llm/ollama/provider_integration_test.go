//go:build integration

package ollama

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"en-garde-armory-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a local Ollama server: go test -tags integration ./pkg/llm/ollama
func newLiveProvider(t *testing.T) *OllamaProvider {
	t.Helper()
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "gemma:2b"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := NewOllamaProvider(baseURL, model)
	if _, err := p.Generate(ctx, "ping", llm.WithMaxTokens(1)); err != nil {
		t.Skipf("Ollama not reachable at %s: %v", baseURL, err)
	}
	return p
}

func TestLiveGenerateEquipmentInsight(t *testing.T) {
	p := newLiveProvider(t)
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	resp, err := p.Generate(ctx, "In one sentence, what is a fencing foil?")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(resp))
	t.Logf("response: %s", resp)
}

func TestLiveChatWithModelRole(t *testing.T) {
	p := newLiveProvider(t)
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	resp, err := p.Chat(ctx, []llm.Message{
		{Role: "user", Content: "My weapon is the sabre."},
		{Role: "model", Content: "Noted, the sabre."},
		{Role: "user", Content: "Which weapon did I name?"},
	})
	require.NoError(t, err)
	if !strings.Contains(strings.ToLower(resp), "sabre") {
		t.Logf("model did not repeat the weapon: %s", resp)
	}
}
