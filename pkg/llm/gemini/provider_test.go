package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"en-garde-armory-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewGeminiProvider("test-key", "gemini-2.5-flash")
	p.BaseURL = srv.URL
	return p
}

func TestGenerateSendsPromptAndJoinsParts(t *testing.T) {
	var gotReq geminiRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Sabre X "},{"text":"is fast."}]}}]}`))
	})

	out, err := p.Generate(context.Background(), "tell me about the sabre")
	require.NoError(t, err)
	assert.Equal(t, "Sabre X is fast.", out)

	require.Len(t, gotReq.Contents, 1)
	assert.Equal(t, "user", gotReq.Contents[0].Role)
	assert.Equal(t, "tell me about the sabre", gotReq.Contents[0].Parts[0].Text)
	assert.Nil(t, gotReq.GenerationConfig)
}

func TestChatMapsRolesAndOptions(t *testing.T) {
	var gotReq geminiRequest
	var gotPath string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotReq))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	})

	_, err := p.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	}, llm.WithModel("gemini-2.5-pro"), llm.WithMaxTokens(64))
	require.NoError(t, err)

	assert.Equal(t, "/v1beta/models/gemini-2.5-pro:generateContent", gotPath)
	require.NotNil(t, gotReq.SystemInstruction)
	assert.Equal(t, "be brief", gotReq.SystemInstruction.Parts[0].Text)
	require.Len(t, gotReq.Contents, 2)
	assert.Equal(t, "model", gotReq.Contents[1].Role)
	require.NotNil(t, gotReq.GenerationConfig)
	assert.Equal(t, 64, gotReq.GenerationConfig.MaxOutputTokens)
}

func TestGenerateNoCandidatesIsEmpty(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	out, err := p.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "api error envelope", status: http.StatusForbidden, body: `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`, wantMsg: "API key not valid"},
		{name: "quota", status: http.StatusTooManyRequests, body: `rate limited`, wantMsg: "status 429"},
		{name: "malformed body", status: http.StatusOK, body: `{"candidates":`, wantMsg: "unmarshal response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := p.Generate(context.Background(), "prompt")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestGenerateHonoursContext(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, "prompt")
	assert.Error(t, err)
}

func TestChatWithoutKeyFailsBeforeDialing(t *testing.T) {
	p := NewGeminiProvider("", "gemini-2.5-flash")
	p.BaseURL = "http://127.0.0.1:1"

	_, err := p.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
