package factory

import (
	"fmt"

	"en-garde-armory-be/pkg/llm"
	"en-garde-armory-be/pkg/llm/gemini"
	"en-garde-armory-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "gemini":
		// a missing key is not fatal: every call fails with gemini.ErrMissingAPIKey
		if modelName == "" {
			modelName = "gemini-2.5-flash"
		}
		return gemini.NewGeminiProvider(apiKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
