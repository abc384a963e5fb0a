package models

import (
	"context"
	"fmt"
)

// NewGenerator returns a concrete Generator for the named provider.
func NewGenerator(ctx context.Context, provider, model string) (Generator, error) {
	switch provider {
	case "gemini", "google":
		return NewGeminiGenerator(ctx, model)
	case "openai":
		return NewOpenAIGenerator(model), nil
	case "anthropic", "claude":
		return NewAnthropicGenerator(model), nil
	case "ollama":
		return NewOllamaGenerator(model)
	case "dummy":
		return NewDummyGenerator(""), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
