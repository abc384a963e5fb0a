// Package embed provides the text-embedding boundary: one query or
// chunk in, one fixed-width vector out. Providers share the model
// family used at ingestion time so query and store vectors live in the
// same space.
package embed

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
)

// Embedder is a pluggable text-embedding provider. Embed is synchronous
// and deterministic for a fixed (input, model version) pair.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ErrNotSupported is returned by providers that do not offer embeddings.
var ErrNotSupported = errors.New("embeddings not supported by this provider")

// DummyEmbedder produces deterministic vectors without network access.
// Useful for tests and offline development.
type DummyEmbedder struct{}

func (DummyEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return DummyEmbedding(text), nil
}

// DummyEmbedding hashes bytes into a fixed 768-wide vector.
func DummyEmbedding(text string) []float32 {
	vec := make([]float32, 768)
	for i, ch := range []byte(text) {
		vec[i%768] += float32(ch) / 255.0
	}
	return vec
}

// AutoEmbedder chooses a provider from env:
// TASTEBUD_EMBED_PROVIDER=gemini|openai|ollama|voyage|fastembed
// TASTEBUD_EMBED_MODEL=<model string>
// Unset or failing providers fall back to the dummy embedder.
func AutoEmbedder() Embedder {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("TASTEBUD_EMBED_PROVIDER")))
	model := strings.TrimSpace(os.Getenv("TASTEBUD_EMBED_MODEL"))

	switch provider {
	case "gemini", "google":
		if e, err := NewGeminiEmbedder(model); err == nil {
			return e
		}
	case "openai":
		if e, err := NewOpenAIEmbedder(model); err == nil {
			return e
		}
	case "ollama":
		if e, err := NewOllamaEmbedder(model); err == nil {
			return e
		}
	case "voyage":
		if e, err := NewVoyageEmbedder(model); err == nil {
			return e
		}
	case "fastembed":
		if e, err := NewFastEmbedder(context.Background(), nil); err == nil {
			return e
		}
	}

	log.Printf("AutoEmbedder: falling back to DummyEmbedder")
	return DummyEmbedder{}
}
