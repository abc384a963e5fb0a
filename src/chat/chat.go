// Package chat orchestrates grounded question answering: embed the
// query, rank the frozen knowledge snapshot, assemble bounded context,
// and call the generation service. Every external-service fault is
// mapped to a fixed user-facing message here; nothing past this
// boundary surfaces raw provider errors.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/tastebud-ai/tastebud/src/embed"
	"github.com/tastebud-ai/tastebud/src/knowledge"
	"github.com/tastebud-ai/tastebud/src/models"
	"github.com/tastebud-ai/tastebud/src/retrieval"
)

// The closed set of user-facing fallback messages.
const (
	NotFoundMessage        = "Sorry, I couldn't find specific information related to your query in my current data."
	EmptyResponseMessage   = "Sorry, I received an empty response. Please try again."
	UpstreamFailureMessage = "Sorry, I encountered an error while generating the response with the AI model."
)

// BlockedMessage is the safety-refusal response, carrying the filter
// category for the user to see why rephrasing may help.
func BlockedMessage(category string) string {
	return fmt.Sprintf("Sorry, my response was blocked due to safety reasons (%s). Please rephrase your query.", category)
}

// Options tunes the retrieval policy for an Engine.
type Options struct {
	TopK            int
	Threshold       float64
	MaxContextChars int
}

// DefaultOptions mirrors the original deployment's policy. The numeric
// defaults are configurable policy, not a behavioural contract.
func DefaultOptions() Options {
	return Options{
		TopK:            retrieval.DefaultTopK,
		Threshold:       retrieval.DefaultThreshold,
		MaxContextChars: retrieval.DefaultMaxContextChars,
	}
}

// Engine wires the frozen store with the embedding and generation
// services. Construct once at startup; safe for concurrent queries.
type Engine struct {
	store     *knowledge.Store
	embedder  embed.Embedder
	generator models.Generator
	ranker    retrieval.Ranker
	assembler retrieval.Assembler
	logger    *log.Logger
}

func NewEngine(store *knowledge.Store, embedder embed.Embedder, generator models.Generator, opts Options) *Engine {
	if opts.TopK <= 0 {
		opts.TopK = retrieval.DefaultTopK
	}
	if opts.MaxContextChars <= 0 {
		opts.MaxContextChars = retrieval.DefaultMaxContextChars
	}
	return &Engine{
		store:     store,
		embedder:  embedder,
		generator: generator,
		ranker:    retrieval.Ranker{TopK: opts.TopK, Threshold: opts.Threshold},
		assembler: retrieval.Assembler{MaxChars: opts.MaxContextChars},
	}
}

// WithLogger overrides the default (silent) logger.
func (e *Engine) WithLogger(logger *log.Logger) *Engine {
	if logger != nil {
		e.logger = logger
	}
	return e
}

func (e *Engine) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}

// Retrieve embeds the query once and ranks it against the snapshot.
// An empty result means no grounding cleared the threshold; it is not
// an error.
func (e *Engine) Retrieve(ctx context.Context, query string) ([]retrieval.Match, error) {
	if !e.store.Loaded() {
		return nil, errors.New("chat: knowledge store not loaded")
	}
	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("chat: embed query: %w", err)
	}
	matches, err := e.ranker.Rank(vec, e.store)
	if err != nil {
		return nil, err
	}
	e.logf("retrieved %d matches (top_k=%d, threshold=%v)", len(matches), e.ranker.TopK, e.ranker.Threshold)
	return matches, nil
}

// Answer turns ranked matches into a grounded response. With no
// grounding it short-circuits to the fixed not-found message without
// touching the generator; every generation fault maps to one of the
// fixed fallback messages.
func (e *Engine) Answer(ctx context.Context, query string, matches []retrieval.Match) string {
	grounding := e.assembler.Assemble(matches)
	if grounding.Empty {
		return NotFoundMessage
	}
	if grounding.Truncated {
		e.logf("context truncated from %d to %d chars", grounding.OriginalLen, e.assembler.MaxChars)
	}

	out, err := e.generator.Generate(ctx, BuildPrompt(query, grounding.Text))
	if err != nil {
		var filtered *models.FilteredError
		switch {
		case errors.As(err, &filtered):
			e.logf("generation blocked: %s", filtered.Category)
			return BlockedMessage(filtered.Category)
		case errors.Is(err, models.ErrEmptyCompletion):
			e.logf("generation returned no text")
			return EmptyResponseMessage
		default:
			e.logf("generation failed: %v", err)
			return UpstreamFailureMessage
		}
	}
	return out
}

// Ask runs the full pipeline: at most one embedding call and at most
// one generation call. A query-vector dimension mismatch is returned as
// an error (that request fails cleanly); embedding-service faults map
// to the upstream apology like any other provider outage.
func (e *Engine) Ask(ctx context.Context, query string) (string, error) {
	matches, err := e.Retrieve(ctx, query)
	if err != nil {
		var dim *retrieval.DimensionError
		if errors.As(err, &dim) {
			return "", err
		}
		e.logf("retrieval failed: %v", err)
		return UpstreamFailureMessage, nil
	}
	return e.Answer(ctx, query, matches), nil
}
