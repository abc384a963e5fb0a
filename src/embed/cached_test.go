package embed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type countedEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (e *countedEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return []float32{float32(len(text))}, nil
}

func (e *countedEmbedder) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func TestCachedEmbedderServesRepeatsFromCache(t *testing.T) {
	inner := &countedEmbedder{}
	cached := NewCachedEmbedder(inner, 8, time.Minute)

	first, err := cached.Embed(context.Background(), "same query")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	second, err := cached.Embed(context.Background(), "same query")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if inner.Calls() != 1 {
		t.Fatalf("inner embedder called %d times, want 1", inner.Calls())
	}
	if len(first) != len(second) || first[0] != second[0] {
		t.Fatalf("cached vector differs: %v vs %v", first, second)
	}
}

func TestCachedEmbedderDoesNotCacheErrors(t *testing.T) {
	inner := &countedEmbedder{err: errors.New("down")}
	cached := NewCachedEmbedder(inner, 8, time.Minute)

	if _, err := cached.Embed(context.Background(), "q"); err == nil {
		t.Fatal("expected error")
	}
	inner.err = nil
	if _, err := cached.Embed(context.Background(), "q"); err != nil {
		t.Fatalf("expected recovery after inner error cleared: %v", err)
	}
	if inner.Calls() != 2 {
		t.Fatalf("inner embedder called %d times, want 2", inner.Calls())
	}
}

func TestCachedEmbedderEvictsOldest(t *testing.T) {
	inner := &countedEmbedder{}
	cached := NewCachedEmbedder(inner, 2, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := cached.Embed(context.Background(), fmt.Sprintf("query %d", i)); err != nil {
			t.Fatalf("Embed: %v", err)
		}
	}
	if cached.Len() != 2 {
		t.Fatalf("cache holds %d entries, want 2", cached.Len())
	}
	// "query 0" was evicted, so it costs another inner call.
	if _, err := cached.Embed(context.Background(), "query 0"); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if inner.Calls() != 4 {
		t.Fatalf("inner embedder called %d times, want 4", inner.Calls())
	}
}
