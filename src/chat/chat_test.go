package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/tastebud-ai/tastebud/src/knowledge"
	"github.com/tastebud-ai/tastebud/src/models"
	"github.com/tastebud-ai/tastebud/src/retrieval"
)

type fixedSource struct {
	records []knowledge.Record
	vectors [][]float32
}

func (s fixedSource) Fetch(context.Context) ([]knowledge.Record, [][]float32, error) {
	return s.records, s.vectors, nil
}

type fixedEmbedder struct {
	vec []float32
	err error

	mu    sync.Mutex
	calls int
}

func (e *fixedEmbedder) Embed(context.Context, string) ([]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	return e.vec, nil
}

func (e *fixedEmbedder) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func testStore(t *testing.T) *knowledge.Store {
	t.Helper()
	store := knowledge.NewStore()
	src := fixedSource{
		records: []knowledge.Record{
			{Content: "Luigi's serves thin-crust pizza.", SourceID: "luigis", Kind: knowledge.KindGeneral},
			{Content: "Luigi's is closed on Mondays.", SourceID: "luigis", Kind: knowledge.KindGeneral},
			{Content: "Sakura offers omakase sushi.", SourceID: "sakura", Kind: knowledge.KindGeneral},
		},
		vectors: [][]float32{
			{1, 0, 0},
			{0.9, 0.1, 0},
			{0, 1, 0},
		},
	}
	if err := store.Load(context.Background(), src); err != nil {
		t.Fatalf("load store: %v", err)
	}
	return store
}

func TestAskGroundedAnswer(t *testing.T) {
	store := testStore(t)
	emb := &fixedEmbedder{vec: []float32{1, 0, 0}}
	gen := models.NewDummyGenerator("Luigi's has pizza.")
	eng := NewEngine(store, emb, gen, DefaultOptions())

	out, err := eng.Ask(context.Background(), "What does Luigi's serve?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if out != "Luigi's has pizza." {
		t.Fatalf("unexpected answer %q", out)
	}
	if emb.Calls() != 1 {
		t.Fatalf("embedder called %d times, want 1", emb.Calls())
	}
	if gen.Calls() != 1 {
		t.Fatalf("generator called %d times, want 1", gen.Calls())
	}
}

func TestAskPromptCarriesContextAndQuery(t *testing.T) {
	store := testStore(t)
	emb := &fixedEmbedder{vec: []float32{1, 0, 0}}
	gen := models.NewDummyGenerator("")
	eng := NewEngine(store, emb, gen, DefaultOptions())

	if _, err := eng.Ask(context.Background(), "What does Luigi's serve?"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	prompt := gen.LastPrompt()
	if !strings.Contains(prompt, "thin-crust pizza") {
		t.Fatalf("prompt missing retrieved context: %q", prompt)
	}
	if !strings.Contains(prompt, "What does Luigi's serve?") {
		t.Fatalf("prompt missing question: %q", prompt)
	}
	// Best match first, joined with a newline.
	if !strings.Contains(prompt, "Luigi's serves thin-crust pizza.\nLuigi's is closed on Mondays.") {
		t.Fatalf("context not in rank order: %q", prompt)
	}
}

func TestAskNoGroundingSkipsGenerator(t *testing.T) {
	store := testStore(t)
	emb := &fixedEmbedder{vec: []float32{1, 0, 0}}
	gen := models.NewDummyGenerator("")
	opts := DefaultOptions()
	opts.Threshold = 0.99999
	eng := NewEngine(store, emb, gen, opts)

	out, err := eng.Ask(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if out != NotFoundMessage {
		t.Fatalf("got %q, want not-found message", out)
	}
	if gen.Calls() != 0 {
		t.Fatalf("generator called %d times, want 0", gen.Calls())
	}
}

func TestAnswerFilteredMapsToBlockedMessage(t *testing.T) {
	store := testStore(t)
	emb := &fixedEmbedder{vec: []float32{1, 0, 0}}
	gen := models.NewDummyGenerator("")
	gen.Err = &models.FilteredError{Category: "SAFETY"}
	eng := NewEngine(store, emb, gen, DefaultOptions())

	out, err := eng.Ask(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	want := BlockedMessage("SAFETY")
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
	if !strings.Contains(out, "SAFETY") {
		t.Fatalf("blocked message missing category: %q", out)
	}
}

func TestAnswerEmptyCompletionMapsToEmptyMessage(t *testing.T) {
	store := testStore(t)
	emb := &fixedEmbedder{vec: []float32{1, 0, 0}}
	gen := models.NewDummyGenerator("")
	gen.Err = models.ErrEmptyCompletion
	eng := NewEngine(store, emb, gen, DefaultOptions())

	out, err := eng.Ask(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if out != EmptyResponseMessage {
		t.Fatalf("got %q, want empty-response message", out)
	}
}

func TestAnswerGeneratorFaultMapsToUpstreamMessage(t *testing.T) {
	store := testStore(t)
	emb := &fixedEmbedder{vec: []float32{1, 0, 0}}
	gen := models.NewDummyGenerator("")
	gen.Err = errors.New("connection reset")
	eng := NewEngine(store, emb, gen, DefaultOptions())

	out, err := eng.Ask(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if out != UpstreamFailureMessage {
		t.Fatalf("got %q, want upstream message", out)
	}
}

func TestAskEmbedFaultMapsToUpstreamMessage(t *testing.T) {
	store := testStore(t)
	emb := &fixedEmbedder{err: errors.New("embedding service down")}
	gen := models.NewDummyGenerator("")
	eng := NewEngine(store, emb, gen, DefaultOptions())

	out, err := eng.Ask(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if out != UpstreamFailureMessage {
		t.Fatalf("got %q, want upstream message", out)
	}
	if gen.Calls() != 0 {
		t.Fatalf("generator called %d times, want 0", gen.Calls())
	}
}

func TestAskDimensionMismatchFailsRequest(t *testing.T) {
	store := testStore(t)
	emb := &fixedEmbedder{vec: []float32{1, 0, 0, 0}}
	gen := models.NewDummyGenerator("")
	eng := NewEngine(store, emb, gen, DefaultOptions())

	out, err := eng.Ask(context.Background(), "anything")
	var dim *retrieval.DimensionError
	if !errors.As(err, &dim) {
		t.Fatalf("expected DimensionError, got %v", err)
	}
	if dim.Got != 4 || dim.Want != 3 {
		t.Fatalf("DimensionError = %+v", dim)
	}
	if out != "" {
		t.Fatalf("expected empty answer on dimension mismatch, got %q", out)
	}
	if gen.Calls() != 0 {
		t.Fatalf("generator called %d times, want 0", gen.Calls())
	}
}

func TestRetrieveUnloadedStore(t *testing.T) {
	emb := &fixedEmbedder{vec: []float32{1, 0, 0}}
	eng := NewEngine(knowledge.NewStore(), emb, models.NewDummyGenerator(""), DefaultOptions())

	if _, err := eng.Retrieve(context.Background(), "anything"); err == nil {
		t.Fatal("expected error for unloaded store")
	}
	if emb.Calls() != 0 {
		t.Fatalf("embedder called %d times, want 0", emb.Calls())
	}
}

func TestAnswerTruncatesOversizedContext(t *testing.T) {
	store := testStore(t)
	emb := &fixedEmbedder{vec: []float32{1, 0, 0}}
	gen := models.NewDummyGenerator("")
	opts := DefaultOptions()
	opts.MaxContextChars = 20
	eng := NewEngine(store, emb, gen, opts)

	if _, err := eng.Ask(context.Background(), "anything"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	prompt := gen.LastPrompt()
	if !strings.Contains(prompt, "Luigi's serves thin-"+retrieval.TruncationMarker) {
		t.Fatalf("expected truncated context in prompt: %q", prompt)
	}
}
