package knowledge

import (
	"context"
	"errors"
	"math"
	"testing"
)

type staticSource struct {
	records []Record
	vectors [][]float32
	err     error
	fetches int
}

func (s *staticSource) Fetch(context.Context) ([]Record, [][]float32, error) {
	s.fetches++
	return s.records, s.vectors, s.err
}

func validSource() *staticSource {
	return &staticSource{
		records: []Record{
			{Content: "Veg Biryani available at Restaurant A", SourceID: "rest_a", Kind: KindMenuItem},
			{Content: "Chicken Biryani at Restaurant B", SourceID: "rest_b", Kind: KindMenuItem},
		},
		vectors: [][]float32{
			{0.1, 0.2, 0.3},
			{0.4, 0.5, 0.6},
		},
	}
}

func TestStoreLoadsValidSnapshot(t *testing.T) {
	store := NewStore()
	if err := store.Load(context.Background(), validSource()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !store.Loaded() {
		t.Fatalf("store should report loaded")
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", store.Len())
	}
	if store.Dim() != 3 {
		t.Fatalf("expected dim 3, got %d", store.Dim())
	}
	if got := store.Record(1).SourceID; got != "rest_b" {
		t.Fatalf("unexpected record at position 1: %q", got)
	}
	if len(store.Vectors()) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(store.Vectors()))
	}
}

func TestEnsureLoadedIsIdempotent(t *testing.T) {
	store := NewStore()
	source := validSource()
	if err := store.EnsureLoaded(context.Background(), source); err != nil {
		t.Fatalf("first EnsureLoaded returned error: %v", err)
	}
	if err := store.EnsureLoaded(context.Background(), source); err != nil {
		t.Fatalf("second EnsureLoaded returned error: %v", err)
	}
	if source.fetches != 1 {
		t.Fatalf("expected a single fetch, got %d", source.fetches)
	}
}

func TestLoadRejectsSecondLoad(t *testing.T) {
	store := NewStore()
	if err := store.Load(context.Background(), validSource()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := store.Load(context.Background(), validSource()); err == nil {
		t.Fatalf("expected error on second Load")
	}
}

func TestLoadRejectsCountMismatch(t *testing.T) {
	source := validSource()
	source.vectors = source.vectors[:1]
	assertIntegrityError(t, source)
}

func TestLoadRejectsEmptySnapshot(t *testing.T) {
	assertIntegrityError(t, &staticSource{})
}

func TestLoadRejectsNonFiniteComponents(t *testing.T) {
	for _, bad := range []float32{float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1))} {
		source := validSource()
		source.vectors[1][2] = bad
		assertIntegrityError(t, source)
	}
}

func TestLoadRejectsRaggedVectors(t *testing.T) {
	source := validSource()
	source.vectors[1] = []float32{0.4, 0.5}
	assertIntegrityError(t, source)
}

func TestLoadRejectsEmptyContent(t *testing.T) {
	source := validSource()
	source.records[0].Content = "   "
	assertIntegrityError(t, source)
}

func TestLoadRejectsNilSource(t *testing.T) {
	store := NewStore()
	err := store.Load(context.Background(), nil)
	var integrity *IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
}

func TestLoadWrapsSourceFailure(t *testing.T) {
	store := NewStore()
	source := &staticSource{err: errors.New("disk gone")}
	err := store.Load(context.Background(), source)
	if err == nil || store.Loaded() {
		t.Fatalf("expected load failure, got err=%v loaded=%v", err, store.Loaded())
	}
}

func assertIntegrityError(t *testing.T, source SnapshotSource) {
	t.Helper()
	store := NewStore()
	err := store.Load(context.Background(), source)
	var integrity *IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if store.Loaded() {
		t.Fatalf("store must not report loaded after a failed load")
	}
}
