package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
)

// SnapshotSource supplies the co-indexed record and vector collections
// produced by the offline ingestion step. The only contract is count-
// and order-parity between the two slices.
type SnapshotSource interface {
	Fetch(ctx context.Context) ([]Record, [][]float32, error)
}

// Store holds the frozen (record, vector) snapshot for the lifetime of
// the process. It is loaded exactly once and never mutated afterwards,
// so concurrent readers need no locking beyond the load guard.
type Store struct {
	mu      sync.Mutex
	loaded  bool
	records []Record
	vectors [][]float32
	dim     int
	logger  *log.Logger
}

func NewStore() *Store {
	return &Store{}
}

// WithLogger overrides the default (silent) logger.
func (s *Store) WithLogger(logger *log.Logger) *Store {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *Store) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// EnsureLoaded loads the snapshot on first call and is a no-op on every
// call after a successful load.
func (s *Store) EnsureLoaded(ctx context.Context, source SnapshotSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}
	return s.load(ctx, source)
}

// Load fetches and validates the snapshot. Loading an already-loaded
// store is an error; use EnsureLoaded for idempotent startup paths.
func (s *Store) Load(ctx context.Context, source SnapshotSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return errors.New("knowledge: store already loaded")
	}
	return s.load(ctx, source)
}

func (s *Store) load(ctx context.Context, source SnapshotSource) error {
	if source == nil {
		return &IntegrityError{Reason: "no snapshot source"}
	}
	records, vectors, err := source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("knowledge: fetch snapshot: %w", err)
	}
	if err := validateSnapshot(records, vectors); err != nil {
		return err
	}
	s.records = records
	s.vectors = vectors
	s.dim = len(vectors[0])
	s.loaded = true
	s.logf("loaded %d records (dim=%d)", len(records), s.dim)
	return nil
}

func validateSnapshot(records []Record, vectors [][]float32) error {
	if len(records) == 0 || len(vectors) == 0 {
		return &IntegrityError{Reason: "empty snapshot"}
	}
	if len(records) != len(vectors) {
		return &IntegrityError{Reason: fmt.Sprintf("count mismatch: %d records vs %d vectors", len(records), len(vectors))}
	}
	dim := len(vectors[0])
	for i, vec := range vectors {
		if len(vec) != dim {
			return &IntegrityError{
				Reason:   fmt.Sprintf("vector %d has %d dimensions, want %d", i, len(vec), dim),
				SourceID: records[i].SourceID,
			}
		}
		for _, v := range vec {
			f := float64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return &IntegrityError{
					Reason:   fmt.Sprintf("vector %d has a non-finite component", i),
					SourceID: records[i].SourceID,
				}
			}
		}
	}
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("knowledge: record %d: %w", i, err)
		}
	}
	return nil
}

// Loaded reports whether a snapshot has been installed.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Len returns the number of records in the snapshot.
func (s *Store) Len() int {
	return len(s.records)
}

// Dim returns the embedding dimensionality, or 0 before load.
func (s *Store) Dim() int {
	return s.dim
}

// Record returns the record at position i.
func (s *Store) Record(i int) Record {
	return s.records[i]
}

// Vectors exposes the full embedding collection for bulk scoring. The
// returned slice is the store's own frozen snapshot; callers must not
// mutate it.
func (s *Store) Vectors() [][]float32 {
	return s.vectors
}
