package retrieval

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/tastebud-ai/tastebud/src/knowledge"
)

// DimensionError reports a query vector whose width differs from the
// store's embeddings. The request fails cleanly with no partial result.
type DimensionError struct {
	Got  int
	Want int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("retrieval: query vector has %d dimensions, store has %d", e.Got, e.Want)
}

// Match pairs a record with its relevance score and store position.
type Match struct {
	Record knowledge.Record
	Score  float64
	Index  int
}

// Ranker scores every stored vector against a query and keeps the
// top-K at or above the threshold. The zero value uses defaults.
type Ranker struct {
	TopK      int
	Threshold float64
}

// Retrieval policy defaults. These mirror the original deployment and
// are policy, not contract; callers tune them per corpus.
const (
	DefaultTopK      = 200
	DefaultThreshold = 0.3
)

// DefaultRanker returns the stock retrieval policy. A zero-value Ranker
// differs only in its threshold: 0 keeps every non-negative score.
func DefaultRanker() Ranker {
	return Ranker{TopK: DefaultTopK, Threshold: DefaultThreshold}
}

func (r Ranker) withDefaults() Ranker {
	if r.TopK <= 0 {
		r.TopK = DefaultTopK
	}
	return r
}

// Rank returns the top-K matches sorted by descending score, ties broken
// by ascending store position. Matches below the threshold are dropped,
// so an empty result means no grounding, not a failure.
func (r Ranker) Rank(query []float32, store *knowledge.Store) ([]Match, error) {
	r = r.withDefaults()
	if store == nil || store.Len() == 0 {
		return nil, nil
	}
	if len(query) != store.Dim() {
		return nil, &DimensionError{Got: len(query), Want: store.Dim()}
	}

	k := r.TopK
	if n := store.Len(); k > n {
		k = n
	}

	// Partial selection: a size-K min-heap over scores keeps the K best
	// without sorting the whole collection.
	h := make(matchHeap, 0, k)
	heap.Init(&h)
	for i, vec := range store.Vectors() {
		score := CosineSimilarity(query, vec)
		candidate := Match{Score: score, Index: i}
		if h.Len() < k {
			heap.Push(&h, candidate)
			continue
		}
		if h.beats(candidate) {
			h[0] = candidate
			heap.Fix(&h, 0)
		}
	}

	selected := []Match(h)
	sort.Slice(selected, func(i, j int) bool {
		if selected[i].Score != selected[j].Score {
			return selected[i].Score > selected[j].Score
		}
		return selected[i].Index < selected[j].Index
	})

	matches := selected[:0]
	for _, m := range selected {
		if m.Score < r.Threshold {
			continue
		}
		m.Record = store.Record(m.Index)
		matches = append(matches, m)
	}
	return matches, nil
}

// matchHeap is a min-heap ordered worst-first, so the root is always the
// candidate to evict. On equal scores the higher store position is the
// worse candidate, which preserves ascending-position tie-breaking.
type matchHeap []Match

func (h matchHeap) Len() int { return len(h) }

func (h matchHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].Index > h[j].Index
}

func (h matchHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *matchHeap) Push(x any) { *h = append(*h, x.(Match)) }

func (h *matchHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// beats reports whether the candidate outranks the current worst.
func (h matchHeap) beats(candidate Match) bool {
	worst := h[0]
	if candidate.Score != worst.Score {
		return candidate.Score > worst.Score
	}
	return candidate.Index < worst.Index
}
