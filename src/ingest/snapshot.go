package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tastebud-ai/tastebud/src/knowledge"
)

// WriteSnapshot persists the co-indexed pair into dir as the JSON
// files knowledge.FileSource reads. The count check guards against a
// caller handing over mismatched slices; everything after that is the
// store's load-time validation.
func WriteSnapshot(dir string, records []knowledge.Record, vectors [][]float32) error {
	if len(records) != len(vectors) {
		return fmt.Errorf("ingest: %d records but %d vectors", len(records), len(vectors))
	}
	if len(records) == 0 {
		return fmt.Errorf("ingest: refusing to write empty snapshot")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ingest: create snapshot dir: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, knowledge.RecordsFile), records); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, knowledge.EmbeddingsFile), vectors)
}

// ReadSnapshot loads a snapshot pair back from dir.
func ReadSnapshot(ctx context.Context, dir string) ([]knowledge.Record, [][]float32, error) {
	return knowledge.NewFileSource(dir).Fetch(ctx)
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("ingest: encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("ingest: write %s: %w", path, err)
	}
	return nil
}
