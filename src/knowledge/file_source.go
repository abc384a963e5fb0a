package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Snapshot file names inside a snapshot directory. Records and
// embeddings are persisted side by side and matched by position.
const (
	RecordsFile    = "records.json"
	EmbeddingsFile = "embeddings.json"
)

// FileSource reads a snapshot from a directory holding the JSON pair
// written by the ingest pipeline.
type FileSource struct {
	Dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (f *FileSource) Fetch(ctx context.Context) ([]Record, [][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	var records []Record
	if err := readJSON(filepath.Join(f.Dir, RecordsFile), &records); err != nil {
		return nil, nil, err
	}
	var vectors [][]float32
	if err := readJSON(filepath.Join(f.Dir, EmbeddingsFile), &vectors); err != nil {
		return nil, nil, err
	}
	return records, vectors, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &IntegrityError{Reason: fmt.Sprintf("snapshot file missing: %s", path)}
		}
		return fmt.Errorf("knowledge: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &IntegrityError{Reason: fmt.Sprintf("decode %s: %v", filepath.Base(path), err)}
	}
	return nil
}
