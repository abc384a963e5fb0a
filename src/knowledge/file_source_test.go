package knowledge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSourceReadsSnapshotPair(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, RecordsFile), `[
                {"content": "Restaurant Name: Spice Garden.", "source_id": "rest_0", "kind": "general"},
                {"content": "Menu Item: Paneer Tikka.", "source_id": "rest_0", "kind": "menu_item"}
        ]`)
	writeFile(t, filepath.Join(dir, EmbeddingsFile), `[[0.1, 0.2], [0.3, 0.4]]`)

	records, vectors, err := NewFileSource(dir).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(records) != 2 || len(vectors) != 2 {
		t.Fatalf("expected 2 records and 2 vectors, got %d and %d", len(records), len(vectors))
	}
	if records[1].Kind != KindMenuItem {
		t.Fatalf("unexpected kind: %q", records[1].Kind)
	}
	if vectors[1][0] != 0.3 {
		t.Fatalf("unexpected vector component: %v", vectors[1][0])
	}
}

func TestFileSourceMissingFileIsIntegrityError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, RecordsFile), `[]`)

	_, _, err := NewFileSource(dir).Fetch(context.Background())
	var integrity *IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected IntegrityError for missing embeddings file, got %v", err)
	}
}

func TestFileSourceMalformedJSONIsIntegrityError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, RecordsFile), `{not json`)
	writeFile(t, filepath.Join(dir, EmbeddingsFile), `[]`)

	_, _, err := NewFileSource(dir).Fetch(context.Background())
	var integrity *IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected IntegrityError for malformed records file, got %v", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
