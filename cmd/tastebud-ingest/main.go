// Command tastebud-ingest builds a knowledge snapshot from a scraped
// restaurants.json file: flatten restaurants into text chunks, embed
// them, and write the co-indexed snapshot pair for tastebud-chat.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/tastebud-ai/tastebud/src/embed"
	"github.com/tastebud-ai/tastebud/src/ingest"
)

func main() {
	dataPath := flag.String("data", "restaurants.json", "scraped restaurant dataset")
	outDir := flag.String("out", "kb_data", "snapshot output directory")
	workers := flag.Int("workers", 4, "embedding worker count")
	expectedDim := flag.Int("dim", 0, "expected embedding dimension (0 = accept any)")
	flag.Parse()

	logger := log.New(os.Stderr, "ingest: ", log.LstdFlags)
	ctx := context.Background()

	ds, err := ingest.LoadDataset(*dataPath)
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}
	logger.Printf("loaded %d restaurants from %s", len(ds.Restaurants), *dataPath)

	records := ingest.BuildChunks(ds)
	if len(records) == 0 {
		log.Fatal("dataset produced no chunks")
	}
	logger.Printf("built %d chunks", len(records))

	pipeline := ingest.Pipeline{
		Embedder:    embed.AutoEmbedder(),
		Workers:     *workers,
		ExpectedDim: *expectedDim,
		Retry:       ingest.RetryOptions{MaxAttempts: 3, BaseDelay: 200 * time.Millisecond, Jitter: 100 * time.Millisecond},
		Logger:      logger,
	}
	vectors, err := pipeline.Run(ctx, records)
	if err != nil {
		log.Fatalf("embed chunks: %v", err)
	}

	if err := ingest.WriteSnapshot(*outDir, records, vectors); err != nil {
		log.Fatalf("write snapshot: %v", err)
	}
	logger.Printf("wrote snapshot (%d records) to %s", len(records), *outDir)
}
