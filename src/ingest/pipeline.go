package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/tastebud-ai/tastebud/src/embed"
	"github.com/tastebud-ai/tastebud/src/knowledge"
)

// RetryOptions control retry behaviour when an embedding call fails.
type RetryOptions struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration
}

// Pipeline embeds records with a bounded worker pool. Vectors land at
// the same position as their record, so the output stays co-indexed;
// any record that still fails after retries aborts the whole build,
// since a partial snapshot would break count parity.
type Pipeline struct {
	Embedder    embed.Embedder
	Workers     int
	ExpectedDim int
	Retry       RetryOptions
	Logger      *log.Logger
}

type job struct {
	pos    int
	record knowledge.Record
}

// Run embeds every record and returns the co-indexed vector slice.
func (p Pipeline) Run(ctx context.Context, records []knowledge.Record) ([][]float32, error) {
	if p.Embedder == nil {
		return nil, errors.New("ingest: pipeline requires an embedder")
	}
	if len(records) == 0 {
		return nil, errors.New("ingest: no records to embed")
	}
	if p.Workers <= 0 {
		p.Workers = 4
	}
	if p.Retry.MaxAttempts <= 0 {
		p.Retry.MaxAttempts = 3
	}
	if p.Retry.BaseDelay <= 0 {
		p.Retry.BaseDelay = 200 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	input := make(chan job)
	vectors := make([][]float32, len(records))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	for i := 0; i < p.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range input {
				vec, err := p.embedWithRetry(ctx, j.record)
				if err != nil {
					fail(fmt.Errorf("ingest: embed record %d (%s): %w", j.pos, j.record.SourceID, err))
					return
				}
				vectors[j.pos] = vec
			}
		}()
	}

	go func() {
		defer close(input)
		for i, rec := range records {
			select {
			case <-ctx.Done():
				return
			case input <- job{pos: i, record: rec}:
			}
		}
	}()

	wg.Wait()
	mu.Lock()
	err := firstErr
	mu.Unlock()
	if err != nil {
		return nil, err
	}
	if p.Logger != nil {
		p.Logger.Printf("embedded %d records (dim=%d)", len(records), len(vectors[0]))
	}
	return vectors, nil
}

func (p Pipeline) embedWithRetry(ctx context.Context, rec knowledge.Record) ([]float32, error) {
	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		attempts++
		vec, err := p.Embedder.Embed(ctx, rec.Content)
		if err == nil {
			err = p.checkVector(vec)
		}
		if err == nil {
			return vec, nil
		}
		if attempts >= p.Retry.MaxAttempts {
			return nil, fmt.Errorf("after %d attempts: %w", attempts, err)
		}
		delay := p.Retry.BaseDelay * time.Duration(attempts)
		if p.Retry.Jitter > 0 {
			delay += time.Duration(rand.Int63n(int64(p.Retry.Jitter)))
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (p Pipeline) checkVector(vec []float32) error {
	if len(vec) == 0 {
		return errors.New("empty embedding")
	}
	if p.ExpectedDim > 0 && len(vec) != p.ExpectedDim {
		return fmt.Errorf("embedding dimension mismatch: got %d expected %d", len(vec), p.ExpectedDim)
	}
	for _, v := range vec {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.New("embedding contains non-finite value")
		}
	}
	return nil
}
