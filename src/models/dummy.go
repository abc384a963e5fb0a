package models

import (
	"context"
	"sync"
)

// DummyGenerator is a lightweight Generator for local testing without
// API calls. It records every prompt it sees and counts invocations,
// which lets tests assert that generation was (or was not) reached.
type DummyGenerator struct {
	Response string
	Err      error

	mu      sync.Mutex
	calls   int
	prompts []string
}

func NewDummyGenerator(response string) *DummyGenerator {
	if response == "" {
		response = "Dummy answer."
	}
	return &DummyGenerator{Response: response}
}

func (d *DummyGenerator) Generate(_ context.Context, prompt string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	d.prompts = append(d.prompts, prompt)
	if d.Err != nil {
		return "", d.Err
	}
	return d.Response, nil
}

// Calls reports how many times Generate ran.
func (d *DummyGenerator) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// LastPrompt returns the most recent prompt, or "" before any call.
func (d *DummyGenerator) LastPrompt() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.prompts) == 0 {
		return ""
	}
	return d.prompts[len(d.prompts)-1]
}

var _ Generator = (*DummyGenerator)(nil)
