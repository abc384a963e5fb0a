package models

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDummyGeneratorCountsCalls(t *testing.T) {
	gen := NewDummyGenerator("The answer.")
	if gen.Calls() != 0 {
		t.Fatalf("expected zero calls before use, got %d", gen.Calls())
	}
	out, err := gen.Generate(context.Background(), "prompt one")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if out != "The answer." {
		t.Fatalf("unexpected response: %q", out)
	}
	if _, err := gen.Generate(context.Background(), "prompt two"); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if gen.Calls() != 2 {
		t.Fatalf("expected 2 calls, got %d", gen.Calls())
	}
	if gen.LastPrompt() != "prompt two" {
		t.Fatalf("unexpected last prompt: %q", gen.LastPrompt())
	}
}

func TestDummyGeneratorDefaultResponse(t *testing.T) {
	gen := NewDummyGenerator("")
	out, err := gen.Generate(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if out == "" {
		t.Fatalf("expected a non-empty default response")
	}
}

func TestDummyGeneratorPropagatesError(t *testing.T) {
	gen := NewDummyGenerator("ignored")
	gen.Err = errors.New("service down")
	if _, err := gen.Generate(context.Background(), "anything"); err == nil {
		t.Fatalf("expected configured error")
	}
	if gen.Calls() != 1 {
		t.Fatalf("failed call must still count, got %d", gen.Calls())
	}
}

func TestFilteredErrorPreservesCategory(t *testing.T) {
	err := &FilteredError{Category: "HARM_CATEGORY_DANGEROUS_CONTENT"}
	if !strings.Contains(err.Error(), "HARM_CATEGORY_DANGEROUS_CONTENT") {
		t.Fatalf("category missing from message: %q", err.Error())
	}
	var filtered *FilteredError
	if !errors.As(error(err), &filtered) {
		t.Fatalf("errors.As failed for FilteredError")
	}
}

func TestNewGeneratorErrorsOnUnknownProvider(t *testing.T) {
	if _, err := NewGenerator(context.Background(), "unknown", ""); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestNewGeneratorDummyProvider(t *testing.T) {
	gen, err := NewGenerator(context.Background(), "dummy", "")
	if err != nil {
		t.Fatalf("NewGenerator returned error: %v", err)
	}
	if _, ok := gen.(*DummyGenerator); !ok {
		t.Fatalf("expected DummyGenerator, got %T", gen)
	}
}

func TestNewGeneratorGeminiRequiresKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := NewGenerator(context.Background(), "gemini", ""); err == nil {
		t.Fatalf("expected error without an API key")
	}
}
