package docpipe

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func testPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	p, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestRunChainFirstMethodWins(t *testing.T) {
	p := testPipeline(t, Config{MinTextLen: 10})
	long := strings.Repeat("extracted text ", 5)

	methods := []extractMethod{
		{name: "first", fn: func(context.Context, string) (string, error) { return long, nil }},
		{name: "second", fn: func(context.Context, string) (string, error) {
			t.Fatal("second method should not run")
			return "", nil
		}},
	}
	text, method, err := p.runChain(context.Background(), "x.pdf", methods)
	if err != nil {
		t.Fatal(err)
	}
	if method != "first" || text != long {
		t.Errorf("got method %q", method)
	}
}

func TestRunChainFallsThroughOnError(t *testing.T) {
	p := testPipeline(t, Config{MinTextLen: 10})
	long := strings.Repeat("recovered text ", 5)

	methods := []extractMethod{
		{name: "broken", fn: func(context.Context, string) (string, error) {
			return "", errors.New("parse failure")
		}},
		{name: "working", fn: func(context.Context, string) (string, error) { return long, nil }},
	}
	text, method, err := p.runChain(context.Background(), "x.pdf", methods)
	if err != nil {
		t.Fatal(err)
	}
	if method != "working" || text != long {
		t.Errorf("got method %q text %q", method, text)
	}
}

func TestRunChainFallsThroughOnShortOutput(t *testing.T) {
	p := testPipeline(t, Config{MinTextLen: 100})
	long := strings.Repeat("full body of the paper ", 10)

	methods := []extractMethod{
		{name: "thin", fn: func(context.Context, string) (string, error) { return "too short", nil }},
		{name: "thick", fn: func(context.Context, string) (string, error) { return long, nil }},
	}
	_, method, err := p.runChain(context.Background(), "x.pdf", methods)
	if err != nil {
		t.Fatal(err)
	}
	if method != "thick" {
		t.Errorf("expected thick, got %q", method)
	}
}

func TestRunChainKeepsLastUndersized(t *testing.T) {
	p := testPipeline(t, Config{MinTextLen: 1000})

	methods := []extractMethod{
		{name: "first", fn: func(context.Context, string) (string, error) { return "a longer but still short result", nil }},
		{name: "second", fn: func(context.Context, string) (string, error) { return "tiny", nil }},
		{name: "third", fn: func(context.Context, string) (string, error) { return "", errors.New("no binary") }},
	}
	text, method, err := p.runChain(context.Background(), "x.pdf", methods)
	if err != nil {
		t.Fatal(err)
	}
	if method != "second" || text != "tiny" {
		t.Errorf("expected the last undersized result, got method %q text %q", method, text)
	}
}

func TestRunChainExhausted(t *testing.T) {
	p := testPipeline(t, Config{})

	methods := []extractMethod{
		{name: "a", fn: func(context.Context, string) (string, error) { return "", errors.New("bad xref") }},
		{name: "b", fn: func(context.Context, string) (string, error) { return "", errors.New("no binary") }},
	}
	_, _, err := p.runChain(context.Background(), "x.pdf", methods)
	if !errors.Is(err, ErrExtractionExhausted) {
		t.Fatalf("expected ErrExtractionExhausted, got %v", err)
	}
}

func TestRunChainContextCancelled(t *testing.T) {
	p := testPipeline(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	methods := []extractMethod{
		{name: "a", fn: func(context.Context, string) (string, error) { return "text", nil }},
	}
	_, _, err := p.runChain(ctx, "x.pdf", methods)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
