package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCompleteBasic(t *testing.T) {
	var gotAuth string
	var gotBody []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	})

	out, err := c.Complete(context.Background(), Request{System: "sys", Prompt: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello" {
		t.Fatalf("expected hello, got %q", out)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}

	var req map[string]any
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatal(err)
	}
	msgs, _ := req["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(msgs))
	}
}

func TestCompleteSchema(t *testing.T) {
	var gotBody []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	})

	schema := json.RawMessage(`{"type":"object"}`)
	_, err := c.Complete(context.Background(), Request{Prompt: "x", Schema: schema, SchemaName: "findings"})
	if err != nil {
		t.Fatal(err)
	}

	var req struct {
		ResponseFormat *responseFormat `json:"response_format"`
	}
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatal(err)
	}
	if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_schema" {
		t.Fatalf("expected json_schema response format, got %+v", req.ResponseFormat)
	}
	if req.ResponseFormat.JSONSchema.Name != "findings" {
		t.Fatalf("expected schema name findings, got %q", req.ResponseFormat.JSONSchema.Name)
	}
}

func TestCompleteRateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Complete(context.Background(), Request{Prompt: "x"})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := c.Complete(context.Background(), Request{Prompt: "x"})
	if !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected ErrResponseInvalid, got %v", err)
	}
}

func TestNewClientMissingKey(t *testing.T) {
	t.Setenv("PLANNER_TEST_KEY_ENV", "")
	_, err := NewClient(Config{APIKeyEnv: "PLANNER_TEST_KEY_ENV"})
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestScripted(t *testing.T) {
	s := &Scripted{Responses: []string{"a", "b"}}
	for i, want := range []string{"a", "b", "b"} {
		got, err := s.Complete(context.Background(), Request{})
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("call %d: expected %q, got %q", i, want, got)
		}
	}
	if s.Calls() != 3 {
		t.Fatalf("expected 3 calls, got %d", s.Calls())
	}
}
