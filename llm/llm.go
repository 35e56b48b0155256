// Package llm defines the contract for the external reasoning engine and
// provides an OpenAI-compatible HTTP client.
//
// The engine is a black box: given a prompt (and optionally a JSON schema
// for the response), it returns free text that may or may not conform to
// the schema. Callers own all conformance handling; the engine is slow,
// rate-limited, and must never be trusted to return well-formed data.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Request is a single reasoning-engine invocation.
type Request struct {
	// System is the system-role framing for the call (e.g. "You are a
	// medical research analyst..."). Optional.
	System string

	// Prompt is the user-role content.
	Prompt string

	// Schema, when non-nil, asks the engine to produce JSON conforming to
	// this JSON Schema. Conformance is NOT guaranteed.
	Schema json.RawMessage

	// SchemaName labels the schema in providers that require a name.
	SchemaName string
}

// Engine is the reasoning-engine capability consumed by the pipeline.
// Implementations must be safe for concurrent use; each call is
// independent (no conversation state).
type Engine interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrRateLimited is returned when the upstream rejects the call with a
// rate-limit status. The pipeline treats this as a per-unit failure.
var ErrRateLimited = errors.New("llm: rate limited by upstream")

// ErrResponseInvalid is returned when the upstream response cannot be
// decoded at the transport level (empty body, malformed envelope).
var ErrResponseInvalid = errors.New("llm: invalid upstream response")
