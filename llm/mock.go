package llm

import (
	"context"
	"sync"
)

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, req Request) (string, error)

// Complete implements Engine.
func (f EngineFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Scripted is a test Engine that returns canned responses in order.
// When the script is exhausted, the last entry repeats. Safe for
// concurrent use.
type Scripted struct {
	Responses []string
	Err       error // returned on every call when non-nil

	mu sync.Mutex
	n  int
}

// Complete implements Engine.
func (s *Scripted) Complete(_ context.Context, _ Request) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Responses) == 0 {
		return "", ErrResponseInvalid
	}
	i := s.n
	if i >= len(s.Responses) {
		i = len(s.Responses) - 1
	}
	s.n++
	return s.Responses[i], nil
}

// Calls reports how many times Complete was invoked.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}
