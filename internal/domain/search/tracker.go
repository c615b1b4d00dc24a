package search

import (
	"context"
	"sync"
)

// Token identifies one search invocation. Tokens increase monotonically.
type Token uint64

// Tracker hands out search tokens and cancels the search a newer one
// supersedes. Only results carrying the current token should be applied.
type Tracker struct {
	mu      sync.Mutex
	current Token
	cancel  context.CancelFunc
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin supersedes any in-flight search and returns the context and token
// for the new one.
func (t *Tracker) Begin(ctx context.Context) (context.Context, Token) {
	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	t.current++
	t.cancel = cancel
	return ctx, t.current
}

// IsCurrent reports whether tok is the latest issued token.
func (t *Tracker) IsCurrent(tok Token) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tok == t.current
}

// End releases the context of tok if it is still the current search.
func (t *Tracker) End(tok Token) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tok == t.current && t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
