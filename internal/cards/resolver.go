package cards

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/EDH-Deckbuilder/internal/normalize"
)

// Lookup is the external card database boundary. *scryfall.Client satisfies
// it; tests substitute fakes.
type Lookup interface {
	NamedFuzzy(ctx context.Context, name string) (*Card, error)
}

// DefaultWorkers bounds the lookup fan-out for ResolveAll.
const DefaultWorkers = 4

// memoEntry holds one memoized answer. ready is closed once card is set, so
// concurrent requests for the same raw name share a single upstream call.
type memoEntry struct {
	ready chan struct{}
	card  *Card // nil = memoized miss
}

// Resolver converts raw card-name strings into card records through the
// external lookup, memoizing every answer (including misses) by raw input
// string. A failed lookup is a normal outcome, never an error: real
// collections routinely contain misspellings and out-of-print cards the
// upstream database cannot fuzzy-match.
type Resolver struct {
	lookup Lookup

	mu   sync.Mutex
	memo map[string]*memoEntry
}

// NewResolver creates a resolver backed by the given lookup.
func NewResolver(lookup Lookup) *Resolver {
	return &Resolver{
		lookup: lookup,
		memo:   make(map[string]*memoEntry),
	}
}

// Resolve returns the card record for name, or (nil, false) if neither the
// raw name nor its normalized form can be matched. Results are memoized for
// the resolver's lifetime, so repeated queries cost at most one round of
// external calls.
func (r *Resolver) Resolve(ctx context.Context, name string) (*Card, bool) {
	if name == "" {
		return nil, false
	}

	r.mu.Lock()
	if e, ok := r.memo[name]; ok {
		r.mu.Unlock()
		select {
		case <-e.ready:
			return e.card, e.card != nil
		case <-ctx.Done():
			return nil, false
		}
	}
	e := &memoEntry{ready: make(chan struct{})}
	r.memo[name] = e
	r.mu.Unlock()

	e.card = r.resolveUncached(ctx, name)
	close(e.ready)

	return e.card, e.card != nil
}

// resolveUncached performs the fuzzy lookup, retrying once with the
// normalized form; leading counts and set annotations defeat the fuzzy
// matcher otherwise. All failures collapse to nil.
func (r *Resolver) resolveUncached(ctx context.Context, name string) *Card {
	card, err := r.lookup.NamedFuzzy(ctx, name)
	if err == nil && card != nil {
		return card
	}
	if norm := normalize.Name(name); norm != "" && norm != name {
		if card, err := r.lookup.NamedFuzzy(ctx, norm); err == nil {
			return card
		}
	}
	return nil
}

// ResolveAll resolves names with a bounded worker pool. Results are merged by
// input index, so output order equals input order regardless of which lookup
// finishes first; unresolvable names yield nil entries.
func (r *Resolver) ResolveAll(ctx context.Context, names []string, workers int) []*Card {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]*Card, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range names {
		g.Go(func() error {
			if card, ok := r.Resolve(gctx, name); ok {
				results[i] = card
			}
			return nil
		})
	}
	// Workers never return errors; misses are nil slots.
	_ = g.Wait()

	return results
}

// Clear empties the memo. Exposed for tests and long-lived callers that want
// a fresh view of upstream data.
func (r *Resolver) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memo = make(map[string]*memoEntry)
}

// MemoSize reports the number of memoized entries, hits and misses both.
func (r *Resolver) MemoSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.memo)
}
