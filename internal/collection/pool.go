package collection

import (
	"context"

	"github.com/ramonehamilton/EDH-Deckbuilder/internal/cards"
	"github.com/ramonehamilton/EDH-Deckbuilder/internal/normalize"
)

// Pool is the resolved collection, indexed by normalized name key. Keys
// preserves first-insertion order for deterministic iteration; NotFound lists
// the raw entries the card database could not match.
type Pool struct {
	Cards    map[string]*cards.Card
	Keys     []string
	NotFound []string
}

// Contains reports whether the pool holds a card for the raw name.
func (p *Pool) Contains(rawName string) bool {
	_, ok := p.Cards[normalize.Name(rawName)]
	return ok
}

// Get returns the pool entry for the raw name, if any.
func (p *Pool) Get(rawName string) (*cards.Card, bool) {
	c, ok := p.Cards[normalize.Name(rawName)]
	return c, ok
}

// BuildPool resolves every raw collection entry through the resolver with a
// bounded worker pool and indexes the results by normalized name. Duplicate
// keys overwrite earlier entries (last wins); the map construction is the
// de-duplication mechanism. Unresolvable entries land in NotFound and are
// never fatal.
func BuildPool(ctx context.Context, resolver *cards.Resolver, rawNames []string, workers int) *Pool {
	pool := &Pool{Cards: make(map[string]*cards.Card, len(rawNames))}

	resolved := resolver.ResolveAll(ctx, rawNames, workers)
	for i, card := range resolved {
		raw := rawNames[i]
		if card == nil {
			pool.NotFound = append(pool.NotFound, raw)
			continue
		}
		key := normalize.Name(card.Name)
		if key == "" {
			continue
		}
		if _, exists := pool.Cards[key]; !exists {
			pool.Keys = append(pool.Keys, key)
		}
		pool.Cards[key] = card
	}
	return pool
}
