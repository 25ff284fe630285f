// Package builder runs one end-to-end deck build: validate inputs, resolve
// the commander, load and resolve the collection, fetch recommendations,
// assemble the deck, and compute suggestions. External failures degrade the
// build (collection-only deck, empty suggestions) instead of aborting it;
// only missing preconditions are fatal.
package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ramonehamilton/EDH-Deckbuilder/internal/cards"
	"github.com/ramonehamilton/EDH-Deckbuilder/internal/collection"
	"github.com/ramonehamilton/EDH-Deckbuilder/internal/deck"
)

// Precondition errors reported before any external call is made.
var (
	ErrNoCommander  = errors.New("commander name is required")
	ErrNoCollection = errors.New("collection file is required")
)

// RecommendationSource is the recommendation feed boundary.
type RecommendationSource interface {
	Recommendations(ctx context.Context, commanderName string) []string
}

// Request holds the inputs for one build.
type Request struct {
	CommanderName  string
	CollectionPath string

	// CollectionNames bypasses file parsing when non-nil (already-parsed
	// input, e.g. from a caller that collected names elsewhere).
	CollectionNames []string

	Options deck.Options
	Workers int
}

// Result is the outcome of a completed build.
type Result struct {
	Commander   *cards.Card
	Deck        *deck.Deck
	OwnedHits   int
	NotFound    []string // collection entries the card database could not match
	Missing     []string // recommended names absent from the collection
	Suggestions []deck.Suggestion
	Warnings    []string
}

// Builder wires the resolver and recommendation feed into the assembly
// pipeline.
type Builder struct {
	resolver *cards.Resolver
	recs     RecommendationSource
	logger   *slog.Logger
}

// New creates a Builder. A nil logger falls back to slog.Default.
func New(resolver *cards.Resolver, recs RecommendationSource, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{resolver: resolver, recs: recs, logger: logger}
}

// Build runs one deck build to completion. The two precondition errors are
// the only fatal outcomes besides an unresolvable commander; everything
// downstream degrades with a warning.
func (b *Builder) Build(ctx context.Context, req Request) (*Result, error) {
	if req.CommanderName == "" {
		return nil, ErrNoCommander
	}
	if req.CollectionPath == "" && req.CollectionNames == nil {
		return nil, ErrNoCollection
	}

	rawNames := req.CollectionNames
	if rawNames == nil {
		parsed, err := collection.ParseFile(req.CollectionPath)
		if err != nil {
			return nil, fmt.Errorf("read collection: %w", err)
		}
		rawNames = parsed
	}

	commander, ok := b.resolver.Resolve(ctx, req.CommanderName)
	if !ok {
		return nil, fmt.Errorf("commander %q not found; try the full card name", req.CommanderName)
	}
	b.logger.Info("commander resolved",
		"name", commander.Name,
		"identity", commander.IdentityString())

	pool := collection.BuildPool(ctx, b.resolver, rawNames, req.Workers)
	b.logger.Info("collection resolved",
		"entries", len(rawNames),
		"cards", len(pool.Cards),
		"not_found", len(pool.NotFound))

	res := &Result{
		Commander: commander,
		NotFound:  pool.NotFound,
	}
	if len(pool.NotFound) > 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%d collection entries could not be matched to cards", len(pool.NotFound)))
	}

	recommendations := b.recs.Recommendations(ctx, commander.Name)
	if len(recommendations) == 0 {
		res.Warnings = append(res.Warnings,
			"recommendation feed unavailable or empty; building from collection only")
		b.logger.Warn("recommendation feed empty", "commander", commander.Name)
	}

	assembled := deck.Assemble(commander, pool, recommendations, req.Options)
	res.Deck = assembled.Deck
	res.OwnedHits = assembled.OwnedHits
	res.Missing = assembled.Missing

	identity := cards.IdentitySet(commander.ColorIdentity)
	res.Suggestions = deck.Suggestions(ctx, b.resolver, assembled.Missing, identity, req.Options, req.Workers)

	b.logger.Info("deck assembled",
		"size", res.Deck.Len(),
		"owned_hits", res.OwnedHits,
		"suggestions", len(res.Suggestions))

	return res, nil
}
