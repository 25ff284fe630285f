package deck

import (
	"context"
	"sort"

	"github.com/ramonehamilton/EDH-Deckbuilder/internal/cards"
	"github.com/ramonehamilton/EDH-Deckbuilder/internal/collection"
	"github.com/ramonehamilton/EDH-Deckbuilder/internal/normalize"
)

// DefaultStaples is the always-desirable list considered for automatic
// inclusion when owned and legal.
var DefaultStaples = []string{
	"sol ring", "arcane signet", "swiftfoot boots", "lightning greaves",
	"command tower", "fellwar stone", "prophetic prism", "kodama's reach",
	"cultivate", "farseek", "explosive vegetation",
}

const (
	// curveDamping keeps the curve rotation a nudge on the popularity
	// ordering rather than an inversion.
	curveDamping = 0.45

	// DefaultSuggestionCap bounds external lookups in the missing pass.
	DefaultSuggestionCap = 150
)

// Options is the immutable per-build configuration.
type Options struct {
	// CurveTarget biases filler selection toward higher mana values as it
	// rises. Mapped linearly from its input range [1,7] onto [0,1].
	CurveTarget float64

	// MaxPrice is the suggestion price ceiling; 0 disables the filter.
	MaxPrice float64

	// Currency is the preferred price currency ("eur" or "usd").
	Currency string

	// Staples overrides DefaultStaples when non-nil.
	Staples []string

	// SuggestionCap bounds how many missing recommendations are resolved.
	// Zero means DefaultSuggestionCap.
	SuggestionCap int
}

func (o Options) staples() []string {
	if o.Staples != nil {
		return o.Staples
	}
	return DefaultStaples
}

func (o Options) suggestionCap() int {
	if o.SuggestionCap <= 0 {
		return DefaultSuggestionCap
	}
	return o.SuggestionCap
}

// Result is the output of one assembly run.
type Result struct {
	Deck      *Deck
	OwnedHits int      // legal recommendation hits found in the collection
	Missing   []string // recommended names absent from the collection, feed order
}

// Assemble builds the deck, fully deterministically for fixed inputs:
//
//  1. commander into slot 1
//  2. staples pass: owned and legal staples
//  3. recommendation pass: owned, legal recommendation hits in feed order
//  4. filler pass: remaining legal collection cards sorted by popularity
//     rank then mana value, rotated by the curve bias, until the deck holds
//     MaxSize cards or the collection runs out
//
// Names the feed recommends but the collection lacks come back in Missing
// for the suggestion pass.
func Assemble(commander *cards.Card, pool *collection.Pool, recommendations []string, opts Options) *Result {
	identity := cards.IdentitySet(commander.ColorIdentity)

	d := newDeck()
	d.add(commander)

	// Staples pass.
	for _, staple := range opts.staples() {
		if c, ok := pool.Get(staple); ok && c.LegalUnder(identity) {
			d.add(c)
		}
	}

	// Recommendation pass. ownedHits counts every owned legal hit, whether
	// or not the staples pass already seated it.
	res := &Result{}
	for _, rec := range recommendations {
		c, ok := pool.Get(rec)
		if !ok {
			res.Missing = append(res.Missing, rec)
			continue
		}
		if !c.LegalUnder(identity) {
			continue
		}
		res.OwnedHits++
		d.add(c)
	}

	// Filler pass.
	for _, c := range fillers(d, pool, identity, opts.CurveTarget) {
		if d.Len() >= MaxSize {
			break
		}
		d.add(c)
	}

	res.Deck = d
	return res
}

// fillers returns the legal, not-yet-seated collection cards sorted by
// (popularity rank ascending, mana value ascending) and rotated for the
// curve bias. Pool iteration follows insertion-ordered keys, so the result
// is deterministic.
func fillers(d *Deck, pool *collection.Pool, identity map[string]bool, curveTarget float64) []*cards.Card {
	var out []*cards.Card
	for _, key := range pool.Keys {
		c := pool.Cards[key]
		if d.Contains(c.Name) || !c.LegalUnder(identity) {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rank() != out[j].Rank() {
			return out[i].Rank() < out[j].Rank()
		}
		if out[i].CMC != out[j].CMC {
			return out[i].CMC < out[j].CMC
		}
		return normalize.Name(out[i].Name) < normalize.Name(out[j].Name)
	})

	return rotate(out, curveBias(curveTarget))
}

// curveBias maps the curve target from [1,7] onto [0,1], clamped.
func curveBias(target float64) float64 {
	bias := (target - 1) / 6.0
	if bias < 0 {
		return 0
	}
	if bias > 1 {
		return 1
	}
	return bias
}

// rotate moves a bias-proportional prefix of the sorted filler list to the
// end, raising the average mana value of early picks as the target curve
// rises without discarding anyone.
func rotate(list []*cards.Card, bias float64) []*cards.Card {
	if len(list) == 0 {
		return list
	}
	shift := int(float64(len(list)) * bias * curveDamping)
	if shift <= 0 || shift >= len(list) {
		return list
	}
	rotated := make([]*cards.Card, 0, len(list))
	rotated = append(rotated, list[shift:]...)
	return append(rotated, list[:shift]...)
}

// Suggestion is a recommended-but-unowned card with its extracted price.
type Suggestion struct {
	Card  *cards.Card
	Price float64
}

// Suggestions resolves the missing recommendation names (bounded by the
// suggestion cap), keeping cards that are legal under the commander identity
// and priced at or under the ceiling. Resolution order equals feed order;
// unresolvable names are silently skipped.
func Suggestions(ctx context.Context, resolver *cards.Resolver, missing []string, commanderIdentity map[string]bool, opts Options, workers int) []Suggestion {
	if len(missing) > opts.suggestionCap() {
		missing = missing[:opts.suggestionCap()]
	}

	resolved := resolver.ResolveAll(ctx, missing, workers)

	var out []Suggestion
	for _, c := range resolved {
		if c == nil || !c.LegalUnder(commanderIdentity) {
			continue
		}
		price := c.Price(opts.Currency)
		if opts.MaxPrice > 0 && price > opts.MaxPrice {
			continue
		}
		out = append(out, Suggestion{Card: c, Price: price})
	}
	return out
}

// SuggestionRow is one line of the exported suggestion table.
type SuggestionRow struct {
	Name      string  `json:"name" csv:"Name"`
	Price     float64 `json:"price" csv:"Price"`
	Type      string  `json:"type" csv:"Type"`
	ManaValue float64 `json:"mana_value" csv:"Mana Value"`
	Function  string  `json:"function" csv:"Function"`
}

// SuggestionRows renders suggestions as tabular data sorted by price, then
// mana value, then name (stable).
func SuggestionRows(suggestions []Suggestion) []SuggestionRow {
	rows := make([]SuggestionRow, 0, len(suggestions))
	for _, s := range suggestions {
		rows = append(rows, SuggestionRow{
			Name:      s.Card.Name,
			Price:     s.Price,
			Type:      s.Card.TypeLine,
			ManaValue: s.Card.CMC,
			Function:  string(cards.Classify(s.Card)),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Price != rows[j].Price {
			return rows[i].Price < rows[j].Price
		}
		if rows[i].ManaValue != rows[j].ManaValue {
			return rows[i].ManaValue < rows[j].ManaValue
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
