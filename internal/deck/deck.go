// Package deck holds the deck assembler: the algorithm that merges the
// commander, always-desirable staples, owned recommendation hits, and
// curve-biased collection fillers into a fixed-size ordered deck, plus the
// complementary price-filtered suggestion list for cards the user does not
// own.
package deck

import (
	"sort"
	"strings"

	"github.com/ramonehamilton/EDH-Deckbuilder/internal/cards"
	"github.com/ramonehamilton/EDH-Deckbuilder/internal/normalize"
)

// MaxSize is the deck size bound; the commander occupies slot 1.
const MaxSize = 100

// Deck is an ordered, duplicate-free sequence of cards, commander first.
// It is constructed once by Assemble and read-only afterwards.
type Deck struct {
	cards []*cards.Card
	keys  map[string]bool
}

func newDeck() *Deck {
	return &Deck{
		cards: make([]*cards.Card, 0, MaxSize),
		keys:  make(map[string]bool, MaxSize),
	}
}

// add appends the card unless the deck is full or already holds it (by
// normalized name key). Reports whether the card went in.
func (d *Deck) add(c *cards.Card) bool {
	if c == nil || len(d.cards) >= MaxSize {
		return false
	}
	key := normalize.Name(c.Name)
	if key == "" || d.keys[key] {
		return false
	}
	d.keys[key] = true
	d.cards = append(d.cards, c)
	return true
}

// Cards returns the deck in assembled order.
func (d *Deck) Cards() []*cards.Card {
	return d.cards
}

// Len returns the number of cards in the deck, commander included.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Contains reports whether the deck holds a card with the same normalized
// name as raw.
func (d *Deck) Contains(raw string) bool {
	return d.keys[normalize.Name(raw)]
}

// Commander returns the card in slot 1, or nil for an empty deck.
func (d *Deck) Commander() *cards.Card {
	if len(d.cards) == 0 {
		return nil
	}
	return d.cards[0]
}

// SortOrder selects an optional re-sort of the assembled deck for display.
type SortOrder string

const (
	SortNone     SortOrder = "none"
	SortType     SortOrder = "type"
	SortFunction SortOrder = "function"
)

// Row is one line of the exported deck table.
type Row struct {
	Name          string  `json:"name" csv:"Name"`
	ManaValue     float64 `json:"mana_value" csv:"Mana Value"`
	Type          string  `json:"type" csv:"Type"`
	Function      string  `json:"function" csv:"Function"`
	ColorIdentity string  `json:"color_identity" csv:"Color Identity"`
}

// Rows renders the deck as tabular data in assembled order, optionally
// re-sorted by type or function (stable, with mana value and name as
// tie-breaks).
func (d *Deck) Rows(order SortOrder) []Row {
	rows := make([]Row, 0, len(d.cards))
	for _, c := range d.cards {
		rows = append(rows, Row{
			Name:          c.Name,
			ManaValue:     c.CMC,
			Type:          c.TypeLine,
			Function:      string(cards.Classify(c)),
			ColorIdentity: c.IdentityString(),
		})
	}

	switch order {
	case SortType:
		sort.SliceStable(rows, func(i, j int) bool { return rowLess(rows[i].Type, rows[i], rows[j].Type, rows[j]) })
	case SortFunction:
		sort.SliceStable(rows, func(i, j int) bool { return rowLess(rows[i].Function, rows[i], rows[j].Function, rows[j]) })
	}
	return rows
}

func rowLess(ki string, ri Row, kj string, rj Row) bool {
	if c := strings.Compare(ki, kj); c != 0 {
		return c < 0
	}
	if ri.ManaValue != rj.ManaValue {
		return ri.ManaValue < rj.ManaValue
	}
	return ri.Name < rj.Name
}
