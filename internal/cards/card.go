// Package cards defines the card record shared across a build, plus the
// color-identity legality check, functional classification, and price
// extraction used by the deck assembler.
package cards

import (
	"strconv"
	"strings"
)

// UnrankedSentinel sorts unranked cards after every ranked card.
const UnrankedSentinel = 999999

// Card is a resolved card record. It is immutable once resolved and is
// shared by pointer between the collection pool, the deck, and the
// suggestion list.
type Card struct {
	Name          string            `json:"name"`
	CMC           float64           `json:"cmc"`
	TypeLine      string            `json:"type_line"`
	OracleText    string            `json:"oracle_text,omitempty"`
	ColorIdentity []string          `json:"color_identity"`
	EdhrecRank    *int              `json:"edhrec_rank,omitempty"`
	Prices        map[string]string `json:"prices,omitempty"`
}

// Rank returns the EDHREC popularity rank, or UnrankedSentinel when the
// card carries no rank.
func (c *Card) Rank() int {
	if c.EdhrecRank == nil {
		return UnrankedSentinel
	}
	return *c.EdhrecRank
}

// IdentityString renders the color identity in WUBRG order, e.g. "WUB".
func (c *Card) IdentityString() string {
	var b strings.Builder
	for _, sym := range []string{"W", "U", "B", "R", "G"} {
		for _, ci := range c.ColorIdentity {
			if ci == sym {
				b.WriteString(sym)
				break
			}
		}
	}
	return b.String()
}

// LegalUnder reports whether the card's color identity is a subset of the
// commander's identity. A card with an empty identity is legal under any
// commander.
func (c *Card) LegalUnder(commanderIdentity map[string]bool) bool {
	for _, sym := range c.ColorIdentity {
		if !commanderIdentity[sym] {
			return false
		}
	}
	return true
}

// IdentitySet converts a color identity slice into a set for subset checks.
func IdentitySet(identity []string) map[string]bool {
	set := make(map[string]bool, len(identity))
	for _, sym := range identity {
		set[sym] = true
	}
	return set
}

// Price returns the card's price in the preferred currency, falling back to
// the one secondary currency (EUR falls back to USD and vice versa).
// Missing or malformed prices are treated as absent and yield 0.
func (c *Card) Price(preferred string) float64 {
	secondary := "usd"
	if strings.EqualFold(preferred, "usd") {
		secondary = "eur"
	}
	for _, currency := range []string{strings.ToLower(preferred), secondary} {
		raw, ok := c.Prices[currency]
		if !ok || raw == "" {
			continue
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return 0
}
