package cards

import "strings"

// Function is the heuristic role a card plays in a deck.
type Function string

const (
	FunctionLand        Function = "Land"
	FunctionCreature    Function = "Creature"
	FunctionRamp        Function = "Ramp"
	FunctionDraw        Function = "Card Draw"
	FunctionRemoval     Function = "Removal/Interaction"
	FunctionWincon      Function = "Wincon/Finisher"
	FunctionEnchantment Function = "Enchantment"
	FunctionArtifact    Function = "Artifact"
	FunctionInstant     Function = "Instant"
	FunctionSorcery     Function = "Sorcery"
	FunctionOther       Function = "Other"
)

// Classify assigns a functional tag from the card's type line and oracle
// text. The checks run top to bottom and the first hit wins; type checks
// outrank ability-text checks, so a creature that draws cards is a Creature.
func Classify(c *Card) Function {
	if c == nil {
		return FunctionOther
	}
	t := strings.ToLower(c.TypeLine)
	o := strings.ToLower(c.OracleText)

	switch {
	case strings.Contains(t, "land"):
		return FunctionLand
	case strings.Contains(t, "creature"):
		return FunctionCreature
	case strings.Contains(o, "add {m") ||
		strings.Contains(o, "search your library for a land") ||
		strings.Contains(o, "ramp"):
		return FunctionRamp
	case strings.Contains(o, "draw a card") ||
		strings.Contains(o, "scry") ||
		strings.Contains(o, "investigate"):
		return FunctionDraw
	case strings.Contains(o, "destroy target") ||
		strings.Contains(o, "exile target") ||
		strings.Contains(o, "counter target"):
		return FunctionRemoval
	case strings.Contains(o, "you win the game") ||
		strings.Contains(o, "extra turn") ||
		strings.Contains(o, "infinite"):
		return FunctionWincon
	case strings.Contains(t, "enchant"):
		return FunctionEnchantment
	case strings.Contains(t, "artifact"):
		return FunctionArtifact
	case strings.Contains(t, "instant"):
		return FunctionInstant
	case strings.Contains(t, "sorcery"):
		return FunctionSorcery
	default:
		return FunctionOther
	}
}
