package cards

import "testing"

func intPtr(i int) *int { return &i }

func TestLegalUnder(t *testing.T) {
	commander := IdentitySet([]string{"G", "U"})

	tests := []struct {
		name     string
		identity []string
		want     bool
	}{
		{"colorless always legal", nil, true},
		{"exact subset", []string{"G"}, true},
		{"full identity", []string{"G", "U"}, true},
		{"off-color symbol", []string{"G", "U", "B"}, false},
		{"disjoint", []string{"R"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Card{Name: "x", ColorIdentity: tt.identity}
			if got := c.LegalUnder(commander); got != tt.want {
				t.Errorf("LegalUnder(%v) = %v, want %v", tt.identity, got, tt.want)
			}
		})
	}
}

func TestLegalUnderEmptyCommander(t *testing.T) {
	// Colorless commander: only colorless cards fit.
	commander := IdentitySet(nil)
	colorless := &Card{ColorIdentity: []string{}}
	green := &Card{ColorIdentity: []string{"G"}}

	if !colorless.LegalUnder(commander) {
		t.Error("colorless card should be legal under colorless commander")
	}
	if green.LegalUnder(commander) {
		t.Error("green card should be illegal under colorless commander")
	}
}

func TestRank(t *testing.T) {
	ranked := &Card{EdhrecRank: intPtr(42)}
	if ranked.Rank() != 42 {
		t.Errorf("Rank() = %d, want 42", ranked.Rank())
	}
	unranked := &Card{}
	if unranked.Rank() != UnrankedSentinel {
		t.Errorf("Rank() = %d, want sentinel %d", unranked.Rank(), UnrankedSentinel)
	}
}

func TestIdentityString(t *testing.T) {
	c := &Card{ColorIdentity: []string{"G", "W", "B", "U"}}
	if got := c.IdentityString(); got != "WUBG" {
		t.Errorf("IdentityString() = %q, want WUBG", got)
	}
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name      string
		prices    map[string]string
		preferred string
		want      float64
	}{
		{"preferred present", map[string]string{"eur": "3.50", "usd": "4.00"}, "eur", 3.50},
		{"fallback to usd", map[string]string{"usd": "4.00"}, "eur", 4.00},
		{"fallback to eur", map[string]string{"eur": "2.25"}, "usd", 2.25},
		{"malformed preferred falls through", map[string]string{"eur": "n/a", "usd": "1.10"}, "eur", 1.10},
		{"all malformed", map[string]string{"eur": "x", "usd": ""}, "eur", 0},
		{"no prices", nil, "eur", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Card{Prices: tt.prices}
			if got := c.Price(tt.preferred); got != tt.want {
				t.Errorf("Price(%q) = %v, want %v", tt.preferred, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		card *Card
		want Function
	}{
		{"land", &Card{TypeLine: "Basic Land — Forest"}, FunctionLand},
		{"creature", &Card{TypeLine: "Creature — Elf Druid"}, FunctionCreature},
		{"creature beats draw text", &Card{TypeLine: "Creature — Sphinx", OracleText: "Draw a card."}, FunctionCreature},
		{"ramp mana ability", &Card{TypeLine: "Artifact", OracleText: "{T}: Add {M}{M}."}, FunctionRamp},
		{"ramp land search", &Card{TypeLine: "Sorcery", OracleText: "Search your library for a land card."}, FunctionRamp},
		{"draw", &Card{TypeLine: "Sorcery", OracleText: "Draw a card."}, FunctionDraw},
		{"scry", &Card{TypeLine: "Instant", OracleText: "Scry 2."}, FunctionDraw},
		{"removal", &Card{TypeLine: "Instant", OracleText: "Destroy target creature."}, FunctionRemoval},
		{"counter", &Card{TypeLine: "Instant", OracleText: "Counter target spell."}, FunctionRemoval},
		{"wincon", &Card{TypeLine: "Enchantment", OracleText: "You win the game."}, FunctionWincon},
		{"extra turn", &Card{TypeLine: "Sorcery", OracleText: "Take an extra turn after this one."}, FunctionWincon},
		{"enchantment", &Card{TypeLine: "Enchantment — Aura", OracleText: "no keywords here"}, FunctionEnchantment},
		{"artifact", &Card{TypeLine: "Artifact — Equipment", OracleText: "no keywords here"}, FunctionArtifact},
		{"instant", &Card{TypeLine: "Instant", OracleText: "no keywords here"}, FunctionInstant},
		{"sorcery", &Card{TypeLine: "Sorcery", OracleText: "no keywords here"}, FunctionSorcery},
		{"other", &Card{TypeLine: "Conspiracy"}, FunctionOther},
		{"nil card", nil, FunctionOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.card); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
