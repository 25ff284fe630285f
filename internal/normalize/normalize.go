// Package normalize canonicalizes card name strings for matching and for
// building URL slugs. Collection uploads and recommendation feeds spell the
// same card in many ways ("2 Sol Ring (M21)", "SOL RING", "Jötun Grunt");
// Name reduces all of them to a single lookup key.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	leadingCount  = regexp.MustCompile(`^\d+x?\s+`)
	trailingParen = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	fancyQuotes   = regexp.MustCompile("[‘’`'\"]")
	punctuation   = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace    = regexp.MustCompile(`\s+`)

	slugInvalid = regexp.MustCompile(`[^\w\s-]`)
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugHyphens = regexp.MustCompile(`-{2,}`)
)

// stripDiacritics decomposes to NFKD and drops combining marks and any
// remaining non-ASCII runes, matching an ASCII-encode-with-ignore pass.
var stripDiacritics = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

func toASCII(s string) string {
	out, _, err := transform.String(stripDiacritics, s)
	if err != nil {
		return s
	}
	return out
}

// Name converts a raw card name into the canonical matching key. It is total
// (garbage in, empty string out) and idempotent. Two raw strings denote the
// same card exactly when their keys are equal.
//
// Hyphens inside a name are kept as significant; apostrophes are dropped, so
// "Urza's Saga" and "Urzas Saga" share a key.
func Name(raw string) string {
	if raw == "" {
		return ""
	}
	s := toASCII(raw)
	s = strings.ToLower(strings.TrimSpace(s))
	s = leadingCount.ReplaceAllString(s, "")
	s = trailingParen.ReplaceAllString(s, "")
	s = fancyQuotes.ReplaceAllString(s, "")
	s = punctuation.ReplaceAllString(s, " ")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Slug produces a URL-path-safe token for addressing external resources
// ("Atraxa, Praetors' Voice" -> "atraxa-praetors-voice"). It is used only to
// build request paths, never for matching.
func Slug(raw string) string {
	s := toASCII(raw)
	s = strings.ToLower(s)
	s = slugInvalid.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
