// Package address canonicalizes free-text auction item addresses into
// deterministic query strings, and derives the fallback query variants
// used by the geocoding resolver.
package address

import (
	"regexp"
	"strings"
)

var (
	dashRuns       = regexp.MustCompile(`[-–—]+`)
	separatorRuns  = regexp.MustCompile(`\s*[,;]+\s*`)
	houseMarkers   = regexp.MustCompile(`\b(?:nº|n°|no\.|nro\.?)\s*`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	digitRuns      = regexp.MustCompile(`\d+`)
)

// Normalize canonicalizes a raw address into the form used as geocoding
// query and cache key: lowercase, dash runs replaced by a space,
// comma/semicolon runs unified into a single comma, the localized
// house-number marker stripped, whitespace collapsed and trimmed.
//
// Normalize is pure and total. It is idempotent: applying it twice
// yields the same string as applying it once. Empty or whitespace-only
// input normalizes to the empty string, which callers treat as "not
// geocodable".
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = dashRuns.ReplaceAllString(s, " ")
	s = separatorRuns.ReplaceAllString(s, ", ")
	s = houseMarkers.ReplaceAllString(s, "")
	s = whitespaceRuns.ReplaceAllString(s, " ")
	return strings.Trim(s, " ,")
}

// QueryVariants builds the ordered fallback ladder for a normalized
// address, first rung most specific:
//
//  1. the full normalized string
//  2. the string with all digit runs removed (house numbers and postal
//     codes confuse the geocoder for rural addresses)
//  3. only the substring before the first comma (city-level fallback)
//
// Empty and duplicate variants are dropped; order is preserved.
func QueryVariants(normalized string) []string {
	if normalized == "" {
		return nil
	}

	seen := make(map[string]bool)
	variants := []string{}
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}

	add(normalized)
	add(Normalize(digitRuns.ReplaceAllString(normalized, "")))
	head, _, _ := strings.Cut(normalized, ",")
	add(strings.TrimSpace(head))

	return variants
}

// PostalAddress assembles a full postal address query from its parts,
// skipping the ones that are empty.
func PostalAddress(location, city, state, country string) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{location, city, state, country} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ", ")
}
