// Package tokens canonicalizes free-text dietary and allergen tokens so that
// recipe restrictions, ingredients and user allergens compare on equal terms.
package tokens

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Set is a normalized token set.
type Set map[string]struct{}

// Intersects reports whether the two sets share at least one token.
func (s Set) Intersects(other Set) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for token := range small {
		if _, ok := large[token]; ok {
			return true
		}
	}
	return false
}

// Has reports whether token is a member of the set.
func (s Set) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Canonicalizer maps mechanically cleaned tokens onto canonical names.
// It is immutable after construction and safe for concurrent use.
type Canonicalizer struct {
	synonyms map[string]string
}

// DefaultSynonyms returns a fresh copy of the built-in synonym table.
func DefaultSynonyms() map[string]string {
	return map[string]string{
		"peanut":     "peanut",
		"peanuts":    "peanut",
		"tree nut":   "treenuts",
		"tree nuts":  "treenuts",
		"treenut":    "treenuts",
		"treenuts":   "treenuts",
		"shellfish":  "shellfish",
		"fish":       "fish",
		"gluten":     "gluten",
		"dairy":      "dairy",
		"pork":       "pork",
		"egg":        "egg",
		"eggs":       "egg",
		"soy":        "soy",
		"soya":       "soy",
		"soybean":    "soy",
		"soybeans":   "soy",
		"sesame":     "sesame",
		"sesame oil": "sesame",
	}
}

// NewCanonicalizer builds a canonicalizer from a synonym table. Keys and values
// are cleaned the same way incoming tokens are, so "Tree_Nuts" and "tree nuts"
// are the same key.
func NewCanonicalizer(synonyms map[string]string) *Canonicalizer {
	table := make(map[string]string, len(synonyms))
	for from, to := range synonyms {
		key := Clean(from)
		if key == "" {
			continue
		}
		value := Clean(to)
		if value == "" {
			value = key
		}
		table[key] = value
	}
	return &Canonicalizer{synonyms: table}
}

// Default returns a canonicalizer over DefaultSynonyms.
func Default() *Canonicalizer {
	return NewCanonicalizer(DefaultSynonyms())
}

// Len returns the number of synonym entries.
func (c *Canonicalizer) Len() int {
	return len(c.synonyms)
}

// Normalize cleans a token and maps it to its canonical name. When there is no
// exact synonym, a single trailing "s" is stripped and the lookup retried.
// Unknown tokens come back in their cleaned form.
func (c *Canonicalizer) Normalize(token string) string {
	cleaned := Clean(token)
	if cleaned == "" {
		return ""
	}

	if canonical, ok := c.synonyms[cleaned]; ok {
		return canonical
	}

	if singular, ok := strings.CutSuffix(cleaned, "s"); ok && singular != "" {
		if canonical, ok := c.synonyms[singular]; ok {
			return canonical
		}
	}

	return cleaned
}

// NormalizeSet normalizes every token and drops the ones that clean to nothing.
func (c *Canonicalizer) NormalizeSet(tokenLists ...[]string) Set {
	set := make(Set)
	for _, list := range tokenLists {
		for _, token := range list {
			if normalized := c.Normalize(token); normalized != "" {
				set[normalized] = struct{}{}
			}
		}
	}
	return set
}

// NormalizeAll normalizes tokens in order, dropping empties and duplicates.
func (c *Canonicalizer) NormalizeAll(tokenList []string) []string {
	seen := make(Set, len(tokenList))
	result := make([]string, 0, len(tokenList))
	for _, token := range tokenList {
		normalized := c.Normalize(token)
		if normalized == "" || seen.Has(normalized) {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}
	return result
}

// Clean applies the mechanical part of normalization: lowercase, accent
// folding, removal of everything but letters, spaces and underscores,
// underscores to spaces, and whitespace collapsing.
func Clean(token string) string {
	if token == "" {
		return ""
	}

	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.ToLower(token),
	)
	if err != nil {
		folded = strings.ToLower(token)
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r == '_' || r == ' ':
			b.WriteRune(' ')
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
