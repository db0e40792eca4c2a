package event

import (
	"strings"
	"unicode"
)

// DefaultConnectors are the words kept lowercase by TitleCase unless they
// open or close the name. The set mixes English and French because event
// names around here freely do the same.
var DefaultConnectors = map[string]bool{
	"of": true, "from": true, "and": true, "the": true, "to": true,
	"for": true, "in": true, "on": true, "at": true, "by": true,
	"with": true, "a": true, "an": true, "as": true, "but": true,
	"or": true, "nor": true, "so": true, "yet": true, "de": true,
	"la": true, "le": true, "les": true, "du": true, "des": true,
	"et": true, "ou": true, "x": true,
}

const maxAcronymLen = 5

// isAcronym reports whether a word should keep its capitalization, e.g.
// "BBB", "BFF", "T7" or dotted forms like "B.BOAT".
func isAcronym(word string) bool {
	if len([]rune(word)) <= 1 {
		return false
	}
	base := strings.ReplaceAll(word, ".", "")
	runes := []rune(base)
	if len(runes) > maxAcronymLen {
		return false
	}
	hasLetter := false
	for _, r := range runes {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '-', '–', '—', '/':
		return true
	}
	return false
}

// splitKeepSeparators splits a name into alternating word and separator
// tokens, preserving the separators so the original shape survives.
func splitKeepSeparators(name string) []string {
	var tokens []string
	var current strings.Builder
	currentIsSep := false
	for _, r := range name {
		sep := isSeparator(r)
		if current.Len() > 0 && sep != currentIsSep {
			tokens = append(tokens, current.String())
			current.Reset()
		}
		currentIsSep = sep
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

func capitalize(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	return string(unicode.ToUpper(runes[0])) + strings.ToLower(string(runes[1:]))
}

// formatDotted capitalizes each dot-separated part, keeping single letters
// uppercase: "B.BOAT" becomes "B.Boat".
func formatDotted(word string) string {
	parts := strings.Split(word, ".")
	for i, p := range parts {
		if len([]rune(p)) <= 1 {
			parts[i] = strings.ToUpper(p)
		} else {
			parts[i] = capitalize(p)
		}
	}
	return strings.Join(parts, ".")
}

// TitleCase canonicalizes an event name: each word capitalized, connectors
// kept lowercase unless first or last, acronyms preserved. A nil connector
// set falls back to DefaultConnectors.
func TitleCase(name string, connectors map[string]bool) string {
	if name == "" {
		return name
	}
	if connectors == nil {
		connectors = DefaultConnectors
	}

	stripped := strings.NewReplacer(" ", "", "-", "", ".", "").Replace(name)
	if isAcronym(stripped) {
		return name
	}

	tokens := splitKeepSeparators(name)

	wordCount := 0
	for _, tok := range tokens {
		if !isSeparator([]rune(tok)[0]) {
			wordCount++
		}
	}

	var out strings.Builder
	wordIndex := 0
	for _, tok := range tokens {
		if isSeparator([]rune(tok)[0]) {
			out.WriteString(tok)
			continue
		}
		first := wordIndex == 0
		last := wordIndex == wordCount-1
		wordIndex++

		lower := strings.ToLower(tok)
		switch {
		case isAcronym(tok):
			if strings.Contains(tok, ".") {
				out.WriteString(formatDotted(tok))
			} else {
				out.WriteString(strings.ToUpper(tok))
			}
		case first || last || !connectors[lower]:
			out.WriteString(capitalize(tok))
		default:
			out.WriteString(lower)
		}
	}
	return out.String()
}
