package services

import (
	"strings"
	"unicode"
)

// confusableRunes are non-Latin characters visually similar to Latin letters,
// commonly abused in lookalike domains. Kept as a static table so the
// detection rule stays auditable.
var confusableRunes = map[rune]struct{}{
	'ο': {}, // GREEK SMALL LETTER OMICRON
	'е': {}, // CYRILLIC SMALL LETTER IE
	'ѕ': {}, // CYRILLIC SMALL LETTER DZE
	'і': {}, // CYRILLIC SMALL LETTER BYELORUSSIAN-UKRAINIAN I
	'ӏ': {}, // CYRILLIC SMALL LETTER PALOCHKA
	'а': {}, // CYRILLIC SMALL LETTER A
}

// homographScripts maps the scripts considered when checking whether a
// domain mixes more than one writing system.
var homographScripts = map[string]*unicode.RangeTable{
	"Latin":      unicode.Latin,
	"Cyrillic":   unicode.Cyrillic,
	"Greek":      unicode.Greek,
	"Armenian":   unicode.Armenian,
	"Hebrew":     unicode.Hebrew,
	"Arabic":     unicode.Arabic,
	"Devanagari": unicode.Devanagari,
	"Han":        unicode.Han,
	"Hangul":     unicode.Hangul,
	"Hiragana":   unicode.Hiragana,
	"Katakana":   unicode.Katakana,
	"Thai":       unicode.Thai,
}

// DetectHomograph reports whether a domain looks like a homograph attack:
// an ACE (punycode) prefix, non-ASCII characters from more than one script,
// or any character from the confusable table. Pure-ASCII domains are never
// flagged.
func DetectHomograph(domain string) bool {
	if domain == "" {
		return false
	}
	if strings.HasPrefix(domain, "xn--") {
		return true
	}

	hasNonASCII := false
	scripts := make(map[string]struct{})
	for _, r := range domain {
		if r <= unicode.MaxASCII {
			continue
		}
		hasNonASCII = true
		if _, bad := confusableRunes[r]; bad {
			return true
		}
		for name, table := range homographScripts {
			if unicode.Is(table, r) {
				scripts[name] = struct{}{}
				break
			}
		}
	}
	if !hasNonASCII {
		return false
	}
	return len(scripts) > 1
}
