package services

import (
	"regexp"
	"strings"
)

// urlPattern matches scheme-qualified or bare host-like tokens: optional
// scheme, optional www., a dotted hostname with a 2+ character final label,
// optional port, optional path.
var urlPattern = regexp.MustCompile(
	`(?i)\b(?:(?:https?|ftp)://)?(?:www\.)?[a-z0-9][\w\-.]*\.[a-z]{2,}(?::\d{2,5})?(?:/[^\s<>()\[\]{}]*)?`,
)

// Punctuation commonly adjacent to inline URLs.
const trailingPunct = ".,;:!?)]}>\"'"

// ExtractURLs scans arbitrary text (plain, markdown, HTML-ish) for URL-like
// substrings. Matches without a scheme get http:// synthesized; trailing
// punctuation is stripped; results are deduplicated preserving first-seen
// order. Pure function of its input.
func ExtractURLs(text string) []string {
	if text == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var results []string

	for _, match := range urlPattern.FindAllString(text, -1) {
		full := match
		lower := strings.ToLower(full)
		if !strings.HasPrefix(lower, "http://") &&
			!strings.HasPrefix(lower, "https://") &&
			!strings.HasPrefix(lower, "ftp://") {
			full = "http://" + full
		}
		cleaned := strings.TrimRight(full, trailingPunct)
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		results = append(results, cleaned)
	}

	return results
}

// NormalizeInputs trims a list of candidate URLs and drops blank entries.
// Used when input is already a discrete set of URLs rather than free text.
func NormalizeInputs(urls []string) []string {
	var cleaned []string
	for _, u := range urls {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
