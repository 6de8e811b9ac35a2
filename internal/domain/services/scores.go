package services

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Static heuristic tables. Kept as data rather than control flow so the
// rules stay auditable and extensible without touching the pipeline.
var (
	suspiciousTLDs = map[string]struct{}{
		"zip": {}, "xyz": {}, "top": {}, "gq": {},
		"work": {}, "country": {}, "stream": {}, "click": {},
	}

	suspiciousPorts = map[int]struct{}{
		21: {}, 23: {}, 445: {}, 3389: {}, 1337: {},
	}

	executableExtensions = []string{
		".exe", ".scr", ".bat", ".cmd", ".ps1", ".apk", ".msi", ".bin",
	}

	phishingKeywords = []string{
		"login", "verify", "secure", "account", "update", "password", "bank",
	}

	trackingPrefixes = []string{"utm_", "ref", "clickid"}

	// Brand tokens that legitimate domains rarely embed. The mapped value is
	// the brand's registered domain; an empty value means any occurrence
	// counts.
	brandDomains = map[string]string{
		"paypal":    "paypal.com",
		"apple":     "apple.com",
		"google":    "google.com",
		"microsoft": "microsoft.com",
		"bank":      "",
		"secure":    "",
	}
)

// parsedURL holds the components the scoring heuristics need. When parsing
// fails the zero components are used and substring scans fall back to the
// raw string.
type parsedURL struct {
	raw    string
	scheme string
	host   string
	port   int
	path   string
	query  url.Values
}

func parseForScoring(raw string) parsedURL {
	p := parsedURL{raw: raw}
	u, err := url.Parse(raw)
	if err != nil {
		return p
	}
	p.scheme = strings.ToLower(u.Scheme)
	p.host = strings.ToLower(u.Hostname())
	if portStr := u.Port(); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			p.port = port
		}
	}
	p.path = u.Path
	p.query = u.Query()
	return p
}

// spamScore starts at a 0.1 base and accumulates penalties for tracking
// parameters, suspicious keywords, redirect parameters, and shortener hosts.
func (a *Analyzer) spamScore(p parsedURL) float64 {
	score := 0.1

	tracking := 0
	for name := range p.query {
		for _, prefix := range trackingPrefixes {
			if strings.HasPrefix(name, prefix) {
				tracking++
				break
			}
		}
	}
	score += math.Min(float64(tracking)*0.1, 0.5)

	lower := strings.ToLower(p.raw)
	hits := 0
	for keyword := range a.suspiciousKeywords {
		if strings.Contains(lower, keyword) {
			hits++
		}
	}
	score += math.Min(float64(hits)*0.1, 0.4)

	if hasRedirectTarget(p.query) {
		score += 0.2
	}
	if IsShortener(p.host) {
		score += 0.2
	}

	return clamp01(score)
}

// phishingScore weighs homograph suspicion, phishing vocabulary, and brand
// impersonation.
func (a *Analyzer) phishingScore(p parsedURL, domain string) float64 {
	score := 0.0
	if DetectHomograph(domain) {
		score += 0.4
	}

	lower := strings.ToLower(p.raw)
	hits := 0
	for _, keyword := range phishingKeywords {
		if strings.Contains(lower, keyword) {
			hits++
		}
	}
	score += math.Min(float64(hits)*0.15, 0.6)

	if impersonatesBrand(domain) {
		score += 0.2
	}

	return clamp01(score)
}

// maliciousScore flags executable payloads, odd ports, bare IP hosts, and
// heavy percent-encoding.
func maliciousScore(p parsedURL, domain string) float64 {
	score := 0.0

	path := strings.ToLower(p.path)
	for _, ext := range executableExtensions {
		if strings.HasSuffix(path, ext) {
			score += 0.5
			break
		}
	}

	if _, bad := suspiciousPorts[p.port]; bad {
		score += 0.2
	}

	if isBareNumericHost(domain) {
		score += 0.3
	}

	if strings.Count(p.raw, "%") > 5 {
		score += 0.2
	}

	return clamp01(score)
}

// authenticityScore starts neutral at 0.5 and moves with transport security,
// TLD reputation, host length, and list membership. Blacklist and whitelist
// adjustments both apply when both match.
func authenticityScore(p parsedURL, isBlacklisted, isWhitelisted bool) float64 {
	score := 0.5

	if p.scheme == "https" {
		score += 0.2
	}

	host := p.host
	if host != "" {
		labels := strings.Split(host, ".")
		if _, bad := suspiciousTLDs[labels[len(labels)-1]]; bad {
			score -= 0.2
		}
	}
	if len(host) > 25 {
		score -= 0.1
	}

	if isWhitelisted {
		score += 0.2
	}
	if isBlacklisted {
		score -= 0.3
	}

	return clamp01(score)
}

// hasRedirectTarget reports whether any redirect-style parameter carries a
// value that is itself a URL.
func hasRedirectTarget(query url.Values) bool {
	for _, key := range redirectParams {
		for _, value := range query[key] {
			if strings.HasPrefix(value, "http") {
				return true
			}
		}
	}
	return false
}

// impersonatesBrand reports whether the domain embeds a brand token without
// being that brand's registered domain or a subdomain of it.
func impersonatesBrand(domain string) bool {
	if domain == "" {
		return false
	}
	for token, official := range brandDomains {
		if !strings.Contains(domain, token) {
			continue
		}
		if official == "" {
			return true
		}
		if domain != official && !strings.HasSuffix(domain, "."+official) {
			return true
		}
	}
	return false
}

// isBareNumericHost reports whether the host is all digits and dots, the
// shape of a raw IPv4 literal.
func isBareNumericHost(domain string) bool {
	if domain == "" {
		return false
	}
	stripped := strings.ReplaceAll(domain, ".", "")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func clamp01(score float64) float64 {
	return math.Min(math.Max(score, 0.0), 1.0)
}
