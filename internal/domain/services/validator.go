package services

import (
	"net"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"urlguard/internal/domain/models"
)

// MaxURLLength is the longest input the validator accepts.
const MaxURLLength = 2000

var (
	allowedSchemes    = map[string]struct{}{"http": {}, "https": {}}
	disallowedSchemes = map[string]struct{}{"javascript": {}, "data": {}, "file": {}, "vbscript": {}}

	// Dotted-label hostname, labels 1-63 chars, Unicode letters allowed,
	// final label at least two letters. Total length is checked separately.
	domainRegex = regexp.MustCompile(`^([A-Za-z0-9\x{00a1}-\x{ffff}-]{1,63}\.)+[A-Za-z\x{00a1}-\x{ffff}]{2,}$`)
	portRegex   = regexp.MustCompile(`:(\d+)$`)
)

const maxHostLength = 253

// ValidateURL decides whether a URL string is structurally well-formed and
// policy-permitted. It never returns an error: every outcome is a typed
// result with a reason code, so batch analysis proceeds even for garbage.
func ValidateURL(raw string) models.URLValidationResult {
	if raw == "" || len(raw) > MaxURLLength {
		return models.URLValidationResult{
			OriginalURL:   raw,
			NormalizedURL: raw,
			Reason:        models.ReasonEmptyOrTooLong,
		}
	}

	trimmed := strings.TrimSpace(raw)

	// Scheme policy is applied to the apparent scheme before any cleanup so
	// that javascript:, data: and friends are rejected no matter what follows.
	if i := strings.Index(trimmed, "://"); i >= 0 {
		scheme := strings.ToLower(trimmed[:i])
		if _, bad := disallowedSchemes[scheme]; bad {
			return models.URLValidationResult{
				OriginalURL:   raw,
				NormalizedURL: trimmed,
				Reason:        models.ReasonDisallowedScheme,
			}
		}
		if _, ok := allowedSchemes[scheme]; !ok {
			return models.URLValidationResult{
				OriginalURL:   raw,
				NormalizedURL: trimmed,
				Reason:        models.ReasonInvalidScheme,
			}
		}
	} else if i := strings.Index(trimmed, ":"); i >= 0 {
		scheme := strings.ToLower(trimmed[:i])
		if _, bad := disallowedSchemes[scheme]; bad {
			return models.URLValidationResult{
				OriginalURL:   raw,
				NormalizedURL: trimmed,
				Reason:        models.ReasonDisallowedScheme,
			}
		}
	}

	cleaned := cleanURL(trimmed)
	host, portStr := splitAuthority(cleaned)

	if host == "" || !validHost(host) {
		return models.URLValidationResult{
			OriginalURL:   raw,
			NormalizedURL: cleaned,
			Domain:        host,
			Reason:        models.ReasonInvalidDomain,
		}
	}

	if portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port < 1 || port > 65535 {
			return models.URLValidationResult{
				OriginalURL:   raw,
				NormalizedURL: cleaned,
				Domain:        host,
				Reason:        models.ReasonInvalidPort,
			}
		}
	}

	return models.URLValidationResult{
		OriginalURL:   raw,
		NormalizedURL: cleaned,
		Domain:        host,
		IsValid:       true,
	}
}

// cleanURL normalizes slashes and infers a scheme for bare hosts, so that
// "example.com" parses the same way "http://example.com" does.
func cleanURL(raw string) string {
	trimmed := strings.ReplaceAll(strings.TrimSpace(raw), `\`, "/")
	if strings.HasPrefix(trimmed, "//") {
		return "http:" + trimmed
	}
	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "http://" + trimmed
	}
	return trimmed
}

// splitAuthority extracts the lowercase host and the trailing numeric port,
// if any, from a cleaned URL. A non-numeric port suffix is treated as absent,
// leaving the host to fail or pass validation on its own.
func splitAuthority(cleaned string) (host, port string) {
	rest := cleaned
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		rest = rest[i+1:]
	}
	if m := portRegex.FindStringSubmatch(rest); m != nil {
		port = m[1]
		rest = rest[:len(rest)-len(m[0])]
	} else if i := strings.Index(rest, ":"); i >= 0 {
		rest = rest[:i]
	}
	return strings.ToLower(rest), port
}

func validHost(host string) bool {
	if net.ParseIP(host) != nil {
		return true
	}
	if strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return false
	}
	if strings.Contains(host, "_") {
		return false
	}
	if utf8.RuneCountInString(host) > maxHostLength {
		return false
	}
	return domainRegex.MatchString(host) || host == "localhost"
}
