package models

import (
	"time"

	"github.com/google/uuid"
)

// ValidationReason is the closed set of reasons a URL fails validation.
type ValidationReason string

const (
	ReasonEmptyOrTooLong   ValidationReason = "empty_or_too_long"
	ReasonDisallowedScheme ValidationReason = "disallowed_scheme"
	ReasonInvalidScheme    ValidationReason = "invalid_scheme"
	ReasonInvalidDomain    ValidationReason = "invalid_domain"
	ReasonInvalidPort      ValidationReason = "invalid_port"
)

// Issue tags attached to analysis results.
const (
	IssueShortenerDetected  = "shortener_detected"
	IssueHomographSuspected = "homograph_suspected"
	IssueBlacklistedDomain  = "blacklisted_domain"
)

// URLValidationResult is the outcome of structural URL validation.
// Validation never fails with an error; malformed input is expected input.
type URLValidationResult struct {
	OriginalURL   string           `json:"original_url"`
	NormalizedURL string           `json:"normalized_url"`
	Domain        string           `json:"domain,omitempty"`
	IsValid       bool             `json:"is_valid"`
	Reason        ValidationReason `json:"reason,omitempty"`
}

// URLAnalysisResult is a complete risk assessment of a single URL.
// Immutable once built; Issues is append-only during construction.
type URLAnalysisResult struct {
	ID            uuid.UUID        `json:"id"`
	URL           string           `json:"url"`
	NormalizedURL string           `json:"normalized_url"`
	UnwrappedURL  string           `json:"unwrapped_url"`
	Domain        string           `json:"domain,omitempty"`
	IsValid       bool             `json:"is_valid"`
	Reason        ValidationReason `json:"reason,omitempty"`

	// Scores are clamped to [0,1].
	SpamScore         float64 `json:"spam_score"`
	PhishingScore     float64 `json:"phishing_score"`
	MaliciousScore    float64 `json:"malicious_score"`
	AuthenticityScore float64 `json:"authenticity_score"`

	IsBlacklisted bool     `json:"is_blacklisted"`
	IsWhitelisted bool     `json:"is_whitelisted"`
	Issues        []string `json:"issues,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// URLAnalyzeRequest is a single-URL analysis request.
type URLAnalyzeRequest struct {
	URL     string `json:"url"`
	Persist bool   `json:"persist,omitempty"`
}

// URLBatchAnalyzeRequest is a batch analysis request for explicit URLs.
type URLBatchAnalyzeRequest struct {
	URLs    []string `json:"urls"`
	Persist bool     `json:"persist,omitempty"`
}

// URLTextAnalyzeRequest asks for URL extraction and analysis of free text.
type URLTextAnalyzeRequest struct {
	Text    string `json:"text"`
	Persist bool   `json:"persist,omitempty"`
}

// URLBatchAnalyzeResponse carries the results of a batch analysis.
type URLBatchAnalyzeResponse struct {
	Results    []URLAnalysisResult `json:"results"`
	TotalCount int                 `json:"total_count"`
	AnalyzedAt time.Time           `json:"analyzed_at"`
}

// BlacklistAddRequest asks for a domain to be appended to the blacklist.
type BlacklistAddRequest struct {
	Domain string `json:"domain"`
}
