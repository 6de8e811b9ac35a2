package services

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"urlguard/internal/domain/models"
	"urlguard/internal/lists"
	"urlguard/pkg/logger"
)

// DefaultBatchLimit caps how many distinct URLs one call may analyze.
const DefaultBatchLimit = 50

var (
	// ErrBatchLimitExceeded is returned when a single call presents more
	// URLs than the batch limit. The caller must split the batch.
	ErrBatchLimitExceeded = errors.New("batch_limit_exceeded")

	// ErrRateLimitExceeded is returned when the sliding window is exhausted.
	// The caller should back off and retry later.
	ErrRateLimitExceeded = errors.New("rate_limit_exceeded")
)

// shortenerDomains are services whose primary function is redirecting to
// another URL.
var shortenerDomains = map[string]struct{}{
	"bit.ly":      {},
	"tinyurl.com": {},
	"t.co":        {},
	"goo.gl":      {},
	"ow.ly":       {},
	"buff.ly":     {},
	"cutt.ly":     {},
	"is.gd":       {},
	"rebrand.ly":  {},
	"lnkd.in":     {},
}

// redirectParams are query parameters shorteners use to carry the real
// destination, in priority order.
var redirectParams = [...]string{"url", "u", "redirect", "target"}

// IsShortener reports whether the domain is a known link shortener.
func IsShortener(domain string) bool {
	if domain == "" {
		return false
	}
	_, ok := shortenerDomains[strings.ToLower(domain)]
	return ok
}

// Analyzer orchestrates the analysis pipeline: validation, shortener
// unwrapping, list checks, and the four scoring heuristics. Its domain sets
// are read-only after construction and safe to share across goroutines.
type Analyzer struct {
	blacklist          map[string]struct{}
	whitelist          map[string]struct{}
	suspiciousKeywords map[string]struct{}
	limiter            *RateLimiter
	batchLimit         int
	logger             *logger.Logger
}

// AnalyzerOptions configures an Analyzer. Zero-value fields fall back to
// defaults; nil list sources mean empty sets.
type AnalyzerOptions struct {
	Blacklist          lists.Source
	Whitelist          lists.Source
	SuspiciousKeywords lists.Source
	RateLimiter        *RateLimiter
	BatchLimit         int
	Logger             *logger.Logger
}

// NewAnalyzer loads the three domain sets from their sources and builds an
// Analyzer. List updates after construction are not visible until a new
// Analyzer is built.
func NewAnalyzer(opts AnalyzerOptions) (*Analyzer, error) {
	load := func(src lists.Source) (map[string]struct{}, error) {
		if src == nil {
			return map[string]struct{}{}, nil
		}
		return src.Load()
	}

	blacklist, err := load(opts.Blacklist)
	if err != nil {
		return nil, err
	}
	whitelist, err := load(opts.Whitelist)
	if err != nil {
		return nil, err
	}
	keywords, err := load(opts.SuspiciousKeywords)
	if err != nil {
		return nil, err
	}

	limiter := opts.RateLimiter
	if limiter == nil {
		limiter = NewRateLimiter(DefaultRateLimitMax, DefaultRateLimitWindow)
	}
	batchLimit := opts.BatchLimit
	if batchLimit <= 0 {
		batchLimit = DefaultBatchLimit
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Analyzer{
		blacklist:          blacklist,
		whitelist:          whitelist,
		suspiciousKeywords: keywords,
		limiter:            limiter,
		batchLimit:         batchLimit,
		logger:             log.WithComponent("analyzer"),
	}, nil
}

// Analyze runs the full pipeline on a single URL. It always returns a
// complete result; invalid URLs yield a low-confidence result instead of
// aborting.
func (a *Analyzer) Analyze(rawURL string) models.URLAnalysisResult {
	validation := ValidateURL(rawURL)
	unwrapped := unwrapShortened(validation.NormalizedURL)
	parsed := parseForScoring(unwrapped)

	isBlacklisted := domainMatchesList(validation.Domain, a.blacklist)
	isWhitelisted := domainMatchesList(validation.Domain, a.whitelist)

	result := models.URLAnalysisResult{
		ID:                uuid.New(),
		URL:               rawURL,
		NormalizedURL:     validation.NormalizedURL,
		UnwrappedURL:      unwrapped,
		Domain:            validation.Domain,
		IsValid:           validation.IsValid,
		Reason:            validation.Reason,
		SpamScore:         a.spamScore(parsed),
		PhishingScore:     a.phishingScore(parsed, validation.Domain),
		MaliciousScore:    maliciousScore(parsed, validation.Domain),
		AuthenticityScore: authenticityScore(parsed, isBlacklisted, isWhitelisted),
		IsBlacklisted:     isBlacklisted,
		IsWhitelisted:     isWhitelisted,
		Timestamp:         time.Now().UTC(),
	}

	if IsShortener(validation.Domain) {
		result.Issues = append(result.Issues, models.IssueShortenerDetected)
	}
	if DetectHomograph(validation.Domain) {
		result.Issues = append(result.Issues, models.IssueHomographSuspected)
	}
	if isBlacklisted {
		result.Issues = append(result.Issues, models.IssueBlacklistedDomain)
	}
	if !validation.IsValid {
		result.Issues = append(result.Issues, string(validation.Reason))
	}

	a.logger.Debug().
		Str("url", rawURL).
		Str("domain", result.Domain).
		Bool("valid", result.IsValid).
		Float64("spam", result.SpamScore).
		Float64("phishing", result.PhishingScore).
		Float64("malicious", result.MaliciousScore).
		Float64("authenticity", result.AuthenticityScore).
		Msg("URL analyzed")

	return result
}

// AnalyzeText extracts URLs from free text and analyzes each in extraction
// order. More than the batch limit of distinct URLs aborts the whole call;
// so does an exhausted rate limit. Empty input yields an empty result set.
func (a *Analyzer) AnalyzeText(text string) ([]models.URLAnalysisResult, error) {
	urls := ExtractURLs(text)
	if len(urls) == 0 {
		return nil, nil
	}
	if len(urls) > a.batchLimit {
		return nil, ErrBatchLimitExceeded
	}
	if !a.limiter.Allow(len(urls)) {
		return nil, ErrRateLimitExceeded
	}

	results := make([]models.URLAnalysisResult, 0, len(urls))
	for _, u := range urls {
		results = append(results, a.Analyze(u))
	}
	return results, nil
}

// BatchAnalyze applies the same batch-size and rate-limit policy to an
// explicit list of URLs after trimming and blank-filtering.
func (a *Analyzer) BatchAnalyze(urls []string) ([]models.URLAnalysisResult, error) {
	cleaned := NormalizeInputs(urls)
	if len(cleaned) > a.batchLimit {
		return nil, ErrBatchLimitExceeded
	}
	if len(cleaned) == 0 {
		return nil, nil
	}
	if !a.limiter.Allow(len(cleaned)) {
		return nil, ErrRateLimitExceeded
	}

	results := make([]models.URLAnalysisResult, 0, len(cleaned))
	for _, u := range cleaned {
		results = append(results, a.Analyze(u))
	}
	return results, nil
}

// unwrapShortened recovers the destination URL from a known shortener by
// inspecting redirect-style query parameters. Anything else passes through
// unchanged.
func unwrapShortened(normalized string) string {
	u, err := url.Parse(normalized)
	if err != nil {
		return normalized
	}
	if !IsShortener(u.Hostname()) {
		return normalized
	}
	query := u.Query()
	for _, key := range redirectParams {
		for _, candidate := range query[key] {
			decoded, err := url.QueryUnescape(candidate)
			if err != nil {
				decoded = candidate
			}
			if strings.HasPrefix(decoded, "http://") || strings.HasPrefix(decoded, "https://") {
				return decoded
			}
		}
	}
	return normalized
}

// domainMatchesList reports whether domain equals a list entry exactly or is
// a subdomain of one. Matching is case-insensitive.
func domainMatchesList(domain string, set map[string]struct{}) bool {
	if domain == "" || len(set) == 0 {
		return false
	}
	domain = strings.ToLower(domain)
	if _, ok := set[domain]; ok {
		return true
	}
	for entry := range set {
		if strings.HasSuffix(domain, "."+entry) {
			return true
		}
	}
	return false
}
