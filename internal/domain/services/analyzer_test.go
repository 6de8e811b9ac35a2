package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"urlguard/internal/domain/models"
	"urlguard/internal/lists"
)

func newTestAnalyzer(t *testing.T, opts AnalyzerOptions) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(opts)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	return a
}

func TestAnalyzeSpamSignals(t *testing.T) {
	a := newTestAnalyzer(t, AnalyzerOptions{})

	result := a.Analyze("https://example.com/path?utm_source=news&clickid=123")
	if result.SpamScore < 0.3 {
		t.Errorf("SpamScore = %.2f, want >= 0.3", result.SpamScore)
	}
	if !result.IsValid {
		t.Errorf("unexpected invalid result: %q", result.Reason)
	}
}

func TestAnalyzePhishingSignals(t *testing.T) {
	a := newTestAnalyzer(t, AnalyzerOptions{})

	result := a.Analyze("https://secure-paypal.com/login")
	if result.PhishingScore < 0.4 {
		t.Errorf("PhishingScore = %.2f, want >= 0.4", result.PhishingScore)
	}
}

func TestAnalyzeBrandDomainNotPenalized(t *testing.T) {
	a := newTestAnalyzer(t, AnalyzerOptions{})

	impersonator := a.Analyze("https://paypal-billing.com/")
	official := a.Analyze("https://www.paypal.com/")

	if impersonator.PhishingScore <= official.PhishingScore {
		t.Errorf("impersonator scored %.2f, official %.2f; want impersonator higher",
			impersonator.PhishingScore, official.PhishingScore)
	}
}

func TestAnalyzeMaliciousSignals(t *testing.T) {
	a := newTestAnalyzer(t, AnalyzerOptions{})

	result := a.Analyze("http://192.168.0.1:445/evil.exe")
	if result.MaliciousScore < 0.7 {
		t.Errorf("MaliciousScore = %.2f, want >= 0.7", result.MaliciousScore)
	}
}

func TestAnalyzeAuthenticityWhitelisted(t *testing.T) {
	a := newTestAnalyzer(t, AnalyzerOptions{
		Whitelist: lists.NewMemorySource("example.com"),
	})

	result := a.Analyze("https://example.com")
	if !result.IsWhitelisted {
		t.Fatal("expected IsWhitelisted")
	}
	if result.AuthenticityScore <= 0.7 {
		t.Errorf("AuthenticityScore = %.2f, want > 0.7", result.AuthenticityScore)
	}
}

func TestAnalyzeCleanHTTPSAboveNeutral(t *testing.T) {
	a := newTestAnalyzer(t, AnalyzerOptions{})

	result := a.Analyze("https://example.com/docs")
	if result.AuthenticityScore <= 0.5 {
		t.Errorf("AuthenticityScore = %.2f, want > 0.5 for clean https", result.AuthenticityScore)
	}
}

func TestAnalyzeBlacklistMatching(t *testing.T) {
	a := newTestAnalyzer(t, AnalyzerOptions{
		Blacklist: lists.NewMemorySource("evil.example"),
	})

	testCases := []struct {
		url             string
		wantBlacklisted bool
	}{
		{"http://evil.example/", true},
		{"http://sub.evil.example/", true},
		{"http://EVIL.EXAMPLE/", true},
		{"http://notevil.example.com/", false},
	}

	for _, tc := range testCases {
		result := a.Analyze(tc.url)
		if result.IsBlacklisted != tc.wantBlacklisted {
			t.Errorf("Analyze(%q).IsBlacklisted = %v, want %v", tc.url, result.IsBlacklisted, tc.wantBlacklisted)
		}
		if tc.wantBlacklisted {
			if !containsIssue(result.Issues, models.IssueBlacklistedDomain) {
				t.Errorf("Analyze(%q) missing %s issue", tc.url, models.IssueBlacklistedDomain)
			}
		}
	}
}

func TestAnalyzeBothListsApply(t *testing.T) {
	// A domain on both lists keeps both flags and both score adjustments.
	a := newTestAnalyzer(t, AnalyzerOptions{
		Blacklist: lists.NewMemorySource("both.example"),
		Whitelist: lists.NewMemorySource("both.example"),
	})

	result := a.Analyze("https://both.example/")
	if !result.IsBlacklisted || !result.IsWhitelisted {
		t.Fatalf("flags = (%v, %v), want both true", result.IsBlacklisted, result.IsWhitelisted)
	}
	// 0.5 + 0.2 (https) + 0.2 (whitelist) - 0.3 (blacklist)
	if diff := result.AuthenticityScore - 0.6; diff > 0.001 || diff < -0.001 {
		t.Errorf("AuthenticityScore = %.2f, want 0.6", result.AuthenticityScore)
	}
}

func TestAnalyzeShortenerUnwrap(t *testing.T) {
	a := newTestAnalyzer(t, AnalyzerOptions{})

	results, err := a.AnalyzeText("Check https://bit.ly/redirect?url=https%3A%2F%2Fsafe.example.com%2Flogin")
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	r := results[0]
	if !strings.Contains(r.UnwrappedURL, "safe.example.com") {
		t.Errorf("UnwrappedURL = %q, want the unwrapped destination", r.UnwrappedURL)
	}
	if r.SpamScore <= 0 {
		t.Errorf("SpamScore = %.2f, want > 0", r.SpamScore)
	}
	if !containsIssue(r.Issues, models.IssueShortenerDetected) {
		t.Errorf("issues = %v, missing %s", r.Issues, models.IssueShortenerDetected)
	}
}

func TestAnalyzeNonShortenerNotUnwrapped(t *testing.T) {
	a := newTestAnalyzer(t, AnalyzerOptions{})

	result := a.Analyze("https://example.com/redirect?url=https%3A%2F%2Felsewhere.example%2F")
	if result.UnwrappedURL != result.NormalizedURL {
		t.Errorf("UnwrappedURL = %q, want normalized %q", result.UnwrappedURL, result.NormalizedURL)
	}
}

func TestAnalyzeInvalidURLStillScored(t *testing.T) {
	a := newTestAnalyzer(t, AnalyzerOptions{})

	result := a.Analyze("javascript:alert(1)")
	if result.IsValid {
		t.Fatal("expected invalid result")
	}
	if result.Reason != models.ReasonDisallowedScheme {
		t.Errorf("Reason = %q, want %q", result.Reason, models.ReasonDisallowedScheme)
	}
	if !containsIssue(result.Issues, string(models.ReasonDisallowedScheme)) {
		t.Errorf("issues = %v, missing validation reason", result.Issues)
	}
	assertScoresInRange(t, result)
}

func TestAnalyzeScoresAlwaysInRange(t *testing.T) {
	a := newTestAnalyzer(t, AnalyzerOptions{
		Blacklist:          lists.NewMemorySource("stacked.zip"),
		SuspiciousKeywords: lists.NewMemorySource("free", "winner", "prize", "casino"),
	})

	// Every penalty at once: keywords, tracking, shortener, exe, port, IP,
	// encodings, suspicious TLD, blacklist.
	urls := []string{
		"http://1.2.3.4:1337/free-winner-prize-casino%41%42%43%44%45%46/payload.exe?utm_a=1&utm_b=2&utm_c=3&utm_d=4&utm_e=5&utm_f=6&url=https://x.example/",
		"https://login-verify-secure-account-update-password-bank.stacked.zip/evil.scr",
		"http://bit.ly/x?u=http%3A%2F%2Ffree-casino.example%2F",
		"",
		"javascript:void(0)",
	}

	for _, u := range urls {
		assertScoresInRange(t, a.Analyze(u))
	}
}

func TestBatchAnalyzeLimits(t *testing.T) {
	a := newTestAnalyzer(t, AnalyzerOptions{})

	var urls []string
	for i := 0; i < 51; i++ {
		urls = append(urls, fmt.Sprintf("https://site%d.example.com/", i))
	}

	if _, err := a.BatchAnalyze(urls); !errors.Is(err, ErrBatchLimitExceeded) {
		t.Fatalf("err = %v, want ErrBatchLimitExceeded", err)
	}
}

func TestBatchAnalyzeRateLimited(t *testing.T) {
	a := newTestAnalyzer(t, AnalyzerOptions{
		RateLimiter: NewRateLimiter(1, time.Minute),
	})

	_, err := a.BatchAnalyze([]string{"https://a.example.com/", "https://b.example.com/"})
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("err = %v, want ErrRateLimitExceeded", err)
	}
}

func TestBatchAnalyzeEmptyInput(t *testing.T) {
	a := newTestAnalyzer(t, AnalyzerOptions{})

	results, err := a.BatchAnalyze([]string{"", "   "})
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results, want 0", len(results))
	}
}

func TestAnalyzeTextNoURLs(t *testing.T) {
	a := newTestAnalyzer(t, AnalyzerOptions{})

	results, err := a.AnalyzeText("nothing linkable in this sentence")
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results, want 0", len(results))
	}
}

func TestBatchAnalyzePreservesOrder(t *testing.T) {
	a := newTestAnalyzer(t, AnalyzerOptions{})

	urls := []string{"https://first.example.com/", "https://second.example.com/", "https://third.example.com/"}
	results, err := a.BatchAnalyze(urls)
	if err != nil {
		t.Fatalf("BatchAnalyze: %v", err)
	}
	if len(results) != len(urls) {
		t.Fatalf("got %d results, want %d", len(results), len(urls))
	}
	for i := range urls {
		if results[i].URL != urls[i] {
			t.Errorf("results[%d].URL = %q, want %q", i, results[i].URL, urls[i])
		}
	}
}

func containsIssue(issues []string, want string) bool {
	for _, issue := range issues {
		if issue == want {
			return true
		}
	}
	return false
}

func assertScoresInRange(t *testing.T, r models.URLAnalysisResult) {
	t.Helper()
	scores := map[string]float64{
		"spam":         r.SpamScore,
		"phishing":     r.PhishingScore,
		"malicious":    r.MaliciousScore,
		"authenticity": r.AuthenticityScore,
	}
	for name, score := range scores {
		if score < 0.0 || score > 1.0 {
			t.Errorf("%s score %.3f out of [0,1] for %q", name, score, r.URL)
		}
	}
}
