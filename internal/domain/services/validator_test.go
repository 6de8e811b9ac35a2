package services

import (
	"strings"
	"testing"

	"urlguard/internal/domain/models"
)

func TestValidateURL(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		wantValid  bool
		wantReason models.ValidationReason
		wantDomain string
	}{
		{
			name:       "plain https",
			input:      "https://example.com/path",
			wantValid:  true,
			wantDomain: "example.com",
		},
		{
			name:       "bare host gets scheme",
			input:      "example.com",
			wantValid:  true,
			wantDomain: "example.com",
		},
		{
			name:       "uppercase host lowered",
			input:      "HTTPS://Example.COM/Path",
			wantValid:  true,
			wantDomain: "example.com",
		},
		{
			name:       "protocol relative",
			input:      "//cdn.example.com/lib.js",
			wantValid:  true,
			wantDomain: "cdn.example.com",
		},
		{
			name:       "localhost",
			input:      "http://localhost/admin",
			wantValid:  true,
			wantDomain: "localhost",
		},
		{
			name:       "ip literal",
			input:      "http://192.168.0.1/",
			wantValid:  true,
			wantDomain: "192.168.0.1",
		},
		{
			name:       "valid port",
			input:      "http://example.com:8080/x",
			wantValid:  true,
			wantDomain: "example.com",
		},
		{
			name:       "backslashes normalized",
			input:      `https://example.com\path\file`,
			wantValid:  true,
			wantDomain: "example.com",
		},
		{
			name:       "empty",
			input:      "",
			wantReason: models.ReasonEmptyOrTooLong,
		},
		{
			name:       "too long",
			input:      "https://example.com/" + strings.Repeat("a", 2100),
			wantReason: models.ReasonEmptyOrTooLong,
		},
		{
			name:       "javascript scheme",
			input:      "javascript:alert(1)",
			wantReason: models.ReasonDisallowedScheme,
		},
		{
			name:       "data scheme with slashes",
			input:      "data://text/html;base64,xyz",
			wantReason: models.ReasonDisallowedScheme,
		},
		{
			name:       "file scheme",
			input:      "file:///etc/passwd",
			wantReason: models.ReasonDisallowedScheme,
		},
		{
			name:       "unknown scheme",
			input:      "htp://bad",
			wantReason: models.ReasonInvalidScheme,
		},
		{
			name:       "ftp scheme",
			input:      "ftp://files.example.com/pub",
			wantReason: models.ReasonInvalidScheme,
		},
		{
			name:       "underscore in host",
			input:      "http://bad_host.example.com/",
			wantReason: models.ReasonInvalidDomain,
		},
		{
			name:       "leading dot",
			input:      "http://.example.com/",
			wantReason: models.ReasonInvalidDomain,
		},
		{
			name:       "no dot no localhost",
			input:      "http://singlelabel/",
			wantReason: models.ReasonInvalidDomain,
		},
		{
			name:       "port too large",
			input:      "http://example.com:99999/",
			wantReason: models.ReasonInvalidPort,
		},
		{
			name:       "port zero",
			input:      "http://example.com:0/",
			wantReason: models.ReasonInvalidPort,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ValidateURL(tc.input)

			if got.IsValid != tc.wantValid {
				t.Fatalf("ValidateURL(%q).IsValid = %v, want %v (reason %q)", tc.input, got.IsValid, tc.wantValid, got.Reason)
			}
			if !tc.wantValid && got.Reason != tc.wantReason {
				t.Errorf("ValidateURL(%q).Reason = %q, want %q", tc.input, got.Reason, tc.wantReason)
			}
			if tc.wantDomain != "" && got.Domain != tc.wantDomain {
				t.Errorf("ValidateURL(%q).Domain = %q, want %q", tc.input, got.Domain, tc.wantDomain)
			}
			if got.OriginalURL != tc.input {
				t.Errorf("OriginalURL = %q, want the unmodified input", got.OriginalURL)
			}
		})
	}
}

func TestValidateURLNormalization(t *testing.T) {
	got := ValidateURL("example.com")
	if got.NormalizedURL != "http://example.com" {
		t.Errorf("NormalizedURL = %q, want %q", got.NormalizedURL, "http://example.com")
	}

	got = ValidateURL("//static.example.com/app.js")
	if got.NormalizedURL != "http://static.example.com/app.js" {
		t.Errorf("NormalizedURL = %q, want %q", got.NormalizedURL, "http://static.example.com/app.js")
	}
}

func TestValidateURLUnicodeDomain(t *testing.T) {
	got := ValidateURL("http://münchen.de/")
	if !got.IsValid {
		t.Fatalf("unicode domain rejected: reason %q", got.Reason)
	}
	if got.Domain != "münchen.de" {
		t.Errorf("Domain = %q, want %q", got.Domain, "münchen.de")
	}
}
