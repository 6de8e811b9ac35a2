package services

import "testing"

func TestDetectHomograph(t *testing.T) {
	testCases := []struct {
		name   string
		domain string
		want   bool
	}{
		{"empty", "", false},
		{"plain ascii", "example.com", false},
		{"ascii with digits and hyphen", "my-site123.example.com", false},
		{"ace prefix", "xn--pple-43d.com", true},
		{"cyrillic confusable a", "аpple.com", true},
		{"greek omicron confusable", "gοοgle.com", true},
		{"mixed scripts", "λф.com", true},
		{"single non-latin script", "мир.ru", false},
		{"accented latin only", "münchen.de", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectHomograph(tc.domain); got != tc.want {
				t.Errorf("DetectHomograph(%q) = %v, want %v", tc.domain, got, tc.want)
			}
		})
	}
}
