package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"urlguard/internal/domain/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleResult(url string, ts time.Time) models.URLAnalysisResult {
	return models.URLAnalysisResult{
		ID:                uuid.New(),
		URL:               url,
		NormalizedURL:     url,
		UnwrappedURL:      url,
		Domain:            "example.com",
		IsValid:           true,
		SpamScore:         0.1,
		PhishingScore:     0.0,
		MaliciousScore:    0.0,
		AuthenticityScore: 0.7,
		Issues:            []string{"shortener_detected"},
		Timestamp:         ts,
	}
}

func TestSaveAndFetchRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved := sampleResult("https://example.com/a", time.Now().UTC())
	saved.IsBlacklisted = true
	if err := store.SaveAnalysis(ctx, &saved); err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}

	results, err := store.FetchRecent(ctx, 10)
	if err != nil {
		t.Fatalf("FetchRecent: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	got := results[0]
	if got.ID != saved.ID {
		t.Errorf("ID = %s, want %s", got.ID, saved.ID)
	}
	if got.URL != saved.URL || got.Domain != saved.Domain {
		t.Errorf("url/domain = %q/%q, want %q/%q", got.URL, got.Domain, saved.URL, saved.Domain)
	}
	if got.AuthenticityScore != saved.AuthenticityScore {
		t.Errorf("AuthenticityScore = %v, want %v", got.AuthenticityScore, saved.AuthenticityScore)
	}
	if !got.IsBlacklisted {
		t.Error("IsBlacklisted not preserved")
	}
	if len(got.Issues) != 1 || got.Issues[0] != "shortener_detected" {
		t.Errorf("Issues = %v, want [shortener_detected]", got.Issues)
	}
	if !got.Timestamp.Equal(saved.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, saved.Timestamp)
	}
}

func TestSaveAnalysisAssignsID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := sampleResult("https://example.com/noid", time.Now().UTC())
	r.ID = uuid.Nil
	if err := store.SaveAnalysis(ctx, &r); err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}

	results, err := store.FetchRecent(ctx, 1)
	if err != nil {
		t.Fatalf("FetchRecent: %v", err)
	}
	if len(results) != 1 || results[0].ID == uuid.Nil {
		t.Fatalf("stored row has no generated id: %+v", results)
	}
}

func TestFetchRecentOrderAndLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	urls := []string{"https://a.example/", "https://b.example/", "https://c.example/"}
	for i, u := range urls {
		r := sampleResult(u, base.Add(time.Duration(i)*time.Minute))
		if err := store.SaveAnalysis(ctx, &r); err != nil {
			t.Fatalf("SaveAnalysis(%s): %v", u, err)
		}
	}

	results, err := store.FetchRecent(ctx, 2)
	if err != nil {
		t.Fatalf("FetchRecent: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].URL != "https://c.example/" || results[1].URL != "https://b.example/" {
		t.Errorf("order = [%s %s], want newest first", results[0].URL, results[1].URL)
	}
}

func TestFetchRecentDefaultLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 55; i++ {
		r := sampleResult("https://example.com/", base.Add(time.Duration(i)*time.Second))
		if err := store.SaveAnalysis(ctx, &r); err != nil {
			t.Fatalf("SaveAnalysis: %v", err)
		}
	}

	results, err := store.FetchRecent(ctx, 0)
	if err != nil {
		t.Fatalf("FetchRecent: %v", err)
	}
	if len(results) != 50 {
		t.Fatalf("got %d results, want default limit 50", len(results))
	}
}

func TestFetchRecentEmpty(t *testing.T) {
	store := newTestStore(t)

	results, err := store.FetchRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchRecent: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results, want 0", len(results))
	}
}
