// Package sqlite is the default analysis store, a single local database file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"urlguard/internal/domain/models"
	"urlguard/internal/storage"
)

// Store implements storage.Store on a SQLite file.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database file and ensures the schema exists.
func New(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS url_analysis (
	id                 TEXT PRIMARY KEY,
	url                TEXT NOT NULL,
	normalized_url     TEXT NOT NULL,
	unwrapped_url      TEXT NOT NULL,
	domain             TEXT,
	spam_score         REAL NOT NULL,
	phishing_score     REAL NOT NULL,
	malicious_score    REAL NOT NULL,
	authenticity_score REAL NOT NULL,
	is_blacklisted     INTEGER NOT NULL,
	is_whitelisted     INTEGER NOT NULL,
	issues             TEXT NOT NULL,
	timestamp          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_url_analysis_domain ON url_analysis (domain);
CREATE INDEX IF NOT EXISTS idx_url_analysis_timestamp ON url_analysis (timestamp);
`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveAnalysis inserts one result as a single committed write.
func (s *Store) SaveAnalysis(ctx context.Context, result *models.URLAnalysisResult) error {
	id := result.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	issues, err := json.Marshal(issuesOrEmpty(result.Issues))
	if err != nil {
		return fmt.Errorf("failed to encode issues: %w", err)
	}

	query := `
INSERT INTO url_analysis (
	id, url, normalized_url, unwrapped_url, domain,
	spam_score, phishing_score, malicious_score, authenticity_score,
	is_blacklisted, is_whitelisted, issues, timestamp
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		id.String(),
		result.URL,
		result.NormalizedURL,
		result.UnwrappedURL,
		result.Domain,
		result.SpamScore,
		result.PhishingScore,
		result.MaliciousScore,
		result.AuthenticityScore,
		boolToInt(result.IsBlacklisted),
		boolToInt(result.IsWhitelisted),
		string(issues),
		result.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// FetchRecent returns the most recent results ordered newest first.
func (s *Store) FetchRecent(ctx context.Context, limit int) ([]models.URLAnalysisResult, error) {
	if limit <= 0 {
		limit = storage.DefaultRecentLimit
	}

	query := `
SELECT id, url, normalized_url, unwrapped_url, domain,
       spam_score, phishing_score, malicious_score, authenticity_score,
       is_blacklisted, is_whitelisted, issues, timestamp
FROM url_analysis
ORDER BY timestamp DESC
LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent analyses: %w", err)
	}
	defer rows.Close()

	var results []models.URLAnalysisResult
	for rows.Next() {
		var (
			r              models.URLAnalysisResult
			idStr          string
			domain         sql.NullString
			blacklistedInt int
			whitelistedInt int
			issuesJSON     string
			timestampStr   string
		)
		if err := rows.Scan(
			&idStr, &r.URL, &r.NormalizedURL, &r.UnwrappedURL, &domain,
			&r.SpamScore, &r.PhishingScore, &r.MaliciousScore, &r.AuthenticityScore,
			&blacklistedInt, &whitelistedInt, &issuesJSON, &timestampStr,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		if id, err := uuid.Parse(idStr); err == nil {
			r.ID = id
		}
		r.Domain = domain.String
		r.IsBlacklisted = blacklistedInt != 0
		r.IsWhitelisted = whitelistedInt != 0
		if err := json.Unmarshal([]byte(issuesJSON), &r.Issues); err != nil {
			return nil, fmt.Errorf("failed to decode issues: %w", err)
		}
		if len(r.Issues) == 0 {
			r.Issues = nil
		}
		if ts, err := time.Parse(time.RFC3339Nano, timestampStr); err == nil {
			r.Timestamp = ts
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func issuesOrEmpty(issues []string) []string {
	if issues == nil {
		return []string{}
	}
	return issues
}
