// Package postgres is the analysis store used by service deployments that
// already run a relational database.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"urlguard/internal/domain/models"
	"urlguard/internal/storage"
)

// Store implements storage.Store on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database and ensures the schema exists.
func New(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS url_analysis (
	id                 UUID PRIMARY KEY,
	url                TEXT NOT NULL,
	normalized_url     TEXT NOT NULL,
	unwrapped_url      TEXT NOT NULL,
	domain             TEXT,
	spam_score         DOUBLE PRECISION NOT NULL,
	phishing_score     DOUBLE PRECISION NOT NULL,
	malicious_score    DOUBLE PRECISION NOT NULL,
	authenticity_score DOUBLE PRECISION NOT NULL,
	is_blacklisted     BOOLEAN NOT NULL,
	is_whitelisted     BOOLEAN NOT NULL,
	issues             TEXT NOT NULL,
	timestamp          TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_url_analysis_domain ON url_analysis (domain);
CREATE INDEX IF NOT EXISTS idx_url_analysis_timestamp ON url_analysis (timestamp);
`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// SaveAnalysis inserts one result as a single committed write.
func (s *Store) SaveAnalysis(ctx context.Context, result *models.URLAnalysisResult) error {
	id := result.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	issues := result.Issues
	if issues == nil {
		issues = []string{}
	}
	encoded, err := json.Marshal(issues)
	if err != nil {
		return fmt.Errorf("failed to encode issues: %w", err)
	}

	query := `
INSERT INTO url_analysis (
	id, url, normalized_url, unwrapped_url, domain,
	spam_score, phishing_score, malicious_score, authenticity_score,
	is_blacklisted, is_whitelisted, issues, timestamp
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = s.pool.Exec(ctx, query,
		id,
		result.URL,
		result.NormalizedURL,
		result.UnwrappedURL,
		result.Domain,
		result.SpamScore,
		result.PhishingScore,
		result.MaliciousScore,
		result.AuthenticityScore,
		result.IsBlacklisted,
		result.IsWhitelisted,
		string(encoded),
		result.Timestamp.UTC(),
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
LIMIT $1`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent analyses: %w", err)
	}
	defer rows.Close()

	var results []models.URLAnalysisResult
	for rows.Next() {
		var (
			r          models.URLAnalysisResult
			domain     *string
			issuesJSON string
		)
		if err := rows.Scan(
			&r.ID, &r.URL, &r.NormalizedURL, &r.UnwrappedURL, &domain,
			&r.SpamScore, &r.PhishingScore, &r.MaliciousScore, &r.AuthenticityScore,
			&r.IsBlacklisted, &r.IsWhitelisted, &issuesJSON, &r.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		if domain != nil {
			r.Domain = *domain
		}
		if err := json.Unmarshal([]byte(issuesJSON), &r.Issues); err != nil {
			return nil, fmt.Errorf("failed to decode issues: %w", err)
		}
		if len(r.Issues) == 0 {
			r.Issues = nil
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
