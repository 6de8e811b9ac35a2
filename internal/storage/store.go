// Package storage defines the persistence contract for analysis results.
package storage

import (
	"context"
	"errors"

	"urlguard/internal/domain/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// DefaultRecentLimit is used when FetchRecent is called with a non-positive
// limit.
const DefaultRecentLimit = 50

// Store persists analysis results and answers recency queries. Each save is
// an independent, fully committed write; implementations must be safe for
// concurrent use.
type Store interface {
	SaveAnalysis(ctx context.Context, result *models.URLAnalysisResult) error
	FetchRecent(ctx context.Context, limit int) ([]models.URLAnalysisResult, error)
	Close() error
}
