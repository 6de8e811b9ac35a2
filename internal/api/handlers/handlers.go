package handlers

import (
	"time"

	"urlguard/internal/domain/services"
	"urlguard/internal/infrastructure/cache"
	"urlguard/internal/lists"
	"urlguard/internal/storage"
	"urlguard/pkg/logger"
)

// Handlers holds all API handlers.
type Handlers struct {
	Health *HealthHandler
	URL    *URLHandler
}

// Dependencies holds dependencies for handlers. Cache and Store may be nil
// when the corresponding backend is disabled.
type Dependencies struct {
	Analyzer  *services.Analyzer
	Store     storage.Store
	Cache     *cache.RedisCache
	Blacklist lists.Source
	CacheTTL  time.Duration
	Logger    *logger.Logger
}

// NewHandlers creates all handlers.
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Cache, deps.Logger),
		URL:    NewURLHandler(deps),
	}
}
