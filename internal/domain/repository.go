package domain

import (
	"context"
	"time"
)

// ProductClient defines the interface for talking to the Open Food Facts API.
type ProductClient interface {
	// SearchPage fetches one page of raw records for a free-text term.
	// An empty slice signals the end of results. Pages are 1-based.
	SearchPage(ctx context.Context, term string, page int) ([]SourceProduct, error)

	// GetByBarcode looks a single product up by its code. It returns
	// ErrProductNotFound when the service reports status 0.
	GetByBarcode(ctx context.Context, code string) (*SourceProduct, error)
}

// CacheRepository defines the interface for caching operations. Values are
// stored JSON-encoded; Get unmarshals into dest and returns ErrCacheMiss
// when the key is absent or expired.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
