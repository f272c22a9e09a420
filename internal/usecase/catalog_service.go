package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/foodexplorer/backend/internal/domain"
	"github.com/foodexplorer/backend/internal/infrastructure/openfoodfacts"
)

// CatalogConfig holds tuning for the catalog service.
type CatalogConfig struct {
	// MaxPages caps how many pages a single free-text search aggregates.
	MaxPages int
	// PageDelay is the pause between successive page fetches, a courtesy
	// toward the remote service rather than a correctness requirement.
	PageDelay time.Duration
	// CacheTTL bounds how long an aggregated result is reused for the same
	// query. Zero disables reuse.
	CacheTTL time.Duration
}

// CatalogService dispatches a committed search input to either the paged
// free-text search or the direct barcode lookup and returns the aggregated,
// mapped product collection with its derived category set.
type CatalogService struct {
	client    domain.ProductClient
	cache     domain.CacheRepository
	maxPages  int
	pageDelay time.Duration
	cacheTTL  time.Duration
}

// NewCatalogService creates a catalog service with dependencies.
func NewCatalogService(client domain.ProductClient, cache domain.CacheRepository, cfg CatalogConfig) *CatalogService {
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 3
	}

	return &CatalogService{
		client:    client,
		cache:     cache,
		maxPages:  maxPages,
		pageDelay: cfg.PageDelay,
		cacheTTL:  cfg.CacheTTL,
	}
}

// Search runs one committed query end to end. Barcode inputs yield zero or
// one product; free-text inputs aggregate up to MaxPages pages. An empty
// query is valid and returns the service's default result page. On a
// not-found barcode the result is empty and the error is
// domain.ErrProductNotFound; any transport failure discards everything
// aggregated so far.
func (s *CatalogService) Search(ctx context.Context, rawQuery string) (*domain.SearchResult, error) {
	query := strings.TrimSpace(rawQuery)
	kind := ClassifyQuery(query)

	if kind == domain.QueryBarcode {
		return s.lookupBarcode(ctx, query)
	}
	return s.searchText(ctx, query)
}

// lookupBarcode performs the single direct lookup for a barcode query.
func (s *CatalogService) lookupBarcode(ctx context.Context, code string) (*domain.SearchResult, error) {
	src, err := s.client.GetByBarcode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return &domain.SearchResult{Query: code, Kind: domain.QueryBarcode}, domain.ErrProductNotFound
		}
		return nil, err
	}

	product := openfoodfacts.MapProduct(src, 0)
	return &domain.SearchResult{
		Query:      code,
		Kind:       domain.QueryBarcode,
		Products:   []domain.Product{product},
		Categories: []string{product.Category},
	}, nil
}

// searchText paginates through the remote search endpoint, mapping and
// accumulating records until a page comes back empty or the page cap is
// reached. Pages are fetched strictly one after another with the configured
// pause in between; the remote service is never hit in parallel.
func (s *CatalogService) searchText(ctx context.Context, term string) (*domain.SearchResult, error) {
	cacheKey := s.cacheKey(term)
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	var products []domain.Product
	for page := 1; page <= s.maxPages; page++ {
		if page > 1 {
			if err := s.pause(ctx); err != nil {
				return nil, err
			}
		}

		records, err := s.client.SearchPage(ctx, term, page)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			break
		}
		for i := range records {
			products = append(products, openfoodfacts.MapProduct(&records[i], len(products)))
		}
	}

	result := &domain.SearchResult{
		Query:      term,
		Kind:       domain.QueryFreeText,
		Products:   products,
		Categories: ExtractCategories(products),
	}

	s.toCache(ctx, cacheKey, result)
	return result, nil
}

// pause waits out the inter-page delay, honoring cancellation.
func (s *CatalogService) pause(ctx context.Context) error {
	if s.pageDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.pageDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *CatalogService) cacheKey(term string) string {
	return fmt.Sprintf("search:%s", strings.ToLower(term))
}

func (s *CatalogService) fromCache(ctx context.Context, key string) *domain.SearchResult {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	var result domain.SearchResult
	if err := s.cache.Get(ctx, key, &result); err != nil {
		return nil
	}
	return &result
}

func (s *CatalogService) toCache(ctx context.Context, key string, result *domain.SearchResult) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		log.Printf("[catalog] cache set failed for %q: %v", key, err)
	}
}
