package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/foodexplorer/backend/internal/domain"
	"golang.org/x/time/rate"
)

// searchResponse is the envelope returned by the cgi/search.pl endpoint.
type searchResponse struct {
	Products []domain.SourceProduct `json:"products"`
}

// lookupResponse is the envelope returned by the api/v0/product endpoint.
// Status 1 with a product present signals found.
type lookupResponse struct {
	Status  int                   `json:"status"`
	Product *domain.SourceProduct `json:"product"`
}

// ClientConfig tunes the outbound client.
type ClientConfig struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	PageSize          int
	RequestsPerSecond float64
	Burst             int
}

// Client handles communication with the Open Food Facts API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	pageSize    int
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Open Food Facts API client
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	// Open Food Facts asks clients to stay well under 10 search requests
	// per minute; the limiter paces successive page fetches.
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "FoodExplorer/1.0"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     cfg.BaseURL,
		userAgent:   cfg.UserAgent,
		pageSize:    cfg.PageSize,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// SetDebug toggles request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAPIFailure, err)
	}

	return resp, nil
}

// SearchPage fetches one page of raw records for a free-text search term.
// An empty term is valid and yields the service's default result page.
func (c *Client) SearchPage(ctx context.Context, term string, page int) ([]domain.SourceProduct, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	endpoint := fmt.Sprintf("%s/cgi/search.pl", c.baseURL)
	params := url.Values{}
	params.Add("json", "true")
	params.Add("search_terms", term)
	params.Add("page", strconv.Itoa(page))
	params.Add("page_size", strconv.Itoa(c.pageSize))

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())
	if c.debug {
		log.Printf("[OFF] SearchPage term=%q page=%d", term, page)
	}

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrAPIFailure, resp.StatusCode, truncate(body, 200))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if c.debug {
		log.Printf("[OFF] SearchPage term=%q page=%d -> %d records", term, page, len(searchResp.Products))
	}
	return searchResp.Products, nil
}

// GetByBarcode looks up a single product by its code. A status-0 reply is
// reported as domain.ErrProductNotFound; the request itself succeeded.
func (c *Client) GetByBarcode(ctx context.Context, code string) (*domain.SourceProduct, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(code))
	if c.debug {
		log.Printf("[OFF] GetByBarcode code=%q", code)
	}

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrAPIFailure, resp.StatusCode, truncate(body, 200))
	}

	var lookupResp lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lookupResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if lookupResp.Status != 1 || lookupResp.Product == nil {
		return nil, domain.ErrProductNotFound
	}

	return lookupResp.Product, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
