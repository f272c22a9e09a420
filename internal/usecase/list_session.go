package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/foodexplorer/backend/internal/domain"
)

// BarcodeNotFoundMessage is the user-facing text shown when a barcode query
// completes but no product exists for it.
const BarcodeNotFoundMessage = "No product found for this barcode."

// ListState is a point-in-time snapshot of one search session: the raw and
// committed query, the full aggregated collection, and everything derived
// from it. Slices are copies and safe to hold after the session moves on.
type ListState struct {
	Input      string
	Query      string
	Kind       domain.QueryKind
	Loading    bool
	Error      string
	Products   []domain.Product
	Categories []string
	Category   string
	Sort       domain.SortKey
	Filtered   []domain.Product
	Visible    []domain.Product
	HasMore    bool
}

// ListSession owns all derived state for one product-list search session.
// It debounces raw input changes, dispatches the settled query through the
// catalog service, and recomputes the filtered view and visible window from
// canonical state on every change.
//
// Whichever fetch generation is newest wins: a result arriving for a
// superseded query is discarded, never committed. Filter and sort changes
// recompute the view without re-fetching, and the selected category
// deliberately survives across searches.
type ListSession struct {
	catalog    *CatalogService
	debouncer  *Debouncer[string]
	windowSize int

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	gen        uint64
	closed     bool
	input      string
	query      string
	kind       domain.QueryKind
	loading    bool
	errMsg     string
	products   []domain.Product
	categories []string
	category   string
	sortKey    domain.SortKey
	filtered   []domain.Product
	window     *PageWindow

	updates chan struct{}
}

// ListSessionConfig tunes a session.
type ListSessionConfig struct {
	// Debounce is how long the raw input must stay unchanged before a query
	// is committed.
	Debounce time.Duration
	// WindowSize is the load-more increment for the visible window.
	WindowSize int
}

// NewListSession creates a session and immediately commits the empty query,
// mirroring a fresh mount: the default result page loads without waiting
// for input.
func NewListSession(catalog *CatalogService, cfg ListSessionConfig) *ListSession {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = 800 * time.Millisecond
	}
	windowSize := cfg.WindowSize
	if windowSize <= 0 {
		windowSize = 16
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &ListSession{
		catalog:    catalog,
		debouncer:  NewDebouncer[string](debounce),
		windowSize: windowSize,
		ctx:        ctx,
		cancel:     cancel,
		window:     NewPageWindow(nil, windowSize),
		updates:    make(chan struct{}, 1),
	}

	go s.run()
	return s
}

// run drives the session: one initial commit, then one commit per settled
// query until the session closes.
func (s *ListSession) run() {
	s.commit("")
	for {
		select {
		case <-s.ctx.Done():
			return
		case query := <-s.debouncer.C():
			s.commit(query)
		}
	}
}

// SetInput records a raw input change. Nothing is fetched until the value
// has been stable for the debounce interval.
func (s *ListSession) SetInput(input string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.input = input
	s.mu.Unlock()

	s.debouncer.Set(input)
}

// SetCategory selects or clears the category filter. The view is recomputed
// and the window reset; no fetch is triggered and loading state is untouched.
func (s *ListSession) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.category = category
	s.recomputeView()
	s.notify()
}

// SetSort selects the sort key. Same contract as SetCategory.
func (s *ListSession) SetSort(key domain.SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.sortKey = key
	s.recomputeView()
	s.notify()
}

// LoadMore grows the visible window by one increment.
func (s *ListSession) LoadMore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.window.LoadMore()
	s.notify()
}

// Updates returns a channel that receives a signal after every state
// change. The channel is never closed and holds at most one pending signal.
func (s *ListSession) Updates() <-chan struct{} {
	return s.updates
}

// Snapshot copies the current session state.
func (s *ListSession) Snapshot() ListState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ListState{
		Input:      s.input,
		Query:      s.query,
		Kind:       s.kind,
		Loading:    s.loading,
		Error:      s.errMsg,
		Products:   copyProducts(s.products),
		Categories: append([]string(nil), s.categories...),
		Category:   s.category,
		Sort:       s.sortKey,
		Filtered:   copyProducts(s.filtered),
		Visible:    copyProducts(s.window.Visible()),
		HasMore:    s.window.HasMore(),
	}
}

// Close tears the session down. In-flight fetches are cancelled and can no
// longer write state.
func (s *ListSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.debouncer.Stop()
	s.cancel()
}

// commit starts a fetch for a settled query. The session enters loading
// state and any previous generation becomes stale.
func (s *ListSession) commit(query string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.gen++
	gen := s.gen
	s.query = query
	s.kind = ClassifyQuery(query)
	s.loading = true
	s.errMsg = ""
	s.notify()
	s.mu.Unlock()

	go s.fetch(gen, query)
}

// fetch runs the catalog search and commits the outcome, unless a newer
// query settled in the meantime or the session closed.
func (s *ListSession) fetch(gen uint64, query string) {
	result, err := s.catalog.Search(s.ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return
	}

	s.loading = false
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		s.errMsg = BarcodeNotFoundMessage
		s.products = nil
		s.categories = nil
	case err != nil:
		s.errMsg = err.Error()
		s.products = nil
		s.categories = nil
	default:
		s.products = result.Products
		s.categories = result.Categories
	}
	s.recomputeView()
	s.notify()
}

// recomputeView rebuilds the filtered view and resets the window. Caller
// holds the lock.
func (s *ListSession) recomputeView() {
	s.filtered = ApplyFilterSort(s.products, s.category, s.sortKey)
	s.window.Reset(s.filtered)
}

// notify signals an update without blocking. Caller holds the lock.
func (s *ListSession) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

func copyProducts(products []domain.Product) []domain.Product {
	if products == nil {
		return nil
	}
	return append([]domain.Product(nil), products...)
}
