package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/foodexplorer/backend/internal/domain"
)

// MockProductClient is a scripted implementation of domain.ProductClient.
// pages[i] is what page i+1 returns; pages past the script are empty.
// Safe for concurrent use so session tests can share it.
type MockProductClient struct {
	mu          sync.Mutex
	pages       [][]domain.SourceProduct
	pageErrs    map[int]error
	searchCalls []int
	searchTerms []string

	barcodeResult *domain.SourceProduct
	barcodeErr    error
	barcodeCalls  int
}

func (m *MockProductClient) SearchPage(ctx context.Context, term string, page int) ([]domain.SourceProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls = append(m.searchCalls, page)
	m.searchTerms = append(m.searchTerms, term)
	if err := m.pageErrs[page]; err != nil {
		return nil, err
	}
	if page <= len(m.pages) {
		return m.pages[page-1], nil
	}
	return nil, nil
}

func (m *MockProductClient) GetByBarcode(ctx context.Context, code string) (*domain.SourceProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.barcodeCalls++
	if m.barcodeErr != nil {
		return nil, m.barcodeErr
	}
	return m.barcodeResult, nil
}

// SearchTerms returns a copy of the terms seen so far.
func (m *MockProductClient) SearchTerms() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.searchTerms...)
}

// SearchCallCount returns how many page fetches were made.
func (m *MockProductClient) SearchCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.searchCalls)
}

// MockCacheRepository is an in-memory map implementation of domain.CacheRepository.
type MockCacheRepository struct {
	data      map[string][]byte
	getCalled bool
	setCalled bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string][]byte)}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string, dest any) error {
	m.getCalled = true
	raw, ok := m.data[key]
	if !ok {
		return domain.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.setCalled = true
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// makeRecords builds n raw records with distinct codes, cycling their
// category through the given set.
func makeRecords(n, offset int, categories ...string) []domain.SourceProduct {
	records := make([]domain.SourceProduct, n)
	for i := range records {
		category := "en:foods"
		if len(categories) > 0 {
			category = categories[(offset+i)%len(categories)]
		}
		records[i] = domain.SourceProduct{
			Code:           fmt.Sprintf("code-%04d", offset+i),
			ProductName:    fmt.Sprintf("Product %04d", offset+i),
			CategoriesTags: []string{category},
		}
	}
	return records
}

func newTestCatalog(client *MockProductClient) *CatalogService {
	return NewCatalogService(client, nil, CatalogConfig{MaxPages: 3})
}

func TestCatalogService_TextSearch_StopsOnEmptyPage(t *testing.T) {
	client := &MockProductClient{
		pages: [][]domain.SourceProduct{
			makeRecords(50, 0),
			makeRecords(50, 50),
			{},
		},
	}
	svc := newTestCatalog(client)

	result, err := svc.Search(context.Background(), "milk")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(result.Products) != 100 {
		t.Errorf("aggregated %d products, want 100", len(result.Products))
	}
	if !reflect.DeepEqual(client.searchCalls, []int{1, 2, 3}) {
		t.Errorf("pages fetched = %v, want [1 2 3]", client.searchCalls)
	}
	if result.Kind != domain.QueryFreeText {
		t.Errorf("Kind = %v, want free text", result.Kind)
	}
}

func TestCatalogService_TextSearch_CappedAtMaxPages(t *testing.T) {
	client := &MockProductClient{
		pages: [][]domain.SourceProduct{
			makeRecords(50, 0),
			makeRecords(50, 50),
			makeRecords(50, 100),
			makeRecords(50, 150), // would be page 4, must never be fetched
		},
	}
	svc := newTestCatalog(client)

	result, err := svc.Search(context.Background(), "milk")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(result.Products) != 150 {
		t.Errorf("aggregated %d products, want 150 (capped)", len(result.Products))
	}
	if !reflect.DeepEqual(client.searchCalls, []int{1, 2, 3}) {
		t.Errorf("pages fetched = %v, want [1 2 3]", client.searchCalls)
	}
}

func TestCatalogService_TextSearch_ErrorAbortsAndDiscards(t *testing.T) {
	client := &MockProductClient{
		pages:    [][]domain.SourceProduct{makeRecords(50, 0)},
		pageErrs: map[int]error{2: fmt.Errorf("%w: connection reset", domain.ErrAPIFailure)},
	}
	svc := newTestCatalog(client)

	result, err := svc.Search(context.Background(), "milk")
	if !errors.Is(err, domain.ErrAPIFailure) {
		t.Fatalf("Search() error = %v, want ErrAPIFailure", err)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil (partial aggregation discarded)", result)
	}
}

func TestCatalogService_TextSearch_EmptyQueryIsValid(t *testing.T) {
	client := &MockProductClient{
		pages: [][]domain.SourceProduct{makeRecords(10, 0)},
	}
	svc := newTestCatalog(client)

	result, err := svc.Search(context.Background(), "")
	if err != nil {
		t.Fatalf("Search(\"\") error = %v", err)
	}
	if len(result.Products) != 10 {
		t.Errorf("aggregated %d products, want 10", len(result.Products))
	}
}

func TestCatalogService_TextSearch_DerivesSortedCategories(t *testing.T) {
	client := &MockProductClient{
		pages: [][]domain.SourceProduct{makeRecords(30, 0, "en:dairy", "en:beverages")},
	}
	svc := newTestCatalog(client)

	result, err := svc.Search(context.Background(), "milk")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	want := []string{"beverages", "dairy"}
	if !reflect.DeepEqual(result.Categories, want) {
		t.Errorf("Categories = %v, want %v", result.Categories, want)
	}
}

func TestCatalogService_Barcode_Found(t *testing.T) {
	client := &MockProductClient{
		barcodeResult: &domain.SourceProduct{
			Code:            "3017620422003",
			ProductName:     "Nutella",
			CategoriesTags:  []string{"en:sweet-spreads"},
			NutritionGrades: "e",
		},
	}
	svc := newTestCatalog(client)

	result, err := svc.Search(context.Background(), "3017620422003")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.Kind != domain.QueryBarcode {
		t.Errorf("Kind = %v, want barcode", result.Kind)
	}
	if len(result.Products) != 1 {
		t.Fatalf("got %d products, want singleton", len(result.Products))
	}
	if result.Products[0].Name != "Nutella" {
		t.Errorf("Name = %q, want Nutella", result.Products[0].Name)
	}
	if !reflect.DeepEqual(result.Categories, []string{"sweet spreads"}) {
		t.Errorf("Categories = %v, want the product's category", result.Categories)
	}
	if len(client.searchCalls) != 0 {
		t.Errorf("barcode query hit the text search endpoint: %v", client.searchCalls)
	}
}

func TestCatalogService_Barcode_NotFound(t *testing.T) {
	client := &MockProductClient{barcodeErr: domain.ErrProductNotFound}
	svc := newTestCatalog(client)

	result, err := svc.Search(context.Background(), "00000000")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("Search() error = %v, want ErrProductNotFound", err)
	}
	// Not a hard failure: the empty result still identifies the query.
	if result == nil || len(result.Products) != 0 {
		t.Errorf("result = %+v, want empty collection", result)
	}
}

func TestCatalogService_Barcode_TransportError(t *testing.T) {
	client := &MockProductClient{barcodeErr: fmt.Errorf("%w: timeout", domain.ErrAPIFailure)}
	svc := newTestCatalog(client)

	_, err := svc.Search(context.Background(), "3017620422003")
	if !errors.Is(err, domain.ErrAPIFailure) {
		t.Fatalf("Search() error = %v, want ErrAPIFailure", err)
	}
}

func TestCatalogService_TextSearch_CachesResults(t *testing.T) {
	client := &MockProductClient{
		pages: [][]domain.SourceProduct{makeRecords(10, 0)},
	}
	cache := NewMockCacheRepository()
	svc := NewCatalogService(client, cache, CatalogConfig{MaxPages: 3, CacheTTL: time.Minute})

	first, err := svc.Search(context.Background(), "Milk")
	if err != nil {
		t.Fatalf("first Search() error = %v", err)
	}
	calls := len(client.searchCalls)

	second, err := svc.Search(context.Background(), "milk")
	if err != nil {
		t.Fatalf("second Search() error = %v", err)
	}
	if len(client.searchCalls) != calls {
		t.Errorf("second search hit the client (%d calls); want cache reuse", len(client.searchCalls))
	}
	if len(second.Products) != len(first.Products) {
		t.Errorf("cached result has %d products, want %d", len(second.Products), len(first.Products))
	}
}

func TestCatalogService_PageDelayHonorsCancellation(t *testing.T) {
	client := &MockProductClient{
		pages: [][]domain.SourceProduct{
			makeRecords(50, 0),
			makeRecords(50, 50),
		},
	}
	svc := NewCatalogService(client, nil, CatalogConfig{MaxPages: 3, PageDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.Search(ctx, "milk")
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Search() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Search did not return after cancellation")
	}
}
