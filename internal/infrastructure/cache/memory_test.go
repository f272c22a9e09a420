package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foodexplorer/backend/internal/domain"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	result := domain.SearchResult{
		Query: "milk",
		Kind:  domain.QueryFreeText,
		Products: []domain.Product{
			{ID: "1", Name: "Whole Milk", Category: "dairy", NutritionGrade: "B", Image: "img"},
		},
		Categories: []string{"dairy"},
	}

	if err := cache.Set(ctx, "search:milk", &result, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got domain.SearchResult
	if err := cache.Get(ctx, "search:milk", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Query != "milk" || len(got.Products) != 1 || got.Products[0].Name != "Whole Milk" {
		t.Errorf("Get() = %+v, want round-tripped result", got)
	}
}

func TestMemoryCache_GetReturnsIndependentCopy(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	cache.Set(ctx, "k", &domain.SearchResult{Products: []domain.Product{{ID: "1", Name: "A"}}}, time.Minute)

	var first domain.SearchResult
	cache.Get(ctx, "k", &first)
	first.Products[0].Name = "mutated"

	var second domain.SearchResult
	cache.Get(ctx, "k", &second)
	if second.Products[0].Name != "A" {
		t.Errorf("stored value was mutated through a Get result: %q", second.Products[0].Name)
	}
}

func TestMemoryCache_Miss(t *testing.T) {
	cache := NewMemoryCache()

	var dest domain.SearchResult
	err := cache.Get(context.Background(), "absent", &dest)
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	cache.Set(ctx, "short", "value", time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	var dest string
	if err := cache.Get(ctx, "short", &dest); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() after expiry error = %v, want ErrCacheMiss", err)
	}

	exists, err := cache.Exists(ctx, "short")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true for expired key")
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	cache.Set(ctx, "k", "v", time.Minute)
	if err := cache.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var dest string
	if err := cache.Get(ctx, "k", &dest); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() after delete error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_SizeAndClear(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	cache.Set(ctx, "a", 1, time.Minute)
	cache.Set(ctx, "b", 2, time.Minute)
	if cache.Size() != 2 {
		t.Errorf("Size() = %d, want 2", cache.Size())
	}

	cache.Clear()
	if cache.Size() != 0 {
		t.Errorf("Size() after Clear = %d, want 0", cache.Size())
	}
}
