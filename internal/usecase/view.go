package usecase

import (
	"sort"

	"github.com/foodexplorer/backend/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ExtractCategories derives the sorted set of distinct, non-empty category
// values from a product collection. It is recomputed from scratch for every
// new aggregation rather than maintained incrementally.
func ExtractCategories(products []domain.Product) []string {
	seen := make(map[string]struct{}, len(products))
	categories := make([]string, 0, len(products))
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories
}

// ApplyFilterSort produces the ordered, filtered view of a product
// collection: filter first (exact category match, no-op when category is
// empty), then sort by the given key. The input slice is never modified.
//
// Descending variants are the exact reverse of their ascending counterpart,
// including for products with equal keys.
func ApplyFilterSort(products []domain.Product, category string, key domain.SortKey) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category == "" || p.Category == category {
			filtered = append(filtered, p)
		}
	}

	var field func(p domain.Product) string
	var descending bool
	switch key {
	case domain.SortNameAsc:
		field = func(p domain.Product) string { return p.Name }
	case domain.SortNameDesc:
		field, descending = func(p domain.Product) string { return p.Name }, true
	case domain.SortGradeAsc:
		field = func(p domain.Product) string { return p.NutritionGrade }
	case domain.SortGradeDesc:
		field, descending = func(p domain.Product) string { return p.NutritionGrade }, true
	default:
		// Unrecognized keys keep post-filter arrival order.
		return filtered
	}

	c := collate.New(language.English)
	sort.SliceStable(filtered, func(i, j int) bool {
		return c.CompareString(field(filtered[i]), field(filtered[j])) < 0
	})
	if descending {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}
	return filtered
}

// PageWindow exposes an incrementally growing prefix of an ordered
// collection. The window resets to the first increment whenever the source
// collection is replaced and only grows through LoadMore. Not safe for
// concurrent use; the owning session serializes access.
type PageWindow struct {
	items   []domain.Product
	size    int
	visible int
}

// NewPageWindow creates a window over items growing by size per LoadMore.
func NewPageWindow(items []domain.Product, size int) *PageWindow {
	w := &PageWindow{size: size}
	w.Reset(items)
	return w
}

// Reset replaces the source collection and shrinks the window back to the
// first increment.
func (w *PageWindow) Reset(items []domain.Product) {
	w.items = items
	w.visible = min(w.size, len(items))
}

// LoadMore grows the visible count by one increment, clamped to the
// collection length.
func (w *PageWindow) LoadMore() {
	w.visible = min(w.visible+w.size, len(w.items))
}

// Visible returns the currently visible prefix.
func (w *PageWindow) Visible() []domain.Product {
	return w.items[:w.visible]
}

// HasMore reports whether items beyond the window remain.
func (w *PageWindow) HasMore() bool {
	return w.visible < len(w.items)
}
