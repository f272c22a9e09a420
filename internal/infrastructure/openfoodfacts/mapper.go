package openfoodfacts

import (
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/foodexplorer/backend/internal/domain"
)

// Defaults applied when the source record omits a field.
const (
	DefaultName     = "Unnamed Product"
	DefaultImage    = "https://via.placeholder.com/200"
	DefaultCategory = "Unknown Category"
	DefaultGrade    = "N/A"
)

// categoryTagPrefix is the language namespace Open Food Facts prepends to
// category tags (e.g. "en:plant-based-foods"). Stripping it is a quirk of
// that service's tag convention and lives only here.
const categoryTagPrefix = "en:"

// MapProduct converts one raw record into a catalog Product. It is total:
// any missing or malformed field is replaced by its default, so every field
// of the result is populated. index is the product's position within the
// aggregated batch and feeds the deterministic fallback id.
func MapProduct(src *domain.SourceProduct, index int) domain.Product {
	name := src.ProductName
	if name == "" {
		name = DefaultName
	}

	image := src.ImageURL
	if image == "" {
		image = DefaultImage
	}

	category := mapCategory(src.CategoriesTags)

	id := src.ID
	if id == "" {
		id = src.Code
	}
	if id == "" {
		id = fallbackID(name, category, index)
	}

	return domain.Product{
		ID:             id,
		Name:           name,
		Image:          image,
		Category:       category,
		NutritionGrade: mapGrade(src.NutritionGrades),
	}
}

// MapDetail converts a raw record into the full detail view model.
func MapDetail(src *domain.SourceProduct) *domain.ProductDetail {
	name := src.ProductName
	if name == "" {
		name = DefaultName
	}
	image := src.ImageURL
	if image == "" {
		image = DefaultImage
	}

	return &domain.ProductDetail{
		Code:        src.Code,
		Name:        name,
		Image:       image,
		Categories:  src.Categories,
		Labels:      src.Labels,
		Ingredients: src.IngredientsText,
		Nutriments: domain.Nutriments100g{
			EnergyKcal:    nutriment(src.Nutriments, "energy-kcal_100g"),
			Fat:           nutriment(src.Nutriments, "fat_100g"),
			Carbohydrates: nutriment(src.Nutriments, "carbohydrates_100g"),
			Proteins:      nutriment(src.Nutriments, "proteins_100g"),
		},
	}
}

// mapCategory takes the first category tag, strips the namespace prefix and
// replaces the internal hyphen separators with spaces.
func mapCategory(tags []string) string {
	if len(tags) == 0 || tags[0] == "" {
		return DefaultCategory
	}
	category := strings.TrimPrefix(tags[0], categoryTagPrefix)
	category = strings.ReplaceAll(category, "-", " ")
	if category == "" {
		return DefaultCategory
	}
	return category
}

// mapGrade canonicalizes a nutrition grade to uppercase A-E, or "N/A" for
// anything else the service sends.
func mapGrade(grade string) string {
	g := strings.ToUpper(strings.TrimSpace(grade))
	switch g {
	case "A", "B", "C", "D", "E":
		return g
	}
	return DefaultGrade
}

// fallbackID derives a stable identifier for records that carry neither an
// internal id nor a code. Deterministic so result sets are reproducible.
func fallbackID(name, category string, index int) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%s|%d", name, category, index)
	return fmt.Sprintf("gen-%08x", h.Sum32())
}

// nutriment coerces a nutriments map value to float64. Open Food Facts
// records carry these as numbers or strings depending on the product.
// Returns -1 when missing or unparseable.
func nutriment(m map[string]any, key string) float64 {
	v, ok := m[key]
	if !ok {
		return -1
	}
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return -1
		}
		return x
	case string:
		var f float64
		if _, err := fmt.Sscanf(x, "%f", &f); err == nil {
			return f
		}
	}
	return -1
}
