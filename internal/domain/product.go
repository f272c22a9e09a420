package domain

// Product is the normalized catalog entry shown in result lists.
// Every field is populated after mapping; missing source data is replaced
// by the documented defaults, never left empty.
type Product struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Image          string `json:"image"`
	Category       string `json:"category"`
	NutritionGrade string `json:"nutritionGrade"`
}

// QueryKind tells how a raw search input should be dispatched.
type QueryKind string

const (
	QueryFreeText QueryKind = "text"
	QueryBarcode  QueryKind = "barcode"
)

// SortKey selects the ordering applied to a filtered result view.
// The zero value keeps arrival order.
type SortKey string

const (
	SortNone      SortKey = ""
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
	SortGradeAsc  SortKey = "grade-asc"
	SortGradeDesc SortKey = "grade-desc"
)

// SearchResult is the outcome of one committed search: the full aggregated
// product collection in arrival order plus the derived category set.
type SearchResult struct {
	Query      string    `json:"query"`
	Kind       QueryKind `json:"kind"`
	Products   []Product `json:"products"`
	Categories []string  `json:"categories"`
}

// SourceProduct is a raw Open Food Facts record. Only the fields the
// application consumes are declared; nutriments stay untyped because the
// service mixes numeric and string values in that object.
type SourceProduct struct {
	ID              string         `json:"_id"`
	Code            string         `json:"code"`
	ProductName     string         `json:"product_name"`
	ImageURL        string         `json:"image_url"`
	CategoriesTags  []string       `json:"categories_tags"`
	NutritionGrades string         `json:"nutrition_grades"`
	Categories      string         `json:"categories"`
	Labels          string         `json:"labels"`
	IngredientsText string         `json:"ingredients_text"`
	Nutriments      map[string]any `json:"nutriments"`
}

// Nutriments100g holds the per-100g macronutrients shown on the detail view.
// A value of -1 means the service did not report that nutriment.
type Nutriments100g struct {
	EnergyKcal    float64 `json:"energyKcal"`
	Fat           float64 `json:"fat"`
	Carbohydrates float64 `json:"carbohydrates"`
	Proteins      float64 `json:"proteins"`
}

// ProductDetail is the full per-product record backing the detail view.
type ProductDetail struct {
	Code        string         `json:"code"`
	Name        string         `json:"name"`
	Image       string         `json:"image"`
	Categories  string         `json:"categories"`
	Labels      string         `json:"labels"`
	Ingredients string         `json:"ingredients"`
	Nutriments  Nutriments100g `json:"nutriments"`
}
