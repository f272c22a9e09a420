package usecase

import (
	"regexp"

	"github.com/foodexplorer/backend/internal/domain"
)

// barcodePattern matches inputs treated as direct product-code lookups:
// digits only, at least eight of them.
var barcodePattern = regexp.MustCompile(`^\d{8,}$`)

// ClassifyQuery decides whether a raw search input is a barcode or free
// text. The empty string is free text.
func ClassifyQuery(raw string) domain.QueryKind {
	if barcodePattern.MatchString(raw) {
		return domain.QueryBarcode
	}
	return domain.QueryFreeText
}
