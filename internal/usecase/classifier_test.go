package usecase

import (
	"testing"

	"github.com/foodexplorer/backend/internal/domain"
)

func TestClassifyQuery(t *testing.T) {
	tests := []struct {
		input string
		want  domain.QueryKind
	}{
		{"12345678", domain.QueryBarcode},
		{"3017620422003", domain.QueryBarcode},
		{"1234567", domain.QueryFreeText}, // too short for a barcode
		{"abc12345678", domain.QueryFreeText},
		{"12345678abc", domain.QueryFreeText},
		{"1234 5678", domain.QueryFreeText},
		{"", domain.QueryFreeText},
		{"milk", domain.QueryFreeText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ClassifyQuery(tt.input); got != tt.want {
				t.Errorf("ClassifyQuery(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
