package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodexplorer/backend/internal/domain"
	"github.com/foodexplorer/backend/internal/infrastructure/openfoodfacts"
)

// DetailService fetches and maps a single product's full detail record.
// Every Get hits the remote service; details are never reused across
// identifier changes. Nothing is retried.
type DetailService struct {
	client domain.ProductClient
}

// NewDetailService creates a detail service.
func NewDetailService(client domain.ProductClient) *DetailService {
	return &DetailService{client: client}
}

// Get fetches the detail record for one identifier. It returns
// domain.ErrProductNotFound when the service reports no such product, and
// wraps transport failures in domain.ErrAPIFailure. The two are handled the
// same way at the presentation layer but stay distinguishable here.
func (s *DetailService) Get(ctx context.Context, id string) (*domain.ProductDetail, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}

	src, err := s.client.GetByBarcode(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, domain.ErrProductNotFound
		}
		if errors.Is(err, domain.ErrAPIFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrAPIFailure, err)
	}

	return openfoodfacts.MapDetail(src), nil
}
