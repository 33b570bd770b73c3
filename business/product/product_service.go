package product

import (
	"context"
	"fmt"

	"segmentReco/domain"
	"segmentReco/pkg/logger"
)

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// ProductRepository contract interface
type ProductRepository interface {
	FindByProductID(ctx context.Context, productID uint64) (domain.Product, error)
	List(ctx context.Context, skip, limit int) ([]domain.Product, error)
}

type productService struct {
	productRepo ProductRepository
}

func NewProductService(productRepo ProductRepository) *productService {
	return &productService{
		productRepo: productRepo,
	}
}

// ListProducts pages through the catalog. A non-positive limit means the
// default page size; larger limits are capped.
func (s *productService) ListProducts(ctx context.Context, skip, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if skip < 0 {
		return nil, fmt.Errorf("%w: skip must not be negative", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	products, err := s.productRepo.List(ctx, skip, limit)
	if err != nil {
		logger.Error("failed to list products", "skip", skip, "limit", limit, "error", err)
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}

	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, productID uint64) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	p, err := s.productRepo.FindByProductID(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}

	return p, nil
}
