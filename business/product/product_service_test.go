//go:build !integration

package product

import (
	"context"
	"errors"
	"testing"

	"segmentReco/domain"
)

type memProducts struct {
	rows      []domain.Product
	lastLimit int
}

func (m *memProducts) FindByProductID(ctx context.Context, productID uint64) (domain.Product, error) {
	for _, p := range m.rows {
		if p.ProductID == productID {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

func (m *memProducts) List(ctx context.Context, skip, limit int) ([]domain.Product, error) {
	m.lastLimit = limit
	if skip >= len(m.rows) {
		return nil, nil
	}
	end := skip + limit
	if end > len(m.rows) {
		end = len(m.rows)
	}
	return m.rows[skip:end], nil
}

func TestListProducts(t *testing.T) {
	repo := &memProducts{rows: []domain.Product{{ProductID: 1}, {ProductID: 2}, {ProductID: 3}}}
	svc := NewProductService(repo)

	tests := []struct {
		name      string
		skip      int
		limit     int
		wantLen   int
		wantLimit int
	}{
		{"default limit", 0, 0, 3, DefaultLimit},
		{"paged", 1, 1, 1, 1},
		{"capped", 0, 10000, 3, MaxLimit},
		{"past the end", 10, 5, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ListProducts(context.Background(), tt.skip, tt.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got == nil || len(got) != tt.wantLen {
				t.Fatalf("expected %d products, got %v", tt.wantLen, got)
			}
			if repo.lastLimit != tt.wantLimit {
				t.Fatalf("expected limit %d, got %d", tt.wantLimit, repo.lastLimit)
			}
		})
	}

	if _, err := svc.ListProducts(context.Background(), -1, 10); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative skip, got %v", err)
	}
}

func TestGetProduct(t *testing.T) {
	svc := NewProductService(&memProducts{rows: []domain.Product{{ProductID: 7, Name: "Denim Jacket"}}})

	p, err := svc.GetProduct(context.Background(), 7)
	if err != nil || p.Name != "Denim Jacket" {
		t.Fatalf("unexpected result: %+v, %v", p, err)
	}
	if _, err := svc.GetProduct(context.Background(), 8); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
