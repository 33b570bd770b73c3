package catalog

import (
	"context"
	"errors"
	"time"

	"segmentReco/business/segment"
	"segmentReco/domain"
	"segmentReco/pkg/logger"

	gobreaker "github.com/sony/gobreaker/v2"
)

type BreakerConfig struct {
	Name string
	// consecutive failures that open the breaker
	Failures uint32
	// how long the breaker stays open before probing again
	Timeout time.Duration
}

// BreakerRepository guards a catalog lookup with a circuit breaker so a dead
// database fails requests fast instead of piling them up.
type BreakerRepository struct {
	next segment.CatalogRepository
	cb   *gobreaker.CircuitBreaker[[]domain.Product]
}

func NewBreakerRepository(next segment.CatalogRepository, cfg BreakerConfig) *BreakerRepository {
	if cfg.Name == "" {
		cfg.Name = "catalog"
	}
	if cfg.Failures == 0 {
		cfg.Failures = 5
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("catalog circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
		// a caller giving up says nothing about catalog health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &BreakerRepository{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[[]domain.Product](settings),
	}
}

func (r *BreakerRepository) FindByProductIDs(ctx context.Context, ids []uint64) ([]domain.Product, error) {
	return r.cb.Execute(func() ([]domain.Product, error) {
		return r.next.FindByProductIDs(ctx, ids)
	})
}

func (r *BreakerRepository) State() string {
	return r.cb.State().String()
}
