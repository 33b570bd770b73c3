package segment

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"

	"segmentReco/domain"
	"segmentReco/pkg/logger"
)

// CatalogRepository resolves product identifiers. Results may come back in any
// order and may omit unknown identifiers.
type CatalogRepository interface {
	FindByProductIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)
}

// Enricher turns a cluster's candidate set into display-ready items.
type Enricher struct {
	catalog CatalogRepository
	cfg     Config
}

func NewEnricher(catalog CatalogRepository, cfg Config) *Enricher {
	return &Enricher{catalog: catalog, cfg: cfg}
}

func placeholderItem() domain.RecommendationItem {
	return domain.RecommendationItem{
		ProductID: 0,
		Name:      "Trending picks",
		Category:  "General",
		Reason:    "No tailored candidates for this segment yet",
	}
}

// Enrich resolves the candidates of cluster through the catalog. Items follow
// catalog order, then any unresolved candidate that carries its own name. The
// result is never empty.
func (e *Enricher) Enrich(ctx context.Context, cluster int, meta *Metadata) ([]domain.RecommendationItem, error) {
	candidates := meta.CandidatesFor(cluster)
	if len(candidates) == 0 {
		return []domain.RecommendationItem{placeholderItem()}, nil
	}

	byID := make(map[uint64]Candidate, len(candidates))
	ids := make([]uint64, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := byID[c.ProductID]; dup {
			continue
		}
		byID[c.ProductID] = c
		ids = append(ids, c.ProductID)
	}

	var products []domain.Product
	if e.catalog != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		products, err = e.catalog.FindByProductIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
		}
	}

	tier, priced := e.tierFor(cluster, meta)
	items := make([]domain.RecommendationItem, 0, len(ids))
	resolved := make(map[uint64]bool, len(products))

	for _, p := range products {
		c, ok := byID[p.ProductID]
		if !ok || resolved[p.ProductID] {
			continue
		}
		resolved[p.ProductID] = true
		items = append(items, e.item(p.ProductID, p.Name, p.Category, c.Reason, cluster, tier, priced))
	}

	for _, id := range ids {
		if resolved[id] {
			continue
		}
		c := byID[id]
		if c.Name == "" {
			logger.Debug("candidate not in catalog, skipped", "cluster", cluster, "product_id", id)
			continue
		}
		items = append(items, e.item(id, c.Name, c.Category, c.Reason, cluster, tier, priced))
	}

	if len(items) == 0 {
		return []domain.RecommendationItem{placeholderItem()}, nil
	}
	return items, nil
}

func (e *Enricher) item(id uint64, name, category, reason string, cluster int, tier float64, priced bool) domain.RecommendationItem {
	it := domain.RecommendationItem{
		ProductID: id,
		Name:      name,
		Category:  category,
		Reason:    reason,
	}
	if priced {
		price := PriceFor(id, cluster, tier, e.cfg.PriceSpread)
		rating := RatingFor(id, cluster, e.cfg.RatingMin, e.cfg.RatingMax)
		it.Price = &price
		it.Rating = &rating
	}
	return it
}

// tierFor prefers the tiers shipped with the model over configured ones.
func (e *Enricher) tierFor(cluster int, meta *Metadata) (float64, bool) {
	if !e.cfg.PricingEnabled {
		return 0, false
	}
	tiers := e.cfg.PriceTiers
	if meta != nil && len(meta.PriceTiers) > 0 {
		tiers = meta.PriceTiers
	}
	if cluster < 0 || cluster >= len(tiers) {
		return 0, false
	}
	return tiers[cluster], true
}

// hashToRange maps key onto [lo, hi] with FNV-1a. Same key, same value, on
// every platform and every run.
func hashToRange(key string, lo, hi float64) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	unit := float64(h.Sum32()) / float64(^uint32(0))
	return lo + unit*(hi-lo)
}

// PriceFor spreads a product around its cluster's base tier by at most ±spread.
func PriceFor(productID uint64, cluster int, tier, spread float64) float64 {
	factor := hashToRange(fmt.Sprintf("price:%d:%d", productID, cluster), 1-spread, 1+spread)
	return math.Round(tier*factor*100) / 100
}

func RatingFor(productID uint64, cluster int, lo, hi float64) float64 {
	r := hashToRange(fmt.Sprintf("rating:%d:%d", productID, cluster), lo, hi)
	return math.Round(r*10) / 10
}
