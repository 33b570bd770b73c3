//go:build !integration

package segment

import (
	"context"
	"errors"
	"testing"

	"segmentReco/domain"
)

func TestEnrich_CatalogOrderThenNamedCandidates(t *testing.T) {
	catalog := &fakeCatalog{products: []domain.Product{
		{ProductID: 43, Name: "Cashmere Coat", Category: "Outerwear"},
		{ProductID: 40, Name: "Leather Boots", Category: "Shoes"},
	}}
	e := NewEnricher(catalog, DefaultConfig())

	items, err := e.Enrich(context.Background(), 3, fixtureMetadata())
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}

	// 41 is unknown to the catalog and has no name of its own
	want := []uint64{43, 40, 42}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %+v", len(want), items)
	}
	for i, it := range items {
		if it.ProductID != want[i] {
			t.Fatalf("item %d: expected product %d, got %d", i, want[i], it.ProductID)
		}
		if it.Price == nil || it.Rating == nil {
			t.Fatalf("item %d: expected synthesized price and rating", i)
		}
	}
	if items[1].Reason != "bought by similar customers" {
		t.Fatalf("candidate reason lost: %+v", items[1])
	}
	if items[2].Name != "Silk Scarf" {
		t.Fatalf("expected candidate name fallback, got %+v", items[2])
	}
}

func TestEnrich_Deterministic(t *testing.T) {
	catalog := &fakeCatalog{products: []domain.Product{{ProductID: 40, Name: "Leather Boots"}}}
	e := NewEnricher(catalog, DefaultConfig())

	first, _ := e.Enrich(context.Background(), 3, fixtureMetadata())
	for i := 0; i < 20; i++ {
		again, _ := e.Enrich(context.Background(), 3, fixtureMetadata())
		if *again[0].Price != *first[0].Price || *again[0].Rating != *first[0].Rating {
			t.Fatalf("run %d: price/rating changed", i)
		}
	}
}

func TestEnrich_PlaceholderWhenNothingToRecommend(t *testing.T) {
	meta := fixtureMetadata()
	meta.Candidates[2] = nil

	e := NewEnricher(&fakeCatalog{}, DefaultConfig())

	for _, cluster := range []int{0, 2} {
		items, err := e.Enrich(context.Background(), cluster, meta)
		if err != nil {
			t.Fatalf("cluster %d: %v", cluster, err)
		}
		if len(items) != 1 || items[0].ProductID != 0 {
			t.Fatalf("cluster %d: expected single placeholder, got %+v", cluster, items)
		}
	}
}

func TestEnrich_CatalogFailure(t *testing.T) {
	e := NewEnricher(&fakeCatalog{err: errors.New("connection refused")}, DefaultConfig())

	_, err := e.Enrich(context.Background(), 3, fixtureMetadata())
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestEnrich_DeduplicatesCandidates(t *testing.T) {
	catalog := &fakeCatalog{products: []domain.Product{{ProductID: 10, Name: "Canvas Cap"}}}
	meta := fixtureMetadata()
	meta.Candidates[0] = []Candidate{{ProductID: 10}, {ProductID: 10}}

	items, err := NewEnricher(catalog, DefaultConfig()).Enrich(context.Background(), 0, meta)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one item, got %+v", items)
	}
	if len(catalog.asked) != 1 || len(catalog.asked[0]) != 1 {
		t.Fatalf("expected a single deduplicated lookup, got %v", catalog.asked)
	}
}

func TestEnrich_PricingOptional(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PricingEnabled = false
	catalog := &fakeCatalog{products: []domain.Product{{ProductID: 40, Name: "Leather Boots"}}}

	items, _ := NewEnricher(catalog, cfg).Enrich(context.Background(), 3, fixtureMetadata())
	if items[0].Price != nil || items[0].Rating != nil {
		t.Fatalf("expected no price or rating, got %+v", items[0])
	}

	cfg = DefaultConfig()
	cfg.PriceTiers = []float64{25}
	items, _ = NewEnricher(catalog, cfg).Enrich(context.Background(), 3, fixtureMetadata())
	if items[0].Price != nil {
		t.Fatalf("expected no price without a tier for cluster 3, got %v", *items[0].Price)
	}
}

func TestPriceAndRatingRanges(t *testing.T) {
	cfg := DefaultConfig()
	for id := uint64(1); id <= 500; id++ {
		for cluster, tier := range cfg.PriceTiers {
			p := PriceFor(id, cluster, tier, cfg.PriceSpread)
			if p < tier*(1-cfg.PriceSpread)-0.01 || p > tier*(1+cfg.PriceSpread)+0.01 {
				t.Fatalf("price %v for tier %v out of range", p, tier)
			}
			r := RatingFor(id, cluster, cfg.RatingMin, cfg.RatingMax)
			if r < cfg.RatingMin || r > cfg.RatingMax {
				t.Fatalf("rating %v out of range", r)
			}
		}
	}

	if hashToRange("price:1:0", 0, 1) != hashToRange("price:1:0", 0, 1) {
		t.Fatal("hashToRange is not deterministic")
	}
	if hashToRange("price:1:0", 0, 1) == hashToRange("price:1:1", 0, 1) {
		t.Fatal("expected cluster to change the hash")
	}
}
