package segment

import (
	"fmt"
	"math"

	"segmentReco/domain"
)

// Feature schema order shared with the training pipeline.
const (
	featRecency = iota
	featFrequency
	featMonetaryLog
	featAvgItems
	featUniqueProducts
	featWishlist
	featAddToCart
	featPageViews

	featureDim
)

// FeatureSchema is the column order of scaler statistics and centroids.
var FeatureSchema = [featureDim]string{
	"Recency",
	"Frequency",
	"Monetary_Log",
	"Avg_Items",
	"Unique_Products",
	"Wishlist_Count",
	"Add_to_Cart_Count",
	"Page_Views",
}

// default readable labels when the model metadata carries none
var defaultFeatureReadable = [featureDim]string{
	"Recency",
	"Frequency",
	"Monetary",
	"Avg Items",
	"Unique Prod",
	"Wishlist",
	"Add Cart",
	"Views",
}

// FeatureVector is a raw profile in schema order with Monetary replaced by ln(1+Monetary).
type FeatureVector []float64

// StandardizedVector holds per-feature z-scores in schema order.
type StandardizedVector []float64

// BuildFeatureVector derives the engineered feature vector. Every raw feature must be
// a finite non-negative number; log1p on Monetary is undefined below zero.
func BuildFeatureVector(p domain.RawProfile) (FeatureVector, error) {
	raw := [featureDim]float64{
		featRecency:        p.Recency,
		featFrequency:      p.Frequency,
		featMonetaryLog:    p.Monetary,
		featAvgItems:       p.AvgItems,
		featUniqueProducts: p.UniqueProducts,
		featWishlist:       p.WishlistCount,
		featAddToCart:      p.AddToCartCount,
		featPageViews:      p.PageViews,
	}

	for i, v := range raw {
		name := FeatureSchema[i]
		if i == featMonetaryLog {
			name = "Monetary"
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s must be a finite number", domain.ErrInvalidInput, name)
		}
		if v < 0 {
			return nil, fmt.Errorf("%w: %s must be non-negative, got %v", domain.ErrInvalidInput, name, v)
		}
	}

	fv := make(FeatureVector, featureDim)
	copy(fv, raw[:])
	fv[featMonetaryLog] = math.Log1p(p.Monetary)

	return fv, nil
}
