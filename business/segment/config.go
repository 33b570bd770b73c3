package segment

import (
	"errors"
	"fmt"
)

// Config holds the tunable constants of scoring, explanation and enrichment.
// Field tags are the keys of the optional scoring YAML file.
type Config struct {
	// |z| at or above which a feature is reported as a driver
	SignificanceThreshold float64 `koanf:"significance_threshold"`
	// |z| above which a single feature is flagged as an outlier
	OutlierThreshold float64 `koanf:"outlier_threshold"`

	// confidence = clamp(MinConfidence + margin*MarginScale, MinConfidence, MaxConfidence)
	MarginScale             float64 `koanf:"margin_scale"`
	MinConfidence           float64 `koanf:"min_confidence"`
	MaxConfidence           float64 `koanf:"max_confidence"`
	SingleClusterConfidence float64 `koanf:"single_cluster_confidence"`

	TopDrivers int `koanf:"top_drivers"`

	// price tier per cluster index, used when the model metadata carries none
	PricingEnabled bool      `koanf:"pricing_enabled"`
	PriceTiers     []float64 `koanf:"price_tiers"`
	PriceSpread    float64   `koanf:"price_spread"`
	RatingMin      float64   `koanf:"rating_min"`
	RatingMax      float64   `koanf:"rating_max"`

	Rules RuleConfig `koanf:"rules"`
}

// RuleConfig holds the thresholds of the composite anomaly and action rules.
type RuleConfig struct {
	ChurnRecencyDays          float64 `koanf:"churn_recency_days"`
	ImpulsiveMonetary         float64 `koanf:"impulsive_monetary"`
	ImpulsiveMaxPageViews     float64 `koanf:"impulsive_max_page_views"`
	CartAbandonAdds           float64 `koanf:"cart_abandon_adds"`
	CartAbandonMaxFrequency   float64 `koanf:"cart_abandon_max_frequency"`
	WindowShopperPageViews    float64 `koanf:"window_shopper_page_views"`
	WindowShopperMaxFrequency float64 `koanf:"window_shopper_max_frequency"`

	WinBackRecencyDays float64 `koanf:"win_back_recency_days"`
	WinBackMonetary    float64 `koanf:"win_back_monetary"`
	CouponPageViews    float64 `koanf:"coupon_page_views"`
	HotLeadCartAdds    float64 `koanf:"hot_lead_cart_adds"`
	HotLeadRecencyDays float64 `koanf:"hot_lead_recency_days"`
	VIPRecencyDays     float64 `koanf:"vip_recency_days"`
	WishlistNudgeCount float64 `koanf:"wishlist_nudge_count"`
}

const (
	defaultSignificanceThreshold   = 0.5
	defaultOutlierThreshold        = 2.0
	defaultMarginScale             = 40.0
	defaultMinConfidence           = ConfidenceFloor
	defaultMaxConfidence           = ConfidenceCeiling
	defaultSingleClusterConfidence = 50.0
	defaultTopDrivers              = 3
	defaultPriceSpread             = 0.25
	defaultRatingMin               = 3.5
	defaultRatingMax               = 5.0
)

// Newbie, Window Shopper, Loyalist, Sultan
var defaultPriceTiers = []float64{25, 60, 150, 400}

func DefaultConfig() Config {
	return Config{
		SignificanceThreshold: defaultSignificanceThreshold,
		OutlierThreshold:      defaultOutlierThreshold,

		MarginScale:             defaultMarginScale,
		MinConfidence:           defaultMinConfidence,
		MaxConfidence:           defaultMaxConfidence,
		SingleClusterConfidence: defaultSingleClusterConfidence,

		TopDrivers: defaultTopDrivers,

		PricingEnabled: true,
		PriceTiers:     append([]float64(nil), defaultPriceTiers...),
		PriceSpread:    defaultPriceSpread,
		RatingMin:      defaultRatingMin,
		RatingMax:      defaultRatingMax,

		Rules: RuleConfig{
			ChurnRecencyDays:          60,
			ImpulsiveMonetary:         2000,
			ImpulsiveMaxPageViews:     10,
			CartAbandonAdds:           10,
			CartAbandonMaxFrequency:   2,
			WindowShopperPageViews:    150,
			WindowShopperMaxFrequency: 1,

			WinBackRecencyDays: 90,
			WinBackMonetary:    1500,
			CouponPageViews:    60,
			HotLeadCartAdds:    10,
			HotLeadRecencyDays: 3,
			VIPRecencyDays:     14,
			WishlistNudgeCount: 5,
		},
	}
}

// Confidence is reported on this scale whatever the tunables say.
const (
	ConfidenceFloor   = 50.0
	ConfidenceCeiling = 100.0
)

// Validate rejects configurations that would break the confidence bounds or
// the driver contract.
func (c Config) Validate() error {
	if c.SignificanceThreshold < 0 {
		return errors.New("significance threshold must not be negative")
	}
	if c.OutlierThreshold <= 0 {
		return errors.New("outlier threshold must be positive")
	}
	if c.MarginScale < 0 {
		return errors.New("margin scale must not be negative")
	}
	if c.MinConfidence < ConfidenceFloor || c.MaxConfidence > ConfidenceCeiling {
		return fmt.Errorf("confidence bounds [%.2f, %.2f] must lie within [%.0f, %.0f]",
			c.MinConfidence, c.MaxConfidence, ConfidenceFloor, ConfidenceCeiling)
	}
	if c.MinConfidence > c.MaxConfidence {
		return fmt.Errorf("min confidence %.2f exceeds max confidence %.2f", c.MinConfidence, c.MaxConfidence)
	}
	if c.SingleClusterConfidence < c.MinConfidence || c.SingleClusterConfidence > c.MaxConfidence {
		return errors.New("single cluster confidence must lie within the confidence bounds")
	}
	if c.TopDrivers <= 0 {
		return errors.New("top drivers must be positive")
	}
	if c.PriceSpread < 0 || c.PriceSpread >= 1 {
		return errors.New("price spread must be within [0, 1)")
	}
	if c.RatingMin > c.RatingMax {
		return errors.New("rating min exceeds rating max")
	}
	for i, tier := range c.PriceTiers {
		if tier < 0 {
			return fmt.Errorf("price tier %d is negative", i)
		}
	}
	return nil
}
