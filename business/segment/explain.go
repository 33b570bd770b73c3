package segment

import (
	"fmt"
	"math"
	"sort"

	"segmentReco/domain"
)

const (
	labelHigh = "High"
	labelLow  = "Low"

	neutralWhy     = "no single behavior stands out from the average customer"
	neutralCompare = "No close alternative segment."
	neutralAnomaly = "Behavior is within normal range."
	defaultAction  = "Maintain standard communication."
)

// ExtractDrivers returns the features whose |z| reaches the significance
// threshold, strongest first, at most cfg.TopDrivers of them.
func ExtractDrivers(z StandardizedVector, meta *Metadata, cfg Config) []domain.FeatureDriver {
	drivers := make([]domain.FeatureDriver, 0, len(z))
	for i, score := range z {
		magnitude := math.Abs(score)
		if magnitude < cfg.SignificanceThreshold {
			continue
		}

		label := labelLow
		if score > 0 {
			label = labelHigh
		}
		drivers = append(drivers, domain.FeatureDriver{
			Feature:   meta.FeatureName(i),
			Score:     score,
			Label:     label,
			Magnitude: magnitude,
		})
	}

	sort.SliceStable(drivers, func(i, j int) bool {
		return drivers[i].Magnitude > drivers[j].Magnitude
	})
	if len(drivers) > cfg.TopDrivers {
		drivers = drivers[:cfg.TopDrivers]
	}

	return drivers
}

// RuleInput is what composite rules are evaluated over.
type RuleInput struct {
	Profile  domain.RawProfile
	Cluster  int
	Clusters int
}

// top value cluster, clusters are ordered by average spend
func (in RuleInput) isTopCluster() bool {
	return in.Clusters > 0 && in.Cluster == in.Clusters-1
}

// Rule is a named condition with the text it produces when it matches.
type Rule struct {
	Name  string
	Match func(RuleInput) bool
	Text  func(RuleInput) string
}

func firstMatch(rules []Rule, in RuleInput) (Rule, bool) {
	for _, r := range rules {
		if r.Match(in) {
			return r, true
		}
	}
	return Rule{}, false
}

func fixedText(s string) func(RuleInput) string {
	return func(RuleInput) string { return s }
}

// AnomalyRules are checked in order before the z-score outlier test.
func AnomalyRules(rc RuleConfig) []Rule {
	return []Rule{
		{
			Name: "churn_risk",
			Match: func(in RuleInput) bool {
				return in.isTopCluster() && in.Profile.Recency > rc.ChurnRecencyDays
			},
			Text: func(in RuleInput) string {
				return fmt.Sprintf("Churn risk: a top-value customer with no purchase in %.0f days.", in.Profile.Recency)
			},
		},
		{
			Name: "impulsive_buyer",
			Match: func(in RuleInput) bool {
				return in.Profile.Monetary > rc.ImpulsiveMonetary && in.Profile.PageViews < rc.ImpulsiveMaxPageViews
			},
			Text: fixedText("Impulsive buyer: high spend after very few page views."),
		},
		{
			Name: "cart_abandonment",
			Match: func(in RuleInput) bool {
				return in.Profile.AddToCartCount > rc.CartAbandonAdds && in.Profile.Frequency <= rc.CartAbandonMaxFrequency
			},
			Text: fixedText("Cart abandonment: many items added to cart but few completed orders."),
		},
		{
			Name: "window_shopper",
			Match: func(in RuleInput) bool {
				return in.Profile.PageViews > rc.WindowShopperPageViews && in.Profile.Frequency <= rc.WindowShopperMaxFrequency
			},
			Text: fixedText("Window shopper: heavy browsing with almost no purchases."),
		},
	}
}

// ActionRules pick the next best action, first match wins.
func ActionRules(rc RuleConfig) []Rule {
	return []Rule{
		{
			Name: "win_back",
			Match: func(in RuleInput) bool {
				return in.Profile.Recency > rc.WinBackRecencyDays && in.Profile.Monetary > rc.WinBackMonetary
			},
			Text: fixedText("Send a win-back offer with a personal discount."),
		},
		{
			Name: "first_purchase_coupon",
			Match: func(in RuleInput) bool {
				return in.Profile.Frequency == 0 && in.Profile.PageViews > rc.CouponPageViews
			},
			Text: fixedText("Offer a first-purchase coupon."),
		},
		{
			Name: "cart_reminder",
			Match: func(in RuleInput) bool {
				return in.Profile.AddToCartCount >= rc.HotLeadCartAdds && in.Profile.Recency <= rc.HotLeadRecencyDays
			},
			Text: fixedText("Send a cart reminder while purchase intent is fresh."),
		},
		{
			Name: "early_access",
			Match: func(in RuleInput) bool {
				return in.isTopCluster() && in.Profile.Recency <= rc.VIPRecencyDays
			},
			Text: fixedText("Invite to early access on new arrivals."),
		},
		{
			Name: "wishlist_nudge",
			Match: func(in RuleInput) bool {
				return in.Profile.WishlistCount >= rc.WishlistNudgeCount
			},
			Text: fixedText("Notify about price drops on wishlisted items."),
		},
	}
}

// Explain builds the narrative for an assignment. It never fails; missing
// drivers or a single cluster degrade to neutral text.
func Explain(profile domain.RawProfile, a Assignment, drivers []domain.FeatureDriver, meta *Metadata, cfg Config) domain.Explanation {
	name := meta.ClusterName(a.Cluster)
	in := RuleInput{Profile: profile, Cluster: a.Cluster, Clusters: len(a.Report)}

	exp := domain.Explanation{
		Why:     fmt.Sprintf("Assigned to %s: %s.", name, neutralWhy),
		Compare: neutralCompare,
		Anomaly: neutralAnomaly,
		Action:  defaultAction,
	}

	if len(drivers) > 0 {
		top := drivers[0]
		exp.Why = fmt.Sprintf("Assigned to %s mainly because of %s %s (z=%.2f).", name, top.Label, top.Feature, top.Score)
	}

	if next, ok := a.RunnerUp(); ok {
		exp.Compare = fmt.Sprintf("Next closest segment is %s, %.2f units further away.",
			meta.ClusterName(next.Cluster), a.Margin())
	}

	if r, ok := firstMatch(AnomalyRules(cfg.Rules), in); ok {
		exp.Anomaly = r.Text(in)
	} else if i, z, ok := strongestOutlier(a.Standardized, cfg.OutlierThreshold); ok {
		dir := "above"
		if z < 0 {
			dir = "below"
		}
		exp.Anomaly = fmt.Sprintf("Unusual %s: %.1f standard deviations %s the average customer.",
			meta.FeatureName(i), math.Abs(z), dir)
	}

	if r, ok := firstMatch(ActionRules(cfg.Rules), in); ok {
		exp.Action = r.Text(in)
	}

	return exp
}

// strongestOutlier returns the feature with the largest |z| strictly above threshold.
func strongestOutlier(z StandardizedVector, threshold float64) (int, float64, bool) {
	best, found := -1, false
	for i, v := range z {
		if math.Abs(v) <= threshold {
			continue
		}
		if !found || math.Abs(v) > math.Abs(z[best]) {
			best, found = i, true
		}
	}
	if !found {
		return 0, 0, false
	}
	return best, z[best], true
}
