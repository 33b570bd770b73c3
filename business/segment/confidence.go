package segment

import "math"

// Confidence maps the margin of a report onto [MinConfidence, MaxConfidence].
// It is non-decreasing in the margin and rounded to two decimals.
func Confidence(report []Distance, cfg Config) float64 {
	if len(report) < 2 {
		return cfg.SingleClusterConfidence
	}

	margin := report[1].Value - report[0].Value
	score := cfg.MinConfidence + margin*cfg.MarginScale
	score = math.Max(cfg.MinConfidence, math.Min(cfg.MaxConfidence, score))

	return math.Round(score*100) / 100
}
