package segment

import (
	"fmt"
	"sort"

	"segmentReco/domain"
)

// Distance is one entry of a distance report.
type Distance struct {
	Cluster int
	Value   float64
}

// Assignment is the outcome of nearest-centroid assignment.
type Assignment struct {
	Cluster      int
	Standardized StandardizedVector
	// ascending by Value, ties by cluster index
	Report []Distance
}

// Assign standardizes fv and picks the nearest centroid. The lowest index wins
// a tie. It has no side effects.
func Assign(fv FeatureVector, scaler *ScalingModel, clusters *ClusterModel) (Assignment, error) {
	if scaler == nil {
		return Assignment{}, fmt.Errorf("%w: scaling model is not loaded", domain.ErrModelNotReady)
	}
	if clusters == nil {
		return Assignment{}, fmt.Errorf("%w: cluster model is not loaded", domain.ErrModelNotReady)
	}

	z, err := scaler.Standardize(fv)
	if err != nil {
		return Assignment{}, err
	}

	dists, err := clusters.Distances(z)
	if err != nil {
		return Assignment{}, err
	}

	report := make([]Distance, len(dists))
	for i, d := range dists {
		report[i] = Distance{Cluster: i, Value: d}
	}
	// stable keeps index order among equal distances
	sort.SliceStable(report, func(i, j int) bool {
		return report[i].Value < report[j].Value
	})

	return Assignment{
		Cluster:      report[0].Cluster,
		Standardized: z,
		Report:       report,
	}, nil
}

// Margin is the gap between the nearest and second-nearest centroid, or 0 for a
// single cluster.
func (a Assignment) Margin() float64 {
	if len(a.Report) < 2 {
		return 0
	}
	return a.Report[1].Value - a.Report[0].Value
}

// RunnerUp returns the second-nearest cluster.
func (a Assignment) RunnerUp() (Distance, bool) {
	if len(a.Report) < 2 {
		return Distance{}, false
	}
	return a.Report[1], true
}
