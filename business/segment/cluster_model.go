package segment

import (
	"errors"
	"fmt"
	"math"

	"segmentReco/domain"

	"gonum.org/v1/gonum/floats"
)

// ClusterModel holds K centroids in standardized feature space.
type ClusterModel struct {
	centroids [][]float64
}

func NewClusterModel(centroids [][]float64) (*ClusterModel, error) {
	if len(centroids) == 0 {
		return nil, errors.New("cluster model has no centroids")
	}

	dim := len(centroids[0])
	if dim == 0 {
		return nil, errors.New("centroid 0 is empty")
	}

	m := &ClusterModel{centroids: make([][]float64, len(centroids))}
	for i, c := range centroids {
		if len(c) != dim {
			return nil, fmt.Errorf("centroid %d has %d entries, expected %d", i, len(c), dim)
		}
		for j, v := range c {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("centroid %d entry %d is not finite", i, j)
			}
		}
		m.centroids[i] = append([]float64(nil), c...)
	}

	return m, nil
}

// K is the number of clusters.
func (m *ClusterModel) K() int {
	return len(m.centroids)
}

func (m *ClusterModel) Dim() int {
	return len(m.centroids[0])
}

func (m *ClusterModel) Centroid(i int) ([]float64, bool) {
	if i < 0 || i >= len(m.centroids) {
		return nil, false
	}
	return append([]float64(nil), m.centroids[i]...), true
}

// Distances returns the Euclidean distance from z to every centroid, by cluster index.
func (m *ClusterModel) Distances(z StandardizedVector) ([]float64, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: cluster model is not loaded", domain.ErrModelNotReady)
	}
	if len(z) != m.Dim() {
		return nil, fmt.Errorf("%w: standardized vector has %d entries, centroids have %d",
			domain.ErrInternalCompute, len(z), m.Dim())
	}

	out := make([]float64, len(m.centroids))
	for i, c := range m.centroids {
		out[i] = floats.Distance(z, c, 2)
	}

	return out, nil
}
