package segment

import (
	"errors"
	"fmt"
	"math"

	"segmentReco/domain"

	"gonum.org/v1/gonum/floats"
)

// ScalingModel holds the per-feature mean and standard deviation fitted offline.
type ScalingModel struct {
	mean []float64
	std  []float64
}

// NewScalingModel copies mean/std and validates them. A zero std is replaced by 1,
// matching how the fitted scaler treats constant features.
func NewScalingModel(mean, std []float64) (*ScalingModel, error) {
	if len(mean) == 0 {
		return nil, errors.New("scaler mean is empty")
	}
	if len(mean) != len(std) {
		return nil, fmt.Errorf("scaler mean has %d entries but std has %d", len(mean), len(std))
	}

	m := &ScalingModel{
		mean: make([]float64, len(mean)),
		std:  make([]float64, len(std)),
	}
	copy(m.mean, mean)
	copy(m.std, std)

	for i := range m.std {
		if math.IsNaN(m.mean[i]) || math.IsInf(m.mean[i], 0) {
			return nil, fmt.Errorf("scaler mean[%d] is not finite", i)
		}
		if math.IsNaN(m.std[i]) || math.IsInf(m.std[i], 0) || m.std[i] < 0 {
			return nil, fmt.Errorf("scaler std[%d] must be a finite non-negative number", i)
		}
		if m.std[i] == 0 {
			m.std[i] = 1
		}
	}

	return m, nil
}

func (m *ScalingModel) Dim() int {
	return len(m.mean)
}

func (m *ScalingModel) Std() []float64 {
	return append([]float64(nil), m.std...)
}

// Standardize computes (x - mean) / std component-wise.
func (m *ScalingModel) Standardize(fv FeatureVector) (StandardizedVector, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: scaling model is not loaded", domain.ErrModelNotReady)
	}
	if len(fv) != len(m.mean) {
		return nil, fmt.Errorf("%w: feature vector has %d entries, scaler expects %d",
			domain.ErrInternalCompute, len(fv), len(m.mean))
	}

	z := make([]float64, len(fv))
	floats.SubTo(z, fv, m.mean)
	floats.Div(z, m.std)

	return z, nil
}

// Inverse maps a standardized vector back into feature units.
func (m *ScalingModel) Inverse(z StandardizedVector) (FeatureVector, error) {
	if len(z) != len(m.mean) {
		return nil, fmt.Errorf("%w: standardized vector has %d entries, scaler expects %d",
			domain.ErrInternalCompute, len(z), len(m.mean))
	}

	x := make([]float64, len(z))
	floats.MulTo(x, z, m.std)
	floats.Add(x, m.mean)

	return x, nil
}
