package segment

import (
	"errors"
	"fmt"
	"time"
)

// Candidate is the normalized form of one offline recommendation entry.
type Candidate struct {
	ProductID uint64
	Name      string
	Category  string
	Reason    string
}

// Metadata is the human-readable side of the model: labels, cluster names and
// the per-cluster candidate sets.
type Metadata struct {
	FeatureReadable []string
	ClusterNames    []string
	Candidates      map[int][]Candidate
	// optional base price per cluster, overrides Config.PriceTiers
	PriceTiers []float64

	ClusterCounts map[string]int
	CentroidsReal []map[string]float64
	Silhouette    float64
	Inertia       float64
	PCAVariance   []float64
}

// ClusterName returns the display name of cluster i.
func (m *Metadata) ClusterName(i int) string {
	if m != nil && i >= 0 && i < len(m.ClusterNames) && m.ClusterNames[i] != "" {
		return m.ClusterNames[i]
	}
	return fmt.Sprintf("Cluster %d", i)
}

// FeatureName returns the readable label of schema feature i.
func (m *Metadata) FeatureName(i int) string {
	if m != nil && i >= 0 && i < len(m.FeatureReadable) && m.FeatureReadable[i] != "" {
		return m.FeatureReadable[i]
	}
	if i >= 0 && i < featureDim {
		return defaultFeatureReadable[i]
	}
	return fmt.Sprintf("Feature %d", i)
}

func (m *Metadata) CandidatesFor(cluster int) []Candidate {
	if m == nil {
		return nil
	}
	return m.Candidates[cluster]
}

// Artifacts is one immutable snapshot of everything inference needs.
type Artifacts struct {
	Scaler   *ScalingModel
	Clusters *ClusterModel
	Metadata *Metadata
	LoadedAt time.Time
}

// NewArtifacts checks that the three artifacts agree with each other and with
// the feature schema.
func NewArtifacts(scaler *ScalingModel, clusters *ClusterModel, meta *Metadata) (*Artifacts, error) {
	a := &Artifacts{
		Scaler:   scaler,
		Clusters: clusters,
		Metadata: meta,
		LoadedAt: time.Now().UTC(),
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Artifacts) complete() bool {
	return a != nil && a.Scaler != nil && a.Clusters != nil && a.Metadata != nil
}

func (a *Artifacts) validate() error {
	if a == nil {
		return errors.New("loader returned no artifacts")
	}
	if !a.complete() {
		return fmt.Errorf("incomplete artifacts: scaler=%t clusters=%t metadata=%t",
			a.Scaler != nil, a.Clusters != nil, a.Metadata != nil)
	}
	if a.Scaler.Dim() != featureDim {
		return fmt.Errorf("scaler has %d features, schema has %d", a.Scaler.Dim(), featureDim)
	}
	if a.Clusters.Dim() != a.Scaler.Dim() {
		return fmt.Errorf("centroids have %d features, scaler has %d", a.Clusters.Dim(), a.Scaler.Dim())
	}

	k := a.Clusters.K()
	if n := len(a.Metadata.ClusterNames); n != 0 && n != k {
		return fmt.Errorf("metadata names %d clusters, model has %d", n, k)
	}
	if n := len(a.Metadata.FeatureReadable); n != 0 && n != featureDim {
		return fmt.Errorf("metadata labels %d features, schema has %d", n, featureDim)
	}
	for cluster := range a.Metadata.Candidates {
		if cluster < 0 || cluster >= k {
			return fmt.Errorf("candidates listed for unknown cluster %d", cluster)
		}
	}
	return nil
}
