package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"segmentReco/business/segment"

	"github.com/goccy/go-json"
)

const (
	MetricsFile    = "model_metrics.json"
	CandidatesFile = "top_n_by_cluster.json"
)

type globalStats struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// modelMetrics mirrors model_metrics.json as written by the training job.
type modelMetrics struct {
	Features        []string             `json:"features"`
	FeatureReadable []string             `json:"feature_readable"`
	ClusterNames    []string             `json:"cluster_names"`
	CentroidsScaled [][]float64          `json:"centroids_scaled"`
	CentroidsReal   []map[string]float64 `json:"centroids_real"`
	GlobalStats     globalStats          `json:"global_stats"`
	ClusterCounts   map[string]int       `json:"cluster_counts"`
	Silhouette      float64              `json:"silhouette_score"`
	Inertia         float64              `json:"inertia"`
	PCAVariance     []float64            `json:"pca_variance"`
	PriceTiers      []float64            `json:"price_tiers"`
}

// candidateRecord is the structured form of a candidate entry.
type candidateRecord struct {
	ProductID *uint64 `json:"product_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Reason    string  `json:"reason"`
}

// FileLoader reads model artifacts from a directory.
type FileLoader struct {
	Dir string
}

func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{Dir: dir}
}

func (l *FileLoader) Load(ctx context.Context) (*segment.Artifacts, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var metrics modelMetrics
	if err := readJSON(filepath.Join(l.Dir, MetricsFile), &metrics); err != nil {
		return nil, err
	}

	var rawCandidates map[string][]json.RawMessage
	if err := readJSON(filepath.Join(l.Dir, CandidatesFile), &rawCandidates); err != nil {
		return nil, err
	}

	if err := checkSchema(metrics.Features); err != nil {
		return nil, err
	}

	scaler, err := segment.NewScalingModel(metrics.GlobalStats.Mean, metrics.GlobalStats.Std)
	if err != nil {
		return nil, fmt.Errorf("invalid scaler in %s: %w", MetricsFile, err)
	}

	clusters, err := segment.NewClusterModel(metrics.CentroidsScaled)
	if err != nil {
		return nil, fmt.Errorf("invalid centroids in %s: %w", MetricsFile, err)
	}

	candidates, err := normalizeCandidates(rawCandidates)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", CandidatesFile, err)
	}

	meta := &segment.Metadata{
		FeatureReadable: metrics.FeatureReadable,
		ClusterNames:    metrics.ClusterNames,
		Candidates:      candidates,
		PriceTiers:      metrics.PriceTiers,
		ClusterCounts:   metrics.ClusterCounts,
		CentroidsReal:   metrics.CentroidsReal,
		Silhouette:      metrics.Silhouette,
		Inertia:         metrics.Inertia,
		PCAVariance:     metrics.PCAVariance,
	}

	return segment.NewArtifacts(scaler, clusters, meta)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// checkSchema accepts an absent feature list; a present one must match the
// serving schema exactly.
func checkSchema(features []string) error {
	if len(features) == 0 {
		return nil
	}
	if len(features) != len(segment.FeatureSchema) {
		return fmt.Errorf("model has %d features, expected %d", len(features), len(segment.FeatureSchema))
	}
	for i, f := range features {
		if f != segment.FeatureSchema[i] {
			return fmt.Errorf("feature %d is %q, expected %q", i, f, segment.FeatureSchema[i])
		}
	}
	return nil
}

// normalizeCandidates turns bare ids and records alike into segment.Candidate.
func normalizeCandidates(raw map[string][]json.RawMessage) (map[int][]segment.Candidate, error) {
	out := make(map[int][]segment.Candidate, len(raw))

	for key, entries := range raw {
		cluster, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("cluster key %q is not an integer", key)
		}

		list := make([]segment.Candidate, 0, len(entries))
		for i, entry := range entries {
			c, err := parseCandidate(entry)
			if err != nil {
				return nil, fmt.Errorf("cluster %d entry %d: %w", cluster, i, err)
			}
			list = append(list, c)
		}
		out[cluster] = list
	}

	return out, nil
}

func parseCandidate(entry json.RawMessage) (segment.Candidate, error) {
	trimmed := bytes.TrimSpace(entry)
	if len(trimmed) == 0 {
		return segment.Candidate{}, errors.New("empty entry")
	}

	if trimmed[0] == '{' {
		var rec candidateRecord
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return segment.Candidate{}, err
		}
		if rec.ProductID == nil {
			return segment.Candidate{}, errors.New("record has no product_id")
		}
		return segment.Candidate{
			ProductID: *rec.ProductID,
			Name:      rec.Name,
			Category:  rec.Category,
			Reason:    rec.Reason,
		}, nil
	}

	// bare ids may be written as floats by the training job
	var id float64
	if err := json.Unmarshal(trimmed, &id); err != nil {
		return segment.Candidate{}, fmt.Errorf("entry is neither an id nor a record: %s", trimmed)
	}
	if id < 0 || id != float64(uint64(id)) {
		return segment.Candidate{}, fmt.Errorf("invalid product id %v", id)
	}
	return segment.Candidate{ProductID: uint64(id)}, nil
}
