package domain

// ClusterDistance is one entry of the distance report.
type ClusterDistance struct {
	Cluster  int     `json:"cluster"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

// FeatureDriver is a feature whose standardized deviation explains the assignment.
type FeatureDriver struct {
	Feature   string  `json:"feature"`
	Score     float64 `json:"score"`
	Label     string  `json:"label"`
	Magnitude float64 `json:"magnitude"`
}

type Explanation struct {
	Why     string `json:"why"`
	Compare string `json:"compare"`
	Anomaly string `json:"anomaly"`
	Action  string `json:"action"`
}

type RecommendationItem struct {
	ProductID uint64   `json:"product_id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Reason    string   `json:"reason,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	Rating    *float64 `json:"rating,omitempty"`
}

// ClusterAssignment is the assignment-only result.
type ClusterAssignment struct {
	Cluster     int               `json:"cluster"`
	ClusterName string            `json:"cluster_name"`
	Confidence  float64           `json:"confidence"`
	Distances   []ClusterDistance `json:"distances"`
}

// SegmentRecommendation is the full score-and-recommend response.
type SegmentRecommendation struct {
	ClusterAssignment
	Drivers         []FeatureDriver      `json:"drivers"`
	Explanation     Explanation          `json:"explanation"`
	Recommendations []RecommendationItem `json:"recommendations"`
}

// ClusterCandidates echoes the stored candidate list of one cluster.
type ClusterCandidates struct {
	Cluster         int                  `json:"cluster"`
	ClusterName     string               `json:"cluster_name"`
	Recommendations []RecommendationItem `json:"recommendations"`
}

// ModelSummary is the dashboard view of the loaded model artifacts.
type ModelSummary struct {
	Features        []string             `json:"features"`
	FeatureReadable []string             `json:"feature_readable"`
	ClusterNames    []string             `json:"cluster_names"`
	ClusterCounts   map[string]int       `json:"cluster_counts"`
	CentroidsReal   []map[string]float64 `json:"centroids_real"`
	Silhouette      float64              `json:"silhouette_score"`
	Inertia         float64              `json:"inertia"`
	PCAVariance     []float64            `json:"pca_variance"`
	LoadedAt        string               `json:"loaded_at"`
}
