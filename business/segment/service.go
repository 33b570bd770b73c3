package segment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"segmentReco/domain"
	"segmentReco/pkg/logger"

	"gorm.io/datatypes"
)

// ---- collaborators ----

// ModelProvider hands out the current artifact snapshot.
type ModelProvider interface {
	Get(ctx context.Context) (*Artifacts, error)
	Reload(ctx context.Context) (*Artifacts, error)
}

type Auditor interface {
	Emit(rec *domain.PredictionLog)
}

// ---- service ----

type SegmentService struct {
	models   ModelProvider
	enricher *Enricher
	auditor  Auditor
	cfg      Config
}

func NewSegmentService(models ModelProvider, catalog CatalogRepository, auditor Auditor, cfg Config) *SegmentService {
	return &SegmentService{
		models:   models,
		enricher: NewEnricher(catalog, cfg),
		auditor:  auditor,
		cfg:      cfg,
	}
}

// scored is everything derived from the model before enrichment.
type scored struct {
	assignment  Assignment
	confidence  float64
	drivers     []domain.FeatureDriver
	explanation domain.Explanation
}

// Recommend assigns the profile to a cluster, explains the assignment and
// returns enriched recommendations. The audit record is best effort.
func (s *SegmentService) Recommend(ctx context.Context, userID uint, profile domain.RawProfile) (*domain.SegmentRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	traceID := TraceIDFromContext(ctx)

	arts, sc, err := s.score(ctx, profile, true)
	if err != nil {
		return nil, s.fail(traceID, userID, err)
	}

	cluster := sc.assignment.Cluster
	items, err := s.enricher.Enrich(ctx, cluster, arts.Metadata)
	if err != nil {
		return nil, s.fail(traceID, userID, err)
	}

	predictions.WithLabelValues(strconv.Itoa(cluster)).Inc()
	confidenceHist.Observe(sc.confidence)

	if s.auditor != nil {
		s.auditor.Emit(&domain.PredictionLog{
			RequestID:        traceID,
			UserID:           userID,
			PredictedCluster: cluster,
			Confidence:       sc.confidence,
			RecommendedItems: datatypes.NewJSONSlice(items),
		})
	}

	logger.Debug("segment recommendation served",
		"trace_id", traceID,
		"user_id", userID,
		"cluster", cluster,
		"confidence", sc.confidence,
		"items", len(items),
	)

	return &domain.SegmentRecommendation{
		ClusterAssignment: s.assignmentView(sc, arts.Metadata),
		Drivers:           sc.drivers,
		Explanation:       sc.explanation,
		Recommendations:   items,
	}, nil
}

// Predict runs assignment and confidence only. Nothing is audited.
func (s *SegmentService) Predict(ctx context.Context, profile domain.RawProfile) (*domain.ClusterAssignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	arts, sc, err := s.score(ctx, profile, false)
	if err != nil {
		return nil, s.fail(TraceIDFromContext(ctx), 0, err)
	}

	view := s.assignmentView(sc, arts.Metadata)
	return &view, nil
}

// CandidatesByCluster echoes the stored candidate set of a cluster without
// running assignment or touching the catalog.
func (s *SegmentService) CandidatesByCluster(ctx context.Context, cluster int) (*domain.ClusterCandidates, error) {
	arts, err := s.models.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cluster < 0 || cluster >= arts.Clusters.K() {
		return nil, fmt.Errorf("%w: %d", domain.ErrClusterNotFound, cluster)
	}

	candidates := arts.Metadata.CandidatesFor(cluster)
	items := make([]domain.RecommendationItem, 0, len(candidates))
	for _, c := range candidates {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("Product Item ID %d", c.ProductID)
		}
		items = append(items, domain.RecommendationItem{
			ProductID: c.ProductID,
			Name:      name,
			Category:  c.Category,
			Reason:    c.Reason,
		})
	}

	return &domain.ClusterCandidates{
		Cluster:         cluster,
		ClusterName:     arts.Metadata.ClusterName(cluster),
		Recommendations: items,
	}, nil
}

func (s *SegmentService) ModelSummary(ctx context.Context) (*domain.ModelSummary, error) {
	arts, err := s.models.Get(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(arts), nil
}

// ReloadModel replaces the snapshot in place. On failure the previous model
// keeps serving.
func (s *SegmentService) ReloadModel(ctx context.Context) (*domain.ModelSummary, error) {
	arts, err := s.models.Reload(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(arts), nil
}

// score validates the profile before any model access, so a bad profile
// never triggers a reload.
func (s *SegmentService) score(ctx context.Context, profile domain.RawProfile, explain bool) (arts *Artifacts, out scored, err error) {
	fv, err := BuildFeatureVector(profile)
	if err != nil {
		return nil, scored{}, err
	}

	arts, err = s.models.Get(ctx)
	if err != nil {
		return nil, scored{}, err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrInternalCompute, r)
		}
	}()

	a, err := Assign(fv, arts.Scaler, arts.Clusters)
	if err != nil {
		return nil, scored{}, err
	}

	out = scored{
		assignment: a,
		confidence: Confidence(a.Report, s.cfg),
	}
	if explain {
		out.drivers = ExtractDrivers(a.Standardized, arts.Metadata, s.cfg)
		out.explanation = Explain(profile, a, out.drivers, arts.Metadata, s.cfg)
	}

	return arts, out, nil
}

func (s *SegmentService) assignmentView(sc scored, meta *Metadata) domain.ClusterAssignment {
	dists := make([]domain.ClusterDistance, len(sc.assignment.Report))
	for i, d := range sc.assignment.Report {
		dists[i] = domain.ClusterDistance{
			Cluster:  d.Cluster,
			Name:     meta.ClusterName(d.Cluster),
			Distance: math.Round(d.Value*10000) / 10000,
		}
	}

	return domain.ClusterAssignment{
		Cluster:     sc.assignment.Cluster,
		ClusterName: meta.ClusterName(sc.assignment.Cluster),
		Confidence:  sc.confidence,
		Distances:   dists,
	}
}

// fail counts and logs a scoring failure, returning err unchanged.
func (s *SegmentService) fail(traceID string, userID uint, err error) error {
	kind := errorKind(err)
	predictionErrors.WithLabelValues(kind).Inc()

	if kind == "invalid_input" {
		logger.Debug("rejected behavioral profile", "trace_id", traceID, "error", err)
	} else {
		logger.Error("segment scoring failed",
			"trace_id", traceID,
			"user_id", userID,
			"kind", kind,
			"error", err,
		)
	}
	return err
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrModelNotReady):
		return "model_not_ready"
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return "catalog_unavailable"
	default:
		return "internal"
	}
}

func summarize(a *Artifacts) *domain.ModelSummary {
	meta := a.Metadata

	readable := make([]string, featureDim)
	for i := range readable {
		readable[i] = meta.FeatureName(i)
	}
	names := make([]string, a.Clusters.K())
	for i := range names {
		names[i] = meta.ClusterName(i)
	}

	centroids := meta.CentroidsReal
	if len(centroids) == 0 {
		centroids = realCentroids(a)
	}

	return &domain.ModelSummary{
		Features:        append([]string(nil), FeatureSchema[:]...),
		FeatureReadable: readable,
		ClusterNames:    names,
		ClusterCounts:   meta.ClusterCounts,
		CentroidsReal:   centroids,
		Silhouette:      meta.Silhouette,
		Inertia:         meta.Inertia,
		PCAVariance:     meta.PCAVariance,
		LoadedAt:        a.LoadedAt.Format(time.RFC3339),
	}
}

// realCentroids maps the scaled centroids back to raw units, undoing the
// monetary log transform.
func realCentroids(a *Artifacts) []map[string]float64 {
	out := make([]map[string]float64, 0, a.Clusters.K())
	for i := 0; i < a.Clusters.K(); i++ {
		c, _ := a.Clusters.Centroid(i)
		x, err := a.Scaler.Inverse(c)
		if err != nil {
			return nil
		}

		row := make(map[string]float64, featureDim)
		for j, v := range x {
			name := FeatureSchema[j]
			if j == featMonetaryLog {
				name, v = "Monetary", math.Expm1(v)
			}
			row[name] = math.Round(v*100) / 100
		}
		out = append(out, row)
	}
	return out
}
