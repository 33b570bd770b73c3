//go:build !integration

package segment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"segmentReco/domain"
)

// four clusters ordered by average spend, Sultan is the top one
var (
	fixtureMean = []float64{30, 10, 5.5, 2.0, 4, 5, 5, 30}
	fixtureStd  = []float64{25, 10, 1.5, 1.0, 3, 4, 5, 30}

	fixtureCentroids = [][]float64{
		{1.0, -0.8, -1.2, -0.7, -0.8, -0.6, -0.7, -0.7},
		{-0.2, -0.3, -0.3, -0.2, 0.0, 1.2, 0.8, 1.2},
		{-0.6, 0.8, 0.6, 0.5, 0.7, 0.0, 0.5, 0.1},
		{-1.0, 2.0, 1.8, 1.2, 1.0, 0.2, 0.6, 0.6},
	}
)

func sultanProfile() domain.RawProfile {
	return domain.RawProfile{
		Recency:        2,
		Frequency:      40,
		Monetary:       5000,
		AvgItems:       3.0,
		UniqueProducts: 5,
		WishlistCount:  3,
		AddToCartCount: 4,
		PageViews:      50,
	}
}

func fixtureMetadata() *Metadata {
	return &Metadata{
		ClusterNames: []string{"Newbie", "Window Shopper", "Loyalist", "Sultan"},
		Candidates: map[int][]Candidate{
			0: {{ProductID: 10}, {ProductID: 11}},
			1: {{ProductID: 20, Name: "Linen Tote", Category: "Bags"}},
			2: {{ProductID: 30}},
			3: {
				{ProductID: 40, Reason: "bought by similar customers"},
				{ProductID: 41},
				{ProductID: 42, Name: "Silk Scarf", Category: "Accessories"},
				{ProductID: 43},
			},
		},
		ClusterCounts: map[string]int{"0": 120, "1": 80, "2": 60, "3": 15},
		Silhouette:    0.41,
	}
}

func fixtureArtifacts(t *testing.T) *Artifacts {
	t.Helper()

	scaler, err := NewScalingModel(fixtureMean, fixtureStd)
	if err != nil {
		t.Fatalf("scaler: %v", err)
	}
	clusters, err := NewClusterModel(fixtureCentroids)
	if err != nil {
		t.Fatalf("clusters: %v", err)
	}
	arts, err := NewArtifacts(scaler, clusters, fixtureMetadata())
	if err != nil {
		t.Fatalf("artifacts: %v", err)
	}
	return arts
}

// ---- fakes ----

type fakeLoader struct {
	mu    sync.Mutex
	arts  *Artifacts
	err   error
	calls int
}

func (f *fakeLoader) Load(ctx context.Context) (*Artifacts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.arts, nil
}

func (f *fakeLoader) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCatalog struct {
	products []domain.Product
	err      error
	asked    [][]uint64
}

func (f *fakeCatalog) FindByProductIDs(ctx context.Context, ids []uint64) ([]domain.Product, error) {
	f.asked = append(f.asked, append([]uint64(nil), ids...))
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.Product
	for _, p := range f.products {
		if want[p.ProductID] {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeLogRepo struct {
	mu   sync.Mutex
	logs []*domain.PredictionLog
	err  error
	boom bool
}

func (f *fakeLogRepo) Create(ctx context.Context, log *domain.PredictionLog) error {
	if f.boom {
		panic("store exploded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeLogRepo) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.logs)
}

type fakeSegmentRepo struct {
	mu   sync.Mutex
	segs map[uint]int
	err  error
}

func (f *fakeSegmentRepo) Upsert(ctx context.Context, seg *domain.UserSegment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.segs == nil {
		f.segs = make(map[uint]int)
	}
	f.segs[seg.UserID] = seg.Cluster
	return nil
}

func (f *fakeSegmentRepo) FindByUserID(ctx context.Context, userID uint) (*domain.UserSegment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.segs[userID]
	if !ok {
		return nil, errors.New("not found")
	}
	return &domain.UserSegment{UserID: userID, Cluster: c}, nil
}

type recordingAuditor struct {
	recs []*domain.PredictionLog
}

func (r *recordingAuditor) Emit(rec *domain.PredictionLog) {
	r.recs = append(r.recs, rec)
}
