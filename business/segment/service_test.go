//go:build !integration

package segment

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"segmentReco/domain"
)

func newTestService(t *testing.T, catalog CatalogRepository, auditor Auditor) *SegmentService {
	t.Helper()
	cache := NewModelCache(&fakeLoader{arts: fixtureArtifacts(t)})
	return NewSegmentService(cache, catalog, auditor, DefaultConfig())
}

func scenarioCatalog() *fakeCatalog {
	return &fakeCatalog{products: []domain.Product{
		{ProductID: 40, Name: "Leather Boots", Category: "Shoes"},
		{ProductID: 41, Name: "Wool Blazer", Category: "Outerwear"},
	}}
}

func TestRecommend_HighSpendScenario(t *testing.T) {
	auditor := &recordingAuditor{}
	svc := newTestService(t, scenarioCatalog(), auditor)

	ctx := WithTraceID(context.Background(), "trace-1")
	res, err := svc.Recommend(ctx, 42, sultanProfile())
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	if res.Cluster != 3 || res.ClusterName != "Sultan" {
		t.Fatalf("expected Sultan (3), got %s (%d)", res.ClusterName, res.Cluster)
	}
	if res.Confidence < 50 || res.Confidence > 100 {
		t.Fatalf("confidence out of range: %v", res.Confidence)
	}
	if len(res.Distances) != 4 || res.Distances[0].Cluster != 3 {
		t.Fatalf("unexpected distance report: %+v", res.Distances)
	}

	highMonetary := false
	for _, d := range res.Drivers {
		if d.Feature == "Monetary" && d.Label == "High" {
			highMonetary = true
		}
	}
	if !highMonetary {
		t.Fatalf("expected a High Monetary driver, got %+v", res.Drivers)
	}

	if len(res.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got %+v", res.Recommendations)
	}

	if len(auditor.recs) != 1 {
		t.Fatalf("expected one audit record, got %d", len(auditor.recs))
	}
	rec := auditor.recs[0]
	if rec.UserID != 42 || rec.PredictedCluster != 3 || rec.RequestID != "trace-1" {
		t.Fatalf("unexpected audit record: %+v", rec)
	}
	if len(rec.RecommendedItems) != len(res.Recommendations) {
		t.Fatalf("audit payload differs from response")
	}
}

func TestRecommend_NegativeMonetaryFailsBeforeModelAccess(t *testing.T) {
	loader := &fakeLoader{arts: fixtureArtifacts(t)}
	auditor := &recordingAuditor{}
	svc := NewSegmentService(NewModelCache(loader), scenarioCatalog(), auditor, DefaultConfig())

	p := sultanProfile()
	p.Monetary = -10

	res, err := svc.Recommend(context.Background(), 1, p)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if res != nil {
		t.Fatalf("expected no response, got %+v", res)
	}
	if loader.Calls() != 0 || len(auditor.recs) != 0 {
		t.Fatalf("partial computation happened: loads=%d audits=%d", loader.Calls(), len(auditor.recs))
	}
}

func TestRecommend_ModelNotReady(t *testing.T) {
	auditor := &recordingAuditor{}
	cache := NewModelCache(&fakeLoader{err: errors.New("no artifacts")})
	svc := NewSegmentService(cache, scenarioCatalog(), auditor, DefaultConfig())

	res, err := svc.Recommend(context.Background(), 1, sultanProfile())
	if !errors.Is(err, domain.ErrModelNotReady) {
		t.Fatalf("expected ErrModelNotReady, got %v", err)
	}
	if res != nil || len(auditor.recs) != 0 {
		t.Fatalf("expected no partial response")
	}
}

func TestRecommend_AuditFailureDoesNotChangeResponse(t *testing.T) {
	withAudit := newTestService(t, scenarioCatalog(), NewAuditEmitter(
		&fakeLogRepo{boom: true},
		&fakeSegmentRepo{err: errors.New("db down")},
		AuditConfig{},
	))
	withoutAudit := newTestService(t, scenarioCatalog(), nil)

	got, err := withAudit.Recommend(context.Background(), 5, sultanProfile())
	if err != nil {
		t.Fatalf("recommend with failing audit: %v", err)
	}
	want, err := withoutAudit.Recommend(context.Background(), 5, sultanProfile())
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("audit failure changed the response:\n got %+v\nwant %+v", got, want)
	}
}

func TestRecommend_CatalogUnavailable(t *testing.T) {
	auditor := &recordingAuditor{}
	svc := newTestService(t, &fakeCatalog{err: errors.New("timeout")}, auditor)

	_, err := svc.Recommend(context.Background(), 1, sultanProfile())
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
	if len(auditor.recs) != 0 {
		t.Fatal("failed request was audited")
	}
}

func TestPredict_NoAudit(t *testing.T) {
	auditor := &recordingAuditor{}
	svc := newTestService(t, scenarioCatalog(), auditor)

	res, err := svc.Predict(context.Background(), sultanProfile())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if res.Cluster != 3 {
		t.Fatalf("expected cluster 3, got %d", res.Cluster)
	}
	if len(auditor.recs) != 0 {
		t.Fatal("predict must not audit")
	}
}

func TestCandidatesByCluster(t *testing.T) {
	svc := newTestService(t, nil, nil)

	res, err := svc.CandidatesByCluster(context.Background(), 0)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if res.ClusterName != "Newbie" || len(res.Recommendations) != 2 {
		t.Fatalf("unexpected candidates: %+v", res)
	}
	if res.Recommendations[0].Name != "Product Item ID 10" {
		t.Fatalf("expected generated name for bare id, got %q", res.Recommendations[0].Name)
	}

	for _, cid := range []int{-1, 4, 99} {
		if _, err := svc.CandidatesByCluster(context.Background(), cid); !errors.Is(err, domain.ErrClusterNotFound) {
			t.Fatalf("cluster %d: expected ErrClusterNotFound, got %v", cid, err)
		}
	}
}

func TestModelSummary(t *testing.T) {
	svc := newTestService(t, nil, nil)

	sum, err := svc.ModelSummary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(sum.Features) != featureDim || len(sum.ClusterNames) != 4 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if len(sum.CentroidsReal) != 4 {
		t.Fatalf("expected derived real centroids, got %d", len(sum.CentroidsReal))
	}
	// centroid 3 recency: -1.0*25 + 30
	if got := sum.CentroidsReal[3]["Recency"]; got != 5 {
		t.Fatalf("expected real recency 5, got %v", got)
	}
	if _, ok := sum.CentroidsReal[0]["Monetary"]; !ok {
		t.Fatalf("expected Monetary in real centroids: %+v", sum.CentroidsReal[0])
	}

	reloaded, err := svc.ReloadModel(context.Background())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Silhouette != 0.41 {
		t.Fatalf("unexpected reloaded summary: %+v", reloaded)
	}
}
