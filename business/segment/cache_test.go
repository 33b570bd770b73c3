//go:build !integration

package segment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"segmentReco/domain"
)

func TestModelCache_EmptyAndReloadFails(t *testing.T) {
	loader := &fakeLoader{err: errors.New("artifacts missing")}
	cache := NewModelCache(loader)

	_, err := cache.Get(context.Background())
	if !errors.Is(err, domain.ErrModelNotReady) {
		t.Fatalf("expected ErrModelNotReady, got %v", err)
	}
	if loader.Calls() != 1 {
		t.Fatalf("expected exactly one reload attempt, got %d", loader.Calls())
	}
}

func TestModelCache_LoaderReturnsNothing(t *testing.T) {
	loader := &fakeLoader{}
	cache := NewModelCache(loader)

	if _, err := cache.Get(context.Background()); !errors.Is(err, domain.ErrModelNotReady) {
		t.Fatalf("expected ErrModelNotReady for a nil snapshot, got %v", err)
	}
	if cache.Current() != nil {
		t.Fatal("nil snapshot must not be stored")
	}
}

func TestModelCache_LazyLoadThenServesSnapshot(t *testing.T) {
	loader := &fakeLoader{arts: fixtureArtifacts(t)}
	cache := NewModelCache(loader)

	for i := 0; i < 5; i++ {
		arts, err := cache.Get(context.Background())
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if arts.Clusters.K() != 4 {
			t.Fatalf("unexpected snapshot: %+v", arts)
		}
	}
	if loader.Calls() != 1 {
		t.Fatalf("expected a single load, got %d", loader.Calls())
	}
}

func TestModelCache_FailedReloadKeepsPrevious(t *testing.T) {
	loader := &fakeLoader{arts: fixtureArtifacts(t)}
	cache := NewModelCache(loader)

	if err := cache.Warm(context.Background()); err != nil {
		t.Fatalf("warm: %v", err)
	}
	before := cache.Current()

	loader.mu.Lock()
	loader.err = errors.New("disk gone")
	loader.mu.Unlock()

	if _, err := cache.Reload(context.Background()); !errors.Is(err, domain.ErrModelNotReady) {
		t.Fatalf("expected ErrModelNotReady, got %v", err)
	}
	if cache.Current() != before {
		t.Fatal("failed reload replaced the snapshot")
	}
	if _, err := cache.Get(context.Background()); err != nil {
		t.Fatalf("expected previous snapshot to keep serving, got %v", err)
	}
}

func TestModelCache_RejectsInvalidSnapshot(t *testing.T) {
	loader := &fakeLoader{arts: &Artifacts{}}
	cache := NewModelCache(loader)

	if _, err := cache.Get(context.Background()); !errors.Is(err, domain.ErrModelNotReady) {
		t.Fatalf("expected ErrModelNotReady, got %v", err)
	}
	if cache.Current() != nil {
		t.Fatal("invalid snapshot was stored")
	}
}

func TestModelCache_ConcurrentReaders(t *testing.T) {
	cache := NewModelCache(&fakeLoader{arts: fixtureArtifacts(t)})

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Get(context.Background()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent get: %v", err)
	}
}
