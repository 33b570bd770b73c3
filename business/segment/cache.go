package segment

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"segmentReco/domain"
	"segmentReco/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// ArtifactLoader reads a complete artifact snapshot from wherever the training
// pipeline published it.
type ArtifactLoader interface {
	Load(ctx context.Context) (*Artifacts, error)
}

// ModelCache owns the current artifact snapshot. Readers never lock; a reload
// builds a new snapshot and swaps it in atomically, so in-flight requests keep
// using the one they already hold.
type ModelCache struct {
	loader  ArtifactLoader
	current atomic.Pointer[Artifacts]
	group   singleflight.Group
}

func NewModelCache(loader ArtifactLoader) *ModelCache {
	return &ModelCache{loader: loader}
}

// Warm performs the startup load. A failure leaves the cache empty; the first
// inference call will try once more.
func (c *ModelCache) Warm(ctx context.Context) error {
	_, err := c.Reload(ctx)
	return err
}

// Get returns the current snapshot, reloading once if none is present.
func (c *ModelCache) Get(ctx context.Context) (*Artifacts, error) {
	if a := c.current.Load(); a.complete() {
		return a, nil
	}

	a, err := c.Reload(ctx)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Reload loads a fresh snapshot. Concurrent callers share one load. On failure
// the previous snapshot, if any, stays in place.
func (c *ModelCache) Reload(ctx context.Context) (*Artifacts, error) {
	if c.loader == nil {
		return nil, fmt.Errorf("%w: no artifact loader configured", domain.ErrModelNotReady)
	}

	v, err, _ := c.group.Do("reload", func() (any, error) {
		// the shared load must not die with whichever caller started it
		a, err := c.loader.Load(context.WithoutCancel(ctx))
		if err == nil {
			err = a.validate()
		}
		if err != nil {
			modelReloads.WithLabelValues("failure").Inc()
			logger.Error("model artifacts reload failed", "error", err)
			return nil, err
		}

		c.current.Store(a)
		modelReloads.WithLabelValues("success").Inc()
		logger.Info("model artifacts loaded",
			"clusters", a.Clusters.K(),
			"features", a.Scaler.Dim(),
			"loaded_at", a.LoadedAt,
		)
		return a, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrModelNotReady) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrModelNotReady, err)
	}

	return v.(*Artifacts), nil
}

// Current returns the snapshot in use without triggering a load.
func (c *ModelCache) Current() *Artifacts {
	return c.current.Load()
}
