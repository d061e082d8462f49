// Package sky is the computation core of the service: it turns catalog
// entities and ephemeris observations into observer-local positions, discrete
// events, constellation frames, screen projections, and IAU lookups.
//
// All operations are pure with respect to shared state: the catalog, the IAU
// boundaries, and the frame cache are the only process-wide structures, and
// request-scoped data is owned by the calling goroutine.
package sky

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/skyviewlabs/skyview-api/internal/catalog"
	"github.com/skyviewlabs/skyview-api/internal/ephemeris"
)

// frameCacheSize bounds the constellation-frames LRU.
const frameCacheSize = 256

// Service bundles the shared read-mostly state behind the sky operations.
type Service struct {
	catalog    *catalog.Store
	boundaries *catalog.Boundaries
	provider   ephemeris.SolarSystemProvider

	frameCache *lru.Cache[string, []Frame]
}

// NewService creates a Service over a catalog store, an IAU boundary set, and
// an ephemeris provider.
func NewService(cat *catalog.Store, bounds *catalog.Boundaries, provider ephemeris.SolarSystemProvider) *Service {
	// Size is fixed; lru.New only errors on a non-positive size.
	cache, err := lru.New[string, []Frame](frameCacheSize)
	if err != nil {
		panic(err)
	}
	return &Service{
		catalog:    cat,
		boundaries: bounds,
		provider:   provider,
		frameCache: cache,
	}
}

// ResetCaches empties the frame cache and reloads catalog state on next use.
// Intended for tests only.
func (s *Service) ResetCaches() {
	s.frameCache.Purge()
	s.catalog.Reset()
	s.boundaries.Reset()
}
