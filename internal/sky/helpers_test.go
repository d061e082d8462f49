package sky

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skyviewlabs/skyview-api/internal/astro"
	"github.com/skyviewlabs/skyview-api/internal/catalog"
	"github.com/skyviewlabs/skyview-api/internal/ephemeris"
)

var mexicoCity = astro.Observer{Latitude: 19.4326, Longitude: -99.1332}

var testAt = time.Date(2025, 1, 10, 3, 0, 0, 0, time.UTC)

// testCatalogJSON carries the Ursa Minor figure plus a handful of bright
// stars with real J2000 coordinates.
const testCatalogJSON = `[
	{"name": "Polaris", "ra": 2.530301, "dec": 89.264109, "mag": 1.98, "distance_ly": 433.0},
	{"name": "Yildun", "ra": 17.536914, "dec": 86.586462, "mag": 4.36},
	{"name": "Epsilon UMi", "ra": 16.766157, "dec": 82.037252, "mag": 4.21},
	{"name": "Zeta UMi", "ra": 15.734300, "dec": 77.794493, "mag": 4.29},
	{"name": "Pherkad", "ra": 15.345483, "dec": 71.834017, "mag": 3.00},
	{"name": "Kochab", "ra": 14.845105, "dec": 74.155505, "mag": 2.07},
	{"name": "Sirius", "ra": 6.752481, "dec": -16.716116, "mag": -1.46, "bv": 0.0},
	{"name": "Canopus", "ra": 6.399197, "dec": -52.695661, "mag": -0.74},
	{"name": "Vega", "ra": 18.615649, "dec": 38.783692, "mag": 0.03},
	{"name": "Rigel", "ra": 5.242298, "dec": -8.201638, "mag": 0.13},
	{"name": "Procyon", "ra": 7.655033, "dec": 5.224993, "mag": 0.34},
	{"name": "Betelgeuse", "ra": 5.919529, "dec": 7.407064, "mag": 0.50},
	{"name": "TieA", "ra": 1.0, "dec": 10.0, "mag": 2.50},
	{"name": "TieB", "ra": 2.0, "dec": 20.0, "mag": 2.50}
]`

// Boundary fixtures are plain boxes: the ray cast is planar and pole-crossing
// polygons are out of contract. Zenithia covers the zenith RA/Dec band for the
// Mexico City test instant.
const testBoundariesJSON = `{
	"Zenithia": [[[0, 0], [120, 0], [120, 45], [0, 45]]],
	"Equatoria": [[[300, -20], [340, -20], [340, 20], [300, 20]]]
}`

func newTestService(t *testing.T, provider ephemeris.SolarSystemProvider) *Service {
	t.Helper()
	dir := t.TempDir()

	catPath := filepath.Join(dir, "star_catalog.json")
	require.NoError(t, os.WriteFile(catPath, []byte(testCatalogJSON), 0o644))

	boundPath := filepath.Join(dir, "iau_boundaries.json")
	require.NoError(t, os.WriteFile(boundPath, []byte(testBoundariesJSON), 0o644))

	if provider == nil {
		provider = ephemeris.NewMeeusProvider()
	}
	return NewService(catalog.NewStore(catPath), catalog.NewBoundaries(boundPath), provider)
}

// fakeProvider lets tests script provider behavior per method.
type fakeProvider struct {
	observe  func(body ephemeris.Body, obs astro.Observer, t time.Time) (ephemeris.Apparent, error)
	star     func(raHours, decDeg float64, obs astro.Observer, t time.Time) (ephemeris.Apparent, error)
	riseSet  func(body ephemeris.Body, obs astro.Observer, t0, t1 time.Time) ([]ephemeris.Transition, error)
	quarters func(t0, t1 time.Time) ([]ephemeris.QuarterEvent, error)
}

func (f *fakeProvider) Observe(body ephemeris.Body, obs astro.Observer, t time.Time) (ephemeris.Apparent, error) {
	if f.observe == nil {
		return ephemeris.Apparent{}, nil
	}
	return f.observe(body, obs, t)
}

func (f *fakeProvider) ObserveStar(raHours, decDeg float64, obs astro.Observer, t time.Time) (ephemeris.Apparent, error) {
	if f.star == nil {
		return ephemeris.Apparent{}, nil
	}
	return f.star(raHours, decDeg, obs, t)
}

func (f *fakeProvider) RisingsAndSettings(body ephemeris.Body, obs astro.Observer, t0, t1 time.Time) ([]ephemeris.Transition, error) {
	if f.riseSet == nil {
		return nil, nil
	}
	return f.riseSet(body, obs, t0, t1)
}

func (f *fakeProvider) MoonQuarters(t0, t1 time.Time) ([]ephemeris.QuarterEvent, error) {
	if f.quarters == nil {
		return nil, nil
	}
	return f.quarters(t0, t1)
}
