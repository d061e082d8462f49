package sky

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyviewlabs/skyview-api/internal/astro"
	"github.com/skyviewlabs/skyview-api/internal/catalog"
)

func TestFrameUrsaMinor(t *testing.T) {
	s := newTestService(t, nil)

	frame, err := s.Frame("Ursa Minor", mexicoCity, testAt)
	require.NoError(t, err)

	assert.Equal(t, "Ursa Minor", frame.Name)
	assert.Equal(t, "2025-01-10T03:00:00Z", frame.At)
	assert.Len(t, frame.Stars, 6)

	// Edges are the definition's edges, verbatim
	def, err := catalog.ConstellationByName("Ursa Minor")
	require.NoError(t, err)
	assert.Equal(t, def.Edges, frame.Edges)
	assert.Len(t, frame.Edges, 7)
}

func TestFrameUnknownName(t *testing.T) {
	s := newTestService(t, nil)
	_, err := s.Frame("Orion", mexicoCity, testAt)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

// Constellation stars absent from the star catalog are skipped silently; the
// test catalog only carries Ursa Minor's stars.
func TestFrameMissingStarsSkipped(t *testing.T) {
	s := newTestService(t, nil)

	frame, err := s.Frame("Cassiopeia", mexicoCity, testAt)
	require.NoError(t, err)
	assert.Empty(t, frame.Stars)
	assert.Len(t, frame.Edges, 4)
}

func TestFramesBelowHorizonHandling(t *testing.T) {
	s := newTestService(t, nil)

	// From the south pole, Ursa Minor never rises
	southPole := astro.Observer{Latitude: -89, Longitude: 0}

	frames, err := s.Frames(southPole, testAt, FramesOptions{MinAltitude: 0})
	require.NoError(t, err)
	assert.Empty(t, frames, "below-horizon frames omitted by default")

	frames, err = s.Frames(southPole, testAt, FramesOptions{
		MinAltitude:         0,
		IncludeBelowHorizon: true,
		DimBelowHorizon:     true,
	})
	require.NoError(t, err)

	var umi *Frame
	for i := range frames {
		if frames[i].Name == "Ursa Minor" {
			umi = &frames[i]
		}
	}
	require.NotNil(t, umi)
	require.NotNil(t, umi.BelowHorizon)
	assert.True(t, *umi.BelowHorizon)
	require.NotNil(t, umi.Style)
	assert.Equal(t, "dim", umi.Style.Variant)
	assert.Equal(t, 0.35, umi.Style.Opacity)
}

func TestFramesCircumpolarFromHighLatitude(t *testing.T) {
	// North pole midsummer: all five circumpolar figures stay up.
	// Only Ursa Minor has stars in the test catalog, so restrict to it.
	northObs := astro.Observer{Latitude: 89, Longitude: 0}
	at := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)

	s := newTestService(t, nil)
	frames, err := s.Frames(northObs, at, FramesOptions{MinAltitude: 0, Names: []string{"Ursa Minor"}})
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Nil(t, frames[0].BelowHorizon)
}

func TestFramesNameFilter(t *testing.T) {
	s := newTestService(t, nil)

	frames, err := s.Frames(mexicoCity, testAt, FramesOptions{
		MinAltitude:         -90,
		Names:               []string{"Ursa Minor", "Nonexistent"},
		IncludeBelowHorizon: true,
	})
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, "Ursa Minor", frames[0].Name)
}

func TestFramesCached(t *testing.T) {
	s := newTestService(t, nil)
	opts := FramesOptions{MinAltitude: 0, CacheBucketSeconds: 60}

	a, err := s.Frames(mexicoCity, testAt, opts)
	require.NoError(t, err)

	// Same bucket: the cached value is returned as-is
	b, err := s.Frames(mexicoCity, testAt.Add(10*time.Second), opts)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	if len(a) > 0 {
		assert.Equal(t, a[0].At, b[0].At)
	}

	// Next bucket recomputes with a fresh timestamp
	c, err := s.Frames(mexicoCity, testAt.Add(2*time.Minute), opts)
	require.NoError(t, err)
	if len(a) > 0 && len(c) > 0 {
		assert.NotEqual(t, a[0].At, c[0].At)
	}

	// A different option set never hits the same entry: with below-horizon
	// frames included, the result grows
	d, err := s.Frames(mexicoCity, testAt, FramesOptions{MinAltitude: 0, CacheBucketSeconds: 60, DimBelowHorizon: true, IncludeBelowHorizon: true})
	require.NoError(t, err)
	assert.Greater(t, len(d), len(a))
}

func TestFramesObserverQuantization(t *testing.T) {
	s := newTestService(t, nil)
	opts := FramesOptions{MinAltitude: 0, CacheBucketSeconds: 3600}

	a, err := s.Frames(mexicoCity, testAt, opts)
	require.NoError(t, err)

	// Within 1e-4 degrees the observer hits the same cache bucket
	nearby := astro.Observer{Latitude: mexicoCity.Latitude + 4e-5, Longitude: mexicoCity.Longitude}
	b, err := s.Frames(nearby, testAt, opts)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFramesEdgeClipToFOV(t *testing.T) {
	s := newTestService(t, nil)

	frame, err := s.Frame("Ursa Minor", mexicoCity, testAt)
	require.NoError(t, err)
	require.NotEmpty(t, frame.Stars)

	// A FOV centered on Polaris keeps edges touching it
	var polaris *StarPosition
	for i := range frame.Stars {
		if frame.Stars[i].Name == "Polaris" {
			polaris = &frame.Stars[i]
		}
	}
	require.NotNil(t, polaris)

	fov := &FOVRect{CenterAz: polaris.Azimuth, CenterAlt: polaris.Altitude, Width: 8, Height: 8}
	frames, err := s.Frames(mexicoCity, testAt, FramesOptions{
		MinAltitude:    0,
		Names:          []string{"Ursa Minor"},
		FOV:            fov,
		ClipEdgesToFOV: true,
	})
	require.NoError(t, err)
	require.Len(t, frames, 1)

	clipped := frames[0].Edges
	assert.Contains(t, clipped, [2]string{"Polaris", "Yildun"},
		"edges touching the FOV center star survive the clip")
	assert.Less(t, len(clipped), 7, "the bowl edges sit well outside a tight FOV")

	// A sky-wide FOV keeps everything
	wide := &FOVRect{CenterAz: 0, CenterAlt: 0, Width: 360, Height: 180}
	frames, err = s.Frames(mexicoCity, testAt, FramesOptions{
		MinAltitude:    0,
		Names:          []string{"Ursa Minor"},
		FOV:            wide,
		ClipEdgesToFOV: true,
	})
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Len(t, frames[0].Edges, 7)
}

func TestSummaries(t *testing.T) {
	s := newTestService(t, nil)

	sums, err := s.Summaries(mexicoCity, testAt, FramesOptions{MinAltitude: 0, IncludeBelowHorizon: true})
	require.NoError(t, err)
	require.Len(t, sums, 5)

	byName := map[string]ConstellationSummary{}
	for _, sum := range sums {
		byName[sum.Name] = sum
	}

	umi := byName["Ursa Minor"]
	assert.True(t, umi.Visible)
	assert.Equal(t, 6, umi.StarsVisible)
	assert.Greater(t, umi.MaxAltitude, 0.0)
	assert.Nil(t, umi.InFOV)

	// Constellations with no catalog stars read as below horizon
	cas := byName["Cassiopeia"]
	assert.False(t, cas.Visible)
	assert.True(t, cas.BelowHorizon)
}

func TestSummariesFOV(t *testing.T) {
	s := newTestService(t, nil)

	frame, err := s.Frame("Ursa Minor", mexicoCity, testAt)
	require.NoError(t, err)
	var polaris StarPosition
	for _, st := range frame.Stars {
		if st.Name == "Polaris" {
			polaris = st
		}
	}

	sums, err := s.Summaries(mexicoCity, testAt, FramesOptions{
		MinAltitude: 0,
		Names:       []string{"Ursa Minor"},
		FOV:         &FOVRect{CenterAz: polaris.Azimuth, CenterAlt: polaris.Altitude, Width: 10, Height: 10},
	})
	require.NoError(t, err)
	require.Len(t, sums, 1)
	require.NotNil(t, sums[0].InFOV)
	assert.True(t, *sums[0].InFOV)

	sums, err = s.Summaries(mexicoCity, testAt, FramesOptions{
		MinAltitude: 0,
		Names:       []string{"Ursa Minor"},
		FOV:         &FOVRect{CenterAz: astro.NormalizeDegrees(polaris.Azimuth + 180), CenterAlt: -45, Width: 10, Height: 10},
	})
	require.NoError(t, err)
	require.Len(t, sums, 1)
	require.NotNil(t, sums[0].InFOV)
	assert.False(t, *sums[0].InFOV)
}
