package sky

import (
	"sort"
	"time"

	"github.com/skyviewlabs/skyview-api/internal/astro"
	"github.com/skyviewlabs/skyview-api/internal/catalog"
)

// StarPosition is a catalog star placed in the observer's sky. Enrichment
// fields are echoed from the catalog only when present there.
type StarPosition struct {
	Name      string  `json:"name"`
	Magnitude float64 `json:"magnitude"`
	Altitude  float64 `json:"altitude_deg"`
	Azimuth   float64 `json:"azimuth_deg"`

	DistanceLY *float64       `json:"distance_ly,omitempty"`
	ColorTempK *float64       `json:"color_temp_K,omitempty"`
	BV         *float64       `json:"bv,omitempty"`
	RGBHex     string         `json:"rgb_hex,omitempty"`
	Aliases    []string       `json:"aliases,omitempty"`
	IDs        map[string]int `json:"ids,omitempty"`
}

// SortMode selects the output ordering of a star query.
type SortMode int

const (
	// SortMagnitude orders brightest first; ties break by name ascending
	SortMagnitude SortMode = iota

	// SortAltitude orders highest first; ties break by azimuth ascending
	SortAltitude

	// SortNone keeps catalog order
	SortNone
)

// StarQuery filters and orders a star resolution.
type StarQuery struct {
	// MinAltitude keeps stars with altitude >= this value (inclusive).
	// Use -90 to keep everything.
	MinAltitude float64

	// MaxMagnitude, when set, keeps stars with magnitude <= the value
	MaxMagnitude *float64

	// Limit caps the result count after sorting; <= 0 means no cap
	Limit int

	Sort SortMode
}

func positioned(star *catalog.Star, h astro.HorizontalCoordinates) StarPosition {
	return StarPosition{
		Name:       star.Name,
		Magnitude:  star.Magnitude,
		Altitude:   h.Altitude,
		Azimuth:    h.Azimuth,
		DistanceLY: star.DistanceLY,
		ColorTempK: star.ColorTempK,
		BV:         star.BV,
		RGBHex:     star.RGBHex,
		Aliases:    star.Aliases,
		IDs:        star.IDs,
	}
}

func applyQuery(results []StarPosition, q StarQuery) []StarPosition {
	filtered := results[:0]
	for _, r := range results {
		if r.Altitude < q.MinAltitude {
			continue
		}
		if q.MaxMagnitude != nil && r.Magnitude > *q.MaxMagnitude {
			continue
		}
		filtered = append(filtered, r)
	}

	switch q.Sort {
	case SortMagnitude:
		sort.SliceStable(filtered, func(i, j int) bool {
			if filtered[i].Magnitude != filtered[j].Magnitude {
				return filtered[i].Magnitude < filtered[j].Magnitude
			}
			return filtered[i].Name < filtered[j].Name
		})
	case SortAltitude:
		sort.SliceStable(filtered, func(i, j int) bool {
			if filtered[i].Altitude != filtered[j].Altitude {
				return filtered[i].Altitude > filtered[j].Altitude
			}
			return filtered[i].Azimuth < filtered[j].Azimuth
		})
	}

	if q.Limit > 0 && len(filtered) > q.Limit {
		filtered = filtered[:q.Limit]
	}
	return filtered
}

// VisibleStars resolves every catalog star with the fast path: raw J2000
// catalog coordinates through the sidereal-time transform, no precession.
// Suitable for bulk and batch queries.
func (s *Service) VisibleStars(obs astro.Observer, t time.Time, q StarQuery) ([]StarPosition, error) {
	stars, err := s.catalog.Stars()
	if err != nil {
		return nil, err
	}

	lst := astro.LSTHours(obs.Longitude, t)

	results := make([]StarPosition, 0, len(stars))
	for i := range stars {
		h := astro.EquatorialToHorizontal(stars[i].RAHours, stars[i].DecDeg, obs.Latitude, lst)
		results = append(results, positioned(&stars[i], h))
	}

	return applyQuery(results, q), nil
}

// SkyStars resolves every catalog star with the accurate path: the ephemeris
// provider's topocentric apparent observation, which carries precession to
// date. Slower than VisibleStars; positions differ from the fast path.
func (s *Service) SkyStars(obs astro.Observer, t time.Time, q StarQuery) ([]StarPosition, error) {
	stars, err := s.catalog.Stars()
	if err != nil {
		return nil, err
	}

	results := make([]StarPosition, 0, len(stars))
	for i := range stars {
		app, err := s.provider.ObserveStar(stars[i].RAHours, stars[i].DecDeg, obs, t)
		if err != nil {
			// Per-item failure drops the item only
			continue
		}
		results = append(results, positioned(&stars[i], astro.HorizontalCoordinates{
			Altitude: app.Altitude,
			Azimuth:  app.Azimuth,
		}))
	}

	return applyQuery(results, q), nil
}
