package sky

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/skyviewlabs/skyview-api/internal/astro"
	"github.com/skyviewlabs/skyview-api/internal/catalog"
)

// FrameStyle carries rendering hints for a constellation frame.
type FrameStyle struct {
	Variant string  `json:"variant"`
	Opacity float64 `json:"opacity"`
}

// Frame is one constellation positioned in the observer's sky. Edges are the
// definition's edges, echoed verbatim.
type Frame struct {
	Name  string         `json:"name"`
	At    string         `json:"at"`
	Stars []StarPosition `json:"stars"`
	Edges [][2]string    `json:"edges"`

	BelowHorizon *bool       `json:"below_horizon,omitempty"`
	Style        *FrameStyle `json:"style,omitempty"`
}

// FOVRect is a rectangular field of view in horizontal coordinates.
type FOVRect struct {
	CenterAz  float64
	CenterAlt float64
	Width     float64
	Height    float64
}

// contains reports whether a sky direction falls inside the rectangle,
// treating azimuth with wrap (shortest arc from the center).
func (f FOVRect) contains(altDeg, azDeg float64) bool {
	dAz := astro.DeltaAz(f.CenterAz, azDeg)
	dAlt := altDeg - f.CenterAlt
	return math.Abs(dAz) <= f.Width/2 && math.Abs(dAlt) <= f.Height/2
}

// FramesOptions controls a multi-constellation frame computation.
type FramesOptions struct {
	// MinAltitude classifies a constellation below the horizon when no
	// star reaches it
	MinAltitude float64

	// Names restricts output to these constellations; nil means all
	Names []string

	// IncludeBelowHorizon keeps below-horizon frames in the output
	IncludeBelowHorizon bool

	// DimBelowHorizon attaches a dim style to below-horizon frames
	DimBelowHorizon bool

	// FOV, when set, enables edge clipping
	FOV *FOVRect

	// ClipEdgesToFOV drops edges entirely outside the FOV rectangle
	ClipEdgesToFOV bool

	// CacheBucketSeconds quantizes the instant for cache keying; values
	// below one second are treated as one second
	CacheBucketSeconds float64
}

// Frame positions one constellation for an observer and instant via the fast
// star path. Stars missing from the catalog are skipped silently; edges are
// echoed verbatim. Unknown constellation names return catalog.ErrNotFound.
func (s *Service) Frame(name string, obs astro.Observer, t time.Time) (Frame, error) {
	def, err := catalog.ConstellationByName(name)
	if err != nil {
		return Frame{}, err
	}

	lst := astro.LSTHours(obs.Longitude, t)

	stars := make([]StarPosition, 0, len(def.Stars))
	for _, starName := range def.Stars {
		cs, err := s.catalog.ByName(starName)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			return Frame{}, err
		}
		h := astro.EquatorialToHorizontal(cs.RAHours, cs.DecDeg, obs.Latitude, lst)
		stars = append(stars, positioned(cs, h))
	}

	return Frame{
		Name:  def.Name,
		At:    astro.FormatUTC(t),
		Stars: stars,
		Edges: def.Edges,
	}, nil
}

// frameCacheKey quantizes the observer to 1e-4 degrees and the instant to the
// cache bucket, then folds in the option set.
func frameCacheKey(obs astro.Observer, t time.Time, opts FramesOptions) string {
	bucket := opts.CacheBucketSeconds
	if bucket < 1 {
		bucket = 1
	}
	slot := t.Unix() / int64(bucket)

	var b strings.Builder
	fmt.Fprintf(&b, "%.4f|%.4f|%d|%g|%.2f|%t|%t|%t",
		obs.Latitude, obs.Longitude, slot, bucket,
		opts.MinAltitude, opts.IncludeBelowHorizon, opts.DimBelowHorizon, opts.ClipEdgesToFOV)
	if opts.FOV != nil {
		fmt.Fprintf(&b, "|fov:%.2f,%.2f,%.2f,%.2f",
			opts.FOV.CenterAz, opts.FOV.CenterAlt, opts.FOV.Width, opts.FOV.Height)
	}
	if len(opts.Names) > 0 {
		b.WriteString("|names:")
		b.WriteString(strings.Join(opts.Names, ","))
	}
	return b.String()
}

// Frames positions all (or the named) constellations. Below-horizon frames
// are marked and, unless requested, omitted. Results are cached in a bounded
// LRU keyed by quantized observer, time bucket, and option set; frames are
// computed outside the cache lock.
func (s *Service) Frames(obs astro.Observer, t time.Time, opts FramesOptions) ([]Frame, error) {
	key := frameCacheKey(obs, t, opts)
	if cached, ok := s.frameCache.Get(key); ok {
		return cached, nil
	}

	names := opts.Names
	if len(names) == 0 {
		names = catalog.ConstellationNames()
	}

	frames := make([]Frame, 0, len(names))
	for _, name := range names {
		frame, err := s.Frame(name, obs, t)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				// Unknown names in a filter list are skipped
				continue
			}
			return nil, err
		}

		below := true
		for _, st := range frame.Stars {
			if st.Altitude >= opts.MinAltitude {
				below = false
				break
			}
		}

		if below {
			if !opts.IncludeBelowHorizon {
				continue
			}
			flag := true
			frame.BelowHorizon = &flag
			if opts.DimBelowHorizon {
				frame.Style = &FrameStyle{Variant: "dim", Opacity: 0.35}
			}
		}

		if opts.FOV != nil && opts.ClipEdgesToFOV {
			frame.Edges = clipEdgesToFOV(frame, *opts.FOV)
		}

		frames = append(frames, frame)
	}

	s.frameCache.Add(key, frames)
	return frames, nil
}

// clipEdgesToFOV keeps only the edges whose straight segment in the
// (delta-az, delta-alt) plane intersects the FOV rectangle, with azimuth
// unwrapped around the FOV center.
func clipEdgesToFOV(frame Frame, fov FOVRect) [][2]string {
	pos := make(map[string]StarPosition, len(frame.Stars))
	for _, st := range frame.Stars {
		pos[st.Name] = st
	}

	kept := make([][2]string, 0, len(frame.Edges))
	for _, e := range frame.Edges {
		a, okA := pos[e[0]]
		b, okB := pos[e[1]]
		if !okA || !okB {
			continue
		}

		x1 := astro.DeltaAz(fov.CenterAz, a.Azimuth)
		y1 := a.Altitude - fov.CenterAlt
		x2 := astro.DeltaAz(fov.CenterAz, b.Azimuth)
		y2 := b.Altitude - fov.CenterAlt

		if segmentIntersectsRect(x1, y1, x2, y2, fov.Width/2, fov.Height/2) {
			kept = append(kept, e)
		}
	}
	return kept
}

// segmentIntersectsRect is a Liang-Barsky acceptance test against the
// rectangle [-hw, hw] x [-hh, hh].
func segmentIntersectsRect(x1, y1, x2, y2, hw, hh float64) bool {
	dx := x2 - x1
	dy := y2 - y1

	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x1 + hw},  // left
		{dx, hw - x1},   // right
		{-dy, y1 + hh},  // bottom
		{dy, hh - y1},   // top
	}

	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return t0 <= t1
}

// ConstellationSummary is one row of the FOV-aware visibility overview.
type ConstellationSummary struct {
	Name         string  `json:"name"`
	Visible      bool    `json:"visible"`
	BelowHorizon bool    `json:"below_horizon"`
	StarsVisible int     `json:"stars_visible"`
	MaxAltitude  float64 `json:"max_altitude_deg"`

	InFOV *bool `json:"in_fov,omitempty"`
}

// Summaries reports, per constellation, how much of it clears the minimum
// altitude and (when a FOV is given) whether any of it falls inside the FOV.
func (s *Service) Summaries(obs astro.Observer, t time.Time, opts FramesOptions) ([]ConstellationSummary, error) {
	names := opts.Names
	if len(names) == 0 {
		names = catalog.ConstellationNames()
	}

	out := make([]ConstellationSummary, 0, len(names))
	for _, name := range names {
		frame, err := s.Frame(name, obs, t)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			return nil, err
		}

		sum := ConstellationSummary{Name: frame.Name, MaxAltitude: -90}
		inFOV := false
		for _, st := range frame.Stars {
			if st.Altitude >= opts.MinAltitude {
				sum.StarsVisible++
			}
			if st.Altitude > sum.MaxAltitude {
				sum.MaxAltitude = st.Altitude
			}
			if opts.FOV != nil && opts.FOV.contains(st.Altitude, st.Azimuth) {
				inFOV = true
			}
		}
		sum.Visible = sum.StarsVisible > 0
		sum.BelowHorizon = !sum.Visible

		if sum.BelowHorizon && !opts.IncludeBelowHorizon {
			continue
		}
		if opts.FOV != nil {
			sum.InFOV = &inFOV
		}

		out = append(out, sum)
	}
	return out, nil
}
