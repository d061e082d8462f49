package sky

import (
	"math"
	"sort"
	"time"

	"github.com/skyviewlabs/skyview-api/internal/astro"
)

// ScreenStar is a star projected into screen pixels. The origin is the
// top-left corner; +x right, +y down.
type ScreenStar struct {
	Name      string  `json:"name"`
	Magnitude float64 `json:"magnitude"`
	XPx       float64 `json:"x_px"`
	YPx       float64 `json:"y_px"`
	InFOV     bool    `json:"in_fov"`
	OnScreen  bool    `json:"on_screen"`
	Altitude  float64 `json:"altitude_deg"`
	Azimuth   float64 `json:"azimuth_deg"`
}

// ScreenEdge is a constellation line in screen pixels, possibly clipped to
// the viewport.
type ScreenEdge struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	X1Px float64 `json:"x1_px"`
	Y1Px float64 `json:"y1_px"`
	X2Px float64 `json:"x2_px"`
	Y2Px float64 `json:"y2_px"`
}

// ScreenFrame is one constellation projected into screen space.
type ScreenFrame struct {
	Name  string       `json:"name"`
	At    string       `json:"at"`
	Stars []ScreenStar `json:"stars"`
	Edges []ScreenEdge `json:"edges"`

	BelowHorizon *bool       `json:"below_horizon,omitempty"`
	Style        *FrameStyle `json:"style,omitempty"`
}

// ScreenOptions parameterizes the screen projection. The FOV center must be
// resolved by the caller (explicitly or from device sensors) before the
// projection runs.
type ScreenOptions struct {
	Frames FramesOptions

	// FOV center in horizontal coordinates, degrees
	CenterAz  float64
	CenterAlt float64

	// FOV extent in degrees
	FOVWidth  float64
	FOVHeight float64

	// Screen size in pixels
	WidthPx  int
	HeightPx int

	// RollDeg rotates the projection about the view axis
	RollDeg float64

	// IncludeOffscreen keeps stars outside the FOV in the star lists,
	// flagged in_fov=false
	IncludeOffscreen bool

	// ClipEdgesToScreen clips edge segments to the viewport rectangle
	ClipEdgesToScreen bool
}

// ResolveCenter derives the FOV center from explicit values or device
// sensors. Sensor yaw is corrected by headingOffset; pitch by pitchOffset,
// clamped to the valid altitude range. The error distinguishes which half of
// the center is missing.
func ResolveCenter(centerAz, centerAlt, yaw, pitch *float64, headingOffset, pitchOffset float64) (az, alt float64, err error) {
	switch {
	case yaw != nil:
		az = astro.NormalizeDegrees(*yaw + headingOffset)
	case centerAz != nil:
		az = astro.NormalizeDegrees(*centerAz)
	default:
		return 0, 0, astro.BadInput("Requiere fov_center_az_deg o yaw_deg")
	}

	switch {
	case pitch != nil:
		alt = astro.ClampDegrees(*pitch+pitchOffset, -90, 90)
	case centerAlt != nil:
		alt = astro.ClampDegrees(*centerAlt, -90, 90)
	default:
		return 0, 0, astro.BadInput("Requiere fov_center_alt_deg o pitch_deg")
	}

	return az, alt, nil
}

// project maps a sky direction to screen pixels. The returned inFOV flag is
// the angular test; on-screen is judged on the pixel rectangle afterwards.
func (o *ScreenOptions) project(altDeg, azDeg float64) (x, y float64, inFOV bool) {
	dAz := astro.DeltaAz(o.CenterAz, azDeg)
	dAlt := altDeg - o.CenterAlt

	inFOV = math.Abs(dAz) <= o.FOVWidth/2 && math.Abs(dAlt) <= o.FOVHeight/2

	// NDC in [-1, 1]; v is negated so up on the sky is up on screen
	u := dAz / (o.FOVWidth / 2)
	v := -dAlt / (o.FOVHeight / 2)

	// Rotate by -roll so a clockwise device roll counter-rotates the sky
	r := o.RollDeg * math.Pi / 180
	ur := u*math.Cos(r) + v*math.Sin(r)
	vr := -u*math.Sin(r) + v*math.Cos(r)

	x = (ur*0.5 + 0.5) * float64(o.WidthPx)
	y = (vr*0.5 + 0.5) * float64(o.HeightPx)
	return x, y, inFOV
}

// ProjectFrames projects constellation frames through the FOV and orientation
// model into screen pixels. Output ordering follows the frame and definition
// ordering, never map iteration.
func (s *Service) ProjectFrames(obs astro.Observer, t time.Time, opts ScreenOptions) ([]ScreenFrame, error) {
	frames, err := s.Frames(obs, t, opts.Frames)
	if err != nil {
		return nil, err
	}

	w := float64(opts.WidthPx)
	h := float64(opts.HeightPx)

	out := make([]ScreenFrame, 0, len(frames))
	for _, frame := range frames {
		sf := ScreenFrame{
			Name:         frame.Name,
			At:           frame.At,
			BelowHorizon: frame.BelowHorizon,
			Style:        frame.Style,
			Stars:        []ScreenStar{},
			Edges:        []ScreenEdge{},
		}

		// Every star is projected so edges can reference stars that were
		// themselves filtered from the output list.
		projected := make(map[string]ScreenStar, len(frame.Stars))
		for _, st := range frame.Stars {
			x, y, inFOV := opts.project(st.Altitude, st.Azimuth)
			ss := ScreenStar{
				Name:      st.Name,
				Magnitude: st.Magnitude,
				XPx:       x,
				YPx:       y,
				InFOV:     inFOV,
				OnScreen:  x >= 0 && x <= w && y >= 0 && y <= h,
				Altitude:  st.Altitude,
				Azimuth:   st.Azimuth,
			}
			projected[st.Name] = ss

			if inFOV || opts.IncludeOffscreen {
				sf.Stars = append(sf.Stars, ss)
			}
		}

		for _, e := range frame.Edges {
			a, okA := projected[e[0]]
			b, okB := projected[e[1]]
			if !okA || !okB {
				continue
			}

			x1, y1, x2, y2 := a.XPx, a.YPx, b.XPx, b.YPx
			if opts.ClipEdgesToScreen {
				var visible bool
				x1, y1, x2, y2, visible = clipSegment(x1, y1, x2, y2, w, h)
				if !visible {
					continue
				}
			}
			sf.Edges = append(sf.Edges, ScreenEdge{
				From: e[0], To: e[1],
				X1Px: x1, Y1Px: y1, X2Px: x2, Y2Px: y2,
			})
		}

		out = append(out, sf)
	}
	return out, nil
}

// clipSegment clips a segment to [0, w] x [0, h] with the Liang-Barsky
// algorithm. visible=false means the segment lies entirely outside.
func clipSegment(x1, y1, x2, y2, w, h float64) (cx1, cy1, cx2, cy2 float64, visible bool) {
	dx := x2 - x1
	dy := y2 - y1

	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x1},     // left: x >= 0
		{dx, w - x1},  // right: x <= w
		{-dy, y1},     // top: y >= 0
		{dy, h - y1},  // bottom: y <= h
	}

	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}

	if t0 > t1 {
		return 0, 0, 0, 0, false
	}
	return x1 + t0*dx, y1 + t0*dy, x1 + t1*dx, y1 + t1*dy, true
}

// Label is one selected on-screen star label.
type Label struct {
	Name      string  `json:"name"`
	Magnitude float64 `json:"magnitude"`
	XPx       float64 `json:"x_px"`
	YPx       float64 `json:"y_px"`
}

// LabelOptions controls greedy label selection.
type LabelOptions struct {
	// MaxLabels caps the number of labels
	MaxLabels int

	// MaxMagnitude excludes stars fainter than this
	MaxMagnitude float64

	// MinSeparationPx rejects labels closer than this to an accepted one
	MinSeparationPx float64
}

// Labels picks non-colliding labels for on-screen stars, brightest first with
// name as the deterministic tie break.
func (s *Service) Labels(obs astro.Observer, t time.Time, opts ScreenOptions, lo LabelOptions) ([]Label, error) {
	frames, err := s.ProjectFrames(obs, t, opts)
	if err != nil {
		return nil, err
	}

	var candidates []ScreenStar
	for _, f := range frames {
		for _, st := range f.Stars {
			if st.OnScreen && st.Magnitude <= lo.MaxMagnitude {
				candidates = append(candidates, st)
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Magnitude != candidates[j].Magnitude {
			return candidates[i].Magnitude < candidates[j].Magnitude
		}
		return candidates[i].Name < candidates[j].Name
	})

	labels := []Label{}
	for _, c := range candidates {
		if lo.MaxLabels > 0 && len(labels) >= lo.MaxLabels {
			break
		}
		tooClose := false
		for _, l := range labels {
			dx := c.XPx - l.XPx
			dy := c.YPx - l.YPx
			if math.Hypot(dx, dy) < lo.MinSeparationPx {
				tooClose = true
				break
			}
		}
		if !tooClose {
			labels = append(labels, Label{
				Name:      c.Name,
				Magnitude: c.Magnitude,
				XPx:       c.XPx,
				YPx:       c.YPx,
			})
		}
	}
	return labels, nil
}
