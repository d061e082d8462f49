package sky

import (
	"time"

	"github.com/skyviewlabs/skyview-api/internal/astro"
)

// StarFrame is one instant's star list inside a batch response.
type StarFrame struct {
	At    string         `json:"at"`
	Stars []StarPosition `json:"stars"`
}

// BodyFrame is one instant's body list inside a batch response.
type BodyFrame struct {
	At     string         `json:"at"`
	Bodies []BodyPosition `json:"bodies"`
}

// batchInstants expands [t0, t1] into sampling instants every stepHours.
// An empty or inverted window yields no instants; a non-positive step falls
// back to one hour.
func batchInstants(t0, t1 time.Time, stepHours float64) []time.Time {
	if !t1.After(t0) {
		return nil
	}
	if stepHours <= 0 {
		stepHours = 1
	}
	step := time.Duration(stepHours * float64(time.Hour))

	var out []time.Time
	for t := t0; !t.After(t1); t = t.Add(step) {
		out = append(out, t)
	}
	return out
}

// VisibleStarsBatch resolves the fast star path at every step inside the
// window. A failure at one instant drops that frame only.
func (s *Service) VisibleStarsBatch(obs astro.Observer, t0, t1 time.Time, stepHours float64, q StarQuery) []StarFrame {
	frames := []StarFrame{}
	for _, t := range batchInstants(t0, t1, stepHours) {
		stars, err := s.VisibleStars(obs, t, q)
		if err != nil {
			continue
		}
		frames = append(frames, StarFrame{At: astro.FormatUTC(t), Stars: stars})
	}
	return frames
}

// VisibleBodiesBatch resolves the body list at every step inside the window.
func (s *Service) VisibleBodiesBatch(obs astro.Observer, t0, t1 time.Time, stepHours float64, minAltitude float64, limit int) []BodyFrame {
	frames := []BodyFrame{}
	for _, t := range batchInstants(t0, t1, stepHours) {
		bodies := s.VisibleBodies(obs, t, minAltitude)
		if limit > 0 && len(bodies) > limit {
			bodies = bodies[:limit]
		}
		frames = append(frames, BodyFrame{At: astro.FormatUTC(t), Bodies: bodies})
	}
	return frames
}
