package sky

import (
	"math"
	"sort"
	"time"

	"github.com/skyviewlabs/skyview-api/internal/astro"
	"github.com/skyviewlabs/skyview-api/internal/ephemeris"
)

// BodyPosition is a solar-system body placed in the observer's sky.
type BodyPosition struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Altitude float64 `json:"altitude_deg"`
	Azimuth  float64 `json:"azimuth_deg"`

	Magnitude  *float64 `json:"magnitude,omitempty"`
	Phase      *float64 `json:"phase,omitempty"`
	DistanceKM *float64 `json:"distance_km,omitempty"`
	DistanceAU *float64 `json:"distance_au,omitempty"`
}

// bodyNames maps bodies to their display names.
var bodyNames = map[ephemeris.Body]string{
	ephemeris.BodySun:     "Sol",
	ephemeris.BodyMoon:    "Luna",
	ephemeris.BodyMercury: "Mercurio",
	ephemeris.BodyVenus:   "Venus",
	ephemeris.BodyMars:    "Marte",
	ephemeris.BodyJupiter: "Júpiter",
	ephemeris.BodySaturn:  "Saturno",
	ephemeris.BodyUranus:  "Urano",
	ephemeris.BodyNeptune: "Neptuno",
}

func bodyType(b ephemeris.Body) string {
	switch b {
	case ephemeris.BodySun:
		return "sun"
	case ephemeris.BodyMoon:
		return "moon"
	default:
		return "planet"
	}
}

// bodyMagnitude evaluates the closed-form visual magnitude for a body from
// its heliocentric distance r (AU), geocentric distance (AU or km for the
// Moon), and phase angle alpha (degrees).
func bodyMagnitude(b ephemeris.Body, app ephemeris.Apparent) float64 {
	alpha := app.PhaseAngleDeg

	switch b {
	case ephemeris.BodySun:
		return -26.74
	case ephemeris.BodyMoon:
		return -12.7 + 0.026*math.Abs(alpha) + 4e-9*math.Pow(alpha, 4) +
			5*math.Log10(app.DistanceKM/384400.0)
	}

	l := 5 * math.Log10(app.HelioDistanceAU*app.DistanceAU)

	switch b {
	case ephemeris.BodyMercury:
		return -0.60 + l + 0.0380*alpha - 2.73e-4*alpha*alpha + 2e-6*alpha*alpha*alpha
	case ephemeris.BodyVenus:
		return -4.47 + l + 0.036*alpha - 4.84e-7*alpha*alpha*alpha
	case ephemeris.BodyMars:
		return -1.52 + l + 0.016*alpha
	case ephemeris.BodyJupiter:
		return -9.40 + l + 0.005*alpha
	case ephemeris.BodySaturn:
		return -8.88 + l + 0.044*alpha
	case ephemeris.BodyUranus:
		return -7.19 + l + 0.002*alpha
	case ephemeris.BodyNeptune:
		return -6.87 + l
	}
	return 0
}

// VisibleBodies resolves the Sun, the Moon, and the seven planets for an
// observer and instant. Bodies below minAltitude are dropped; output is
// ordered by altitude descending, azimuth ascending on ties. A failure
// observing one body drops that body only.
func (s *Service) VisibleBodies(obs astro.Observer, t time.Time, minAltitude float64) []BodyPosition {
	out := make([]BodyPosition, 0, len(ephemeris.Bodies))

	for _, b := range ephemeris.Bodies {
		app, err := s.provider.Observe(b, obs, t)
		if err != nil {
			continue
		}
		if app.Altitude < minAltitude {
			continue
		}

		mag := bodyMagnitude(b, app)
		pos := BodyPosition{
			Name:      bodyNames[b],
			Type:      bodyType(b),
			Altitude:  app.Altitude,
			Azimuth:   app.Azimuth,
			Magnitude: &mag,
		}

		switch b {
		case ephemeris.BodyMoon:
			illum := app.IlluminatedFraction
			pos.Phase = &illum
			km := app.DistanceKM
			pos.DistanceKM = &km
		default:
			au := app.DistanceAU
			pos.DistanceAU = &au
		}

		out = append(out, pos)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Altitude != out[j].Altitude {
			return out[i].Altitude > out[j].Altitude
		}
		return out[i].Azimuth < out[j].Azimuth
	})

	return out
}
