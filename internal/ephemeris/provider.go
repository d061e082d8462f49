// Package ephemeris computes topocentric apparent positions for solar-system
// bodies and catalog stars.
//
// The package is consumed through the SolarSystemProvider interface so the
// sky pipeline can be tested against a fake provider; the built-in
// implementation uses low-precision closed-form series (principal terms only;
// the lunar series carries a single periodic term in longitude), which is
// sufficient for rendering and planning.
package ephemeris

import (
	"time"

	"github.com/skyviewlabs/skyview-api/internal/astro"
)

// Body identifies a solar-system body.
type Body string

const (
	BodySun     Body = "sun"
	BodyMoon    Body = "moon"
	BodyMercury Body = "mercury"
	BodyVenus   Body = "venus"
	BodyMars    Body = "mars"
	BodyJupiter Body = "jupiter"
	BodySaturn  Body = "saturn"
	BodyUranus  Body = "uranus"
	BodyNeptune Body = "neptune"
)

// Bodies lists every supported body in presentation order.
var Bodies = []Body{
	BodySun, BodyMoon, BodyMercury, BodyVenus, BodyMars,
	BodyJupiter, BodySaturn, BodyUranus, BodyNeptune,
}

// Planets lists the bodies that rise and set as planets in the event feed.
var Planets = []Body{
	BodyMercury, BodyVenus, BodyMars, BodyJupiter,
	BodySaturn, BodyUranus, BodyNeptune,
}

// Apparent is a topocentric apparent observation of a body or star.
type Apparent struct {
	// Observer-local direction
	Altitude float64
	Azimuth  float64

	// Geocentric equatorial direction, degrees
	RADeg  float64
	DecDeg float64

	// DistanceAU is the geocentric distance in AU (0 for stars)
	DistanceAU float64

	// DistanceKM is the geocentric distance in km (Moon only)
	DistanceKM float64

	// HelioDistanceAU is the heliocentric distance in AU (planets only)
	HelioDistanceAU float64

	// PhaseAngleDeg is the Sun-body-observer angle, degrees
	PhaseAngleDeg float64

	// IlluminatedFraction in [0, 1] (Moon and planets)
	IlluminatedFraction float64
}

// Transition is one above-horizon sign change for a body.
type Transition struct {
	// Time of the horizon crossing
	Time time.Time

	// Rising is true for below->above, false for above->below
	Rising bool

	// AzimuthDeg is the body's azimuth at the crossing
	AzimuthDeg float64
}

// QuarterEvent is one principal lunar phase inside a window.
type QuarterEvent struct {
	// Time of the phase transition
	Time time.Time

	// Quarter: 0 new moon, 1 first quarter, 2 full moon, 3 last quarter
	Quarter int

	// IlluminatedFraction of the lunar disk at that instant, [0, 1]
	IlluminatedFraction float64
}

// SolarSystemProvider yields topocentric apparent observations. Implementations
// must be safe for concurrent use; any lazy resource loading must happen under
// a one-time initializer, not per call.
type SolarSystemProvider interface {
	// Observe returns the apparent position of a body for an observer and
	// instant.
	Observe(body Body, obs astro.Observer, t time.Time) (Apparent, error)

	// ObserveStar returns the apparent position of a J2000 catalog star,
	// including precession to date.
	ObserveStar(raHours, decDeg float64, obs astro.Observer, t time.Time) (Apparent, error)

	// RisingsAndSettings returns every horizon crossing of a body inside
	// [t0, t1], ordered by time.
	RisingsAndSettings(body Body, obs astro.Observer, t0, t1 time.Time) ([]Transition, error)

	// MoonQuarters returns every principal lunar phase inside [t0, t1],
	// ordered by time.
	MoonQuarters(t0, t1 time.Time) ([]QuarterEvent, error)
}
