package ephemeris

import (
	"fmt"
	"math"
	"time"

	"github.com/skyviewlabs/skyview-api/internal/astro"
)

const (
	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi

	// Earth's axial tilt in degrees (J2000)
	obliquity = 23.439291

	// One astronomical unit in kilometers
	auKM = 149597870.7
)

// MeeusProvider is the built-in SolarSystemProvider. It evaluates
// low-precision closed-form series (Meeus-style mean elements) with no
// external data files, so construction is cheap and calls never block.
type MeeusProvider struct{}

// NewMeeusProvider creates the built-in provider.
func NewMeeusProvider() *MeeusProvider {
	return &MeeusProvider{}
}

// orbitalElements holds simplified mean elements for one planet: mean
// longitude at epoch and rate, semi-major axis, eccentricity, inclination,
// ascending node, and longitude of perihelion.
type orbitalElements struct {
	l0, lRate  float64
	a          float64
	e          float64
	i          float64
	node       float64
	perihelion float64
}

var planetElements = map[Body]orbitalElements{
	BodyMercury: {252.251, 149474.0722, 0.38710, 0.20563, 7.005, 48.331, 77.456},
	BodyVenus:   {181.980, 58519.2130, 0.72333, 0.00677, 3.395, 76.680, 131.533},
	BodyMars:    {355.433, 19141.6964, 1.52368, 0.09340, 1.850, 49.558, 336.060},
	BodyJupiter: {34.351, 3036.3027, 5.20260, 0.04849, 1.303, 100.464, 14.331},
	BodySaturn:  {50.077, 1223.5110, 9.55491, 0.05551, 2.489, 113.665, 93.057},
	BodyUranus:  {314.055, 429.8640, 19.21845, 0.04630, 0.773, 74.006, 173.005},
	BodyNeptune: {304.349, 219.8833, 30.11039, 0.00899, 1.770, 131.784, 48.124},
}

func mod360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// sunEcliptic returns the Sun's geocentric ecliptic longitude (degrees) and
// distance (AU).
func sunEcliptic(t time.Time) (lambdaDeg, distAU float64) {
	n := astro.JulianDate(t) - astro.J2000

	l := mod360(280.460 + 0.9856474*n)
	g := mod360(357.528+0.9856003*n) * deg2rad

	lambdaDeg = mod360(l + 1.915*math.Sin(g) + 0.020*math.Sin(2*g))
	distAU = 1.00014 - 0.01671*math.Cos(g) - 0.00014*math.Cos(2*g)
	return lambdaDeg, distAU
}

// moonEcliptic returns the Moon's geocentric ecliptic longitude and latitude
// (degrees) and distance (km), from the principal series terms.
func moonEcliptic(t time.Time) (lambdaDeg, betaDeg, distKM float64) {
	d := astro.JulianDate(t) - astro.J2000

	l := mod360(218.316 + 13.176396*d)       // mean longitude
	m := mod360(134.963+13.064993*d) * deg2rad // mean anomaly
	f := mod360(93.272+13.229350*d) * deg2rad  // argument of latitude

	lambdaDeg = mod360(l + 6.289*math.Sin(m))
	betaDeg = 5.128 * math.Sin(f)
	distKM = 385001 - 20905*math.Cos(m)
	return lambdaDeg, betaDeg, distKM
}

// eclipticToEquatorial rotates ecliptic coordinates (degrees) to RA/Dec
// (degrees) using the J2000 mean obliquity.
func eclipticToEquatorial(lambdaDeg, betaDeg float64) (raDeg, decDeg float64) {
	lr := lambdaDeg * deg2rad
	br := betaDeg * deg2rad
	er := obliquity * deg2rad

	raDeg = math.Atan2(
		math.Sin(lr)*math.Cos(er)-math.Tan(br)*math.Sin(er),
		math.Cos(lr),
	) * rad2deg
	raDeg = mod360(raDeg)

	decDeg = math.Asin(
		math.Sin(br)*math.Cos(er)+math.Cos(br)*math.Sin(er)*math.Sin(lr),
	) * rad2deg
	return raDeg, decDeg
}

// planetHelio returns a planet's heliocentric ecliptic position (AU) and
// radius (AU) from the simplified mean elements.
func planetHelio(el orbitalElements, t time.Time) (x, y, z, r float64) {
	d := astro.JulianDate(t) - astro.J2000

	l := mod360(el.l0 + el.lRate*d/36525)
	m := mod360(l - el.perihelion)
	mRad := m * deg2rad

	// Eccentric anomaly: first approximation plus one Newton step
	eDeg := el.e * rad2deg
	ecc := m + eDeg*math.Sin(mRad)*(1+el.e*math.Cos(mRad))
	eRad := ecc * deg2rad
	eRad -= (eRad - el.e*math.Sin(eRad) - mRad) / (1 - el.e*math.Cos(eRad))

	xv := el.a * (math.Cos(eRad) - el.e)
	yv := el.a * math.Sqrt(1-el.e*el.e) * math.Sin(eRad)
	v := math.Atan2(yv, xv) * rad2deg
	r = math.Sqrt(xv*xv + yv*yv)

	// Argument of latitude and rotation through node and inclination
	u := (v + el.perihelion - el.node) * deg2rad
	nodeRad := el.node * deg2rad
	incRad := el.i * deg2rad

	x = r * (math.Cos(nodeRad)*math.Cos(u) - math.Sin(nodeRad)*math.Sin(u)*math.Cos(incRad))
	y = r * (math.Sin(nodeRad)*math.Cos(u) + math.Cos(nodeRad)*math.Sin(u)*math.Cos(incRad))
	z = r * math.Sin(u) * math.Sin(incRad)
	return x, y, z, r
}

// Observe returns the position of a body for an observer. RA/Dec are
// geocentric; the horizontal direction is derived from them without a
// parallax correction.
func (p *MeeusProvider) Observe(body Body, obs astro.Observer, t time.Time) (Apparent, error) {
	lambdaSun, sunDist := sunEcliptic(t)

	var app Apparent

	switch body {
	case BodySun:
		app.RADeg, app.DecDeg = eclipticToEquatorial(lambdaSun, 0)
		app.DistanceAU = sunDist
		app.IlluminatedFraction = 1

	case BodyMoon:
		lambda, beta, distKM := moonEcliptic(t)
		app.RADeg, app.DecDeg = eclipticToEquatorial(lambda, beta)
		app.DistanceKM = distKM
		app.DistanceAU = distKM / auKM

		// Phase angle from elongation; the Moon is close enough that
		// alpha = 180 - elongation holds to a fraction of a degree.
		elong := math.Acos(clamp1(
			math.Cos(beta*deg2rad) * math.Cos((lambda-lambdaSun)*deg2rad),
		)) * rad2deg
		app.PhaseAngleDeg = 180 - elong
		app.IlluminatedFraction = (1 + math.Cos(app.PhaseAngleDeg*deg2rad)) / 2

	default:
		el, ok := planetElements[body]
		if !ok {
			return Apparent{}, fmt.Errorf("unknown body %q", body)
		}
		xh, yh, zh, r := planetHelio(el, t)

		// Earth's heliocentric position is the reflected geocentric Sun
		lsRad := lambdaSun * deg2rad
		xg := xh + sunDist*math.Cos(lsRad)
		yg := yh + sunDist*math.Sin(lsRad)
		zg := zh

		delta := math.Sqrt(xg*xg + yg*yg + zg*zg)
		lambdaGeo := mod360(math.Atan2(yg, xg) * rad2deg)
		betaGeo := math.Asin(zg/delta) * rad2deg

		app.RADeg, app.DecDeg = eclipticToEquatorial(lambdaGeo, betaGeo)
		app.DistanceAU = delta
		app.HelioDistanceAU = r

		cosAlpha := clamp1((r*r + delta*delta - sunDist*sunDist) / (2 * r * delta))
		app.PhaseAngleDeg = math.Acos(cosAlpha) * rad2deg
		app.IlluminatedFraction = (1 + cosAlpha) / 2
	}

	lst := astro.LSTHours(obs.Longitude, t)
	h := astro.EquatorialToHorizontal(app.RADeg/15.0, app.DecDeg, obs.Latitude, lst)
	app.Altitude = h.Altitude
	app.Azimuth = h.Azimuth

	return app, nil
}

// ObserveStar returns the topocentric apparent position of a J2000 catalog
// star, applying annual-rate precession to date. This is the accurate star
// path; the fast path uses raw catalog coordinates.
func (p *MeeusProvider) ObserveStar(raHours, decDeg float64, obs astro.Observer, t time.Time) (Apparent, error) {
	years := (astro.JulianDate(t) - astro.J2000) / 365.25

	// Annual precession rates: m, n in seconds of RA, n' in arcseconds
	const (
		mSec    = 3.07496
		nSec    = 1.33621
		nArcsec = 20.0431
	)

	raRad := raHours * 15 * deg2rad
	decRad := decDeg * deg2rad

	dRaSec := mSec + nSec*math.Sin(raRad)*math.Tan(decRad)
	dDecArcsec := nArcsec * math.Cos(raRad)

	ra := raHours + years*dRaSec/3600.0
	dec := decDeg + years*dDecArcsec/3600.0
	ra = math.Mod(ra, 24)
	if ra < 0 {
		ra += 24
	}
	if dec > 90 {
		dec = 90
	}
	if dec < -90 {
		dec = -90
	}

	lst := astro.LSTHours(obs.Longitude, t)
	h := astro.EquatorialToHorizontal(ra, dec, obs.Latitude, lst)

	return Apparent{
		Altitude: h.Altitude,
		Azimuth:  h.Azimuth,
		RADeg:    ra * 15,
		DecDeg:   dec,
	}, nil
}

// RisingsAndSettings scans the window for horizon crossings of a body and
// refines each crossing by bisection.
func (p *MeeusProvider) RisingsAndSettings(body Body, obs astro.Observer, t0, t1 time.Time) ([]Transition, error) {
	if !t1.After(t0) {
		return nil, nil
	}

	const step = 10 * time.Minute

	above := func(t time.Time) (bool, float64, error) {
		app, err := p.Observe(body, obs, t)
		if err != nil {
			return false, 0, err
		}
		return app.Altitude > 0, app.Azimuth, nil
	}

	var out []Transition

	prevT := t0
	prevUp, _, err := above(t0)
	if err != nil {
		return nil, err
	}

	for cur := t0.Add(step); ; cur = cur.Add(step) {
		if cur.After(t1) {
			cur = t1
		}
		up, _, err := above(cur)
		if err != nil {
			return nil, err
		}

		if up != prevUp {
			lo, hi := prevT, cur
			for hi.Sub(lo) > time.Second {
				mid := lo.Add(hi.Sub(lo) / 2)
				midUp, _, err := above(mid)
				if err != nil {
					return nil, err
				}
				if midUp == prevUp {
					lo = mid
				} else {
					hi = mid
				}
			}
			_, az, err := above(hi)
			if err != nil {
				return nil, err
			}
			if hi.After(t0) && hi.Before(t1) {
				out = append(out, Transition{Time: hi, Rising: up, AzimuthDeg: az})
			}
		}

		if !cur.Before(t1) {
			break
		}
		prevT, prevUp = cur, up
	}

	return out, nil
}

// moonQuarterAt returns the four-valued lunar phase at an instant: the
// quadrant of the Moon-Sun elongation in longitude.
func moonQuarterAt(t time.Time) int {
	lambdaSun, _ := sunEcliptic(t)
	lambdaMoon, _, _ := moonEcliptic(t)
	return int(mod360(lambdaMoon-lambdaSun) / 90.0)
}

// MoonQuarters scans the window for principal phase transitions.
func (p *MeeusProvider) MoonQuarters(t0, t1 time.Time) ([]QuarterEvent, error) {
	if !t1.After(t0) {
		return nil, nil
	}

	const step = time.Hour

	var out []QuarterEvent

	prevT := t0
	prevQ := moonQuarterAt(t0)

	for cur := t0.Add(step); ; cur = cur.Add(step) {
		if cur.After(t1) {
			cur = t1
		}
		q := moonQuarterAt(cur)

		if q != prevQ {
			lo, hi := prevT, cur
			for hi.Sub(lo) > time.Second {
				mid := lo.Add(hi.Sub(lo) / 2)
				if moonQuarterAt(mid) == prevQ {
					lo = mid
				} else {
					hi = mid
				}
			}
			if hi.After(t0) && hi.Before(t1) {
				app, err := p.Observe(BodyMoon, astro.Observer{}, hi)
				if err != nil {
					return nil, err
				}
				out = append(out, QuarterEvent{
					Time:                hi,
					Quarter:             moonQuarterAt(hi),
					IlluminatedFraction: app.IlluminatedFraction,
				})
			}
		}

		if !cur.Before(t1) {
			break
		}
		prevT, prevQ = cur, q
	}

	return out, nil
}

func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
