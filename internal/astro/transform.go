package astro

import "math"

// HorizontalCoordinates is an observer-local direction.
type HorizontalCoordinates struct {
	// Altitude in degrees above the horizon, [-90, 90]
	Altitude float64 `json:"altitude_deg"`

	// Azimuth in degrees from North through East, [0, 360)
	Azimuth float64 `json:"azimuth_deg"`
}

// EquatorialToHorizontal converts catalog equatorial coordinates to an
// observer-local horizontal direction for a given latitude and local sidereal
// time. No precession or refraction is applied.
func EquatorialToHorizontal(raHours, decDeg, latDeg, lstHours float64) HorizontalCoordinates {
	raRad := raHours * hours2deg * deg2rad
	decRad := decDeg * deg2rad
	latRad := latDeg * deg2rad
	lstRad := lstHours * hours2deg * deg2rad

	haRad := lstRad - raRad

	sinAlt := math.Sin(decRad)*math.Sin(latRad) + math.Cos(decRad)*math.Cos(latRad)*math.Cos(haRad)
	altRad := math.Asin(clamp1(sinAlt))

	// Floor cos(alt) to keep the azimuth quotient finite at the zenith.
	cosAlt := math.Max(1e-9, math.Cos(altRad))
	sinAz := -math.Cos(decRad) * math.Sin(haRad) / cosAlt
	cosAz := (math.Sin(decRad) - math.Sin(altRad)*math.Sin(latRad)) / (cosAlt * math.Cos(latRad))
	azRad := math.Atan2(sinAz, cosAz)

	return HorizontalCoordinates{
		Altitude: altRad * rad2deg,
		Azimuth:  NormalizeDegrees(azRad * rad2deg),
	}
}

// HorizontalToEquatorial inverts EquatorialToHorizontal, returning right
// ascension and declination in degrees for an observer-local direction.
func HorizontalToEquatorial(altDeg, azDeg, latDeg, lstHours float64) (raDeg, decDeg float64) {
	altRad := altDeg * deg2rad
	azRad := azDeg * deg2rad
	latRad := latDeg * deg2rad
	lstRad := lstHours * hours2deg * deg2rad

	sinDec := math.Sin(altRad)*math.Sin(latRad) + math.Cos(altRad)*math.Cos(latRad)*math.Cos(azRad)
	decRad := math.Asin(clamp1(sinDec))

	cosDec := math.Max(1e-9, math.Cos(decRad))
	sinHA := -math.Cos(altRad) * math.Sin(azRad) / cosDec
	cosHA := (math.Sin(altRad) - math.Sin(decRad)*math.Sin(latRad)) / (cosDec * math.Cos(latRad))
	haRad := math.Atan2(sinHA, cosHA)

	raRad := math.Mod(lstRad-haRad, 2*math.Pi)
	if raRad < 0 {
		raRad += 2 * math.Pi
	}

	return raRad * rad2deg, decRad * rad2deg
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
