package sky

import (
	"time"

	"github.com/skyviewlabs/skyview-api/internal/astro"
)

// RADec is an equatorial direction in degrees.
type RADec struct {
	RADeg  float64 `json:"ra_deg"`
	DecDeg float64 `json:"dec_deg"`
}

// ConstellationAt returns the IAU constellation containing an equatorial
// direction, or ok=false when no boundary polygon contains it.
func (s *Service) ConstellationAt(raDeg, decDeg float64) (string, bool, error) {
	return s.boundaries.FindByRADec(raDeg, decDeg)
}

// ConstellationTowards inverts an observer-local direction to RA/Dec for the
// given instant and looks up the IAU constellation there.
func (s *Service) ConstellationTowards(obs astro.Observer, t time.Time, azDeg, altDeg float64) (name string, ok bool, radec RADec, err error) {
	lst := astro.LSTHours(obs.Longitude, t)
	ra, dec := astro.HorizontalToEquatorial(altDeg, azDeg, obs.Latitude, lst)

	name, ok, err = s.boundaries.FindByRADec(ra, dec)
	return name, ok, RADec{RADeg: ra, DecDeg: dec}, err
}
