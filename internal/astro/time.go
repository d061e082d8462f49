package astro

import (
	"math"
	"strings"
	"time"
)

// badInput carries a user-facing detail message and unwraps to ErrBadInput so
// the HTTP layer can match the category without parsing strings.
type badInput struct {
	detail string
}

func (e *badInput) Error() string { return e.detail }

func (e *badInput) Unwrap() error { return ErrBadInput }

// BadInput wraps a user-facing detail message as an ErrBadInput.
func BadInput(detail string) error {
	return &badInput{detail: detail}
}

// isoLayouts are the accepted ISO-8601 shapes, tried in order. Offsets are
// honored and converted to UTC; layouts without an offset are taken as UTC.
var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseUTC parses an ISO-8601 timestamp and returns it in UTC. A trailing "Z"
// is normalized to "+00:00" first. An empty or all-space string means the
// current UTC instant.
func ParseUTC(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().UTC(), nil
	}
	if strings.HasSuffix(s, "Z") {
		s = s[:len(s)-1] + "+00:00"
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, BadInput("Fecha/hora inválida. Use ISO 8601, por ejemplo: 2024-01-01T02:30:00Z")
}

// FormatUTC renders an instant as "YYYY-MM-DDTHH:MM:SSZ".
func FormatUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// JulianDate computes the Julian Date for an instant using the Meeus
// algorithm with the Gregorian calendar correction.
func JulianDate(t time.Time) float64 {
	t = t.UTC()

	year := t.Year()
	month := int(t.Month())
	if month <= 2 {
		year--
		month += 12
	}

	a := year / 100
	b := 2 - a + a/4

	sec := float64(t.Second()) + float64(t.Nanosecond())/1e9
	dayFraction := (float64(t.Hour()) + (float64(t.Minute())+sec/60.0)/60.0) / 24.0

	return math.Trunc(365.25*float64(year+4716)) +
		math.Trunc(30.6001*float64(month+1)) +
		float64(t.Day()) + float64(b) - 1524.5 + dayFraction
}

// GMSTHours returns the Greenwich Mean Sidereal Time in hours, [0, 24).
func GMSTHours(t time.Time) float64 {
	d := JulianDate(t) - J2000
	return NormalizeHours(18.697374558 + 24.06570982441908*d)
}

// LSTHours returns the Local Mean Sidereal Time in hours for a longitude,
// [0, 24).
func LSTHours(longitudeDeg float64, t time.Time) float64 {
	return NormalizeHours(GMSTHours(t) + longitudeDeg/15.0)
}
