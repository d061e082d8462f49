package astro

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUTC(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		isErr bool
	}{
		{"ZSuffix", "2025-01-10T03:00:00Z", "2025-01-10T03:00:00Z", false},
		{"ExplicitOffset", "2025-01-10T03:00:00+00:00", "2025-01-10T03:00:00Z", false},
		{"NonUTCOffset", "2025-01-09T22:00:00-05:00", "2025-01-10T03:00:00Z", false},
		{"NaiveAssumedUTC", "2025-01-10T03:00:00", "2025-01-10T03:00:00Z", false},
		{"DateOnly", "2025-01-10", "2025-01-10T00:00:00Z", false},
		{"FractionalSeconds", "2025-01-10T03:00:00.250Z", "2025-01-10T03:00:00Z", false},
		{"Garbage", "not-a-date", "", true},
		{"BadMonth", "2025-13-01T00:00:00Z", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUTC(tt.in)
			if tt.isErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrBadInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatUTC(got))
		})
	}
}

func TestParseUTCEmptyIsNow(t *testing.T) {
	before := time.Now().UTC()
	got, err := ParseUTC("")
	require.NoError(t, err)
	after := time.Now().UTC()

	assert.False(t, got.Before(before.Truncate(time.Second)))
	assert.False(t, got.After(after.Add(time.Second)))
	assert.Equal(t, time.UTC, got.Location())
}

func TestJulianDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		// J2000.0 epoch: 2000-01-01 12:00 UT
		{"J2000", "2000-01-01T12:00:00Z", 2451545.0},
		// Meeus, Astronomical Algorithms, example 7.a
		{"Sputnik", "1957-10-04T19:26:24Z", 2436116.31},
		{"MidnightBoundary", "2025-01-10T00:00:00Z", 2460685.5},
		// January exercises the month <= 2 shift
		{"JanuaryShift", "1987-01-27T00:00:00Z", 2446822.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := time.Parse(time.RFC3339, tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, JulianDate(in), 1e-6)
		})
	}
}

func TestGMSTHoursRange(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 48; i++ {
		g := GMSTHours(start.Add(time.Duration(i) * 30 * time.Minute))
		assert.GreaterOrEqual(t, g, 0.0)
		assert.Less(t, g, 24.0)
	}
}

// Sidereal time advances 1.00273790935 hours per UTC hour modulo 24.
func TestLSTSiderealRate(t *testing.T) {
	const slope = 1.00273790935
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	lst0 := LSTHours(-99.1332, base)

	for h := 1; h <= 24; h++ {
		lst := LSTHours(-99.1332, base.Add(time.Duration(h)*time.Hour))
		want := math.Mod(lst0+slope*float64(h), 24)
		diff := math.Abs(lst - want)
		if diff > 12 {
			diff = 24 - diff
		}
		assert.InDelta(t, 0, diff, 1e-6, "hour %d", h)
	}
}

func TestLSTHoursLongitudeOffset(t *testing.T) {
	at := time.Date(2025, 1, 10, 3, 0, 0, 0, time.UTC)
	gmst := GMSTHours(at)

	assert.InDelta(t, gmst, LSTHours(0, at), 1e-12)
	assert.InDelta(t, NormalizeHours(gmst+4), LSTHours(60, at), 1e-9)
	assert.InDelta(t, NormalizeHours(gmst-6), LSTHours(-90, at), 1e-9)
}

func TestCardinal(t *testing.T) {
	tests := []struct {
		az   float64
		want string
	}{
		{0, "N"}, {22.4, "N"}, {22.6, "NE"}, {45, "NE"},
		{90, "E"}, {135, "SE"}, {180, "S"}, {225, "SW"},
		{270, "W"}, {315, "NW"}, {337.6, "N"}, {359.9, "N"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Cardinal(tt.az), "az %v", tt.az)
	}
}

func TestDeltaAz(t *testing.T) {
	tests := []struct {
		from, to, want float64
	}{
		{0, 10, 10},
		{10, 0, -10},
		{0.1, 359.9, -0.2},
		{359.9, 0.1, 0.2},
		{90, 270, 180},
		{180, 180, 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, DeltaAz(tt.from, tt.to), 1e-9, "from %v to %v", tt.from, tt.to)
	}
}
