package rest

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skyviewlabs/skyview-api/internal/astro"
	"github.com/skyviewlabs/skyview-api/internal/sky"
)

// timeHint accompanies every 400 for a malformed or missing input.
const timeHint = "Use ISO 8601 UTC con sufijo Z, ej. 2025-01-10T03:00:00Z"

// badRequest writes the structured 400 body.
func badRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"detail": detail,
		"hint":   timeHint,
	})
}

// observerParams reads the required lat/lon pair. A missing or malformed
// value aborts with 400.
func observerParams(c *gin.Context) (astro.Observer, bool) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		badRequest(c, "Parámetro lat inválido o ausente")
		return astro.Observer{}, false
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		badRequest(c, "Parámetro lon inválido o ausente")
		return astro.Observer{}, false
	}
	return astro.Observer{Latitude: lat, Longitude: lon}, true
}

// atParam parses an optional instant query parameter; empty means now (UTC).
// A malformed value aborts with 400.
func atParam(c *gin.Context, name string) (time.Time, bool) {
	t, err := astro.ParseUTC(c.Query(name))
	if err != nil {
		badRequest(c, err.Error())
		return time.Time{}, false
	}
	return t, true
}

// atLabel echoes the caller's instant, or "now" when it was omitted.
func atLabel(c *gin.Context, name string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return "now"
}

// requiredAtParam parses a required instant query parameter.
func requiredAtParam(c *gin.Context, name string) (time.Time, bool) {
	if c.Query(name) == "" {
		badRequest(c, "Parámetro "+name+" requerido")
		return time.Time{}, false
	}
	return atParam(c, name)
}

// floatParam reads an optional float, falling back on absence or garbage.
func floatParam(c *gin.Context, name string, fallback float64) float64 {
	v, err := strconv.ParseFloat(c.Query(name), 64)
	if err != nil {
		return fallback
	}
	return v
}

// optFloatParam reads an optional float as a pointer; nil when absent.
func optFloatParam(c *gin.Context, name string) *float64 {
	v, err := strconv.ParseFloat(c.Query(name), 64)
	if err != nil {
		return nil
	}
	return &v
}

// intParam reads an optional int, falling back on absence or garbage.
func intParam(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}

// boolParam reads an optional bool, falling back on absence or garbage.
func boolParam(c *gin.Context, name string, fallback bool) bool {
	v, err := strconv.ParseBool(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}

// namesParam splits a comma-separated constellation filter; nil when absent.
func namesParam(c *gin.Context) []string {
	raw := c.Query("names")
	if raw == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

// framesOptionsParams reads the option set shared by the frame-producing
// endpoints.
func framesOptionsParams(c *gin.Context) sky.FramesOptions {
	opts := sky.FramesOptions{
		MinAltitude:         floatParam(c, "min_alt", 0),
		Names:               namesParam(c),
		IncludeBelowHorizon: boolParam(c, "include_below_horizon", false),
		DimBelowHorizon:     boolParam(c, "dim_below_horizon", true),
		ClipEdgesToFOV:      boolParam(c, "clip_edges_to_fov", false),
		CacheBucketSeconds:  floatParam(c, "cache_bucket_s", 1),
	}

	azC := optFloatParam(c, "fov_center_az_deg")
	altC := optFloatParam(c, "fov_center_alt_deg")
	w := optFloatParam(c, "fov_h_deg")
	h := optFloatParam(c, "fov_v_deg")
	if azC != nil && altC != nil && w != nil && h != nil {
		opts.FOV = &sky.FOVRect{CenterAz: *azC, CenterAlt: *altC, Width: *w, Height: *h}
	}

	return opts
}
