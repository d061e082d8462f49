package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyviewlabs/skyview-api/internal/sky"
)

// screenCenter derives the FOV center from explicit parameters or device
// sensors. A missing half answers 422 so clients can distinguish it from a
// malformed value.
func screenCenter(c *gin.Context) (az, alt float64, ok bool) {
	az, alt, err := sky.ResolveCenter(
		optFloatParam(c, "fov_center_az_deg"),
		optFloatParam(c, "fov_center_alt_deg"),
		optFloatParam(c, "yaw_deg"),
		optFloatParam(c, "pitch_deg"),
		floatParam(c, "heading_offset_deg", 0),
		floatParam(c, "pitch_offset_deg", 0),
	)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return 0, 0, false
	}
	return az, alt, true
}

// screenOptionsParams reads the projection parameter set shared by the screen
// endpoints.
func screenOptionsParams(c *gin.Context, centerAz, centerAlt float64) sky.ScreenOptions {
	return sky.ScreenOptions{
		Frames: sky.FramesOptions{
			MinAltitude:         floatParam(c, "min_alt", 0),
			Names:               namesParam(c),
			IncludeBelowHorizon: boolParam(c, "include_below_horizon", false),
			DimBelowHorizon:     boolParam(c, "dim_below_horizon", true),
			CacheBucketSeconds:  floatParam(c, "cache_bucket_s", 1),
		},
		CenterAz:          centerAz,
		CenterAlt:         centerAlt,
		FOVWidth:          floatParam(c, "fov_h_deg", 60),
		FOVHeight:         floatParam(c, "fov_v_deg", 40),
		WidthPx:           intParam(c, "width_px", 0),
		HeightPx:          intParam(c, "height_px", 0),
		RollDeg:           floatParam(c, "roll_deg", 0),
		IncludeOffscreen:  boolParam(c, "include_offscreen", false),
		ClipEdgesToScreen: boolParam(c, "clip_edges_to_fov", true),
	}
}

func (s *Server) getConstellationsScreen(c *gin.Context) {
	obs, ok := observerParams(c)
	if !ok {
		return
	}
	at, ok := atParam(c, "at")
	if !ok {
		return
	}
	az, alt, ok := screenCenter(c)
	if !ok {
		return
	}

	frames, err := s.sky.ProjectFrames(obs, at, screenOptionsParams(c, az, alt))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"at": atLabel(c, "at"), "frames": []sky.ScreenFrame{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"at": atLabel(c, "at"), "frames": frames})
}

func (s *Server) getConstellationsLabels(c *gin.Context) {
	obs, ok := observerParams(c)
	if !ok {
		return
	}
	at, ok := atParam(c, "at")
	if !ok {
		return
	}
	az, alt, ok := screenCenter(c)
	if !ok {
		return
	}

	labels, err := s.sky.Labels(obs, at, screenOptionsParams(c, az, alt), sky.LabelOptions{
		MaxLabels:       intParam(c, "max_labels", 20),
		MaxMagnitude:    floatParam(c, "max_mag", 4),
		MinSeparationPx: floatParam(c, "min_separation_px", 24),
	})
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"at": atLabel(c, "at"), "labels": []sky.Label{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"at": atLabel(c, "at"), "labels": labels})
}
