package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyviewlabs/skyview-api/internal/sky"
)

func (s *Server) getVisibleStars(c *gin.Context) {
	obs, ok := observerParams(c)
	if !ok {
		return
	}
	at, ok := atParam(c, "at")
	if !ok {
		return
	}

	stars, err := s.sky.VisibleStars(obs, at, sky.StarQuery{
		MinAltitude:  -90,
		MaxMagnitude: optFloatParam(c, "max_mag"),
		Limit:        intParam(c, "limit", 0),
		Sort:         sky.SortMagnitude,
	})
	if err != nil {
		// Degrade to an empty list; the catalog failure is already logged
		c.JSON(http.StatusOK, []sky.StarPosition{})
		return
	}

	c.JSON(http.StatusOK, stars)
}

func (s *Server) getSky(c *gin.Context) {
	obs, ok := observerParams(c)
	if !ok {
		return
	}
	at, ok := atParam(c, "date")
	if !ok {
		return
	}

	stars, err := s.sky.SkyStars(obs, at, sky.StarQuery{
		MinAltitude: -90,
		Sort:        sky.SortNone,
	})
	if err != nil {
		c.JSON(http.StatusOK, []sky.StarPosition{})
		return
	}

	c.JSON(http.StatusOK, stars)
}

func (s *Server) getVisibleStarsBatch(c *gin.Context) {
	obs, ok := observerParams(c)
	if !ok {
		return
	}
	start, ok := requiredAtParam(c, "start")
	if !ok {
		return
	}
	end, ok := requiredAtParam(c, "end")
	if !ok {
		return
	}

	frames := s.sky.VisibleStarsBatch(obs, start, end, floatParam(c, "step_hours", 1), sky.StarQuery{
		MinAltitude:  -90,
		MaxMagnitude: optFloatParam(c, "max_mag"),
		Limit:        intParam(c, "limit", 0),
		Sort:         sky.SortMagnitude,
	})

	c.JSON(http.StatusOK, gin.H{"frames": frames})
}
