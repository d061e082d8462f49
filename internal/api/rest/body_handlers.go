package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) getVisibleBodies(c *gin.Context) {
	obs, ok := observerParams(c)
	if !ok {
		return
	}
	at, ok := atParam(c, "at")
	if !ok {
		return
	}

	c.JSON(http.StatusOK, s.sky.VisibleBodies(obs, at, -90))
}

func (s *Server) getVisibleBodiesBatch(c *gin.Context) {
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

	frames := s.sky.VisibleBodiesBatch(obs, start, end,
		floatParam(c, "step_hours", 1), -90, intParam(c, "limit", 0))

	c.JSON(http.StatusOK, gin.H{"frames": frames})
}

func (s *Server) getAstronomyEvents(c *gin.Context) {
	obs, ok := observerParams(c)
	if !ok {
		return
	}
	start, ok := requiredAtParam(c, "start_datetime")
	if !ok {
		return
	}
	end, ok := requiredAtParam(c, "end_datetime")
	if !ok {
		return
	}

	c.JSON(http.StatusOK, s.sky.Events(obs, start, end))
}
