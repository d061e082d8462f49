// Package rest exposes the sky computation pipeline over HTTP.
package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyviewlabs/skyview-api/internal/sky"
)

// Config holds server configuration
type Config struct {
	Debug bool
}

// Server holds the HTTP router and its dependencies
type Server struct {
	router *gin.Engine
	sky    *sky.Service
}

// NewServer creates the HTTP server over a sky service.
func NewServer(cfg Config, svc *sky.Service) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router: gin.New(),
		sky:    svc,
	}

	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())

	s.setupRoutes()

	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	// Stars
	s.router.GET("/visible-stars", s.getVisibleStars)
	s.router.GET("/sky", s.getSky)
	s.router.GET("/visible-stars-batch", s.getVisibleStarsBatch)

	// Bodies and events
	s.router.GET("/visible-bodies", s.getVisibleBodies)
	s.router.GET("/visible-bodies-batch", s.getVisibleBodiesBatch)
	s.router.GET("/astronomy-events", s.getAstronomyEvents)

	// Constellations
	s.router.GET("/constellations", s.listConstellations)
	s.router.GET("/constellation-frame", s.getConstellationFrame)
	s.router.GET("/constellations-frames", s.getConstellationsFrames)
	s.router.GET("/constellations-visible", s.getConstellationsVisible)

	// Screen projection
	s.router.GET("/constellations-screen", s.getConstellationsScreen)
	s.router.GET("/constellations-labels", s.getConstellationsLabels)

	// IAU lookup
	s.router.GET("/iau-in-fov", s.getIAUInFOV)
	s.router.GET("/constellation-by-direction", s.getConstellationByDirection)
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// corsMiddleware allows any origin without credentials
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "*")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck returns service health
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
