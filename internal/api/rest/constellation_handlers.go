package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyviewlabs/skyview-api/internal/catalog"
	"github.com/skyviewlabs/skyview-api/internal/sky"
)

func (s *Server) listConstellations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"constellations": catalog.ConstellationNames()})
}

func (s *Server) getConstellationFrame(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		badRequest(c, "Parámetro name requerido")
		return
	}

	obs, ok := observerParams(c)
	if !ok {
		return
	}
	at, ok := atParam(c, "at")
	if !ok {
		return
	}

	frame, err := s.sky.Frame(name, obs, at)
	if err != nil {
		// Unknown names (and any other frame failure) soften to an empty
		// frame with 200 for backward compatibility
		c.JSON(http.StatusOK, gin.H{
			"name":  name,
			"stars": []sky.StarPosition{},
			"edges": [][2]string{},
			"error": err.Error(),
		})
		return
	}

	// The altitude gate trims the star list; edges stay verbatim
	minAlt := floatParam(c, "min_alt", 0)
	kept := make([]sky.StarPosition, 0, len(frame.Stars))
	for _, st := range frame.Stars {
		if st.Altitude >= minAlt {
			kept = append(kept, st)
		}
	}
	frame.Stars = kept

	c.JSON(http.StatusOK, frame)
}

func (s *Server) getConstellationsFrames(c *gin.Context) {
	obs, ok := observerParams(c)
	if !ok {
		return
	}
	at, ok := atParam(c, "at")
	if !ok {
		return
	}

	frames, err := s.sky.Frames(obs, at, framesOptionsParams(c))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"frames": []sky.Frame{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"at": atLabel(c, "at"), "frames": frames})
}

func (s *Server) getConstellationsVisible(c *gin.Context) {
	obs, ok := observerParams(c)
	if !ok {
		return
	}
	at, ok := atParam(c, "at")
	if !ok {
		return
	}

	summaries, err := s.sky.Summaries(obs, at, framesOptionsParams(c))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"at": atLabel(c, "at"), "constellations": []sky.ConstellationSummary{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"at": atLabel(c, "at"), "constellations": summaries})
}
