package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) getIAUInFOV(c *gin.Context) {
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

	name, found, _, err := s.sky.ConstellationTowards(obs, at, az, alt)
	if err != nil || !found {
		c.JSON(http.StatusOK, gin.H{"at": atLabel(c, "at"), "iau_constellation": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"at": atLabel(c, "at"), "iau_constellation": name})
}

func (s *Server) getConstellationByDirection(c *gin.Context) {
	obs, ok := observerParams(c)
	if !ok {
		return
	}
	at, ok := atParam(c, "at")
	if !ok {
		return
	}

	azQ := optFloatParam(c, "az_deg")
	altQ := optFloatParam(c, "alt_deg")
	if azQ == nil || altQ == nil {
		badRequest(c, "Parámetros az_deg y alt_deg requeridos")
		return
	}

	name, found, radec, err := s.sky.ConstellationTowards(obs, at, *azQ, *altQ)

	var constellation any
	if err == nil && found {
		constellation = name
	}

	c.JSON(http.StatusOK, gin.H{
		"at": atLabel(c, "at"),
		"input_alt_az": gin.H{
			"az_deg":  *azQ,
			"alt_deg": *altQ,
		},
		"radec_deg": gin.H{
			"ra_deg":  radec.RADeg,
			"dec_deg": radec.DecDeg,
		},
		"iau_constellation": constellation,
	})
}
