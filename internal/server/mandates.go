package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetMandateByID returns a mandate with its tasks.
func (s *Server) GetMandateByID(c *gin.Context) {
	item, err := s.mandateSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}
