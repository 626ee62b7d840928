package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	servicepackagedomain "github.com/smallbiznis/agencydesk/internal/servicepackage/domain"
)

func (s *Server) ListPackages(c *gin.Context) {
	includeInactive := false
	if raw := strings.TrimSpace(c.Query("include_inactive")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			AbortWithError(c, newValidationError("include_inactive", "invalid_include_inactive", "invalid include_inactive"))
			return
		}
		includeInactive = parsed
	}

	items, err := s.packageSvc.List(c.Request.Context(), servicepackagedomain.ListPackageRequest{
		IncludeInactive: includeInactive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetPackageByID(c *gin.Context) {
	item, err := s.packageSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}
