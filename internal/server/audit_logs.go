package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/agencydesk/internal/audit/domain"
	"github.com/smallbiznis/agencydesk/pkg/db/pagination"
)

// auditLogQuery accepts resource_type/resource_id as aliases of the target
// filters.
type auditLogQuery struct {
	pagination.Pagination
	Action       string `form:"action"`
	TargetType   string `form:"target_type"`
	TargetID     string `form:"target_id"`
	ResourceType string `form:"resource_type"`
	ResourceID   string `form:"resource_id"`
	ActorID      string `form:"actor_id"`
	Since        string `form:"since"`
}

func (q auditLogQuery) request() (auditdomain.ListAuditLogRequest, error) {
	since, err := parseOptionalTime(q.Since, false)
	if err != nil {
		return auditdomain.ListAuditLogRequest{}, newValidationError("since", "invalid_since", "invalid since")
	}
	return auditdomain.ListAuditLogRequest{
		Pagination: pagination.Pagination{
			PageToken: strings.TrimSpace(q.PageToken),
			PageSize:  q.PageSize,
		},
		ListFilter: auditdomain.ListFilter{
			Action:     strings.TrimSpace(q.Action),
			TargetType: firstNonEmpty(q.TargetType, q.ResourceType),
			TargetID:   firstNonEmpty(q.TargetID, q.ResourceID),
			ActorID:    strings.TrimSpace(q.ActorID),
			Since:      since,
		},
	}, nil
}

// ListAuditLogs pages through the audit trail, newest first.
func (s *Server) ListAuditLogs(c *gin.Context) {
	var query auditLogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req, err := query.request()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.auditSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.AuditLogs, "page_info": resp.PageInfo})
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
