package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/agencydesk/internal/auth/domain"
	invoicedomain "github.com/smallbiznis/agencydesk/internal/invoice/domain"
)

type listInvoicesQuery struct {
	ClientID  string `form:"client_id"`
	Status    string `form:"status"`
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

type updateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft sent paid cancelled"`
}

// ListInvoices returns every invoice to admins, optionally filtered by
// client_id. Clients only ever see their own tenant.
func (s *Server) ListInvoices(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}

	var query listInvoicesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var clientID *snowflake.ID
	switch {
	case session.IsAdmin():
		parsed, err := parseOptionalSnowflakeID(query.ClientID)
		if err != nil {
			AbortWithError(c, newValidationError("client_id", "invalid_client_id", "invalid client_id"))
			return
		}
		clientID = parsed
	case session.ClientID != nil:
		own := *session.ClientID
		clientID = &own
	default:
		AbortWithError(c, authdomain.ForbiddenResource(authdomain.ResourceInvoice))
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		ClientID:  clientID,
		Status:    strings.TrimSpace(query.Status),
		PageToken: strings.TrimSpace(query.PageToken),
		PageSize:  query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Invoices, "page_info": resp.PageInfo})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	invoice, ok := s.loadInvoice(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

func (s *Server) ListInvoiceItems(c *gin.Context) {
	invoice, ok := s.loadInvoice(c)
	if !ok {
		return
	}

	items, err := s.invoiceSvc.ListItems(c.Request.Context(), *invoice)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) UpdateInvoiceStatus(c *gin.Context) {
	invoice, ok := s.loadInvoice(c)
	if !ok {
		return
	}

	var req updateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := s.validate.Struct(req); err != nil {
		AbortWithError(c, fromValidator(err))
		return
	}

	updated, err := s.invoiceSvc.UpdateStatus(c.Request.Context(), *invoice, invoicedomain.UpdateStatusRequest{
		Status: req.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": updated})
}

func (s *Server) loadInvoice(c *gin.Context) (*invoicedomain.Invoice, bool) {
	session, ok := mustSession(c)
	if !ok {
		return nil, false
	}
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}

	invoice, err := s.gate.LoadInvoiceOr403(c.Request.Context(), id, session)
	if err != nil {
		AbortWithError(c, err)
		return nil, false
	}
	return invoice, true
}
