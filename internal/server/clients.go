package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	provisioningdomain "github.com/smallbiznis/agencydesk/internal/provisioning/domain"
)

type provisionPackageRequest struct {
	PackageID   json.Number `json:"package_id" validate:"required,numeric"`
	CustomPrice json.Number `json:"custom_price" validate:"omitempty,number"`
	StartDate   string      `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

type assignPackageRequest struct {
	PackageID      json.Number `json:"package_id" validate:"required,numeric"`
	MandateID      json.Number `json:"mandate_id" validate:"omitempty,numeric"`
	PurchasedPrice json.Number `json:"purchased_price" validate:"omitempty,number"`
	StartDate      string      `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

func (s *Server) GetClientByID(c *gin.Context) {
	item, err := s.clientSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) ListClientPackages(c *gin.Context) {
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}

	items, err := s.provisioningSvc.ListClientPackages(c.Request.Context(), clientID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) ProvisionPackage(c *gin.Context) {
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req provisionPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		AbortWithError(c, fromValidator(err))
		return
	}

	packageID, _ := parseOptionalSnowflakeID(req.PackageID.String())
	customPrice, err := parseOptionalDecimal(req.CustomPrice.String())
	if err != nil || (customPrice != nil && customPrice.IsNegative()) {
		AbortWithError(c, newValidationError("custom_price", "invalid_custom_price", "invalid custom_price"))
		return
	}
	startDate, _ := parseOptionalDate(req.StartDate)

	provisionReq := provisioningdomain.ProvisionRequest{
		ClientID:    clientID,
		CustomPrice: customPrice,
		StartDate:   startDate,
	}
	if packageID != nil {
		provisionReq.PackageID = *packageID
	}

	result, err := s.provisioningSvc.ProvisionPackageForClient(c.Request.Context(), provisionReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) AssignPackage(c *gin.Context) {
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req assignPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		AbortWithError(c, fromValidator(err))
		return
	}

	packageID, _ := parseOptionalSnowflakeID(req.PackageID.String())
	mandateID, err := parseOptionalSnowflakeID(req.MandateID.String())
	if err != nil {
		AbortWithError(c, newValidationError("mandate_id", "invalid_mandate_id", "invalid mandate_id"))
		return
	}
	price, err := parseOptionalDecimal(req.PurchasedPrice.String())
	if err != nil || (price != nil && price.IsNegative()) {
		AbortWithError(c, newValidationError("purchased_price", "invalid_purchased_price", "invalid purchased_price"))
		return
	}
	startDate, _ := parseOptionalDate(req.StartDate)

	assignReq := provisioningdomain.AssignRequest{
		ClientID:       clientID,
		MandateID:      mandateID,
		PurchasedPrice: price,
		StartDate:      startDate,
	}
	if packageID != nil {
		assignReq.PackageID = *packageID
	}

	item, err := s.provisioningSvc.AssignPackageToClient(c.Request.Context(), assignReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": item})
}
