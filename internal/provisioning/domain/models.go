// Package domain holds the request, result and error types of package provisioning.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	clientpackagedomain "github.com/smallbiznis/agencydesk/internal/clientpackage/domain"
	invoicedomain "github.com/smallbiznis/agencydesk/internal/invoice/domain"
	mandatedomain "github.com/smallbiznis/agencydesk/internal/mandate/domain"
)

// ProvisionRequest selects a package for a client. CustomPrice overrides the
// catalog price and StartDate defaults to today.
type ProvisionRequest struct {
	ClientID    snowflake.ID
	PackageID   snowflake.ID
	CustomPrice *decimal.Decimal
	StartDate   *time.Time
}

// ProvisionedInvoice is an invoice header with the line items written for it.
type ProvisionedInvoice struct {
	invoicedomain.Invoice
	Items []invoicedomain.LineItem `json:"items"`
}

type ProvisionResult struct {
	RunID         string                            `json:"run_id"`
	Mandate       mandatedomain.Mandate             `json:"mandate"`
	Tasks         []mandatedomain.Task              `json:"tasks"`
	Invoices      []ProvisionedInvoice              `json:"invoices"`
	ClientPackage clientpackagedomain.ClientPackage `json:"client_package"`
}

// AssignRequest records the association only. When PurchasedPrice is nil the
// package price is used.
type AssignRequest struct {
	ClientID       snowflake.ID
	PackageID      snowflake.ID
	MandateID      *snowflake.ID
	PurchasedPrice *decimal.Decimal
	StartDate      *time.Time
}

type Service interface {
	ProvisionPackageForClient(ctx context.Context, req ProvisionRequest) (ProvisionResult, error)
	AssignPackageToClient(ctx context.Context, req AssignRequest) (clientpackagedomain.ClientPackage, error)
	ListClientPackages(ctx context.Context, clientID snowflake.ID) ([]clientpackagedomain.ClientPackage, error)
}

var (
	ErrInvalidRequest            = errors.New("invalid_request")
	ErrPackageNotFound           = errors.New("package_not_found")
	ErrClientNotFound            = errors.New("client_not_found")
	ErrInvalidBillingFrequency   = errors.New("invalid_billing_frequency")
	ErrMandateCreationFailed     = errors.New("mandate_creation_failed")
	ErrTaskCreationFailed        = errors.New("task_creation_failed")
	ErrInvoiceCreationFailed     = errors.New("invoice_creation_failed")
	ErrInvoiceItemCreationFailed = errors.New("invoice_item_creation_failed")
	ErrAssociationCreationFailed = errors.New("association_creation_failed")
	ErrUnmappedTaskTemplateValue = errors.New("unmapped_task_template_value")
)

// Step names label logs, spans and metrics.
const (
	StepResolve     = "resolve"
	StepMandate     = "mandate"
	StepTasks       = "tasks"
	StepInvoices    = "invoices"
	StepAssociation = "association"
)
