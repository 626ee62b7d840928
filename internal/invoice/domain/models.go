// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return next == InvoiceStatusSent || next == InvoiceStatusCancelled
	case InvoiceStatusSent:
		return next == InvoiceStatusPaid || next == InvoiceStatusCancelled
	default:
		return false
	}
}

// Invoice represents a billable document owned by a client.
type Invoice struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	ClientID      *snowflake.ID     `gorm:"index" json:"client_id"`
	MandateID     *snowflake.ID     `gorm:"index" json:"mandate_id,omitempty"`
	InvoiceNumber string            `gorm:"size:255;not null;uniqueIndex:ux_invoices_number" json:"invoice_number"`
	Status        InvoiceStatus     `gorm:"size:255;not null;default:'draft'" json:"status"`
	IssueDate     time.Time         `gorm:"type:date;not null" json:"issue_date"`
	DueDate       time.Time         `gorm:"type:date;not null" json:"due_date"`
	TotalExcl     decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"total_excl"`
	TotalTax      decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"total_tax"`
	TotalIncl     decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"total_incl"`
	Metadata      datatypes.JSONMap `gorm:"not null" json:"metadata,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// LineItem represents a line on an invoice.
type LineItem struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID   snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	Description string          `gorm:"size:255" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	Total       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total"`
	Position    int             `gorm:"not null;default:0" json:"position"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "invoice_line_items" }
