package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type BillingFrequency string

const (
	BillingFrequencyOneTime   BillingFrequency = "one_time"
	BillingFrequencyMonthly   BillingFrequency = "monthly"
	BillingFrequencyQuarterly BillingFrequency = "quarterly"
	BillingFrequencyYearly    BillingFrequency = "yearly"
)

func (f BillingFrequency) Valid() bool {
	switch f {
	case BillingFrequencyOneTime, BillingFrequencyMonthly, BillingFrequencyQuarterly, BillingFrequencyYearly:
		return true
	default:
		return false
	}
}

// Package is a catalogue offering sold to clients.
type Package struct {
	ID               snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name             string            `gorm:"not null" json:"name"`
	Description      string            `json:"description,omitempty"`
	Price            decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"price"`
	BillingFrequency BillingFrequency  `gorm:"size:255;not null" json:"billing_frequency"`
	IsActive         bool              `gorm:"not null;default:true" json:"is_active"`
	Metadata         datatypes.JSONMap `gorm:"not null" json:"metadata,omitempty"`
	CreatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Package) TableName() string { return "service_packages" }

type TemplateTaskType string

const (
	TemplateTaskTypeOnboarding  TemplateTaskType = "onboarding"
	TemplateTaskTypeContent     TemplateTaskType = "content_creation"
	TemplateTaskTypeAdvertising TemplateTaskType = "advertising"
	TemplateTaskTypeReporting   TemplateTaskType = "reporting"
	TemplateTaskTypeMeeting     TemplateTaskType = "meeting"
)

type TemplateTaskStatus string

const (
	TemplateTaskStatusPending    TemplateTaskStatus = "pending"
	TemplateTaskStatusInProgress TemplateTaskStatus = "in_progress"
	TemplateTaskStatusBlocked    TemplateTaskStatus = "blocked"
)

type TaskTemplate struct {
	ID           snowflake.ID       `gorm:"primaryKey" json:"id"`
	PackageID    snowflake.ID       `gorm:"not null;index" json:"package_id"`
	Title        string             `gorm:"not null" json:"title"`
	Details      string             `json:"details,omitempty"`
	TaskType     TemplateTaskType   `gorm:"size:255;not null" json:"task_type"`
	Status       TemplateTaskStatus `gorm:"size:255;not null" json:"status"`
	OffsetDays   *int               `json:"offset_days,omitempty"`
	DisplayOrder int                `gorm:"not null;default:0" json:"display_order"`
	IsActive     bool               `gorm:"not null;default:true" json:"is_active"`
}

func (TaskTemplate) TableName() string { return "package_task_templates" }

// MandateTemplate texts may reference {client_name}, {package_name},
// {start_date} and {end_date}.
type MandateTemplate struct {
	ID                  snowflake.ID `gorm:"primaryKey" json:"id"`
	PackageID           snowflake.ID `gorm:"not null;uniqueIndex" json:"package_id"`
	MandateType         string       `json:"mandate_type,omitempty"`
	TitleTemplate       string       `json:"title_template"`
	DescriptionTemplate string       `json:"description_template"`
	DefaultDurationDays *int         `json:"default_duration_days,omitempty"`
}

func (MandateTemplate) TableName() string { return "package_mandate_templates" }

// InvoiceTemplate describes the single line billed on every scheduled invoice.
type InvoiceTemplate struct {
	ID          snowflake.ID     `gorm:"primaryKey" json:"id"`
	PackageID   snowflake.ID     `gorm:"not null;uniqueIndex" json:"package_id"`
	Description string           `gorm:"not null" json:"description"`
	UnitPrice   decimal.Decimal  `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	Quantity    *decimal.Decimal `gorm:"type:numeric(14,2)" json:"quantity,omitempty"`
}

func (InvoiceTemplate) TableName() string { return "package_invoice_templates" }
