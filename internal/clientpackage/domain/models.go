package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// ClientPackage records that a client purchased a package.
type ClientPackage struct {
	ID             snowflake.ID    `gorm:"primaryKey" json:"id"`
	ClientID       snowflake.ID    `gorm:"not null;index" json:"client_id"`
	PackageID      snowflake.ID    `gorm:"not null;index" json:"package_id"`
	MandateID      *snowflake.ID   `gorm:"index" json:"mandate_id,omitempty"`
	PurchasedPrice decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"purchased_price"`
	Status         Status          `gorm:"size:255;not null;default:'active'" json:"status"`
	StartDate      time.Time       `gorm:"type:date;not null" json:"start_date"`
	CreatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (ClientPackage) TableName() string { return "client_packages" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, cp *ClientPackage) error
	ListByClient(ctx context.Context, db *gorm.DB, clientID snowflake.ID) ([]ClientPackage, error)
}
