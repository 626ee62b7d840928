package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Contract struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	ClientID  *snowflake.ID   `gorm:"index" json:"client_id"`
	MandateID *snowflake.ID   `gorm:"index" json:"mandate_id,omitempty"`
	Title     string          `gorm:"not null" json:"title"`
	Status    string          `gorm:"size:255;not null;default:'draft'" json:"status"`
	StartDate *time.Time      `gorm:"type:date" json:"start_date,omitempty"`
	EndDate   *time.Time      `gorm:"type:date" json:"end_date,omitempty"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Contract) TableName() string { return "contracts" }

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Contract, error)
}
