package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is an agency cost, optionally rebilled to a client.
type Expense struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	ClientID    *snowflake.ID   `gorm:"index" json:"client_id"`
	Description string          `gorm:"not null" json:"description"`
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	ExpenseDate time.Time       `gorm:"type:date;not null" json:"expense_date"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Expense) TableName() string { return "expenses" }

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Expense, error)
}
