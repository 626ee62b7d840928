package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Package, error)
	List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*Package, error)
	FindMandateTemplate(ctx context.Context, db *gorm.DB, packageID snowflake.ID) (*MandateTemplate, error)
	ListActiveTaskTemplates(ctx context.Context, db *gorm.DB, packageID snowflake.ID) ([]TaskTemplate, error)
	FindInvoiceTemplate(ctx context.Context, db *gorm.DB, packageID snowflake.ID) (*InvoiceTemplate, error)
}
