package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/agencydesk/internal/clientpackage/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, cp *domain.ClientPackage) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO client_packages (id, client_id, package_id, mandate_id, purchased_price, status, start_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		cp.ID,
		cp.ClientID,
		cp.PackageID,
		cp.MandateID,
		cp.PurchasedPrice,
		cp.Status,
		cp.StartDate,
		cp.CreatedAt,
	).Error
}

func (r *repo) ListByClient(ctx context.Context, db *gorm.DB, clientID snowflake.ID) ([]domain.ClientPackage, error) {
	var items []domain.ClientPackage
	err := db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
