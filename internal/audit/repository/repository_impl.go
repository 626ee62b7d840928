package repository

import (
	"context"
	"strings"

	"github.com/smallbiznis/agencydesk/internal/audit/domain"
	"github.com/smallbiznis/agencydesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.AuditLog) error {
	if entry == nil {
		return nil
	}
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.AuditLog, error) {
	stmt, err := page.Apply(db.WithContext(ctx).Model(&domain.AuditLog{}).Scopes(filterScopes(filter)...))
	if err != nil {
		return nil, err
	}

	var logs []*domain.AuditLog
	if err := stmt.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func filterScopes(filter domain.ListFilter) []func(*gorm.DB) *gorm.DB {
	var scopes []func(*gorm.DB) *gorm.DB
	equals := func(column, value string) {
		if value = strings.TrimSpace(value); value != "" {
			scopes = append(scopes, func(tx *gorm.DB) *gorm.DB {
				return tx.Where(column+" = ?", value)
			})
		}
	}
	equals("action", filter.Action)
	equals("target_type", filter.TargetType)
	equals("target_id", filter.TargetID)
	equals("actor_id", filter.ActorID)
	if filter.Since != nil {
		since := *filter.Since
		scopes = append(scopes, func(tx *gorm.DB) *gorm.DB {
			return tx.Where("created_at >= ?", since)
		})
	}
	return scopes
}
