package repository

import (
	"context"
	"strings"

	"github.com/smallbiznis/agencydesk/internal/auth/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

// Count reports how many identities exist; bootstrap seeding only runs on
// an empty table.
func (r *repo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&count).Error
	return count, err
}

func (r *repo) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByExternalID returns nil, nil when no identity carries externalID.
// A blank subject never matches and skips the query.
func (r *repo) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, nil
	}

	var users []domain.User
	if err := r.db.WithContext(ctx).
		Where("external_auth_id = ?", externalID).
		Limit(1).
		Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}
