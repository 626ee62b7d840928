package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/agencydesk/internal/mandate/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, mandate *domain.Mandate) error {
	return db.WithContext(ctx).Create(mandate).Error
}

// InsertTasks writes all tasks in one statement.
func (r *repo) InsertTasks(ctx context.Context, db *gorm.DB, tasks []domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&tasks).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Mandate, error) {
	var mandate domain.Mandate
	err := db.WithContext(ctx).Where("id = ?", id).First(&mandate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mandate, nil
}

func (r *repo) ListTasks(ctx context.Context, db *gorm.DB, mandateID snowflake.ID) ([]domain.Task, error) {
	var tasks []domain.Task
	err := db.WithContext(ctx).
		Where("mandate_id = ?", mandateID).
		Order("id asc").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
