package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, mandate *Mandate) error
	InsertTasks(ctx context.Context, db *gorm.DB, tasks []Task) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Mandate, error)
	ListTasks(ctx context.Context, db *gorm.DB, mandateID snowflake.ID) ([]Task, error)
}
