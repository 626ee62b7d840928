package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/agencydesk/pkg/db/pagination"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ActorType string

const (
	ActorTypeUser   ActorType = "user"
	ActorTypeSystem ActorType = "system"
)

// AuditLog is one append-only record of a state change or a denied access.
type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	ActorType  string            `gorm:"size:255;not null" json:"actor_type"`
	ActorID    *string           `gorm:"size:255" json:"actor_id,omitempty"`
	Action     string            `gorm:"size:255;not null;index" json:"action"`
	TargetType string            `gorm:"size:255;not null" json:"target_type"`
	TargetID   *string           `gorm:"size:255;index" json:"target_id,omitempty"`
	Metadata   datatypes.JSONMap `gorm:"not null" json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"not null" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

// ListFilter narrows a listing. Empty fields match everything.
type ListFilter struct {
	Action     string
	TargetType string
	TargetID   string
	ActorID    string
	Since      *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*AuditLog, error)
}
