package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Mandate is a client engagement created for a purchased package.
type Mandate struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	ClientID    snowflake.ID      `gorm:"not null;index" json:"client_id"`
	MandateType string            `gorm:"not null" json:"mandate_type"`
	Title       string            `gorm:"not null" json:"title"`
	Description string            `json:"description"`
	Status      Status            `gorm:"size:255;not null" json:"status"`
	StartDate   time.Time         `gorm:"type:date;not null" json:"start_date"`
	EndDate     *time.Time        `gorm:"type:date" json:"end_date,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"not null" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Mandate) TableName() string { return "mandates" }

type TaskType string

const (
	TaskTypeAdmin    TaskType = "admin"
	TaskTypeCreation TaskType = "creation"
	TaskTypeAds      TaskType = "ads"
	TaskTypeReport   TaskType = "report"
	TaskTypeCall     TaskType = "call"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusBlocked    TaskStatus = "blocked"
	TaskStatusDone       TaskStatus = "done"
)

type Task struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	MandateID snowflake.ID `gorm:"not null;index" json:"mandate_id"`
	Title     string       `gorm:"not null" json:"title"`
	Details   string       `json:"details,omitempty"`
	TaskType  TaskType     `gorm:"size:255;not null" json:"task_type"`
	Status    TaskStatus   `gorm:"size:255;not null" json:"status"`
	DueDate   *time.Time   `gorm:"type:date" json:"due_date,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Task) TableName() string { return "mandate_tasks" }
