package domain

import (
	"context"
	"errors"
)

type Service interface {
	GetByID(ctx context.Context, id string) (MandateWithTasks, error)
}

// MandateWithTasks is a mandate and its task list in creation order.
type MandateWithTasks struct {
	Mandate
	Tasks []Task `json:"tasks"`
}

var (
	ErrInvalidID = errors.New("invalid_id")
	ErrNotFound  = errors.New("not_found")
)
