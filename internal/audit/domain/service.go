package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/agencydesk/pkg/db/pagination"
)

// Actor names who performed an action.
type Actor struct {
	Type ActorType
	ID   string
}

// Entry is what callers hand to Record. A nil Actor is taken from the
// request context, or recorded as the system when the context has none.
type Entry struct {
	Actor      *Actor
	Action     string
	TargetType string
	TargetID   string
	Metadata   map[string]any
}

type ListAuditLogRequest struct {
	pagination.Pagination
	ListFilter
}

type ListAuditLogResponse struct {
	pagination.PageInfo
	AuditLogs []AuditLog `json:"audit_logs"`
}

type Service interface {
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context, req ListAuditLogRequest) (ListAuditLogResponse, error)
}

var (
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrInvalidAction    = errors.New("invalid_action")
)
