package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/agencydesk/internal/audit/domain"
	"github.com/smallbiznis/agencydesk/internal/clock"
	obscontext "github.com/smallbiznis/agencydesk/internal/observability/context"
	"github.com/smallbiznis/agencydesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  auditdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  auditdomain.Repository
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// Record appends one audit entry. The request id, when present, is copied
// into the metadata.
func (s *Service) Record(ctx context.Context, entry auditdomain.Entry) error {
	action := strings.TrimSpace(entry.Action)
	if action == "" {
		return auditdomain.ErrInvalidAction
	}
	targetType := strings.TrimSpace(entry.TargetType)
	if targetType == "" {
		targetType = "unknown"
	}

	metadata := datatypes.JSONMap{}
	for key, value := range entry.Metadata {
		if key != "" {
			metadata[key] = value
		}
	}
	if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
		metadata["request_id"] = requestID
	}

	actor := actorFor(ctx, entry.Actor)
	row := auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		ActorType:  string(actor.Type),
		ActorID:    optional(actor.ID),
		Action:     action,
		TargetType: targetType,
		TargetID:   optional(entry.TargetID),
		Metadata:   metadata,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, &row); err != nil {
		s.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, req auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	page := req.Pagination.Normalize()
	if token := strings.TrimSpace(page.PageToken); token != "" {
		if _, err := pagination.DecodeCursor(token); err != nil {
			return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidPageToken
		}
	}

	items, err := s.repo.List(ctx, s.db, req.ListFilter, page)
	if err != nil {
		return auditdomain.ListAuditLogResponse{}, err
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, page.PageSize, func(item *auditdomain.AuditLog) string {
		return item.ID.String()
	})
	resp := auditdomain.ListAuditLogResponse{PageInfo: pageInfo, AuditLogs: make([]auditdomain.AuditLog, 0, len(items))}
	for _, item := range items {
		resp.AuditLogs = append(resp.AuditLogs, *item)
	}
	return resp, nil
}

// actorFor prefers the explicit actor, then the one bound to the request,
// then the system.
func actorFor(ctx context.Context, explicit *auditdomain.Actor) auditdomain.Actor {
	if explicit != nil && explicit.Type != "" {
		return auditdomain.Actor{Type: explicit.Type, ID: strings.TrimSpace(explicit.ID)}
	}
	if actorType, actorID := obscontext.ActorFromContext(ctx); actorType != "" {
		return auditdomain.Actor{Type: auditdomain.ActorType(actorType), ID: actorID}
	}
	return auditdomain.Actor{Type: auditdomain.ActorTypeSystem}
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
