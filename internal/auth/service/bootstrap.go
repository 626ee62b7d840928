package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/agencydesk/internal/auth/domain"
	"github.com/smallbiznis/agencydesk/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type BootstrapParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Log       *zap.Logger
	Cfg       config.Config
	GenID     *snowflake.Node
	Users     domain.Repository
}

// RegisterBootstrap seeds the first admin identity on an empty users table.
func RegisterBootstrap(p BootstrapParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return EnsureBootstrapAdmin(ctx, p.Log, p.Cfg, p.GenID, p.Users)
		},
	})
}

func EnsureBootstrapAdmin(ctx context.Context, log *zap.Logger, cfg config.Config, genID *snowflake.Node, users domain.Repository) error {
	externalID := strings.TrimSpace(cfg.BootstrapAdminExternalID)
	if externalID == "" {
		return nil
	}

	count, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	user := &domain.User{
		ID:             genID.Generate(),
		ExternalAuthID: externalID,
		Email:          strings.TrimSpace(cfg.BootstrapAdminEmail),
		RoleID:         domain.RoleAdmin,
	}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}

	log.Named("auth.bootstrap").Info("bootstrap admin created", zap.String("external_auth_id", externalID))
	return nil
}
