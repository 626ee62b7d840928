package numbering

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/agencydesk/internal/clock"
	"github.com/smallbiznis/agencydesk/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Provide selects the numbering strategy from configuration.
func Provide(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, log *zap.Logger) Numberer {
	if cfg.InvoiceNumbering != config.InvoiceNumberingRedis {
		return NewTimestampNumberer(clk)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	log.Info("invoice numbering backed by redis", zap.String("addr", cfg.RedisAddr))
	return NewRedisNumberer(client)
}
