package logger

import (
	"context"
	"testing"

	obscontext "github.com/smallbiznis/agencydesk/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextAddsCorrelationFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	ctx := obscontext.WithRequestID(context.Background(), "req-9")
	ctx = obscontext.WithActor(ctx, "user", "42")
	WithContext(ctx, base).Info("provisioned")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-9", fields["request_id"])
	assert.Equal(t, "user", fields["actor_type"])
	assert.Equal(t, "42", fields["actor_id"])
	assert.NotContains(t, fields, "trace_id")
}

func TestWithContextWithoutFieldsReturnsBase(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, WithContext(context.Background(), base))
}

func TestBuildConfig(t *testing.T) {
	cfg, err := buildConfig(Config{Level: "warn", Format: "Console"})
	require.NoError(t, err)
	assert.Equal(t, "console", cfg.Encoding)
	assert.Equal(t, zapcore.WarnLevel, cfg.Level.Level())
	require.NotNil(t, cfg.Sampling)
	assert.Equal(t, 100, cfg.Sampling.Initial)

	debugCfg, err := buildConfig(Config{Debug: true})
	require.NoError(t, err)
	assert.Nil(t, debugCfg.Sampling)
	assert.Equal(t, "json", debugCfg.Encoding)

	_, err = buildConfig(Config{Level: "loud"})
	assert.Error(t, err)
}
