package observability

import (
	"strings"

	"github.com/smallbiznis/agencydesk/internal/config"
	"github.com/spf13/viper"
)

// Config is the telemetry slice of the process configuration. Values come
// from the application config and may be overridden through LOG_* and OTEL_*
// environment variables.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64
}

var devEnvironments = map[string]bool{
	"dev":         true,
	"development": true,
	"local":       true,
	"test":        true,
}

func LoadConfig(cfg config.Config) Config {
	return loadConfig(cfg, newEnvReader(cfg))
}

func newEnvReader(cfg config.Config) *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("deployment_env", cfg.Environment)
	v.SetDefault("service_version", cfg.AppVersion)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("otel_enabled", false)
	v.SetDefault("otel_exporter_otlp_endpoint", cfg.OTLPEndpoint)
	v.SetDefault("otel_exporter_otlp_protocol", "grpc")
	v.SetDefault("otel_exporter_otlp_traces_protocol", "")
	v.SetDefault("otel_sampling_ratio", 0.1)
	return v
}

func loadConfig(cfg config.Config, v *viper.Viper) Config {
	protocol := v.GetString("otel_exporter_otlp_protocol")
	if traces := strings.TrimSpace(v.GetString("otel_exporter_otlp_traces_protocol")); traces != "" {
		protocol = traces
	}

	out := Config{
		ServiceName:          strings.TrimSpace(cfg.AppName),
		Environment:          strings.TrimSpace(v.GetString("deployment_env")),
		Version:              strings.TrimSpace(v.GetString("service_version")),
		LogLevel:             lower(v.GetString("log_level")),
		LogFormat:            lower(v.GetString("log_format")),
		OtelEnabled:          v.GetBool("otel_enabled"),
		OtelExporterEndpoint: strings.TrimSpace(v.GetString("otel_exporter_otlp_endpoint")),
		OtelExporterProtocol: lower(protocol),
		OtelSamplingRatio:    v.GetFloat64("otel_sampling_ratio"),
	}
	if out.ServiceName == "" {
		out.ServiceName = "agencydesk"
	}
	return out
}

// Debug turns on verbose logging and gin debug mode.
func (c Config) Debug() bool {
	return lower(c.LogLevel) == "debug" || devEnvironments[lower(c.Environment)]
}

func lower(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
