package metrics

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("route", "/api/invoices/:id"),
		attribute.String("client_id", "456"),
		attribute.String("status_code", "403"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	for _, attr := range attrs {
		if attr.Key == "client_id" {
			t.Fatalf("expected client_id to be dropped")
		}
	}
}

func TestNewProviderDisabledIsNoop(t *testing.T) {
	provider, err := NewProvider(nil, Config{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := provider.(noop.MeterProvider); !ok {
		t.Fatalf("expected noop provider, got %T", provider)
	}
}

func TestNewProviderRejectsUnknownProtocol(t *testing.T) {
	if _, err := NewProvider(nil, Config{Enabled: true, ExporterProtocol: "udp"}, nil); err == nil {
		t.Fatalf("expected unsupported protocol error")
	}
}
