package metrics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const (
	OutcomeSuccess = "success"

	ReasonDeadlineExceeded     = "deadline_exceeded"
	ReasonDBLockTimeout        = "db_lock_timeout"
	ReasonSerializationFailure = "serialization_failure"
	ReasonUniqueViolation      = "unique_violation"
	ReasonUnknown              = "unknown"
)

// DomainMetrics captures provisioning and access-gate signals.
type DomainMetrics struct {
	provisioningRuns     *prometheus.CounterVec
	provisioningDuration prometheus.Observer
	provisioningErrors   *prometheus.CounterVec
	invoicesGenerated    *prometheus.CounterVec
	authFailures         *prometheus.CounterVec
}

var (
	domainMetricsOnce sync.Once
	domainMetrics     *DomainMetrics
)

// Domain returns the process-wide registry bound to the default registerer.
func Domain(cfg Config) *DomainMetrics {
	domainMetricsOnce.Do(func() {
		domainMetrics = NewDomainMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return domainMetrics
}

func NewDomainMetrics(registerer prometheus.Registerer, cfg Config) *DomainMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "agencydesk"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &DomainMetrics{
		provisioningRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "agencydesk_provisioning_runs_total",
			Help:        "Package provisioning runs by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		provisioningErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "agencydesk_provisioning_errors_total",
			Help:        "Package provisioning failures by step and storage reason.",
			ConstLabels: constLabels,
		}, []string{"step", "reason"}),
		invoicesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "agencydesk_invoices_generated_total",
			Help:        "Draft invoices generated by provisioning, by billing frequency.",
			ConstLabels: constLabels,
		}, []string{"frequency"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "agencydesk_auth_failures_total",
			Help:        "Access gate rejections by reason.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
	}
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "agencydesk_provisioning_duration_seconds",
		Help:        "Package provisioning latency.",
		Buckets:     []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		ConstLabels: constLabels,
	})
	m.provisioningDuration = duration

	registerer.MustRegister(
		m.provisioningRuns,
		m.provisioningErrors,
		m.invoicesGenerated,
		m.authFailures,
		duration,
	)
	return m
}

func (m *DomainMetrics) ObserveProvisioning(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.provisioningRuns.WithLabelValues(outcome).Inc()
	m.provisioningDuration.Observe(duration.Seconds())
}

func (m *DomainMetrics) IncProvisioningError(step string, err error) {
	if m == nil {
		return
	}
	m.provisioningErrors.WithLabelValues(step, ClassifyStorageReason(err)).Inc()
}

func (m *DomainMetrics) AddInvoicesGenerated(frequency string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.invoicesGenerated.WithLabelValues(frequency).Add(float64(count))
}

func (m *DomainMetrics) IncAuthFailure(reason string) {
	if m == nil {
		return
	}
	m.authFailures.WithLabelValues(reason).Inc()
}

// ClassifyStorageReason maps storage errors to low-cardinality reasons.
func ClassifyStorageReason(err error) string {
	switch {
	case err == nil:
		return ReasonUnknown
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ReasonDeadlineExceeded
	case hasPGCode(err, "55P03"):
		return ReasonDBLockTimeout
	case hasPGCode(err, "40001"):
		return ReasonSerializationFailure
	case errors.Is(err, gorm.ErrDuplicatedKey), hasPGCode(err, "23505"):
		return ReasonUniqueViolation
	default:
		return ReasonUnknown
	}
}

func hasPGCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
