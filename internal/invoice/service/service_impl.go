package service

import (
	"context"
	"strings"

	auditdomain "github.com/smallbiznis/agencydesk/internal/audit/domain"
	"github.com/smallbiznis/agencydesk/internal/clock"
	"github.com/smallbiznis/agencydesk/internal/invoice/domain"
	"github.com/smallbiznis/agencydesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Repo     domain.Repository
	AuditSvc auditdomain.Service `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	repo     domain.Repository
	auditSvc auditdomain.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("invoice.service"),
		clock:    p.Clock,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	status := domain.InvoiceStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if status != "" && !isKnownStatus(status) {
		return domain.ListInvoiceResponse{}, domain.ErrInvalidStatus
	}

	page := pagination.Pagination{PageToken: strings.TrimSpace(req.PageToken), PageSize: req.PageSize}.Normalize()
	if page.PageToken != "" {
		if _, err := pagination.DecodeCursor(page.PageToken); err != nil {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidPageToken
		}
	}

	items, err := s.repo.List(ctx, s.db, domain.ListInvoiceFilter{
		ClientID: req.ClientID,
		Status:   status,
	}, page)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, page.PageSize, func(invoice *domain.Invoice) string {
		return invoice.ID.String()
	})

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}

	return domain.ListInvoiceResponse{PageInfo: pageInfo, Invoices: invoices}, nil
}

func (s *Service) ListItems(ctx context.Context, invoice domain.Invoice) ([]domain.LineItem, error) {
	items, err := s.repo.ListItems(ctx, s.db, invoice.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.LineItem{}
	}
	return items, nil
}

// UpdateStatus moves an invoice along draft -> sent -> paid, or to cancelled.
func (s *Service) UpdateStatus(ctx context.Context, invoice domain.Invoice, req domain.UpdateStatusRequest) (domain.Invoice, error) {
	next := domain.InvoiceStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !isKnownStatus(next) {
		return domain.Invoice{}, domain.ErrInvalidStatus
	}
	if !invoice.Status.CanTransitionTo(next) {
		return domain.Invoice{}, domain.ErrInvalidTransition
	}

	now := s.clock.Now()
	updated, err := s.repo.UpdateStatus(ctx, s.db, invoice.ID, invoice.Status, next, now)
	if err != nil {
		return domain.Invoice{}, err
	}
	if !updated {
		return domain.Invoice{}, domain.ErrInvalidTransition
	}

	previous := invoice.Status
	invoice.Status = next
	invoice.UpdatedAt = now

	if s.auditSvc != nil {
		_ = s.auditSvc.Record(ctx, auditdomain.Entry{
			Action:     "invoice.status_changed",
			TargetType: "invoice",
			TargetID:   invoice.ID.String(),
			Metadata:   map[string]any{"from": string(previous), "to": string(next)},
		})
	}
	s.log.Info("invoice status changed",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(next)),
	)

	return invoice, nil
}

func isKnownStatus(status domain.InvoiceStatus) bool {
	switch status {
	case domain.InvoiceStatusDraft, domain.InvoiceStatusSent, domain.InvoiceStatusPaid, domain.InvoiceStatusCancelled:
		return true
	default:
		return false
	}
}
