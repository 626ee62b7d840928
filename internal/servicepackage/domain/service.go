package domain

import (
	"context"
	"errors"
)

type PackageDetail struct {
	Package
	MandateTemplate *MandateTemplate `json:"mandate_template,omitempty"`
	TaskTemplates   []TaskTemplate   `json:"task_templates"`
	InvoiceTemplate *InvoiceTemplate `json:"invoice_template,omitempty"`
}

type ListPackageRequest struct {
	IncludeInactive bool
}

type Service interface {
	List(context.Context, ListPackageRequest) ([]Package, error)
	Get(ctx context.Context, id string) (PackageDetail, error)
}

var (
	ErrInvalidID = errors.New("invalid_id")
	ErrNotFound  = errors.New("not_found")
)
