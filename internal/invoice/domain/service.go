package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/agencydesk/pkg/db/pagination"
)

type ListInvoiceRequest struct {
	ClientID  *snowflake.ID
	Status    string
	PageToken string
	PageSize  int
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

type UpdateStatusRequest struct {
	Status string
}

type Service interface {
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
	ListItems(ctx context.Context, invoice Invoice) ([]LineItem, error)
	UpdateStatus(ctx context.Context, invoice Invoice, req UpdateStatusRequest) (Invoice, error)
}

var (
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrInvalidPageToken  = errors.New("invalid_page_token")
	ErrNotFound          = errors.New("not_found")
)
