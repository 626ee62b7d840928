package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/agencydesk/internal/clock"
	"github.com/smallbiznis/agencydesk/internal/invoice/domain"
	"github.com/smallbiznis/agencydesk/internal/invoice/repository"
	"github.com/smallbiznis/agencydesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, domain.Service) {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Invoice{}, &domain.LineItem{}))

	svc := NewService(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
	return conn, svc
}

func seedInvoice(t *testing.T, conn *gorm.DB, id int64, clientID int64, number string) domain.Invoice {
	t.Helper()
	owner := snowflake.ID(clientID)
	invoice := domain.Invoice{
		ID:            snowflake.ID(id),
		ClientID:      &owner,
		InvoiceNumber: number,
		Status:        domain.InvoiceStatusDraft,
		IssueDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		TotalExcl:     decimal.NewFromInt(1000),
		TotalTax:      decimal.Zero,
		TotalIncl:     decimal.NewFromInt(1000),
		Metadata:      datatypes.JSONMap{},
	}
	require.NoError(t, conn.Create(&invoice).Error)
	return invoice
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	conn, svc := setup(t)
	invoice := seedInvoice(t, conn, 1, 5, "INV-2025-000001")

	sent, err := svc.UpdateStatus(context.Background(), invoice, domain.UpdateStatusRequest{Status: "sent"})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusSent, sent.Status)

	_, err = svc.UpdateStatus(context.Background(), sent, domain.UpdateStatusRequest{Status: "draft"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	paid, err := svc.UpdateStatus(context.Background(), sent, domain.UpdateStatusRequest{Status: "PAID"})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)

	var stored domain.Invoice
	require.NoError(t, conn.First(&stored, "id = ?", 1).Error)
	assert.Equal(t, domain.InvoiceStatusPaid, stored.Status)
}

func TestUpdateStatusRejectsStaleSnapshot(t *testing.T) {
	conn, svc := setup(t)
	invoice := seedInvoice(t, conn, 1, 5, "INV-2025-000001")

	_, err := svc.UpdateStatus(context.Background(), invoice, domain.UpdateStatusRequest{Status: "cancelled"})
	require.NoError(t, err)

	// invoice still says draft; the row is cancelled now.
	_, err = svc.UpdateStatus(context.Background(), invoice, domain.UpdateStatusRequest{Status: "sent"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	conn, svc := setup(t)
	invoice := seedInvoice(t, conn, 1, 5, "INV-2025-000001")

	_, err := svc.UpdateStatus(context.Background(), invoice, domain.UpdateStatusRequest{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestListFiltersByClient(t *testing.T) {
	conn, svc := setup(t)
	seedInvoice(t, conn, 1, 5, "INV-2025-000001")
	seedInvoice(t, conn, 2, 5, "INV-2025-000002")
	seedInvoice(t, conn, 3, 9, "INV-2025-000003")

	client := snowflake.ID(5)
	resp, err := svc.List(context.Background(), domain.ListInvoiceRequest{ClientID: &client})
	require.NoError(t, err)
	require.Len(t, resp.Invoices, 2)
	assert.Equal(t, snowflake.ID(2), resp.Invoices[0].ID)

	all, err := svc.List(context.Background(), domain.ListInvoiceRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, all.Invoices, 2)
	assert.True(t, all.HasMore)

	_, err = svc.List(context.Background(), domain.ListInvoiceRequest{Status: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestListItemsReturnsEmptySlice(t *testing.T) {
	conn, svc := setup(t)
	invoice := seedInvoice(t, conn, 1, 5, "INV-2025-000001")

	items, err := svc.ListItems(context.Background(), invoice)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
