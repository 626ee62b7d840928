package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/agencydesk/internal/auth/domain"
	"github.com/smallbiznis/agencydesk/internal/auth/mocks"
	"github.com/smallbiznis/agencydesk/internal/config"
	contractdomain "github.com/smallbiznis/agencydesk/internal/contract/domain"
	contractrepo "github.com/smallbiznis/agencydesk/internal/contract/repository"
	expensedomain "github.com/smallbiznis/agencydesk/internal/expense/domain"
	expenserepo "github.com/smallbiznis/agencydesk/internal/expense/repository"
	invoicedomain "github.com/smallbiznis/agencydesk/internal/invoice/domain"
	invoicerepo "github.com/smallbiznis/agencydesk/internal/invoice/repository"
	"github.com/smallbiznis/agencydesk/pkg/db"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type gateFixture struct {
	gate     domain.Gate
	db       *gorm.DB
	users    *mocks.MockRepository
	verifier *mocks.MockTokenVerifier
}

func newGateFixture(t *testing.T) gateFixture {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := conn.AutoMigrate(&invoicedomain.Invoice{}, &contractdomain.Contract{}, &expensedomain.Expense{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	ctrl := gomock.NewController(t)
	users := mocks.NewMockRepository(ctrl)
	verifier := mocks.NewMockTokenVerifier(ctrl)

	gate := New(Params{
		DB:        conn,
		Log:       zap.NewNop(),
		Cfg:       config.Config{AuthCookieName: "access_token"},
		Verifier:  verifier,
		Users:     users,
		Invoices:  invoicerepo.Provide(),
		Contracts: contractrepo.Provide(),
		Expenses:  expenserepo.Provide(),
	})
	return gateFixture{gate: gate, db: conn, users: users, verifier: verifier}
}

func bearerRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func clientID(id int64) *snowflake.ID {
	v := snowflake.ID(id)
	return &v
}

func expectFailure(t *testing.T, err error, status int) *domain.Failure {
	t.Helper()
	failure, ok := domain.AsFailure(err)
	if !ok {
		t.Fatalf("expected *Failure, got %v", err)
	}
	if failure.Status != status {
		t.Fatalf("expected status %d, got %d (%s)", status, failure.Status, failure.Message)
	}
	return failure
}

func TestRequireSessionMissingToken(t *testing.T) {
	f := newGateFixture(t)

	_, err := f.gate.RequireSession(bearerRequest(""))
	failure := expectFailure(t, err, http.StatusUnauthorized)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if failure.Body()["error"] != "Non authentifié" {
		t.Fatalf("unexpected body: %v", failure.Body())
	}
}

func TestRequireSessionInvalidToken(t *testing.T) {
	f := newGateFixture(t)
	f.verifier.EXPECT().Verify("garbage").Return(domain.Claims{}, domain.ErrInvalidToken)

	_, err := f.gate.RequireSession(bearerRequest("garbage"))
	expectFailure(t, err, http.StatusUnauthorized)
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected wrapped ErrInvalidToken, got %v", err)
	}
}

func TestRequireSessionUnknownIdentity(t *testing.T) {
	f := newGateFixture(t)
	f.verifier.EXPECT().Verify("tok").Return(domain.Claims{Subject: "auth0|ghost"}, nil)
	f.users.EXPECT().FindByExternalID(gomock.Any(), "auth0|ghost").Return(nil, nil)

	_, err := f.gate.RequireSession(bearerRequest("tok"))
	failure := expectFailure(t, err, http.StatusUnauthorized)
	if failure.Message != "Utilisateur introuvable" {
		t.Fatalf("unexpected message %q", failure.Message)
	}
}

func TestRequireSessionStoreErrorIsInternal(t *testing.T) {
	f := newGateFixture(t)
	f.verifier.EXPECT().Verify("tok").Return(domain.Claims{Subject: "auth0|abc"}, nil)
	f.users.EXPECT().FindByExternalID(gomock.Any(), "auth0|abc").Return(nil, errors.New("db down"))

	_, err := f.gate.RequireSession(bearerRequest("tok"))
	expectFailure(t, err, http.StatusInternalServerError)
	if !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestRequireSessionReadsCookie(t *testing.T) {
	f := newGateFixture(t)
	f.verifier.EXPECT().Verify("cookie-token").Return(domain.Claims{Subject: "auth0|abc"}, nil)
	f.users.EXPECT().FindByExternalID(gomock.Any(), "auth0|abc").Return(&domain.User{
		ID:             snowflake.ID(1),
		ExternalAuthID: "auth0|abc",
		RoleID:         domain.RoleClient,
		ClientID:       clientID(5),
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})

	session, err := f.gate.RequireSession(req)
	if err != nil {
		t.Fatalf("RequireSession: %v", err)
	}
	if session.ClientID == nil || *session.ClientID != 5 {
		t.Fatalf("expected client 5, got %+v", session)
	}
}

func TestRequireSessionAdminHasNoClient(t *testing.T) {
	f := newGateFixture(t)
	f.verifier.EXPECT().Verify("tok").Return(domain.Claims{Subject: "auth0|admin"}, nil)
	f.users.EXPECT().FindByExternalID(gomock.Any(), "auth0|admin").Return(&domain.User{
		ID:             snowflake.ID(2),
		ExternalAuthID: "auth0|admin",
		RoleID:         domain.RoleAdmin,
		ClientID:       clientID(7),
	}, nil)

	session, err := f.gate.RequireSession(bearerRequest("tok"))
	if err != nil {
		t.Fatalf("RequireSession: %v", err)
	}
	if session.ClientID != nil {
		t.Fatalf("admin session must not carry a client id")
	}
}

func TestRequireRoleForbidden(t *testing.T) {
	f := newGateFixture(t)
	f.verifier.EXPECT().Verify("tok").Return(domain.Claims{Subject: "auth0|staff"}, nil)
	f.users.EXPECT().FindByExternalID(gomock.Any(), "auth0|staff").Return(&domain.User{
		ID:     snowflake.ID(3),
		RoleID: domain.RoleStaff,
	}, nil)

	_, err := f.gate.RequireAdmin(bearerRequest("tok"))
	failure := expectFailure(t, err, http.StatusForbidden)
	body := failure.Body()
	if body["role"] != "staff" {
		t.Fatalf("unexpected role detail: %v", body)
	}
	allowed, ok := body["allowed_roles"].([]string)
	if !ok || len(allowed) != 1 || allowed[0] != "admin" {
		t.Fatalf("unexpected allowed_roles: %v", body["allowed_roles"])
	}
}

func TestLoadInvoiceOr403(t *testing.T) {
	f := newGateFixture(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	invoice := invoicedomain.Invoice{
		ID:            snowflake.ID(100),
		ClientID:      clientID(9),
		InvoiceNumber: "INV-2025-000001",
		Status:        invoicedomain.InvoiceStatusDraft,
		IssueDate:     now,
		DueDate:       now.AddDate(0, 0, 30),
		TotalExcl:     decimal.NewFromInt(1500),
		TotalTax:      decimal.Zero,
		TotalIncl:     decimal.NewFromInt(1500),
		Metadata:      datatypes.JSONMap{},
	}
	if err := f.db.Create(&invoice).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}

	ctx := context.Background()
	owner := domain.Session{RoleID: domain.RoleClient, ClientID: clientID(9)}
	other := domain.Session{RoleID: domain.RoleClient, ClientID: clientID(5)}
	admin := domain.Session{RoleID: domain.RoleAdmin}
	staff := domain.Session{RoleID: domain.RoleStaff}

	if got, err := f.gate.LoadInvoiceOr403(ctx, invoice.ID, owner); err != nil || got.ID != invoice.ID {
		t.Fatalf("owner should load invoice: %v", err)
	}
	if _, err := f.gate.LoadInvoiceOr403(ctx, invoice.ID, admin); err != nil {
		t.Fatalf("admin should load invoice: %v", err)
	}

	_, err := f.gate.LoadInvoiceOr403(ctx, invoice.ID, other)
	failure := expectFailure(t, err, http.StatusForbidden)
	if failure.Body()["resource"] != "facture" {
		t.Fatalf("unexpected body %v", failure.Body())
	}

	_, err = f.gate.LoadInvoiceOr403(ctx, invoice.ID, staff)
	expectFailure(t, err, http.StatusForbidden)

	_, err = f.gate.LoadInvoiceOr403(ctx, snowflake.ID(404), admin)
	expectFailure(t, err, http.StatusNotFound)
}

func TestLoadContractWithoutOwnerIsAdminOnly(t *testing.T) {
	f := newGateFixture(t)
	contract := contractdomain.Contract{
		ID:     snowflake.ID(200),
		Title:  "Maintenance",
		Status: "draft",
		Amount: decimal.NewFromInt(800),
	}
	if err := f.db.Create(&contract).Error; err != nil {
		t.Fatalf("seed contract: %v", err)
	}

	ctx := context.Background()
	if _, err := f.gate.LoadContractOr403(ctx, contract.ID, domain.Session{RoleID: domain.RoleAdmin}); err != nil {
		t.Fatalf("admin should load contract: %v", err)
	}

	_, err := f.gate.LoadContractOr403(ctx, contract.ID, domain.Session{RoleID: domain.RoleClient, ClientID: clientID(5)})
	failure := expectFailure(t, err, http.StatusForbidden)
	if failure.Body()["resource"] != "contrat" {
		t.Fatalf("unexpected body %v", failure.Body())
	}
}

func TestLoadExpenseOr403(t *testing.T) {
	f := newGateFixture(t)
	expense := expensedomain.Expense{
		ID:          snowflake.ID(300),
		ClientID:    clientID(5),
		Description: "Meta Ads",
		Amount:      decimal.NewFromInt(120),
		ExpenseDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := f.db.Create(&expense).Error; err != nil {
		t.Fatalf("seed expense: %v", err)
	}

	ctx := context.Background()
	if _, err := f.gate.LoadExpenseOr403(ctx, expense.ID, domain.Session{RoleID: domain.RoleClient, ClientID: clientID(5)}); err != nil {
		t.Fatalf("owner should load expense: %v", err)
	}
	_, err := f.gate.LoadExpenseOr403(ctx, expense.ID, domain.Session{RoleID: domain.RoleClient, ClientID: clientID(9)})
	failure := expectFailure(t, err, http.StatusForbidden)
	if failure.Body()["resource"] != "dépense" {
		t.Fatalf("unexpected body %v", failure.Body())
	}
}
