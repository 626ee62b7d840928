package service

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/agencydesk/internal/auth/domain"
	"github.com/smallbiznis/agencydesk/internal/config"
	contractdomain "github.com/smallbiznis/agencydesk/internal/contract/domain"
	expensedomain "github.com/smallbiznis/agencydesk/internal/expense/domain"
	invoicedomain "github.com/smallbiznis/agencydesk/internal/invoice/domain"
	"github.com/smallbiznis/agencydesk/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	reasonMissingToken     = "missing_token"
	reasonInvalidToken     = "invalid_token"
	reasonIdentityNotFound = "identity_not_found"
	reasonIdentityLookup   = "identity_lookup"
	reasonRoleDenied       = "role_denied"
	reasonResourceDenied   = "resource_denied"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Cfg       config.Config
	Verifier  domain.TokenVerifier
	Users     domain.Repository
	Invoices  invoicedomain.Repository
	Contracts contractdomain.Repository
	Expenses  expensedomain.Repository
	Metrics   *metrics.DomainMetrics `optional:"true"`
}

type Gate struct {
	db         *gorm.DB
	log        *zap.Logger
	cookieName string
	verifier   domain.TokenVerifier
	users      domain.Repository
	invoices   invoicedomain.Repository
	contracts  contractdomain.Repository
	expenses   expensedomain.Repository
	metrics    *metrics.DomainMetrics
}

func New(p Params) domain.Gate {
	return &Gate{
		db:         p.DB,
		log:        p.Log.Named("auth.gate"),
		cookieName: p.Cfg.AuthCookieName,
		verifier:   p.Verifier,
		users:      p.Users,
		invoices:   p.Invoices,
		contracts:  p.Contracts,
		expenses:   p.Expenses,
		metrics:    p.Metrics,
	}
}

func (g *Gate) RequireSession(r *http.Request) (domain.Session, error) {
	raw := g.extractToken(r)
	if raw == "" {
		g.metrics.IncAuthFailure(reasonMissingToken)
		return domain.Session{}, domain.Unauthenticated(nil)
	}

	claims, err := g.verifier.Verify(raw)
	if err != nil {
		g.metrics.IncAuthFailure(reasonInvalidToken)
		g.log.Debug("token rejected", zap.Error(err))
		return domain.Session{}, domain.Unauthenticated(err)
	}

	user, err := g.users.FindByExternalID(r.Context(), claims.Subject)
	if err != nil {
		g.metrics.IncAuthFailure(reasonIdentityLookup)
		g.log.Error("identity lookup failed", zap.String("subject", claims.Subject), zap.Error(err))
		return domain.Session{}, domain.Internal(err)
	}
	if user == nil {
		g.metrics.IncAuthFailure(reasonIdentityNotFound)
		return domain.Session{}, domain.IdentityNotFound()
	}

	return domain.NewSession(*user), nil
}

func (g *Gate) RequireRole(r *http.Request, allowed ...domain.RoleID) (domain.Session, error) {
	session, err := g.RequireSession(r)
	if err != nil {
		return domain.Session{}, err
	}
	if !slices.Contains(allowed, session.RoleID) {
		g.metrics.IncAuthFailure(reasonRoleDenied)
		return domain.Session{}, domain.Forbidden(allowed, session.RoleID)
	}
	return session, nil
}

func (g *Gate) RequireAdmin(r *http.Request) (domain.Session, error) {
	return g.RequireRole(r, domain.RoleAdmin)
}

func (g *Gate) LoadInvoiceOr403(ctx context.Context, id snowflake.ID, session domain.Session) (*invoicedomain.Invoice, error) {
	return loadOr403(g, session, domain.ResourceInvoice,
		func() (*invoicedomain.Invoice, error) { return g.invoices.FindByID(ctx, g.db, id) },
		func(inv *invoicedomain.Invoice) *snowflake.ID { return inv.ClientID },
	)
}

func (g *Gate) LoadContractOr403(ctx context.Context, id snowflake.ID, session domain.Session) (*contractdomain.Contract, error) {
	return loadOr403(g, session, domain.ResourceContract,
		func() (*contractdomain.Contract, error) { return g.contracts.FindByID(ctx, g.db, id) },
		func(c *contractdomain.Contract) *snowflake.ID { return c.ClientID },
	)
}

func (g *Gate) LoadExpenseOr403(ctx context.Context, id snowflake.ID, session domain.Session) (*expensedomain.Expense, error) {
	return loadOr403(g, session, domain.ResourceExpense,
		func() (*expensedomain.Expense, error) { return g.expenses.FindByID(ctx, g.db, id) },
		func(e *expensedomain.Expense) *snowflake.ID { return e.ClientID },
	)
}

func loadOr403[T any](g *Gate, session domain.Session, kind domain.ResourceKind, load func() (*T, error), owner func(*T) *snowflake.ID) (*T, error) {
	resource, err := load()
	if err != nil {
		g.log.Error("resource lookup failed", zap.String("resource", string(kind)), zap.Error(err))
		return nil, domain.Internal(err)
	}
	if resource == nil {
		return nil, domain.NotFound(kind)
	}
	if err := domain.AssertOwnership(session, owner(resource), kind); err != nil {
		g.metrics.IncAuthFailure(reasonResourceDenied)
		return nil, err
	}
	return resource, nil
}

func (g *Gate) extractToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if g.cookieName == "" {
		return ""
	}
	cookie, err := r.Cookie(g.cookieName)
	if err != nil {
		if !errors.Is(err, http.ErrNoCookie) {
			g.log.Debug("read auth cookie", zap.Error(err))
		}
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}
