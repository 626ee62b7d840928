package domain

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	contractdomain "github.com/smallbiznis/agencydesk/internal/contract/domain"
	expensedomain "github.com/smallbiznis/agencydesk/internal/expense/domain"
	invoicedomain "github.com/smallbiznis/agencydesk/internal/invoice/domain"
)

// Gate resolves who is calling and whether they may touch a resource. Every
// error it returns is a *Failure.
type Gate interface {
	RequireSession(r *http.Request) (Session, error)
	RequireRole(r *http.Request, allowed ...RoleID) (Session, error)
	RequireAdmin(r *http.Request) (Session, error)

	LoadInvoiceOr403(ctx context.Context, id snowflake.ID, session Session) (*invoicedomain.Invoice, error)
	LoadContractOr403(ctx context.Context, id snowflake.ID, session Session) (*contractdomain.Contract, error)
	LoadExpenseOr403(ctx context.Context, id snowflake.ID, session Session) (*expensedomain.Expense, error)
}
