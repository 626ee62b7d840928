package authorization

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/agencydesk/internal/audit/domain"
	authdomain "github.com/smallbiznis/agencydesk/internal/auth/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingAudit struct {
	actions []string
}

func (r *recordingAudit) Record(_ context.Context, entry auditdomain.Entry) error {
	r.actions = append(r.actions, entry.Action)
	return nil
}

func (r *recordingAudit) List(context.Context, auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	return auditdomain.ListAuditLogResponse{}, nil
}

func newTestService(t *testing.T) (Service, *recordingAudit) {
	t.Helper()
	enforcer, err := NewMemoryEnforcer()
	require.NoError(t, err)
	audit := &recordingAudit{}
	return NewService(Params{Log: zap.NewNop(), Enforcer: enforcer, AuditSvc: audit}), audit
}

func TestAuthorizeAdminCanProvision(t *testing.T) {
	svc, audit := newTestService(t)
	session := authdomain.Session{UserID: snowflake.ID(1), RoleID: authdomain.RoleAdmin}

	err := svc.Authorize(context.Background(), session, ObjectClientPackage, ActionClientPackageProvision)
	require.NoError(t, err)
	assert.Empty(t, audit.actions)
}

func TestAuthorizeClientCannotProvision(t *testing.T) {
	svc, audit := newTestService(t)
	session := authdomain.Session{UserID: snowflake.ID(2), RoleID: authdomain.RoleClient}

	err := svc.Authorize(context.Background(), session, ObjectClientPackage, ActionClientPackageProvision)
	require.Error(t, err)
	assert.True(t, errors.Is(err, authdomain.ErrForbidden))

	failure, ok := authdomain.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, failure.Status)
	assert.Equal(t, []string{"admin"}, failure.Body()["allowed_roles"])
	assert.Equal(t, "client", failure.Body()["role"])
	assert.Equal(t, []string{"authorization.denied"}, audit.actions)
}

func TestAuthorizeStaffIsDeniedInvoices(t *testing.T) {
	svc, _ := newTestService(t)
	session := authdomain.Session{UserID: snowflake.ID(3), RoleID: authdomain.RoleStaff}

	assert.NoError(t, svc.Authorize(context.Background(), session, ObjectProfile, ActionProfileView))
	assert.ErrorIs(t, svc.Authorize(context.Background(), session, ObjectInvoice, ActionInvoiceView), authdomain.ErrForbidden)
}

func TestAuthorizeFollowsRoleChange(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	asClient := authdomain.Session{UserID: snowflake.ID(4), RoleID: authdomain.RoleClient}
	require.ErrorIs(t, svc.Authorize(ctx, asClient, ObjectAuditLog, ActionAuditLogView), authdomain.ErrForbidden)

	asAdmin := authdomain.Session{UserID: snowflake.ID(4), RoleID: authdomain.RoleAdmin}
	require.NoError(t, svc.Authorize(ctx, asAdmin, ObjectAuditLog, ActionAuditLogView))

	require.ErrorIs(t, svc.Authorize(ctx, asClient, ObjectAuditLog, ActionAuditLogView), authdomain.ErrForbidden)
}

func TestAllowedRoles(t *testing.T) {
	svc, _ := newTestService(t)
	assert.ElementsMatch(t,
		[]authdomain.RoleID{authdomain.RoleAdmin, authdomain.RoleClient},
		svc.AllowedRoles(ObjectInvoice, ActionInvoiceView),
	)
}

func TestAuthorizeRejectsEmptyInput(t *testing.T) {
	svc, _ := newTestService(t)
	session := authdomain.Session{UserID: snowflake.ID(1), RoleID: authdomain.RoleAdmin}

	assert.ErrorIs(t, svc.Authorize(context.Background(), session, "", ActionInvoiceView), ErrInvalidObject)
	assert.ErrorIs(t, svc.Authorize(context.Background(), session, ObjectInvoice, " "), ErrInvalidAction)
	assert.ErrorIs(t, svc.Authorize(context.Background(), authdomain.Session{}, ObjectInvoice, ActionInvoiceView), ErrInvalidActor)
}
