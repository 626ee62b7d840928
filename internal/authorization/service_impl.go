package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	auditdomain "github.com/smallbiznis/agencydesk/internal/audit/domain"
	authdomain "github.com/smallbiznis/agencydesk/internal/auth/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectPackage       = "package"
	ObjectClient        = "client"
	ObjectClientPackage = "client_package"
	ObjectMandate       = "mandate"
	ObjectInvoice       = "invoice"
	ObjectContract      = "contract"
	ObjectExpense       = "expense"
	ObjectAuditLog      = "audit_log"
	ObjectProfile       = "profile"
)

const (
	ActionPackageView = "package.view"

	ActionClientView = "client.view"

	ActionClientPackageView      = "client_package.view"
	ActionClientPackageProvision = "client_package.provision"
	ActionClientPackageAssign    = "client_package.assign"

	ActionMandateView = "mandate.view"

	ActionInvoiceView         = "invoice.view"
	ActionInvoiceUpdateStatus = "invoice.update_status"

	ActionContractView = "contract.view"
	ActionExpenseView  = "expense.view"

	ActionAuditLogView = "audit_log.view"

	ActionProfileView = "profile.view"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	AuditSvc auditdomain.Service `optional:"true"`
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	auditSvc auditdomain.Service
}

// NewEnforcer persists policies in casbin_rule through the gorm adapter.
func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	return newEnforcer(adapter)
}

// NewMemoryEnforcer keeps policies in process only.
func NewMemoryEnforcer() (*casbin.SyncedEnforcer, error) {
	return newEnforcer(nil)
}

func newEnforcer(adapter persist.Adapter) (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	var enforcer *casbin.SyncedEnforcer
	if adapter != nil {
		enforcer, err = casbin.NewSyncedEnforcer(m, adapter)
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
	}
	if err != nil {
		return nil, err
	}

	enforcer.EnableAutoBuildRoleLinks(true)
	if adapter != nil {
		enforcer.EnableAutoSave(true)
		if err := enforcer.LoadPolicy(); err != nil {
			return nil, err
		}
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	if err := enforcer.BuildRoleLinks(); err != nil {
		return nil, err
	}
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		auditSvc: p.AuditSvc,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, session authdomain.Session, object string, action string) error {
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}
	if session.UserID == 0 {
		return ErrInvalidActor
	}

	subject := userSubject(session)
	if err := s.ensureGrouping(subject, roleSubject(session.RoleID)); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.auditDenied(ctx, session, object, action)
		return authdomain.Forbidden(s.AllowedRoles(object, action), session.RoleID)
	}
	return nil
}

func (s *ServiceImpl) AllowedRoles(object string, action string) []authdomain.RoleID {
	rules, err := s.enforcer.GetFilteredPolicy(1, object, action)
	if err != nil {
		s.log.Warn("list policies", zap.Error(err))
		return nil
	}
	roles := make([]authdomain.RoleID, 0, len(rules))
	for _, rule := range rules {
		if len(rule) == 0 {
			continue
		}
		for _, candidate := range []authdomain.RoleID{authdomain.RoleAdmin, authdomain.RoleClient, authdomain.RoleStaff} {
			if rule[0] == roleSubject(candidate) {
				roles = append(roles, candidate)
			}
		}
	}
	return roles
}

// ensureGrouping keeps exactly one role link per user so role changes take
// effect on the next request.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 || rule[1] == roleName {
			continue
		}
		params := make([]interface{}, 0, len(rule))
		for _, value := range rule {
			params = append(params, value)
		}
		if _, err := s.enforcer.RemoveGroupingPolicy(params...); err != nil {
			return err
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func (s *ServiceImpl) auditDenied(ctx context.Context, session authdomain.Session, object string, action string) {
	if s.auditSvc == nil {
		return
	}
	if err := s.auditSvc.Record(ctx, auditdomain.Entry{
		Actor:      &auditdomain.Actor{Type: auditdomain.ActorTypeUser, ID: session.UserID.String()},
		Action:     "authorization.denied",
		TargetType: "authorization",
		TargetID:   object + ":" + action,
		Metadata:   map[string]any{"role": session.RoleID.String()},
	}); err != nil {
		s.log.Warn("audit authorization denial", zap.Error(err))
	}
}

func userSubject(session authdomain.Session) string {
	return fmt.Sprintf("user:%s", session.UserID.String())
}

func roleSubject(role authdomain.RoleID) string {
	return fmt.Sprintf("role:%s", role.String())
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Admin: full back office
		{"role:admin", ObjectPackage, ActionPackageView},
		{"role:admin", ObjectClient, ActionClientView},
		{"role:admin", ObjectClientPackage, ActionClientPackageView},
		{"role:admin", ObjectClientPackage, ActionClientPackageProvision},
		{"role:admin", ObjectClientPackage, ActionClientPackageAssign},
		{"role:admin", ObjectMandate, ActionMandateView},
		{"role:admin", ObjectInvoice, ActionInvoiceView},
		{"role:admin", ObjectInvoice, ActionInvoiceUpdateStatus},
		{"role:admin", ObjectContract, ActionContractView},
		{"role:admin", ObjectExpense, ActionExpenseView},
		{"role:admin", ObjectAuditLog, ActionAuditLogView},
		{"role:admin", ObjectProfile, ActionProfileView},

		// Client portal, row scoping is enforced by the gate
		{"role:client", ObjectInvoice, ActionInvoiceView},
		{"role:client", ObjectContract, ActionContractView},
		{"role:client", ObjectExpense, ActionExpenseView},
		{"role:client", ObjectProfile, ActionProfileView},

		{"role:staff", ObjectPackage, ActionPackageView},
		{"role:staff", ObjectProfile, ActionProfileView},
	}

	for _, policy := range policies {
		has, err := enforcer.HasPolicy(policy)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
