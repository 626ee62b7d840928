package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/agencydesk/internal/audit"
	auditdomain "github.com/smallbiznis/agencydesk/internal/audit/domain"
	"github.com/smallbiznis/agencydesk/internal/auth"
	authdomain "github.com/smallbiznis/agencydesk/internal/auth/domain"
	"github.com/smallbiznis/agencydesk/internal/authorization"
	"github.com/smallbiznis/agencydesk/internal/client"
	clientdomain "github.com/smallbiznis/agencydesk/internal/client/domain"
	"github.com/smallbiznis/agencydesk/internal/clientpackage"
	"github.com/smallbiznis/agencydesk/internal/config"
	"github.com/smallbiznis/agencydesk/internal/contract"
	"github.com/smallbiznis/agencydesk/internal/expense"
	"github.com/smallbiznis/agencydesk/internal/invoice"
	invoicedomain "github.com/smallbiznis/agencydesk/internal/invoice/domain"
	"github.com/smallbiznis/agencydesk/internal/mandate"
	mandatedomain "github.com/smallbiznis/agencydesk/internal/mandate/domain"
	"github.com/smallbiznis/agencydesk/internal/observability"
	obsmiddleware "github.com/smallbiznis/agencydesk/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/agencydesk/internal/observability/metrics"
	obstracing "github.com/smallbiznis/agencydesk/internal/observability/tracing"
	"github.com/smallbiznis/agencydesk/internal/provisioning"
	provisioningdomain "github.com/smallbiznis/agencydesk/internal/provisioning/domain"
	"github.com/smallbiznis/agencydesk/internal/servicepackage"
	servicepackagedomain "github.com/smallbiznis/agencydesk/internal/servicepackage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	audit.Module,
	authorization.Module,
	auth.Module,
	servicepackage.Module,
	client.Module,
	mandate.Module,
	invoice.Module,
	contract.Module,
	expense.Module,
	clientpackage.Module,
	provisioning.Module,
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(RunHTTP),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	if httpMetrics != nil {
		r.Use(httpMetrics.GinMiddleware())
	}
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	log             *zap.Logger
	validate        *validator.Validate
	gate            authdomain.Gate
	authzSvc        authorization.Service
	auditSvc        auditdomain.Service
	packageSvc      servicepackagedomain.Service
	clientSvc       clientdomain.Service
	invoiceSvc      invoicedomain.Service
	mandateSvc      mandatedomain.Service
	provisioningSvc provisioningdomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Log             *zap.Logger
	Gate            authdomain.Gate
	AuthzSvc        authorization.Service
	AuditSvc        auditdomain.Service
	PackageSvc      servicepackagedomain.Service
	ClientSvc       clientdomain.Service
	InvoiceSvc      invoicedomain.Service
	MandateSvc      mandatedomain.Service
	ProvisioningSvc provisioningdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("http.server"),
		validate:        newValidator(),
		gate:            p.Gate,
		authzSvc:        p.AuthzSvc,
		auditSvc:        p.AuditSvc,
		packageSvc:      p.PackageSvc,
		clientSvc:       p.ClientSvc,
		invoiceSvc:      p.InvoiceSvc,
		mandateSvc:      p.MandateSvc,
		provisioningSvc: p.ProvisioningSvc,
	}

	svc.registerAdminRoutes()
	svc.registerAPIRoutes()
	svc.registerFallback()
	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.SessionRequired())

	// -------- Catalog --------
	admin.GET("/packages",
		s.RequireRole(authdomain.RoleAdmin, authdomain.RoleStaff),
		s.authorize(authorization.ObjectPackage, authorization.ActionPackageView),
		s.ListPackages,
	)
	admin.GET("/packages/:id",
		s.RequireRole(authdomain.RoleAdmin, authdomain.RoleStaff),
		s.authorize(authorization.ObjectPackage, authorization.ActionPackageView),
		s.GetPackageByID,
	)

	// -------- Clients --------
	clients := admin.Group("/clients", s.RequireAdmin())
	clients.GET("/:id", s.authorize(authorization.ObjectClient, authorization.ActionClientView), s.GetClientByID)
	clients.GET("/:id/packages", s.authorize(authorization.ObjectClientPackage, authorization.ActionClientPackageView), s.ListClientPackages)
	clients.POST("/:id/packages/provision", s.authorize(authorization.ObjectClientPackage, authorization.ActionClientPackageProvision), s.ProvisionPackage)
	clients.POST("/:id/packages/assign", s.authorize(authorization.ObjectClientPackage, authorization.ActionClientPackageAssign), s.AssignPackage)

	// -------- Mandates --------
	admin.GET("/mandates/:id", s.RequireAdmin(), s.authorize(authorization.ObjectMandate, authorization.ActionMandateView), s.GetMandateByID)

	// -------- Audit --------
	admin.GET("/audit-logs", s.RequireAdmin(), s.authorize(authorization.ObjectAuditLog, authorization.ActionAuditLogView), s.ListAuditLogs)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.SessionRequired())

	api.GET("/me", s.authorize(authorization.ObjectProfile, authorization.ActionProfileView), s.Me)

	// -------- Invoices --------
	portal := api.Group("", s.RequireRole(authdomain.RoleAdmin, authdomain.RoleClient))
	portal.GET("/invoices", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceView), s.ListInvoices)
	portal.GET("/invoices/:id", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceView), s.GetInvoiceByID)
	portal.GET("/invoices/:id/items", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceView), s.ListInvoiceItems)
	api.PATCH("/invoices/:id/status",
		s.RequireAdmin(),
		s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceUpdateStatus),
		s.UpdateInvoiceStatus,
	)

	// -------- Contracts / Expenses --------
	portal.GET("/contracts/:id", s.authorize(authorization.ObjectContract, authorization.ActionContractView), s.GetContractByID)
	portal.GET("/expenses/:id", s.authorize(authorization.ObjectExpense, authorization.ActionExpenseView), s.GetExpenseByID)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
