package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	auditdomain "github.com/smallbiznis/agencydesk/internal/audit/domain"
	clientdomain "github.com/smallbiznis/agencydesk/internal/client/domain"
	clientpackagedomain "github.com/smallbiznis/agencydesk/internal/clientpackage/domain"
	"github.com/smallbiznis/agencydesk/internal/clock"
	"github.com/smallbiznis/agencydesk/internal/config"
	invoicedomain "github.com/smallbiznis/agencydesk/internal/invoice/domain"
	"github.com/smallbiznis/agencydesk/internal/invoice/numbering"
	mandatedomain "github.com/smallbiznis/agencydesk/internal/mandate/domain"
	"github.com/smallbiznis/agencydesk/internal/observability/logger"
	"github.com/smallbiznis/agencydesk/internal/observability/metrics"
	"github.com/smallbiznis/agencydesk/internal/observability/tracing"
	"github.com/smallbiznis/agencydesk/internal/provisioning/domain"
	"github.com/smallbiznis/agencydesk/internal/provisioning/schedule"
	"github.com/smallbiznis/agencydesk/internal/provisioning/template"
	servicepackagedomain "github.com/smallbiznis/agencydesk/internal/servicepackage/domain"
	"github.com/smallbiznis/agencydesk/pkg/db"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	GenID          *snowflake.Node
	Clock          clock.Clock
	Config         *config.ProvisioningConfigHolder
	Packages       servicepackagedomain.Repository
	Clients        clientdomain.Repository
	Mandates       mandatedomain.Repository
	Invoices       invoicedomain.Repository
	ClientPackages clientpackagedomain.Repository
	Numberer       numbering.Numberer
	Metrics        *metrics.DomainMetrics `optional:"true"`
	AuditSvc       auditdomain.Service    `optional:"true"`
}

type Service struct {
	db             *gorm.DB
	log            *zap.Logger
	genID          *snowflake.Node
	clock          clock.Clock
	config         *config.ProvisioningConfigHolder
	packages       servicepackagedomain.Repository
	clients        clientdomain.Repository
	mandates       mandatedomain.Repository
	invoices       invoicedomain.Repository
	clientPackages clientpackagedomain.Repository
	numberer       numbering.Numberer
	metrics        *metrics.DomainMetrics
	auditSvc       auditdomain.Service
	tracer         trace.Tracer
}

func New(p Params) domain.Service {
	return &Service{
		db:             p.DB,
		log:            p.Log.Named("provisioning.service"),
		genID:          p.GenID,
		clock:          p.Clock,
		config:         p.Config,
		packages:       p.Packages,
		clients:        p.Clients,
		mandates:       p.Mandates,
		invoices:       p.Invoices,
		clientPackages: p.ClientPackages,
		numberer:       p.Numberer,
		metrics:        p.Metrics,
		auditSvc:       p.AuditSvc,
		tracer:         otel.Tracer("agencydesk/provisioning"),
	}
}

// run carries the values resolved in the first step through the rest of the
// workflow.
type run struct {
	id          string
	pkg         *servicepackagedomain.Package
	client      *clientdomain.Client
	customPrice *decimal.Decimal
	finalPrice  decimal.Decimal
	startDate   time.Time
	today       time.Time
}

// ProvisionPackageForClient writes mandate, tasks, invoices and the client
// package association in that order. Each step commits on its own; a failure
// aborts the remaining steps and leaves earlier rows in place.
func (s *Service) ProvisionPackageForClient(ctx context.Context, req domain.ProvisionRequest) (domain.ProvisionResult, error) {
	started := s.clock.Now()
	runID := ulid.Make().String()

	ctx, span := s.tracer.Start(ctx, "provisioning.provision_package", trace.WithAttributes(
		attribute.String("provisioning.run_id", runID),
		attribute.String("client.id", req.ClientID.String()),
		attribute.String("package.id", req.PackageID.String()),
	))
	defer span.End()

	log := logger.WithContext(ctx, s.log).With(
		zap.String("run_id", runID),
		zap.String("client_id", req.ClientID.String()),
		zap.String("package_id", req.PackageID.String()),
	)

	result, step, err := s.provision(ctx, req, runID, log)
	if err != nil {
		span.RecordError(tracing.SafeError(err))
		span.SetStatus(codes.Error, step)
		s.metrics.IncProvisioningError(step, err)
		s.metrics.ObserveProvisioning(step, s.clock.Now().Sub(started))
		return domain.ProvisionResult{}, err
	}

	s.metrics.ObserveProvisioning(metrics.OutcomeSuccess, s.clock.Now().Sub(started))
	s.auditProvisioned(ctx, result)
	log.Info("package provisioned",
		zap.String("mandate_id", result.Mandate.ID.String()),
		zap.Int("tasks", len(result.Tasks)),
		zap.Int("invoices", len(result.Invoices)),
	)
	return result, nil
}

func (s *Service) provision(ctx context.Context, req domain.ProvisionRequest, runID string, log *zap.Logger) (domain.ProvisionResult, string, error) {
	r, err := s.resolve(ctx, req, runID)
	if err != nil {
		log.Error("provisioning aborted", zap.String("step", domain.StepResolve), zap.Error(err))
		return domain.ProvisionResult{}, domain.StepResolve, err
	}

	mandate, err := s.createMandate(ctx, r)
	if err != nil {
		log.Error("provisioning aborted", zap.String("step", domain.StepMandate), zap.Error(err))
		return domain.ProvisionResult{}, domain.StepMandate, err
	}
	log.Info("mandate created", zap.String("mandate_id", mandate.ID.String()))

	tasks, err := s.createTasks(ctx, r, mandate)
	if err != nil {
		log.Error("provisioning aborted", zap.String("step", domain.StepTasks), zap.String("mandate_id", mandate.ID.String()), zap.Error(err))
		return domain.ProvisionResult{}, domain.StepTasks, err
	}
	log.Info("tasks created", zap.Int("count", len(tasks)))

	invoices, err := s.createInvoices(ctx, r, mandate)
	if err != nil {
		log.Error("provisioning aborted", zap.String("step", domain.StepInvoices), zap.String("mandate_id", mandate.ID.String()), zap.Int("invoices_written", len(invoices)), zap.Error(err))
		return domain.ProvisionResult{}, domain.StepInvoices, err
	}
	s.metrics.AddInvoicesGenerated(string(r.pkg.BillingFrequency), len(invoices))
	log.Info("invoices created", zap.Int("count", len(invoices)))

	mandateID := mandate.ID
	association, err := s.insertAssociation(ctx, r.client.ID, r.pkg.ID, &mandateID, r.finalPrice, r.startDate)
	if err != nil {
		log.Error("provisioning aborted", zap.String("step", domain.StepAssociation), zap.String("mandate_id", mandate.ID.String()), zap.Error(err))
		return domain.ProvisionResult{}, domain.StepAssociation, err
	}

	return domain.ProvisionResult{
		RunID:         runID,
		Mandate:       mandate,
		Tasks:         tasks,
		Invoices:      invoices,
		ClientPackage: association,
	}, "", nil
}

func (s *Service) resolve(ctx context.Context, req domain.ProvisionRequest, runID string) (*run, error) {
	if req.ClientID == 0 || req.PackageID == 0 {
		return nil, domain.ErrInvalidRequest
	}

	ctx, span := s.tracer.Start(ctx, "provisioning.resolve")
	defer span.End()

	pkg, err := s.packages.FindByID(ctx, s.db, req.PackageID)
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}
	if pkg == nil {
		return nil, domain.ErrPackageNotFound
	}
	if !pkg.BillingFrequency.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidBillingFrequency, pkg.BillingFrequency)
	}

	client, err := s.clients.FindByID(ctx, s.db, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("load client: %w", err)
	}
	if client == nil {
		return nil, domain.ErrClientNotFound
	}

	today := clock.Date(s.clock.Now())
	startDate := today
	if req.StartDate != nil {
		startDate = clock.Date(*req.StartDate)
	}
	finalPrice := pkg.Price
	if req.CustomPrice != nil {
		finalPrice = *req.CustomPrice
	}

	return &run{
		id:          runID,
		pkg:         pkg,
		client:      client,
		customPrice: req.CustomPrice,
		finalPrice:  finalPrice,
		startDate:   startDate,
		today:       today,
	}, nil
}

func (s *Service) createMandate(ctx context.Context, r *run) (mandatedomain.Mandate, error) {
	ctx, span := s.tracer.Start(ctx, "provisioning.mandate")
	defer span.End()

	tmpl, err := s.packages.FindMandateTemplate(ctx, s.db, r.pkg.ID)
	if err != nil {
		return mandatedomain.Mandate{}, fmt.Errorf("%w: load mandate template: %w", domain.ErrMandateCreationFailed, err)
	}

	var endDate *time.Time
	if tmpl != nil && tmpl.DefaultDurationDays != nil {
		end := r.today.AddDate(0, 0, *tmpl.DefaultDurationDays)
		endDate = &end
	}

	values := map[template.Token]string{
		template.TokenClientName:  r.client.Name,
		template.TokenPackageName: r.pkg.Name,
		template.TokenStartDate:   r.startDate.Format(dateLayout),
		template.TokenEndDate:     "",
	}
	if endDate != nil {
		values[template.TokenEndDate] = endDate.Format(dateLayout)
	}

	title := fmt.Sprintf("Mandat %s - %s", r.pkg.Name, r.client.Name)
	description := fmt.Sprintf("Mandat généré depuis le package %s", r.pkg.Name)
	mandateType := slug.Make(r.pkg.Name)
	if tmpl != nil {
		if tmpl.TitleTemplate != "" {
			title = template.Render(tmpl.TitleTemplate, values)
		}
		if tmpl.DescriptionTemplate != "" {
			description = template.Render(tmpl.DescriptionTemplate, values)
		}
		if tmpl.MandateType != "" {
			mandateType = tmpl.MandateType
		}
	}

	now := s.clock.Now()
	mandate := mandatedomain.Mandate{
		ID:          s.genID.Generate(),
		ClientID:    r.client.ID,
		MandateType: mandateType,
		Title:       title,
		Description: description,
		Status:      mandatedomain.StatusInProgress,
		StartDate:   r.startDate,
		EndDate:     endDate,
		Metadata: datatypes.JSONMap{
			"provisioning_run_id": r.id,
			"package_id":          r.pkg.ID.String(),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.mandates.Insert(ctx, s.db, &mandate); err != nil {
		return mandatedomain.Mandate{}, fmt.Errorf("%w: %w", domain.ErrMandateCreationFailed, err)
	}
	return mandate, nil
}

func (s *Service) createTasks(ctx context.Context, r *run, mandate mandatedomain.Mandate) ([]mandatedomain.Task, error) {
	ctx, span := s.tracer.Start(ctx, "provisioning.tasks")
	defer span.End()

	templates, err := s.packages.ListActiveTaskTemplates(ctx, s.db, r.pkg.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: load task templates: %w", domain.ErrTaskCreationFailed, err)
	}

	now := s.clock.Now()
	tasks := make([]mandatedomain.Task, 0, len(templates))
	for _, tmpl := range templates {
		taskType, err := mapTaskType(tmpl.TaskType)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrTaskCreationFailed, err)
		}
		status, err := mapTaskStatus(tmpl.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrTaskCreationFailed, err)
		}

		var dueDate *time.Time
		if tmpl.OffsetDays != nil {
			due := r.startDate.AddDate(0, 0, *tmpl.OffsetDays)
			dueDate = &due
		}

		tasks = append(tasks, mandatedomain.Task{
			ID:        s.genID.Generate(),
			MandateID: mandate.ID,
			Title:     tmpl.Title,
			Details:   tmpl.Details,
			TaskType:  taskType,
			Status:    status,
			DueDate:   dueDate,
			CreatedAt: now,
		})
	}

	span.SetAttributes(attribute.Int("provisioning.tasks", len(tasks)))
	if err := s.mandates.InsertTasks(ctx, s.db, tasks); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTaskCreationFailed, err)
	}
	return tasks, nil
}

// createInvoices returns the invoices written so far alongside any error.
func (s *Service) createInvoices(ctx context.Context, r *run, mandate mandatedomain.Mandate) ([]domain.ProvisionedInvoice, error) {
	ctx, span := s.tracer.Start(ctx, "provisioning.invoices")
	defer span.End()

	tmpl, err := s.packages.FindInvoiceTemplate(ctx, s.db, r.pkg.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: load invoice template: %w", domain.ErrInvoiceCreationFailed, err)
	}

	lines := lineItemsFor(r.pkg, tmpl, r.customPrice, r.finalPrice)
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Total)
	}

	issueDates, err := schedule.IssueDates(r.pkg.BillingFrequency, r.startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvoiceCreationFailed, err)
	}
	span.SetAttributes(attribute.Int("provisioning.invoices", len(issueDates)))

	cfg := s.config.Get()
	now := s.clock.Now()
	clientID := r.client.ID
	mandateID := mandate.ID

	invoices := make([]domain.ProvisionedInvoice, 0, len(issueDates))
	for i, issueDate := range issueDates {
		number, err := s.numberer.Next(ctx, cfg.InvoicePrefix, now.Year(), i)
		if err != nil {
			return invoices, fmt.Errorf("%w: allocate number: %w", domain.ErrInvoiceCreationFailed, err)
		}

		invoice := invoicedomain.Invoice{
			ID:            s.genID.Generate(),
			ClientID:      &clientID,
			MandateID:     &mandateID,
			InvoiceNumber: number,
			Status:        invoicedomain.InvoiceStatusDraft,
			IssueDate:     issueDate,
			DueDate:       issueDate.AddDate(0, 0, cfg.InvoiceDueDays),
			TotalExcl:     total,
			TotalTax:      decimal.Zero,
			TotalIncl:     total,
			Metadata: datatypes.JSONMap{
				"provisioning_run_id": r.id,
				"installment":         i + 1,
				"installments":        len(issueDates),
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.insertInvoice(ctx, &invoice, cfg.InvoicePrefix, now.Year(), i); err != nil {
			return invoices, fmt.Errorf("%w: %w", domain.ErrInvoiceCreationFailed, err)
		}

		items := make([]invoicedomain.LineItem, 0, len(lines))
		for position, line := range lines {
			line.ID = s.genID.Generate()
			line.InvoiceID = invoice.ID
			line.Position = position
			line.CreatedAt = now
			items = append(items, line)
		}
		if err := s.invoices.InsertItems(ctx, s.db, items); err != nil {
			return invoices, fmt.Errorf("%w: invoice %s: %w", domain.ErrInvoiceItemCreationFailed, invoice.InvoiceNumber, err)
		}

		invoices = append(invoices, domain.ProvisionedInvoice{Invoice: invoice, Items: items})
	}
	return invoices, nil
}

// insertInvoice writes the header. A number already taken by another run is
// redrawn once before giving up.
func (s *Service) insertInvoice(ctx context.Context, invoice *invoicedomain.Invoice, prefix string, year int, index int) error {
	err := s.invoices.Insert(ctx, s.db, invoice)
	if err == nil || !db.IsDuplicateKeyErr(err) {
		return err
	}

	taken := invoice.InvoiceNumber
	number, nerr := s.numberer.Next(ctx, prefix, year, index)
	if nerr != nil {
		return fmt.Errorf("allocate number: %w", nerr)
	}
	logger.WithContext(ctx, s.log).Warn("invoice number taken, redrawing",
		zap.String("taken", taken),
		zap.String("invoice_number", number),
	)
	invoice.InvoiceNumber = number
	return s.invoices.Insert(ctx, s.db, invoice)
}

// lineItemsFor builds the item set billed on every invoice of the run.
func lineItemsFor(pkg *servicepackagedomain.Package, tmpl *servicepackagedomain.InvoiceTemplate, customPrice *decimal.Decimal, finalPrice decimal.Decimal) []invoicedomain.LineItem {
	if tmpl == nil {
		return []invoicedomain.LineItem{{
			Description: pkg.Name,
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   finalPrice,
			Total:       finalPrice,
		}}
	}

	unitPrice := tmpl.UnitPrice
	if customPrice != nil {
		unitPrice = *customPrice
	}
	quantity := decimal.NewFromInt(1)
	if tmpl.Quantity != nil {
		quantity = *tmpl.Quantity
	}
	return []invoicedomain.LineItem{{
		Description: tmpl.Description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Total:       quantity.Mul(unitPrice),
	}}
}

func (s *Service) AssignPackageToClient(ctx context.Context, req domain.AssignRequest) (clientpackagedomain.ClientPackage, error) {
	if req.ClientID == 0 || req.PackageID == 0 {
		return clientpackagedomain.ClientPackage{}, domain.ErrInvalidRequest
	}

	var price decimal.Decimal
	if req.PurchasedPrice != nil {
		price = *req.PurchasedPrice
	} else {
		pkg, err := s.packages.FindByID(ctx, s.db, req.PackageID)
		if err != nil {
			return clientpackagedomain.ClientPackage{}, fmt.Errorf("load package: %w", err)
		}
		if pkg == nil {
			return clientpackagedomain.ClientPackage{}, domain.ErrPackageNotFound
		}
		price = pkg.Price
	}

	startDate := clock.Date(s.clock.Now())
	if req.StartDate != nil {
		startDate = clock.Date(*req.StartDate)
	}

	association, err := s.insertAssociation(ctx, req.ClientID, req.PackageID, req.MandateID, price, startDate)
	if err != nil {
		s.metrics.IncProvisioningError(domain.StepAssociation, err)
		s.log.Error("assign package failed",
			zap.String("client_id", req.ClientID.String()),
			zap.String("package_id", req.PackageID.String()),
			zap.Error(err),
		)
		return clientpackagedomain.ClientPackage{}, err
	}

	s.audit(ctx, "client_package.assigned", association, map[string]any{
		"package_id": association.PackageID.String(),
	})
	return association, nil
}

func (s *Service) insertAssociation(ctx context.Context, clientID, packageID snowflake.ID, mandateID *snowflake.ID, price decimal.Decimal, startDate time.Time) (clientpackagedomain.ClientPackage, error) {
	ctx, span := s.tracer.Start(ctx, "provisioning.association")
	defer span.End()

	association := clientpackagedomain.ClientPackage{
		ID:             s.genID.Generate(),
		ClientID:       clientID,
		PackageID:      packageID,
		MandateID:      mandateID,
		PurchasedPrice: price,
		Status:         clientpackagedomain.StatusActive,
		StartDate:      startDate,
		CreatedAt:      s.clock.Now(),
	}
	if err := s.clientPackages.Insert(ctx, s.db, &association); err != nil {
		span.RecordError(tracing.SafeError(err))
		return clientpackagedomain.ClientPackage{}, fmt.Errorf("%w: %w", domain.ErrAssociationCreationFailed, err)
	}
	return association, nil
}

func (s *Service) ListClientPackages(ctx context.Context, clientID snowflake.ID) ([]clientpackagedomain.ClientPackage, error) {
	if clientID == 0 {
		return nil, domain.ErrInvalidRequest
	}
	items, err := s.clientPackages.ListByClient(ctx, s.db, clientID)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) auditProvisioned(ctx context.Context, result domain.ProvisionResult) {
	s.audit(ctx, "client_package.provisioned", result.ClientPackage, map[string]any{
		"provisioning_run_id": result.RunID,
		"package_id":          result.ClientPackage.PackageID.String(),
		"mandate_id":          result.Mandate.ID.String(),
		"tasks":               len(result.Tasks),
		"invoices":            len(result.Invoices),
	})
}

func (s *Service) audit(ctx context.Context, action string, association clientpackagedomain.ClientPackage, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	metadata["client_id"] = association.ClientID.String()
	if err := s.auditSvc.Record(ctx, auditdomain.Entry{
		Action:     action,
		TargetType: "client_package",
		TargetID:   association.ID.String(),
		Metadata:   metadata,
	}); err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
		}
	}
}
