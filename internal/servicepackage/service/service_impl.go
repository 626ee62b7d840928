package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/agencydesk/internal/servicepackage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("servicepackage.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListPackageRequest) ([]domain.Package, error) {
	items, err := s.repo.List(ctx, s.db, !req.IncludeInactive)
	if err != nil {
		return nil, err
	}

	packages := make([]domain.Package, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		packages = append(packages, *item)
	}
	return packages, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.PackageDetail, error) {
	packageID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || packageID == 0 {
		return domain.PackageDetail{}, domain.ErrInvalidID
	}

	pkg, err := s.repo.FindByID(ctx, s.db, packageID)
	if err != nil {
		return domain.PackageDetail{}, err
	}
	if pkg == nil {
		return domain.PackageDetail{}, domain.ErrNotFound
	}

	mandateTemplate, err := s.repo.FindMandateTemplate(ctx, s.db, packageID)
	if err != nil {
		return domain.PackageDetail{}, err
	}
	taskTemplates, err := s.repo.ListActiveTaskTemplates(ctx, s.db, packageID)
	if err != nil {
		return domain.PackageDetail{}, err
	}
	invoiceTemplate, err := s.repo.FindInvoiceTemplate(ctx, s.db, packageID)
	if err != nil {
		return domain.PackageDetail{}, err
	}
	if taskTemplates == nil {
		taskTemplates = []domain.TaskTemplate{}
	}

	return domain.PackageDetail{
		Package:         *pkg,
		MandateTemplate: mandateTemplate,
		TaskTemplates:   taskTemplates,
		InvoiceTemplate: invoiceTemplate,
	}, nil
}
