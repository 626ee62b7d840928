package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/agencydesk/internal/servicepackage/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Package, error) {
	var pkg domain.Package
	err := db.WithContext(ctx).Where("id = ?", id).First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pkg, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*domain.Package, error) {
	var packages []*domain.Package
	stmt := db.WithContext(ctx).Model(&domain.Package{})
	if activeOnly {
		stmt = stmt.Where("is_active = ?", true)
	}
	if err := stmt.Order("name asc, id asc").Find(&packages).Error; err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *repo) FindMandateTemplate(ctx context.Context, db *gorm.DB, packageID snowflake.ID) (*domain.MandateTemplate, error) {
	var tmpl domain.MandateTemplate
	err := db.WithContext(ctx).Where("package_id = ?", packageID).First(&tmpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tmpl, nil
}

func (r *repo) ListActiveTaskTemplates(ctx context.Context, db *gorm.DB, packageID snowflake.ID) ([]domain.TaskTemplate, error) {
	var templates []domain.TaskTemplate
	err := db.WithContext(ctx).
		Where("package_id = ? AND is_active = ?", packageID, true).
		Order("display_order asc, id asc").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *repo) FindInvoiceTemplate(ctx context.Context, db *gorm.DB, packageID snowflake.ID) (*domain.InvoiceTemplate, error) {
	var tmpl domain.InvoiceTemplate
	err := db.WithContext(ctx).Where("package_id = ?", packageID).First(&tmpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tmpl, nil
}
