package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/agencydesk/internal/servicepackage/domain"
	"github.com/smallbiznis/agencydesk/internal/servicepackage/repository"
	"github.com/smallbiznis/agencydesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

func TestGetReturnsTemplatesInDisplayOrder(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Package{}, &domain.TaskTemplate{}, &domain.MandateTemplate{}, &domain.InvoiceTemplate{}))

	require.NoError(t, conn.Create(&domain.Package{
		ID:               7,
		Name:             "Pack Social",
		Price:            decimal.NewFromInt(1000),
		BillingFrequency: domain.BillingFrequencyQuarterly,
		IsActive:         true,
		Metadata:         datatypes.JSONMap{},
	}).Error)
	require.NoError(t, conn.Create(&[]domain.TaskTemplate{
		{ID: 1, PackageID: 7, Title: "Second", TaskType: domain.TemplateTaskTypeMeeting, Status: domain.TemplateTaskStatusPending, DisplayOrder: 2, IsActive: true},
		{ID: 2, PackageID: 7, Title: "First", TaskType: domain.TemplateTaskTypeOnboarding, Status: domain.TemplateTaskStatusPending, DisplayOrder: 1, IsActive: true},
		{ID: 3, PackageID: 7, Title: "Retired", TaskType: domain.TemplateTaskTypeReporting, Status: domain.TemplateTaskStatusPending, DisplayOrder: 0, IsActive: false},
	}).Error)
	require.NoError(t, conn.Model(&domain.TaskTemplate{}).Where("id = ?", 3).Update("is_active", false).Error)

	svc := New(Params{DB: conn, Log: zap.NewNop(), Repo: repository.Provide()})

	detail, err := svc.Get(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "Pack Social", detail.Name)
	assert.Nil(t, detail.MandateTemplate)
	assert.Nil(t, detail.InvoiceTemplate)
	require.Len(t, detail.TaskTemplates, 2)
	assert.Equal(t, "First", detail.TaskTemplates[0].Title)
	assert.Equal(t, "Second", detail.TaskTemplates[1].Title)
}

func TestGetUnknownPackage(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Package{}, &domain.TaskTemplate{}, &domain.MandateTemplate{}, &domain.InvoiceTemplate{}))

	svc := New(Params{DB: conn, Log: zap.NewNop(), Repo: repository.Provide()})

	_, err = svc.Get(context.Background(), "404")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestListSkipsInactivePackages(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Package{}))

	require.NoError(t, conn.Create(&domain.Package{ID: 1, Name: "Active", Price: decimal.NewFromInt(10), BillingFrequency: domain.BillingFrequencyMonthly, IsActive: true, Metadata: datatypes.JSONMap{}}).Error)
	require.NoError(t, conn.Create(&domain.Package{ID: 2, Name: "Archived", Price: decimal.NewFromInt(10), BillingFrequency: domain.BillingFrequencyMonthly, IsActive: true, Metadata: datatypes.JSONMap{}}).Error)
	require.NoError(t, conn.Model(&domain.Package{}).Where("id = ?", 2).Update("is_active", false).Error)

	svc := New(Params{DB: conn, Log: zap.NewNop(), Repo: repository.Provide()})

	active, err := svc.List(context.Background(), domain.ListPackageRequest{})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Active", active[0].Name)

	all, err := svc.List(context.Background(), domain.ListPackageRequest{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
