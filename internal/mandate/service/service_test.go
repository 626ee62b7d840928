package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/agencydesk/internal/mandate/domain"
	"github.com/smallbiznis/agencydesk/internal/mandate/repository"
	"github.com/smallbiznis/agencydesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

func TestGetByID(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Mandate{}, &domain.Task{}))

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, conn.Create(&domain.Mandate{
		ID: 5, ClientID: 3, MandateType: "pack-social", Title: "Mandat Pack Social - Acme",
		Status: domain.StatusInProgress, StartDate: start, Metadata: datatypes.JSONMap{},
	}).Error)
	require.NoError(t, conn.Create(&domain.Mandate{
		ID: 6, ClientID: 3, MandateType: "ads", Title: "Sans tâches",
		Status: domain.StatusDraft, StartDate: start, Metadata: datatypes.JSONMap{},
	}).Error)
	require.NoError(t, conn.Create(&[]domain.Task{
		{ID: 11, MandateID: 5, Title: "Kickoff", TaskType: domain.TaskTypeCall, Status: domain.TaskStatusTodo},
		{ID: 10, MandateID: 5, Title: "Accès", TaskType: domain.TaskTypeAdmin, Status: domain.TaskStatusInProgress},
	}).Error)

	svc := New(Params{DB: conn, Log: zap.NewNop(), Repo: repository.Provide()})

	got, err := svc.GetByID(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, "Mandat Pack Social - Acme", got.Title)
	require.Len(t, got.Tasks, 2)
	assert.Equal(t, "Accès", got.Tasks[0].Title)
	assert.Equal(t, "Kickoff", got.Tasks[1].Title)

	empty, err := svc.GetByID(context.Background(), "6")
	require.NoError(t, err)
	assert.NotNil(t, empty.Tasks)
	assert.Empty(t, empty.Tasks)

	_, err = svc.GetByID(context.Background(), "7")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByID(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
