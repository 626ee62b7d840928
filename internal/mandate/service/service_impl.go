package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/agencydesk/internal/mandate/domain"
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
		log:  p.Log.Named("mandate.service"),
		repo: p.Repo,
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.MandateWithTasks, error) {
	mandateID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || mandateID == 0 {
		return domain.MandateWithTasks{}, domain.ErrInvalidID
	}

	mandate, err := s.repo.FindByID(ctx, s.db, mandateID)
	if err != nil {
		return domain.MandateWithTasks{}, err
	}
	if mandate == nil {
		return domain.MandateWithTasks{}, domain.ErrNotFound
	}

	tasks, err := s.repo.ListTasks(ctx, s.db, mandateID)
	if err != nil {
		return domain.MandateWithTasks{}, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return domain.MandateWithTasks{Mandate: *mandate, Tasks: tasks}, nil
}
