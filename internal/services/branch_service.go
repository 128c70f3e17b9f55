package services

import (
	"context"
	"log/slog"

	"fleetmaster/internal/filters"
	"fleetmaster/internal/interfaces"
	"fleetmaster/internal/logger"
	"fleetmaster/internal/models"
	"fleetmaster/internal/pagination"
)

type BranchService struct {
	repo interfaces.BranchRepository
	log  *slog.Logger
}

var _ CRUDService[models.CreateBranchRequest, models.UpdateBranchRequest, models.Branch, filters.BranchFilter] = (*BranchService)(nil)

func NewBranchService(repo interfaces.BranchRepository) *BranchService {
	return &BranchService{repo: repo, log: logger.WithService("branch")}
}

func (s *BranchService) GetAll(ctx context.Context, filter filters.BranchFilter) (pagination.Page[models.Branch], error) {
	branches, err := s.repo.GetAll(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to load branches", "error", err)
		return pagination.Page[models.Branch]{}, internal(err)
	}
	return pagination.Paginate(filter.Apply(branches), filter.Params), nil
}

func (s *BranchService) GetByID(ctx context.Context, id int) (*models.Branch, error) {
	branch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("Branch")
		}
		return nil, internal(err)
	}
	return branch, nil
}

func (s *BranchService) Add(ctx context.Context, input models.CreateBranchRequest) (*models.Branch, error) {
	branch := &models.Branch{Name: input.Name, Location: input.Location}
	if err := s.repo.Add(ctx, branch); err != nil {
		s.log.ErrorContext(ctx, "failed to create branch", "error", err)
		return nil, classifyWriteError("Branch", err)
	}
	s.log.InfoContext(ctx, "branch created", "id", branch.ID)
	return branch, nil
}

func (s *BranchService) Update(ctx context.Context, id int, input models.UpdateBranchRequest) (*models.Branch, error) {
	branch, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	branch.Name = input.Name
	branch.Location = input.Location
	if err := s.repo.Update(ctx, branch); err != nil {
		s.log.ErrorContext(ctx, "failed to update branch", "id", id, "error", err)
		return nil, classifyWriteError("Branch", err)
	}
	return branch, nil
}

func (s *BranchService) Delete(ctx context.Context, id int) error {
	return deleteEntity(ctx, s.log, "Branch", id, s.repo.Delete)
}

func deleteEntity(ctx context.Context, log *slog.Logger, resource string, id int, del func(context.Context, int) error) error {
	err := del(ctx, id)
	switch {
	case err == nil:
		log.InfoContext(ctx, "deleted", "resource", resource, "id", id)
		return nil
	case isNoRows(err):
		return notFound(resource)
	default:
		log.WarnContext(ctx, "delete failed", "resource", resource, "id", id, "error", err)
		return classifyWriteError(resource, err)
	}
}
