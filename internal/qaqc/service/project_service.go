package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/panelfab/qaqc/internal/qaqc/entity"
	"github.com/panelfab/qaqc/internal/qaqc/report"
	"github.com/panelfab/qaqc/internal/qaqc/repository"
)

// ProjectService manages projects and their on-disk storage trees.
type ProjectService struct {
	repo        *repository.ProjectRepository
	storageRoot string
}

func NewProjectService(repo *repository.ProjectRepository, storageRoot string) *ProjectService {
	return &ProjectService{repo: repo, storageRoot: storageRoot}
}

type CreateProjectRequest struct {
	Name               string `json:"name" binding:"required"`
	Code               string `json:"code" binding:"required"`
	Location           string `json:"location"`
	QAQCEngineer       string `json:"qa_qc_engineer"`
	ProductionEngineer string `json:"production_engineer"`
	Foreman            string `json:"foreman"`
}

// Create registers a project and provisions its storage folders
// (production_logs, MIR, templates) under the storage root.
func (s *ProjectService) Create(ctx context.Context, req *CreateProjectRequest) (*entity.Project, error) {
	existing, err := s.repo.FindByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check code: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateCode
	}

	project := &entity.Project{
		ID:                 uuid.New().String()[:32],
		Name:               req.Name,
		Code:               req.Code,
		Location:           req.Location,
		QAQCEngineer:       req.QAQCEngineer,
		ProductionEngineer: req.ProductionEngineer,
		Foreman:            req.Foreman,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	for _, dir := range []string{
		report.ProductionLogsDir(s.storageRoot, project.ID),
		filepath.Join(report.ProjectDir(s.storageRoot, project.ID), "MIR"),
		report.TemplatesDir(s.storageRoot, project.ID),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("provision project folders: %w", err)
		}
	}
	return project, nil
}

// List returns a page of projects, newest first.
func (s *ProjectService) List(ctx context.Context, page, pageSize int) ([]entity.Project, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize)
}

// Get returns one project by ID.
func (s *ProjectService) Get(ctx context.Context, id string) (*entity.Project, error) {
	return s.repo.FindByID(ctx, id)
}
