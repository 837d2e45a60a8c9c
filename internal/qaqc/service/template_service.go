package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/panelfab/qaqc/internal/qaqc/entity"
	"github.com/panelfab/qaqc/internal/qaqc/report"
	"github.com/panelfab/qaqc/internal/qaqc/repository"
)

// TemplateService manages checklist registrations and uploaded MIR
// template files.
type TemplateService struct {
	repo        *repository.TemplateRepository
	projRepo    *repository.ProjectRepository
	storageRoot string
}

func NewTemplateService(repo *repository.TemplateRepository, projRepo *repository.ProjectRepository, storageRoot string) *TemplateService {
	return &TemplateService{repo: repo, projRepo: projRepo, storageRoot: storageRoot}
}

// RegisterChecklist records a checklist template name against a project.
func (s *TemplateService) RegisterChecklist(ctx context.Context, projectID, templateName string) (*entity.ChecklistTemplate, error) {
	if _, err := s.projRepo.FindByID(ctx, projectID); err != nil {
		return nil, err
	}

	tpl := &entity.ChecklistTemplate{
		ID:           uuid.New().String()[:32],
		ProjectID:    projectID,
		TemplateName: templateName,
		UploadedAt:   time.Now(),
	}
	if err := s.repo.CreateChecklist(ctx, tpl); err != nil {
		return nil, fmt.Errorf("register checklist: %w", err)
	}
	return tpl, nil
}

// SaveMIRTemplate stores an uploaded template file under the project's
// templates folder and records it.
func (s *TemplateService) SaveMIRTemplate(ctx context.Context, projectID, fileName, templateType string, r io.Reader) (*entity.MIRTemplate, error) {
	if _, err := s.projRepo.FindByID(ctx, projectID); err != nil {
		return nil, err
	}

	switch templateType {
	case "":
		templateType = entity.MIRTemplateCoverPage
	case entity.MIRTemplateCoverPage, entity.MIRTemplatePanelList, entity.MIRTemplateCustom:
	default:
		return nil, fmt.Errorf("unknown template type %q", templateType)
	}

	dir := report.TemplatesDir(s.storageRoot, projectID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create templates folder: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s", templateType, filepath.Base(fileName)))
	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create template file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return nil, fmt.Errorf("save template file: %w", err)
	}

	tpl := &entity.MIRTemplate{
		ID:           uuid.New().String()[:32],
		ProjectID:    projectID,
		TemplateName: filepath.Base(fileName),
		TemplateType: templateType,
		FilePath:     path,
		UploadedAt:   time.Now(),
	}
	if err := s.repo.CreateMIRTemplate(ctx, tpl); err != nil {
		return nil, fmt.Errorf("record template: %w", err)
	}
	return tpl, nil
}

// ListMIRTemplates returns a project's uploaded templates, newest first.
func (s *TemplateService) ListMIRTemplates(ctx context.Context, projectID string) ([]entity.MIRTemplate, error) {
	return s.repo.FindMIRTemplates(ctx, projectID)
}
