package repository

import (
	"context"

	"github.com/panelfab/qaqc/internal/qaqc/entity"
	"gorm.io/gorm"
)

// TemplateRepository handles checklist and MIR template metadata.
type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// CreateChecklist registers a checklist template name for a project.
func (r *TemplateRepository) CreateChecklist(ctx context.Context, tpl *entity.ChecklistTemplate) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

// CreateMIRTemplate records an uploaded MIR template file.
func (r *TemplateRepository) CreateMIRTemplate(ctx context.Context, tpl *entity.MIRTemplate) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

// FindMIRTemplates lists a project's uploaded MIR templates, newest upload
// first so the superseding copy of each type sorts ahead of stale ones.
func (r *TemplateRepository) FindMIRTemplates(ctx context.Context, projectID string) ([]entity.MIRTemplate, error) {
	var templates []entity.MIRTemplate
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("uploaded_at DESC").
		Find(&templates).Error
	return templates, err
}
