package entity

import (
	"time"
)

// ChecklistTemplate is the registered name of an inspection checklist for a
// project. Write-once; a re-registration creates a new row.
type ChecklistTemplate struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	ProjectID    string    `json:"project_id" gorm:"size:32;not null;index"`
	TemplateName string    `json:"template_name" gorm:"size:128;not null"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

func (ChecklistTemplate) TableName() string {
	return "checklist_templates"
}

// MIRTemplate is an uploaded template PDF (cover page, panel list or custom)
// stored under the project's templates folder.
type MIRTemplate struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	ProjectID    string    `json:"project_id" gorm:"size:32;not null;index"`
	TemplateName string    `json:"template_name" gorm:"size:128;not null"`
	TemplateType string    `json:"template_type" gorm:"size:32;default:cover_page"`
	FilePath     string    `json:"file_path" gorm:"size:512;not null"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

func (MIRTemplate) TableName() string {
	return "mir_templates"
}

// MIR template types
const (
	MIRTemplateCoverPage = "cover_page"
	MIRTemplatePanelList = "panel_list"
	MIRTemplateCustom    = "custom"
)
