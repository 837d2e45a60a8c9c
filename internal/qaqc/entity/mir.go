package entity

import (
	"time"
)

// MIRMaster is one Manufacturing Inspection Report for a project: a bundle
// of per-panel documents merged into a single approved PDF package.
//
// MIRNumber is formatted MIR-NNNN and is sequential per project; the unique
// index is composite because the sequence is scoped to the project, not the
// whole system.
type MIRMaster struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	ProjectID    string    `json:"project_id" gorm:"size:32;not null;uniqueIndex:idx_mir_project_number"`
	MIRNumber    string    `json:"mir_number" gorm:"size:32;not null;uniqueIndex:idx_mir_project_number"`
	Status       string    `json:"status" gorm:"size:16;default:Draft"`
	PipelineStep string    `json:"pipeline_step" gorm:"size:16;default:''"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Project *Project   `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Panels  []MIRPanel `json:"panels,omitempty" gorm:"foreignKey:MIRID"`
}

func (MIRMaster) TableName() string {
	return "mir_master"
}

// MIRPanel links an MIR to one included panel. Membership only; ordering
// carries no meaning.
type MIRPanel struct {
	ID      string `json:"id" gorm:"primaryKey;size:32"`
	MIRID   string `json:"mir_id" gorm:"size:32;not null;index"`
	PanelID string `json:"panel_id" gorm:"size:64;not null"`
}

func (MIRPanel) TableName() string {
	return "mir_panels"
}

// MIRSequence is the per-project report-number counter. The row is read
// FOR UPDATE and incremented inside the same transaction that inserts the
// MIRMaster record, so two concurrent requests can never draw the same
// number.
type MIRSequence struct {
	ProjectID  string    `json:"project_id" gorm:"primaryKey;size:32"`
	LastNumber int       `json:"last_number" gorm:"not null;default:0"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (MIRSequence) TableName() string {
	return "mir_sequences"
}

// MIR statuses
const (
	MIRStatusDraft = "Draft"
	MIRStatusReady = "Ready"
	MIRStatusFinal = "Final"
)

// Pipeline steps, persisted on MIRMaster after each completed stage so an
// interrupted run can be resumed.
const (
	MIRStepSequenced   = "sequenced"
	MIRStepProvisioned = "provisioned"
	MIRStepGenerated   = "generated"
	MIRStepCollected   = "collected"
	MIRStepMerged      = "merged"
)
