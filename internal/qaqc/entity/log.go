package entity

import (
	"time"
)

// ProductionLog records one fabrication event for a panel.
type ProductionLog struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	PanelID     string    `json:"panel_id" gorm:"size:64;not null;uniqueIndex"`
	ProductType string    `json:"product_type" gorm:"size:64"`
	Quantity    int       `json:"quantity" gorm:"default:1"`
	Remarks     string    `json:"remarks" gorm:"type:text"`
	ProjectID   string    `json:"project_id" gorm:"size:32;not null;index"`
	LogDate     time.Time `json:"log_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	QCLogs  []QCLog  `json:"qc_logs,omitempty" gorm:"foreignKey:ProductionLogID"`
}

func (ProductionLog) TableName() string {
	return "production_logs"
}

// QCLog is one inspection record for a panel. Append-only except for the
// approval transition, which stamps status, approver and time.
type QCLog struct {
	ID              string     `json:"id" gorm:"primaryKey;size:32"`
	PanelID         string     `json:"panel_id" gorm:"size:64;not null;index"`
	InspectorName   string     `json:"inspector_name" gorm:"size:128"`
	InspectionDate  time.Time  `json:"inspection_date"`
	Status          string     `json:"status" gorm:"size:16;default:Pending"`
	Remarks         string     `json:"remarks" gorm:"type:text"`
	ProjectID       string     `json:"project_id" gorm:"size:32;not null;index"`
	ProductionLogID *string    `json:"production_log_id" gorm:"size:32"`
	ApprovedBy      string     `json:"approved_by" gorm:"size:128"`
	ApprovedAt      *time.Time `json:"approved_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Project       *Project       `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	ProductionLog *ProductionLog `json:"production_log,omitempty" gorm:"foreignKey:ProductionLogID"`
}

func (QCLog) TableName() string {
	return "qc_logs"
}

// QC log statuses
const (
	QCStatusDraft    = "Draft"
	QCStatusPending  = "Pending"
	QCStatusApproved = "Approved"
	QCStatusRejected = "Rejected"
)
