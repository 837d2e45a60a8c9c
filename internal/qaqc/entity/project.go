package entity

import (
	"time"
)

// Project is a construction/fabrication project. It owns production logs,
// QC logs, MIR packages and uploaded templates.
type Project struct {
	ID       string `json:"id" gorm:"primaryKey;size:32"`
	Name     string `json:"name" gorm:"size:128;not null"`
	Code     string `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Location string `json:"location" gorm:"size:256"`

	// Site personnel responsible for the project's QA/QC paperwork.
	QAQCEngineer       string `json:"qa_qc_engineer" gorm:"size:128"`
	ProductionEngineer string `json:"production_engineer" gorm:"size:128"`
	Foreman            string `json:"foreman" gorm:"size:128"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProductionLogs []ProductionLog `json:"production_logs,omitempty" gorm:"foreignKey:ProjectID"`
	QCLogs         []QCLog         `json:"qc_logs,omitempty" gorm:"foreignKey:ProjectID"`
	MIRs           []MIRMaster     `json:"mirs,omitempty" gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string {
	return "projects"
}
