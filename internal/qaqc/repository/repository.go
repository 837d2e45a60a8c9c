package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories is the aggregate handed to the service layer. All access to
// the record store goes through here; nothing holds package-level state.
type Repositories struct {
	Project       *ProjectRepository
	ProductionLog *ProductionLogRepository
	QCLog         *QCLogRepository
	MIR           *MIRRepository
	Template      *TemplateRepository
}

// NewRepositories wires every repository onto one gorm handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Project:       NewProjectRepository(db),
		ProductionLog: NewProductionLogRepository(db),
		QCLog:         NewQCLogRepository(db),
		MIR:           NewMIRRepository(db),
		Template:      NewTemplateRepository(db),
	}
}
