package repository

import (
	"context"
	"errors"

	"github.com/panelfab/qaqc/internal/qaqc/entity"
	"gorm.io/gorm"
)

// QCLogRepository handles inspection-record persistence.
type QCLogRepository struct {
	db *gorm.DB
}

func NewQCLogRepository(db *gorm.DB) *QCLogRepository {
	return &QCLogRepository{db: db}
}

// FindAll lists QC logs, optionally filtered by project, panel or status.
func (r *QCLogRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.QCLog, int64, error) {
	var logs []entity.QCLog
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.QCLog{})

	if projectID := filters["project_id"]; projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if panelID := filters["panel_id"]; panelID != "" {
		query = query.Where("panel_id = ?", panelID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("inspection_date DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&logs).Error

	return logs, total, err
}

// FindByID looks a QC log up by primary key.
func (r *QCLogRepository) FindByID(ctx context.Context, id string) (*entity.QCLog, error) {
	var log entity.QCLog
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// Create inserts a QC log.
func (r *QCLogRepository) Create(ctx context.Context, log *entity.QCLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// Update saves a mutated QC log (the approval transition).
func (r *QCLogRepository) Update(ctx context.Context, log *entity.QCLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}
