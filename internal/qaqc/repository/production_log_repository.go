package repository

import (
	"context"
	"errors"

	"github.com/panelfab/qaqc/internal/qaqc/entity"
	"gorm.io/gorm"
)

// ProductionLogRepository handles fabrication-event persistence.
type ProductionLogRepository struct {
	db *gorm.DB
}

func NewProductionLogRepository(db *gorm.DB) *ProductionLogRepository {
	return &ProductionLogRepository{db: db}
}

// FindAll lists production logs, optionally filtered by project.
func (r *ProductionLogRepository) FindAll(ctx context.Context, page, pageSize int, projectID string) ([]entity.ProductionLog, int64, error) {
	var logs []entity.ProductionLog
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ProductionLog{})
	if projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("log_date DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&logs).Error

	return logs, total, err
}

// FindByID looks a production log up by primary key.
func (r *ProductionLogRepository) FindByID(ctx context.Context, id string) (*entity.ProductionLog, error) {
	var log entity.ProductionLog
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

// FindByPanelID looks a production log up by its panel identifier, which
// is unique across the whole system.
func (r *ProductionLogRepository) FindByPanelID(ctx context.Context, panelID string) (*entity.ProductionLog, error) {
	var log entity.ProductionLog
	err := r.db.WithContext(ctx).
		Where("panel_id = ?", panelID).
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// Create inserts a production log.
func (r *ProductionLogRepository) Create(ctx context.Context, log *entity.ProductionLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}
