package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/panelfab/qaqc/internal/qaqc/entity"
	"github.com/panelfab/qaqc/internal/qaqc/report"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MIRRepository handles MIR records, panel membership and the per-project
// report-number sequence.
type MIRRepository struct {
	db *gorm.DB
}

func NewMIRRepository(db *gorm.DB) *MIRRepository {
	return &MIRRepository{db: db}
}

// CreateWithPanels draws the next report number for the project and inserts
// the MIRMaster plus its panel rows in a single transaction. The sequence
// row is locked FOR UPDATE for the duration, so concurrent creations for
// the same project serialize on the counter instead of racing a scan.
func (r *MIRRepository) CreateWithPanels(ctx context.Context, projectID string, panelIDs []string) (*entity.MIRMaster, error) {
	var mir *entity.MIRMaster

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := r.lockSequence(tx, projectID)
		if err != nil {
			return err
		}

		seq.LastNumber++
		seq.UpdatedAt = time.Now()
		if err := tx.Save(seq).Error; err != nil {
			return err
		}

		mir = &entity.MIRMaster{
			ID:           uuid.New().String()[:32],
			ProjectID:    projectID,
			MIRNumber:    report.FormatMIRNumber(seq.LastNumber),
			Status:       entity.MIRStatusDraft,
			PipelineStep: entity.MIRStepSequenced,
		}
		if err := tx.Create(mir).Error; err != nil {
			return err
		}

		for _, panelID := range panelIDs {
			panel := entity.MIRPanel{
				ID:      uuid.New().String()[:32],
				MIRID:   mir.ID,
				PanelID: panelID,
			}
			if err := tx.Create(&panel).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mir, nil
}

// lockSequence reads the project's counter row FOR UPDATE, seeding it from
// pre-existing MIR records on first use so legacy data keeps its sequence.
func (r *MIRRepository) lockSequence(tx *gorm.DB, projectID string) (*entity.MIRSequence, error) {
	var seq entity.MIRSequence
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("project_id = ?", projectID).
		First(&seq).Error
	if err == nil {
		return &seq, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// First use for this project. Seed with ON CONFLICT DO NOTHING: a
	// plain insert losing the seeding race would raise a unique violation
	// and abort the whole transaction, leaving no valid fallback. The
	// no-op insert keeps the transaction usable so the winner's row can
	// be locked below.
	seed := entity.MIRSequence{
		ProjectID:  projectID,
		LastNumber: r.legacyMaxNumber(tx, projectID),
		UpdatedAt:  time.Now(),
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, err
	}

	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("project_id = ?", projectID).
		First(&seq).Error
	if err != nil {
		return nil, err
	}
	return &seq, nil
}

// legacyMaxNumber scans existing report numbers for the highest suffix.
// Only consulted once per project, to seed the counter row.
func (r *MIRRepository) legacyMaxNumber(tx *gorm.DB, projectID string) int {
	var numbers []string
	tx.Model(&entity.MIRMaster{}).
		Where("project_id = ?", projectID).
		Pluck("mir_number", &numbers)

	max := 0
	for _, number := range numbers {
		if n, ok := report.ParseMIRNumber(number); ok && n > max {
			max = n
		}
	}
	return max
}

// FindByID looks an MIR up by primary key, with its panel rows.
func (r *MIRRepository) FindByID(ctx context.Context, id string) (*entity.MIRMaster, error) {
	var mir entity.MIRMaster
	err := r.db.WithContext(ctx).
		Preload("Panels").
		Where("id = ?", id).
		First(&mir).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &mir, nil
}

// FindByNumber looks an MIR up by project and report number.
func (r *MIRRepository) FindByNumber(ctx context.Context, projectID, mirNumber string) (*entity.MIRMaster, error) {
	var mir entity.MIRMaster
	err := r.db.WithContext(ctx).
		Preload("Panels").
		Where("project_id = ? AND mir_number = ?", projectID, mirNumber).
		First(&mir).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &mir, nil
}

// FindByProject lists every MIR of a project, oldest first.
func (r *MIRRepository) FindByProject(ctx context.Context, projectID string) ([]entity.MIRMaster, error) {
	var mirs []entity.MIRMaster
	err := r.db.WithContext(ctx).
		Preload("Panels").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&mirs).Error
	return mirs, err
}

// UpdateProgress persists the pipeline step and, when it changed, the
// lifecycle status after a completed stage.
func (r *MIRRepository) UpdateProgress(ctx context.Context, mir *entity.MIRMaster) error {
	return r.db.WithContext(ctx).
		Model(&entity.MIRMaster{}).
		Where("id = ?", mir.ID).
		Updates(map[string]interface{}{
			"status":        mir.Status,
			"pipeline_step": mir.PipelineStep,
			"updated_at":    time.Now(),
		}).Error
}
