package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/panelfab/qaqc/internal/qaqc/entity"
	"github.com/panelfab/qaqc/internal/qaqc/repository"
)

// ProductionService manages production logs and QC inspection logs.
type ProductionService struct {
	prodRepo *repository.ProductionLogRepository
	qcRepo   *repository.QCLogRepository
	projRepo *repository.ProjectRepository
}

func NewProductionService(prodRepo *repository.ProductionLogRepository, qcRepo *repository.QCLogRepository, projRepo *repository.ProjectRepository) *ProductionService {
	return &ProductionService{prodRepo: prodRepo, qcRepo: qcRepo, projRepo: projRepo}
}

type CreateProductionLogRequest struct {
	ProjectID   string `json:"project_id" binding:"required"`
	PanelID     string `json:"panel_id" binding:"required"`
	ProductType string `json:"product_type"`
	Quantity    int    `json:"quantity"`
	Remarks     string `json:"remarks"`
	LogDate     string `json:"log_date"` // 2006-01-02, defaults to today
}

// CreateProductionLog records one fabrication event. Panel IDs are unique
// across the system; a second log for the same panel is rejected.
func (s *ProductionService) CreateProductionLog(ctx context.Context, req *CreateProductionLogRequest) (*entity.ProductionLog, error) {
	if _, err := s.projRepo.FindByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}
	if _, err := s.prodRepo.FindByPanelID(ctx, req.PanelID); err == nil {
		return nil, ErrDuplicatePanel
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check panel: %w", err)
	}

	logDate := time.Now()
	if req.LogDate != "" {
		parsed, err := time.Parse("2006-01-02", req.LogDate)
		if err != nil {
			return nil, fmt.Errorf("parse log_date: %w", err)
		}
		logDate = parsed
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	log := &entity.ProductionLog{
		ID:          uuid.New().String()[:32],
		PanelID:     req.PanelID,
		ProductType: req.ProductType,
		Quantity:    quantity,
		Remarks:     req.Remarks,
		ProjectID:   req.ProjectID,
		LogDate:     logDate,
	}
	if err := s.prodRepo.Create(ctx, log); err != nil {
		return nil, fmt.Errorf("create production log: %w", err)
	}
	return log, nil
}

// ListProductionLogs returns a page of production logs, optionally scoped
// to one project.
func (s *ProductionService) ListProductionLogs(ctx context.Context, page, pageSize int, projectID string) ([]entity.ProductionLog, int64, error) {
	return s.prodRepo.FindAll(ctx, page, pageSize, projectID)
}

type CreateQCLogRequest struct {
	ProjectID       string `json:"project_id" binding:"required"`
	PanelID         string `json:"panel_id" binding:"required"`
	InspectorName   string `json:"inspector_name"`
	InspectionDate  string `json:"inspection_date"` // 2006-01-02, defaults to today
	Status          string `json:"status"`
	Remarks         string `json:"remarks"`
	ProductionLogID string `json:"production_log_id"`
}

// CreateQCLog records one inspection for a panel.
func (s *ProductionService) CreateQCLog(ctx context.Context, req *CreateQCLogRequest) (*entity.QCLog, error) {
	if _, err := s.projRepo.FindByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	inspectionDate := time.Now()
	if req.InspectionDate != "" {
		parsed, err := time.Parse("2006-01-02", req.InspectionDate)
		if err != nil {
			return nil, fmt.Errorf("parse inspection_date: %w", err)
		}
		inspectionDate = parsed
	}

	status := req.Status
	switch status {
	case "":
		status = entity.QCStatusPending
	case entity.QCStatusDraft, entity.QCStatusPending, entity.QCStatusApproved, entity.QCStatusRejected:
	default:
		return nil, fmt.Errorf("unknown status %q", status)
	}

	log := &entity.QCLog{
		ID:             uuid.New().String()[:32],
		PanelID:        req.PanelID,
		InspectorName:  req.InspectorName,
		InspectionDate: inspectionDate,
		Status:         status,
		Remarks:        req.Remarks,
		ProjectID:      req.ProjectID,
	}
	if req.ProductionLogID != "" {
		if _, err := s.prodRepo.FindByID(ctx, req.ProductionLogID); err != nil {
			return nil, fmt.Errorf("production log: %w", err)
		}
		log.ProductionLogID = &req.ProductionLogID
	}
	if err := s.qcRepo.Create(ctx, log); err != nil {
		return nil, fmt.Errorf("create qc log: %w", err)
	}
	return log, nil
}

// ListQCLogs returns a page of QC logs filtered by project, panel or status.
func (s *ProductionService) ListQCLogs(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.QCLog, int64, error) {
	return s.qcRepo.FindAll(ctx, page, pageSize, filters)
}

// ApproveQCLog transitions a QC log to Approved, stamping approver and
// time. Only Draft and Pending logs can be approved.
func (s *ProductionService) ApproveQCLog(ctx context.Context, id, approvedBy string) (*entity.QCLog, error) {
	log, err := s.qcRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if log.Status != entity.QCStatusDraft && log.Status != entity.QCStatusPending {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	log.Status = entity.QCStatusApproved
	log.ApprovedBy = approvedBy
	log.ApprovedAt = &now
	if err := s.qcRepo.Update(ctx, log); err != nil {
		return nil, fmt.Errorf("update qc log: %w", err)
	}
	return log, nil
}

var qcExportHeaders = []string{
	"Panel ID", "Project", "Inspector", "Inspection Date", "Status", "Approved By", "Approved At", "Remarks",
}

// ExportQCLogs renders the filtered QC logs as an xlsx workbook and returns
// it with a suggested filename.
func (s *ProductionService) ExportQCLogs(ctx context.Context, filters map[string]string) (*excelize.File, string, error) {
	logs, _, err := s.qcRepo.FindAll(ctx, 1, 10000, filters)
	if err != nil {
		return nil, "", fmt.Errorf("list qc logs: %w", err)
	}

	projectNames := map[string]string{}
	for _, log := range logs {
		if _, ok := projectNames[log.ProjectID]; ok {
			continue
		}
		project, err := s.projRepo.FindByID(ctx, log.ProjectID)
		if err != nil {
			projectNames[log.ProjectID] = log.ProjectID
			continue
		}
		projectNames[log.ProjectID] = project.Name
	}

	f := excelize.NewFile()
	sheet := "QC Logs"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for i, h := range qcExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, log := range logs {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), log.PanelID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), projectNames[log.ProjectID])
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), log.InspectorName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), log.InspectionDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), log.Status)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), log.ApprovedBy)
		if log.ApprovedAt != nil {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), log.ApprovedAt.Format("2006-01-02 15:04"))
		}
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), log.Remarks)
	}

	colWidths := []float64{16, 20, 16, 14, 10, 16, 16, 30}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("qc_logs_%s.xlsx", time.Now().Format("20060102_150405"))
	return f, filename, nil
}
