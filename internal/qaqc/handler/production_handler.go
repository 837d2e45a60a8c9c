package handler

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/panelfab/qaqc/internal/qaqc/repository"
	"github.com/panelfab/qaqc/internal/qaqc/service"
)

// ProductionHandler serves the production-log and QC-log endpoints.
type ProductionHandler struct {
	svc *service.ProductionService
}

func NewProductionHandler(svc *service.ProductionService) *ProductionHandler {
	return &ProductionHandler{svc: svc}
}

// CreateProductionLog POST /production-logs
func (h *ProductionHandler) CreateProductionLog(c *gin.Context) {
	var req service.CreateProductionLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	log, err := h.svc.CreateProductionLog(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			NotFound(c, "project not found")
		case errors.Is(err, service.ErrDuplicatePanel):
			Conflict(c, err.Error())
		default:
			BadRequest(c, err.Error())
		}
		return
	}
	Created(c, log)
}

// ListProductionLogs GET /production-logs
func (h *ProductionHandler) ListProductionLogs(c *gin.Context) {
	page, pageSize := GetPagination(c)

	logs, total, err := h.svc.ListProductionLogs(c.Request.Context(), page, pageSize, c.Query("project_id"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, ListResponse{
		Items: logs,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages(total, pageSize),
		},
	})
}

// CreateQCLog POST /qc-logs
func (h *ProductionHandler) CreateQCLog(c *gin.Context) {
	var req service.CreateQCLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	log, err := h.svc.CreateQCLog(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "project or production log not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Created(c, log)
}

func qcFilters(c *gin.Context) map[string]string {
	filters := map[string]string{}
	for _, key := range []string{"project_id", "panel_id", "status"} {
		if v := c.Query(key); v != "" {
			filters[key] = v
		}
	}
	return filters
}

// ListQCLogs GET /qc-logs
func (h *ProductionHandler) ListQCLogs(c *gin.Context) {
	page, pageSize := GetPagination(c)

	logs, total, err := h.svc.ListQCLogs(c.Request.Context(), page, pageSize, qcFilters(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, ListResponse{
		Items: logs,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages(total, pageSize),
		},
	})
}

// ApproveQCLog POST /qc-logs/:id/approve
func (h *ProductionHandler) ApproveQCLog(c *gin.Context) {
	var req struct {
		ApprovedBy string `json:"approved_by" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	log, err := h.svc.ApproveQCLog(c.Request.Context(), c.Param("id"), req.ApprovedBy)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			NotFound(c, "qc log not found")
		case errors.Is(err, service.ErrInvalidTransition):
			Conflict(c, err.Error())
		default:
			InternalError(c, err.Error())
		}
		return
	}
	Success(c, log)
}

// ExportQCLogs GET /qc-logs/export
func (h *ProductionHandler) ExportQCLogs(c *gin.Context) {
	f, filename, err := h.svc.ExportQCLogs(c.Request.Context(), qcFilters(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write xlsx: "+err.Error())
	}
}
