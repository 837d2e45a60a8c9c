package handler

import (
	"errors"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/panelfab/qaqc/internal/qaqc/repository"
	"github.com/panelfab/qaqc/internal/qaqc/service"
)

// MIRHandler serves the MIR pipeline endpoints.
type MIRHandler struct {
	svc *service.MIRService
}

func NewMIRHandler(svc *service.MIRService) *MIRHandler {
	return &MIRHandler{svc: svc}
}

// Create POST /projects/:id/mir
func (h *MIRHandler) Create(c *gin.Context) {
	var req struct {
		PanelIDs []string `json:"panel_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), c.Param("id"), req.PanelIDs)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			NotFound(c, "project not found")
		case errors.Is(err, service.ErrNoPanels):
			BadRequest(c, err.Error())
		case errors.Is(err, service.ErrPipelineBusy):
			Conflict(c, err.Error())
		default:
			InternalError(c, err.Error())
		}
		return
	}
	Created(c, result)
}

// Resume POST /projects/:id/mir/:mirNumber/resume
func (h *MIRHandler) Resume(c *gin.Context) {
	result, err := h.svc.Resume(c.Request.Context(), c.Param("id"), c.Param("mirNumber"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			NotFound(c, "report not found")
		case errors.Is(err, service.ErrPipelineBusy):
			Conflict(c, err.Error())
		default:
			InternalError(c, err.Error())
		}
		return
	}
	Success(c, result)
}

// List GET /projects/:id/mir/list
func (h *MIRHandler) List(c *gin.Context) {
	summaries, err := h.svc.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "project not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, summaries)
}

// DownloadPDF GET /projects/:id/mir/:mirNumber/pdf?view=true
func (h *MIRHandler) DownloadPDF(c *gin.Context) {
	projectID := c.Param("id")
	mirNumber := c.Param("mirNumber")

	dl, err := h.svc.PDFPath(c.Request.Context(), projectID, mirNumber)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			NotFound(c, "report not found")
		case errors.Is(err, os.ErrNotExist):
			c.JSON(404, gin.H{
				"code":          40400,
				"message":       "merged PDF not found, run the pipeline or resume it",
				"expected_path": dl.Expected,
			})
		default:
			InternalError(c, err.Error())
		}
		return
	}

	disposition := "attachment"
	if c.Query("view") == "true" {
		disposition = "inline"
	}
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, dl.Filename))
	c.File(dl.Path)
}
