package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/panelfab/qaqc/internal/qaqc/repository"
	"github.com/panelfab/qaqc/internal/qaqc/service"
)

// TemplateHandler serves the checklist and MIR template endpoints.
type TemplateHandler struct {
	svc *service.TemplateService
}

func NewTemplateHandler(svc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

// RegisterChecklist POST /projects/:id/checklist-template
func (h *TemplateHandler) RegisterChecklist(c *gin.Context) {
	var req struct {
		TemplateName string `json:"template_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	tpl, err := h.svc.RegisterChecklist(c.Request.Context(), c.Param("id"), req.TemplateName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "project not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Created(c, tpl)
}

// UploadMIRTemplate POST /projects/:id/mir-template (multipart)
func (h *TemplateHandler) UploadMIRTemplate(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, "open upload: "+err.Error())
		return
	}
	defer file.Close()

	tpl, err := h.svc.SaveMIRTemplate(c.Request.Context(), c.Param("id"), fileHeader.Filename, c.PostForm("template_type"), file)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "project not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Created(c, tpl)
}
