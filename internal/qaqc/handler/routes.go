package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes binds every endpoint onto the router.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	r.GET("/projects", h.Project.List)
	r.POST("/projects", h.Project.Create)
	r.GET("/projects/:id", h.Project.Get)

	r.GET("/production-logs", h.Production.ListProductionLogs)
	r.POST("/production-logs", h.Production.CreateProductionLog)

	r.GET("/qc-logs", h.Production.ListQCLogs)
	r.POST("/qc-logs", h.Production.CreateQCLog)
	r.POST("/qc-logs/:id/approve", h.Production.ApproveQCLog)
	r.GET("/qc-logs/export", h.Production.ExportQCLogs)

	r.POST("/projects/:id/checklist-template", h.Template.RegisterChecklist)
	r.POST("/projects/:id/mir-template", h.Template.UploadMIRTemplate)

	r.POST("/projects/:id/mir", h.MIR.Create)
	r.POST("/projects/:id/mir/:mirNumber/resume", h.MIR.Resume)
	r.GET("/projects/:id/mir/:mirNumber/pdf", h.MIR.DownloadPDF)
	r.GET("/projects/:id/mir/list", h.MIR.List)
}
