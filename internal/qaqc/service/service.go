package service

import (
	"errors"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/panelfab/qaqc/internal/config"
	"github.com/panelfab/qaqc/internal/qaqc/repository"
)

// Service-level failures the handler layer maps to client errors.
var (
	ErrDuplicateCode     = errors.New("project code already in use")
	ErrDuplicatePanel    = errors.New("panel already has a production log")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPipelineBusy      = errors.New("an MIR pipeline is already running for this project")
	ErrNoPanels          = errors.New("at least one panel is required")
)

// Services is the service aggregate wired into the handlers.
type Services struct {
	Project    *ProjectService
	Production *ProductionService
	Template   *TemplateService
	MIR        *MIRService
}

// NewServices builds every service. Redis and MinIO are optional: with a
// nil redis client the MIR pipeline runs without the project lock, and with
// no MinIO endpoint configured the final PDF is simply not archived.
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("minio client init failed, archiving disabled", zap.Error(err))
			minioClient = nil
		}
	}

	return &Services{
		Project:    NewProjectService(repos.Project, cfg.Storage.Root),
		Production: NewProductionService(repos.ProductionLog, repos.QCLog, repos.Project),
		Template:   NewTemplateService(repos.Template, repos.Project, cfg.Storage.Root),
		MIR:        NewMIRService(repos.MIR, repos.Project, rdb, minioClient, cfg.MinIO.Bucket, cfg.Storage.Root, logger),
	}
}
