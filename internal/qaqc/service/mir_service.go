package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/panelfab/qaqc/internal/qaqc/entity"
	"github.com/panelfab/qaqc/internal/qaqc/report"
	"github.com/panelfab/qaqc/internal/qaqc/repository"
)

// pipelineLockTTL bounds how long a crashed run can hold a project's
// pipeline lock before another request may take over.
const pipelineLockTTL = 5 * time.Minute

// MIRService drives the report assembly pipeline: draw a number, provision
// the package folder, generate the cover sheet and panel list, collect the
// panel documents and merge everything into the final PDF. Each completed
// stage is persisted so an interrupted run can be resumed.
type MIRService struct {
	mirRepo     *repository.MIRRepository
	projRepo    *repository.ProjectRepository
	rdb         *redis.Client
	minioClient *minio.Client
	bucket      string
	storageRoot string
	logger      *zap.Logger
}

func NewMIRService(mirRepo *repository.MIRRepository, projRepo *repository.ProjectRepository, rdb *redis.Client, minioClient *minio.Client, bucket, storageRoot string, logger *zap.Logger) *MIRService {
	return &MIRService{
		mirRepo:     mirRepo,
		projRepo:    projRepo,
		rdb:         rdb,
		minioClient: minioClient,
		bucket:      bucket,
		storageRoot: storageRoot,
		logger:      logger,
	}
}

// MIRResult reports the outcome of one pipeline run.
type MIRResult struct {
	MIRNumber     string `json:"mir_number"`
	Status        string `json:"status"`
	FolderCreated bool   `json:"folder_created"`
	PDFMerged     bool   `json:"pdf_merged"`
}

// MIRSummary is one row of the per-project report listing.
type MIRSummary struct {
	MIRNumber   string    `json:"mir_number"`
	Status      string    `json:"status"`
	PanelCount  int       `json:"panel_count"`
	CreatedAt   time.Time `json:"created_at"`
	PDFExists   bool      `json:"pdf_exists"`
	PDFSize     int64     `json:"pdf_size"`
	DownloadURL string    `json:"download_url"`
}

// Create runs the full pipeline for a new MIR. Only one pipeline may run
// per project at a time; a second request while one is in flight gets
// ErrPipelineBusy.
func (s *MIRService) Create(ctx context.Context, projectID string, panelIDs []string) (*MIRResult, error) {
	if len(panelIDs) == 0 {
		return nil, ErrNoPanels
	}
	project, err := s.projRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	release, err := s.acquireLock(ctx, projectID)
	if err != nil {
		return nil, err
	}
	defer release()

	mir, err := s.mirRepo.CreateWithPanels(ctx, projectID, panelIDs)
	if err != nil {
		return nil, fmt.Errorf("sequence report: %w", err)
	}
	return s.run(ctx, project, mir, panelIDs)
}

// Resume re-runs the pipeline for an existing MIR from its last persisted
// step. Completed stages are skipped; filesystem work is idempotent.
func (s *MIRService) Resume(ctx context.Context, projectID, mirNumber string) (*MIRResult, error) {
	project, err := s.projRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	mir, err := s.mirRepo.FindByNumber(ctx, projectID, mirNumber)
	if err != nil {
		return nil, err
	}

	release, err := s.acquireLock(ctx, projectID)
	if err != nil {
		return nil, err
	}
	defer release()

	panelIDs := make([]string, 0, len(mir.Panels))
	for _, panel := range mir.Panels {
		panelIDs = append(panelIDs, panel.PanelID)
	}
	return s.run(ctx, project, mir, panelIDs)
}

// stepRank orders pipeline steps so run can tell completed stages from
// pending ones.
var stepRank = map[string]int{
	entity.MIRStepSequenced:   1,
	entity.MIRStepProvisioned: 2,
	entity.MIRStepGenerated:   3,
	entity.MIRStepCollected:   4,
	entity.MIRStepMerged:      5,
}

func (s *MIRService) run(ctx context.Context, project *entity.Project, mir *entity.MIRMaster, panelIDs []string) (*MIRResult, error) {
	pkg := report.Package{
		Root:        s.storageRoot,
		ProjectID:   project.ID,
		ProjectCode: project.Code,
		ProjectName: project.Name,
		MIRNumber:   mir.MIRNumber,
	}
	result := &MIRResult{MIRNumber: mir.MIRNumber, Status: mir.Status}
	done := stepRank[mir.PipelineStep]

	if done < stepRank[entity.MIRStepProvisioned] {
		if err := report.Provision(pkg, panelIDs); err != nil {
			return result, fmt.Errorf("provision package: %w", err)
		}
		if err := s.advance(ctx, mir, entity.MIRStepProvisioned, mir.Status); err != nil {
			return result, err
		}
	}
	result.FolderCreated = true

	if done < stepRank[entity.MIRStepGenerated] {
		if _, err := report.GenerateCoverPage(pkg, len(panelIDs)); err != nil {
			return result, fmt.Errorf("generate cover page: %w", err)
		}
		if _, err := report.GeneratePanelList(pkg, panelIDs); err != nil {
			return result, fmt.Errorf("generate panel list: %w", err)
		}
		if err := s.advance(ctx, mir, entity.MIRStepGenerated, mir.Status); err != nil {
			return result, err
		}
	}

	if done < stepRank[entity.MIRStepCollected] {
		staged, err := report.Collect(pkg, panelIDs)
		if err != nil {
			return result, fmt.Errorf("collect documents: %w", err)
		}
		s.logger.Info("panel documents staged",
			zap.String("mir_number", mir.MIRNumber),
			zap.String("project_id", project.ID),
			zap.Int("files", staged))
		if err := s.advance(ctx, mir, entity.MIRStepCollected, entity.MIRStatusReady); err != nil {
			return result, err
		}
	}
	result.Status = mir.Status

	needMerge := done < stepRank[entity.MIRStepMerged]
	if !needMerge {
		// A merged report whose output file has gone missing (moved,
		// cleaned up, restored from partial backup) is re-merged from the
		// staging area.
		if _, err := os.Stat(pkg.FinalPDFPath()); err != nil {
			needMerge = true
		}
	}
	if needMerge {
		out, err := report.Merge(pkg, s.logger)
		if err != nil {
			return result, fmt.Errorf("merge package: %w", err)
		}
		if out == "" {
			return result, nil
		}
		if err := s.advance(ctx, mir, entity.MIRStepMerged, entity.MIRStatusFinal); err != nil {
			return result, err
		}
		s.archive(ctx, pkg)
	}
	result.Status = mir.Status
	result.PDFMerged = mir.PipelineStep == entity.MIRStepMerged
	return result, nil
}

func (s *MIRService) advance(ctx context.Context, mir *entity.MIRMaster, step, status string) error {
	mir.PipelineStep = step
	mir.Status = status
	if err := s.mirRepo.UpdateProgress(ctx, mir); err != nil {
		return fmt.Errorf("record step %s: %w", step, err)
	}
	return nil
}

// archive copies the merged PDF into object storage. Failures are logged
// and dropped; the local file remains the system of record.
func (s *MIRService) archive(ctx context.Context, pkg report.Package) {
	if s.minioClient == nil {
		return
	}
	objectName := fmt.Sprintf("mir/%s/%s-%s.pdf", pkg.ProjectID, pkg.ProjectCode, pkg.MIRNumber)
	_, err := s.minioClient.FPutObject(ctx, s.bucket, objectName, pkg.FinalPDFPath(), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		s.logger.Warn("archive to object storage failed",
			zap.String("object", objectName),
			zap.Error(err))
	}
}

// acquireLock takes the per-project pipeline lock. With no redis client
// configured the lock degrades to a no-op.
func (s *MIRService) acquireLock(ctx context.Context, projectID string) (func(), error) {
	if s.rdb == nil {
		return func() {}, nil
	}
	key := "mir:lock:" + projectID
	ok, err := s.rdb.SetNX(ctx, key, time.Now().Format(time.RFC3339Nano), pipelineLockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire pipeline lock: %w", err)
	}
	if !ok {
		return nil, ErrPipelineBusy
	}
	return func() {
		if err := s.rdb.Del(context.Background(), key).Err(); err != nil {
			s.logger.Warn("release pipeline lock failed", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// List summarizes a project's MIRs, checking the filesystem for each
// merged PDF.
func (s *MIRService) List(ctx context.Context, projectID string) ([]MIRSummary, error) {
	project, err := s.projRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	mirs, err := s.mirRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	summaries := make([]MIRSummary, 0, len(mirs))
	for _, mir := range mirs {
		pkg := report.Package{
			Root:        s.storageRoot,
			ProjectID:   project.ID,
			ProjectCode: project.Code,
			MIRNumber:   mir.MIRNumber,
		}
		summary := MIRSummary{
			MIRNumber:   mir.MIRNumber,
			Status:      mir.Status,
			PanelCount:  len(mir.Panels),
			CreatedAt:   mir.CreatedAt,
			DownloadURL: fmt.Sprintf("/projects/%s/mir/%s/pdf", project.ID, mir.MIRNumber),
		}
		if info, err := os.Stat(pkg.FinalPDFPath()); err == nil {
			summary.PDFExists = true
			summary.PDFSize = info.Size()
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// PDFDownload locates an MIR's merged PDF for serving. Expected carries
// the path that was looked up, for diagnostics when the file is missing.
type PDFDownload struct {
	Path     string
	Expected string
	Filename string
}

// PDFPath resolves the on-disk location of an MIR's merged PDF.
func (s *MIRService) PDFPath(ctx context.Context, projectID, mirNumber string) (*PDFDownload, error) {
	project, err := s.projRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := s.mirRepo.FindByNumber(ctx, projectID, mirNumber); err != nil {
		return nil, err
	}

	pkg := report.Package{
		Root:        s.storageRoot,
		ProjectID:   project.ID,
		ProjectCode: project.Code,
		MIRNumber:   mirNumber,
	}
	dl := &PDFDownload{
		Path:     pkg.FinalPDFPath(),
		Expected: pkg.FinalPDFPath(),
		Filename: fmt.Sprintf("%s-%s.pdf", project.Code, mirNumber),
	}
	if _, err := os.Stat(dl.Path); err != nil {
		dl.Path = ""
		return dl, os.ErrNotExist
	}
	return dl, nil
}
