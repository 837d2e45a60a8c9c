package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/panelfab/qaqc/internal/qaqc/entity"
	"github.com/panelfab/qaqc/internal/qaqc/testutil"
)

func TestCreateWithPanelsFreshProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	project := testutil.SeedTestProject(t, db, "Fresh", "PRJ-FRESH")
	repo := NewMIRRepository(db)

	mir, err := repo.CreateWithPanels(context.Background(), project.ID, []string{"PNL-1", "PNL-2"})
	if err != nil {
		t.Fatalf("CreateWithPanels: %v", err)
	}
	if mir.MIRNumber != "MIR-0001" {
		t.Errorf("Expected MIR-0001, got %s", mir.MIRNumber)
	}
	if mir.Status != entity.MIRStatusDraft {
		t.Errorf("Expected status Draft, got %s", mir.Status)
	}
	if mir.PipelineStep != entity.MIRStepSequenced {
		t.Errorf("Expected step sequenced, got %s", mir.PipelineStep)
	}

	found, err := repo.FindByID(context.Background(), mir.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if len(found.Panels) != 2 {
		t.Errorf("Expected 2 panel rows, got %d", len(found.Panels))
	}
}

func TestCreateWithPanelsSeedsFromLegacyRows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	project := testutil.SeedTestProject(t, db, "Legacy", "PRJ-LEG")
	repo := NewMIRRepository(db)

	// A pre-counter record left by an earlier deployment.
	legacy := &entity.MIRMaster{
		ID:           uuid.New().String()[:32],
		ProjectID:    project.ID,
		MIRNumber:    "MIR-0042",
		Status:       entity.MIRStatusFinal,
		PipelineStep: entity.MIRStepMerged,
	}
	if err := db.Create(legacy).Error; err != nil {
		t.Fatalf("seed legacy row: %v", err)
	}

	mir, err := repo.CreateWithPanels(context.Background(), project.ID, []string{"PNL-1"})
	if err != nil {
		t.Fatalf("CreateWithPanels: %v", err)
	}
	if mir.MIRNumber != "MIR-0043" {
		t.Errorf("Expected MIR-0043 after legacy MIR-0042, got %s", mir.MIRNumber)
	}
}

func TestCreateWithPanelsConcurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	project := testutil.SeedTestProject(t, db, "Concurrent", "PRJ-CON")
	repo := NewMIRRepository(db)

	// All workers race the first-ever creation for the project, so the
	// counter row is seeded and locked under contention.
	const workers = 4
	numbers := make(chan string, workers)
	failures := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mir, err := repo.CreateWithPanels(context.Background(), project.ID, []string{"PNL-1"})
			if err != nil {
				failures <- err
				return
			}
			numbers <- mir.MIRNumber
		}()
	}
	wg.Wait()
	close(numbers)
	close(failures)

	for err := range failures {
		t.Errorf("CreateWithPanels under contention: %v", err)
	}

	seen := map[string]bool{}
	for number := range numbers {
		if seen[number] {
			t.Errorf("Duplicate report number %s issued", number)
		}
		seen[number] = true
	}
	if len(seen) != workers {
		t.Errorf("Expected %d distinct report numbers, got %d", workers, len(seen))
	}
}

func TestCreateWithPanelsScopedPerProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	first := testutil.SeedTestProject(t, db, "First", "PRJ-A")
	second := testutil.SeedTestProject(t, db, "Second", "PRJ-B")
	repo := NewMIRRepository(db)

	if _, err := repo.CreateWithPanels(context.Background(), first.ID, []string{"PNL-1"}); err != nil {
		t.Fatalf("CreateWithPanels: %v", err)
	}
	mir, err := repo.CreateWithPanels(context.Background(), second.ID, []string{"PNL-2"})
	if err != nil {
		t.Fatalf("CreateWithPanels: %v", err)
	}
	if mir.MIRNumber != "MIR-0001" {
		t.Errorf("Expected each project to count independently, got %s", mir.MIRNumber)
	}
}
