package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/panelfab/qaqc/internal/qaqc/report"
	"github.com/panelfab/qaqc/internal/qaqc/testutil"
)

func TestCreateMIR(t *testing.T) {
	r, db, storageRoot := setupTestEnv(t)
	project := testutil.SeedTestProject(t, db, "MIR Test", "PRJ-MIR")

	w := testutil.DoRequest(r, "POST", "/projects/"+project.ID+"/mir", map[string]interface{}{
		"panel_ids": []string{"PNL-M-001", "PNL-M-002"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["mir_number"] != "MIR-0001" {
		t.Errorf("Expected mir_number 'MIR-0001', got %v", data["mir_number"])
	}
	if data["status"] != "Final" {
		t.Errorf("Expected status 'Final', got %v", data["status"])
	}
	if data["folder_created"] != true {
		t.Errorf("Expected folder_created true, got %v", data["folder_created"])
	}
	if data["pdf_merged"] != true {
		t.Errorf("Expected pdf_merged true, got %v", data["pdf_merged"])
	}

	pkg := report.Package{
		Root:        storageRoot,
		ProjectID:   project.ID,
		ProjectCode: project.Code,
		MIRNumber:   "MIR-0001",
	}
	if _, err := os.Stat(pkg.FinalPDFPath()); err != nil {
		t.Errorf("Expected merged PDF at %s: %v", pkg.FinalPDFPath(), err)
	}
	if _, err := os.Stat(filepath.Join(pkg.Dir(), "index.txt")); err != nil {
		t.Errorf("Expected index.txt: %v", err)
	}
}

func TestCreateMIRSequentialNumbers(t *testing.T) {
	r, db, _ := setupTestEnv(t)
	project := testutil.SeedTestProject(t, db, "Seq Test", "PRJ-SEQ")

	want := []string{"MIR-0001", "MIR-0002"}
	for _, expected := range want {
		w := testutil.DoRequest(r, "POST", "/projects/"+project.ID+"/mir", map[string]interface{}{
			"panel_ids": []string{"PNL-S-001"},
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		resp := testutil.ParseResponse(w)
		data := resp["data"].(map[string]interface{})
		if data["mir_number"] != expected {
			t.Errorf("Expected mir_number %q, got %v", expected, data["mir_number"])
		}
	}
}

func TestCreateMIRCollectsPanelDocuments(t *testing.T) {
	r, db, storageRoot := setupTestEnv(t)
	project := testutil.SeedTestProject(t, db, "Collect Test", "PRJ-COL")

	// A checklist scan already filed for the panel.
	panelDir := filepath.Join(report.ProductionLogsDir(storageRoot, project.ID), "PNL-C-001", "checklists")
	if err := os.MkdirAll(panelDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(panelDir, "CHECKLIST_weld.pdf"), []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w := testutil.DoRequest(r, "POST", "/projects/"+project.ID+"/mir", map[string]interface{}{
		"panel_ids": []string{"PNL-C-001"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	pkg := report.Package{
		Root:        storageRoot,
		ProjectID:   project.ID,
		ProjectCode: project.Code,
		MIRNumber:   "MIR-0001",
	}
	staged := filepath.Join(pkg.SourceDir(), "PNL-C-001_checklists_CHECKLIST_weld.pdf")
	if _, err := os.Stat(staged); err != nil {
		t.Errorf("Expected staged checklist at %s: %v", staged, err)
	}
}

func TestCreateMIRValidation(t *testing.T) {
	r, db, _ := setupTestEnv(t)
	project := testutil.SeedTestProject(t, db, "Val Test", "PRJ-VAL")

	w := testutil.DoRequest(r, "POST", "/projects/"+project.ID+"/mir", map[string]interface{}{
		"panel_ids": []string{},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for empty panel list, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(r, "POST", "/projects/missing/mir", map[string]interface{}{
		"panel_ids": []string{"PNL-V-001"},
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for unknown project, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListMIRs(t *testing.T) {
	r, db, _ := setupTestEnv(t)
	project := testutil.SeedTestProject(t, db, "List Test", "PRJ-LST")

	w := testutil.DoRequest(r, "POST", "/projects/"+project.ID+"/mir", map[string]interface{}{
		"panel_ids": []string{"PNL-L-001", "PNL-L-002"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(r, "GET", "/projects/"+project.ID+"/mir/list", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("Expected 1 report, got %d", len(data))
	}
	summary := data[0].(map[string]interface{})
	if summary["mir_number"] != "MIR-0001" {
		t.Errorf("Expected mir_number 'MIR-0001', got %v", summary["mir_number"])
	}
	if summary["panel_count"].(float64) != 2 {
		t.Errorf("Expected panel_count 2, got %v", summary["panel_count"])
	}
	if summary["pdf_exists"] != true {
		t.Errorf("Expected pdf_exists true, got %v", summary["pdf_exists"])
	}
	if summary["download_url"] == "" {
		t.Error("Expected download_url")
	}
}

func TestDownloadMIRPDF(t *testing.T) {
	r, db, _ := setupTestEnv(t)
	project := testutil.SeedTestProject(t, db, "Download Test", "PRJ-DL")

	w := testutil.DoRequest(r, "POST", "/projects/"+project.ID+"/mir", map[string]interface{}{
		"panel_ids": []string{"PNL-D-001"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(r, "GET", "/projects/"+project.ID+"/mir/MIR-0001/pdf", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected application/pdf, got %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="PRJ-DL-MIR-0001.pdf"` {
		t.Errorf("Unexpected Content-Disposition: %s", cd)
	}

	w = testutil.DoRequest(r, "GET", "/projects/"+project.ID+"/mir/MIR-0001/pdf?view=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `inline; filename="PRJ-DL-MIR-0001.pdf"` {
		t.Errorf("Unexpected Content-Disposition: %s", cd)
	}

	// Unknown report number gives the diagnostic 404.
	w = testutil.DoRequest(r, "GET", "/projects/"+project.ID+"/mir/MIR-0099/pdf", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestResumeMIR(t *testing.T) {
	r, db, storageRoot := setupTestEnv(t)
	project := testutil.SeedTestProject(t, db, "Resume Test", "PRJ-RES")

	w := testutil.DoRequest(r, "POST", "/projects/"+project.ID+"/mir", map[string]interface{}{
		"panel_ids": []string{"PNL-R-001"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// A merged report whose output file disappeared: resume must rebuild
	// the final PDF from the staging area, not just report old state.
	pkg := report.Package{
		Root:        storageRoot,
		ProjectID:   project.ID,
		ProjectCode: project.Code,
		MIRNumber:   "MIR-0001",
	}
	if err := os.Remove(pkg.FinalPDFPath()); err != nil {
		t.Fatalf("remove merged pdf: %v", err)
	}

	w = testutil.DoRequest(r, "POST", "/projects/"+project.ID+"/mir/MIR-0001/resume", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["mir_number"] != "MIR-0001" {
		t.Errorf("Expected mir_number 'MIR-0001', got %v", data["mir_number"])
	}
	if data["status"] != "Final" {
		t.Errorf("Expected status 'Final', got %v", data["status"])
	}
	if data["pdf_merged"] != true {
		t.Errorf("Expected pdf_merged true, got %v", data["pdf_merged"])
	}
	if _, err := os.Stat(pkg.FinalPDFPath()); err != nil {
		t.Errorf("Expected rebuilt PDF at %s: %v", pkg.FinalPDFPath(), err)
	}

	w = testutil.DoRequest(r, "POST", "/projects/"+project.ID+"/mir/MIR-0404/resume", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
