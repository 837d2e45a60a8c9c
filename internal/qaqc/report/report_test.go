package report

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"
)

func testPackage(t *testing.T) Package {
	t.Helper()
	return Package{
		Root:        t.TempDir(),
		ProjectID:   "proj00000000000000000000000000001",
		ProjectCode: "PRJ-001",
		ProjectName: "Harbor Tower",
		MIRNumber:   "MIR-0001",
	}
}

func TestFormatMIRNumber(t *testing.T) {
	if got := FormatMIRNumber(1); got != "MIR-0001" {
		t.Errorf("Expected MIR-0001, got %s", got)
	}
	if got := FormatMIRNumber(42); got != "MIR-0042" {
		t.Errorf("Expected MIR-0042, got %s", got)
	}
	if got := FormatMIRNumber(12345); got != "MIR-12345" {
		t.Errorf("Expected MIR-12345, got %s", got)
	}
}

func TestParseMIRNumber(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"MIR-0001", 1, true},
		{"MIR-0042", 42, true},
		{"PRJ-001-MIR-0007", 7, true},
		{"MIR-", 0, false},
		{"MIR-abc", 0, false},
		{"random.pdf", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseMIRNumber(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseMIRNumber(%q) = (%d, %v), expected (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestProvision(t *testing.T) {
	pkg := testPackage(t)
	panels := []string{"PNL-A-001", "PNL-A-002"}

	if err := Provision(pkg, panels); err != nil {
		t.Fatalf("Provision: %v", err)
	}

	for _, sub := range []string{SourceFilesDir, MergedPDFDir, FinalMIRDir} {
		info, err := os.Stat(filepath.Join(pkg.Dir(), sub))
		if err != nil || !info.IsDir() {
			t.Errorf("Expected subfolder %s, got err=%v", sub, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(pkg.Dir(), "index.txt"))
	if err != nil {
		t.Fatalf("read index.txt: %v", err)
	}
	index := string(data)
	if !strings.Contains(index, "MIR Number: PRJ-001-MIR-0001") {
		t.Errorf("index.txt missing report number: %s", index)
	}
	if !strings.Contains(index, "Project: Harbor Tower") {
		t.Errorf("index.txt missing project name: %s", index)
	}
	for _, panel := range panels {
		if !strings.Contains(index, "  - "+panel) {
			t.Errorf("index.txt missing panel %s: %s", panel, index)
		}
	}

	// Re-running over an existing package must succeed.
	if err := Provision(pkg, panels); err != nil {
		t.Fatalf("Provision rerun: %v", err)
	}
}

func TestCollect(t *testing.T) {
	pkg := testPackage(t)

	panelDir := filepath.Join(ProductionLogsDir(pkg.Root, pkg.ProjectID), "PNL-A-001")
	if err := os.MkdirAll(filepath.Join(panelDir, "checklists"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(panelDir, "checklists", "a.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	// drawings and photos folders deliberately absent

	copied, err := Collect(pkg, []string{"PNL-A-001", "PNL-MISSING"})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if copied != 1 {
		t.Errorf("Expected 1 file staged, got %d", copied)
	}

	staged := filepath.Join(pkg.SourceDir(), "PNL-A-001_checklists_a.pdf")
	if _, err := os.Stat(staged); err != nil {
		t.Errorf("Expected staged file %s: %v", staged, err)
	}

	entries, err := os.ReadDir(pkg.SourceDir())
	if err != nil {
		t.Fatalf("read staging: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected exactly 1 staged file, got %d", len(entries))
	}
}

func TestRankFiles(t *testing.T) {
	names := []string{
		"PHOTO_2.pdf",
		"PNL-A-001_CHECKLIST_b.pdf",
		"MIR_FORM_PRJ-001-MIR-0001.pdf",
		"PNL-A-001_CHECKLIST_a.pdf",
		"PANEL_LIST_PRJ-001-MIR-0001.pdf",
		"random.pdf",
		"notes.txt",
	}

	ordered, excluded := rankFiles(names)

	wantOrder := []string{
		"MIR_FORM_PRJ-001-MIR-0001.pdf",
		"PANEL_LIST_PRJ-001-MIR-0001.pdf",
		"PNL-A-001_CHECKLIST_a.pdf",
		"PNL-A-001_CHECKLIST_b.pdf",
		"PHOTO_2.pdf",
	}
	if !reflect.DeepEqual(ordered, wantOrder) {
		t.Errorf("Expected order %v, got %v", wantOrder, ordered)
	}
	if !reflect.DeepEqual(excluded, []string{"random.pdf"}) {
		t.Errorf("Expected random.pdf excluded, got %v", excluded)
	}
}

func TestGenerateAndMerge(t *testing.T) {
	pkg := testPackage(t)
	panels := []string{"PNL-A-001", "PNL-A-002", "PNL-A-003"}

	if err := Provision(pkg, panels); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if _, err := GenerateCoverPage(pkg, len(panels)); err != nil {
		t.Fatalf("GenerateCoverPage: %v", err)
	}
	if _, err := GeneratePanelList(pkg, panels); err != nil {
		t.Fatalf("GeneratePanelList: %v", err)
	}

	out, err := Merge(pkg, zap.NewNop())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if out != pkg.FinalPDFPath() {
		t.Errorf("Expected output %s, got %s", pkg.FinalPDFPath(), out)
	}

	pages, err := api.PageCountFile(out)
	if err != nil {
		t.Fatalf("PageCountFile: %v", err)
	}
	if pages < 2 {
		t.Errorf("Expected at least 2 pages, got %d", pages)
	}
}

func TestMergeMissingStaging(t *testing.T) {
	pkg := testPackage(t)

	out, err := Merge(pkg, zap.NewNop())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if out != "" {
		t.Errorf("Expected empty output for missing staging area, got %s", out)
	}
}
