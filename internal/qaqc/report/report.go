// Package report implements the MIR assembly pipeline: report numbering,
// package folder provisioning, per-panel document collection, cover/panel
// list generation and the ordered merge into the final PDF.
package report

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// FinalPDFName is the merge output, written at the package root. The
// final_mir subfolder is provisioned but intentionally unused.
const FinalPDFName = "FINAL_MIR.pdf"

// Subfolders of one MIR package.
const (
	SourceFilesDir = "source_files"
	MergedPDFDir   = "merged_pdf"
	FinalMIRDir    = "final_mir"
)

// Panel document subfolders gathered by the collector.
var panelSubfolders = []string{"checklists", "drawings", "photos"}

// Package identifies one MIR package on disk.
type Package struct {
	Root        string // storage root, e.g. "storage"
	ProjectID   string
	ProjectCode string
	ProjectName string
	MIRNumber   string // e.g. "MIR-0001"
}

// ProjectDir returns the project's storage folder.
func ProjectDir(root, projectID string) string {
	return filepath.Join(root, "project_"+projectID)
}

// TemplatesDir returns the project's uploaded-template folder.
func TemplatesDir(root, projectID string) string {
	return filepath.Join(ProjectDir(root, projectID), "templates")
}

// ProductionLogsDir returns the folder holding per-panel document trees.
func ProductionLogsDir(root, projectID string) string {
	return filepath.Join(ProjectDir(root, projectID), "production_logs")
}

// Dir returns the package root: <root>/project_<id>/MIR/<code>-<number>.
func (p Package) Dir() string {
	return filepath.Join(ProjectDir(p.Root, p.ProjectID), "MIR", p.ProjectCode+"-"+p.MIRNumber)
}

// SourceDir returns the staging area holding everything destined for merge.
func (p Package) SourceDir() string {
	return filepath.Join(p.Dir(), SourceFilesDir)
}

// FinalPDFPath returns where the merger writes its output.
func (p Package) FinalPDFPath() string {
	return filepath.Join(p.Dir(), FinalPDFName)
}

// FormatMIRNumber renders a sequence value as a report number, zero-padded
// to four digits.
func FormatMIRNumber(n int) string {
	return fmt.Sprintf("MIR-%04d", n)
}

// ParseMIRNumber extracts the numeric suffix from a report number such as
// MIR-0042. The second return is false when the string is not a report
// number.
func ParseMIRNumber(s string) (int, bool) {
	const prefix = "MIR-"
	idx := strings.LastIndex(s, prefix)
	if idx < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[idx+len(prefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
