package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"
)

// Binding order of the final report. A file joins the first group whose
// marker appears in its name; within a group files sort lexicographically.
var mergeGroups = []string{
	"MIR_FORM_",
	"PANEL_LIST_",
	"CHECKLIST",
	"DRAWING_",
	"PHOTO",
}

type rankedFile struct {
	group int
	name  string
}

// rankFiles orders the staged PDF names for binding and returns the names
// that matched no ordering marker. Non-PDF names are ignored entirely.
func rankFiles(names []string) (ordered []string, excluded []string) {
	var ranked []rankedFile
	for _, name := range names {
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			continue
		}
		group := -1
		for i, marker := range mergeGroups {
			if strings.Contains(name, marker) {
				group = i
				break
			}
		}
		if group < 0 {
			excluded = append(excluded, name)
			continue
		}
		ranked = append(ranked, rankedFile{group: group, name: name})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].group != ranked[j].group {
			return ranked[i].group < ranked[j].group
		}
		return ranked[i].name < ranked[j].name
	})
	for _, rf := range ranked {
		ordered = append(ordered, rf.name)
	}
	return ordered, excluded
}

// Merge binds every recognized PDF in the staging area into the final
// report document and returns its path. It returns an empty path without
// error when the staging area is missing or holds no mergeable files.
func Merge(pkg Package, logger *zap.Logger) (string, error) {
	sourceDir := pkg.SourceDir()
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read staging dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}

	ordered, excluded := rankFiles(names)
	for _, name := range excluded {
		logger.Warn("excluding unrecognized file from merged report",
			zap.String("file", name),
			zap.String("mir_number", pkg.MIRNumber),
			zap.String("project_id", pkg.ProjectID))
	}
	if len(ordered) == 0 {
		return "", nil
	}

	inFiles := make([]string, 0, len(ordered))
	for _, name := range ordered {
		inFiles = append(inFiles, filepath.Join(sourceDir, name))
	}

	outFile := pkg.FinalPDFPath()
	if err := api.MergeCreateFile(inFiles, outFile, false, nil); err != nil {
		return "", fmt.Errorf("merge pdfs: %w", err)
	}
	return outFile, nil
}
