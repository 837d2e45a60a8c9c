package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Provision creates the package folder, its three subfolders and the
// index.txt manifest. Idempotent: re-running over an existing package
// neither fails nor deletes anything already there.
func Provision(pkg Package, panelIDs []string) error {
	dir := pkg.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create package folder: %w", err)
	}

	for _, sub := range []string{SourceFilesDir, MergedPDFDir, FinalMIRDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return fmt.Errorf("create subfolder %s: %w", sub, err)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "MIR Number: %s-%s\n", pkg.ProjectCode, pkg.MIRNumber)
	fmt.Fprintf(&b, "Project: %s\n", pkg.ProjectName)
	fmt.Fprintf(&b, "Created: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString("\nPanel IDs:\n")
	for _, panelID := range panelIDs {
		fmt.Fprintf(&b, "  - %s\n", panelID)
	}

	if err := os.WriteFile(filepath.Join(dir, "index.txt"), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}
