package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Collect copies every document found under each panel's checklists,
// drawings and photos folders into the package's staging area, renamed
// <panel>_<subfolder>_<filename> so panels cannot collide. A panel with no
// folder, or a folder with missing subfolders, is skipped without error;
// absence of documents never blocks report creation. Returns the number of
// files staged.
func Collect(pkg Package, panelIDs []string) (int, error) {
	staging := pkg.SourceDir()
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return 0, fmt.Errorf("create staging area: %w", err)
	}

	copied := 0
	for _, panelID := range panelIDs {
		panelDir := filepath.Join(ProductionLogsDir(pkg.Root, pkg.ProjectID), panelID)
		if _, err := os.Stat(panelDir); err != nil {
			continue
		}

		for _, sub := range panelSubfolders {
			entries, err := os.ReadDir(filepath.Join(panelDir, sub))
			if err != nil {
				continue
			}
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				src := filepath.Join(panelDir, sub, entry.Name())
				dst := filepath.Join(staging, fmt.Sprintf("%s_%s_%s", panelID, sub, entry.Name()))
				if err := copyFile(src, dst); err != nil {
					return copied, fmt.Errorf("stage %s: %w", entry.Name(), err)
				}
				copied++
			}
		}
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
