package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
)

// Generated filenames carry the merger's ordering markers so the cover page
// always binds first and the panel list second.

// GenerateCoverPage renders the report cover sheet into the staging area
// and returns the written path.
func GenerateCoverPage(pkg Package, panelCount int) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 14, "Manufacturing Inspection Report", "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	rows := [][2]string{
		{"Project", pkg.ProjectName},
		{"Project Code", pkg.ProjectCode},
		{"Report Number", pkg.ProjectCode + "-" + pkg.MIRNumber},
		{"Date", time.Now().Format("2006-01-02")},
		{"Panels Included", fmt.Sprintf("%d", panelCount)},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(50, 9, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 9, row[1], "1", 1, "L", false, 0, "")
	}

	path := filepath.Join(pkg.SourceDir(), fmt.Sprintf("MIR_FORM_%s-%s.pdf", pkg.ProjectCode, pkg.MIRNumber))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write cover page: %w", err)
	}
	return path, nil
}

// GeneratePanelList renders the full panel identifier list into the staging
// area, paginating as needed, and returns the written path.
func GeneratePanelList(pkg Package, panelIDs []string) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, "Panel List "+pkg.ProjectCode+"-"+pkg.MIRNumber, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	for i, panelID := range panelIDs {
		pdf.CellFormat(15, 8, fmt.Sprintf("%d.", i+1), "B", 0, "R", false, 0, "")
		pdf.CellFormat(0, 8, panelID, "B", 1, "L", false, 0, "")
	}

	path := filepath.Join(pkg.SourceDir(), fmt.Sprintf("PANEL_LIST_%s-%s.pdf", pkg.ProjectCode, pkg.MIRNumber))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write panel list: %w", err)
	}
	return path, nil
}
