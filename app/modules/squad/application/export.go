package squadservice

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
)

const (
	summarySheet  = "Summary"
	findingsSheet = "Findings"
)

var findingsHeader = []any{
	"Squad", "Player", "Role", "Issue", "Repaired", "Needs review",
	"Contribution before", "Contribution after", "Repaired timestamp", "Diagnostic",
}

// ExportAuditReport renders the report as an XLSX workbook with a summary
// sheet and one row per finding.
func (s *SquadService) ExportAuditReport(report squaddomain.AuditReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	summary := [][]any{
		{"Squads scanned", report.SquadsScanned},
		{"Players checked", report.PlayersChecked},
		{"Findings", len(report.Findings)},
		{"Repaired", report.Repaired},
		{"Needs review", report.NeedsReview},
	}
	for i, row := range summary {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(findingsSheet); err != nil {
		return nil, fmt.Errorf("create findings sheet: %w", err)
	}
	if err := setRow(f, findingsSheet, 1, findingsHeader); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(findingsSheet, "A1", "J1", bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, finding := range report.Findings {
		var repairedAt any = ""
		if finding.RepairedTimestamp != nil {
			repairedAt = *finding.RepairedTimestamp
		}
		row := []any{
			finding.SquadID,
			finding.PlayerID,
			string(finding.Role),
			string(finding.Issue),
			finding.Repaired,
			finding.NeedsReview,
			squaddomain.RoundPoints(finding.ContributionBefore),
			squaddomain.RoundPoints(finding.ContributionAfter),
			repairedAt,
			finding.Diagnostic,
		}
		if err := setRow(f, findingsSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
