package excel

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/raaj7000prajapati-crypto/jee-protocol/pkg/models"
)

func TestBuildProgressReport(t *testing.T) {
	progress := models.DefaultProgress()
	progress.PhysicsScore = 4
	progress.ChemistryScore = 2
	progress.MathematicsScore = 6
	progress.TotalQuestionsSolved = 12
	progress.Tasks = []models.Task{
		{ID: "1", Text: "Revise rotational motion", Completed: true},
		{ID: "2", Text: "Two mock papers"},
	}

	report, err := BuildProgressReport(progress)
	if err != nil {
		t.Fatalf("BuildProgressReport failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(report))
	if err != nil {
		t.Fatalf("report is not a readable workbook: %v", err)
	}
	defer f.Close()

	total, err := f.GetCellValue(summarySheet, "B5")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if total != "12" {
		t.Errorf("expected total solved 12 in summary, got %q", total)
	}

	quote, err := f.GetCellValue(summarySheet, "B6")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if quote != models.DefaultDailyQuote {
		t.Errorf("expected daily quote in summary, got %q", quote)
	}

	rows, err := f.GetRows(tasksSheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 task rows, got %d", len(rows))
	}
	if rows[1][1] != "Done" || rows[2][1] != "Pending" {
		t.Errorf("unexpected task statuses: %v", rows)
	}
}
