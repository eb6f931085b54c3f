package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/raaj7000prajapati-crypto/jee-protocol/pkg/models"
)

const (
	summarySheet = "Summary"
	tasksSheet   = "Tasks"
)

// BuildProgressReport renders the progress aggregate as an xlsx workbook
// with a score summary sheet and a task list sheet.
func BuildProgressReport(progress models.UserProgress) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)

	summaryRows := [][]interface{}{
		{"Metric", "Value"},
	}
	for _, subject := range models.Subjects() {
		summaryRows = append(summaryRows, []interface{}{
			fmt.Sprintf("%s score", subject), progress.ScoreFor(subject),
		})
	}
	summaryRows = append(summaryRows,
		[]interface{}{"Total questions solved", progress.TotalQuestionsSolved},
		[]interface{}{"Daily quote", progress.DailyQuote},
		[]interface{}{"Last quote refresh", progress.LastQuoteDate},
		[]interface{}{"Reminders enabled", progress.NotificationsEnabled},
	)
	for i, row := range summaryRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %v", err)
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write summary row: %v", err)
		}
	}

	f.NewSheet(tasksSheet)

	header := []interface{}{"Task", "Status"}
	if err := f.SetSheetRow(tasksSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write tasks header: %v", err)
	}
	for i, task := range progress.Tasks {
		status := "Pending"
		if task.Completed {
			status = "Done"
		}
		row := []interface{}{task.Text, status}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %v", err)
		}
		if err := f.SetSheetRow(tasksSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write task row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %v", err)
	}
	return buf.Bytes(), nil
}
