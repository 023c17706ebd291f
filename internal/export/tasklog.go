// Package export renders nursery records as spreadsheets.
package export

import (
	"fmt"

	"github.com/localnerve/viverodb/internal/models"
	"github.com/xuri/excelize/v2"
)

// ContentType is the media type of the files written by TaskLog
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TaskLogSheet names the single sheet of a task log
const TaskLogSheet = "Tasks"

var taskLogHeader = []interface{}{
	"Date", "Description", "Product", "Kind", "ICA Registry", "Frequency (days)", "Quarantine (days)", "Value",
}

// TaskLog writes the tasks of nursery, in their stored order, as an xlsx workbook.
// The first rows identify the nursery, followed by one row per task.
func TaskLog(nursery *models.Nursery) ([]byte, error) {
	if nursery == nil {
		return nil, fmt.Errorf("export: nursery is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TaskLogSheet); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Nursery %s (%s)", nursery.Code, nursery.CropType)
	if err := f.SetCellValue(TaskLogSheet, "A1", title); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(TaskLogSheet, "A3", &taskLogHeader); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(TaskLogSheet, "A1", "A1", bold); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(TaskLogSheet, "A3", "H3", bold); err != nil {
		return nil, err
	}

	for i, task := range nursery.Tasks {
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return nil, err
		}
		row := taskRow(task)
		if err := f.SetSheetRow(TaskLogSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(TaskLogSheet, "A", "A", 12); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(TaskLogSheet, "B", "C", 36); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: write task log: %w", err)
	}
	return buf.Bytes(), nil
}

func taskRow(task *models.Task) []interface{} {
	row := []interface{}{task.Date.String(), task.Description, "", "", "", "", "", ""}

	p := task.ControlProduct
	if p == nil {
		return row
	}
	row[2] = p.Name
	row[3] = string(p.Kind)
	row[4] = p.ICARegistry
	if p.FrequencyDays != nil {
		row[5] = *p.FrequencyDays
	}
	if days, ok := p.QuarantineDays(); ok {
		row[6] = days
	}
	if p.Value.Valid {
		row[7] = p.Value.Decimal.InexactFloat64()
	}
	return row
}
