package reports

import (
	"fmt"
	"io"

	"hotelier/internal/models"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Bookings"

type xlsxExporter struct{}

func (e *xlsxExporter) Format() string { return "xlsx" }
func (e *xlsxExporter) Ext() string    { return "xlsx" }

func (e *xlsxExporter) Render(w io.Writer, records []models.BookingRecord) error {
	file := excelize.NewFile()
	defer file.Close()

	file.SetSheetName("Sheet1", xlsxSheet)

	if err := writeXLSXRow(file, 1, headerValues()); err != nil {
		return err
	}

	// Bold header
	style, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(reportColumns), 1)
		_ = file.SetCellStyle(xlsxSheet, startCell, endCell, style)
	}

	for i := range records {
		rec := &records[i]
		row := []interface{}{
			rec.ID,
			rec.GuestName,
			rec.RoomType,
			rec.RoomNumber,
			rec.Rate,
			rec.CheckIn.Format(models.DateLayout),
			rec.CheckOut.Format(models.DateLayout),
			rec.Status,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			cancelledAtString(rec),
		}
		if err := writeXLSXRow(file, i+2, row); err != nil {
			return fmt.Errorf("write record %d: %w", rec.ID, err)
		}
	}

	return file.Write(w)
}

func headerValues() []interface{} {
	values := make([]interface{}, len(reportColumns))
	for i, col := range reportColumns {
		values[i] = col
	}
	return values
}

func writeXLSXRow(file *excelize.File, row int, values []interface{}) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(xlsxSheet, cell, val); err != nil {
			return err
		}
	}
	return nil
}
