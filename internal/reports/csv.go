package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"hotelier/internal/models"
)

type csvExporter struct{}

func (e *csvExporter) Format() string { return "csv" }
func (e *csvExporter) Ext() string    { return "csv" }

func (e *csvExporter) Render(w io.Writer, records []models.BookingRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(reportColumns); err != nil {
		return err
	}
	for i := range records {
		rec := &records[i]
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.GuestName,
			rec.RoomType,
			rec.RoomNumber,
			strconv.FormatFloat(rec.Rate, 'f', 2, 64),
			rec.CheckIn.Format(models.DateLayout),
			rec.CheckOut.Format(models.DateLayout),
			rec.Status,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			cancelledAtString(rec),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", rec.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
