package reports

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"hotelier/internal/models"
)

type txtExporter struct{}

func (e *txtExporter) Format() string { return "txt" }
func (e *txtExporter) Ext() string    { return "txt" }

func (e *txtExporter) Render(w io.Writer, records []models.BookingRecord) error {
	buf := bufio.NewWriter(w)

	fmt.Fprintln(buf, "Bookings Report")
	fmt.Fprintf(buf, "Generated: %s\n\n", time.Now().UTC().Format(time.RFC3339))

	for i := range records {
		rec := &records[i]
		fmt.Fprintf(buf, "ID: %d | Guest: %s | Room: %s/%s | %s -> %s | Status: %s | Cancelled At: %s\n",
			rec.ID,
			rec.GuestName,
			rec.RoomType,
			rec.RoomNumber,
			rec.CheckIn.Format(models.DateLayout),
			rec.CheckOut.Format(models.DateLayout),
			rec.Status,
			cancelledAtString(rec),
		)
	}

	return buf.Flush()
}
