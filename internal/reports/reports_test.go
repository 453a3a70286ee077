package reports

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"hotelier/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubLister struct {
	records []models.BookingRecord
}

func (s *stubLister) ListBookings(_ context.Context, statusFilter string) ([]models.BookingRecord, error) {
	if statusFilter == "" {
		return s.records, nil
	}
	var filtered []models.BookingRecord
	for _, r := range s.records {
		if r.Status == statusFilter {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func testRecords(t *testing.T) []models.BookingRecord {
	t.Helper()

	checkIn, err := time.Parse(models.DateLayout, "2024-01-10")
	require.NoError(t, err)
	checkOut, err := time.Parse(models.DateLayout, "2024-01-12")
	require.NoError(t, err)
	cancelledAt := time.Date(2024, 1, 11, 9, 30, 0, 0, time.UTC)

	return []models.BookingRecord{
		{
			Booking: models.Booking{
				ID:        2,
				RoomID:    3,
				GuestName: "Bob",
				CheckIn:   checkIn,
				CheckOut:  checkOut,
				Status:    models.StatusActive,
				CreatedAt: time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
			},
			RoomType:   "Deluxe",
			RoomNumber: "L301",
			Rate:       4500,
		},
		{
			Booking: models.Booking{
				ID:          1,
				RoomID:      1,
				GuestName:   "Alice",
				CheckIn:     checkIn,
				CheckOut:    checkOut,
				Status:      models.StatusCancelled,
				CreatedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
				CancelledAt: &cancelledAt,
			},
			RoomType:   "Single",
			RoomNumber: "S101",
			Rate:       1500,
		},
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	logger := zerolog.New(io.Discard)
	return NewRegistry(&stubLister{records: testRecords(t)}, t.TempDir(), &logger)
}

func TestFormats(t *testing.T) {
	r := newTestRegistry(t)

	assert.Equal(t, []string{"csv", "txt", "xlsx"}, r.Formats())
	assert.True(t, r.Supported("csv"))
	assert.False(t, r.Supported("pdf"))
}

func TestExportUnsupportedFormat(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Export(context.Background(), "pdf", "")
	assert.ErrorIs(t, err, ErrFormatUnsupported)
}

func TestExportCSV(t *testing.T) {
	r := newTestRegistry(t)

	path, err := r.Export(context.Background(), "csv", "")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t,
		"booking_id,guest_name,room_type,room_number,price,check_in,check_out,status,created_at,cancelled_at",
		lines[0])
	assert.Equal(t, "2,Bob,Deluxe,L301,4500.00,2024-01-10,2024-01-12,active,2024-01-02 12:00:00,", lines[1])
	assert.Equal(t, "1,Alice,Single,S101,1500.00,2024-01-10,2024-01-12,cancelled,2024-01-01 12:00:00,2024-01-11 09:30:00", lines[2])
}

func TestExportCSVStatusFilter(t *testing.T) {
	r := newTestRegistry(t)

	path, err := r.Export(context.Background(), "csv", models.StatusActive)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Bob")
}

func TestExportTXT(t *testing.T) {
	r := newTestRegistry(t)

	path, err := r.Export(context.Background(), "txt", "")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Bookings Report")
	assert.Contains(t, text, "Generated: ")
	assert.Contains(t, text, "ID: 2 | Guest: Bob | Room: Deluxe/L301 | 2024-01-10 -> 2024-01-12 | Status: active | Cancelled At: ")
	assert.Contains(t, text, "ID: 1 | Guest: Alice | Room: Single/S101 | 2024-01-10 -> 2024-01-12 | Status: cancelled | Cancelled At: 2024-01-11 09:30:00")
}

func TestExportXLSX(t *testing.T) {
	r := newTestRegistry(t)

	path, err := r.Export(context.Background(), "xlsx", "")
	require.NoError(t, err)

	file, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "booking_id", rows[0][0])
	assert.Equal(t, "Bob", rows[1][1])
	assert.Equal(t, "L301", rows[1][3])
	assert.Equal(t, "cancelled", rows[2][7])
}
