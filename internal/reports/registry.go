package reports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"hotelier/internal/metrics"
	"hotelier/internal/models"

	"github.com/rs/zerolog"
)

// ErrFormatUnsupported is returned for formats not resolved at startup.
var ErrFormatUnsupported = errors.New("report format unsupported")

// Lister is the read-only ledger view the projector consumes. It has no
// mutation capability.
type Lister interface {
	ListBookings(ctx context.Context, statusFilter string) ([]models.BookingRecord, error)
}

// Exporter renders a booking listing into one output format.
type Exporter interface {
	Format() string
	Ext() string
	Render(w io.Writer, records []models.BookingRecord) error
}

// Registry resolves the supported report formats once at startup. Asking for
// an unregistered format yields ErrFormatUnsupported instead of failing at
// the point of use.
type Registry struct {
	lister    Lister
	dir       string
	exporters map[string]Exporter
	logger    *zerolog.Logger
}

// NewRegistry creates a registry with all built-in exporters registered.
func NewRegistry(lister Lister, dir string, logger *zerolog.Logger) *Registry {
	r := &Registry{
		lister:    lister,
		dir:       dir,
		exporters: make(map[string]Exporter),
		logger:    logger,
	}
	r.register(&csvExporter{})
	r.register(&txtExporter{})
	r.register(&xlsxExporter{})
	return r
}

func (r *Registry) register(e Exporter) {
	r.exporters[e.Format()] = e
}

// Formats returns the supported format names, sorted.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.exporters))
	for name := range r.exporters {
		formats = append(formats, name)
	}
	sort.Strings(formats)
	return formats
}

// Supported reports whether format can be exported.
func (r *Registry) Supported(format string) bool {
	_, ok := r.exporters[format]
	return ok
}

// Export renders the current booking listing to a file in the registry's
// directory and returns its path. statusFilter narrows the listing; empty
// means all bookings.
func (r *Registry) Export(ctx context.Context, format, statusFilter string) (string, error) {
	exporter, ok := r.exporters[format]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrFormatUnsupported, format)
	}

	records, err := r.lister.ListBookings(ctx, statusFilter)
	if err != nil {
		return "", fmt.Errorf("list bookings: %w", err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	path := filepath.Join(r.dir, "bookings_report."+exporter.Ext())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := exporter.Render(f, records); err != nil {
		return "", fmt.Errorf("render %s report: %w", format, err)
	}

	metrics.IncReportExport(format)
	r.logger.Info().
		Str("format", format).
		Str("path", path).
		Int("records", len(records)).
		Msg("report exported")

	return path, nil
}

// reportColumns is the column order shared by all formats.
var reportColumns = []string{
	"booking_id", "guest_name", "room_type", "room_number", "price",
	"check_in", "check_out", "status", "created_at", "cancelled_at",
}

func cancelledAtString(rec *models.BookingRecord) string {
	if rec.CancelledAt == nil {
		return ""
	}
	return rec.CancelledAt.Format("2006-01-02 15:04:05")
}
