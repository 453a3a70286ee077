package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hotelier/internal/models"
)

// availableRoomsQuery selects rooms of a type with no active booking whose
// half-open [check_in, check_out) interval intersects the requested one.
// Boundary touch (check_out == requested check_in) is not an overlap.
// ISO date strings compare lexicographically, so TEXT comparison is correct.
const availableRoomsQuery = `
	SELECT id, room_type, room_number, price FROM rooms
	WHERE room_type = ? AND id NOT IN (
		SELECT room_id FROM bookings
		WHERE status = 'active' AND NOT (check_out <= ? OR check_in >= ?)
	)
	ORDER BY id`

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func findAvailable(ctx context.Context, q querier, roomType string, checkIn, checkOut time.Time) ([]models.Room, error) {
	rows, err := q.QueryContext(ctx, availableRoomsQuery,
		roomType,
		checkIn.Format(models.DateLayout),
		checkOut.Format(models.DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("query available rooms: %w", err)
	}
	defer rows.Close()

	return scanRooms(rows)
}

// FindAvailableRooms returns rooms of the given type free for the whole
// interval [checkIn, checkOut), ordered by id ascending.
func (db *DB) FindAvailableRooms(ctx context.Context, roomType string, checkIn, checkOut time.Time) ([]models.Room, error) {
	return findAvailable(ctx, db.DB, roomType, checkIn, checkOut)
}

// ReserveRoom is the atomic admission unit: it checks availability, picks the
// first free room (lowest id) and inserts the booking in a single transaction.
// The admission mutex serializes it against concurrent admissions; the
// post-insert overlap recount is a backstop that aborts the transaction with
// ErrConcurrentModification instead of committing a double booking.
func (db *DB) ReserveRoom(ctx context.Context, guestName, roomType string, checkIn, checkOut time.Time) (int64, *models.Room, error) {
	db.admissionMu.Lock()
	defer db.admissionMu.Unlock()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	avail, err := findAvailable(ctx, tx, roomType, checkIn, checkOut)
	if err != nil {
		return 0, nil, err
	}
	if len(avail) == 0 {
		return 0, nil, ErrNoAvailability
	}
	room := avail[0]

	result, err := tx.ExecContext(ctx, `
		INSERT INTO bookings (room_id, guest_name, check_in, check_out, status, created_at)
		VALUES (?, ?, ?, ?, 'active', ?)`,
		room.ID,
		guestName,
		checkIn.Format(models.DateLayout),
		checkOut.Format(models.DateLayout),
		time.Now().UTC(),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("insert booking: %w", err)
	}

	bookingID, err := result.LastInsertId()
	if err != nil {
		return 0, nil, fmt.Errorf("get last id: %w", err)
	}

	// Backstop against a competing overlapping insert slipping past the
	// availability read.
	var overlapping int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE room_id = ? AND status = 'active' AND NOT (check_out <= ? OR check_in >= ?)`,
		room.ID,
		checkIn.Format(models.DateLayout),
		checkOut.Format(models.DateLayout),
	).Scan(&overlapping)
	if err != nil {
		return 0, nil, fmt.Errorf("recheck overlap: %w", err)
	}
	if overlapping > 1 {
		return 0, nil, ErrConcurrentModification
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("commit: %w", err)
	}

	return bookingID, &room, nil
}

// InsertBooking appends an active booking without any availability check.
// Callers needing race-free admission must go through ReserveRoom.
func (db *DB) InsertBooking(ctx context.Context, roomID int64, guestName string, checkIn, checkOut time.Time) (int64, error) {
	result, err := db.ExecContext(ctx, `
		INSERT INTO bookings (room_id, guest_name, check_in, check_out, status, created_at)
		VALUES (?, ?, ?, ?, 'active', ?)`,
		roomID,
		guestName,
		checkIn.Format(models.DateLayout),
		checkOut.Format(models.DateLayout),
		time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert booking: %w", err)
	}
	return result.LastInsertId()
}

// GetBooking returns a booking by id or ErrBookingNotFound.
func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var (
		b           models.Booking
		checkIn     string
		checkOut    string
		cancelledAt sql.NullTime
	)
	err := db.QueryRowContext(ctx, `
		SELECT id, room_id, guest_name, check_in, check_out, status, created_at, cancelled_at
		FROM bookings WHERE id = ?`, id,
	).Scan(&b.ID, &b.RoomID, &b.GuestName, &checkIn, &checkOut, &b.Status, &b.CreatedAt, &cancelledAt)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	if b.CheckIn, err = time.Parse(models.DateLayout, checkIn); err != nil {
		return nil, fmt.Errorf("parse check_in: %w", err)
	}
	if b.CheckOut, err = time.Parse(models.DateLayout, checkOut); err != nil {
		return nil, fmt.Errorf("parse check_out: %w", err)
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}
	return &b, nil
}

// GetBookingStatus returns the booking status or ErrBookingNotFound.
func (db *DB) GetBookingStatus(ctx context.Context, id int64) (string, error) {
	var status string
	err := db.QueryRowContext(ctx,
		"SELECT status FROM bookings WHERE id = ?", id,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return "", ErrBookingNotFound
	}
	if err != nil {
		return "", err
	}
	return status, nil
}

// CancelBooking transitions a booking from active to cancelled, stamping the
// cancellation time. The transition is one-way and happens exactly once.
func (db *DB) CancelBooking(ctx context.Context, id int64, cancelledAt time.Time) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var status string
	err = tx.QueryRowContext(ctx,
		"SELECT status FROM bookings WHERE id = ?", id,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("get status: %w", err)
	}
	if status == models.StatusCancelled {
		return ErrAlreadyCancelled
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE bookings SET status = 'cancelled', cancelled_at = ?
		WHERE id = ? AND status != 'cancelled'`,
		cancelledAt.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrAlreadyCancelled
	}

	return tx.Commit()
}

// ListBookings returns bookings joined with their rooms, most recent first.
// statusFilter narrows to a single status; empty means all.
func (db *DB) ListBookings(ctx context.Context, statusFilter string) ([]models.BookingRecord, error) {
	query := `
		SELECT b.id, b.room_id, b.guest_name, b.check_in, b.check_out,
		       b.status, b.created_at, b.cancelled_at,
		       r.room_type, r.room_number, r.price
		FROM bookings b JOIN rooms r ON r.id = b.room_id`
	args := []any{}
	if statusFilter != "" {
		query += " WHERE b.status = ?"
		args = append(args, statusFilter)
	}
	query += " ORDER BY b.created_at DESC, b.id DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var records []models.BookingRecord
	for rows.Next() {
		var (
			rec         models.BookingRecord
			checkIn     string
			checkOut    string
			cancelledAt sql.NullTime
		)
		if err := rows.Scan(
			&rec.ID, &rec.RoomID, &rec.GuestName, &checkIn, &checkOut,
			&rec.Status, &rec.CreatedAt, &cancelledAt,
			&rec.RoomType, &rec.RoomNumber, &rec.Rate,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		if rec.CheckIn, err = time.Parse(models.DateLayout, checkIn); err != nil {
			return nil, fmt.Errorf("parse check_in: %w", err)
		}
		if rec.CheckOut, err = time.Parse(models.DateLayout, checkOut); err != nil {
			return nil, fmt.Errorf("parse check_out: %w", err)
		}
		if cancelledAt.Valid {
			t := cancelledAt.Time
			rec.CancelledAt = &t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
