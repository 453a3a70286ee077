package models

import "time"

// Booking statuses. A booking moves from active to cancelled exactly once
// and is never deleted.
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

// DateLayout is the calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// Booking represents a room reservation over a half-open date interval
// [CheckIn, CheckOut). CheckOut is exclusive, so a booking ending on a day
// another one starts does not collide (same-day turnover).
type Booking struct {
	ID          int64      `json:"id"`
	RoomID      int64      `json:"room_id"`
	GuestName   string     `json:"guest_name"`
	CheckIn     time.Time  `json:"check_in"`
	CheckOut    time.Time  `json:"check_out"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"` // set iff Status == cancelled
}

// IsActive reports whether the booking still occupies its room.
func (b *Booking) IsActive() bool {
	return b.Status == StatusActive
}

// Overlaps reports whether this booking's interval intersects another's.
// Half-open semantics: [a, b) and [c, d) overlap iff a < d && c < b.
func (b *Booking) Overlaps(other *Booking) bool {
	return b.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(b.CheckOut)
}

// Nights returns the number of nights covered by the booking.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// BookingRecord is a booking joined with its room, as consumed by listings
// and the report projector.
type BookingRecord struct {
	Booking
	RoomType   string  `json:"room_type"`
	RoomNumber string  `json:"room_number"`
	Rate       float64 `json:"rate"`
}
