package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotelier/internal/database"
	"hotelier/internal/events"
	"hotelier/internal/metrics"
	"hotelier/internal/models"

	"github.com/rs/zerolog"
)

// Validation errors reported before the store is touched.
var (
	ErrInvalidDate         = errors.New("invalid date; expected YYYY-MM-DD")
	ErrInvalidRange        = errors.New("check-out date must be after check-in date")
	ErrInvalidStatusFilter = errors.New("unknown status filter")
)

// BookingStore is the storage contract the engine depends on. *database.DB
// implements it; tests substitute mocks or independent store instances.
type BookingStore interface {
	ReserveRoom(ctx context.Context, guestName, roomType string, checkIn, checkOut time.Time) (int64, *models.Room, error)
	FindAvailableRooms(ctx context.Context, roomType string, checkIn, checkOut time.Time) ([]models.Room, error)
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	CancelBooking(ctx context.Context, id int64, cancelledAt time.Time) error
	ListBookings(ctx context.Context, statusFilter string) ([]models.BookingRecord, error)
}

// EventPublisher publishes domain events after successful state changes.
type EventPublisher interface {
	Publish(event events.Event)
}

// BookingService is the booking engine: it validates requests and orchestrates
// admission and cancellation against the store.
type BookingService struct {
	store  BookingStore
	bus    EventPublisher
	logger *zerolog.Logger
}

// NewBookingService creates the engine with its dependencies injected.
func NewBookingService(store BookingStore, bus EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:  store,
		bus:    bus,
		logger: logger,
	}
}

// CreateBooking admits a booking request: it parses and validates the dates,
// then runs the store's atomic check-and-reserve unit. On success it returns
// the new booking id and the selected room (first fit, lowest room id).
func (s *BookingService) CreateBooking(ctx context.Context, guestName, roomType, checkInStr, checkOutStr string) (int64, *models.Room, error) {
	checkIn, checkOut, err := parseDateRange(checkInStr, checkOutStr)
	if err != nil {
		metrics.IncBookingRejected(rejectionReason(err))
		return 0, nil, err
	}

	bookingID, room, err := s.store.ReserveRoom(ctx, guestName, roomType, checkIn, checkOut)
	if err != nil {
		metrics.IncBookingRejected(rejectionReason(err))
		if errors.Is(err, database.ErrNoAvailability) || errors.Is(err, database.ErrConcurrentModification) {
			s.logger.Info().
				Str("room_type", roomType).
				Str("check_in", checkInStr).
				Str("check_out", checkOutStr).
				Err(err).
				Msg("booking admission rejected")
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("reserve room: %w", err)
	}

	metrics.IncBookingCreated(roomType)
	s.bus.Publish(events.Event{
		Type:      events.TypeBookingCreated,
		BookingID: bookingID,
		RoomID:    room.ID,
		RoomType:  room.Type,
		GuestName: guestName,
	})

	s.logger.Info().
		Int64("booking_id", bookingID).
		Str("room_number", room.Number).
		Str("check_in", checkInStr).
		Str("check_out", checkOutStr).
		Msg("booking created")

	return bookingID, room, nil
}

// CancelBooking transitions a booking to cancelled. The transition is final;
// cancelling again yields ErrAlreadyCancelled.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64) error {
	if err := s.store.CancelBooking(ctx, bookingID, time.Now().UTC()); err != nil {
		if errors.Is(err, database.ErrBookingNotFound) || errors.Is(err, database.ErrAlreadyCancelled) {
			return err
		}
		return fmt.Errorf("cancel booking %d: %w", bookingID, err)
	}

	metrics.IncBookingCancelled()
	s.bus.Publish(events.Event{
		Type:      events.TypeBookingCancelled,
		BookingID: bookingID,
	})

	s.logger.Info().Int64("booking_id", bookingID).Msg("booking cancelled")
	return nil
}

// FindAvailable validates the requested interval and returns the rooms of the
// given type free for all of it, in deterministic order.
func (s *BookingService) FindAvailable(ctx context.Context, roomType, checkInStr, checkOutStr string) ([]models.Room, error) {
	checkIn, checkOut, err := parseDateRange(checkInStr, checkOutStr)
	if err != nil {
		return nil, err
	}
	return s.store.FindAvailableRooms(ctx, roomType, checkIn, checkOut)
}

// GetBooking returns a single booking by id.
func (s *BookingService) GetBooking(ctx context.Context, bookingID int64) (*models.Booking, error) {
	return s.store.GetBooking(ctx, bookingID)
}

// ListBookings returns bookings joined with room details, newest first.
// statusFilter is "", "active" or "cancelled".
func (s *BookingService) ListBookings(ctx context.Context, statusFilter string) ([]models.BookingRecord, error) {
	switch statusFilter {
	case "", models.StatusActive, models.StatusCancelled:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatusFilter, statusFilter)
	}
	return s.store.ListBookings(ctx, statusFilter)
}

func parseDateRange(checkInStr, checkOutStr string) (time.Time, time.Time, error) {
	checkIn, err := time.Parse(models.DateLayout, checkInStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, checkInStr)
	}
	checkOut, err := time.Parse(models.DateLayout, checkOutStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, checkOutStr)
	}
	if !checkOut.After(checkIn) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return checkIn, checkOut, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, database.ErrNoAvailability):
		return "no_availability"
	case errors.Is(err, database.ErrConcurrentModification):
		return "conflict"
	default:
		return "error"
	}
}
