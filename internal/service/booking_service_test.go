package service

import (
	"context"
	"io"
	"testing"
	"time"

	"hotelier/internal/database"
	"hotelier/internal/events"
	"hotelier/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ReserveRoom(ctx context.Context, guestName, roomType string, checkIn, checkOut time.Time) (int64, *models.Room, error) {
	args := m.Called(ctx, guestName, roomType, checkIn, checkOut)
	if args.Get(1) == nil {
		return args.Get(0).(int64), nil, args.Error(2)
	}
	return args.Get(0).(int64), args.Get(1).(*models.Room), args.Error(2)
}

func (m *mockStore) FindAvailableRooms(ctx context.Context, roomType string, checkIn, checkOut time.Time) ([]models.Room, error) {
	args := m.Called(ctx, roomType, checkIn, checkOut)
	return args.Get(0).([]models.Room), args.Error(1)
}

func (m *mockStore) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockStore) CancelBooking(ctx context.Context, id int64, cancelledAt time.Time) error {
	return m.Called(ctx, id, cancelledAt).Error(0)
}

func (m *mockStore) ListBookings(ctx context.Context, statusFilter string) ([]models.BookingRecord, error) {
	args := m.Called(ctx, statusFilter)
	return args.Get(0).([]models.BookingRecord), args.Error(1)
}

type eventRecorder struct {
	published []events.Event
}

func (r *eventRecorder) Publish(event events.Event) {
	r.published = append(r.published, event)
}

func newTestService(store BookingStore) (*BookingService, *eventRecorder) {
	bus := &eventRecorder{}
	logger := zerolog.New(io.Discard)
	return NewBookingService(store, bus, &logger), bus
}

func TestCreateBookingValidation(t *testing.T) {
	store := new(mockStore)
	svc, bus := newTestService(store)
	ctx := context.Background()

	t.Run("MalformedCheckIn", func(t *testing.T) {
		_, _, err := svc.CreateBooking(ctx, "Alice", "Single", "not-a-date", "2024-01-12")
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("MalformedCheckOut", func(t *testing.T) {
		_, _, err := svc.CreateBooking(ctx, "Alice", "Single", "2024-01-10", "12.01.2024")
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("CheckOutBeforeCheckIn", func(t *testing.T) {
		_, _, err := svc.CreateBooking(ctx, "Alice", "Single", "2024-02-01", "2024-01-30")
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("ZeroNights", func(t *testing.T) {
		_, _, err := svc.CreateBooking(ctx, "Alice", "Single", "2024-01-10", "2024-01-10")
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	// Validation failures never reach the store or publish events.
	store.AssertNotCalled(t, "ReserveRoom", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, bus.published)
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()
	checkIn, _ := time.Parse(models.DateLayout, "2024-01-10")
	checkOut, _ := time.Parse(models.DateLayout, "2024-01-12")

	t.Run("Success", func(t *testing.T) {
		store := new(mockStore)
		svc, bus := newTestService(store)
		room := &models.Room{ID: 1, Type: "Single", Number: "S101", Rate: 1500}
		store.On("ReserveRoom", ctx, "Alice", "Single", checkIn, checkOut).
			Return(int64(7), room, nil).Once()

		id, got, err := svc.CreateBooking(ctx, "Alice", "Single", "2024-01-10", "2024-01-12")
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
		assert.Equal(t, room, got)

		require.Len(t, bus.published, 1)
		assert.Equal(t, events.TypeBookingCreated, bus.published[0].Type)
		assert.Equal(t, int64(7), bus.published[0].BookingID)
		store.AssertExpectations(t)
	})

	t.Run("NoAvailability", func(t *testing.T) {
		store := new(mockStore)
		svc, bus := newTestService(store)
		store.On("ReserveRoom", ctx, "Bob", "Deluxe", checkIn, checkOut).
			Return(int64(0), nil, database.ErrNoAvailability).Once()

		_, _, err := svc.CreateBooking(ctx, "Bob", "Deluxe", "2024-01-10", "2024-01-12")
		assert.ErrorIs(t, err, database.ErrNoAvailability)
		assert.Empty(t, bus.published)
		store.AssertExpectations(t)
	})

	t.Run("ConcurrencyConflict", func(t *testing.T) {
		store := new(mockStore)
		svc, bus := newTestService(store)
		store.On("ReserveRoom", ctx, "Bob", "Deluxe", checkIn, checkOut).
			Return(int64(0), nil, database.ErrConcurrentModification).Once()

		_, _, err := svc.CreateBooking(ctx, "Bob", "Deluxe", "2024-01-10", "2024-01-12")
		assert.ErrorIs(t, err, database.ErrConcurrentModification)
		assert.Empty(t, bus.published)
		store.AssertExpectations(t)
	})
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store := new(mockStore)
		svc, bus := newTestService(store)
		store.On("CancelBooking", ctx, int64(10), mock.AnythingOfType("time.Time")).Return(nil).Once()

		require.NoError(t, svc.CancelBooking(ctx, 10))
		require.Len(t, bus.published, 1)
		assert.Equal(t, events.TypeBookingCancelled, bus.published[0].Type)
		store.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		store := new(mockStore)
		svc, bus := newTestService(store)
		store.On("CancelBooking", ctx, int64(9999), mock.AnythingOfType("time.Time")).
			Return(database.ErrBookingNotFound).Once()

		err := svc.CancelBooking(ctx, 9999)
		assert.ErrorIs(t, err, database.ErrBookingNotFound)
		assert.Empty(t, bus.published)
	})

	t.Run("AlreadyCancelled", func(t *testing.T) {
		store := new(mockStore)
		svc, bus := newTestService(store)
		store.On("CancelBooking", ctx, int64(10), mock.AnythingOfType("time.Time")).
			Return(database.ErrAlreadyCancelled).Once()

		err := svc.CancelBooking(ctx, 10)
		assert.ErrorIs(t, err, database.ErrAlreadyCancelled)
		assert.Empty(t, bus.published)
	})
}

func TestFindAvailable(t *testing.T) {
	store := new(mockStore)
	svc, _ := newTestService(store)
	ctx := context.Background()

	t.Run("InvalidRange", func(t *testing.T) {
		_, err := svc.FindAvailable(ctx, "Single", "2024-01-12", "2024-01-10")
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("Valid", func(t *testing.T) {
		checkIn, _ := time.Parse(models.DateLayout, "2024-01-10")
		checkOut, _ := time.Parse(models.DateLayout, "2024-01-12")
		rooms := []models.Room{{ID: 1, Number: "S101"}}
		store.On("FindAvailableRooms", ctx, "Single", checkIn, checkOut).Return(rooms, nil).Once()

		got, err := svc.FindAvailable(ctx, "Single", "2024-01-10", "2024-01-12")
		require.NoError(t, err)
		assert.Equal(t, rooms, got)
		store.AssertExpectations(t)
	})
}

func TestListBookings(t *testing.T) {
	store := new(mockStore)
	svc, _ := newTestService(store)
	ctx := context.Background()

	t.Run("InvalidFilter", func(t *testing.T) {
		_, err := svc.ListBookings(ctx, "pending")
		assert.ErrorIs(t, err, ErrInvalidStatusFilter)
	})

	t.Run("ValidFilters", func(t *testing.T) {
		for _, filter := range []string{"", models.StatusActive, models.StatusCancelled} {
			store.On("ListBookings", ctx, filter).Return([]models.BookingRecord{}, nil).Once()
			_, err := svc.ListBookings(ctx, filter)
			require.NoError(t, err)
		}
		store.AssertExpectations(t)
	})
}
