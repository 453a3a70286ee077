package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"hotelier/internal/database"
	"hotelier/internal/metrics"
	"hotelier/internal/models"
	"hotelier/internal/service"
)

// CreateBookingRequest is the request body for POST /api/bookings.
type CreateBookingRequest struct {
	GuestName string `json:"guest_name"`
	RoomType  string `json:"room_type"`
	CheckIn   string `json:"check_in"`  // Format: YYYY-MM-DD
	CheckOut  string `json:"check_out"` // Format: YYYY-MM-DD
}

// CreateBookingResponse is the response for POST /api/bookings.
type CreateBookingResponse struct {
	BookingID int64        `json:"booking_id"`
	Room      *models.Room `json:"room"`
}

// handleBookings lists bookings or creates one.
// GET  /api/bookings?status=active|cancelled
// POST /api/bookings
func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListBookings(w, r)
	case http.MethodPost:
		s.handleCreateBooking(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("list_bookings")

	statusFilter := r.URL.Query().Get("status")
	records, err := s.svc.ListBookings(r.Context(), statusFilter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatusFilter) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error().Err(err).Msg("failed to list bookings")
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	if records == nil {
		records = []models.BookingRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": records})
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("create_booking")

	var req CreateBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.GuestName == "" {
		writeError(w, http.StatusBadRequest, "guest_name is required")
		return
	}
	if req.RoomType == "" {
		writeError(w, http.StatusBadRequest, "room_type is required")
		return
	}
	if req.CheckIn == "" || req.CheckOut == "" {
		writeError(w, http.StatusBadRequest, "check_in and check_out are required")
		return
	}

	bookingID, room, err := s.svc.CreateBooking(r.Context(), req.GuestName, req.RoomType, req.CheckIn, req.CheckOut)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate), errors.Is(err, service.ErrInvalidRange):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, database.ErrNoAvailability):
			writeError(w, http.StatusConflict, "no rooms of the requested type are available for these dates")
		case errors.Is(err, database.ErrConcurrentModification):
			writeError(w, http.StatusConflict, "booking conflicts with a concurrent reservation; please retry")
		default:
			s.log.Error().Err(err).
				Str("room_type", req.RoomType).
				Msg("failed to create booking")
			writeError(w, http.StatusInternalServerError, "failed to create booking")
		}
		return
	}

	writeJSON(w, http.StatusCreated, CreateBookingResponse{
		BookingID: bookingID,
		Room:      room,
	})
}

// handleBookingByID fetches or cancels a single booking.
// GET    /api/bookings/{id}
// DELETE /api/bookings/{id}
func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/bookings/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetBooking(w, r, id)
	case http.MethodDelete:
		s.handleCancelBooking(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request, id int64) {
	metrics.IncHTTP("get_booking")

	booking, err := s.svc.GetBooking(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrBookingNotFound) {
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		s.log.Error().Err(err).Int64("booking_id", id).Msg("failed to get booking")
		writeError(w, http.StatusInternalServerError, "failed to get booking")
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleCancelBooking(w http.ResponseWriter, r *http.Request, id int64) {
	metrics.IncHTTP("cancel_booking")

	if err := s.svc.CancelBooking(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, database.ErrBookingNotFound):
			writeError(w, http.StatusNotFound, "booking not found")
		case errors.Is(err, database.ErrAlreadyCancelled):
			writeError(w, http.StatusConflict, "booking already cancelled")
		default:
			s.log.Error().Err(err).Int64("booking_id", id).Msg("failed to cancel booking")
			writeError(w, http.StatusInternalServerError, "failed to cancel booking")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
