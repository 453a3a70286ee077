package api

import (
	"errors"
	"net/http"

	"hotelier/internal/metrics"
	"hotelier/internal/models"
	"hotelier/internal/service"
)

// handleRooms returns the room catalog, optionally filtered by type.
// GET /api/rooms?type=Single
func (s *HTTPServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("rooms")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	roomType := r.URL.Query().Get("type")

	if rooms, ok := s.roomCache.Get(r.Context(), roomType); ok {
		writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
		return
	}

	var (
		rooms []models.Room
		err   error
	)
	if roomType == "" {
		rooms = s.db.GetRooms()
	} else {
		rooms, err = s.db.ListRoomsByType(r.Context(), roomType)
		if err != nil {
			s.log.Error().Err(err).Str("type", roomType).Msg("failed to list rooms")
			writeError(w, http.StatusInternalServerError, "failed to list rooms")
			return
		}
	}

	if rooms == nil {
		rooms = []models.Room{}
	}
	s.roomCache.Set(r.Context(), roomType, rooms)
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

// handleAvailability returns rooms free for the requested interval.
// GET /api/availability?room_type=Single&check_in=YYYY-MM-DD&check_out=YYYY-MM-DD
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query()
	roomType := query.Get("room_type")
	checkIn := query.Get("check_in")
	checkOut := query.Get("check_out")

	if roomType == "" {
		writeError(w, http.StatusBadRequest, "room_type is required")
		return
	}
	if checkIn == "" || checkOut == "" {
		writeError(w, http.StatusBadRequest, "check_in and check_out are required")
		return
	}

	rooms, err := s.svc.FindAvailable(r.Context(), roomType, checkIn, checkOut)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) || errors.Is(err, service.ErrInvalidRange) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error().Err(err).Str("room_type", roomType).Msg("failed to query availability")
		writeError(w, http.StatusInternalServerError, "failed to query availability")
		return
	}

	if rooms == nil {
		rooms = []models.Room{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}
