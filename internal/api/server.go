package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hotelier/internal/cache"
	"hotelier/internal/database"
	"hotelier/internal/reports"
	"hotelier/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// HTTPServer exposes the booking engine to front-ends over JSON.
type HTTPServer struct {
	svc       *service.BookingService
	db        *database.DB
	reports   *reports.Registry
	roomCache *cache.RoomCache // nil when Redis is not configured
	limiter   *rate.Limiter
	server    *http.Server
	log       *zerolog.Logger
}

// Options configures the HTTP server.
type Options struct {
	Port              int
	RequestsPerSecond float64
	Burst             int
}

// NewHTTPServer wires the API routes and middleware.
func NewHTTPServer(opts Options, svc *service.BookingService, db *database.DB, registry *reports.Registry, roomCache *cache.RoomCache, logger *zerolog.Logger) *HTTPServer {
	s := &HTTPServer{
		svc:       svc,
		db:        db,
		reports:   registry,
		roomCache: roomCache,
		limiter:   rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		log:       logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/rooms", s.handleRooms)
	mux.HandleFunc("/api/availability", s.handleAvailability)
	mux.HandleFunc("/api/bookings", s.handleBookings)
	mux.HandleFunc("/api/bookings/", s.handleBookingByID)
	mux.HandleFunc("/api/reports/formats", s.handleReportFormats)
	mux.HandleFunc("/api/reports/export", s.handleReportExport)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.withMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the root handler, including middleware. Used by tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *HTTPServer) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctxShutdown)
	}()

	s.log.Info().Str("addr", s.server.Addr).Msg("API server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// withMiddleware applies rate limiting, request IDs and access logging.
func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)

		s.log.Debug().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
