package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"database/sql"

	"hotelier/internal/models"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// DB represents the database connection plus the in-memory room catalog cache.
// The catalog is read-only after bootstrap, so the cache never invalidates.
type DB struct {
	*sql.DB
	roomsCache map[int64]models.Room
	mu         sync.RWMutex
	// admissionMu serializes the check-then-insert admission unit in
	// ReserveRoom against all other admissions.
	admissionMu sync.Mutex
	logger      *zerolog.Logger
}

var (
	ErrNoAvailability         = errors.New("no rooms available")
	ErrRoomNotFound           = errors.New("room not found")
	ErrBookingNotFound        = errors.New("booking not found")
	ErrAlreadyCancelled       = errors.New("booking already cancelled")
	ErrConcurrentModification = errors.New("concurrent modification")
)

// NewDB opens the database at path, creates tables if they don't exist and
// loads the room catalog into the cache.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL mode, busy timeout and enforced foreign keys
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	instance := &DB{
		DB:         db,
		roomsCache: make(map[int64]models.Room),
		logger:     logger,
	}

	if err := instance.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := instance.LoadRooms(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Failed to load rooms into cache")
	}

	logger.Info().Str("path", path).Msg("Database initialized")
	return instance, nil
}

func (db *DB) createTables() error {
	queries := []string{
		// Room catalog; rooms are immutable once seeded
		`CREATE TABLE IF NOT EXISTS rooms (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			room_type TEXT NOT NULL,
			room_number TEXT NOT NULL UNIQUE,
			price REAL NOT NULL CHECK (price >= 0)
		)`,

		// Booking ledger; rows are never deleted, cancellation is a soft
		// status transition
		`CREATE TABLE IF NOT EXISTS bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			room_id INTEGER NOT NULL,
			guest_name TEXT NOT NULL,
			check_in TEXT NOT NULL,
			check_out TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			created_at DATETIME NOT NULL,
			cancelled_at DATETIME,
			CHECK (check_out > check_in),
			FOREIGN KEY(room_id) REFERENCES rooms(id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_rooms_type ON rooms(room_type, id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_room_status ON bookings(room_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_created ON bookings(created_at)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

// SeedRooms inserts the given rooms if the catalog is empty. Idempotent.
func (db *DB) SeedRooms(ctx context.Context, rooms []models.Room) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms").Scan(&count); err != nil {
		return fmt.Errorf("count rooms: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range rooms {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO rooms (room_type, room_number, price) VALUES (?, ?, ?)",
			r.Type, r.Number, r.Rate,
		); err != nil {
			return fmt.Errorf("seed room %s: %w", r.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	db.logger.Info().Int("rooms", len(rooms)).Msg("Room catalog seeded")
	return db.LoadRooms(ctx)
}

func (db *DB) Close() error {
	return db.DB.Close()
}
