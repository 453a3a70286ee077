package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"hotelier/internal/models"
)

// LoadRooms refreshes the in-memory room catalog cache.
func (db *DB) LoadRooms(ctx context.Context) error {
	rows, err := db.QueryContext(ctx,
		"SELECT id, room_type, room_number, price FROM rooms ORDER BY id")
	if err != nil {
		return fmt.Errorf("load rooms: %w", err)
	}
	defer rows.Close()

	cache := make(map[int64]models.Room)
	for rows.Next() {
		var r models.Room
		if err := rows.Scan(&r.ID, &r.Type, &r.Number, &r.Rate); err != nil {
			return fmt.Errorf("scan room: %w", err)
		}
		cache[r.ID] = r
	}
	if err := rows.Err(); err != nil {
		return err
	}

	db.mu.Lock()
	db.roomsCache = cache
	db.mu.Unlock()
	return nil
}

// GetRooms returns all cached rooms ordered by id.
func (db *DB) GetRooms() []models.Room {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rooms := make([]models.Room, 0, len(db.roomsCache))
	for _, r := range db.roomsCache {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms
}

// ListRoomsByType returns rooms of the given type ordered by id ascending.
// The ordering is the tie-break for first-fit room selection.
func (db *DB) ListRoomsByType(ctx context.Context, roomType string) ([]models.Room, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT id, room_type, room_number, price FROM rooms WHERE room_type = ? ORDER BY id",
		roomType)
	if err != nil {
		return nil, fmt.Errorf("list rooms by type: %w", err)
	}
	defer rows.Close()

	return scanRooms(rows)
}

// GetRoomByID returns a single room or ErrRoomNotFound.
func (db *DB) GetRoomByID(ctx context.Context, id int64) (*models.Room, error) {
	db.mu.RLock()
	if r, ok := db.roomsCache[id]; ok {
		db.mu.RUnlock()
		return &r, nil
	}
	db.mu.RUnlock()

	var r models.Room
	err := db.QueryRowContext(ctx,
		"SELECT id, room_type, room_number, price FROM rooms WHERE id = ?", id,
	).Scan(&r.ID, &r.Type, &r.Number, &r.Rate)
	if err == sql.ErrNoRows {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// RoomTypes returns the distinct room types present in the catalog.
func (db *DB) RoomTypes(ctx context.Context) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT DISTINCT room_type FROM rooms ORDER BY room_type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func scanRooms(rows *sql.Rows) ([]models.Room, error) {
	var rooms []models.Room
	for rows.Next() {
		var r models.Room
		if err := rows.Scan(&r.ID, &r.Type, &r.Number, &r.Rate); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}
