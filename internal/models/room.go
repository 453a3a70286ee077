package models

// Room represents a hotel room from the catalog.
// Rooms are created at bootstrap and never change afterwards.
type Room struct {
	ID     int64   `json:"id"`
	Type   string  `json:"room_type"`   // Single, Double, Deluxe (open-ended tag)
	Number string  `json:"room_number"` // human-facing, unique
	Rate   float64 `json:"rate"`        // nightly rate
}
