package mood

import "time"

// Entry is a single self-reported mood sample.
type Entry struct {
	ID        string    `json:"id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}
