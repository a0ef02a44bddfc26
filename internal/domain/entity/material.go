package entity

import "time"

// Material is a catalog entry the user can drop onto a draft without
// retyping description and price.
type Material struct {
	ID          int64     `json:"id"`
	ProfileID   int64     `json:"profile_id"`
	Description string    `json:"description"`
	Unit        string    `json:"unit"`
	UnitPrice   float64   `json:"unit_price"`
	CreatedAt   time.Time `json:"created_at"`
}
