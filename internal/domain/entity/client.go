package entity

import "time"

// Client is a previously stored customer. Read-only from the drafting
// flow's perspective; customer resolution only enriches drafts from it.
type Client struct {
	ID        int64     `json:"id"`
	ProfileID int64     `json:"profile_id"`
	Name      string    `json:"name"`
	Emails    []string  `json:"emails"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
