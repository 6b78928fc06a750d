package models

import "time"

// Integration sources the sync engine knows how to fetch.
const (
	SourceDevTo  = "devto"
	SourceDevpad = "devpad"
)

// Integration links a user to an external publishing platform. Location is
// the API endpoint to pull from and Data holds source-specific settings as
// a JSON blob (typically the API token).
type Integration struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Source    string    `json:"source"`
	Location  string    `json:"location"`
	Data      string    `json:"data"`
	LastFetch time.Time `json:"last_fetch"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FetchLink ties a local post to its identifier on an external platform so
// repeated syncs are idempotent.
type FetchLink struct {
	PostID     int64  `json:"post_id"`
	Identifier string `json:"identifier"`
}

// IntegrationWithLinks is the /links listing shape: the integration plus
// every post it has been matched to.
type IntegrationWithLinks struct {
	Integration
	FetchLinks []FetchLink `json:"fetch_links,omitempty"`
}
