package models

import "time"

// AccessKey is an API token that can authenticate requests via the
// Auth-Token header. The value is generated server-side and is immutable;
// keys can be disabled without being deleted.
type AccessKey struct {
	ID        int64     `json:"id"`
	Value     string    `json:"value"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Note      string    `json:"note"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
