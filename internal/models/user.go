// Package models defines the data structures shared between the stores
// and the HTTP handlers. JSON tags match the shapes the dashboard client
// expects.
package models

import "time"

// User is an authenticated dashboard user. Accounts are created on first
// GitHub login; there is no local password credential.
type User struct {
	ID        int64  `json:"user_id"`
	GitHubID  int64  `json:"github_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GitHubUser is the subset of the GitHub profile API response we consume
// during the OAuth callback.
type GitHubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}
