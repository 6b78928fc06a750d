package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Seed populates the database with initial development data: a single dev
// user, an enabled access key for driving the API from the test suite, and
// a small starter category forest. It is a no-op if any users exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	var userID int64
	err := db.QueryRow(`
		INSERT INTO users (github_id, username, email)
		VALUES ($1, $2, $3)
		RETURNING id
	`, 0, "dev", "dev@inkwell.local").Scan(&userID)
	if err != nil {
		return fmt.Errorf("seed insert user: %w", err)
	}

	token := "dev-" + uuid.NewString()
	_, err = db.Exec(`
		INSERT INTO access_keys (value, user_id, name, note)
		VALUES ($1, $2, $3, $4)
	`, token, userID, "dev token", "seeded for local development")
	if err != nil {
		return fmt.Errorf("seed insert access key: %w", err)
	}

	// Starter forest: coding holds the devlog and gamedev subtrees.
	categories := []struct{ name, parent string }{
		{"coding", "root"},
		{"devlog", "coding"},
		{"gamedev", "coding"},
		{"webdev", "devlog"},
		{"learning", "root"},
		{"hobbies", "root"},
		{"story", "hobbies"},
	}
	for _, c := range categories {
		_, err := db.Exec(`
			INSERT INTO categories (owner_id, name, parent) VALUES ($1, $2, $3)
		`, userID, c.name, c.parent)
		if err != nil {
			return fmt.Errorf("seed insert category %q: %w", c.name, err)
		}
	}

	slog.Info("database seeded with dev user",
		"username", "dev",
		"auth_token", token,
	)

	return nil
}
