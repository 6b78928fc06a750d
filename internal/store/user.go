// Package store provides database access methods for all inkwell entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"

	"inkwell/internal/models"
)

// userColumns are the users columns scanned by every read, in order.
const userColumns = `id, github_id, username, email, avatar_url, created_at, updated_at`

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.ID, &u.GitHubID, &u.Username, &u.Email, &u.AvatarURL,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID retrieves a user by ID. Returns nil if not found.
func (s *UserStore) FindByID(id int64) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByGitHubID retrieves a user by their GitHub account ID. Returns nil
// if not found.
func (s *UserStore) FindByGitHubID(githubID int64) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE github_id = $1`, githubID)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by github id: %w", err)
	}
	return u, nil
}

// FindByToken resolves an enabled access key value to its owner. Returns
// nil if the token is unknown or disabled.
func (s *UserStore) FindByToken(token string) (*models.User, error) {
	row := s.db.QueryRow(`
		SELECT users.id, users.github_id, users.username, users.email,
		       users.avatar_url, users.created_at, users.updated_at
		FROM users
		JOIN access_keys ON access_keys.user_id = users.id
		WHERE access_keys.value = $1 AND access_keys.enabled
	`, token)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by token: %w", err)
	}
	return u, nil
}

// Create inserts a user from their GitHub profile and returns it.
func (s *UserStore) Create(gh *models.GitHubUser) (*models.User, error) {
	row := s.db.QueryRow(`
		INSERT INTO users (github_id, username, email, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		gh.ID, gh.Login, gh.Email, gh.AvatarURL,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}
