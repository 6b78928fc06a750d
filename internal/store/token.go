package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// keyColumns are the access_keys columns scanned by every read, in order.
const keyColumns = `id, value, user_id, name, note, enabled, created_at, updated_at`

// TokenStore manages API access keys.
type TokenStore struct {
	db *sql.DB
}

// NewTokenStore returns a new TokenStore.
func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

func scanKey(scanner interface{ Scan(...any) error }) (*models.AccessKey, error) {
	var k models.AccessKey
	err := scanner.Scan(
		&k.ID, &k.Value, &k.UserID, &k.Name, &k.Note, &k.Enabled,
		&k.CreatedAt, &k.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// List returns all of a user's access keys, oldest first.
func (s *TokenStore) List(userID int64) ([]models.AccessKey, error) {
	rows, err := s.db.Query(`
		SELECT `+keyColumns+` FROM access_keys
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	defer rows.Close()

	keys := make([]models.AccessKey, 0)
	for rows.Next() {
		k, err := scanKey(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		keys = append(keys, *k)
	}
	return keys, rows.Err()
}

// Find retrieves an access key by ID. Returns nil if not found.
func (s *TokenStore) Find(id int64) (*models.AccessKey, error) {
	row := s.db.QueryRow(`SELECT `+keyColumns+` FROM access_keys WHERE id = $1`, id)
	k, err := scanKey(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	return k, nil
}

// Create inserts a new access key with a server-generated opaque value and
// returns it. The client never supplies the value.
func (s *TokenStore) Create(k models.AccessKey) (*models.AccessKey, error) {
	value := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")

	row := s.db.QueryRow(`
		INSERT INTO access_keys (value, user_id, name, note, enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+keyColumns,
		value, k.UserID, k.Name, k.Note, k.Enabled,
	)
	created, err := scanKey(row)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}
	return created, nil
}

// Update modifies a key's name, note, and enabled flag. The value and
// ownership never change.
func (s *TokenStore) Update(k models.AccessKey) error {
	_, err := s.db.Exec(`
		UPDATE access_keys SET
			name = $1, note = $2, enabled = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
	`, k.Name, k.Note, k.Enabled, k.ID, k.UserID)
	if err != nil {
		return fmt.Errorf("update token: %w", err)
	}
	return nil
}

// Delete removes an access key by ID.
func (s *TokenStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM access_keys WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
