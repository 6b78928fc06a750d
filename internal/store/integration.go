package store

import (
	"database/sql"
	"fmt"

	"inkwell/internal/models"
)

// integrationColumns are the integrations columns scanned by every read, in order.
const integrationColumns = `id, user_id, source, location, data, last_fetch, created_at, updated_at`

// IntegrationStore manages external publishing integrations and the fetch
// links that tie synced posts back to their source articles.
type IntegrationStore struct {
	db *sql.DB
}

// NewIntegrationStore returns a new IntegrationStore.
func NewIntegrationStore(db *sql.DB) *IntegrationStore {
	return &IntegrationStore{db: db}
}

func scanIntegration(scanner interface{ Scan(...any) error }) (*models.Integration, error) {
	var in models.Integration
	err := scanner.Scan(
		&in.ID, &in.UserID, &in.Source, &in.Location, &in.Data,
		&in.LastFetch, &in.CreatedAt, &in.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// ListWithLinks returns all of a user's integrations, each with its fetch
// links attached.
func (s *IntegrationStore) ListWithLinks(userID int64) ([]models.IntegrationWithLinks, error) {
	rows, err := s.db.Query(`
		SELECT `+integrationColumns+` FROM integrations
		WHERE user_id = $1
		ORDER BY source
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list integrations: %w", err)
	}
	defer rows.Close()

	items := make([]models.IntegrationWithLinks, 0)
	for rows.Next() {
		in, err := scanIntegration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan integration: %w", err)
		}
		items = append(items, models.IntegrationWithLinks{Integration: *in})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		links, err := s.Links(items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].FetchLinks = links
	}
	return items, nil
}

// FindBySource retrieves a user's integration for one source. Returns nil
// if not configured.
func (s *IntegrationStore) FindBySource(userID int64, source string) (*models.Integration, error) {
	row := s.db.QueryRow(`
		SELECT `+integrationColumns+` FROM integrations
		WHERE user_id = $1 AND source = $2
	`, userID, source)
	in, err := scanIntegration(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find integration: %w", err)
	}
	return in, nil
}

// Upsert inserts an integration or, if the user already has one for the
// source, updates its location and data in place.
func (s *IntegrationStore) Upsert(in models.Integration) error {
	_, err := s.db.Exec(`
		INSERT INTO integrations (user_id, source, location, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, source) DO UPDATE SET
			location = EXCLUDED.location,
			data = EXCLUDED.data,
			updated_at = NOW()
	`, in.UserID, in.Source, in.Location, in.Data)
	if err != nil {
		return fmt.Errorf("upsert integration: %w", err)
	}
	return nil
}

// TouchFetched stamps the integration's last successful fetch time.
func (s *IntegrationStore) TouchFetched(id int64) error {
	_, err := s.db.Exec(`
		UPDATE integrations SET last_fetch = NOW(), updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("touch integration: %w", err)
	}
	return nil
}

// Links returns the fetch links recorded for an integration.
func (s *IntegrationStore) Links(integrationID int64) ([]models.FetchLink, error) {
	rows, err := s.db.Query(`
		SELECT post_id, identifier FROM fetch_links
		WHERE integration_id = $1
		ORDER BY id
	`, integrationID)
	if err != nil {
		return nil, fmt.Errorf("list fetch links: %w", err)
	}
	defer rows.Close()

	links := make([]models.FetchLink, 0)
	for rows.Next() {
		var l models.FetchLink
		if err := rows.Scan(&l.PostID, &l.Identifier); err != nil {
			return nil, fmt.Errorf("scan fetch link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// HasLink reports whether the integration already links the external
// identifier to a post.
func (s *IntegrationStore) HasLink(integrationID int64, identifier string) (bool, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM fetch_links
		WHERE integration_id = $1 AND identifier = $2
	`, integrationID, identifier).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check fetch link: %w", err)
	}
	return n > 0, nil
}

// LinkPost records that a post mirrors the external article identified by
// identifier. Idempotent per (integration, identifier).
func (s *IntegrationStore) LinkPost(integrationID, postID int64, identifier string) error {
	_, err := s.db.Exec(`
		INSERT INTO fetch_links (integration_id, post_id, identifier)
		VALUES ($1, $2, $3)
		ON CONFLICT (integration_id, identifier) DO NOTHING
	`, integrationID, postID, identifier)
	if err != nil {
		return fmt.Errorf("link post: %w", err)
	}
	return nil
}
