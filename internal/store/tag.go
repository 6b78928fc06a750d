package store

import (
	"database/sql"
	"fmt"
)

// TagStore manages the free-form tags attached to posts. Tags are not a
// first-class entity; the distinct set is derived from the posts that
// carry them.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// Distinct returns the sorted set of tags appearing on any of the user's
// posts. A tag disappears from this set when its last post loses it.
func (s *TagStore) Distinct(userID int64) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT tags.tag
		FROM tags
		JOIN posts ON posts.id = tags.post_id
		WHERE posts.author_id = $1
		ORDER BY tags.tag
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("distinct tags: %w", err)
	}
	defer rows.Close()

	tags := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Add attaches a tag to a post. Adding a tag the post already carries
// fails with a unique violation; the insert is the atomic presence check.
func (s *TagStore) Add(postID int64, tag string) error {
	_, err := s.db.Exec(`INSERT INTO tags (post_id, tag) VALUES ($1, $2)`, postID, tag)
	if err != nil {
		return fmt.Errorf("add tag: %w", err)
	}
	return nil
}

// Remove detaches a tag from a post. Removing a tag the post does not
// carry is a no-op, not an error.
func (s *TagStore) Remove(postID int64, tag string) error {
	_, err := s.db.Exec(`DELETE FROM tags WHERE post_id = $1 AND tag = $2`, postID, tag)
	if err != nil {
		return fmt.Errorf("remove tag: %w", err)
	}
	return nil
}
