// Package integrations pulls articles from external publishing platforms
// and mirrors them as local posts. A sync is idempotent: articles already
// linked through fetch_links are skipped, and unlinked articles are matched
// to existing posts by slug or title before anything new is created.
package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Sentinel errors the handler layer maps to client responses.
var (
	ErrUnknownSource = errors.New("unknown integration source")
	ErrNotConfigured = errors.New("integration not configured")
)

// Syncer runs pull-syncs for a user's configured integrations.
type Syncer struct {
	links  *store.IntegrationStore
	posts  *store.PostStore
	client *http.Client
}

// NewSyncer creates a Syncer with a bounded HTTP client.
func NewSyncer(links *store.IntegrationStore, posts *store.PostStore) *Syncer {
	return &Syncer{
		links:  links,
		posts:  posts,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Sync fetches the user's integration for the named source and mirrors
// its articles into the post store.
func (s *Syncer) Sync(ctx context.Context, userID int64, source string) error {
	switch source {
	case models.SourceDevTo:
		return s.syncDevTo(ctx, userID)
	default:
		return ErrUnknownSource
	}
}

// devToArticle is the subset of the dev.to articles API we consume.
type devToArticle struct {
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	BodyMarkdown string    `json:"body_markdown"`
	PublishedAt  time.Time `json:"published_at"`
	TagList      []string  `json:"tag_list"`
}

func (s *Syncer) syncDevTo(ctx context.Context, userID int64) error {
	link, err := s.links.FindBySource(userID, models.SourceDevTo)
	if err != nil {
		return err
	}
	if link == nil {
		return ErrNotConfigured
	}

	// The API token lives in the integration's data blob.
	var data map[string]any
	if err := json.Unmarshal([]byte(link.Data), &data); err != nil {
		return fmt.Errorf("integration data: %w", err)
	}
	token, _ := data["token"].(string)
	if token == "" {
		return fmt.Errorf("%w: no token in integration data", ErrNotConfigured)
	}

	articles, err := s.fetchDevTo(ctx, link.Location, token)
	if err != nil {
		return err
	}

	for _, art := range articles {
		if err := s.mirror(userID, link.ID, art); err != nil {
			return err
		}
	}

	return s.links.TouchFetched(link.ID)
}

// mirror ensures one external article has a local post and a fetch link.
func (s *Syncer) mirror(userID, integrationID int64, art devToArticle) error {
	linked, err := s.links.HasLink(integrationID, art.Slug)
	if err != nil {
		return err
	}
	if linked {
		return nil
	}

	// Prefer an existing post: same slug first, then same title.
	post, err := s.posts.FindBySlug(userID, art.Slug)
	if err != nil {
		return err
	}
	if post == nil {
		post, err = s.posts.FindByTitle(userID, art.Title)
		if err != nil {
			return err
		}
	}

	if post == nil {
		publishAt := art.PublishedAt
		if publishAt.IsZero() {
			publishAt = time.Now()
		}
		post, err = s.posts.Create(&models.Post{
			AuthorID:    userID,
			Slug:        art.Slug,
			Title:       art.Title,
			Description: art.Description,
			Content:     art.BodyMarkdown,
			Format:      models.FormatMarkdown,
			Category:    models.RootCategory,
			Tags:        art.TagList,
			PublishAt:   publishAt,
		})
		if err != nil {
			return fmt.Errorf("mirror article %q: %w", art.Slug, err)
		}
		slog.Info("synced new post from devto", "slug", post.Slug, "id", post.ID)
	}

	return s.links.LinkPost(integrationID, post.ID, art.Slug)
}

func (s *Syncer) fetchDevTo(ctx context.Context, url, token string) ([]devToArticle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("devto request: %w", err)
	}
	req.Header.Set("api-key", token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("devto fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("devto fetch: unexpected status %d", resp.StatusCode)
	}

	var articles []devToArticle
	if err := json.NewDecoder(resp.Body).Decode(&articles); err != nil {
		return nil, fmt.Errorf("devto decode: %w", err)
	}
	return articles, nil
}
