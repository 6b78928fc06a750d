package models

import "time"

// Post formats supported by the editor.
const (
	FormatMarkdown = "md"
	FormatAsciidoc = "adoc"
)

// Post is a single blog post. The slug is the user-facing identifier and
// must be unique among the author's posts; the numeric ID is server-assigned.
// Archived is a reversible soft-delete flag — archived posts still appear in
// listings so the dashboard can offer restore.
type Post struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	AuthorID    int64     `json:"author_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Format      string    `json:"format"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Archived    bool      `json:"archived"`
	ProjectID   string    `json:"project_id,omitempty"`
	PublishAt   time.Time `json:"publish_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PostsResponse is the paginated listing payload.
// TotalPages is ceil(TotalPosts / PerPage) and CurrentPage is
// offset/limit + 1; a full-fetch (limit=-1) collapses to a single page.
type PostsResponse struct {
	Posts       []Post `json:"posts"`
	TotalPosts  int    `json:"total_posts"`
	TotalPages  int    `json:"total_pages"`
	PerPage     int    `json:"per_page"`
	CurrentPage int    `json:"current_page"`
}
