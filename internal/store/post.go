package store

import (
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"inkwell/internal/models"
)

// PostStore handles all post-related database operations, including the
// per-post tag aggregation used by every read path.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// ListOptions selects and pages the posts returned by List.
type ListOptions struct {
	// Categories restricts results to the named categories. nil means no
	// category filtering; handlers pass the requested category plus all of
	// its descendants.
	Categories []string

	// Tag restricts results to posts carrying the exact tag.
	Tag string

	// Limit is the page size. -1 returns everything.
	Limit int

	// Offset is the zero-based row offset.
	Offset int
}

// postColumns are the posts columns scanned by every read, in order,
// followed by the aggregated tag list.
const postColumns = `posts.id, posts.author_id, posts.slug, posts.title,
	posts.description, posts.content, posts.format, posts.category,
	posts.archived, posts.project_id, posts.publish_at, posts.created_at,
	posts.updated_at, COALESCE(string_agg(tags.tag, ','), '')`

// scanPost scans a joined row into a Post, splitting the aggregated tags.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	var tags string
	err := scanner.Scan(
		&p.ID, &p.AuthorID, &p.Slug, &p.Title,
		&p.Description, &p.Content, &p.Format, &p.Category,
		&p.Archived, &p.ProjectID, &p.PublishAt, &p.CreatedAt,
		&p.UpdatedAt, &tags,
	)
	if err != nil {
		return nil, err
	}
	if tags == "" {
		p.Tags = []string{}
	} else {
		p.Tags = strings.Split(tags, ",")
	}
	return &p, nil
}

// FindByID retrieves one of the author's posts by ID. Returns nil if not found.
func (s *PostStore) FindByID(authorID, id int64) (*models.Post, error) {
	return s.find(authorID, "posts.id = $2", id)
}

// FindBySlug retrieves one of the author's posts by slug. Returns nil if not found.
func (s *PostStore) FindBySlug(authorID int64, slug string) (*models.Post, error) {
	return s.find(authorID, "posts.slug = $2", slug)
}

func (s *PostStore) find(authorID int64, where string, needle any) (*models.Post, error) {
	row := s.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts
		LEFT JOIN tags ON tags.post_id = posts.id
		WHERE posts.author_id = $1 AND `+where+`
		GROUP BY posts.id
	`, authorID, needle)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	return p, nil
}

// List returns a page of the author's posts and the total count matching
// the same filter. Both queries are built from one predicate so the page
// and the totals can never disagree. Ordering is newest first.
func (s *PostStore) List(authorID int64, opts ListOptions) ([]models.Post, int, error) {
	pred := sq.And{sq.Eq{"posts.author_id": authorID}}
	if opts.Categories != nil {
		pred = append(pred, sq.Eq{"posts.category": opts.Categories})
	}
	if opts.Tag != "" {
		// Filter through a subquery so the LEFT JOIN below still
		// aggregates every tag on the post, not just the matched one.
		pred = append(pred, sq.Expr(
			"EXISTS (SELECT 1 FROM tags t WHERE t.post_id = posts.id AND t.tag = ?)",
			opts.Tag,
		))
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("posts").Where(pred).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int
	if err := s.db.QueryRow(countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	q := psql.Select(postColumns).
		From("posts").
		LeftJoin("tags ON tags.post_id = posts.id").
		Where(pred).
		GroupBy("posts.id").
		OrderBy("posts.created_at DESC", "posts.id DESC").
		Offset(uint64(opts.Offset))
	if opts.Limit >= 0 {
		q = q.Limit(uint64(opts.Limit))
	}

	listSQL, listArgs, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list: %w", err)
	}

	rows, err := s.db.Query(listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, total, rows.Err()
}

// Create inserts a new post and its tags in one transaction and returns
// the stored post. A duplicate slug fails the insert itself via the
// (author_id, slug) unique constraint.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow(`
		INSERT INTO posts (author_id, slug, title, description, content,
		                   format, category, project_id, publish_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, p.AuthorID, p.Slug, p.Title, p.Description, p.Content,
		p.Format, p.Category, p.ProjectID, p.PublishAt,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := insertTags(tx, id, p.Tags); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.FindByID(p.AuthorID, id)
}

// Update rewrites an existing post and replaces its tag set in one
// transaction, then returns the refreshed post. Returns nil if the post
// does not exist or belongs to another author.
func (s *PostStore) Update(p *models.Post) (*models.Post, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE posts SET
			slug = $1, title = $2, description = $3, content = $4,
			format = $5, category = $6, archived = $7, project_id = $8,
			publish_at = $9, updated_at = NOW()
		WHERE id = $10 AND author_id = $11
	`, p.Slug, p.Title, p.Description, p.Content,
		p.Format, p.Category, p.Archived, p.ProjectID,
		p.PublishAt, p.ID, p.AuthorID,
	)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}

	if _, err := tx.Exec(`DELETE FROM tags WHERE post_id = $1`, p.ID); err != nil {
		return nil, fmt.Errorf("clear tags: %w", err)
	}
	if err := insertTags(tx, p.ID, p.Tags); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.FindByID(p.AuthorID, p.ID)
}

// Delete hard-deletes one of the author's posts. Tags and fetch links go
// with it via ON DELETE CASCADE. Returns false if nothing was deleted.
func (s *PostStore) Delete(authorID, id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM posts WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// FindByTitle retrieves one of the author's posts by exact title. Used by
// the integration sync to match externally published articles. Returns nil
// if not found.
func (s *PostStore) FindByTitle(authorID int64, title string) (*models.Post, error) {
	return s.find(authorID, "posts.title = $2", title)
}

func insertTags(tx *sql.Tx, postID int64, tags []string) error {
	for _, t := range tags {
		if _, err := tx.Exec(`INSERT INTO tags (post_id, tag) VALUES ($1, $2)`, postID, t); err != nil {
			return fmt.Errorf("insert tag %q: %w", t, err)
		}
	}
	return nil
}
