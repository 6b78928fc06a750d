package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/database"
	"inkwell/internal/excerpt"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// defaultPageSize is the page size when the client doesn't ask for one.
const defaultPageSize = 10

// FetchPosts handles GET /posts and GET /posts/{category}: a paginated
// listing, optionally scoped to a category subtree and/or a tag.
func (a *API) FetchPosts(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, offset, err := parsePaginationParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := store.ListOptions{
		Tag:    r.URL.Query().Get("tag"),
		Limit:  limit,
		Offset: offset,
	}

	// A category path segment scopes the listing to that category plus
	// every descendant. Root (or no segment) means no category filter at
	// all, so posts in deleted-and-reassigned categories still show up.
	category := chi.URLParam(r, "category")
	if category != "" && category != models.RootCategory {
		flat, err := a.categories.List(user.ID)
		if err != nil {
			serverError(w, "error fetching categories", err)
			return
		}
		if !categoryExists(flat, category) {
			respondError(w, http.StatusNotFound, "category not found")
			return
		}
		names := []string{category}
		for _, c := range store.Descendants(flat, category) {
			names = append(names, c.Name)
		}
		opts.Categories = names
	}

	posts, total, err := a.posts.List(user.ID, opts)
	if err != nil {
		serverError(w, "error fetching posts", err)
		return
	}

	resp := models.PostsResponse{
		Posts:      posts,
		TotalPosts: total,
	}
	if limit == -1 {
		resp.PerPage = total
		resp.TotalPages = 1
		resp.CurrentPage = 1
	} else {
		resp.PerPage = limit
		resp.TotalPages = (total + limit - 1) / limit
		resp.CurrentPage = offset/limit + 1
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetPostBySlug handles GET /post/{slug}.
func (a *API) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	post, err := a.posts.FindBySlug(user.ID, chi.URLParam(r, "slug"))
	if err != nil {
		serverError(w, "error fetching post", err)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	respondJSON(w, http.StatusOK, post)
}

// CreatePost handles POST /post/new.
func (a *API) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var post models.Post
	if err := decodeJSON(w, r, &post); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if post.AuthorID == 0 {
		post.AuthorID = user.ID
	} else if post.AuthorID != user.ID {
		respondError(w, http.StatusBadRequest, "author_id does not match authenticated user")
		return
	}

	if err := a.preparePost(&post); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := a.posts.Create(&post)
	if err != nil {
		if database.IsDuplicate(err) {
			respondError(w, http.StatusConflict, "a post with this slug already exists")
			return
		}
		serverError(w, "error creating post", err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// EditPost handles PUT /post/edit. The body carries the full post
// including its ID; the response is the refreshed post.
func (a *API) EditPost(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var post models.Post
	if err := decodeJSON(w, r, &post); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if post.ID <= 0 {
		respondError(w, http.StatusBadRequest, "post id is required")
		return
	}
	if post.AuthorID == 0 {
		post.AuthorID = user.ID
	} else if post.AuthorID != user.ID {
		respondError(w, http.StatusBadRequest, "author_id does not match authenticated user")
		return
	}

	existing, err := a.posts.FindByID(user.ID, post.ID)
	if err != nil {
		serverError(w, "error fetching post", err)
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	if post.PublishAt.IsZero() {
		post.PublishAt = existing.PublishAt
	}
	if err := a.preparePost(&post); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := a.posts.Update(&post)
	if err != nil {
		if database.IsDuplicate(err) {
			respondError(w, http.StatusConflict, "a post with this slug already exists")
			return
		}
		serverError(w, "error updating post", err)
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DeletePost handles DELETE /post/delete/{id}. Hard delete; tags and
// fetch links cascade.
func (a *API) DeletePost(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	deleted, err := a.posts.Delete(user.ID, id)
	if err != nil {
		serverError(w, "error deleting post", err)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// preparePost fills derived post fields and validates the result. The
// slug falls back to one generated from the title, the description to an
// excerpt of the content, and publish_at to now.
func (a *API) preparePost(post *models.Post) error {
	if post.Slug == "" {
		post.Slug = slug.Generate(post.Title)
	}
	if post.Format == "" {
		post.Format = models.FormatMarkdown
	}
	if post.Category == "" {
		post.Category = models.RootCategory
	}
	if post.PublishAt.IsZero() {
		post.PublishAt = time.Now()
	}
	if post.Description == "" {
		post.Description = excerpt.Derive(post.Content)
	}
	post.Tags = dedupe(post.Tags)

	if err := validatePost(post); err != nil {
		return err
	}

	if post.Category != models.RootCategory {
		cat, err := a.categories.Find(post.AuthorID, post.Category)
		if err != nil {
			return err
		}
		if cat == nil {
			return errUnknownCategory
		}
	}
	return nil
}

func categoryExists(categories []models.Category, name string) bool {
	for _, c := range categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// dedupe removes duplicate tags while preserving order.
func dedupe(tags []string) []string {
	if len(tags) == 0 {
		return tags
	}
	seen := make(map[string]bool, len(tags))
	out := tags[:0]
	for _, t := range tags {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// parsePaginationParams reads limit and offset from the query string.
// The limit defaults to defaultPageSize; -1 is the documented escape
// hatch meaning "return everything".
func parsePaginationParams(r *http.Request) (int, int, error) {
	limit := defaultPageSize
	offset := 0

	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, errInvalidLimit
		}
		limit = n
	}
	if limit == 0 || limit < -1 {
		return 0, 0, errInvalidLimit
	}

	if s := r.URL.Query().Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, 0, errInvalidOffset
		}
		offset = n
	}

	return limit, offset, nil
}
