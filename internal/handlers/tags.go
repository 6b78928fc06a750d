package handlers

import (
	"net/http"
	"strconv"

	"inkwell/internal/database"
	"inkwell/internal/middleware"
)

// GetTags handles GET /tags: the distinct tag set across the user's posts.
func (a *API) GetTags(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tags, err := a.tags.Distinct(user.ID)
	if err != nil {
		serverError(w, "error fetching tags", err)
		return
	}

	respondJSON(w, http.StatusOK, tags)
}

// AddPostTag handles PUT /post/tag?id=&tag=. Adding a tag the post
// already carries is a conflict, not a silent no-op.
func (a *API) AddPostTag(w http.ResponseWriter, r *http.Request) {
	postID, tag, ok := a.tagParams(w, r)
	if !ok {
		return
	}

	if err := a.tags.Add(postID, tag); err != nil {
		if database.IsDuplicate(err) {
			respondError(w, http.StatusConflict, "tag already present on post")
			return
		}
		serverError(w, "error adding tag", err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeletePostTag handles DELETE /post/tag?id=&tag=. Removing an absent tag
// succeeds as a no-op.
func (a *API) DeletePostTag(w http.ResponseWriter, r *http.Request) {
	postID, tag, ok := a.tagParams(w, r)
	if !ok {
		return
	}

	if err := a.tags.Remove(postID, tag); err != nil {
		serverError(w, "error removing tag", err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// tagParams parses and checks the id and tag query parameters, verifying
// the post exists and belongs to the caller. Writes the error response
// itself and returns ok=false on failure.
func (a *API) tagParams(w http.ResponseWriter, r *http.Request) (int64, string, bool) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return 0, "", false
	}

	postID, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return 0, "", false
	}

	tag := r.URL.Query().Get("tag")
	if err := validateTag(tag); err != nil {
		respondError(w, http.StatusBadRequest, "invalid tag: "+err.Error())
		return 0, "", false
	}

	post, err := a.posts.FindByID(user.ID, postID)
	if err != nil {
		serverError(w, "error fetching post", err)
		return 0, "", false
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return 0, "", false
	}

	return postID, tag, true
}
