package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// GetCategories handles GET /categories: the flat list and the rooted
// graph, generated from one read.
func (a *API) GetCategories(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	a.serveCategories(w, user.ID)
}

// CreateCategory handles POST /category/new. On success the full
// refreshed category response is returned so the client can replace its
// state wholesale.
func (a *API) CreateCategory(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var cat models.Category
	if err := decodeJSON(w, r, &cat); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if cat.OwnerID == 0 {
		cat.OwnerID = user.ID
	} else if cat.OwnerID != user.ID {
		respondError(w, http.StatusBadRequest, "owner_id does not match authenticated user")
		return
	}
	if cat.Parent == "" {
		cat.Parent = models.RootCategory
	}

	if err := validateCategory(&cat); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if cat.Parent != models.RootCategory {
		parent, err := a.categories.Find(user.ID, cat.Parent)
		if err != nil {
			serverError(w, "error fetching parent category", err)
			return
		}
		if parent == nil {
			respondError(w, http.StatusBadRequest, "parent category does not exist")
			return
		}
	}

	if err := a.categories.Create(cat); err != nil {
		if database.IsDuplicate(err) {
			respondError(w, http.StatusConflict, "a category with this name already exists")
			return
		}
		serverError(w, "error creating category", err)
		return
	}

	a.serveCategories(w, user.ID)
}

// DeleteCategory handles DELETE /category/delete/{name}. Deletion
// cascades to the subtree; posts in any deleted category move to root.
func (a *API) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	name := chi.URLParam(r, "name")
	if name == "" || name == models.RootCategory {
		respondError(w, http.StatusBadRequest, "invalid category name")
		return
	}

	existing, err := a.categories.Find(user.ID, name)
	if err != nil {
		serverError(w, "error fetching category", err)
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "category not found")
		return
	}

	if err := a.categories.Delete(user.ID, name); err != nil {
		serverError(w, "error deleting category", err)
		return
	}

	a.serveCategories(w, user.ID)
}

// serveCategories writes the {categories, graph} pair from a single fresh
// read so the two views can never diverge.
func (a *API) serveCategories(w http.ResponseWriter, ownerID int64) {
	flat, err := a.categories.List(ownerID)
	if err != nil {
		serverError(w, "error fetching categories", err)
		return
	}

	respondJSON(w, http.StatusOK, models.CategoriesResponse{
		Categories: flat,
		Graph:      store.BuildGraph(flat, models.RootCategory, ownerID),
	})
}
