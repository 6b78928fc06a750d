package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

// GetUserTokens handles GET /tokens.
func (a *API) GetUserTokens(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tokens, err := a.tokens.List(user.ID)
	if err != nil {
		serverError(w, "error fetching tokens", err)
		return
	}

	respondJSON(w, http.StatusOK, tokens)
}

// CreateToken handles POST /token/new. The key value is generated
// server-side; whatever the client sends for it is ignored.
func (a *API) CreateToken(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var key models.AccessKey
	if err := decodeJSON(w, r, &key); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if key.UserID == 0 {
		key.UserID = user.ID
	} else if key.UserID != user.ID {
		respondError(w, http.StatusBadRequest, "user_id does not match authenticated user")
		return
	}

	if err := validateToken(&key); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := a.tokens.Create(key)
	if err != nil {
		serverError(w, "error creating token", err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// EditToken handles PUT /token/edit: name, note, and enabled only.
func (a *API) EditToken(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var key models.AccessKey
	if err := decodeJSON(w, r, &key); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := a.tokens.Find(key.ID)
	if err != nil {
		serverError(w, "error fetching token", err)
		return
	}
	if existing == nil || existing.UserID != user.ID {
		respondError(w, http.StatusNotFound, "token not found")
		return
	}

	if err := validateToken(&key); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	key.UserID = user.ID
	if err := a.tokens.Update(key); err != nil {
		serverError(w, "error updating token", err)
		return
	}

	updated, err := a.tokens.Find(key.ID)
	if err != nil {
		serverError(w, "error fetching token", err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DeleteToken handles DELETE /token/delete/{id}.
func (a *API) DeleteToken(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid token id")
		return
	}

	existing, err := a.tokens.Find(id)
	if err != nil {
		serverError(w, "error fetching token", err)
		return
	}
	if existing == nil || existing.UserID != user.ID {
		respondError(w, http.StatusNotFound, "token not found")
		return
	}

	if err := a.tokens.Delete(id); err != nil {
		serverError(w, "error deleting token", err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
