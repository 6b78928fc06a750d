package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/integrations"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

// GetUserIntegrations handles GET /links: the user's integrations with
// their fetch links aggregated.
func (a *API) GetUserIntegrations(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	links, err := a.links.ListWithLinks(user.ID)
	if err != nil {
		serverError(w, "error fetching integrations", err)
		return
	}

	respondJSON(w, http.StatusOK, links)
}

// UpsertIntegration handles PUT /links/upsert: insert-or-update the
// user's integration for a source.
func (a *API) UpsertIntegration(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var in models.Integration
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if in.Source != models.SourceDevTo && in.Source != models.SourceDevpad {
		respondError(w, http.StatusBadRequest, "unknown integration source")
		return
	}
	in.UserID = user.ID

	if err := a.links.Upsert(in); err != nil {
		serverError(w, "error saving integration", err)
		return
	}

	links, err := a.links.ListWithLinks(user.ID)
	if err != nil {
		serverError(w, "error fetching integrations", err)
		return
	}

	respondJSON(w, http.StatusOK, links)
}

// FetchIntegration handles GET /links/fetch/{source}: runs the pull-sync
// for the named source and returns the refreshed integration list.
func (a *API) FetchIntegration(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	source := chi.URLParam(r, "source")
	if err := a.sync.Sync(r.Context(), user.ID, source); err != nil {
		switch {
		case errors.Is(err, integrations.ErrUnknownSource):
			respondError(w, http.StatusBadRequest, "unknown integration source")
		case errors.Is(err, integrations.ErrNotConfigured):
			respondError(w, http.StatusNotFound, "integration not configured")
		default:
			serverError(w, "error syncing integration", err)
		}
		return
	}

	links, err := a.links.ListWithLinks(user.ID)
	if err != nil {
		serverError(w, "error fetching integrations", err)
		return
	}

	respondJSON(w, http.StatusOK, links)
}
