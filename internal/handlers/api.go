// Package handlers contains the HTTP handlers for the inkwell API.
// Handlers read the authenticated user from the request context, delegate
// to the stores, and translate store outcomes into the status codes the
// dashboard client expects: 400 for malformed input, 404 for missing
// resources, 409 for uniqueness conflicts, 401 for missing credentials.
package handlers

import (
	"inkwell/internal/integrations"
	"inkwell/internal/store"
)

// API bundles the data-plane handlers and their store dependencies.
type API struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	tags       *store.TagStore
	tokens     *store.TokenStore
	links      *store.IntegrationStore
	sync       *integrations.Syncer
}

// NewAPI creates the API handler group.
func NewAPI(
	posts *store.PostStore,
	categories *store.CategoryStore,
	tags *store.TagStore,
	tokens *store.TokenStore,
	links *store.IntegrationStore,
	sync *integrations.Syncer,
) *API {
	return &API{
		posts:      posts,
		categories: categories,
		tags:       tags,
		tokens:     tokens,
		links:      links,
		sync:       sync,
	}
}
