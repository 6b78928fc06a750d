package models

// Category is a single node in a user's category forest. Every category
// has exactly one parent, either another category's name or the synthetic
// root. The name doubles as the identifier and is unique per owner.
type Category struct {
	Name    string `json:"name"`
	Parent  string `json:"parent"`
	OwnerID int64  `json:"owner_id"`
}

// RootCategory is the synthetic parent of all top-level categories. It is
// never stored as a row; it exists only as a parent reference and as the
// root of the materialized graph.
const RootCategory = "root"

// CategoryNode is the recursive materialization of the flat category list.
// Children are owned values, never back-references. The graph is rebuilt
// from the flat list on every read and never persisted.
type CategoryNode struct {
	Name     string         `json:"name"`
	Children []CategoryNode `json:"children"`
	OwnerID  int64          `json:"owner_id"`
}

// CategoriesResponse is the payload returned by every category endpoint.
// The dashboard replaces its entire category state with this response, so
// both views must come from the same read of the store.
type CategoriesResponse struct {
	Categories []Category   `json:"categories"`
	Graph      CategoryNode `json:"graph"`
}
