package store

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"inkwell/internal/models"
)

// maxGraphDepth caps graph recursion. Inserts reject unknown parents so the
// stored forest can't contain a cycle, but a corrupted row shouldn't be able
// to hang a request.
const maxGraphDepth = 64

// psql builds queries with $N placeholders for PostgreSQL.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// CategoryStore manages a user's category forest in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// List returns all of a user's categories in insertion order.
func (s *CategoryStore) List(ownerID int64) ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT name, parent, owner_id
		FROM categories
		WHERE owner_id = $1
		ORDER BY created_at, name
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.Name, &c.Parent, &c.OwnerID); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Find retrieves a single category by name. Returns nil if not found.
func (s *CategoryStore) Find(ownerID int64, name string) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRow(`
		SELECT name, parent, owner_id FROM categories
		WHERE owner_id = $1 AND name = $2
	`, ownerID, name).Scan(&c.Name, &c.Parent, &c.OwnerID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &c, nil
}

// Create inserts a new category. A duplicate name surfaces as a unique
// violation from the primary key, so the existence check and the insert
// are a single atomic operation.
func (s *CategoryStore) Create(c models.Category) error {
	_, err := s.db.Exec(`
		INSERT INTO categories (owner_id, name, parent) VALUES ($1, $2, $3)
	`, c.OwnerID, c.Name, c.Parent)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Delete removes a category and its entire subtree in one transaction.
// Posts referencing any deleted category are reassigned to root, so the
// post set never shrinks when the forest does.
func (s *CategoryStore) Delete(ownerID int64, name string) error {
	flat, err := s.List(ownerID)
	if err != nil {
		return err
	}

	doomed := []string{name}
	for _, c := range Descendants(flat, name) {
		doomed = append(doomed, c.Name)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	reassign, args, err := psql.Update("posts").
		Set("category", models.RootCategory).
		Where(sq.Eq{"author_id": ownerID, "category": doomed}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build reassign: %w", err)
	}
	if _, err := tx.Exec(reassign, args...); err != nil {
		return fmt.Errorf("reassign posts: %w", err)
	}

	del, args, err := psql.Delete("categories").
		Where(sq.Eq{"owner_id": ownerID, "name": doomed}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := tx.Exec(del, args...); err != nil {
		return fmt.Errorf("delete categories: %w", err)
	}

	return tx.Commit()
}

// BuildGraph materializes the flat category list into a tree rooted at
// root. Children are grouped by parent name via an adjacency map rather
// than stored back-pointers.
func BuildGraph(categories []models.Category, root string, ownerID int64) models.CategoryNode {
	children := make(map[string][]models.Category, len(categories))
	for _, c := range categories {
		children[c.Parent] = append(children[c.Parent], c)
	}
	return buildNode(children, root, ownerID, 0)
}

func buildNode(children map[string][]models.Category, name string, ownerID int64, depth int) models.CategoryNode {
	node := models.CategoryNode{
		Name:     name,
		Children: make([]models.CategoryNode, 0),
		OwnerID:  ownerID,
	}
	if depth >= maxGraphDepth {
		return node
	}
	for _, c := range children[name] {
		node.Children = append(node.Children, buildNode(children, c.Name, ownerID, depth+1))
	}
	return node
}

// Descendants collects every category transitively below parent in the
// flat list, depth-first.
func Descendants(categories []models.Category, parent string) []models.Category {
	var cats []models.Category
	for _, c := range categories {
		if c.Parent == parent {
			cats = append(cats, c)
			cats = append(cats, Descendants(categories, c.Name)...)
		}
	}
	return cats
}
