package store

import (
	"testing"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// forest is a small fixture shared by the pure graph tests:
//
//	coding -> devlog -> webdev
//	coding -> gamedev
//	hobbies
func forest(ownerID int64) []models.Category {
	return []models.Category{
		{Name: "coding", Parent: models.RootCategory, OwnerID: ownerID},
		{Name: "devlog", Parent: "coding", OwnerID: ownerID},
		{Name: "webdev", Parent: "devlog", OwnerID: ownerID},
		{Name: "gamedev", Parent: "coding", OwnerID: ownerID},
		{Name: "hobbies", Parent: models.RootCategory, OwnerID: ownerID},
	}
}

func TestBuildGraph(t *testing.T) {
	g := BuildGraph(forest(7), models.RootCategory, 7)

	if g.Name != models.RootCategory {
		t.Errorf("root name: got %q, want %q", g.Name, models.RootCategory)
	}
	if g.OwnerID != 7 {
		t.Errorf("root owner: got %d, want 7", g.OwnerID)
	}
	if len(g.Children) != 2 {
		t.Fatalf("root children: got %d, want 2", len(g.Children))
	}

	coding := g.Children[0]
	if coding.Name != "coding" || len(coding.Children) != 2 {
		t.Fatalf("coding: got %q with %d children", coding.Name, len(coding.Children))
	}

	devlog := coding.Children[0]
	if devlog.Name != "devlog" || len(devlog.Children) != 1 || devlog.Children[0].Name != "webdev" {
		t.Errorf("devlog subtree wrong: %+v", devlog)
	}

	hobbies := g.Children[1]
	if hobbies.Name != "hobbies" || len(hobbies.Children) != 0 {
		t.Errorf("hobbies: got %q with %d children", hobbies.Name, len(hobbies.Children))
	}
}

func TestBuildGraphEmpty(t *testing.T) {
	g := BuildGraph(nil, models.RootCategory, 1)

	if g.Name != models.RootCategory {
		t.Errorf("name: got %q", g.Name)
	}
	if g.Children == nil {
		t.Error("children must be an empty slice, not nil")
	}
	if len(g.Children) != 0 {
		t.Errorf("children: got %d, want 0", len(g.Children))
	}
}

func TestBuildGraphCycleDoesNotHang(t *testing.T) {
	// A cycle can't be inserted through the store, but a corrupted row
	// must not hang graph materialization.
	cats := []models.Category{
		{Name: "a", Parent: "b", OwnerID: 1},
		{Name: "b", Parent: "a", OwnerID: 1},
		{Name: "a", Parent: models.RootCategory, OwnerID: 1},
	}
	g := BuildGraph(cats, models.RootCategory, 1)
	if len(g.Children) != 1 {
		t.Fatalf("root children: got %d, want 1", len(g.Children))
	}
}

func TestDescendants(t *testing.T) {
	cats := forest(1)

	got := Descendants(cats, "coding")
	want := map[string]bool{"devlog": true, "webdev": true, "gamedev": true}
	if len(got) != len(want) {
		t.Fatalf("descendants of coding: got %d, want %d", len(got), len(want))
	}
	for _, c := range got {
		if !want[c.Name] {
			t.Errorf("unexpected descendant %q", c.Name)
		}
	}

	if ds := Descendants(cats, "hobbies"); len(ds) != 0 {
		t.Errorf("descendants of leaf: got %d, want 0", len(ds))
	}
	if ds := Descendants(cats, "nope"); len(ds) != 0 {
		t.Errorf("descendants of unknown: got %d, want 0", len(ds))
	}
}

func TestCategoryStoreCreateAndList(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)
	s := NewCategoryStore(db)

	for _, c := range forest(user.ID) {
		if err := s.Create(c); err != nil {
			t.Fatalf("Create %q: %v", c.Name, err)
		}
	}

	cats, err := s.List(user.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(cats) != 5 {
		t.Fatalf("expected 5 categories, got %d", len(cats))
	}

	found, err := s.Find(user.ID, "devlog")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if found == nil || found.Parent != "coding" {
		t.Errorf("Find devlog: got %+v", found)
	}

	missing, err := s.Find(user.ID, "nope")
	if err != nil {
		t.Fatalf("Find (missing): %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown category")
	}
}

func TestCategoryStoreDuplicateName(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)
	s := NewCategoryStore(db)

	c := models.Category{Name: "coding", Parent: models.RootCategory, OwnerID: user.ID}
	if err := s.Create(c); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	err := s.Create(c)
	if err == nil {
		t.Fatal("expected error for duplicate category")
	}
	if !database.IsDuplicate(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestCategoryStoreDeleteCascades(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)
	cats := NewCategoryStore(db)
	posts := NewPostStore(db)

	for _, c := range forest(user.ID) {
		if err := cats.Create(c); err != nil {
			t.Fatalf("Create %q: %v", c.Name, err)
		}
	}

	// One post in a doomed subtree category, one in a surviving one.
	doomed, err := posts.Create(&models.Post{
		AuthorID: user.ID, Slug: "in-webdev", Title: "In Webdev",
		Format: models.FormatMarkdown, Category: "webdev", Tags: []string{},
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if _, err := posts.Create(&models.Post{
		AuthorID: user.ID, Slug: "in-hobbies", Title: "In Hobbies",
		Format: models.FormatMarkdown, Category: "hobbies", Tags: []string{},
	}); err != nil {
		t.Fatalf("create post: %v", err)
	}

	if err := cats.Delete(user.ID, "coding"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	remaining, err := cats.List(user.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Name != "hobbies" {
		t.Fatalf("expected only hobbies to survive, got %+v", remaining)
	}

	// The post in the deleted subtree moved to root; the other stayed put.
	p, err := posts.FindByID(user.ID, doomed.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if p == nil {
		t.Fatal("post must survive category deletion")
	}
	if p.Category != models.RootCategory {
		t.Errorf("category: got %q, want %q", p.Category, models.RootCategory)
	}

	other, _ := posts.FindBySlug(user.ID, "in-hobbies")
	if other == nil || other.Category != "hobbies" {
		t.Errorf("unrelated post moved: %+v", other)
	}
}

func TestCategoryStorePerOwnerIsolation(t *testing.T) {
	db := testDB(t)
	alice := testUser(t, db)
	bob := testUser(t, db)
	s := NewCategoryStore(db)

	// Same name under two owners is fine.
	if err := s.Create(models.Category{Name: "coding", Parent: models.RootCategory, OwnerID: alice.ID}); err != nil {
		t.Fatalf("alice Create: %v", err)
	}
	if err := s.Create(models.Category{Name: "coding", Parent: models.RootCategory, OwnerID: bob.ID}); err != nil {
		t.Fatalf("bob Create: %v", err)
	}

	aliceCats, _ := s.List(alice.ID)
	if len(aliceCats) != 1 {
		t.Errorf("alice categories: got %d, want 1", len(aliceCats))
	}
}
