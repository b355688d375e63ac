package catalog_test

import (
	"errors"
	"testing"

	"github.com/pocketbase/pocketbase/tools/filesystem"

	"projectmarket/catalog"
	"projectmarket/testhelpers"
)

func TestFromRecord_OptionalPrices(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := testhelpers.CreateTestProject(t, app, "Bundle Me", testhelpers.ProjectOpts{
		Price: 100, UIPrice: 20, CodePrice: 0, DocumentationPrice: 10,
	})

	p, err := catalog.Get(app, rec.Id)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if p.UIPrice == nil || *p.UIPrice != 20 {
		t.Errorf("UIPrice = %v, want 20", p.UIPrice)
	}
	if p.CodePrice != nil {
		t.Errorf("CodePrice = %v, want nil for a zero price", *p.CodePrice)
	}
	if p.DocumentationPrice == nil || *p.DocumentationPrice != 10 {
		t.Errorf("DocumentationPrice = %v, want 10", p.DocumentationPrice)
	}
	if p.ImageURL != "https://example.com/bundle-me.png" {
		t.Errorf("ImageURL = %q", p.ImageURL)
	}
}

func TestGet_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	_, err := catalog.Get(app, "missing12345678")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSearch(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProject(t, app, "Voting Chain", testhelpers.ProjectOpts{Category: "Blockchain"})
	testhelpers.CreateTestProject(t, app, "Shop Front", testhelpers.ProjectOpts{Category: "Web Development"})
	testhelpers.CreateTestProject(t, app, "Chain Explorer", testhelpers.ProjectOpts{Category: "Web Development"})

	tests := []struct {
		name     string
		q        string
		category string
		want     int
	}{
		{"all", "", "", 3},
		{"all keyword", "", "all", 3},
		{"title match", "chain", "", 2},
		{"category only", "", "Blockchain", 1},
		{"both", "chain", "Web Development", 1},
		{"description match", "description for Shop", "", 1},
		{"no match", "quantum", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := catalog.Search(app, tt.q, tt.category)
			if err != nil {
				t.Fatalf("Search() error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Search(%q, %q) returned %d projects, want %d", tt.q, tt.category, len(got), tt.want)
			}
		})
	}
}

func TestFeaturedAndRelated(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	a := testhelpers.CreateTestProject(t, app, "A", testhelpers.ProjectOpts{Featured: true, Category: "Mobile Apps"})
	testhelpers.CreateTestProject(t, app, "B", testhelpers.ProjectOpts{Featured: true, Category: "Mobile Apps"})
	testhelpers.CreateTestProject(t, app, "C", testhelpers.ProjectOpts{Category: "Mobile Apps"})
	testhelpers.CreateTestProject(t, app, "D", testhelpers.ProjectOpts{Category: "Blockchain"})

	featured, err := catalog.Featured(app, 10)
	if err != nil {
		t.Fatalf("Featured() error: %v", err)
	}
	if len(featured) != 2 {
		t.Errorf("Featured() = %d projects, want 2", len(featured))
	}

	related, err := catalog.Related(app, "Mobile Apps", a.Id, 10)
	if err != nil {
		t.Fatalf("Related() error: %v", err)
	}
	if len(related) != 2 {
		t.Errorf("Related() = %d projects, want 2", len(related))
	}
	for _, p := range related {
		if p.ID == a.Id {
			t.Error("Related() must exclude the current project")
		}
	}

	limited, _ := catalog.Related(app, "Mobile Apps", a.Id, 1)
	if len(limited) != 1 {
		t.Errorf("Related() with limit 1 = %d projects", len(limited))
	}
}

func TestCreateUpdateDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	in := catalog.ProjectInput{
		Title:       "Smart Campus",
		Description: "IoT campus monitoring",
		Category:    "IoT Projects",
		Price:       149.99,
		Author:      "Jane Doe",
		CodePrice:   89.5,
	}
	created, err := catalog.Create(app, in)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if created.ID == "" || created.DateAdded.IsZero() {
		t.Errorf("Create() = %+v, want id and date_added", created)
	}
	if created.CodePrice == nil || *created.CodePrice != 89.5 {
		t.Errorf("CodePrice = %v", created.CodePrice)
	}

	in.Title = "Smart Campus v2"
	in.CodePrice = 0
	updated, err := catalog.Update(app, created.ID, in)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Title != "Smart Campus v2" || updated.CodePrice != nil {
		t.Errorf("Update() = %+v", updated)
	}

	if err := catalog.Delete(app, created.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := catalog.Get(app, created.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := catalog.Delete(app, created.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestFiles_AttachListDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "With Files", testhelpers.ProjectOpts{})

	f, err := filesystem.NewFileFromBytes([]byte("package main\n"), "code_abc.zip")
	if err != nil {
		t.Fatal(err)
	}
	attached, err := catalog.AttachFile(app, proj.Id, "code", "source.zip", 13, f)
	if err != nil {
		t.Fatalf("AttachFile() error: %v", err)
	}
	if attached.FileName != "source.zip" || attached.FileType != "code" || attached.URL == "" {
		t.Errorf("AttachFile() = %+v", attached)
	}

	files, err := catalog.Files(app, proj.Id)
	if err != nil {
		t.Fatalf("Files() error: %v", err)
	}
	if len(files) != 1 || files[0].ID != attached.ID {
		t.Fatalf("Files() = %+v", files)
	}

	if _, err := catalog.DeleteFile(app, attached.ID); err != nil {
		t.Fatalf("DeleteFile() error: %v", err)
	}
	files, _ = catalog.Files(app, proj.Id)
	if len(files) != 0 {
		t.Errorf("expected no files after delete, got %d", len(files))
	}
}

func TestAttachFile_UnknownProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f, _ := filesystem.NewFileFromBytes([]byte("x"), "x.txt")
	_, err := catalog.AttachFile(app, "missing12345678", "ui", "x.txt", 1, f)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("AttachFile() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteProject_CascadesFiles(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Cascade", testhelpers.ProjectOpts{})
	f, _ := filesystem.NewFileFromBytes([]byte("doc"), "doc.pdf")
	if _, err := catalog.AttachFile(app, proj.Id, "documentation", "guide.pdf", 3, f); err != nil {
		t.Fatal(err)
	}

	if err := catalog.Delete(app, proj.Id); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	remaining, _ := app.FindAllRecords(catalog.FilesCollection)
	if len(remaining) != 0 {
		t.Errorf("expected attached files to cascade, %d left", len(remaining))
	}
}

func TestIsAdmin(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	admin := testhelpers.CreateTestUser(t, app, "admin@example.com", true)
	buyer := testhelpers.CreateTestUser(t, app, "buyer@example.com", false)

	if !catalog.IsAdmin(admin) {
		t.Error("expected admin user to be admin")
	}
	if catalog.IsAdmin(buyer) {
		t.Error("expected buyer not to be admin")
	}
	if catalog.IsAdmin(nil) {
		t.Error("nil user must not be admin")
	}
}
