package collections_test

import (
	"errors"
	"testing"

	"github.com/pocketbase/pocketbase/core"

	"projectmarket/collections"
	"projectmarket/testhelpers"
)

func TestMigrateProjectDefaults_BackfillsDateAdded(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	col, _ := app.FindCollectionByNameOrId("projects")
	rec := core.NewRecord(col)
	rec.Set("title", "Legacy")
	rec.Set("description", "Imported without a date")
	rec.Set("category", "Data Science")
	rec.Set("price", 10)
	if err := app.Save(rec); err != nil {
		t.Fatalf("save legacy project: %v", err)
	}

	if err := collections.MigrateProjectDefaults(app); err != nil {
		t.Fatalf("MigrateProjectDefaults() error: %v", err)
	}

	got, _ := app.FindRecordById("projects", rec.Id)
	if got.GetDateTime("date_added").IsZero() {
		t.Error("expected date_added to be backfilled")
	}
	if got.GetDateTime("date_added").String() != got.GetDateTime("created").String() {
		t.Errorf("date_added = %v, want created %v", got.GetDateTime("date_added"), got.GetDateTime("created"))
	}
}

func TestMigrateProjectDefaults_NoopWhenDated(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Dated", testhelpers.ProjectOpts{})
	before := proj.GetDateTime("date_added")

	if err := collections.MigrateProjectDefaults(app); err != nil {
		t.Fatalf("first run error: %v", err)
	}
	if err := collections.MigrateProjectDefaults(app); err != nil {
		t.Fatalf("second run error: %v", err)
	}

	got, _ := app.FindRecordById("projects", proj.Id)
	if got.GetDateTime("date_added").String() != before.String() {
		t.Errorf("date_added changed: %v -> %v", before, got.GetDateTime("date_added"))
	}
}

func TestPromoteAdmin(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "owner@example.com", false)

	if err := collections.PromoteAdmin(app, "owner@example.com"); err != nil {
		t.Fatalf("PromoteAdmin() error: %v", err)
	}
	got, _ := app.FindRecordById("users", user.Id)
	if !got.GetBool("is_admin") {
		t.Error("expected user to be admin")
	}

	// promoting twice is fine
	if err := collections.PromoteAdmin(app, "owner@example.com"); err != nil {
		t.Errorf("second PromoteAdmin() error: %v", err)
	}
}

func TestPromoteAdmin_UnknownEmail(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	for _, email := range []string{"", "nobody@example.com"} {
		err := collections.PromoteAdmin(app, email)
		if !errors.Is(err, collections.ErrUserNotFound) {
			t.Errorf("PromoteAdmin(%q) error = %v, want ErrUserNotFound", email, err)
		}
	}
}
