// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"projectmarket/collections"
)

// TestPassword is the password given to every user created by CreateTestUser.
const TestPassword = "password123"

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// ProjectOpts overrides the defaults used by CreateTestProject.
type ProjectOpts struct {
	Category           string
	Price              float64
	Featured           bool
	UIPrice            float64
	CodePrice          float64
	DocumentationPrice float64
}

// CreateTestProject creates a project record with the given title and returns it.
// Zero-valued opts fall back to a 100.00 Web Development project without add-ons.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, title string, opts ProjectOpts) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	if opts.Category == "" {
		opts.Category = "Web Development"
	}
	if opts.Price == 0 {
		opts.Price = 100
	}

	record := core.NewRecord(col)
	record.Set("title", title)
	record.Set("description", "Test description for "+title)
	record.Set("category", opts.Category)
	record.Set("price", opts.Price)
	record.Set("author", "Test Author")
	record.Set("image_url", "https://example.com/"+strings.ReplaceAll(strings.ToLower(title), " ", "-")+".png")
	record.Set("is_featured", opts.Featured)
	record.Set("date_added", types.NowDateTime())
	record.Set("ui_price", opts.UIPrice)
	record.Set("code_price", opts.CodePrice)
	record.Set("documentation_price", opts.DocumentationPrice)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestUser creates a users auth record with TestPassword.
func CreateTestUser(t *testing.T, app *pocketbase.PocketBase, email string, admin bool) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		t.Fatalf("failed to find users collection: %v", err)
	}

	record := core.NewRecord(col)
	record.SetEmail(email)
	record.SetPassword(TestPassword)
	record.Set("is_admin", admin)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test user: %v", err)
	}

	return record
}

// AuthToken returns a fresh auth token for user.
func AuthToken(t *testing.T, user *core.Record) string {
	t.Helper()

	token, err := user.NewAuthToken()
	if err != nil {
		t.Fatalf("failed to create auth token: %v", err)
	}
	return token
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHTMLNotContains checks that body contains none of the fragments.
func AssertHTMLNotContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if strings.Contains(body, frag) {
			t.Errorf("expected HTML not to contain %q\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
