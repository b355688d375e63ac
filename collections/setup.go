package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Upload limits for the file fields. Handlers enforce the configured limits
// before a file reaches these fields.
const (
	maxImageSize = 5 << 20
	maxFileSize  = 50 << 20
)

var imageMimeTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/svg+xml"}

// Setup programmatically creates/ensures the projects, project_files and
// cart_states collections exist and that users carry the admin flag and
// profile fields.
func Setup(app *pocketbase.PocketBase) {
	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "title", Required: true, Max: 200})
		c.Fields.Add(&core.TextField{Name: "description", Required: true, Max: 20000})
		c.Fields.Add(&core.TextField{Name: "category", Required: true})
		c.Fields.Add(&core.NumberField{Name: "price", Required: true})
		c.Fields.Add(&core.TextField{Name: "author"})
		c.Fields.Add(&core.NumberField{Name: "rating"})
		c.Fields.Add(&core.NumberField{Name: "sales", OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "image_url", Max: 2000})
		c.Fields.Add(&core.FileField{
			Name:      "image",
			MaxSelect: 1,
			MaxSize:   maxImageSize,
			MimeTypes: imageMimeTypes,
		})
		c.Fields.Add(&core.BoolField{Name: "is_featured"})
		c.Fields.Add(&core.DateField{Name: "date_added"})
		// Zero means the component is not sold separately.
		c.Fields.Add(&core.NumberField{Name: "ui_price"})
		c.Fields.Add(&core.NumberField{Name: "code_price"})
		c.Fields.Add(&core.NumberField{Name: "documentation_price"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_projects_category", false, "category", "")
	})

	ensureCollection(app, "project_files", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "file_type",
			Required:  true,
			Values:    []string{"ui", "code", "documentation"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "file_name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "size", OnlyInt: true})
		c.Fields.Add(&core.FileField{
			Name:      "file",
			Required:  true,
			MaxSelect: 1,
			MaxSize:   maxFileSize,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	ensureCollection(app, "cart_states", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "session", Required: true})
		c.Fields.Add(&core.TextField{Name: "state_key", Required: true})
		c.Fields.Add(&core.TextField{Name: "value", Max: 1 << 20})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_cart_states_session_key", true, "session, state_key", "")
	})

	if err := ensureUserFields(app); err != nil {
		log.Fatalf("Failed to extend users collection: %v", err)
	}
}

// ensureUserFields adds the admin flag and the profile fields to the
// built-in users collection. Fields that already exist are left alone.
func ensureUserFields(app *pocketbase.PocketBase) error {
	users, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		return fmt.Errorf("find users collection: %w", err)
	}

	wanted := []core.Field{
		&core.BoolField{Name: "is_admin"},
		&core.TextField{Name: "name", Max: 100},
		&core.TextField{Name: "bio", Max: 1000},
		&core.URLField{Name: "github"},
		&core.URLField{Name: "linkedin"},
		&core.URLField{Name: "website"},
	}
	var added []string
	for _, f := range wanted {
		if users.Fields.GetByName(f.GetName()) != nil {
			continue
		}
		users.Fields.Add(f)
		added = append(added, f.GetName())
	}
	if len(added) == 0 {
		return nil
	}
	if err := app.Save(users); err != nil {
		return fmt.Errorf("save users collection: %w", err)
	}
	log.Printf("Added %v fields to users collection.\n", added)
	return nil
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
