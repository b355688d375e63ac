// Package catalog reads and writes the project catalog stored in PocketBase.
package catalog

import (
	"time"

	"github.com/pocketbase/pocketbase/core"

	"projectmarket/services"
)

// Collection names.
const (
	ProjectsCollection = "projects"
	FilesCollection    = "project_files"
)

// CategoryNames is the fixed list of catalog categories.
var CategoryNames = []string{
	"AI & Machine Learning",
	"Web Development",
	"Mobile Apps",
	"Blockchain",
	"IoT Projects",
	"Data Science",
}

// Project is a sellable catalog entry. Optional component prices are nil
// when the component is not sold separately.
type Project struct {
	ID                 string
	Title              string
	Description        string
	Category           string
	Price              float64
	Author             string
	Rating             float64
	Sales              int
	ImageURL           string
	IsFeatured         bool
	DateAdded          time.Time
	UIPrice            *float64
	CodePrice          *float64
	DocumentationPrice *float64
}

// Prices returns the pricing view used by the bundle calculator.
func (p Project) Prices() services.ComponentPrices {
	return services.ComponentPrices{
		Price:              p.Price,
		UIPrice:            p.UIPrice,
		CodePrice:          p.CodePrice,
		DocumentationPrice: p.DocumentationPrice,
	}
}

// NewWindow is how long a project counts as new after it was added.
const NewWindow = 30 * 24 * time.Hour

// IsNew reports whether p was added within NewWindow of now.
func (p Project) IsNew(now time.Time) bool {
	return !p.DateAdded.IsZero() && now.Sub(p.DateAdded) <= NewWindow
}

// ProjectFile is a downloadable file attached to a project.
type ProjectFile struct {
	ID        string
	ProjectID string
	FileType  string
	FileName  string
	URL       string
	Size      int64
}

func optionalPrice(rec *core.Record, field string) *float64 {
	v := rec.GetFloat(field)
	if v <= 0 {
		return nil
	}
	return &v
}

// fileURL is the public PocketBase URL of a file stored on rec.
func fileURL(rec *core.Record, field string) string {
	name := rec.GetString(field)
	if name == "" {
		return ""
	}
	return "/api/files/" + rec.BaseFilesPath() + "/" + name
}

// FromRecord maps a projects record. An uploaded image takes precedence over
// the image_url text field.
func FromRecord(rec *core.Record) Project {
	image := fileURL(rec, "image")
	if image == "" {
		image = rec.GetString("image_url")
	}

	var added time.Time
	if dt := rec.GetDateTime("date_added"); !dt.IsZero() {
		added = dt.Time()
	}

	return Project{
		ID:                 rec.Id,
		Title:              rec.GetString("title"),
		Description:        rec.GetString("description"),
		Category:           rec.GetString("category"),
		Price:              rec.GetFloat("price"),
		Author:             rec.GetString("author"),
		Rating:             rec.GetFloat("rating"),
		Sales:              rec.GetInt("sales"),
		ImageURL:           image,
		IsFeatured:         rec.GetBool("is_featured"),
		DateAdded:          added,
		UIPrice:            optionalPrice(rec, "ui_price"),
		CodePrice:          optionalPrice(rec, "code_price"),
		DocumentationPrice: optionalPrice(rec, "documentation_price"),
	}
}

func fileFromRecord(rec *core.Record) ProjectFile {
	return ProjectFile{
		ID:        rec.Id,
		ProjectID: rec.GetString("project"),
		FileType:  rec.GetString("file_type"),
		FileName:  rec.GetString("file_name"),
		URL:       fileURL(rec, "file"),
		Size:      int64(rec.GetInt("size")),
	}
}
