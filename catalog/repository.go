package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"
	"github.com/pocketbase/pocketbase/tools/types"
)

// ErrNotFound is returned when a project or file id does not exist.
var ErrNotFound = errors.New("catalog: not found")

func wrapFind(what, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("find %s %s: %w", what, id, err)
}

func toProjects(records []*core.Record) []Project {
	out := make([]Project, 0, len(records))
	for _, r := range records {
		out = append(out, FromRecord(r))
	}
	return out
}

// List returns every project, newest first.
func List(app core.App) ([]Project, error) {
	return Search(app, "", "")
}

// Search matches q against title and description and optionally narrows to
// one category. Empty arguments match everything.
func Search(app core.App, q, category string) ([]Project, error) {
	query := app.RecordQuery(ProjectsCollection).OrderBy("date_added DESC", "created DESC")

	if q = strings.TrimSpace(q); q != "" {
		query = query.AndWhere(dbx.Or(
			dbx.Like("title", q),
			dbx.Like("description", q),
		))
	}
	if category = strings.TrimSpace(category); category != "" && category != "all" {
		query = query.AndWhere(dbx.HashExp{"category": category})
	}

	var records []*core.Record
	if err := query.All(&records); err != nil {
		return nil, fmt.Errorf("search projects: %w", err)
	}
	return toProjects(records), nil
}

// Get loads one project.
func Get(app core.App, id string) (Project, error) {
	rec, err := app.FindRecordById(ProjectsCollection, id)
	if err != nil {
		return Project{}, wrapFind("project", id, err)
	}
	return FromRecord(rec), nil
}

// Featured returns up to limit featured projects.
func Featured(app core.App, limit int) ([]Project, error) {
	records, err := app.FindRecordsByFilter(ProjectsCollection, "is_featured = true", "-date_added", limit, 0)
	if err != nil {
		return nil, fmt.Errorf("featured projects: %w", err)
	}
	return toProjects(records), nil
}

// Related returns up to limit other projects in the same category.
func Related(app core.App, category, excludeID string, limit int) ([]Project, error) {
	records, err := app.FindRecordsByFilter(ProjectsCollection,
		"category = {:category} && id != {:id}", "-rating", limit, 0,
		dbx.Params{"category": category, "id": excludeID})
	if err != nil {
		return nil, fmt.Errorf("related projects: %w", err)
	}
	return toProjects(records), nil
}

func applyInput(rec *core.Record, in ProjectInput) {
	rec.Set("title", in.Title)
	rec.Set("description", in.Description)
	rec.Set("category", in.Category)
	rec.Set("price", in.Price)
	rec.Set("author", in.Author)
	rec.Set("image_url", in.ImageURL)
	rec.Set("is_featured", in.IsFeatured)
	rec.Set("ui_price", in.UIPrice)
	rec.Set("code_price", in.CodePrice)
	rec.Set("documentation_price", in.DocumentationPrice)
}

// Create stores a new project. Callers validate in beforehand.
func Create(app core.App, in ProjectInput) (Project, error) {
	col, err := app.FindCollectionByNameOrId(ProjectsCollection)
	if err != nil {
		return Project{}, fmt.Errorf("find projects collection: %w", err)
	}

	rec := core.NewRecord(col)
	applyInput(rec, in)
	rec.Set("date_added", types.NowDateTime())
	if err := app.Save(rec); err != nil {
		return Project{}, fmt.Errorf("create project: %w", err)
	}
	return FromRecord(rec), nil
}

// Update overwrites the editable fields of a project.
func Update(app core.App, id string, in ProjectInput) (Project, error) {
	rec, err := app.FindRecordById(ProjectsCollection, id)
	if err != nil {
		return Project{}, wrapFind("project", id, err)
	}
	applyInput(rec, in)
	if err := app.Save(rec); err != nil {
		return Project{}, fmt.Errorf("update project %s: %w", id, err)
	}
	return FromRecord(rec), nil
}

// Delete removes a project. Attached files cascade.
func Delete(app core.App, id string) error {
	rec, err := app.FindRecordById(ProjectsCollection, id)
	if err != nil {
		return wrapFind("project", id, err)
	}
	if err := app.Delete(rec); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}

// SetImage stores an uploaded cover image on the project.
func SetImage(app core.App, id string, file *filesystem.File) (Project, error) {
	rec, err := app.FindRecordById(ProjectsCollection, id)
	if err != nil {
		return Project{}, wrapFind("project", id, err)
	}
	rec.Set("image", file)
	if err := app.Save(rec); err != nil {
		return Project{}, fmt.Errorf("save image for project %s: %w", id, err)
	}
	return FromRecord(rec), nil
}

// Files lists the files attached to a project, oldest first.
func Files(app core.App, projectID string) ([]ProjectFile, error) {
	records, err := app.FindRecordsByFilter(FilesCollection, "project = {:project}", "created", 0, 0,
		dbx.Params{"project": projectID})
	if err != nil {
		return nil, fmt.Errorf("list files for project %s: %w", projectID, err)
	}
	out := make([]ProjectFile, 0, len(records))
	for _, r := range records {
		out = append(out, fileFromRecord(r))
	}
	return out, nil
}

// AttachFile stores a component file (ui, code or documentation) for a project.
func AttachFile(app core.App, projectID, fileType, originalName string, size int64, file *filesystem.File) (ProjectFile, error) {
	if _, err := app.FindRecordById(ProjectsCollection, projectID); err != nil {
		return ProjectFile{}, wrapFind("project", projectID, err)
	}

	col, err := app.FindCollectionByNameOrId(FilesCollection)
	if err != nil {
		return ProjectFile{}, fmt.Errorf("find project_files collection: %w", err)
	}

	rec := core.NewRecord(col)
	rec.Set("project", projectID)
	rec.Set("file_type", fileType)
	rec.Set("file_name", originalName)
	rec.Set("size", size)
	rec.Set("file", file)
	if err := app.Save(rec); err != nil {
		return ProjectFile{}, fmt.Errorf("attach %s file to project %s: %w", fileType, projectID, err)
	}
	return fileFromRecord(rec), nil
}

// DeleteFile removes one attached file.
func DeleteFile(app core.App, id string) (ProjectFile, error) {
	rec, err := app.FindRecordById(FilesCollection, id)
	if err != nil {
		return ProjectFile{}, wrapFind("file", id, err)
	}
	f := fileFromRecord(rec)
	if err := app.Delete(rec); err != nil {
		return ProjectFile{}, fmt.Errorf("delete file %s: %w", id, err)
	}
	return f, nil
}

// IsAdmin reports whether the users record is flagged as an administrator.
func IsAdmin(user *core.Record) bool {
	return user != nil && user.Collection().Name == "users" && user.GetBool("is_admin")
}
