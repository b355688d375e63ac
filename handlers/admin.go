package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	"projectmarket/cart"
	"projectmarket/catalog"
	"projectmarket/config"
	"projectmarket/services"
	"projectmarket/templates"
)

func addOnSummary(p catalog.Project) string {
	var parts []string
	add := func(name string, price *float64) {
		if price != nil && *price > 0 {
			parts = append(parts, name+" "+services.FormatUSD(*price))
		}
	}
	add(services.ComponentUI, p.UIPrice)
	add(services.ComponentCode, p.CodePrice)
	add(services.ComponentDocumentation, p.DocumentationPrice)
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, ", ")
}

// HandleAdminProjectList returns a handler that renders the admin catalog table.
func HandleAdminProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projects, err := catalog.List(app)
		if err != nil {
			log.Printf("admin_list: could not list projects: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		rows := make([]templates.AdminProjectRow, 0, len(projects))
		for _, p := range projects {
			files, err := catalog.Files(app, p.ID)
			if err != nil {
				log.Printf("admin_list: could not count files for %s: %v", p.ID, err)
			}
			rows = append(rows, templates.AdminProjectRow{
				ID:         p.ID,
				Title:      p.Title,
				Category:   p.Category,
				PriceLabel: services.FormatUSD(p.Price),
				AddOns:     addOnSummary(p),
				IsFeatured: p.IsFeatured,
				FileCount:  len(files),
			})
		}
		return render(e, "Manage projects", templates.AdminProjectList(templates.AdminListData{Projects: rows}))
	}
}

func formValues(p catalog.Project) map[string]string {
	price := func(v *float64) string {
		if v == nil {
			return ""
		}
		return cast.ToString(*v)
	}
	return map[string]string{
		"title":               p.Title,
		"description":         p.Description,
		"category":            p.Category,
		"author":              p.Author,
		"price":               cast.ToString(p.Price),
		"ui_price":            price(p.UIPrice),
		"code_price":          price(p.CodePrice),
		"documentation_price": price(p.DocumentationPrice),
		"image_url":           p.ImageURL,
		"is_featured":         cast.ToString(p.IsFeatured),
	}
}

func submittedValues(r *http.Request) map[string]string {
	values := map[string]string{}
	for _, k := range []string{"title", "description", "category", "author", "price",
		"ui_price", "code_price", "documentation_price", "image_url", "is_featured"} {
		values[k] = r.FormValue(k)
	}
	return values
}

func adminFilesData(app *pocketbase.PocketBase, p catalog.Project, cfg config.Config) templates.AdminFilesData {
	files, err := catalog.Files(app, p.ID)
	if err != nil {
		log.Printf("admin_files: could not list files for %s: %v", p.ID, err)
	}
	views := make([]templates.FileView, 0, len(files))
	for _, f := range files {
		views = append(views, templates.FileView{
			ID:        f.ID,
			KindLabel: services.FileKindLabel(f.FileType),
			FileName:  f.FileName,
			URL:       f.URL,
			SizeLabel: services.HumanSize(f.Size),
		})
	}
	kinds := make([]templates.KindOption, 0, len(services.FileKinds))
	for _, k := range services.FileKinds {
		kinds = append(kinds, templates.KindOption{Value: k, Label: services.FileKindLabel(k)})
	}
	return templates.AdminFilesData{
		ProjectID: p.ID,
		ImageURL:  p.ImageURL,
		Files:     views,
		Kinds:     kinds,
		MaxUpload: services.HumanSize(cfg.MaxUploadBytes),
		MaxImage:  services.HumanSize(cfg.MaxImageBytes),
	}
}

func renderProjectForm(e *core.RequestEvent, app *pocketbase.PocketBase, cfg config.Config, form templates.AdminProjectFormData, p *catalog.Project) error {
	title := "New project"
	content := templates.AdminProjectForm(form)
	if p != nil {
		title = "Edit " + p.Title
		content = templates.Stack(content, templates.AdminFiles(adminFilesData(app, *p, cfg)))
	}
	return render(e, title, content)
}

// HandleAdminProjectNew returns a handler that renders an empty project form.
func HandleAdminProjectNew(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		form := templates.AdminProjectFormData{Values: map[string]string{}, Categories: catalog.CategoryNames}
		return renderProjectForm(e, app, cfg, form, nil)
	}
}

// HandleAdminProjectEdit returns a handler that renders the form for an
// existing project together with its files.
func HandleAdminProjectEdit(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		p, err := catalog.Get(app, e.Request.PathValue("id"))
		if err != nil {
			log.Printf("admin_edit: %v", err)
			return notFound(e, "Project")
		}
		form := templates.AdminProjectFormData{ID: p.ID, Values: formValues(p), Categories: catalog.CategoryNames}
		return renderProjectForm(e, app, cfg, form, &p)
	}
}

// parseProjectForm returns the input, or the form data to re-render when it
// does not validate.
func parseProjectForm(r *http.Request, id string) (catalog.ProjectInput, *templates.AdminProjectFormData) {
	in, bad := catalog.ParseProjectInput(r.FormValue)
	errs := in.Validate()
	for k, v := range bad {
		if errs == nil {
			errs = map[string]string{}
		}
		errs[k] = v
	}
	if len(errs) == 0 {
		return in, nil
	}
	return in, &templates.AdminProjectFormData{
		ID:         id,
		Values:     submittedValues(r),
		Errors:     errs,
		Categories: catalog.CategoryNames,
	}
}

// HandleAdminProjectCreate returns a handler that saves a new project.
func HandleAdminProjectCreate(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		in, invalid := parseProjectForm(e.Request, "")
		if invalid != nil {
			e.Response.WriteHeader(http.StatusUnprocessableEntity)
			return renderProjectForm(e, app, cfg, *invalid, nil)
		}

		p, err := catalog.Create(app, in)
		if err != nil {
			log.Printf("admin_create: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save the project")
		}

		SetToast(e, cart.LevelSuccess, fmt.Sprintf("Created %s", p.Title))
		return redirect(e, "/admin/projects/"+p.ID+"/edit")
	}
}

// HandleAdminProjectUpdate returns a handler that saves an edited project.
func HandleAdminProjectUpdate(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		existing, err := catalog.Get(app, id)
		if err != nil {
			log.Printf("admin_update: %v", err)
			return notFound(e, "Project")
		}

		in, invalid := parseProjectForm(e.Request, id)
		if invalid != nil {
			e.Response.WriteHeader(http.StatusUnprocessableEntity)
			return renderProjectForm(e, app, cfg, *invalid, &existing)
		}

		p, err := catalog.Update(app, id, in)
		if err != nil {
			log.Printf("admin_update: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save the project")
		}

		SetToast(e, cart.LevelSuccess, fmt.Sprintf("Saved %s", p.Title))
		return redirect(e, "/admin")
	}
}

// HandleAdminProjectDelete returns a handler that deletes a project and its files.
func HandleAdminProjectDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := catalog.Delete(app, id); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return ErrorToast(e, http.StatusNotFound, "Project not found")
			}
			log.Printf("admin_delete: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not delete the project")
		}

		SetToast(e, cart.LevelSuccess, "Project deleted")
		if isPartial(e.Request) {
			// the row is swapped out with an empty body
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusSeeOther, "/admin")
	}
}

// redirect sends HTMX requests an HX-Redirect and everything else a 303.
func redirect(e *core.RequestEvent, target string) error {
	if e.Request.Header.Get("HX-Request") == "true" {
		e.Response.Header().Set("HX-Redirect", target)
		return e.NoContent(http.StatusOK)
	}
	return e.Redirect(http.StatusSeeOther, target)
}
