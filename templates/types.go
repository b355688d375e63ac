// Package templates holds the storefront's HTML components. Components are
// written in templ (*.templ) and the generated *_templ.go files are committed
// next to them; run `templ generate` after editing a .templ file. Handlers
// render them the same way whether they return a full page or an HTMX
// fragment.
package templates

import (
	"fmt"
	"strings"
)

// UserView is the signed-in user shown in the header.
type UserView struct {
	Email   string
	Name    string
	IsAdmin bool
}

// Label is the name shown in the header, falling back to the email.
func (u UserView) Label() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Email
}

// HeaderData is built once per request by the middleware.
type HeaderData struct {
	AppName   string
	User      *UserView
	CartCount int
}

func pageTitle(title, appName string) string {
	if appName == "" {
		return title
	}
	return title + " | " + appName
}

// ProjectCard is a project tile in listings.
type ProjectCard struct {
	ID         string
	Title      string
	Category   string
	Author     string
	PriceLabel string
	Rating     float64
	Sales      int
	ImageURL   string
	IsFeatured bool
	IsNew      bool
}

// SortOptionView is one entry of the sort dropdown.
type SortOptionView struct {
	Key      string
	Label    string
	Selected bool
}

// HomeData feeds the landing page.
type HomeData struct {
	Featured   []ProjectCard
	Categories []string
}

// ProjectListData feeds the catalog page.
type ProjectListData struct {
	Projects   []ProjectCard
	Query      string
	Category   string
	Categories []string
	Sorts      []SortOptionView
}

func ratingLabel(rating float64, sales int) string {
	return fmt.Sprintf("★ %.1f · %d sold", rating, sales)
}

// OptionView is one selectable component on the detail page.
type OptionView struct {
	Key        string
	Label      string
	PriceLabel string
	Checked    bool
}

// PriceView is the live bundle quote.
type PriceView struct {
	ProjectID   string
	TotalLabel  string
	BundleTitle string
	Unpriced    bool
}

// ProjectDetailData feeds the project page.
type ProjectDetailData struct {
	ID             string
	Title          string
	Description    string
	Category       string
	Author         string
	Rating         float64
	Sales          int
	ImageURL       string
	BasePriceLabel string
	DateAdded      string
	IncludedKinds  []string
	Options        []OptionView
	Price          PriceView
	Related        []ProjectCard
	SignedIn       bool
}

// CartLineView is one cart row.
type CartLineView struct {
	ID             string
	Title          string
	ImageURL       string
	UnitLabel      string
	Quantity       int
	LineTotalLabel string
}

// CartSummaryView holds the formatted totals.
type CartSummaryView struct {
	Count         int
	SubtotalLabel string
	TaxLabel      string
	TaxPercent    string
	TotalLabel    string
}

// CartData feeds the cart page.
type CartData struct {
	Lines   []CartLineView
	Summary CartSummaryView
}

// AuthFormData feeds the login and register forms.
type AuthFormData struct {
	Register bool
	Name     string
	Email    string
	Error    string
	Redirect string
}

func (d AuthFormData) action() string {
	if d.Register {
		return "/register"
	}
	return "/login"
}

func (d AuthFormData) title() string {
	if d.Register {
		return "Create an account"
	}
	return "Log in"
}

func (d AuthFormData) button() string {
	if d.Register {
		return "Sign up"
	}
	return "Log in"
}

// AdminProjectRow is one line of the admin catalog table.
type AdminProjectRow struct {
	ID         string
	Title      string
	Category   string
	PriceLabel string
	AddOns     string
	IsFeatured bool
	FileCount  int
}

// AdminListData feeds the admin dashboard.
type AdminListData struct {
	Projects []AdminProjectRow
}

// AdminProjectFormData feeds the create and edit form. Values and Errors are
// keyed by form field name.
type AdminProjectFormData struct {
	ID         string
	Values     map[string]string
	Errors     map[string]string
	Categories []string
}

// IsEdit reports whether the form edits an existing project.
func (d AdminProjectFormData) IsEdit() bool { return d.ID != "" }

func (d AdminProjectFormData) action() string {
	if d.IsEdit() {
		return "/admin/projects/" + d.ID + "/save"
	}
	return "/admin/projects"
}

func (d AdminProjectFormData) title() string {
	if d.IsEdit() {
		return "Edit project"
	}
	return "New project"
}

func (d AdminProjectFormData) featured() bool {
	v := d.Values["is_featured"]
	return v == "true" || v == "on"
}

// FileView is an uploaded component file.
type FileView struct {
	ID        string
	KindLabel string
	FileName  string
	URL       string
	SizeLabel string
}

// KindOption is an entry of the file type select.
type KindOption struct {
	Value string
	Label string
}

// AdminFilesData feeds the file manager below the edit form.
type AdminFilesData struct {
	ProjectID string
	ImageURL  string
	Files     []FileView
	Kinds     []KindOption
	MaxUpload string
	MaxImage  string
}

// ProfileLink is one external link on the profile card.
type ProfileLink struct {
	Label string
	URL   string
}

// ProfileData feeds the profile page. Values and Errors are keyed by form
// field name.
type ProfileData struct {
	Initial     string
	DisplayName string
	Email       string
	MemberSince string
	Bio         string
	Links       []ProfileLink
	Values      map[string]string
	Errors      map[string]string
}
