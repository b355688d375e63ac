package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/sync/errgroup"

	"projectmarket/cart"
	"projectmarket/catalog"
	"projectmarket/config"
	"projectmarket/services"
	"projectmarket/templates"
)

// HandleHome returns a handler that renders the landing page.
func HandleHome(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var featured, all []catalog.Project

		var g errgroup.Group
		g.Go(func() error {
			var err error
			featured, err = catalog.Featured(app, cfg.FeaturedLimit)
			return err
		})
		g.Go(func() error {
			var err error
			all, err = catalog.List(app)
			return err
		})
		if err := g.Wait(); err != nil {
			log.Printf("home: could not load catalog: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		data := templates.HomeData{
			Featured:   projectCards(featured, cfg),
			Categories: catalog.Categories(all),
		}
		return render(e, "Home", templates.HomeContent(data))
	}
}

// HandleProjectList returns a handler that renders the catalog filtered by
// the q, category and sort query parameters.
func HandleProjectList(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := e.Request.URL.Query().Get("q")
		category := e.Request.URL.Query().Get("category")
		sortKey := catalog.NormalizeSort(e.Request.URL.Query().Get("sort"))

		projects, err := catalog.Search(app, q, category)
		if err != nil {
			log.Printf("project_list: search failed: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		sorts := make([]templates.SortOptionView, 0, len(catalog.SortOptions))
		for _, o := range catalog.SortOptions {
			sorts = append(sorts, templates.SortOptionView{Key: o.Key, Label: o.Label, Selected: o.Key == sortKey})
		}

		data := templates.ProjectListData{
			Projects:   projectCards(catalog.SortProjects(projects, sortKey), cfg),
			Query:      q,
			Category:   category,
			Categories: catalog.CategoryNames,
			Sorts:      sorts,
		}
		return render(e, "Projects", templates.ProjectListContent(data))
	}
}

// HandleProjectDetail returns a handler that renders a project with its
// bundle builder and related projects.
func HandleProjectDetail(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		p, err := catalog.Get(app, id)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return notFound(e, "Project")
			}
			log.Printf("project_detail: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		var related []catalog.Project
		var files []catalog.ProjectFile
		var g errgroup.Group
		g.Go(func() error {
			var err error
			related, err = catalog.Related(app, p.Category, p.ID, cfg.RelatedLimit)
			return err
		})
		g.Go(func() error {
			var err error
			files, err = catalog.Files(app, p.ID)
			return err
		})
		if err := g.Wait(); err != nil {
			// the page is still useful without these
			log.Printf("project_detail: could not load extras for %s: %v", p.ID, err)
		}

		data := detailData(p, services.Options{}, cfg)
		data.Related = projectCards(related, cfg)
		data.IncludedKinds = includedKinds(files)
		data.SignedIn = e.Auth != nil
		return render(e, p.Title, templates.ProjectDetailContent(data))
	}
}

func detailData(p catalog.Project, sel services.Options, cfg config.Config) templates.ProjectDetailData {
	data := templates.ProjectDetailData{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		Category:       p.Category,
		Author:         p.Author,
		Rating:         p.Rating,
		Sales:          p.Sales,
		ImageURL:       projectImage(p, cfg),
		BasePriceLabel: services.FormatUSD(p.Price),
		Options:        optionViews(p, sel),
		Price:          priceView(p, services.CalcBundlePrice(p.Prices(), sel)),
	}
	if !p.DateAdded.IsZero() {
		data.DateAdded = p.DateAdded.Format("Jan 2, 2006")
	}
	return data
}

func includedKinds(files []catalog.ProjectFile) []string {
	seen := map[string]bool{}
	for _, f := range files {
		seen[f.FileType] = true
	}
	var out []string
	for _, k := range services.FileKinds {
		if seen[k] {
			out = append(out, services.FileKindLabel(k))
		}
	}
	return out
}

// HandleBundlePrice returns a handler that recomputes the bundle quote for
// the submitted component selection.
func HandleBundlePrice(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		p, err := catalog.Get(app, e.Request.PathValue("id"))
		if err != nil {
			log.Printf("bundle_price: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		quote := services.CalcBundlePrice(p.Prices(), parseOptions(e.Request))
		return templates.PricePanel(priceView(p, quote)).Render(e.Request.Context(), e.Response)
	}
}

// HandleAddToCart returns a handler that adds the selected bundle to the
// session cart. Selections without any priced component are refused.
func HandleAddToCart(app *pocketbase.PocketBase, carts *cart.Provider, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		p, err := catalog.Get(app, e.Request.PathValue("id"))
		if err != nil {
			log.Printf("add_to_cart: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		quote := services.CalcBundlePrice(p.Prices(), parseOptions(e.Request))
		if quote.Unpriced {
			return WarningToast(e, http.StatusUnprocessableEntity, "The selected parts are not sold separately")
		}

		candidate := services.BundleCandidate(p.ID, p.Title, p.ImageURL, cfg.PlaceholderImage, quote)
		var count int
		_ = carts.With(GetSession(e.Request), ToastNotifier(e), func(s *cart.Store) error {
			s.AddItem(candidate)
			count = s.Count()
			return nil
		})

		if !isPartial(e.Request) {
			return e.Redirect(http.StatusSeeOther, "/projects/"+p.ID)
		}
		if err := templates.PricePanel(priceView(p, quote)).Render(e.Request.Context(), e.Response); err != nil {
			return err
		}
		return templates.CartBadge(count).Render(e.Request.Context(), e.Response)
	}
}
