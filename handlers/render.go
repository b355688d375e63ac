package handlers

import (
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"projectmarket/cart"
	"projectmarket/catalog"
	"projectmarket/config"
	"projectmarket/services"
	"projectmarket/templates"
)

// isPartial reports whether the request wants a fragment. Boosted
// navigations still get the full page.
func isPartial(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Boosted") != "true"
}

// render writes content alone for HTMX fragment requests and wrapped in the
// page shell otherwise.
func render(e *core.RequestEvent, title string, content templ.Component) error {
	var component templ.Component
	if isPartial(e.Request) {
		component = content
	} else {
		component = templates.Page(title, GetHeaderData(e.Request), content)
	}
	return component.Render(e.Request.Context(), e.Response)
}

func notFound(e *core.RequestEvent, what string) error {
	if isPartial(e.Request) {
		return ErrorToast(e, http.StatusNotFound, what+" not found")
	}
	e.Response.WriteHeader(http.StatusNotFound)
	return render(e, "Not found", templates.Message(what+" not found", "It may have been removed or the link is wrong."))
}

func projectImage(p catalog.Project, cfg config.Config) string {
	if p.ImageURL == "" {
		return cfg.PlaceholderImage
	}
	return p.ImageURL
}

func projectCards(projects []catalog.Project, cfg config.Config) []templates.ProjectCard {
	now := time.Now()
	cards := make([]templates.ProjectCard, 0, len(projects))
	for _, p := range projects {
		cards = append(cards, templates.ProjectCard{
			ID:         p.ID,
			Title:      p.Title,
			Category:   p.Category,
			Author:     p.Author,
			PriceLabel: services.FormatUSD(p.Price),
			Rating:     p.Rating,
			Sales:      p.Sales,
			ImageURL:   projectImage(p, cfg),
			IsFeatured: p.IsFeatured,
			IsNew:      p.IsNew(now),
		})
	}
	return cards
}

func percentLabel(rate float64) string {
	return decimal.NewFromFloat(rate).Mul(decimal.NewFromInt(100)).String() + "%"
}

func cartData(items []cart.CartItem, cfg config.Config) templates.CartData {
	lines := make([]templates.CartLineView, 0, len(items))
	for _, it := range items {
		lineTotal := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		image := it.Image
		if image == "" {
			image = cfg.PlaceholderImage
		}
		lines = append(lines, templates.CartLineView{
			ID:             it.ID,
			Title:          it.Title,
			ImageURL:       image,
			UnitLabel:      services.FormatUSD(it.Price),
			Quantity:       it.Quantity,
			LineTotalLabel: services.FormatUSD(lineTotal.InexactFloat64()),
		})
	}

	summary := services.CalcOrderSummary(cart.Total(items), cfg.TaxRate)
	return templates.CartData{
		Lines: lines,
		Summary: templates.CartSummaryView{
			Count:         cart.Count(items),
			SubtotalLabel: services.FormatUSD(summary.Subtotal),
			TaxLabel:      services.FormatUSD(summary.Tax),
			TaxPercent:    percentLabel(cfg.TaxRate),
			TotalLabel:    services.FormatUSD(summary.Total),
		},
	}
}

// optionViews lists only the components the project sells separately.
func optionViews(p catalog.Project, sel services.Options) []templates.OptionView {
	prices := []struct {
		key     string
		label   string
		price   *float64
		checked bool
	}{
		{services.FileKindUI, services.ComponentUI, p.UIPrice, sel.UI},
		{services.FileKindCode, services.ComponentCode, p.CodePrice, sel.Code},
		{services.FileKindDocumentation, services.ComponentDocumentation, p.DocumentationPrice, sel.Documentation},
	}
	var out []templates.OptionView
	for _, c := range prices {
		if c.price == nil || *c.price <= 0 {
			continue
		}
		out = append(out, templates.OptionView{
			Key:        c.key,
			Label:      c.label,
			PriceLabel: services.FormatUSD(*c.price),
			Checked:    c.checked,
		})
	}
	return out
}

func priceView(p catalog.Project, quote services.BundleQuote) templates.PriceView {
	return templates.PriceView{
		ProjectID:   p.ID,
		TotalLabel:  services.FormatUSD(quote.Total),
		BundleTitle: services.BundleTitle(p.Title, quote.LabelSuffix),
		Unpriced:    quote.Unpriced,
	}
}

// parseOptions reads the component checkboxes. Any non-empty value other
// than a false-ish one counts as selected.
func parseOptions(r *http.Request) services.Options {
	on := func(name string) bool {
		v := r.FormValue(name)
		if v == "" {
			return false
		}
		b, err := cast.ToBoolE(v)
		return err != nil || b
	}
	return services.Options{
		UI:            on(services.FileKindUI),
		Code:          on(services.FileKindCode),
		Documentation: on(services.FileKindDocumentation),
	}
}
