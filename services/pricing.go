// Package services provides pricing, formatting and export functions for the
// storefront.
package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"projectmarket/cart"
)

// Display names of the optional components, in label order.
const (
	ComponentUI            = "UI"
	ComponentCode          = "Code"
	ComponentDocumentation = "Documentation"
)

// ComponentPrices is the pricing view of a project. A nil or non-positive
// component price means the component is not sold separately.
type ComponentPrices struct {
	Price              float64
	UIPrice            *float64
	CodePrice          *float64
	DocumentationPrice *float64
}

// Options is the buyer's component selection on a project page.
type Options struct {
	UI            bool
	Code          bool
	Documentation bool
}

// Any reports whether at least one component is selected.
func (o Options) Any() bool {
	return o.UI || o.Code || o.Documentation
}

// BundleQuote is the unit price of a selection and the names of the
// components that contributed to it.
type BundleQuote struct {
	Total       float64
	LabelSuffix []string
	// Unpriced is set when components were selected but none of them has a
	// price, leaving Total at zero.
	Unpriced bool
}

func priceOf(p *float64) (float64, bool) {
	if p == nil || *p <= 0 {
		return 0, false
	}
	return *p, true
}

// CalcBundlePrice sums the prices of the selected components in UI, Code,
// Documentation order. With nothing selected the base price applies.
func CalcBundlePrice(p ComponentPrices, sel Options) BundleQuote {
	components := []struct {
		name     string
		selected bool
		price    *float64
	}{
		{ComponentUI, sel.UI, p.UIPrice},
		{ComponentCode, sel.Code, p.CodePrice},
		{ComponentDocumentation, sel.Documentation, p.DocumentationPrice},
	}

	total := decimal.Zero
	suffix := []string{}
	for _, c := range components {
		if !c.selected {
			continue
		}
		if price, ok := priceOf(c.price); ok {
			total = total.Add(decimal.NewFromFloat(price))
			suffix = append(suffix, c.name)
		}
	}

	quote := BundleQuote{Total: total.InexactFloat64(), LabelSuffix: suffix}
	if total.IsZero() {
		if !sel.Any() {
			quote.Total = p.Price
		} else {
			quote.Unpriced = true
		}
	}
	return quote
}

// BundleItemID derives the cart line id for a bundle. Equal selections of the
// same project always map to the same id.
func BundleItemID(projectID string, suffix []string) string {
	if len(suffix) == 0 {
		return projectID
	}
	return projectID + "-" + strings.Join(suffix, "-")
}

// BundleTitle appends the component list to the project title.
func BundleTitle(title string, suffix []string) string {
	if len(suffix) == 0 {
		return title
	}
	return title + " (" + strings.Join(suffix, ", ") + ")"
}

// BundleCandidate builds the cart line for a quoted selection. image falls
// back to fallbackImage when empty.
func BundleCandidate(projectID, title, image, fallbackImage string, quote BundleQuote) cart.Candidate {
	if image == "" {
		image = fallbackImage
	}
	return cart.Candidate{
		ID:    BundleItemID(projectID, quote.LabelSuffix),
		Title: BundleTitle(title, quote.LabelSuffix),
		Price: quote.Total,
		Image: image,
	}
}

// Available reports which components the project sells separately.
func Available(p ComponentPrices) Options {
	_, ui := priceOf(p.UIPrice)
	_, code := priceOf(p.CodePrice)
	_, docs := priceOf(p.DocumentationPrice)
	return Options{UI: ui, Code: code, Documentation: docs}
}
