package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"projectmarket/cart"
	"projectmarket/config"
	"projectmarket/services"
	"projectmarket/templates"
)

// HandleCartView returns a handler that renders the session cart.
func HandleCartView(carts *cart.Provider, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		items := carts.Snapshot(GetSession(e.Request))
		return render(e, "Cart", templates.CartContent(cartData(items, cfg)))
	}
}

// cartMutation runs fn against the session cart and answers with the updated
// cart fragment (HTMX) or a redirect back to the cart page.
func cartMutation(e *core.RequestEvent, carts *cart.Provider, cfg config.Config, fn func(*cart.Store)) error {
	var items []cart.CartItem
	_ = carts.With(GetSession(e.Request), ToastNotifier(e), func(s *cart.Store) error {
		fn(s)
		items = s.Items()
		return nil
	})

	if !isPartial(e.Request) {
		return e.Redirect(http.StatusSeeOther, "/cart")
	}
	if err := templates.CartContent(cartData(items, cfg)).Render(e.Request.Context(), e.Response); err != nil {
		return err
	}
	return templates.CartBadge(cart.Count(items)).Render(e.Request.Context(), e.Response)
}

// HandleCartUpdateQuantity returns a handler that sets a line's quantity.
// Quantities below one are ignored by the cart.
func HandleCartUpdateQuantity(carts *cart.Provider, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		quantity, err := cast.ToIntE(e.Request.FormValue("quantity"))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Quantity must be a whole number")
		}
		return cartMutation(e, carts, cfg, func(s *cart.Store) {
			s.UpdateQuantity(id, quantity)
		})
	}
}

// HandleCartRemove returns a handler that removes a line.
func HandleCartRemove(carts *cart.Provider, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		return cartMutation(e, carts, cfg, func(s *cart.Store) {
			s.RemoveItem(id)
		})
	}
}

// HandleCartClear returns a handler that empties the cart.
func HandleCartClear(carts *cart.Provider, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return cartMutation(e, carts, cfg, func(s *cart.Store) {
			s.Clear()
		})
	}
}

// HandleCartQuotePDF returns a handler that downloads a printable review of
// the cart.
func HandleCartQuotePDF(carts *cart.Provider, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		items := carts.Snapshot(GetSession(e.Request))
		if len(items) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "Your cart is empty")
		}

		data := quoteData(items, cfg, time.Now())
		if e.Auth != nil {
			data.Customer = e.Auth.Email()
		}

		pdfBytes, err := services.GenerateCartQuotePDF(data)
		if err != nil {
			log.Printf("cart_quote: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Quote_%s.pdf", time.Now().Format("20060102"))
		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

func quoteData(items []cart.CartItem, cfg config.Config, now time.Time) services.QuoteData {
	lines := make([]services.QuoteLine, 0, len(items))
	for _, it := range items {
		total := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		lines = append(lines, services.QuoteLine{
			Title:     it.Title,
			UnitPrice: it.Price,
			Quantity:  it.Quantity,
			LineTotal: total.InexactFloat64(),
		})
	}
	return services.QuoteData{
		StoreName:   cfg.AppName,
		Customer:    "Guest",
		GeneratedOn: now.Format("02 Jan 2006"),
		Lines:       lines,
		Summary:     services.CalcOrderSummary(cart.Total(items), cfg.TaxRate),
	}
}
