// Package cart holds the session cart: its line items, derived totals and
// the storage the list is persisted to after every change.
package cart

// StorageKey is the key the serialized item list lives under.
const StorageKey = "cart"

// CartItem is one line in the cart. Price is the unit price locked in when
// the line was first added.
type CartItem struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// Candidate is what callers hand to AddItem: a line without a quantity.
type Candidate struct {
	ID    string
	Title string
	Price float64
	Image string
}
