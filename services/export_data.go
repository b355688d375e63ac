package services

// CatalogRow is one project in the admin catalog export.
type CatalogRow struct {
	Title              string
	Category           string
	Author             string
	Price              float64
	UIPrice            float64 // 0 = not sold separately
	CodePrice          float64
	DocumentationPrice float64
	Rating             float64
	Sales              int
	Featured           bool
	DateAdded          string
}

// CatalogExport holds everything needed for the catalog spreadsheet.
type CatalogExport struct {
	Title       string
	GeneratedOn string
	Rows        []CatalogRow
}

// QuoteLine is a cart line in the printable quote.
type QuoteLine struct {
	Title     string
	UnitPrice float64
	Quantity  int
	LineTotal float64
}

// QuoteData holds everything needed for the cart quote PDF.
type QuoteData struct {
	StoreName   string
	Customer    string
	GeneratedOn string
	Lines       []QuoteLine
	Summary     OrderSummary
}
