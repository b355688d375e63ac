package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"projectmarket/catalog"
	"projectmarket/config"
	"projectmarket/services"
)

func priceOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func buildCatalogExport(projects []catalog.Project, cfg config.Config, now time.Time) services.CatalogExport {
	rows := make([]services.CatalogRow, 0, len(projects))
	for _, p := range projects {
		row := services.CatalogRow{
			Title:              p.Title,
			Category:           p.Category,
			Author:             p.Author,
			Price:              p.Price,
			UIPrice:            priceOrZero(p.UIPrice),
			CodePrice:          priceOrZero(p.CodePrice),
			DocumentationPrice: priceOrZero(p.DocumentationPrice),
			Rating:             p.Rating,
			Sales:              p.Sales,
			Featured:           p.IsFeatured,
		}
		if !p.DateAdded.IsZero() {
			row.DateAdded = p.DateAdded.Format("2006-01-02")
		}
		rows = append(rows, row)
	}
	return services.CatalogExport{
		Title:       cfg.AppName + " Catalog",
		GeneratedOn: now.Format("02 Jan 2006"),
		Rows:        rows,
	}
}

// HandleCatalogExportExcel returns a handler that downloads the catalog as an Excel file.
func HandleCatalogExportExcel(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projects, err := catalog.List(app)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return e.String(http.StatusInternalServerError, "Could not load the catalog")
		}

		now := time.Now()
		xlsxBytes, err := services.GenerateCatalogExcel(buildCatalogExport(projects, cfg, now))
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Catalog_%s.xlsx", now.Format("20060102"))

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
