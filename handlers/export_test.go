package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"projectmarket/catalog"
	"projectmarket/testhelpers"
)

func TestBuildCatalogExport(t *testing.T) {
	ui := 40.0
	projects := []catalog.Project{
		{
			Title:      "Attendance System",
			Category:   "AI & Machine Learning",
			Author:     "Alex",
			Price:      199.99,
			UIPrice:    &ui,
			Rating:     4.8,
			Sales:      74,
			IsFeatured: true,
			DateAdded:  time.Date(2023, 10, 15, 9, 0, 0, 0, time.UTC),
		},
		{Title: "No Date", Price: 10},
	}

	got := buildCatalogExport(projects, testConfig(), time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))

	if got.Title != "ProjectMarket Catalog" || got.GeneratedOn != "19 Oct 2026" {
		t.Errorf("header = %q / %q", got.Title, got.GeneratedOn)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(got.Rows))
	}
	first := got.Rows[0]
	if first.UIPrice != 40 || first.CodePrice != 0 || first.DateAdded != "2023-10-15" || !first.Featured {
		t.Errorf("first row = %+v", first)
	}
	if got.Rows[1].DateAdded != "" {
		t.Errorf("zero date should stay blank, got %q", got.Rows[1].DateAdded)
	}
}

func TestHandleCatalogExportExcel(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProject(t, app, "Spreadsheet Project", testhelpers.ProjectOpts{CodePrice: 60})

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, httptest.NewRequest(http.MethodGet, "/admin/projects/export", nil), rec)

	if err := HandleCatalogExportExcel(app, testConfig())(e); err != nil {
		t.Fatal(err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !bytes.Contains([]byte(cd), []byte("Catalog_")) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Catalog", "A5"); got != "Spreadsheet Project" {
		t.Errorf("A5 = %q", got)
	}
}
