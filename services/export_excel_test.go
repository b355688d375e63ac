package services

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestGenerateCatalogExcel(t *testing.T) {
	data := CatalogExport{
		Title:       "ProjectMarket Catalog",
		GeneratedOn: "19 Oct 2026",
		Rows: []CatalogRow{
			{Title: "Attendance System", Category: "AI & Machine Learning", Author: "Alex", Price: 199.99, UIPrice: 49, Rating: 4.8, Sales: 74, Featured: true, DateAdded: "2023-10-15"},
			{Title: "=HYPERLINK(\"x\")", Category: "Web Development", Author: "Sam", Price: 10},
		},
	}

	result, err := GenerateCatalogExcel(data)
	if err != nil {
		t.Fatalf("GenerateCatalogExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 || sheets[0] != "Catalog" {
		t.Fatalf("expected sheet Catalog, got %v", sheets)
	}

	cells := map[string]string{
		"A1": "ProjectMarket Catalog",
		"A4": "Title",
		"A5": "Attendance System",
		"D5": "$199.99",
		"E5": "$49.00",
		"F5": "—",
		"J5": "Yes",
		"A6": "'=HYPERLINK(\"x\")",
		"J6": "No",
	}
	for cell, want := range cells {
		got, _ := f.GetCellValue("Catalog", cell)
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}

func TestGenerateCatalogExcel_Empty(t *testing.T) {
	result, err := GenerateCatalogExcel(CatalogExport{})
	if err != nil {
		t.Fatalf("GenerateCatalogExcel() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()
	if title, _ := f.GetCellValue("Catalog", "A1"); title != "Project Catalog" {
		t.Errorf("expected default title, got %q", title)
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"plain", "plain"},
		{"=1+1", "'=1+1"},
		{"+x", "'+x"},
		{"-x", "'-x"},
		{"@x", "'@x"},
	}
	for _, tt := range tests {
		if got := sanitizeExcelCell(tt.in); got != tt.want {
			t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
