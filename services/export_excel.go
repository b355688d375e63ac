package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateCatalogExcel creates the admin catalog spreadsheet and returns the
// file contents.
func GenerateCatalogExcel(data CatalogExport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Catalog"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K"}
	lastCol := columns[len(columns)-1]
	widths := []float64{40, 22, 20, 12, 12, 12, 14, 8, 8, 10, 14}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	rowStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create row style: %w", err)
	}

	title := data.Title
	if title == "" {
		title = "Project Catalog"
	}
	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)
	f.SetCellValue(sheetName, "A2", "Generated: "+data.GeneratedOn)

	headers := []string{"Title", "Category", "Author", "Base Price", "UI Price", "Code Price", "Docs Price", "Rating", "Sales", "Featured", "Added"}
	for i, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s4", columns[i]), h)
	}
	f.SetCellStyle(sheetName, "A4", lastCol+"4", headerStyle)

	row := 5
	for _, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "A"+rowStr, sanitizeExcelCell(r.Title))
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(r.Category))
		f.SetCellValue(sheetName, "C"+rowStr, sanitizeExcelCell(r.Author))
		f.SetCellValue(sheetName, "D"+rowStr, FormatUSD(r.Price))
		f.SetCellValue(sheetName, "E"+rowStr, optionalPriceCell(r.UIPrice))
		f.SetCellValue(sheetName, "F"+rowStr, optionalPriceCell(r.CodePrice))
		f.SetCellValue(sheetName, "G"+rowStr, optionalPriceCell(r.DocumentationPrice))
		f.SetCellValue(sheetName, "H"+rowStr, r.Rating)
		f.SetCellValue(sheetName, "I"+rowStr, r.Sales)
		featured := "No"
		if r.Featured {
			featured = "Yes"
		}
		f.SetCellValue(sheetName, "J"+rowStr, featured)
		f.SetCellValue(sheetName, "K"+rowStr, r.DateAdded)
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, rowStyle)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func optionalPriceCell(p float64) string {
	if p <= 0 {
		return "—"
	}
	return FormatUSD(p)
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
