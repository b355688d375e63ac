package services

import "testing"

func TestGenerateCartQuotePDF(t *testing.T) {
	data := QuoteData{
		StoreName:   "ProjectMarket",
		Customer:    "buyer@example.com",
		GeneratedOn: "19 Oct 2026",
		Lines: []QuoteLine{
			{Title: "Shop (UI, Code)", UnitPrice: 70, Quantity: 2, LineTotal: 140},
			{Title: "Blog", UnitPrice: 12.5, Quantity: 1, LineTotal: 12.5},
		},
		Summary: CalcOrderSummary(152.5, 0.10),
	}

	result, err := GenerateCartQuotePDF(data)
	if err != nil {
		t.Fatalf("GenerateCartQuotePDF() error = %v", err)
	}
	if len(result) < 5 || string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with a PDF header")
	}
}

func TestGenerateCartQuotePDF_EmptyCart(t *testing.T) {
	result, err := GenerateCartQuotePDF(QuoteData{StoreName: "ProjectMarket"})
	if err != nil {
		t.Fatalf("GenerateCartQuotePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateCartQuotePDF() returned empty bytes")
	}
}
