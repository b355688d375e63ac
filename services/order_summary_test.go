package services

import "testing"

func TestCalcOrderSummary(t *testing.T) {
	tests := []struct {
		name      string
		subtotal  float64
		rate      float64
		wantTax   float64
		wantTotal float64
	}{
		{"empty cart", 0, 0.10, 0, 0},
		{"ten percent", 200, 0.10, 20, 220},
		{"rounds tax to cents", 199.99, 0.10, 20, 219.99},
		{"no tax", 50, 0, 0, 50},
		{"fractional rate", 100, 0.0825, 8.25, 108.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalcOrderSummary(tt.subtotal, tt.rate)
			if got.Tax != tt.wantTax {
				t.Errorf("Tax = %v, want %v", got.Tax, tt.wantTax)
			}
			if got.Total != tt.wantTotal {
				t.Errorf("Total = %v, want %v", got.Total, tt.wantTotal)
			}
			if got.TaxRate != tt.rate {
				t.Errorf("TaxRate = %v, want %v", got.TaxRate, tt.rate)
			}
		})
	}
}
