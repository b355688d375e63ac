package services

import "testing"

func TestFormatUSD_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "$0.00"},
		{"small integer", 5, "$5.00"},
		{"with decimals", 42.50, "$42.50"},
		{"hundreds", 999.99, "$999.99"},
		{"thousands", 1234.56, "$1,234.56"},
		{"millions", 1234567.89, "$1,234,567.89"},
		{"exact thousand", 1000, "$1,000.00"},
		{"rounds half cent", 19.999, "$20.00"},
		{"negative", -100, "-$100.00"},
		{"negative thousands", -2500.5, "-$2,500.50"},
		{"negative rounding to zero", -0.001, "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatUSD(tt.input)
			if got != tt.expect {
				t.Errorf("FormatUSD(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		input  int64
		expect string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 kB"},
		{5 * 1000 * 1000, "5.0 MB"},
		{-3, "0 B"},
	}
	for _, tt := range tests {
		if got := HumanSize(tt.input); got != tt.expect {
			t.Errorf("HumanSize(%d) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}
