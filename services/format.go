package services

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatUSD formats an amount as US dollars with thousands separators and
// exactly 2 decimal places, e.g. $1,234.50 or -$3.00.
func FormatUSD(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(raw, ".", 2)

	var whole int64
	fmt.Sscan(parts[0], &whole)

	result := "$" + humanize.Comma(whole) + "." + parts[1]
	if negative && raw != "0.00" {
		result = "-" + result
	}
	return result
}

// HumanSize renders a byte count for file listings, e.g. "2.1 MB".
func HumanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
