package utils

import (
	"strconv"
	"strings"
)

// FormatGuaranies renders an amount in guaraníes with dot thousands
// separators and the Gs. prefix, e.g. 1250000 -> "Gs. 1.250.000".
// Used in notification messages shown to guardians.
func FormatGuaranies(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	out := "Gs. " + b.String()
	if negative {
		out = "Gs. -" + b.String()
	}
	return out
}
