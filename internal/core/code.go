package core

import (
	"fmt"
	"regexp"
)

// codeSuffix matches the trailing numeric run of a product code.
var codeSuffix = regexp.MustCompile(`\d+$`)

// NextProductCode produces the next sequential code for a category:
// prefix + (max trailing number among existing codes + 1), zero-padded
// to 7 digits. Codes without a numeric suffix are ignored. The caller
// must run this inside the same transaction as the insert; the unique
// index on product codes is the final guard against duplicates.
func NextProductCode(prefix string, existing []string) string {
	var max int64
	for _, code := range existing {
		m := codeSuffix.FindString(code)
		if m == "" {
			continue
		}
		var n int64
		if _, err := fmt.Sscanf(m, "%d", &n); err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%07d", prefix, max+1)
}
