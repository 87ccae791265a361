package utils

import "strings"

// CanonicalLot normalizes a parking lot name to its configured casing,
// e.g. "lombardi" -> "Lombardi". Unknown lots pass through trimmed so
// they can still be stored and reported; only configured lots carry a
// capacity in the stats.
func CanonicalLot(name string, configured map[string]int) string {
	trimmed := strings.TrimSpace(name)
	for lot := range configured {
		if strings.EqualFold(lot, trimmed) {
			return lot
		}
	}
	return trimmed
}

// IsConfiguredLot reports whether a lot has a configured capacity.
func IsConfiguredLot(name string, configured map[string]int) bool {
	for lot := range configured {
		if strings.EqualFold(lot, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}
