// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// AtoiRange parses an optional integer parameter. An empty (or blank) s
// returns def. Otherwise s must be an integer within [lo, hi].
//
// Example:
//
//	n, _ := utils.AtoiRange("30", 0, 0, 366)  // 30
//	n, _ = utils.AtoiRange("", 7, 0, 366)     // 7
//	_, err := utils.AtoiRange("x", 7, 0, 366) // err: not an integer
func AtoiRange(s string, def, lo, hi int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%d is outside [%d, %d]", n, lo, hi)
	}
	return n, nil
}
