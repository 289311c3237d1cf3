package services

import (
	"fmt"
	"math"
	"strings"
)

// EvaluateCoupon returns the discount a coupon code takes off the items
// price. SAVE10 gives 10% off, rounded to the nearest unit. An empty
// code means no discount; any other code is rejected.
func EvaluateCoupon(code string, itemsPrice float64) (float64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return 0, nil
	}
	if code == "SAVE10" {
		return math.Round(itemsPrice * 0.1), nil
	}
	return 0, fmt.Errorf("invalid coupon code: %w", ErrValidation)
}
