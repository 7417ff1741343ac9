package convert

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// BoolPtr takes in boolean condition and returns pointer version of it
func BoolPtr(condition bool) *bool {
	b := condition
	return &b
}

// DecimalFromString parses a caller supplied price or amount
func DecimalFromString(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not convert value: %s Error: %w", raw, err)
	}
	return d, nil
}

// IntFromString format
func IntFromString(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("unable to parse as int: %s Error: %w", raw, err)
	}
	return n, nil
}
