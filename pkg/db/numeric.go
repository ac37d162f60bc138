package db

import "github.com/shopspring/decimal"

// FitsNumeric reports whether d can be stored in a numeric(precision, scale)
// column without rounding or overflow.
func FitsNumeric(d decimal.Decimal, precision, scale int32) bool {
	if !d.Equal(d.Truncate(scale)) {
		return false
	}
	limit := decimal.New(1, precision-scale)
	return d.Abs().LessThan(limit)
}
