package finance

import "github.com/shopspring/decimal"

// =============================================================================
// MONEY HELPERS - decimal.Decimal end to end, rounding deferred to display
// =============================================================================

// MustDecimal parses a decimal literal; panics on bad input. For fixtures and
// static configuration only.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Round2 rounds to two decimal places for presentation. Apportionment carries
// full precision internally; only displayed figures pass through here.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
