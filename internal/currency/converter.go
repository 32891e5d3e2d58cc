package currency

import (
	"sort"
	"strings"

	errors "github.com/adeharia/finance-tracker/internal"

	"github.com/shopspring/decimal"
)

// exchangeRates maps currency codes to their USD-based rate. Static for now;
// swapping in a live rate source only needs to replace this table.
var exchangeRates = map[string]decimal.Decimal{
	"USD": decimal.NewFromInt(1),
	"EUR": decimal.NewFromFloat(0.85),
	"GBP": decimal.NewFromFloat(0.73),
	"JPY": decimal.NewFromFloat(110.0),
	"CAD": decimal.NewFromFloat(1.25),
	"AUD": decimal.NewFromFloat(1.35),
	"CHF": decimal.NewFromFloat(0.92),
	"CNY": decimal.NewFromFloat(6.45),
	"INR": decimal.NewFromFloat(74.0),
}

// Convert translates an amount between two currencies via the USD base rate,
// rounded to 2 decimal places. Same-currency conversions return the amount
// unchanged and unrounded.
func Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	if from == to {
		return amount, nil
	}
	if amount.IsNegative() {
		return decimal.Zero, errors.NewValidationError("amount must not be negative", errors.ErrCodeInvalidAmount)
	}

	fromRate, ok := exchangeRates[from]
	if !ok {
		return decimal.Zero, unsupported(from)
	}
	toRate, ok := exchangeRates[to]
	if !ok {
		return decimal.Zero, unsupported(to)
	}

	usd := amount.Div(fromRate)
	return usd.Mul(toRate).Round(2), nil
}

// GetRate returns the exchange rate from one currency to another.
func GetRate(from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	if from == to {
		return decimal.NewFromInt(1), nil
	}

	fromRate, ok := exchangeRates[from]
	if !ok {
		return decimal.Zero, unsupported(from)
	}
	toRate, ok := exchangeRates[to]
	if !ok {
		return decimal.Zero, unsupported(to)
	}

	return toRate.Div(fromRate), nil
}

// IsSupported reports whether a currency code has a known rate.
func IsSupported(code string) bool {
	_, ok := exchangeRates[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Supported lists the known currency codes, sorted.
func Supported() []string {
	codes := make([]string, 0, len(exchangeRates))
	for code := range exchangeRates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func unsupported(code string) *errors.AppError {
	return errors.NewValidationError("unsupported currency: "+code, errors.ErrCodeInvalidCurrency)
}
