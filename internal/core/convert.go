package core

// convert.go provides the money, quantity and date codecs shared by import,
// interactive entry, display and export.
//
// Prices are always held as an int64 count of cents. Text input must already
// be at the two-decimal scale ("12.50", "$7"); float input from the operator
// is rounded half-to-even on its shortest decimal representation, so 12.555
// becomes 1256 and 12.545 becomes 1254 regardless of binary representation.

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// PriceScale is the number of fractional digits of the currency.
const PriceScale = 2

// Currency is the ISO code used for operator display.
const Currency = money.USD

// DateLayout is the layout of date_updated in seed files (MM/DD/YYYY).
// Single-digit months and days are accepted.
const DateLayout = "1/2/2006"

// TimestampLayout renders timestamps for display and backup files.
const TimestampLayout = "2006-01-02 15:04:05"

// maxPriceMajor bounds float input so the minor-unit value fits in int64.
var maxPriceMajor = decimal.New(math.MaxInt64, -PriceScale)

// ParsePrice converts seed-file price text into cents.
// Accepts an optional leading "$" and at most one "." followed by exactly
// two digits: "12.50" → 1250, "$7" → 700.
func ParsePrice(s string) (int64, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")

	whole, frac, hasPoint := strings.Cut(s, ".")
	if !isDigits(whole) {
		return 0, &FormatError{Field: "product_price", Value: raw, Reason: "invalid price"}
	}
	if hasPoint {
		if len(frac) != PriceScale || !isDigits(frac) {
			return 0, &FormatError{Field: "product_price", Value: raw, Reason: "invalid price"}
		}
	} else {
		frac = strings.Repeat("0", PriceScale)
	}

	cents, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, &FormatError{Field: "product_price", Value: raw, Reason: "invalid price: out of range"}
	}
	return cents, nil
}

// PriceFromFloat converts an amount in major units into cents, rounding
// half-to-even at two decimal places.
func PriceFromFloat(amount float64) (int64, error) {
	raw := strconv.FormatFloat(amount, 'g', -1, 64)
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, &FormatError{Field: "product_price", Value: raw, Reason: "invalid price"}
	}
	if amount < 0 {
		return 0, &FormatError{Field: "product_price", Value: raw, Reason: "invalid price: must be non-negative"}
	}

	d := decimal.NewFromFloat(amount).RoundBank(PriceScale)
	if d.GreaterThan(maxPriceMajor) {
		return 0, &FormatError{Field: "product_price", Value: raw, Reason: "invalid price: out of range"}
	}
	return d.Shift(PriceScale).IntPart(), nil
}

// FormatPrice renders cents as a major-unit amount with two fractional
// digits and no currency symbol: 1250 → "12.50".
func FormatPrice(cents int64) string {
	return decimal.New(cents, -PriceScale).StringFixed(PriceScale)
}

// DisplayPrice renders cents for the operator with the currency symbol.
func DisplayPrice(cents int64) string {
	return money.New(cents, Currency).Display()
}

// ParseQuantity converts quantity text into a non-negative count.
func ParseQuantity(s string) (int64, error) {
	raw := s
	s = strings.TrimSpace(s)
	if !isDigits(s) {
		return 0, &FormatError{Field: "product_quantity", Value: raw, Reason: "invalid quantity"}
	}
	q, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &FormatError{Field: "product_quantity", Value: raw, Reason: "invalid quantity: out of range"}
	}
	return q, nil
}

// ParseDate converts seed-file date text (MM/DD/YYYY) into local midnight
// of that calendar day, returned in UTC. FormatTimestamp renders it back on
// the same date.
func ParseDate(s string) (time.Time, error) {
	raw := s
	s = strings.TrimSpace(s)
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, &FormatError{Field: "date_updated", Value: raw, Reason: "invalid date"}
	}
	return t.UTC(), nil
}

// FormatTimestamp renders t in local time for display and export.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// Now returns the current time truncated to whole seconds, in UTC.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
