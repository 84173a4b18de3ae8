// Package money coerces loosely typed stored amounts into numbers and
// computes payout splits.
package money

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"

	"github.com/shopspring/decimal"
)

var (
	// everything except digits, dot and minus is formatting noise ("1 234 FCFA", "$12,50").
	noise = regexp.MustCompile(`[^0-9.\-]+`)
	// longest numeric prefix of the cleaned string, "12.5.3" reads as 12.5.
	numericPrefix = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)`)
)

// Parse returns the numeric value of v, or 0 when v is absent or unparseable.
// Commas are stripped as noise, they are never a decimal separator.
func Parse(v any) float64 {
	return Decimal(v).InexactFloat64()
}

// Decimal is Parse with exact decimal output.
func Decimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(x)
	case float32:
		return Decimal(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case json.Number:
		return fromString(string(x))
	case string:
		return fromString(x)
	case *string:
		if x == nil {
			return decimal.Zero
		}
		return fromString(*x)
	default:
		return fromString(fmt.Sprint(x))
	}
}

func fromString(s string) decimal.Decimal {
	cleaned := noise.ReplaceAllString(s, "")
	prefix := numericPrefix.FindString(cleaned)
	if prefix == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Split is a payout divided between the driver and the platform.
type Split struct {
	Driver   decimal.Decimal
	Platform decimal.Decimal
}

// SplitPayout rounds the driver share to a whole unit and gives the platform
// the exact remainder, so Driver+Platform always equals price.
func SplitPayout(price, driverRate decimal.Decimal) Split {
	driver := price.Mul(driverRate).Round(0)
	return Split{
		Driver:   driver,
		Platform: price.Sub(driver),
	}
}
