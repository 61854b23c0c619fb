package pos

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrency is the unit every terminal session prices in. The
// currency package has no named constant for it, so parse the ISO code.
var DefaultCurrency = currency.MustParseISO("PHP")

// FormatAmount renders an amount for display, e.g. "PHP 270.00".
func FormatAmount(unit currency.Unit, amount decimal.Decimal) string {
	return fmt.Sprintf("%v %s", unit, amount.StringFixed(2))
}
