package pos

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AddonKind is one of the closed set of paid per-unit drink customizations.
type AddonKind string

const (
	AddonEspressoShots AddonKind = "espressoShots"
	AddonSeaSaltCream  AddonKind = "seaSaltCream"
	AddonSyrupSauces   AddonKind = "syrupSauces"
)

// AddonKinds lists every known kind in display order.
var AddonKinds = []AddonKind{AddonEspressoShots, AddonSeaSaltCream, AddonSyrupSauces}

// Per-unit prices in PHP. These are the server-side authority values; the
// UI receives them from here instead of carrying its own copy.
var addonPrices = map[AddonKind]decimal.Decimal{
	AddonEspressoShots: decimal.NewFromInt(25),
	AddonSeaSaltCream:  decimal.NewFromInt(30),
	AddonSyrupSauces:   decimal.NewFromInt(20),
}

// AddonUnitPrice returns the per-unit price for kind. Kinds outside the
// closed set are an error, never a silent zero.
func AddonUnitPrice(kind AddonKind) (decimal.Decimal, error) {
	p, ok := addonPrices[kind]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrUnknownAddonKind, kind)
	}
	return p, nil
}

// AddonPrices returns a copy of the full price table.
func AddonPrices() map[AddonKind]decimal.Decimal {
	out := make(map[AddonKind]decimal.Decimal, len(addonPrices))
	for k, v := range addonPrices {
		out[k] = v
	}
	return out
}

// AddonConfig maps addon kinds to quantities. All quantities are >= 0.
// A config whose quantities are all zero means "no add-ons" and compares
// equal to a nil config.
type AddonConfig map[AddonKind]int

// Validate rejects kinds outside the closed set and negative quantities.
func (c AddonConfig) Validate() error {
	for kind, qty := range c {
		if _, ok := addonPrices[kind]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownAddonKind, kind)
		}
		if qty < 0 {
			return fmt.Errorf("addon %s: quantity %d must be >= 0", kind, qty)
		}
	}
	return nil
}

// IsZero reports whether the config carries no add-ons at all.
func (c AddonConfig) IsZero() bool {
	for _, qty := range c {
		if qty != 0 {
			return false
		}
	}
	return true
}

// Equal compares two configs kind by kind. Missing keys count as zero, so
// nil, empty and all-zero configs are all equal.
func (c AddonConfig) Equal(o AddonConfig) bool {
	for _, kind := range AddonKinds {
		if c[kind] != o[kind] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy with every kind present, absent keys
// filled with zero.
func (c AddonConfig) Clone() AddonConfig {
	out := make(AddonConfig, len(AddonKinds))
	for _, kind := range AddonKinds {
		out[kind] = c[kind]
	}
	return out
}
