package pipeline

import (
	"github.com/shopspring/decimal"

	"bitbucket.org/lrdatalab/ingresos_backend/config"
	"bitbucket.org/lrdatalab/ingresos_backend/models"
)

// PriceBasis selects the divisor for the derived price-per-area metric.
// Office products price by floor area, share products ("accion" lots) by the
// number of shares purchased, and flat products per unit.
type PriceBasis string

const (
	PriceBasisArea   PriceBasis = "area"
	PriceBasisShares PriceBasis = "shares"
	PriceBasisUnit   PriceBasis = "unit"
)

// AreaPriceTable dispatches a development label to its price basis. The
// label set is closed and configured per deployment; tenant-specific pricing
// quirks live here, not in the adapters.
type AreaPriceTable map[string]PriceBasis

func NewAreaPriceTable(rules []config.AreaPriceRuleSetting) AreaPriceTable {
	t := make(AreaPriceTable, len(rules))
	for _, r := range rules {
		t[r.Development] = PriceBasis(r.Basis)
	}
	return t
}

// Compute derives the per-area price for one sale. Safe-divide policy:
// an unrecognized label, a zero area or a zero share count all yield exactly
// zero. Division failures are swallowed into the default, never propagated.
func (t AreaPriceTable) Compute(developmentLabel string, sale models.Sale, unit models.Unit) decimal.Decimal {
	basis, ok := t[developmentLabel]
	if !ok {
		return decimal.Zero
	}

	var divisor decimal.Decimal
	switch basis {
	case PriceBasisArea:
		divisor = unit.AreaM2
	case PriceBasisShares:
		divisor = decimal.NewFromInt(int64(sale.Shares))
	case PriceBasisUnit:
		divisor = decimal.NewFromInt(1)
	default:
		return decimal.Zero
	}

	if divisor.IsZero() {
		return decimal.Zero
	}
	return sale.Price.DivRound(divisor, 2)
}
