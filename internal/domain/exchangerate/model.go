package exchangerate

import (
	"time"

	"github.com/merchantkit/pricing/internal/types"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a directed conversion edge. Rates are supplied by
// configuration, not fetched; the engine only looks them up. Edges are not
// guaranteed symmetric -- the converter falls back to the reciprocal of the
// inverse edge only when the direct edge is absent.
type ExchangeRate struct {
	ID            string          `json:"id"`
	FromCurrency  string          `json:"from_currency"`
	ToCurrency    string          `json:"to_currency"`
	Rate          decimal.Decimal `json:"rate"`
	MarkupPercent decimal.Decimal `json:"markup_percent"`
	EffectiveFrom *time.Time      `json:"effective_from"`
	EffectiveTo   *time.Time      `json:"effective_to"`
	Status        types.Status    `json:"status"`
}

// IsActive reports whether the edge participates in conversion
func (r *ExchangeRate) IsActive() bool {
	return r.Status == types.StatusActive
}

// IsEffective reports whether now falls inside the edge's effective window
func (r *ExchangeRate) IsEffective(now time.Time) bool {
	if r.EffectiveFrom != nil && r.EffectiveFrom.After(now) {
		return false
	}
	if r.EffectiveTo != nil && r.EffectiveTo.Before(now) {
		return false
	}
	return true
}

// EffectiveRate returns the configured rate with markup applied:
// rate * (1 + markupPercent/100)
func (r *ExchangeRate) EffectiveRate() decimal.Decimal {
	markup := decimal.NewFromInt(1).Add(r.MarkupPercent.Div(decimal.NewFromInt(100)))
	return r.Rate.Mul(markup)
}
