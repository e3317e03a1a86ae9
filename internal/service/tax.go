package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/merchantkit/pricing/internal/cache"
	"github.com/merchantkit/pricing/internal/domain/cart"
	"github.com/merchantkit/pricing/internal/domain/taxrate"
	"github.com/merchantkit/pricing/internal/domain/zone"
	"github.com/merchantkit/pricing/internal/types"

	"github.com/shopspring/decimal"
)

// TaxResult is the computed tax total with its invoice breakdown
type TaxResult struct {
	Total     decimal.Decimal
	Breakdown []cart.TaxLine
}

type TaxService interface {
	// Compute taxes every line on its discounted base. lineBases maps line id
	// to (line total - allocated discount); shippingAmount is taxed by rates
	// flagged TaxShipping, which is why shipping must be computed before the
	// final tax summation. A nil taxZone yields a zero result.
	Compute(ctx context.Context, pctx cart.PricingContext, taxZone *zone.Zone, lineBases map[string]decimal.Decimal, shippingAmount decimal.Decimal) (*TaxResult, error)
}

type taxService struct {
	ServiceParams
}

// NewTaxService creates a new instance of TaxService
func NewTaxService(params ServiceParams) TaxService {
	return &taxService{
		ServiceParams: params,
	}
}

// breakdownKey aggregates rows per (rate, GST component) across lines
type breakdownKey struct {
	rateID    string
	component types.GSTComponent
}

type taxAccumulator struct {
	total decimal.Decimal
	order []breakdownKey
	rows  map[breakdownKey]*cart.TaxLine
}

func newTaxAccumulator() *taxAccumulator {
	return &taxAccumulator{
		total: decimal.Zero,
		rows:  map[breakdownKey]*cart.TaxLine{},
	}
}

func (a *taxAccumulator) add(rate *taxrate.TaxRate, component types.GSTComponent, displayedRate, taxable, amount decimal.Decimal) {
	key := breakdownKey{rateID: rate.ID, component: component}
	row, ok := a.rows[key]
	if !ok {
		row = &cart.TaxLine{
			TaxRateID:     rate.ID,
			Name:          rate.Name,
			Jurisdiction:  rate.Jurisdiction,
			Component:     component,
			Rate:          displayedRate,
			TaxableAmount: decimal.Zero,
			Amount:        decimal.Zero,
		}
		a.rows[key] = row
		a.order = append(a.order, key)
	}
	row.TaxableAmount = row.TaxableAmount.Add(taxable)
	row.Amount = row.Amount.Add(amount)
	a.total = a.total.Add(amount)
}

func (a *taxAccumulator) result() *TaxResult {
	breakdown := make([]cart.TaxLine, 0, len(a.order))
	for _, key := range a.order {
		breakdown = append(breakdown, *a.rows[key])
	}
	return &TaxResult{
		Total:     a.total,
		Breakdown: breakdown,
	}
}

func (s *taxService) Compute(ctx context.Context, pctx cart.PricingContext, taxZone *zone.Zone, lineBases map[string]decimal.Decimal, shippingAmount decimal.Decimal) (*TaxResult, error) {
	acc := newTaxAccumulator()
	if taxZone == nil {
		return acc.result(), nil
	}

	intraState := s.isIntraState(pctx.ShippingAddress)
	shippingTaxedBy := map[string]bool{}

	for _, line := range pctx.Lines {
		categoryID := line.TaxCategoryID
		if categoryID == "" {
			categoryID = s.Config.Store.DefaultTaxCategoryID
		}
		if categoryID == "" {
			continue
		}

		category, err := s.getCategory(ctx, categoryID)
		if err != nil {
			s.Logger.Errorw("failed to get tax category",
				"error", err,
				"tax_category_id", categoryID,
				"line_id", line.ID,
			)
			return nil, err
		}
		if !category.IsActive() || category.IsTaxExempt {
			continue
		}

		rates, err := s.effectiveRates(ctx, taxZone.ID, categoryID, pctx)
		if err != nil {
			return nil, err
		}

		base, ok := lineBases[line.ID]
		if !ok {
			base = line.Total()
		}
		if base.IsNegative() {
			base = decimal.Zero
		}

		taxSoFar := decimal.Zero
		for _, rate := range rates {
			taxable := base
			if rate.IsCompound {
				taxable = base.Add(taxSoFar)
			}

			amount := s.rateAmount(rate, taxable)
			amount = rate.ClampTax(amount)
			s.record(acc, rate, intraState, taxable, amount)
			taxSoFar = taxSoFar.Add(amount)

			// Shipping is order-level: each rate taxes it at most once
			if rate.TaxShipping && shippingAmount.IsPositive() && !shippingTaxedBy[rate.ID] {
				shippingTaxedBy[rate.ID] = true
				shippingTax := rate.ClampTax(s.rateAmount(rate, shippingAmount))
				s.record(acc, rate, intraState, shippingAmount, shippingTax)
			}
		}
	}

	return acc.result(), nil
}

// effectiveRates loads, filters and orders the rate set for a zone+category
func (s *taxService) effectiveRates(ctx context.Context, zoneID, categoryID string, pctx cart.PricingContext) ([]*taxrate.TaxRate, error) {
	rates, err := s.TaxRepo.ListRates(ctx, zoneID, categoryID)
	if err != nil {
		s.Logger.Errorw("failed to list tax rates",
			"error", err,
			"zone_id", zoneID,
			"tax_category_id", categoryID,
		)
		return nil, err
	}

	filtered := make([]*taxrate.TaxRate, 0, len(rates))
	for _, rate := range rates {
		if rate.IsActive() && rate.IsEffective(pctx.Now) {
			filtered = append(filtered, rate)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Priority != filtered[j].Priority {
			return filtered[i].Priority < filtered[j].Priority
		}
		return filtered[i].ID < filtered[j].ID
	})
	return filtered, nil
}

func (s *taxService) rateAmount(rate *taxrate.TaxRate, taxable decimal.Decimal) decimal.Decimal {
	switch rate.RateType {
	case types.TaxRateTypePercentage:
		return taxable.Mul(rate.Percentage).Div(decimal.NewFromInt(100))
	case types.TaxRateTypeFixed:
		return rate.FixedValue
	default:
		return decimal.Zero
	}
}

// record writes breakdown rows, splitting GST-treated rates by jurisdiction.
// The clamped full amount is split in half for CGST+SGST so the invariant
// CGST+SGST == IGST holds exactly for the same jurisdiction pair.
func (s *taxService) record(acc *taxAccumulator, rate *taxrate.TaxRate, intraState bool, taxable, amount decimal.Decimal) {
	if rate.GSTTreatment != types.GSTTreatmentGST || rate.RateType != types.TaxRateTypePercentage {
		acc.add(rate, "", rate.Percentage, taxable, amount)
		return
	}

	if intraState {
		half := amount.Div(decimal.NewFromInt(2))
		halfRate := rate.Percentage.Div(decimal.NewFromInt(2))
		acc.add(rate, types.GSTComponentCGST, halfRate, taxable, half)
		acc.add(rate, types.GSTComponentSGST, halfRate, taxable, amount.Sub(half))
		return
	}
	acc.add(rate, types.GSTComponentIGST, rate.Percentage, taxable, amount)
}

// isIntraState compares the ship-to state with the store's registered state
func (s *taxService) isIntraState(address types.Address) bool {
	if s.Config.Store.HomeState == "" {
		return false
	}
	return strings.EqualFold(address.NormalizedCountry(), s.Config.Store.HomeCountry) &&
		strings.EqualFold(address.NormalizedState(), s.Config.Store.HomeState)
}

// taxCategoryTTL bounds how long a decoded category is reused before the
// repository is consulted again
const taxCategoryTTL = 5 * time.Minute

// getCategory serves tax categories from the snapshot cache; categories are
// looked up once per line, so carts with many lines of one category hit the
// repository a single time.
func (s *taxService) getCategory(ctx context.Context, id string) (*taxrate.TaxCategory, error) {
	cacheKey := cache.GenerateKey(cache.PrefixTaxCategories, id)
	if cached, ok := s.Cache.Get(ctx, cacheKey); ok {
		if category, ok := cached.(*taxrate.TaxCategory); ok {
			return category, nil
		}
	}

	category, err := s.TaxRepo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, cacheKey, category, taxCategoryTTL)
	return category, nil
}
