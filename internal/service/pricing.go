package service

import (
	"context"
	"encoding/json"

	"github.com/merchantkit/pricing/internal/domain/cart"
	"github.com/merchantkit/pricing/internal/domain/zone"
	ierr "github.com/merchantkit/pricing/internal/errors"
	"github.com/merchantkit/pricing/internal/idempotency"
	"github.com/merchantkit/pricing/internal/types"
	"github.com/merchantkit/pricing/internal/validator"

	"github.com/shopspring/decimal"
)

type PricingService interface {
	// Price runs the full pipeline over an immutable pricing context:
	// subtotal, discounts, per-line taxable bases, shipping, tax, currency
	// normalization and final rounding, in that fixed order. Any fatal step
	// failure aborts with a typed error and no partial result.
	Price(ctx context.Context, pctx cart.PricingContext) (*cart.PricingResult, error)
}

type pricingService struct {
	ServiceParams
	zoneService     ZoneService
	discountService DiscountService
	taxService      TaxService
	shippingService ShippingService
	currencyService CurrencyService
}

// NewPricingService creates a new instance of PricingService
func NewPricingService(params ServiceParams) PricingService {
	return &pricingService{
		ServiceParams:   params,
		zoneService:     NewZoneService(params),
		discountService: NewDiscountService(params),
		taxService:      NewTaxService(params),
		shippingService: NewShippingService(params),
		currencyService: NewCurrencyService(params),
	}
}

func (s *pricingService) Price(ctx context.Context, pctx cart.PricingContext) (*cart.PricingResult, error) {
	if err := s.validateContext(pctx); err != nil {
		return nil, err
	}

	catalogCurrency := types.NormalizeCurrency(pctx.Currency)
	presentment := types.NormalizeCurrency(pctx.PresentmentCurrency)
	if presentment == "" {
		presentment = catalogCurrency
	}

	var flags []cart.PricingFlag

	// Zone resolution. A missing zone is recoverable: the concern prices as
	// zero and the result is flagged for the caller.
	taxZone, err := s.resolveZone(ctx, pctx.ShippingAddress, types.ZoneKindTax)
	if err != nil {
		return nil, err
	}
	if taxZone == nil {
		flags = append(flags, cart.FlagTaxZoneNotFound)
	}
	shippingZone, err := s.resolveZone(ctx, pctx.ShippingAddress, types.ZoneKindShipping)
	if err != nil {
		return nil, err
	}
	if shippingZone == nil {
		flags = append(flags, cart.FlagShippingZoneNotFound)
	}

	subtotal := pctx.Subtotal()

	resolved, err := s.discountService.Resolve(ctx, pctx)
	if err != nil {
		return nil, err
	}
	if resolved.CouponRejection != nil {
		flags = append(flags, cart.FlagCouponRejected)
	}

	// Taxable base per line: line total minus its allocated discount
	lineBases := make(map[string]decimal.Decimal, len(pctx.Lines))
	for _, line := range pctx.Lines {
		base := line.Total().Sub(resolved.LineAllocations[line.ID])
		if base.IsNegative() {
			base = decimal.Zero
		}
		lineBases[line.ID] = base
	}

	// Shipping runs before final tax summation: rates flagged tax_shipping
	// tax the shipping amount, so tax cannot close until shipping is known.
	shippingAmount := decimal.Zero
	freeShippingApplied := resolved.FreeShipping
	if pctx.ShippingMethodID != "" && shippingZone != nil {
		orderAmount := subtotal.Sub(resolved.DiscountTotal)
		quote, err := s.shippingService.Compute(ctx, pctx, shippingZone, pctx.ShippingMethodID, orderAmount, resolved.FreeShipping)
		if err != nil {
			return nil, err
		}
		shippingAmount = quote.Amount
		freeShippingApplied = quote.Waived
	}

	taxResult, err := s.taxService.Compute(ctx, pctx, taxZone, lineBases, shippingAmount)
	if err != nil {
		return nil, err
	}

	result := &cart.PricingResult{
		ID:                  s.resultID(pctx),
		Currency:            presentment,
		Subtotal:            subtotal,
		DiscountTotal:       resolved.DiscountTotal,
		AppliedDiscounts:    resolved.Applied,
		TaxTotal:            taxResult.Total,
		TaxBreakdown:        taxResult.Breakdown,
		ShippingTotal:       shippingAmount,
		FreeShippingApplied: freeShippingApplied,
		Flags:               flags,
		CouponRejection:     resolved.CouponRejection,
	}

	if err := s.normalizeCurrency(ctx, result, catalogCurrency, presentment, pctx); err != nil {
		return nil, err
	}
	s.roundResult(result)

	return result, nil
}

func (s *pricingService) validateContext(pctx cart.PricingContext) error {
	if err := validator.ValidateRequest(pctx); err != nil {
		return err
	}
	if types.NormalizeCurrency(pctx.Currency) == "" {
		return ierr.NewError("pricing context currency is required").
			WithHint("A catalog currency must be set before pricing").
			Mark(ierr.ErrValidation)
	}
	for _, line := range pctx.Lines {
		if line.UnitPrice.IsNegative() {
			return ierr.NewError("line unit price must not be negative").
				WithReportableDetails(map[string]any{
					"line_id": line.ID,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// resolveZone treats an unmatched zone as a recoverable nil; other failures
// propagate.
func (s *pricingService) resolveZone(ctx context.Context, address types.Address, kind types.ZoneKind) (*zone.Zone, error) {
	matched, err := s.zoneService.Match(ctx, address, kind)
	if err != nil {
		if ierr.IsZoneNotFound(err) {
			s.Logger.Warnw("no zone matched, pricing concern as zero",
				"kind", kind,
				"country", address.NormalizedCountry(),
			)
			return nil, nil
		}
		return nil, err
	}
	return matched, nil
}

// normalizeCurrency converts every monetary field onto the presentment
// currency. Conversion happens before rounding so the rounder sees final
// amounts exactly once.
func (s *pricingService) normalizeCurrency(ctx context.Context, result *cart.PricingResult, from, to string, pctx cart.PricingContext) error {
	if from == to {
		return nil
	}

	convert := func(amount decimal.Decimal) (decimal.Decimal, error) {
		converted, err := s.currencyService.Convert(ctx, types.NewMoney(amount, from), to, pctx.Now)
		if err != nil {
			return decimal.Zero, err
		}
		return converted.Amount, nil
	}

	var err error
	if result.Subtotal, err = convert(result.Subtotal); err != nil {
		return err
	}
	if result.DiscountTotal, err = convert(result.DiscountTotal); err != nil {
		return err
	}
	if result.TaxTotal, err = convert(result.TaxTotal); err != nil {
		return err
	}
	if result.ShippingTotal, err = convert(result.ShippingTotal); err != nil {
		return err
	}
	for i := range result.AppliedDiscounts {
		if result.AppliedDiscounts[i].Amount, err = convert(result.AppliedDiscounts[i].Amount); err != nil {
			return err
		}
	}
	for i := range result.TaxBreakdown {
		if result.TaxBreakdown[i].TaxableAmount, err = convert(result.TaxBreakdown[i].TaxableAmount); err != nil {
			return err
		}
		if result.TaxBreakdown[i].Amount, err = convert(result.TaxBreakdown[i].Amount); err != nil {
			return err
		}
	}
	return nil
}

// roundResult quantizes every output amount once, at the very end, and
// assembles the grand total from the rounded components so the identity
// grandTotal == round(subtotal - discountTotal + taxTotal + shippingTotal)
// holds exactly.
func (s *pricingService) roundResult(result *cart.PricingResult) {
	round := func(amount decimal.Decimal) decimal.Decimal {
		return s.currencyService.Round(types.NewMoney(amount, result.Currency)).Amount
	}

	result.Subtotal = round(result.Subtotal)
	result.DiscountTotal = round(result.DiscountTotal)
	result.TaxTotal = round(result.TaxTotal)
	result.ShippingTotal = round(result.ShippingTotal)
	for i := range result.AppliedDiscounts {
		result.AppliedDiscounts[i].Amount = round(result.AppliedDiscounts[i].Amount)
	}
	for i := range result.TaxBreakdown {
		result.TaxBreakdown[i].TaxableAmount = round(result.TaxBreakdown[i].TaxableAmount)
		result.TaxBreakdown[i].Amount = round(result.TaxBreakdown[i].Amount)
	}

	result.GrandTotal = round(result.Subtotal.
		Sub(result.DiscountTotal).
		Add(result.TaxTotal).
		Add(result.ShippingTotal))
}

// resultID derives a deterministic id from the context so repricing an
// unchanged cart yields a byte-identical result.
func (s *pricingService) resultID(pctx cart.PricingContext) string {
	serialized, err := json.Marshal(pctx)
	if err != nil {
		return types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRICING_RESULT)
	}
	return s.IdempotencyGenerator.GenerateKey(idempotency.ScopePricingResult, map[string]interface{}{
		"context": string(serialized),
	})
}
