package service

import (
	"context"
	"sort"
	"time"

	"github.com/merchantkit/pricing/internal/cache"
	"github.com/merchantkit/pricing/internal/domain/cart"
	"github.com/merchantkit/pricing/internal/domain/shippingrate"
	"github.com/merchantkit/pricing/internal/domain/zone"
	ierr "github.com/merchantkit/pricing/internal/errors"
	"github.com/merchantkit/pricing/internal/types"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ShippingQuote is the computed cost for one method. Waived quotes keep the
// rate reference so the caller can show what was waived.
type ShippingQuote struct {
	RateID   string
	MethodID string
	Amount   decimal.Decimal
	Currency string
	Waived   bool
}

type ShippingService interface {
	// Compute evaluates the rate formulas configured for (zone, method)
	// against the cart's weight, item count and order amount. waived zeroes
	// the quote regardless of the formula (free-shipping discount from the
	// resolver). Returns ErrNoShippingRate when no configured rate accepts
	// the cart; the caller must offer the next method or fail the step.
	Compute(ctx context.Context, pctx cart.PricingContext, shippingZone *zone.Zone, methodID string, orderAmount decimal.Decimal, waived bool) (*ShippingQuote, error)
}

type shippingService struct {
	ServiceParams
}

// NewShippingService creates a new instance of ShippingService
func NewShippingService(params ServiceParams) ShippingService {
	return &shippingService{
		ServiceParams: params,
	}
}

func (s *shippingService) Compute(ctx context.Context, pctx cart.PricingContext, shippingZone *zone.Zone, methodID string, orderAmount decimal.Decimal, waived bool) (*ShippingQuote, error) {
	method, err := s.getMethod(ctx, methodID)
	if err != nil {
		s.Logger.Warnw("failed to get shipping method",
			"error", err,
			"method_id", methodID,
		)
		return nil, err
	}
	if !method.IsActive() {
		return nil, ierr.NewError("shipping method is not active").
			WithHint("The selected shipping method is unavailable").
			WithReportableDetails(map[string]any{
				"method_id": methodID,
			}).
			Mark(ierr.ErrNoShippingRate)
	}

	rates, err := s.ShippingRepo.ListRates(ctx, shippingZone.ID, methodID)
	if err != nil {
		s.Logger.Errorw("failed to list shipping rates",
			"error", err,
			"zone_id", shippingZone.ID,
			"method_id", methodID,
		)
		return nil, err
	}

	weight := pctx.TotalWeight()
	itemCount := pctx.TotalQuantity()
	catalogCurrency := types.NormalizeCurrency(pctx.Currency)

	// A rate priced in another currency cannot serve this cart; its cost
	// would be compared and summed against catalog-currency amounts.
	applicable := lo.Filter(rates, func(r *shippingrate.ShippingRate, _ int) bool {
		if r.Currency != "" && !types.IsMatchingCurrency(r.Currency, catalogCurrency) {
			return false
		}
		return r.IsActive() && r.AppliesTo(weight, orderAmount)
	})
	if len(applicable) == 0 {
		return nil, ierr.NewError("no shipping rate matched").
			WithHint("The selected shipping method cannot ship this order").
			WithReportableDetails(map[string]any{
				"zone_id":   shippingZone.ID,
				"method_id": methodID,
				"weight":    weight,
				"currency":  catalogCurrency,
			}).
			Mark(ierr.ErrNoShippingRate)
	}

	// Cheapest applicable rate wins; tie-break on id for determinism
	type candidate struct {
		rate *shippingrate.ShippingRate
		cost decimal.Decimal
	}
	candidates := lo.Map(applicable, func(r *shippingrate.ShippingRate, _ int) candidate {
		return candidate{rate: r, cost: r.Cost(weight, itemCount, orderAmount)}
	})
	sort.Slice(candidates, func(i, j int) bool {
		if cmp := candidates[i].cost.Cmp(candidates[j].cost); cmp != 0 {
			return cmp < 0
		}
		return candidates[i].rate.ID < candidates[j].rate.ID
	})
	chosen := candidates[0]

	quote := &ShippingQuote{
		RateID:   chosen.rate.ID,
		MethodID: methodID,
		Amount:   chosen.cost,
		Currency: catalogCurrency,
	}

	if waived || chosen.rate.QualifiesForFreeShipping(orderAmount) {
		quote.Amount = decimal.Zero
		quote.Waived = true
	}

	return quote, nil
}

// shippingMethodTTL bounds how long a decoded method is reused before the
// repository is consulted again
const shippingMethodTTL = 5 * time.Minute

// getMethod serves shipping methods from the snapshot cache
func (s *shippingService) getMethod(ctx context.Context, id string) (*shippingrate.ShippingMethod, error) {
	cacheKey := cache.GenerateKey(cache.PrefixShippingMethods, id)
	if cached, ok := s.Cache.Get(ctx, cacheKey); ok {
		if method, ok := cached.(*shippingrate.ShippingMethod); ok {
			return method, nil
		}
	}

	method, err := s.ShippingRepo.GetMethod(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, cacheKey, method, shippingMethodTTL)
	return method, nil
}
