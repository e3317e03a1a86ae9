package service

import (
	"context"
	"sort"
	"strings"

	"github.com/merchantkit/pricing/internal/domain/cart"
	"github.com/merchantkit/pricing/internal/domain/discount"
	ierr "github.com/merchantkit/pricing/internal/errors"
	"github.com/merchantkit/pricing/internal/types"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ResolveResult is the output of one discount resolution pass. Resolution is
// pure: it never writes usage counters; those move only when an order is
// finalized through the redemption service.
type ResolveResult struct {
	Applied       []cart.AppliedDiscount
	DiscountTotal decimal.Decimal
	FreeShipping  bool
	// LineAllocations distributes the discount total across affected lines so
	// the tax calculator can tax each line on its discounted base
	LineAllocations map[string]decimal.Decimal
	CouponRejection *cart.CouponRejection
}

type DiscountService interface {
	// Resolve evaluates every candidate discount against the pricing context
	// and returns the deterministic application list.
	Resolve(ctx context.Context, pctx cart.PricingContext) (*ResolveResult, error)
}

type discountService struct {
	ServiceParams
}

// NewDiscountService creates a new instance of DiscountService
func NewDiscountService(params ServiceParams) DiscountService {
	return &discountService{
		ServiceParams: params,
	}
}

// evaluation is one eligible discount with its computed amount on the
// original (undiscounted) eligible base
type evaluation struct {
	discount         *discount.Discount
	eligibleLines    []cart.LineItem
	eligibleSubtotal decimal.Decimal
	amount           decimal.Decimal
}

func (s *discountService) Resolve(ctx context.Context, pctx cart.PricingContext) (*ResolveResult, error) {
	subtotal := pctx.Subtotal()
	result := &ResolveResult{
		DiscountTotal:   decimal.Zero,
		LineAllocations: map[string]decimal.Decimal{},
	}

	candidates, err := s.DiscountRepo.ListActive(ctx)
	if err != nil {
		s.Logger.Errorw("failed to list active discounts",
			"error", err,
		)
		return nil, err
	}

	if pctx.CouponCode != "" {
		if rejection, err := s.validateCoupon(ctx, pctx, subtotal); err != nil {
			return nil, err
		} else if rejection != nil {
			result.CouponRejection = rejection
		}
	}

	var evaluations []evaluation
	var waivers []*discount.Discount
	for _, d := range candidates {
		eligible, err := s.isEligible(ctx, d, pctx, subtotal)
		if err != nil {
			return nil, err
		}
		if !eligible {
			continue
		}

		eligibleLines := s.eligibleLines(d, pctx.Lines)
		if len(eligibleLines) == 0 {
			continue
		}

		if d.Type == types.DiscountTypeFreeShipping {
			waivers = append(waivers, d)
			continue
		}

		eligibleSubtotal := lineTotalSum(eligibleLines)
		amount := d.ClampAmount(s.computeAmount(d, pctx, eligibleLines, eligibleSubtotal))
		if !amount.IsPositive() {
			continue
		}

		evaluations = append(evaluations, evaluation{
			discount:         d,
			eligibleLines:    eligibleLines,
			eligibleSubtotal: eligibleSubtotal,
			amount:           amount,
		})
	}

	// A free-shipping discount only emits the waiver flag; it never moves the
	// discount total, so it does not compete on amount.
	for _, d := range waivers {
		result.FreeShipping = true
		result.Applied = append(result.Applied, cart.AppliedDiscount{
			DiscountID: d.ID,
			Code:       d.Code,
			Type:       d.Type,
			Amount:     decimal.Zero,
		})
	}

	chosen := s.selectStack(evaluations)
	s.applyStack(result, chosen, subtotal)

	return result, nil
}

// selectStack resolves stacking: all combinable discounts apply together,
// exclusive discounts stand alone. The combinable stack and the single best
// exclusive discount compete on total amount; ties go to the stack.
func (s *discountService) selectStack(evaluations []evaluation) []evaluation {
	combinable := lo.Filter(evaluations, func(e evaluation, _ int) bool {
		return e.discount.CanCombine
	})
	exclusive := lo.Filter(evaluations, func(e evaluation, _ int) bool {
		return !e.discount.CanCombine
	})

	// Deterministic sequential application order for the stack
	sort.Slice(combinable, func(i, j int) bool {
		if combinable[i].discount.Priority != combinable[j].discount.Priority {
			return combinable[i].discount.Priority < combinable[j].discount.Priority
		}
		return combinable[i].discount.ID < combinable[j].discount.ID
	})

	if len(exclusive) == 0 {
		return combinable
	}

	// Highest amount wins among exclusives; tie-break highest priority, then
	// lowest id
	sort.Slice(exclusive, func(i, j int) bool {
		if cmp := exclusive[i].amount.Cmp(exclusive[j].amount); cmp != 0 {
			return cmp > 0
		}
		if exclusive[i].discount.Priority != exclusive[j].discount.Priority {
			return exclusive[i].discount.Priority > exclusive[j].discount.Priority
		}
		return exclusive[i].discount.ID < exclusive[j].discount.ID
	})
	winner := exclusive[0]

	stackTotal := lo.Reduce(combinable, func(acc decimal.Decimal, e evaluation, _ int) decimal.Decimal {
		return acc.Add(e.amount)
	}, decimal.Zero)

	if winner.amount.GreaterThan(stackTotal) {
		return []evaluation{winner}
	}
	return combinable
}

// applyStack applies the chosen discounts sequentially, honoring the
// configured stacking policy and clamping the running total at the subtotal.
func (s *discountService) applyStack(result *ResolveResult, chosen []evaluation, subtotal decimal.Decimal) {
	remaining := subtotal
	for _, e := range chosen {
		amount := e.amount
		if s.Config.Pricing.StackingPolicy == types.StackingPolicyRemainingAmount &&
			remaining.LessThan(subtotal) && subtotal.IsPositive() && isPercentageValued(e.discount.Type) {
			// Percentage-valued discounts see the base reduced by prior
			// discounts; amount-valued ones stay fixed and are only capped
			amount = e.discount.ClampAmount(e.amount.Mul(remaining).Div(subtotal))
		}
		// Never discount past what is left, regardless of policy
		if amount.GreaterThan(remaining) {
			amount = remaining
		}
		if !amount.IsPositive() {
			continue
		}

		remaining = remaining.Sub(amount)
		result.DiscountTotal = result.DiscountTotal.Add(amount)
		result.Applied = append(result.Applied, cart.AppliedDiscount{
			DiscountID:      e.discount.ID,
			Code:            e.discount.Code,
			Type:            e.discount.Type,
			Amount:          amount,
			AffectedLineIDs: lineIDs(e.eligibleLines),
		})
		s.allocate(result, e.eligibleLines, amount)
	}
}

// allocate distributes an applied amount across its eligible lines
// proportionally to line totals; the last line absorbs the remainder so the
// allocations sum exactly.
func (s *discountService) allocate(result *ResolveResult, lines []cart.LineItem, amount decimal.Decimal) {
	base := lineTotalSum(lines)
	if !base.IsPositive() {
		return
	}
	allocated := decimal.Zero
	for i, line := range lines {
		var share decimal.Decimal
		if i == len(lines)-1 {
			share = amount.Sub(allocated)
		} else {
			share = amount.Mul(line.Total()).Div(base)
		}
		allocated = allocated.Add(share)
		result.LineAllocations[line.ID] = result.LineAllocations[line.ID].Add(share)
	}
}

// isEligible applies every configuration predicate that does not depend on
// per-line filtering.
func (s *discountService) isEligible(ctx context.Context, d *discount.Discount, pctx cart.PricingContext, subtotal decimal.Decimal) (bool, error) {
	if !d.IsActive() || !d.IsLive(pctx.Now) || d.IsExhausted() {
		return false, nil
	}

	if d.RequiresCode && !strings.EqualFold(d.Code, pctx.CouponCode) {
		return false, nil
	}

	if d.PerCustomerLimit != nil {
		used, err := s.DiscountRepo.CustomerUsageCount(ctx, d.ID, pctx.Customer.ID)
		if err != nil {
			return false, err
		}
		if used >= *d.PerCustomerLimit {
			return false, nil
		}
	}

	if d.RequiredTier != nil && !strings.EqualFold(*d.RequiredTier, pctx.Customer.Tier) {
		return false, nil
	}
	if d.FirstOrderOnly && !pctx.Customer.IsFirstOrder {
		return false, nil
	}

	if d.MinOrderAmount != nil && subtotal.LessThan(*d.MinOrderAmount) {
		return false, nil
	}
	if d.MaxOrderAmount != nil && subtotal.GreaterThan(*d.MaxOrderAmount) {
		return false, nil
	}

	quantity := pctx.TotalQuantity()
	if d.MinQuantity != nil && quantity < int64(*d.MinQuantity) {
		return false, nil
	}
	if d.MaxQuantity != nil && quantity > int64(*d.MaxQuantity) {
		return false, nil
	}

	if d.Type == types.DiscountTypeBundle && !s.bundleComplete(d, pctx.Lines) {
		return false, nil
	}

	return true, nil
}

// eligibleLines filters cart lines through the discount's include/exclude
// lists and the sale-item exclusion.
func (s *discountService) eligibleLines(d *discount.Discount, lines []cart.LineItem) []cart.LineItem {
	return lo.Filter(lines, func(l cart.LineItem, _ int) bool {
		if d.ExcludeSaleItems && l.IsOnSale {
			return false
		}
		return d.AppliesToProduct(l.ProductID, l.CategoryIDs)
	})
}

// computeAmount computes the discount amount for a given eligible base.
// Percentage-valued types (percentage, volume tiers, loyalty, referral, cart
// abandonment, overstock clearance, early payment) read Value as a percent of
// the base; amount-valued types (fixed amount, trade-in, bundle) read Value
// as a money amount capped at the base.
func (s *discountService) computeAmount(d *discount.Discount, pctx cart.PricingContext, eligibleLines []cart.LineItem, eligibleBase decimal.Decimal) decimal.Decimal {
	switch d.Type {
	case types.DiscountTypePercentage,
		types.DiscountTypeLoyalty,
		types.DiscountTypeReferral,
		types.DiscountTypeCartAbandonment,
		types.DiscountTypeOverstockClearance,
		types.DiscountTypeEarlyPayment:
		return eligibleBase.Mul(d.Value).Div(decimal.NewFromInt(100))

	case types.DiscountTypeFixedAmount,
		types.DiscountTypeTradeIn,
		types.DiscountTypeBundle:
		return decimal.Min(d.Value, eligibleBase)

	case types.DiscountTypeVolumeTiers:
		return s.volumeTierAmount(d, eligibleLines, eligibleBase)

	case types.DiscountTypeBuyXGetY:
		return s.buyXGetYAmount(d, pctx, eligibleLines)

	default:
		return decimal.Zero
	}
}

// volumeTierAmount picks the highest tier the eligible quantity reaches
func (s *discountService) volumeTierAmount(d *discount.Discount, eligibleLines []cart.LineItem, eligibleBase decimal.Decimal) decimal.Decimal {
	quantity := lo.Reduce(eligibleLines, func(acc int64, l cart.LineItem, _ int) int64 {
		return acc + l.Quantity
	}, int64(0))

	percent := decimal.Zero
	for _, tier := range d.VolumeTiers {
		if quantity >= int64(tier.MinQuantity) {
			percent = tier.Percent
		}
	}
	return eligibleBase.Mul(percent).Div(decimal.NewFromInt(100))
}

// buyXGetYAmount discounts the cheapest qualifying "get" units, one group of
// getQuantity units per buyQuantity eligible units bought.
func (s *discountService) buyXGetYAmount(d *discount.Discount, pctx cart.PricingContext, eligibleLines []cart.LineItem) decimal.Decimal {
	if d.BuyQuantity <= 0 || d.GetQuantity <= 0 {
		return decimal.Zero
	}

	eligibleQty := lo.Reduce(eligibleLines, func(acc int64, l cart.LineItem, _ int) int64 {
		return acc + l.Quantity
	}, int64(0))
	groups := eligibleQty / int64(d.BuyQuantity)
	if groups == 0 {
		return decimal.Zero
	}

	// Expand the "get" side into units, cheapest first for determinism
	type unit struct {
		price  decimal.Decimal
		lineID string
	}
	var units []unit
	for _, l := range pctx.Lines {
		if !lo.Contains(d.GetProductIDs, l.ProductID) {
			continue
		}
		for i := int64(0); i < l.Quantity; i++ {
			units = append(units, unit{price: l.UnitPrice, lineID: l.ID})
		}
	}
	sort.Slice(units, func(i, j int) bool {
		if cmp := units[i].price.Cmp(units[j].price); cmp != 0 {
			return cmp < 0
		}
		return units[i].lineID < units[j].lineID
	})

	discountedUnits := int(groups) * d.GetQuantity
	if discountedUnits > len(units) {
		discountedUnits = len(units)
	}

	percent := d.GetDiscountPercent
	if !percent.IsPositive() {
		percent = decimal.NewFromInt(100)
	}

	total := decimal.Zero
	for _, u := range units[:discountedUnits] {
		total = total.Add(u.price)
	}
	return total.Mul(percent).Div(decimal.NewFromInt(100))
}

// bundleComplete checks that every product in the bundle is present in the cart
func (s *discountService) bundleComplete(d *discount.Discount, lines []cart.LineItem) bool {
	inCart := lo.Map(lines, func(l cart.LineItem, _ int) string {
		return l.ProductID
	})
	return lo.Every(inCart, d.IncludedProductIDs)
}

// validateCoupon produces the shopper-facing rejection for a supplied coupon
// code. Rejections are non-fatal: pricing continues without the coupon.
func (s *discountService) validateCoupon(ctx context.Context, pctx cart.PricingContext, subtotal decimal.Decimal) (*cart.CouponRejection, error) {
	d, err := s.DiscountRepo.GetByCode(ctx, pctx.CouponCode)
	if err != nil {
		if ierr.IsNotFound(err) {
			return &cart.CouponRejection{
				Code:      pctx.CouponCode,
				ErrorCode: ierr.ErrCodeDiscountCodeInvalid,
				Reason:    "This code is not valid",
			}, nil
		}
		return nil, err
	}

	if !d.IsActive() {
		return &cart.CouponRejection{
			Code:      pctx.CouponCode,
			ErrorCode: ierr.ErrCodeDiscountCodeInvalid,
			Reason:    "This code is not valid",
		}, nil
	}
	if d.EndDate != nil && pctx.Now.After(*d.EndDate) {
		return &cart.CouponRejection{
			Code:      pctx.CouponCode,
			ErrorCode: ierr.ErrCodeDiscountExpired,
			Reason:    "This code has expired",
		}, nil
	}
	if !d.IsLive(pctx.Now) {
		return &cart.CouponRejection{
			Code:      pctx.CouponCode,
			ErrorCode: ierr.ErrCodeDiscountCodeInvalid,
			Reason:    "This code is not active yet",
		}, nil
	}
	if d.IsExhausted() {
		return &cart.CouponRejection{
			Code:      pctx.CouponCode,
			ErrorCode: ierr.ErrCodeUsageLimitExceeded,
			Reason:    "This code has reached its usage limit",
		}, nil
	}
	if d.PerCustomerLimit != nil {
		used, err := s.DiscountRepo.CustomerUsageCount(ctx, d.ID, pctx.Customer.ID)
		if err != nil {
			return nil, err
		}
		if used >= *d.PerCustomerLimit {
			return &cart.CouponRejection{
				Code:      pctx.CouponCode,
				ErrorCode: ierr.ErrCodeUsageLimitExceeded,
				Reason:    "You have already used this code",
			}, nil
		}
	}
	if d.MinOrderAmount != nil && subtotal.LessThan(*d.MinOrderAmount) {
		return &cart.CouponRejection{
			Code:      pctx.CouponCode,
			ErrorCode: ierr.ErrCodeDiscountCodeInvalid,
			Reason:    "Order does not meet the minimum amount for this code",
		}, nil
	}

	return nil, nil
}

// isPercentageValued reports whether a discount type reads Value as a percent
// of its base, which is what makes it sensitive to the stacking policy.
func isPercentageValued(t types.DiscountType) bool {
	switch t {
	case types.DiscountTypePercentage,
		types.DiscountTypeLoyalty,
		types.DiscountTypeReferral,
		types.DiscountTypeCartAbandonment,
		types.DiscountTypeOverstockClearance,
		types.DiscountTypeEarlyPayment,
		types.DiscountTypeVolumeTiers:
		return true
	default:
		return false
	}
}

func lineTotalSum(lines []cart.LineItem) decimal.Decimal {
	return lo.Reduce(lines, func(acc decimal.Decimal, l cart.LineItem, _ int) decimal.Decimal {
		return acc.Add(l.Total())
	}, decimal.Zero)
}

func lineIDs(lines []cart.LineItem) []string {
	return lo.Map(lines, func(l cart.LineItem, _ int) string {
		return l.ID
	})
}
