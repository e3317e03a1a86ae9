package service

import (
	"context"
	"time"

	"github.com/merchantkit/pricing/internal/domain/cart"
	"github.com/merchantkit/pricing/internal/domain/redemption"
	ierr "github.com/merchantkit/pricing/internal/errors"
	"github.com/merchantkit/pricing/internal/idempotency"
)

// maxUsageIncrementRetries bounds the optimistic-concurrency retry loop for
// concurrent order completions touching the same discount
const maxUsageIncrementRetries = 5

type RedemptionService interface {
	// FinalizeOrder records one redemption per applied discount and
	// increments each discount's usage count, exactly once per order id.
	// Retried calls with the same order id are no-ops. Pricing previews must
	// never call this.
	FinalizeOrder(ctx context.Context, orderID, customerID, currency string, applied []cart.AppliedDiscount, finalizedAt time.Time) error
}

type redemptionService struct {
	ServiceParams
}

// NewRedemptionService creates a new instance of RedemptionService
func NewRedemptionService(params ServiceParams) RedemptionService {
	return &redemptionService{
		ServiceParams: params,
	}
}

func (s *redemptionService) FinalizeOrder(ctx context.Context, orderID, customerID, currency string, applied []cart.AppliedDiscount, finalizedAt time.Time) error {
	if orderID == "" {
		return ierr.NewError("order_id is required").
			WithHint("Order ID is required to finalize redemptions").
			Mark(ierr.ErrValidation)
	}

	for _, application := range applied {
		key := s.IdempotencyGenerator.GenerateKey(idempotency.ScopeDiscountRedemption, map[string]interface{}{
			"order_id":    orderID,
			"discount_id": application.DiscountID,
		})

		record := redemption.New(key, orderID, application.DiscountID, customerID, application.Amount, currency, finalizedAt)
		if err := s.RedemptionRepo.Create(ctx, record); err != nil {
			if ierr.IsAlreadyExists(err) {
				// Retried order completion: this discount was already counted
				s.Logger.Infow("redemption already recorded, skipping increment",
					"order_id", orderID,
					"discount_id", application.DiscountID,
				)
				continue
			}
			s.Logger.Errorw("failed to create redemption",
				"error", err,
				"order_id", orderID,
				"discount_id", application.DiscountID,
			)
			return err
		}

		if err := s.incrementUsage(ctx, application.DiscountID); err != nil {
			return err
		}
	}

	return nil
}

// incrementUsage bumps the discount usage count under an optimistic version
// check, retrying on version conflicts from concurrent completions.
func (s *redemptionService) incrementUsage(ctx context.Context, discountID string) error {
	var lastErr error
	for attempt := 0; attempt < maxUsageIncrementRetries; attempt++ {
		d, err := s.DiscountRepo.Get(ctx, discountID)
		if err != nil {
			return err
		}

		err = s.DiscountRepo.UpdateUsage(ctx, discountID, d.Version)
		if err == nil {
			return nil
		}
		if !ierr.IsVersionConflict(err) {
			return err
		}
		lastErr = err
		s.Logger.Debugw("usage increment version conflict, retrying",
			"discount_id", discountID,
			"attempt", attempt+1,
		)
	}

	return ierr.WithError(lastErr).
		WithMessage("usage increment retries exhausted").
		WithReportableDetails(map[string]any{
			"discount_id": discountID,
			"attempts":    maxUsageIncrementRetries,
		}).
		Mark(ierr.ErrVersionConflict)
}
