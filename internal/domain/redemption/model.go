package redemption

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/merchantkit/pricing/internal/types"
)

// Redemption records one discount applied to one finalized order. The
// idempotency key is derived from (order id, discount id), so a retried
// order-completion call can never double-count usage.
type Redemption struct {
	ID             string          `json:"id"`
	IdempotencyKey string          `json:"idempotency_key"`
	OrderID        string          `json:"order_id"`
	DiscountID     string          `json:"discount_id"`
	CustomerID     string          `json:"customer_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	RedeemedAt     time.Time       `json:"redeemed_at"`
}

// New creates a redemption record with a fresh id
func New(idempotencyKey, orderID, discountID, customerID string, amount decimal.Decimal, currency string, redeemedAt time.Time) *Redemption {
	return &Redemption{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REDEMPTION),
		IdempotencyKey: idempotencyKey,
		OrderID:        orderID,
		DiscountID:     discountID,
		CustomerID:     customerID,
		Amount:         amount,
		Currency:       types.NormalizeCurrency(currency),
		RedeemedAt:     redeemedAt,
	}
}
