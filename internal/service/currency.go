package service

import (
	"context"
	"sort"
	"time"

	"github.com/merchantkit/pricing/internal/domain/exchangerate"
	ierr "github.com/merchantkit/pricing/internal/errors"
	"github.com/merchantkit/pricing/internal/types"

	"github.com/shopspring/decimal"
)

type CurrencyService interface {
	// Convert moves an amount onto another currency through the configured
	// rate table: the latest effective direct edge wins; when none exists the
	// reciprocal of the inverse edge is tried before failing with
	// ErrMissingExchangeRate.
	Convert(ctx context.Context, money types.Money, toCurrency string, now time.Time) (types.Money, error)

	// Round quantizes an amount to its currency precision using the
	// configured rounding mode. Called once, at the end of a pipeline run,
	// never mid-calculation.
	Round(money types.Money) types.Money
}

type currencyService struct {
	ServiceParams
}

// NewCurrencyService creates a new instance of CurrencyService
func NewCurrencyService(params ServiceParams) CurrencyService {
	return &currencyService{
		ServiceParams: params,
	}
}

func (s *currencyService) Convert(ctx context.Context, money types.Money, toCurrency string, now time.Time) (types.Money, error) {
	from := types.NormalizeCurrency(money.Currency)
	to := types.NormalizeCurrency(toCurrency)
	if from == to {
		return money, nil
	}

	// Direct edge first
	direct, err := s.latestEffective(ctx, from, to, now)
	if err != nil {
		return types.Money{}, err
	}
	if direct != nil {
		return types.NewMoney(money.Amount.Mul(direct.EffectiveRate()), to), nil
	}

	// Explicit fallback: reciprocal of the inverse edge, with the inverse
	// edge's markup applied on top of the reciprocal base rate
	inverse, err := s.latestEffective(ctx, to, from, now)
	if err != nil {
		return types.Money{}, err
	}
	if inverse != nil && inverse.Rate.IsPositive() {
		markup := decimal.NewFromInt(1).Add(inverse.MarkupPercent.Div(decimal.NewFromInt(100)))
		converted := money.Amount.Div(inverse.Rate).Mul(markup)
		s.Logger.Debugw("converted via inverse exchange-rate edge",
			"from", from,
			"to", to,
			"rate_id", inverse.ID,
		)
		return types.NewMoney(converted, to), nil
	}

	return types.Money{}, ierr.NewError("no exchange rate configured").
		WithHintf("Cannot price in %s", to).
		WithReportableDetails(map[string]any{
			"from": from,
			"to":   to,
		}).
		Mark(ierr.ErrMissingExchangeRate)
}

// latestEffective picks the active edge with the most recent effective-from;
// ties break on lowest id. Returns nil when no edge qualifies.
func (s *currencyService) latestEffective(ctx context.Context, from, to string, now time.Time) (*exchangerate.ExchangeRate, error) {
	edges, err := s.ExchangeRateRepo.ListByPair(ctx, from, to)
	if err != nil {
		s.Logger.Errorw("failed to list exchange rates",
			"error", err,
			"from", from,
			"to", to,
		)
		return nil, err
	}

	effective := make([]*exchangerate.ExchangeRate, 0, len(edges))
	for _, edge := range edges {
		if edge.IsActive() && edge.IsEffective(now) {
			effective = append(effective, edge)
		}
	}
	if len(effective) == 0 {
		return nil, nil
	}

	sort.Slice(effective, func(i, j int) bool {
		fi := effectiveFromOrZero(effective[i])
		fj := effectiveFromOrZero(effective[j])
		if !fi.Equal(fj) {
			return fi.After(fj)
		}
		return effective[i].ID < effective[j].ID
	})
	return effective[0], nil
}

func effectiveFromOrZero(r *exchangerate.ExchangeRate) time.Time {
	if r.EffectiveFrom == nil {
		return time.Time{}
	}
	return *r.EffectiveFrom
}

func (s *currencyService) Round(money types.Money) types.Money {
	precision := types.GetCurrencyPrecision(money.Currency)
	increment := decimal.NewFromFloat(s.Config.Pricing.RoundingIncrement)
	rounded := s.Config.Pricing.RoundingMode.Apply(money.Amount, precision, increment)
	return types.NewMoney(rounded, money.Currency)
}
