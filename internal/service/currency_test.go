package service

import (
	"testing"
	"time"

	"github.com/merchantkit/pricing/internal/config"
	"github.com/merchantkit/pricing/internal/domain/exchangerate"
	ierr "github.com/merchantkit/pricing/internal/errors"
	"github.com/merchantkit/pricing/internal/testutil"
	"github.com/merchantkit/pricing/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CurrencyServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CurrencyService
}

func TestCurrencyService(t *testing.T) {
	suite.Run(t, new(CurrencyServiceSuite))
}

func (s *CurrencyServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = s.newService(s.GetConfig())
}

func (s *CurrencyServiceSuite) newService(cfg *config.Configuration) CurrencyService {
	return NewCurrencyService(ServiceParams{
		Logger:           s.GetLogger(),
		Config:           cfg,
		Cache:            s.GetCache(),
		ExchangeRateRepo: s.GetStores().ExchangeRateRepo,
	})
}

func (s *CurrencyServiceSuite) rateStore() *testutil.InMemoryExchangeRateStore {
	return s.GetStores().ExchangeRateRepo.(*testutil.InMemoryExchangeRateStore)
}

func (s *CurrencyServiceSuite) TestSameCurrencyIsIdentity() {
	money := types.NewMoney(decimal.RequireFromString("123.456"), "usd")
	converted, err := s.service.Convert(s.GetContext(), money, "USD", s.GetNow())
	s.NoError(err)
	s.True(converted.Amount.Equal(money.Amount))
}

func (s *CurrencyServiceSuite) TestDirectEdgeWithMarkup() {
	s.rateStore().Add(&exchangerate.ExchangeRate{
		ID:            "fx_usd_eur",
		FromCurrency:  "USD",
		ToCurrency:    "EUR",
		Rate:          decimal.RequireFromString("0.90"),
		MarkupPercent: decimal.NewFromInt(2),
		Status:        types.StatusActive,
	})

	converted, err := s.service.Convert(s.GetContext(), types.NewMoney(decimal.NewFromInt(100), "usd"), "eur", s.GetNow())
	s.NoError(err)
	// 100 * 0.90 * 1.02
	s.True(converted.Amount.Equal(decimal.RequireFromString("91.8")),
		"expected 91.8, got %s", converted.Amount)
	s.Equal("eur", converted.Currency)
}

func (s *CurrencyServiceSuite) TestLatestEffectiveEdgeWins() {
	older := s.GetNow().Add(-48 * time.Hour)
	newer := s.GetNow().Add(-1 * time.Hour)
	s.rateStore().Add(&exchangerate.ExchangeRate{
		ID:            "fx_old",
		FromCurrency:  "USD",
		ToCurrency:    "EUR",
		Rate:          decimal.RequireFromString("0.80"),
		EffectiveFrom: &older,
		Status:        types.StatusActive,
	})
	s.rateStore().Add(&exchangerate.ExchangeRate{
		ID:            "fx_new",
		FromCurrency:  "USD",
		ToCurrency:    "EUR",
		Rate:          decimal.RequireFromString("0.90"),
		EffectiveFrom: &newer,
		Status:        types.StatusActive,
	})

	converted, err := s.service.Convert(s.GetContext(), types.NewMoney(decimal.NewFromInt(100), "usd"), "eur", s.GetNow())
	s.NoError(err)
	s.True(converted.Amount.Equal(decimal.NewFromInt(90)))
}

func (s *CurrencyServiceSuite) TestFutureEdgeIgnored() {
	future := s.GetNow().Add(24 * time.Hour)
	s.rateStore().Add(&exchangerate.ExchangeRate{
		ID:            "fx_future",
		FromCurrency:  "USD",
		ToCurrency:    "EUR",
		Rate:          decimal.RequireFromString("0.50"),
		EffectiveFrom: &future,
		Status:        types.StatusActive,
	})

	_, err := s.service.Convert(s.GetContext(), types.NewMoney(decimal.NewFromInt(100), "usd"), "eur", s.GetNow())
	s.Error(err)
	s.True(ierr.IsMissingExchangeRate(err))
}

func (s *CurrencyServiceSuite) TestInverseFallback() {
	s.rateStore().Add(&exchangerate.ExchangeRate{
		ID:           "fx_eur_usd",
		FromCurrency: "EUR",
		ToCurrency:   "USD",
		Rate:         decimal.RequireFromString("1.25"),
		Status:       types.StatusActive,
	})

	// No USD->EUR edge: 100 / 1.25 = 80
	converted, err := s.service.Convert(s.GetContext(), types.NewMoney(decimal.NewFromInt(100), "usd"), "eur", s.GetNow())
	s.NoError(err)
	s.True(converted.Amount.Equal(decimal.NewFromInt(80)),
		"expected 80, got %s", converted.Amount)
}

func (s *CurrencyServiceSuite) TestInverseFallbackKeepsMarkup() {
	s.rateStore().Add(&exchangerate.ExchangeRate{
		ID:            "fx_eur_usd",
		FromCurrency:  "EUR",
		ToCurrency:    "USD",
		Rate:          decimal.NewFromInt(2),
		MarkupPercent: decimal.NewFromInt(10),
		Status:        types.StatusActive,
	})

	// 100 / 2 * 1.10 = 55
	converted, err := s.service.Convert(s.GetContext(), types.NewMoney(decimal.NewFromInt(100), "usd"), "eur", s.GetNow())
	s.NoError(err)
	s.True(converted.Amount.Equal(decimal.NewFromInt(55)))
}

func (s *CurrencyServiceSuite) TestDirectEdgePreferredOverInverse() {
	s.rateStore().Add(&exchangerate.ExchangeRate{
		ID:           "fx_direct",
		FromCurrency: "USD",
		ToCurrency:   "EUR",
		Rate:         decimal.RequireFromString("0.90"),
		Status:       types.StatusActive,
	})
	s.rateStore().Add(&exchangerate.ExchangeRate{
		ID:           "fx_inverse",
		FromCurrency: "EUR",
		ToCurrency:   "USD",
		Rate:         decimal.NewFromInt(2),
		Status:       types.StatusActive,
	})

	converted, err := s.service.Convert(s.GetContext(), types.NewMoney(decimal.NewFromInt(100), "usd"), "eur", s.GetNow())
	s.NoError(err)
	s.True(converted.Amount.Equal(decimal.NewFromInt(90)))
}

func (s *CurrencyServiceSuite) TestMissingRateFails() {
	_, err := s.service.Convert(s.GetContext(), types.NewMoney(decimal.NewFromInt(100), "usd"), "jpy", s.GetNow())
	s.Error(err)
	s.True(ierr.IsMissingExchangeRate(err))
}

func (s *CurrencyServiceSuite) TestRoundBankers() {
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{"half to even down", "2.125", "2.12"},
		{"half to even up", "2.135", "2.14"},
		{"plain round up", "2.126", "2.13"},
		{"plain round down", "2.124", "2.12"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rounded := s.service.Round(types.NewMoney(decimal.RequireFromString(tt.amount), "usd"))
			s.True(rounded.Amount.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, rounded.Amount)
		})
	}
}

func (s *CurrencyServiceSuite) TestRoundUpMode() {
	cfg := config.GetDefaultConfig()
	cfg.Pricing.RoundingMode = types.RoundingModeUp
	service := s.newService(cfg)

	rounded := service.Round(types.NewMoney(decimal.RequireFromString("2.121"), "usd"))
	s.True(rounded.Amount.Equal(decimal.RequireFromString("2.13")))
}

func (s *CurrencyServiceSuite) TestRoundDownMode() {
	cfg := config.GetDefaultConfig()
	cfg.Pricing.RoundingMode = types.RoundingModeDown
	service := s.newService(cfg)

	rounded := service.Round(types.NewMoney(decimal.RequireFromString("2.129"), "usd"))
	s.True(rounded.Amount.Equal(decimal.RequireFromString("2.12")))
}

func (s *CurrencyServiceSuite) TestRoundToIncrement() {
	cfg := config.GetDefaultConfig()
	cfg.Pricing.RoundingMode = types.RoundingModeToIncrement
	cfg.Pricing.RoundingIncrement = 0.05
	service := s.newService(cfg)

	rounded := service.Round(types.NewMoney(decimal.RequireFromString("2.12"), "chf"))
	s.True(rounded.Amount.Equal(decimal.RequireFromString("2.10")),
		"expected 2.10, got %s", rounded.Amount)
}

func (s *CurrencyServiceSuite) TestZeroDecimalCurrency() {
	rounded := s.service.Round(types.NewMoney(decimal.RequireFromString("1234.4"), "jpy"))
	s.True(rounded.Amount.Equal(decimal.NewFromInt(1234)))
}
