package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/merchantkit/pricing/internal/domain/cart"
	"github.com/merchantkit/pricing/internal/domain/discount"
	"github.com/merchantkit/pricing/internal/domain/exchangerate"
	"github.com/merchantkit/pricing/internal/domain/shippingrate"
	"github.com/merchantkit/pricing/internal/domain/taxrate"
	"github.com/merchantkit/pricing/internal/domain/zone"
	ierr "github.com/merchantkit/pricing/internal/errors"
	"github.com/merchantkit/pricing/internal/idempotency"
	"github.com/merchantkit/pricing/internal/testutil"
	"github.com/merchantkit/pricing/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PricingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PricingService
}

func TestPricingService(t *testing.T) {
	suite.Run(t, new(PricingServiceSuite))
}

func (s *PricingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPricingService(ServiceParams{
		Logger:               s.GetLogger(),
		Config:               s.GetConfig(),
		Cache:                s.GetCache(),
		ZoneRepo:             s.GetStores().ZoneRepo,
		DiscountRepo:         s.GetStores().DiscountRepo,
		RedemptionRepo:       s.GetStores().RedemptionRepo,
		TaxRepo:              s.GetStores().TaxRepo,
		ShippingRepo:         s.GetStores().ShippingRepo,
		ExchangeRateRepo:     s.GetStores().ExchangeRateRepo,
		IdempotencyGenerator: idempotency.NewGenerator(),
	})
	s.seedStorefront()
}

// seedStorefront configures a small but complete storefront: US tax and
// shipping zones, an 8% tax rate, a standard shipping method at 5.00 + 1.00/kg
// and a 10% sitewide discount.
func (s *PricingServiceSuite) seedStorefront() {
	stores := s.GetStores()

	stores.ZoneRepo.(*testutil.InMemoryZoneStore).Add(&zone.Zone{
		ID:        "zone_tax_us",
		Kind:      types.ZoneKindTax,
		Countries: []string{"US"},
		Status:    types.StatusActive,
	})
	stores.ZoneRepo.(*testutil.InMemoryZoneStore).Add(&zone.Zone{
		ID:        "zone_ship_us",
		Kind:      types.ZoneKindShipping,
		Countries: []string{"US"},
		Status:    types.StatusActive,
	})

	stores.TaxRepo.(*testutil.InMemoryTaxStore).AddCategory(&taxrate.TaxCategory{
		ID:     "cat_standard",
		Name:   "Standard goods",
		Status: types.StatusActive,
	})
	stores.TaxRepo.(*testutil.InMemoryTaxStore).AddRate(&taxrate.TaxRate{
		ID:            "rate_sales",
		Name:          "Sales tax",
		ZoneID:        "zone_tax_us",
		TaxCategoryID: "cat_standard",
		RateType:      types.TaxRateTypePercentage,
		Percentage:    decimal.NewFromInt(8),
		Status:        types.StatusActive,
	})

	stores.ShippingRepo.(*testutil.InMemoryShippingStore).AddMethod(&shippingrate.ShippingMethod{
		ID:     "method_standard",
		Name:   "Standard",
		Status: types.StatusActive,
	})
	stores.ShippingRepo.(*testutil.InMemoryShippingStore).AddRate(&shippingrate.ShippingRate{
		ID:            "rate_std",
		ZoneID:        "zone_ship_us",
		MethodID:      "method_standard",
		Currency:      "usd",
		BaseRate:      decimal.NewFromInt(5),
		PerWeightRate: decimal.NewFromInt(1),
		Status:        types.StatusActive,
	})

	stores.DiscountRepo.(*testutil.InMemoryDiscountStore).Add(&discount.Discount{
		ID:         "disc_sitewide",
		Type:       types.DiscountTypePercentage,
		Value:      decimal.NewFromInt(10),
		CanCombine: true,
		Status:     types.StatusActive,
	})
}

func (s *PricingServiceSuite) usContext() cart.PricingContext {
	return cart.PricingContext{
		Customer: cart.Customer{ID: "cust_1"},
		Lines: []cart.LineItem{
			{
				ID:            "line_1",
				ProductID:     "prod_1",
				TaxCategoryID: "cat_standard",
				Quantity:      2,
				UnitPrice:     decimal.NewFromInt(50),
				Weight:        decimal.RequireFromString("1.5"),
			},
		},
		ShippingAddress:  types.Address{Country: "US", State: "NY", PostalCode: "10001"},
		Currency:         "usd",
		ShippingMethodID: "method_standard",
		Now:              s.GetNow(),
	}
}

func (s *PricingServiceSuite) TestFullPipeline() {
	result, err := s.service.Price(s.GetContext(), s.usContext())
	s.NoError(err)

	// subtotal 100, discount 10, taxable 90 at 8% = 7.20,
	// shipping 5 + 3kg * 1 = 8, grand total 105.20
	s.True(result.Subtotal.Equal(decimal.NewFromInt(100)))
	s.True(result.DiscountTotal.Equal(decimal.NewFromInt(10)))
	s.True(result.TaxTotal.Equal(decimal.RequireFromString("7.2")), "tax: %s", result.TaxTotal)
	s.True(result.ShippingTotal.Equal(decimal.NewFromInt(8)))
	s.True(result.GrandTotal.Equal(decimal.RequireFromString("105.2")), "grand: %s", result.GrandTotal)
	s.Equal("usd", result.Currency)
	s.Empty(result.Flags)
}

func (s *PricingServiceSuite) TestGrandTotalIdentity() {
	result, err := s.service.Price(s.GetContext(), s.usContext())
	s.NoError(err)

	expected := result.Subtotal.
		Sub(result.DiscountTotal).
		Add(result.TaxTotal).
		Add(result.ShippingTotal)
	s.True(result.GrandTotal.Equal(expected),
		"grand total %s must equal %s", result.GrandTotal, expected)
}

func (s *PricingServiceSuite) TestRepricingIsByteIdentical() {
	first, err := s.service.Price(s.GetContext(), s.usContext())
	s.NoError(err)
	second, err := s.service.Price(s.GetContext(), s.usContext())
	s.NoError(err)

	firstJSON, err := json.Marshal(first)
	s.NoError(err)
	secondJSON, err := json.Marshal(second)
	s.NoError(err)
	s.Equal(firstJSON, secondJSON)
	s.Equal(first.ID, second.ID)
}

func (s *PricingServiceSuite) TestChangedContextChangesResultID() {
	first, err := s.service.Price(s.GetContext(), s.usContext())
	s.NoError(err)

	changed := s.usContext()
	changed.Lines[0].Quantity = 3
	second, err := s.service.Price(s.GetContext(), changed)
	s.NoError(err)

	s.NotEqual(first.ID, second.ID)
}

func (s *PricingServiceSuite) TestMissingTaxZoneFlagged() {
	pctx := s.usContext()
	pctx.ShippingAddress = types.Address{Country: "CA", State: "ON"}
	pctx.ShippingMethodID = ""

	result, err := s.service.Price(s.GetContext(), pctx)
	s.NoError(err)
	s.Contains(result.Flags, cart.FlagTaxZoneNotFound)
	s.Contains(result.Flags, cart.FlagShippingZoneNotFound)
	s.True(result.TaxTotal.IsZero())
	s.True(result.ShippingTotal.IsZero())
	s.True(result.GrandTotal.Equal(decimal.NewFromInt(90)))
}

func (s *PricingServiceSuite) TestCouponRejectedFlagged() {
	pctx := s.usContext()
	pctx.CouponCode = "BOGUS"

	result, err := s.service.Price(s.GetContext(), pctx)
	s.NoError(err)
	s.Contains(result.Flags, cart.FlagCouponRejected)
	s.NotNil(result.CouponRejection)
	// The sitewide discount still applies
	s.True(result.DiscountTotal.Equal(decimal.NewFromInt(10)))
}

func (s *PricingServiceSuite) TestFreeShippingEndToEnd() {
	s.GetStores().DiscountRepo.(*testutil.InMemoryDiscountStore).Add(&discount.Discount{
		ID:     "disc_freeship",
		Type:   types.DiscountTypeFreeShipping,
		Status: types.StatusActive,
	})

	result, err := s.service.Price(s.GetContext(), s.usContext())
	s.NoError(err)
	s.True(result.ShippingTotal.IsZero())
	s.True(result.FreeShippingApplied)
}

func (s *PricingServiceSuite) TestNoShippingMethodSkipsShipping() {
	pctx := s.usContext()
	pctx.ShippingMethodID = ""

	result, err := s.service.Price(s.GetContext(), pctx)
	s.NoError(err)
	s.True(result.ShippingTotal.IsZero())
	s.False(result.FreeShippingApplied)
}

func (s *PricingServiceSuite) TestNoShippingRateAborts() {
	maxWeight := decimal.NewFromInt(1)
	s.GetStores().ShippingRepo.(*testutil.InMemoryShippingStore).Clear()
	s.GetStores().ShippingRepo.(*testutil.InMemoryShippingStore).AddMethod(&shippingrate.ShippingMethod{
		ID:     "method_standard",
		Name:   "Standard",
		Status: types.StatusActive,
	})
	s.GetStores().ShippingRepo.(*testutil.InMemoryShippingStore).AddRate(&shippingrate.ShippingRate{
		ID:            "rate_light",
		ZoneID:        "zone_ship_us",
		MethodID:      "method_standard",
		Currency:      "usd",
		BaseRate:      decimal.NewFromInt(5),
		MaximumWeight: &maxWeight,
		Status:        types.StatusActive,
	})

	_, err := s.service.Price(s.GetContext(), s.usContext())
	s.Error(err)
	s.True(ierr.IsNoShippingRate(err))
}

func (s *PricingServiceSuite) TestPresentmentCurrencyConversion() {
	s.GetStores().ExchangeRateRepo.(*testutil.InMemoryExchangeRateStore).Add(&exchangerate.ExchangeRate{
		ID:           "fx_usd_eur",
		FromCurrency: "usd",
		ToCurrency:   "eur",
		Rate:         decimal.RequireFromString("0.90"),
		Status:       types.StatusActive,
	})

	pctx := s.usContext()
	pctx.PresentmentCurrency = "eur"

	result, err := s.service.Price(s.GetContext(), pctx)
	s.NoError(err)
	s.Equal("eur", result.Currency)
	s.True(result.Subtotal.Equal(decimal.NewFromInt(90)))
	s.True(result.DiscountTotal.Equal(decimal.NewFromInt(9)))
	s.True(result.ShippingTotal.Equal(decimal.RequireFromString("7.2")))
	s.True(result.TaxTotal.Equal(decimal.RequireFromString("6.48")), "tax: %s", result.TaxTotal)

	expected := result.Subtotal.Sub(result.DiscountTotal).Add(result.TaxTotal).Add(result.ShippingTotal)
	s.True(result.GrandTotal.Equal(expected))
}

func (s *PricingServiceSuite) TestMissingExchangeRateAborts() {
	pctx := s.usContext()
	pctx.PresentmentCurrency = "jpy"

	_, err := s.service.Price(s.GetContext(), pctx)
	s.Error(err)
	s.True(ierr.IsMissingExchangeRate(err))
}

func (s *PricingServiceSuite) TestValidationFailures() {
	tests := []struct {
		name   string
		mutate func(*cart.PricingContext)
	}{
		{"missing currency", func(p *cart.PricingContext) { p.Currency = "" }},
		{"zero timestamp", func(p *cart.PricingContext) { p.Now = time.Time{} }},
		{"zero quantity", func(p *cart.PricingContext) { p.Lines[0].Quantity = 0 }},
		{"negative quantity", func(p *cart.PricingContext) { p.Lines[0].Quantity = -1 }},
		{"negative unit price", func(p *cart.PricingContext) { p.Lines[0].UnitPrice = decimal.NewFromInt(-5) }},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			pctx := s.usContext()
			tt.mutate(&pctx)
			_, err := s.service.Price(s.GetContext(), pctx)
			s.Error(err)
			s.True(ierr.IsValidation(err))
		})
	}
}

func (s *PricingServiceSuite) TestRoundedToCurrencyPrecision() {
	pctx := s.usContext()
	pctx.Lines[0].UnitPrice = decimal.RequireFromString("33.333")
	pctx.Lines[0].Quantity = 1
	pctx.Lines[0].Weight = decimal.Zero

	result, err := s.service.Price(s.GetContext(), pctx)
	s.NoError(err)
	s.True(result.Subtotal.Equal(result.Subtotal.Round(2)))
	s.True(result.TaxTotal.Equal(result.TaxTotal.Round(2)))
	s.True(result.GrandTotal.Equal(result.GrandTotal.Round(2)))
}
