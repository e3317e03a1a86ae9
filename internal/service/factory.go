package service

import (
	"github.com/merchantkit/pricing/internal/cache"
	"github.com/merchantkit/pricing/internal/config"
	"github.com/merchantkit/pricing/internal/domain/discount"
	"github.com/merchantkit/pricing/internal/domain/exchangerate"
	"github.com/merchantkit/pricing/internal/domain/redemption"
	"github.com/merchantkit/pricing/internal/domain/shippingrate"
	"github.com/merchantkit/pricing/internal/domain/taxrate"
	"github.com/merchantkit/pricing/internal/domain/zone"
	"github.com/merchantkit/pricing/internal/idempotency"
	"github.com/merchantkit/pricing/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache

	// Repositories
	ZoneRepo         zone.Repository
	DiscountRepo     discount.Repository
	RedemptionRepo   redemption.Repository
	TaxRepo          taxrate.Repository
	ShippingRepo     shippingrate.Repository
	ExchangeRateRepo exchangerate.Repository

	// Generators
	IdempotencyGenerator *idempotency.Generator
}

// NewServiceParams wires the common dependency set used by every service
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	cache cache.Cache,
	zoneRepo zone.Repository,
	discountRepo discount.Repository,
	redemptionRepo redemption.Repository,
	taxRepo taxrate.Repository,
	shippingRepo shippingrate.Repository,
	exchangeRateRepo exchangerate.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:               logger,
		Config:               config,
		Cache:                cache,
		ZoneRepo:             zoneRepo,
		DiscountRepo:         discountRepo,
		RedemptionRepo:       redemptionRepo,
		TaxRepo:              taxRepo,
		ShippingRepo:         shippingRepo,
		ExchangeRateRepo:     exchangeRateRepo,
		IdempotencyGenerator: idempotency.NewGenerator(),
	}
}
