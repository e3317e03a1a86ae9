package testutil

import (
	"context"
	"time"

	"github.com/merchantkit/pricing/internal/cache"
	"github.com/merchantkit/pricing/internal/config"
	"github.com/merchantkit/pricing/internal/domain/discount"
	"github.com/merchantkit/pricing/internal/domain/exchangerate"
	"github.com/merchantkit/pricing/internal/domain/redemption"
	"github.com/merchantkit/pricing/internal/domain/shippingrate"
	"github.com/merchantkit/pricing/internal/domain/taxrate"
	"github.com/merchantkit/pricing/internal/domain/zone"
	"github.com/merchantkit/pricing/internal/logger"
	"github.com/merchantkit/pricing/internal/types"

	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	ZoneRepo         zone.Repository
	DiscountRepo     discount.Repository
	RedemptionRepo   redemption.Repository
	TaxRepo          taxrate.Repository
	ShippingRepo     shippingrate.Repository
	ExchangeRateRepo exchangerate.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	cache  cache.Cache
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	s.config = config.GetDefaultConfig()

	var err error
	s.logger, err = logger.NewLogger(s.config.Logging.Level)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.setupStores()
	s.cache = cache.NewInMemoryCache()
	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.ClearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		ZoneRepo:         NewInMemoryZoneStore(),
		DiscountRepo:     NewInMemoryDiscountStore(),
		RedemptionRepo:   NewInMemoryRedemptionStore(),
		TaxRepo:          NewInMemoryTaxStore(),
		ShippingRepo:     NewInMemoryShippingStore(),
		ExchangeRateRepo: NewInMemoryExchangeRateStore(),
	}
}

// ClearStores empties every repository between tests
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores.ZoneRepo.(*InMemoryZoneStore).Clear()
	s.stores.DiscountRepo.(*InMemoryDiscountStore).Clear()
	s.stores.RedemptionRepo.(*InMemoryRedemptionStore).Clear()
	s.stores.TaxRepo.(*InMemoryTaxStore).Clear()
	s.stores.ShippingRepo.(*InMemoryShippingStore).Clear()
	s.stores.ExchangeRateRepo.(*InMemoryExchangeRateStore).Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the fixed test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
