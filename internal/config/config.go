package config

import (
	"errors"
	"strings"

	"github.com/merchantkit/pricing/internal/types"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Logging LoggingConfig `validate:"required"`
	Pricing PricingConfig `validate:"required"`
	Store   StoreConfig   `validate:"required"`
}

type LoggingConfig struct {
	Level string `validate:"required,oneof=debug info warn error"`
}

// PricingConfig pins the pricing policy decisions the engine must not guess at
// runtime: the rounding mode for "standard" rounding and the base combinable
// discounts stack against.
type PricingConfig struct {
	RoundingMode    types.RoundingMode   `mapstructure:"rounding_mode" validate:"required"`
	StackingPolicy  types.StackingPolicy `mapstructure:"stacking_policy" validate:"required"`
	DefaultCurrency string               `mapstructure:"default_currency" validate:"required,len=3"`
	// RoundingIncrement is only consulted when RoundingMode is to_increment
	// (e.g. 0.05 for cash rounding)
	RoundingIncrement float64 `mapstructure:"rounding_increment"`
}

// StoreConfig carries the store registration facts pricing depends on.
// HomeState vs the ship-to state decides the CGST+SGST vs IGST split.
type StoreConfig struct {
	HomeCountry          string `mapstructure:"home_country" validate:"required,len=2"`
	HomeState            string `mapstructure:"home_state"`
	DefaultTaxCategoryID string `mapstructure:"default_tax_category_id"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/merchantkit")

	v.SetEnvPrefix("PRICING")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("pricing.rounding_mode", string(types.RoundingModeStandard))
	v.SetDefault("pricing.stacking_policy", string(types.StackingPolicyRemainingAmount))
	v.SetDefault("pricing.default_currency", "usd")
	v.SetDefault("store.home_country", "US")
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if err := c.Pricing.RoundingMode.Validate(); err != nil {
		return err
	}
	return c.Pricing.StackingPolicy.Validate()
}

// GetDefaultConfig returns a default configuration for local development
// and tests.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Logging: LoggingConfig{Level: "debug"},
		Pricing: PricingConfig{
			RoundingMode:    types.RoundingModeStandard,
			StackingPolicy:  types.StackingPolicyRemainingAmount,
			DefaultCurrency: "usd",
		},
		Store: StoreConfig{
			HomeCountry: "US",
			HomeState:   "CA",
		},
	}
}
