package types

import "strings"

// CurrencyConfig describes how amounts in a currency are displayed and rounded.
type CurrencyConfig struct {
	Symbol    string
	Precision int32
}

// currencyConfigs is a map of 3 digit ISO currency codes to their config.
// TODO add more currencies or look for a library
var currencyConfigs = map[string]CurrencyConfig{
	"usd": {Symbol: "$", Precision: 2},
	"eur": {Symbol: "€", Precision: 2},
	"gbp": {Symbol: "£", Precision: 2},
	"aud": {Symbol: "AU$", Precision: 2},
	"cad": {Symbol: "CA$", Precision: 2},
	"chf": {Symbol: "CHF", Precision: 2},
	"sek": {Symbol: "kr", Precision: 2},
	"nzd": {Symbol: "NZ$", Precision: 2},
	"hkd": {Symbol: "HK$", Precision: 2},
	"sgd": {Symbol: "S$", Precision: 2},
	"jpy": {Symbol: "¥", Precision: 0},
	"cny": {Symbol: "¥", Precision: 2},
	"inr": {Symbol: "₹", Precision: 2},
	"brl": {Symbol: "R$", Precision: 2},
	"mxn": {Symbol: "MX$", Precision: 2},
	"krw": {Symbol: "₩", Precision: 0},
	"try": {Symbol: "₺", Precision: 2},
	"zar": {Symbol: "R", Precision: 2},
	"myr": {Symbol: "RM", Precision: 2},
	"kwd": {Symbol: "KD", Precision: 3},
	"bhd": {Symbol: "BD", Precision: 3},
}

// NormalizeCurrency lower-cases a currency code. All engine comparisons are on
// the normalized form.
func NormalizeCurrency(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// GetCurrencyConfig returns the config for a given currency code with a
// two-decimal fallback for unknown codes.
func GetCurrencyConfig(code string) CurrencyConfig {
	if config, ok := currencyConfigs[NormalizeCurrency(code)]; ok {
		return config
	}
	return CurrencyConfig{Symbol: code, Precision: 2}
}

// GetCurrencyPrecision returns the number of decimal places for a currency
func GetCurrencyPrecision(code string) int32 {
	return GetCurrencyConfig(code).Precision
}

// GetCurrencySymbol returns the symbol for a given currency code
// if the code is not found, it returns the code itself
func GetCurrencySymbol(code string) string {
	return GetCurrencyConfig(code).Symbol
}

// IsMatchingCurrency compares two currency codes after normalization
func IsMatchingCurrency(a, b string) bool {
	return NormalizeCurrency(a) == NormalizeCurrency(b)
}
