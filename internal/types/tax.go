package types

import (
	"github.com/samber/lo"
)

// TaxRateType represents how a tax rate computes its amount
type TaxRateType string

const (
	// TaxRateTypePercentage computes tax as a percentage of the taxable base
	TaxRateTypePercentage TaxRateType = "percentage"
	// TaxRateTypeFixed adds a flat amount per taxed line
	TaxRateTypeFixed TaxRateType = "fixed"
)

func (t TaxRateType) String() string {
	return string(t)
}

func (t TaxRateType) Validate() error {
	allowed := []TaxRateType{
		TaxRateTypePercentage,
		TaxRateTypeFixed,
	}
	if !lo.Contains(allowed, t) {
		return errInvalidEnum("tax_rate_type", string(t))
	}
	return nil
}

// GSTTreatment marks a rate as a GST rate whose configured percentage is
// split by jurisdiction: intra-state orders pay CGST+SGST (half each),
// inter-state orders pay IGST at the full configured percentage.
type GSTTreatment string

const (
	GSTTreatmentNone GSTTreatment = "none"
	GSTTreatmentGST  GSTTreatment = "gst"
)

func (g GSTTreatment) String() string {
	return string(g)
}

func (g GSTTreatment) Validate() error {
	allowed := []GSTTreatment{
		GSTTreatmentNone,
		GSTTreatmentGST,
	}
	if !lo.Contains(allowed, g) {
		return errInvalidEnum("gst_treatment", string(g))
	}
	return nil
}

// GSTComponent names the jurisdiction component a GST breakdown row belongs to
type GSTComponent string

const (
	GSTComponentCGST GSTComponent = "cgst"
	GSTComponentSGST GSTComponent = "sgst"
	GSTComponentIGST GSTComponent = "igst"
)
