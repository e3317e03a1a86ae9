package types

import (
	"github.com/samber/lo"
)

// ZoneKind distinguishes tax zones from shipping zones. A cart resolves at
// most one zone of each kind per pricing run.
type ZoneKind string

const (
	ZoneKindTax      ZoneKind = "tax"
	ZoneKindShipping ZoneKind = "shipping"
)

func (k ZoneKind) String() string {
	return string(k)
}

func (k ZoneKind) Validate() error {
	allowed := []ZoneKind{
		ZoneKindTax,
		ZoneKindShipping,
	}
	if !lo.Contains(allowed, k) {
		return errInvalidEnum("zone_kind", string(k))
	}
	return nil
}
