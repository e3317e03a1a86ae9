package types

import (
	ierr "github.com/merchantkit/pricing/internal/errors"
)

// errInvalidEnum is the shared failure for persisted enum strings outside
// their closed set. Invalid values must fail at the load boundary, never
// propagate as a default.
func errInvalidEnum(field, value string) error {
	return ierr.NewError("invalid " + field).
		WithHintf("Unknown %s %q", field, value).
		WithReportableDetails(map[string]any{
			"field": field,
			"value": value,
		}).
		Mark(ierr.ErrValidation)
}
