package types

// Status is a type for the lifecycle status of a configuration record
// (zone, discount, tax rate, shipping rate, exchange rate). Records that are
// not active never participate in pricing.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeleted  Status = "deleted"
)

// ParseStatus decodes a persisted status string, failing fast on anything
// outside the closed set rather than falling back to a default.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusInactive, StatusDeleted:
		return Status(s), nil
	default:
		return "", errInvalidEnum("status", s)
	}
}
