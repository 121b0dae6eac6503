package enums

import "fmt"

// PointEventType records the direction of a point ledger mutation.
type PointEventType string

const (
	PointEventTypeAccrual    PointEventType = "accrual"
	PointEventTypeRedemption PointEventType = "redemption"
)

var validPointEventTypes = []PointEventType{
	PointEventTypeAccrual,
	PointEventTypeRedemption,
}

// String implements fmt.Stringer.
func (p PointEventType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PointEventType.
func (p PointEventType) IsValid() bool {
	for _, candidate := range validPointEventTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePointEventType converts raw input into a PointEventType.
func ParsePointEventType(value string) (PointEventType, error) {
	for _, candidate := range validPointEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid point event type %q", value)
}
