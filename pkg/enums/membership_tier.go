package enums

import "fmt"

// MembershipTier classifies a customer from join date and recent purchase frequency.
type MembershipTier string

const (
	MembershipTierNew      MembershipTier = "new"
	MembershipTierActive   MembershipTier = "active"
	MembershipTierLoyal    MembershipTier = "loyal"
	MembershipTierInactive MembershipTier = "inactive"
)

var validMembershipTiers = []MembershipTier{
	MembershipTierNew,
	MembershipTierActive,
	MembershipTierLoyal,
	MembershipTierInactive,
}

// String implements fmt.Stringer.
func (t MembershipTier) String() string {
	return string(t)
}

// IsValid reports whether the value is a known MembershipTier.
func (t MembershipTier) IsValid() bool {
	for _, candidate := range validMembershipTiers {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseMembershipTier converts raw input into a MembershipTier.
func ParseMembershipTier(value string) (MembershipTier, error) {
	for _, candidate := range validMembershipTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid membership tier %q", value)
}
