package enums

// DiscountSource names which rule produced the applied discount.
type DiscountSource string

const (
	DiscountSourcePromotion  DiscountSource = "promotion"
	DiscountSourceMembership DiscountSource = "membership"
)

var validDiscountSources = []DiscountSource{
	DiscountSourcePromotion,
	DiscountSourceMembership,
}

// String implements fmt.Stringer.
func (d DiscountSource) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountSource.
func (d DiscountSource) IsValid() bool {
	for _, candidate := range validDiscountSources {
		if candidate == d {
			return true
		}
	}
	return false
}
