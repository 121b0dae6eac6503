package enums

import "fmt"

// ProductCategory buckets catalog products for favorite-category discounts.
type ProductCategory string

const (
	ProductCategoryProduce   ProductCategory = "produce"
	ProductCategoryDairy     ProductCategory = "dairy"
	ProductCategoryBakery    ProductCategory = "bakery"
	ProductCategoryMeat      ProductCategory = "meat"
	ProductCategorySnacks    ProductCategory = "snacks"
	ProductCategoryBeverages ProductCategory = "beverages"
	ProductCategoryHousehold ProductCategory = "household"
	ProductCategoryFrozen    ProductCategory = "frozen"
)

var validProductCategories = []ProductCategory{
	ProductCategoryProduce,
	ProductCategoryDairy,
	ProductCategoryBakery,
	ProductCategoryMeat,
	ProductCategorySnacks,
	ProductCategoryBeverages,
	ProductCategoryHousehold,
	ProductCategoryFrozen,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
