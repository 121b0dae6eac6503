package membership

import (
	"testing"
	"time"

	"github.com/freshmart/freshmart-backend/pkg/enums"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func daysAgo(days int) time.Time {
	return testNow.Add(-time.Duration(days) * 24 * time.Hour)
}

func repeatTimes(ts time.Time, count int) []time.Time {
	out := make([]time.Time, count)
	for i := range out {
		out[i] = ts
	}
	return out
}

func TestClassify(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name      string
		joinedAt  time.Time
		purchases []time.Time
		want      enums.MembershipTier
	}{
		{
			name:      "fresh join no purchases is new",
			joinedAt:  daysAgo(3),
			purchases: nil,
			want:      enums.MembershipTierNew,
		},
		{
			name:      "fresh join with purchase is not new",
			joinedAt:  daysAgo(3),
			purchases: []time.Time{daysAgo(1)},
			want:      enums.MembershipTierActive,
		},
		{
			name:      "five recent purchases is loyal",
			joinedAt:  daysAgo(90),
			purchases: repeatTimes(daysAgo(2), 5),
			want:      enums.MembershipTierLoyal,
		},
		{
			name:      "two recent purchases is active",
			joinedAt:  daysAgo(90),
			purchases: repeatTimes(daysAgo(2), 2),
			want:      enums.MembershipTierActive,
		},
		{
			name:      "no purchase in thirty days is inactive",
			joinedAt:  daysAgo(90),
			purchases: []time.Time{daysAgo(45)},
			want:      enums.MembershipTierInactive,
		},
		{
			name:      "one purchase in thirty days is active",
			joinedAt:  daysAgo(90),
			purchases: []time.Time{daysAgo(20)},
			want:      enums.MembershipTierActive,
		},
		{
			name:      "old member with empty history is inactive",
			joinedAt:  daysAgo(90),
			purchases: nil,
			want:      enums.MembershipTierInactive,
		},
		{
			name:      "future purchase timestamps are ignored",
			joinedAt:  daysAgo(90),
			purchases: []time.Time{testNow.Add(time.Hour), daysAgo(20)},
			want:      enums.MembershipTierActive,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Classify(tc.joinedAt, tc.purchases, testNow, th)
			if err != nil {
				t.Fatalf("Classify error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s got %s", tc.want, got)
			}
		})
	}
}

func TestClassifyRejectsJoinAfterNow(t *testing.T) {
	_, err := Classify(testNow.Add(time.Hour), nil, testNow, DefaultThresholds())
	if err == nil {
		t.Fatal("expected error for join date after now")
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClassifyIsPure(t *testing.T) {
	th := DefaultThresholds()
	purchases := repeatTimes(daysAgo(1), 3)

	first, err := Classify(daysAgo(60), purchases, testNow, th)
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	second, err := Classify(daysAgo(60), purchases, testNow, th)
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if first != second {
		t.Fatalf("same inputs produced %s then %s", first, second)
	}
}

func TestFavoriteCategory(t *testing.T) {
	items := []CategoryQuantity{
		{Category: enums.ProductCategoryDairy, Quantity: 3},
		{Category: enums.ProductCategoryProduce, Quantity: 5},
		{Category: enums.ProductCategoryDairy, Quantity: 1},
	}

	got, ok := FavoriteCategory(items)
	if !ok {
		t.Fatal("expected a favorite category")
	}
	if got != enums.ProductCategoryProduce {
		t.Fatalf("expected produce, got %s", got)
	}
}

func TestFavoriteCategoryTieBreaksLexicographically(t *testing.T) {
	items := []CategoryQuantity{
		{Category: enums.ProductCategoryProduce, Quantity: 4},
		{Category: enums.ProductCategoryBakery, Quantity: 4},
	}

	got, ok := FavoriteCategory(items)
	if !ok {
		t.Fatal("expected a favorite category")
	}
	if got != enums.ProductCategoryBakery {
		t.Fatalf("expected bakery on tie, got %s", got)
	}
}

func TestFavoriteCategoryEmptyHistory(t *testing.T) {
	if _, ok := FavoriteCategory(nil); ok {
		t.Fatal("expected no favorite for empty history")
	}
	if _, ok := FavoriteCategory([]CategoryQuantity{{Category: enums.ProductCategoryDairy, Quantity: 0}}); ok {
		t.Fatal("zero quantities should not produce a favorite")
	}
}
