package membership

import (
	"sort"
	"time"

	"github.com/freshmart/freshmart-backend/pkg/config"
	"github.com/freshmart/freshmart-backend/pkg/enums"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
)

// Thresholds drive tier classification. The legacy storefront hard-coded a
// different pair on every screen; these come from configuration and are the
// only pair the platform recognizes.
type Thresholds struct {
	Loyal           int
	Active          int
	RecentWindow    time.Duration
	InactiveWindow  time.Duration
	NewMemberWindow time.Duration
}

// DefaultThresholds mirrors the config defaults (5 loyal / 2 active over 7 days).
func DefaultThresholds() Thresholds {
	return Thresholds{
		Loyal:           5,
		Active:          2,
		RecentWindow:    7 * 24 * time.Hour,
		InactiveWindow:  30 * 24 * time.Hour,
		NewMemberWindow: 7 * 24 * time.Hour,
	}
}

// ThresholdsFromConfig converts the env-driven config into classifier thresholds.
func ThresholdsFromConfig(cfg config.MembershipConfig) Thresholds {
	th := DefaultThresholds()
	if cfg.LoyalThreshold > 0 {
		th.Loyal = cfg.LoyalThreshold
	}
	if cfg.ActiveThreshold > 0 {
		th.Active = cfg.ActiveThreshold
	}
	if cfg.RecentWindow > 0 {
		th.RecentWindow = cfg.RecentWindow
	}
	if cfg.InactiveWindow > 0 {
		th.InactiveWindow = cfg.InactiveWindow
	}
	if cfg.NewMemberWindow > 0 {
		th.NewMemberWindow = cfg.NewMemberWindow
	}
	return th
}

// Classify derives the membership tier from the join date and purchase
// timestamps. Pure function: same inputs, same tier. Rules are evaluated in
// order, first match wins:
//
//  1. joined inside the new-member window with no purchases at all -> New
//  2. purchases inside the recent window >= loyal threshold -> Loyal
//  3. purchases inside the recent window >= active threshold -> Active
//  4. no purchase inside the inactive window -> Inactive
//  5. otherwise -> Active
func Classify(joinedAt time.Time, purchaseTimes []time.Time, now time.Time, th Thresholds) (enums.MembershipTier, error) {
	if now.Before(joinedAt) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "now precedes join date")
	}

	if now.Sub(joinedAt) < th.NewMemberWindow && len(purchaseTimes) == 0 {
		return enums.MembershipTierNew, nil
	}

	recent := 0
	recentInactiveWindow := 0
	for _, ts := range purchaseTimes {
		age := now.Sub(ts)
		if age < 0 {
			continue
		}
		if age <= th.RecentWindow {
			recent++
		}
		if age <= th.InactiveWindow {
			recentInactiveWindow++
		}
	}

	switch {
	case recent >= th.Loyal:
		return enums.MembershipTierLoyal, nil
	case recent >= th.Active:
		return enums.MembershipTierActive, nil
	case recentInactiveWindow == 0:
		return enums.MembershipTierInactive, nil
	default:
		return enums.MembershipTierActive, nil
	}
}

// CategoryQuantity pairs a product category with a purchased quantity.
type CategoryQuantity struct {
	Category enums.ProductCategory
	Quantity int
}

// FavoriteCategory returns the category with the highest cumulative purchased
// quantity. Ties break toward the lexicographically smaller category so the
// result is deterministic. Returns false when there is no purchase history.
func FavoriteCategory(items []CategoryQuantity) (enums.ProductCategory, bool) {
	totals := map[enums.ProductCategory]int{}
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		totals[item.Category] += item.Quantity
	}
	if len(totals) == 0 {
		return "", false
	}

	categories := make([]enums.ProductCategory, 0, len(totals))
	for category := range totals {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	best := categories[0]
	for _, category := range categories[1:] {
		if totals[category] > totals[best] {
			best = category
		}
	}
	return best, true
}
