package loyalty

import (
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
)

// AccruedPoints computes the points earned for a purchase total: one point
// per accrualDivisor rupiah, rounded down. Never negative.
func AccruedPoints(total, accrualDivisor int) (int, error) {
	if total < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "purchase total cannot be negative")
	}
	if accrualDivisor <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "accrual divisor must be positive")
	}
	return total / accrualDivisor, nil
}

// RedemptionCash converts points to rupiah at the fixed exchange rate.
func RedemptionCash(points, redeemRate int) int {
	if points <= 0 || redeemRate <= 0 {
		return 0
	}
	return points * redeemRate
}
