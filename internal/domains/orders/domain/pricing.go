package domain

import "strings"

const (
	// BasePrice is the list price in whole rupees.
	BasePrice = 249
	// CouponCode is the only coupon the storefront honours.
	CouponCode = "HUSN40"
	// CouponPercentPayable is the share of BasePrice charged with the coupon.
	CouponPercentPayable = 60
	// CODSurcharge is added to every cash-on-delivery order.
	CODSurcharge = 40

	legacyDiscountedRevenue = 149
	legacyFullRevenue       = 249
)

// NormalizeCoupon trims and upper-cases a coupon so lookups are case-insensitive.
func NormalizeCoupon(coupon string) string {
	return strings.ToUpper(strings.TrimSpace(coupon))
}

// CouponApplied reports whether coupon unlocks the discount.
func CouponApplied(coupon string) bool {
	return NormalizeCoupon(coupon) == CouponCode
}

// OnlinePrice is floor(249 * 0.6) with the coupon, 249 otherwise.
func OnlinePrice(coupon string) int {
	if CouponApplied(coupon) {
		return BasePrice * CouponPercentPayable / 100
	}
	return BasePrice
}

// CODPrice adds the flat cash surcharge to the online price.
func CODPrice(coupon string) int {
	return OnlinePrice(coupon) + CODSurcharge
}

// LegacyRevenue is the per-order revenue used by the historical dashboard chart.
// It ignores the stored price and therefore omits COD surcharges.
func LegacyRevenue(coupon string) int {
	if CouponApplied(coupon) {
		return legacyDiscountedRevenue
	}
	return legacyFullRevenue
}
