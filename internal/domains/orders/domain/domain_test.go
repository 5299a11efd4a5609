package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPricing(t *testing.T) {
	cases := []struct {
		coupon string
		online int
		cod    int
	}{
		{coupon: "HUSN40", online: 149, cod: 189},
		{coupon: "husn40", online: 149, cod: 189},
		{coupon: "  Husn40 ", online: 149, cod: 189},
		{coupon: "", online: 249, cod: 289},
		{coupon: "HUSN50", online: 249, cod: 289},
	}
	for _, tc := range cases {
		t.Run(tc.coupon, func(t *testing.T) {
			require.Equal(t, tc.online, OnlinePrice(tc.coupon))
			require.Equal(t, tc.cod, CODPrice(tc.coupon))
			require.Equal(t, tc.online, LegacyRevenue(tc.coupon))
		})
	}
}

func TestVerifySignature_RoundTrip(t *testing.T) {
	inputs := [][3]string{
		{"order_Nx1", "pay_Q2", "s3cr3t"},
		{"", "", "k"},
		{"order|with|pipes", "pay_✓", "another-secret"},
	}
	for _, in := range inputs {
		sig := Sign(in[0], in[1], in[2])
		require.True(t, VerifySignature(in[0], in[1], sig, in[2]))

		for i := range sig {
			flipped := []byte(sig)
			if flipped[i] == 'a' {
				flipped[i] = 'b'
			} else {
				flipped[i] = 'a'
			}
			require.False(t, VerifySignature(in[0], in[1], string(flipped), in[2]), "flip at %d", i)
		}
		require.False(t, VerifySignature(in[0], in[1], sig, in[2]+"x"))
		require.False(t, VerifySignature(in[0], in[1], strings.ToUpper(sig)+"0", in[2]))
	}
}

func TestSign_Deterministic(t *testing.T) {
	require.Len(t, Sign("order_1", "pay_1", "secret"), 64)
	require.Equal(t, Sign("order_1", "pay_1", "secret"), Sign("order_1", "pay_1", "secret"))
	require.NotEqual(t, Sign("order_1", "pay_1", "secret"), Sign("order_1|", "pay_1", "secret"))
}

func TestStatusTransitions(t *testing.T) {
	require.NoError(t, StatusPending.ValidateTransition(StatusDelivering))
	require.NoError(t, StatusDelivering.ValidateTransition(StatusDone))
	require.NoError(t, StatusPending.ValidateTransition(StatusDone))
	require.NoError(t, StatusDone.ValidateTransition(StatusDone))

	require.ErrorIs(t, StatusDone.ValidateTransition(StatusDelivering), ErrStatusRegression)
	require.ErrorIs(t, StatusDone.ValidateTransition(StatusPending), ErrStatusRegression)
	require.ErrorIs(t, StatusDelivering.ValidateTransition(StatusPending), ErrStatusRegression)
	require.ErrorIs(t, StatusPending.ValidateTransition(Status("shipped")), ErrInvalidStatus)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Delivering ")
	require.NoError(t, err)
	require.Equal(t, StatusDelivering, s)

	_, err = ParseStatus("cancelled")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestNewCustomer(t *testing.T) {
	c, err := NewCustomer(" Asha Verma ", "12 Lake Road, Pune, MH 411001", "9876543210", "")
	require.NoError(t, err)
	require.Equal(t, "Asha Verma", c.Name)

	cases := map[string]struct {
		name, address, mobile, alt string
		want                       error
	}{
		"short name":     {"Al", "12 Lake Road, Pune", "9876543210", "", ErrInvalidName},
		"short address":  {"Asha", "Pune", "9876543210", "", ErrInvalidAddress},
		"mobile letters": {"Asha", "12 Lake Road, Pune", "98765abcde", "", ErrInvalidMobile},
		"mobile 11":      {"Asha", "12 Lake Road, Pune", "98765432101", "", ErrInvalidMobile},
		"bad alternate":  {"Asha", "12 Lake Road, Pune", "9876543210", "12345", ErrInvalidAlternateMobile},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewCustomer(tc.name, tc.address, tc.mobile, tc.alt)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDayRange(t *testing.T) {
	day, err := ParseDay("2024-05-01")
	require.NoError(t, err)
	start, end := DayRange(day)
	require.Equal(t, "2024-04-30T18:30:00Z", start.UTC().Format(time.RFC3339))
	require.Equal(t, "2024-05-01T18:30:00Z", end.UTC().Format(time.RFC3339))

	require.Equal(t, "2024-05-02", DayLabel(time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC)))
	require.Equal(t, "2024-05-01", DayLabel(time.Date(2024, 5, 1, 18, 29, 59, 0, time.UTC)))
}

func TestNewCODOrderID(t *testing.T) {
	now := time.UnixMilli(1714550400123)
	require.Equal(t, "HH400123", NewCODOrderID(now))
	require.Equal(t, "HH000042", NewCODOrderID(time.UnixMilli(3_000_042)))
}

func TestNewCODOrder(t *testing.T) {
	c, err := NewCustomer("Asha Verma", "12 Lake Road, Pune, MH 411001", "9876543210", "")
	require.NoError(t, err)
	order, err := NewCODOrder(c, "HH123456", "husn40", time.Now())
	require.NoError(t, err)
	require.Equal(t, 189, order.Price)
	require.Equal(t, "HUSN40", order.Coupon)
	require.Equal(t, CODTransactionID, order.TransactionID)
	require.Equal(t, StatusPending, order.Status)
	require.True(t, order.CouponApplied())

	_, err = NewOnlineOrder(c, "order_1", "", "", time.Now())
	require.ErrorIs(t, err, ErrMissingTransactionID)
	_, err = NewOnlineOrder(c, "order_1", CODTransactionID, "", time.Now())
	require.ErrorIs(t, err, ErrCODTransaction)
}
