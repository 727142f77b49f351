package money

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency("VND")
	require.NoError(t, err)
	require.Equal(t, VND, c)

	_, err = ParseCurrency("USD")
	require.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestCurrencyExponent(t *testing.T) {
	require.Equal(t, 0, VND.Exponent())
	require.Equal(t, 2, RUB.Exponent())
}

func TestFormatterNativeVND(t *testing.T) {
	f := NewFormatter(0.0035)

	got := f.Format(Amount(1500000), VND, VND, LangVietnamese)
	require.Contains(t, got, "₫")
	require.NotContains(t, got, ",5") // whole dong, no fraction digits
}

func TestFormatterConvertsForDisplayOnly(t *testing.T) {
	f := NewFormatter(0.0035)

	// 1,000,000 VND at 0.0035 is 3500 RUB, rendered with kopek precision.
	got := f.Format(Amount(1000000), VND, RUB, LangRussian)
	require.Contains(t, got, "₽")

	// RUB accounts render their own minor units untouched.
	native := f.Format(Amount(250050), RUB, RUB, LangRussian)
	require.Contains(t, native, "₽")
}

func TestFormatterZeroRateFallsBack(t *testing.T) {
	f := NewFormatter(0)
	// A zero rate must not divide by zero when going RUB to VND.
	_ = f.Format(Amount(10000), RUB, VND, LangVietnamese)
}

func TestAmountMulQty(t *testing.T) {
	require.Equal(t, Amount(135000), Amount(4500).MulQty(30))
	require.True(t, Amount(-1).IsNegative())
	require.False(t, Amount(0).IsNegative())
}
