package money_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bakery/internal/money"
)

func TestParseCents(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
	}{
		{name: "Plain", in: "12", want: 1200},
		{name: "Decimals", in: "1.50", want: 150},
		{name: "CurrencySign", in: "$1,234.56", want: 123456},
		{name: "RoundsHalfUp", in: "0.125", want: 13},
		{name: "MinusDropped", in: "-5", want: 500},
		{name: "Empty", in: "", want: 0},
		{name: "Garbage", in: "abc", want: 0},
		{name: "TwoDots", in: "1.2.3", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, money.ParseCents(tt.in))
		})
	}
}

func TestParseSignedCents(t *testing.T) {
	got, err := money.ParseSignedCents("-3.25")
	require.NoError(t, err)
	assert.Equal(t, int64(-325), got)

	_, err = money.ParseSignedCents("n/a")
	assert.Error(t, err)
}

func TestParseQuantity(t *testing.T) {
	assert.Equal(t, 12, money.ParseQuantity("12 pcs"))
	assert.Equal(t, 1000, money.ParseQuantity("1,000"))
	assert.Equal(t, 0, money.ParseQuantity("none"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0.00", money.Format(0))
	assert.Equal(t, "12.05", money.Format(1205))
	assert.Equal(t, "-0.50", money.Format(-50))
	assert.Equal(t, "-$3.00", money.FormatDollars(-300))
	assert.Equal(t, "$3.00", money.FormatDollars(300))
}

func TestDiv(t *testing.T) {
	got, ok := money.Div(1000, 3)
	assert.True(t, ok)
	assert.Equal(t, int64(333), got)

	_, ok = money.Div(1000, 0)
	assert.False(t, ok)

	for _, b := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.NotPanics(t, func() {
			_, ok = money.Div(1000, b)
		})
		assert.False(t, ok)
	}
}

func TestMul(t *testing.T) {
	got, ok := money.Mul(58, 2.5)
	assert.True(t, ok)
	assert.Equal(t, int64(145), got)

	for _, qty := range []float64{math.NaN(), math.Inf(1)} {
		assert.NotPanics(t, func() {
			_, ok = money.Mul(58, qty)
		})
		assert.False(t, ok)
	}
}

func TestFromFloat(t *testing.T) {
	assert.Equal(t, int64(17), money.FromFloat(0.17))
	assert.Equal(t, int64(1999), money.FromFloat(19.99))
}
