package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	assert.NoError(t, err)
	return v
}

func TestRound_HalfAwayFromZero(t *testing.T) {
	cases := []struct{ in, want string }{
		{"10.005", "10.01"},
		{"10.004", "10"},
		{"2.675", "2.68"},
		{"-10.005", "-10.01"},
		{"0", "0"},
		{"100", "100"},
		{"99.999", "100"},
	}
	for _, c := range cases {
		got := Round(d(t, c.in))
		assert.True(t, got.Equal(d(t, c.want)), "Round(%s) = %s, want %s", c.in, got, c.want)
	}
}

func TestFromPtr(t *testing.T) {
	assert.True(t, FromPtr(nil).IsZero())

	v := d(t, "12.345")
	assert.True(t, FromPtr(&v).Equal(d(t, "12.35")))
}

func TestMax(t *testing.T) {
	a, b := d(t, "250"), d(t, "493.50")
	assert.True(t, Max(a, b).Equal(b))
	assert.True(t, Max(b, a).Equal(b))
	assert.True(t, Max(a, a).Equal(a))
}
