package output

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFormatEuro(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0,00 €"},
		{"1234.56", "1 234,56 €"},
		{"1234567.8", "1 234 567,80 €"},
		{"999", "999,00 €"},
		{"-1234.56", "-1 234,56 €"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatEuro(dec(tt.in)), "FormatEuro(%s)", tt.in)
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "18,6 %", FormatPercent(dec("18.6")))
	assert.Equal(t, "15,5 %", FormatPercent(dec("15.5")))
	assert.Equal(t, "0,5 %", FormatPercent(dec("0.5")))
}
