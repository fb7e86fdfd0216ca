// Package output renders a GainResult for humans and machines: a styled
// console report, JSON and CSV formatters, and the CFONB-style PDF
// bordereau.
package output

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatEuro formats an amount the French way: space-grouped thousands,
// comma decimals, trailing euro sign.
func FormatEuro(amount decimal.Decimal) string {
	return frenchNumber(amount) + " €"
}

// FormatPercent formats a percentage with one decimal, French style.
func FormatPercent(rate decimal.Decimal) string {
	return strings.Replace(rate.StringFixed(1), ".", ",", 1) + " %"
}

// frenchNumber renders the amount with two decimals, a comma separator
// and a space between thousand groups.
func frenchNumber(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, " ") + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
