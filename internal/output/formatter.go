package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"

	"github.com/Starsku/pea-helper/internal/domain"
)

// Formatter renders a GainResult into a byte stream for one output
// format.
type Formatter interface {
	Name() string
	Format(result *domain.GainResult) ([]byte, error)
}

// GetFormatterByName returns the formatter registered under the given
// name, or nil when there is none.
func GetFormatterByName(name string) Formatter {
	switch name {
	case "console":
		return ConsoleFormatter{}
	case "json":
		return JSONFormatter{}
	case "csv":
		return CSVFormatter{}
	default:
		return nil
	}
}

// FormatterNames lists the registered formatter names for CLI help.
func FormatterNames() []string {
	return []string{"console", "json", "csv"}
}

// JSONFormatter emits the result as indented JSON, field names matching
// the historical bordereau vocabulary.
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Format(result *domain.GainResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// CSVFormatter emits a summary block followed by the per-period rows when
// the historical breakdown is present.
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(result *domain.GainResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	summary := [][]string{
		{"Withdrawal Amount", result.WithdrawalAmount.StringFixed(2)},
		{"Total Gain", result.TotalGain.StringFixed(2)},
		{"Taxable Base", result.TaxableBase.StringFixed(2)},
		{"Effective Rate %", result.EffectiveRate.StringFixed(2)},
		{"Total Tax", result.TotalTax.StringFixed(2)},
		{"Net Proceeds", result.NetProceeds.StringFixed(2)},
		{"Plan Age (years)", strconv.FormatFloat(result.PlanAgeYears, 'f', 1, 64)},
		{"Simple Case", strconv.FormatBool(result.SimpleCase)},
		{"Initial Principal", result.InitialPrincipal.StringFixed(2)},
		{"Remaining Principal", result.RemainingPrincipal.StringFixed(2)},
		{"Principal Reimbursed", result.PrincipalReimbursed.StringFixed(2)},
		{"Past Withdrawals", result.PastWithdrawalsTotal.StringFixed(2)},
	}
	for _, row := range summary {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	if len(result.PeriodDetails) > 0 {
		if err := w.Write([]string{}); err != nil {
			return nil, err
		}
		header := []string{"Period", "Gain", "Rate %", "CSG", "CRDS", "PS", "CAPS", "CRSA", "PSOL", "Tax"}
		if err := w.Write(header); err != nil {
			return nil, err
		}
		for _, p := range result.PeriodDetails {
			row := []string{
				p.PeriodLabel,
				p.Gain.StringFixed(2),
				p.RateTotal.StringFixed(2),
				p.Taxes.CSG.StringFixed(2),
				p.Taxes.CRDS.StringFixed(2),
				p.Taxes.PS.StringFixed(2),
				p.Taxes.CAPS.StringFixed(2),
				p.Taxes.CRSA.StringFixed(2),
				p.Taxes.PSOL.StringFixed(2),
				p.Taxes.Total.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
