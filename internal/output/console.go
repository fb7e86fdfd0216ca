package output

import (
	"fmt"
	"strings"

	"github.com/Starsku/pea-helper/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	valueStyle = lipgloss.NewStyle().
			Bold(true)

	taxStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	netStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// ConsoleFormatter renders the result as a styled terminal report.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(result *domain.GainResult) ([]byte, error) {
	var b strings.Builder

	b.WriteString(titleStyle.Render("PRELEVEMENTS SOCIAUX SUR RETRAIT PEA"))
	b.WriteString("\n\n")

	writeLine := func(label string, value string) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-34s", label)), value)
	}

	b.WriteString(sectionStyle.Render("PLAN"))
	b.WriteString("\n")
	writeLine("Age du plan", fmt.Sprintf("%.1f ans", result.PlanAgeYears))
	mode := "taux historiques"
	if result.SimpleCase {
		mode = "taux unique (cas simple)"
	}
	writeLine("Mode de calcul", valueStyle.Render(mode))
	writeLine("Capital initial (versements)", valueStyle.Render(FormatEuro(result.InitialPrincipal)))
	writeLine("Capital restant", valueStyle.Render(FormatEuro(result.RemainingPrincipal)))
	if result.PastWithdrawalsTotal.IsPositive() {
		writeLine("Cumul retraits passes", FormatEuro(result.PastWithdrawalsTotal))
		writeLine("Cumul versements rembourses", FormatEuro(result.PrincipalReimbursed))
	}
	writeLine("Gain total du plan", valueStyle.Render(FormatEuro(result.TotalGain)))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("RETRAIT"))
	b.WriteString("\n")
	writeLine("Montant brut", valueStyle.Render(FormatEuro(result.WithdrawalAmount)))
	writeLine("Part de capital (exoneree)", FormatEuro(result.WithdrawalAmount.Sub(result.TaxableBase)))
	writeLine("Assiette de gain (taxable)", valueStyle.Render(FormatEuro(result.TaxableBase)))
	writeLine("Taux effectif", FormatPercent(result.EffectiveRate))
	b.WriteString("\n")

	if len(result.PeriodDetails) > 0 {
		b.WriteString(sectionStyle.Render("VENTILATION PAR PERIODE"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s\n", mutedStyle.Render(fmt.Sprintf("%-26s %14s %9s %14s", "Periode", "Gain", "Taux", "Prelevements")))
		for _, p := range result.PeriodDetails {
			fmt.Fprintf(&b, "%-26s %14s %9s %14s\n",
				p.PeriodLabel,
				FormatEuro(p.Gain),
				FormatPercent(p.RateTotal),
				taxStyle.Render("-"+FormatEuro(p.Taxes.Total)))
		}
		b.WriteString("\n")
	}

	if result.TaxByComponent != nil {
		b.WriteString(sectionStyle.Render("CONTRIBUTIONS PAR COMPOSANTE"))
		b.WriteString("\n")
		tc := result.TaxByComponent
		components := []struct {
			name   string
			amount string
		}{
			{"CSG", FormatEuro(tc.CSG)},
			{"CRDS", FormatEuro(tc.CRDS)},
			{"Prelevement Social", FormatEuro(tc.PS)},
			{"CAPS", FormatEuro(tc.CAPS)},
			{"CRSA", FormatEuro(tc.CRSA)},
			{"Prelevement de Solidarite", FormatEuro(tc.PSOL)},
		}
		for _, c := range components {
			writeLine(c.name, c.amount)
		}
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render("SYNTHESE"))
	b.WriteString("\n")
	writeLine("Total contributions sociales", taxStyle.Render("-"+FormatEuro(result.TotalTax)))
	writeLine("Net a percevoir", netStyle.Render(FormatEuro(result.NetProceeds)))

	return []byte(b.String()), nil
}
