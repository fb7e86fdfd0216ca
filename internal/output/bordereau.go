package output

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/Starsku/pea-helper/internal/domain"
	"github.com/Starsku/pea-helper/internal/rates"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const (
	bordPageWidth  = 210.0
	bordMarginLeft = 15.0
	bordMarginTop  = 15.0
	bordContentW   = bordPageWidth - 2*bordMarginLeft
	bordLabelW     = bordContentW - 45.0
	bordValueW     = 45.0
)

// BordereauRenderer produces the CFONB-style statement laying out the
// valuation checkpoints, principal figures and contribution amounts
// behind a priced withdrawal.
type BordereauRenderer struct {
	pdf    *fpdf.Fpdf
	result *domain.GainResult
	plan   *domain.Plan
}

// RenderBordereau renders the statement to PDF bytes.
func RenderBordereau(result *domain.GainResult, plan *domain.Plan) ([]byte, error) {
	r := &BordereauRenderer{
		pdf:    fpdf.New("P", "mm", "A4", ""),
		result: result,
		plan:   plan,
	}
	r.pdf.SetMargins(bordMarginLeft, bordMarginTop, bordMarginLeft)
	r.pdf.SetAutoPageBreak(true, 20)
	r.pdf.AddPage()

	r.addTitle()
	r.addPivotSection()
	r.addStockSection()
	r.addContributionsSection()
	r.addSynthesis()
	r.addFooter()

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *BordereauRenderer) addTitle() {
	r.pdf.SetFont("Helvetica", "B", 11)
	r.pdf.CellFormat(bordContentW, 8, "ELEMENTS DE CALCUL D'ASSIETTES DES CONTRIBUTIONS SOCIALES", "", 1, "C", false, 0, "")
	r.pdf.Ln(6)
}

func (r *BordereauRenderer) sectionHeader(title string) {
	r.pdf.SetFont("Helvetica", "B", 9)
	r.pdf.SetFillColor(238, 238, 238)
	r.pdf.CellFormat(bordContentW, 6, title, "1", 1, "L", true, 0, "")
}

func (r *BordereauRenderer) row(label, value string) {
	r.pdf.SetFont("Helvetica", "", 9)
	r.pdf.CellFormat(bordLabelW, 6, "   "+label, "LB", 0, "L", false, 0, "")
	r.pdf.CellFormat(bordValueW, 6, value, "RB", 1, "R", false, 0, "")
}

// addPivotSection lists the valuation known closest to each pivot date,
// as the CFONB layout expects one VL line per rate boundary.
func (r *BordereauRenderer) addPivotSection() {
	r.sectionHeader("Valeurs liquidatives aux dates charnieres")
	shown := 0
	for _, pivot := range rates.DefaultPivotDates {
		if pivot.Before(r.plan.OpeningDate) {
			continue
		}
		vl, ok := ClosestValuation(r.plan.Events, pivot)
		if !ok {
			continue
		}
		r.row(fmt.Sprintf("Valeur liquidative au %s", pivot.Format("02/01/2006")), pdfAmount(vl))
		shown++
	}
	if shown == 0 {
		r.row("Aucune valeur liquidative de reference saisie", pdfAmount(decimal.Zero))
	}
	r.pdf.Ln(4)
}

func (r *BordereauRenderer) addStockSection() {
	r.sectionHeader("Synthese des stocks (replay chronologique)")
	r.row("Capital initial (versements)", pdfAmount(r.result.InitialPrincipal))
	r.row("Capital restant net (apres retraits passes)", pdfAmount(r.result.RemainingPrincipal))
	r.row("Cumul des versements rembourses lors des retraits passes", pdfAmount(r.result.PrincipalReimbursed))
	r.row("Cumul des retraits passes", pdfAmount(r.result.PastWithdrawalsTotal))
	r.row("Assiette de gain du retrait actuel", pdfAmount(r.result.TaxableBase))
	r.pdf.Ln(4)
}

func (r *BordereauRenderer) addContributionsSection() {
	r.sectionHeader("Contributions sociales (CSG, CRDS, PS, CAPS, CRSA, PSOL)")
	if tc := r.result.TaxByComponent; tc != nil {
		r.row("CSG sur retrait actuel", pdfAmount(tc.CSG))
		r.row("CRDS sur retrait actuel", pdfAmount(tc.CRDS))
		r.row("Prelevement social sur retrait actuel", pdfAmount(tc.PS))
		r.row("Contribution additionnelle (CAPS)", pdfAmount(tc.CAPS))
		r.row("Contribution RSA (CRSA)", pdfAmount(tc.CRSA))
		r.row("Prelevement de solidarite (PSOL)", pdfAmount(tc.PSOL))
	}
	r.row("Total des prelevements calcules sur ce retrait", pdfAmount(r.result.TotalTax))
	r.pdf.Ln(4)

	if len(r.result.PeriodDetails) > 0 {
		r.sectionHeader("Ventilation du gain par periode fiscale")
		r.pdf.SetFont("Helvetica", "B", 8)
		r.pdf.CellFormat(70, 5, "Periode", "1", 0, "L", false, 0, "")
		r.pdf.CellFormat(40, 5, "Gain de la periode", "1", 0, "R", false, 0, "")
		r.pdf.CellFormat(30, 5, "Taux", "1", 0, "R", false, 0, "")
		r.pdf.CellFormat(40, 5, "Prelevements", "1", 1, "R", false, 0, "")
		r.pdf.SetFont("Helvetica", "", 8)
		for _, p := range r.result.PeriodDetails {
			r.pdf.CellFormat(70, 5, p.PeriodLabel, "1", 0, "L", false, 0, "")
			r.pdf.CellFormat(40, 5, pdfAmount(p.Gain), "1", 0, "R", false, 0, "")
			r.pdf.CellFormat(30, 5, p.RateTotal.StringFixed(2)+" %", "1", 0, "R", false, 0, "")
			r.pdf.CellFormat(40, 5, pdfAmount(p.Taxes.Total), "1", 1, "R", false, 0, "")
		}
		r.pdf.Ln(4)
	}
}

func (r *BordereauRenderer) addSynthesis() {
	r.pdf.Ln(4)
	r.pdf.SetFont("Helvetica", "B", 10)
	r.pdf.CellFormat(bordContentW, 6, "SYNTHESE DU RETRAIT", "T", 1, "L", false, 0, "")
	r.pdf.SetFont("Helvetica", "", 9)
	capital := r.result.WithdrawalAmount.Sub(r.result.TaxableBase)
	lines := []string{
		fmt.Sprintf("Montant brut du retrait : %s", pdfAmount(r.result.WithdrawalAmount)),
		fmt.Sprintf("Dont part de capital (exoneree) : %s", pdfAmount(capital)),
		fmt.Sprintf("Dont part de gain (taxable) : %s", pdfAmount(r.result.TaxableBase)),
		fmt.Sprintf("Total contributions sociales : %s", pdfAmount(r.result.TotalTax)),
	}
	for _, l := range lines {
		r.pdf.CellFormat(bordContentW, 5, l, "", 1, "L", false, 0, "")
	}
	r.pdf.Ln(3)
	r.pdf.SetFont("Helvetica", "B", 12)
	r.pdf.SetFillColor(238, 238, 238)
	r.pdf.CellFormat(bordContentW, 8, fmt.Sprintf("NET A PERCEVOIR : %s", pdfAmount(r.result.NetProceeds)), "1", 1, "L", true, 0, "")
}

func (r *BordereauRenderer) addFooter() {
	r.pdf.SetY(-25)
	r.pdf.SetFont("Helvetica", "I", 7)
	r.pdf.SetTextColor(102, 102, 102)
	footer := fmt.Sprintf("Bordereau genere le %s - replay chronologique de l'historique du plan (ouvert le %s)",
		time.Now().Format("02/01/2006"), r.plan.OpeningDate.Format("02/01/2006"))
	r.pdf.CellFormat(bordContentW, 5, footer, "", 1, "C", false, 0, "")
	r.pdf.SetTextColor(0, 0, 0)
}

// pdfAmount renders money for the statement: grouped with apostrophes and
// bracketed, the house style of the paper bordereau.
func pdfAmount(d decimal.Decimal) string {
	s := frenchNumber(d)
	out := make([]rune, 0, len(s))
	for _, c := range s {
		if c == ' ' {
			out = append(out, '\'')
		} else {
			out = append(out, c)
		}
	}
	return "[ " + string(out) + " ]"
}

// ClosestValuation picks the event valuation nearest to the given date by
// absolute date difference, whatever side of it. With sparse checkpoints
// this can attribute a valuation across a fiscal boundary; kept as-is
// pending confirmation of the intended rule.
func ClosestValuation(events []domain.Event, date time.Time) (decimal.Decimal, bool) {
	var (
		best     decimal.Decimal
		bestDiff float64
		found    bool
	)
	for _, ev := range events {
		var vl decimal.Decimal
		switch e := ev.(type) {
		case domain.ValuationCheckpoint:
			vl = e.Valuation
		case domain.PastWithdrawal:
			vl = e.Valuation
		case domain.Deposit:
			if e.Valuation == nil {
				continue
			}
			vl = *e.Valuation
		default:
			continue
		}
		diff := math.Abs(ev.When().Sub(date).Hours())
		if !found || diff < bestDiff {
			best, bestDiff, found = vl, diff, true
		}
	}
	return best, found
}
