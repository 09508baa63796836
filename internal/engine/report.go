package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/payment"
	"github.com/luizao-f/sistema-emprestimo-financeiro/pkg/money"
)

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

var cadenceLabels = map[loan.Cadence]string{
	loan.CadenceMonthly:   "mensal",
	loan.CadenceQuarterly: "trimestral",
	loan.CadenceAnnual:    "anual",
}

var settlementLabels = map[Settlement]string{
	SettlementPending: "pendente",
	SettlementPartial: "recebido parcialmente",
	SettlementPaid:    "pago",
	SettlementOverdue: "atrasado",
}

// MonthlyReport renders the human-readable per-investor distribution summary
// for one calendar month: a header line with the month name, one block per
// investor with cadence, amount and settlement label, then portfolio totals.
// The output is what gets copied to the clipboard and forwarded to partners.
func MonthlyReport(loans []loan.Loan, paymentsByLoan map[uint64][]payment.Payment, month time.Time, today time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Distribuição de %s/%d\n", monthNames[month.Month()-1], month.Year())

	type line struct {
		investor   string
		cadence    loan.Cadence
		amount     decimal.Decimal
		settlement Settlement
	}
	var lines []line
	totalPool := decimal.Zero
	totalGross := decimal.Zero
	totalReceived := decimal.Zero

	for i := range loans {
		l := &loans[i]
		for _, due := range DueDatesInMonth(l, month) {
			inst := Project(l, due)
			Reconcile(&inst, paymentsByLoan[l.ID], today)
			totalGross = totalGross.Add(inst.GrossYield)
			totalPool = totalPool.Add(inst.InvestorPoolYield)
			totalReceived = totalReceived.Add(inst.ReceivedAmount)
			for _, alloc := range inst.Allocations {
				lines = append(lines, line{
					investor:   alloc.InvestorName,
					cadence:    inst.Cadence,
					amount:     alloc.Amount,
					settlement: inst.Settlement,
				})
			}
		}
	}

	for _, ln := range lines {
		fmt.Fprintf(&b, "\n%s\n", ln.investor)
		fmt.Fprintf(&b, "  Cadência: %s\n", cadenceLabels[ln.cadence])
		fmt.Fprintf(&b, "  Valor: %s\n", money.BRL(ln.amount))
		fmt.Fprintf(&b, "  Situação: %s\n", settlementLabels[ln.settlement])
	}

	fmt.Fprintf(&b, "\nTotal previsto: %s\n", money.BRL(totalGross))
	fmt.Fprintf(&b, "Total investidores: %s\n", money.BRL(totalPool))
	fmt.Fprintf(&b, "Total recebido: %s\n", money.BRL(totalReceived))
	return b.String()
}
