package engine

import (
	"time"

	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/payment"
)

// Project derives the installment for one due date: yield, split, and no
// settlement yet (callers reconcile separately when payments are at hand).
func Project(l *loan.Loan, due time.Time) Installment {
	months := l.Cadence.AccumulationMonths()
	y := ComputeYield(l, months)
	return Installment{
		LoanID:             l.LoanID,
		Debtor:             l.Debtor,
		DueDate:            due,
		Cadence:            l.Cadence,
		AccumulationMonths: months,
		GrossYield:         y.Gross,
		IntermediaryYield:  y.Intermediary,
		InvestorPoolYield:  y.InvestorPool,
		Allocations:        SplitAmong(y.InvestorPool, l.NormalizedParticipations()),
		Settlement:         SettlementPending,
	}
}

// ProjectRange derives and reconciles every installment of the loan due
// within [start, end]. payments must already be filtered to this loan.
func ProjectRange(l *loan.Loan, start, end time.Time, payments []payment.Payment, today time.Time) []Installment {
	dues := DueDatesWithin(l, start, end)
	out := make([]Installment, 0, len(dues))
	for _, due := range dues {
		inst := Project(l, due)
		Reconcile(&inst, payments, today)
		out = append(out, inst)
	}
	return out
}
