package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/payment"
)

// projectionHorizonMonths is the fixed window for projected yield.
const projectionHorizonMonths = 6

// historyPenaltyPerMiss: each overdue installment knocks ten points off the
// debtor's payment-history score, floor-clamped at zero. A rough indicator,
// nothing statistically rigorous.
var historyPenaltyPerMiss = decimal.NewFromInt(10)

// Aggregate folds the loan set into a portfolio summary as of asOf.
// paymentsByLoan is keyed by the loan's numeric id. The whole fold is a pure
// reduction over immutable inputs: identical inputs yield an identical
// summary, keyed by stable ids, with deterministically sorted rollups.
func Aggregate(loans []loan.Loan, paymentsByLoan map[uint64][]payment.Payment, asOf time.Time) PortfolioSummary {
	s := PortfolioSummary{
		AsOf:                 asOf,
		PrincipalOutstanding: decimal.Zero,
		RealizedTotal:        decimal.Zero,
		RealizedIntermediary: decimal.Zero,
		RealizedInvestors:    decimal.Zero,
		ProjectedSixMonths:   decimal.Zero,
		UpcomingDue30Days:    decimal.Zero,
		PortfolioROI:         decimal.Zero,
	}

	investors := make(map[string]*InvestorSummary)
	debtors := make(map[string]*DebtorSummary)
	horizonEnd := addMonths(asOf, projectionHorizonMonths)
	dueWindowEnd := asOf.AddDate(0, 0, 30)

	for i := range loans {
		l := &loans[i]
		payments := paymentsByLoan[l.ID]
		parts := l.NormalizedParticipations()

		if l.Status == loan.StatusActive {
			s.ActiveLoans++
			s.PrincipalOutstanding = s.PrincipalOutstanding.Add(l.Principal)
			for range DueDatesWithin(l, asOf, horizonEnd) {
				y := ComputeYield(l, l.Cadence.AccumulationMonths())
				s.ProjectedSixMonths = s.ProjectedSixMonths.Add(y.Gross)
			}
			for range DueDatesWithin(l, asOf, dueWindowEnd) {
				y := ComputeYield(l, l.Cadence.AccumulationMonths())
				s.UpcomingDue30Days = s.UpcomingDue30Days.Add(y.Gross)
				s.UpcomingInstallments++
			}
		}

		d := debtors[l.Debtor]
		if d == nil {
			d = &DebtorSummary{
				Debtor:            l.Debtor,
				Principal:         decimal.Zero,
				AmountPaid:        decimal.Zero,
				ArrearsAmount:     decimal.Zero,
				PaymentHistoryPct: decimal.NewFromInt(100),
			}
			debtors[l.Debtor] = d
		}
		d.Principal = d.Principal.Add(l.Principal)

		// Realized amounts and per-investor attribution.
		for j := range payments {
			p := &payments[j]
			if !p.ReceivedAmount.IsPositive() {
				continue
			}
			s.RealizedTotal = s.RealizedTotal.Add(p.ReceivedAmount)
			s.RealizedIntermediary = s.RealizedIntermediary.Add(p.IntermediaryAmount)
			s.RealizedInvestors = s.RealizedInvestors.Add(p.InvestorAmount)
			d.AmountPaid = d.AmountPaid.Add(p.ReceivedAmount)

			for _, alloc := range SplitAmong(p.InvestorAmount, parts) {
				inv := investors[alloc.ParticipationID]
				if inv == nil {
					inv = &InvestorSummary{
						ParticipationID: alloc.ParticipationID,
						InvestorName:    alloc.InvestorName,
						Capital:         decimal.Zero,
						Realized:        decimal.Zero,
						ROI:             decimal.Zero,
					}
					investors[alloc.ParticipationID] = inv
				}
				inv.Realized = inv.Realized.Add(alloc.Amount)
			}
		}

		// Capital committed per investor (registered even with no payments
		// yet, so new investors show up in the rollup).
		for _, part := range parts {
			inv := investors[part.ParticipationID]
			if inv == nil {
				inv = &InvestorSummary{
					ParticipationID: part.ParticipationID,
					InvestorName:    part.InvestorName,
					Capital:         decimal.Zero,
					Realized:        decimal.Zero,
					ROI:             decimal.Zero,
				}
				investors[part.ParticipationID] = inv
			}
			inv.Capital = inv.Capital.Add(part.InvestedAmount)
		}

		// Arrears walk: installments from index 1 while due < asOf.
		count, amount := arrears(l, payments, asOf)
		if count > 0 {
			d.OverdueCount += count
			d.ArrearsAmount = d.ArrearsAmount.Add(amount)
			d.Overdue = true
		}
	}

	for _, d := range debtors {
		score := decimal.NewFromInt(100).Sub(historyPenaltyPerMiss.Mul(decimal.NewFromInt(int64(d.OverdueCount))))
		if score.IsNegative() {
			score = decimal.Zero
		}
		d.PaymentHistoryPct = score
		s.Debtors = append(s.Debtors, *d)
	}
	for _, inv := range investors {
		if inv.Capital.IsPositive() {
			inv.ROI = inv.Realized.Div(inv.Capital).Mul(hundred).Round(2)
		}
		s.Investors = append(s.Investors, *inv)
	}
	sort.Slice(s.Debtors, func(i, j int) bool { return s.Debtors[i].Debtor < s.Debtors[j].Debtor })
	sort.Slice(s.Investors, func(i, j int) bool {
		return s.Investors[i].ParticipationID < s.Investors[j].ParticipationID
	})

	if s.PrincipalOutstanding.IsPositive() {
		s.PortfolioROI = s.RealizedTotal.Div(s.PrincipalOutstanding).Mul(hundred).Round(2)
	}
	return s
}

// arrears walks past-due installments and totals those lacking a qualifying
// paid classification. Capped at maxPeriods like every schedule walk.
func arrears(l *loan.Loan, payments []payment.Payment, asOf time.Time) (int, decimal.Decimal) {
	if l.Status != loan.StatusActive || !l.Cadence.Valid() {
		return 0, decimal.Zero
	}
	count := 0
	amount := decimal.Zero
	today := dateOnly(asOf)
	for i := 1; i <= maxPeriods; i++ {
		due := NextDueDate(l.OriginationDate, l.Cadence, i)
		if !dateOnly(due).Before(today) {
			break
		}
		inst := Project(l, due)
		Reconcile(&inst, payments, asOf)
		if inst.Settlement != SettlementPaid {
			count++
			amount = amount.Add(inst.GrossYield.Sub(inst.ReceivedAmount))
		}
	}
	return count, amount
}
