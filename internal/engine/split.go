package engine

import (
	"github.com/shopspring/decimal"

	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
)

// UnassignedInvestor labels the synthetic placeholder that receives the whole
// investor pool when a loan has no participation records (legacy or
// incomplete data). Not an error condition.
const UnassignedInvestor = "Investidores não atribuídos"

// SplitAmong divides the investor pool between participations in position
// order. Every share except the last is rounded to the cent; the last
// participation absorbs the rounding remainder so the parts always sum
// exactly to pool. Callers must hand participations in their stored order:
// whichever is last is the remainder-absorber, and that must be stable
// between runs.
func SplitAmong(pool decimal.Decimal, parts []loan.Participation) []Allocation {
	if len(parts) == 0 {
		return []Allocation{{
			ParticipationID: "",
			InvestorName:    UnassignedInvestor,
			Amount:          pool,
		}}
	}

	out := make([]Allocation, len(parts))
	allocated := decimal.Zero
	for i, p := range parts {
		var amount decimal.Decimal
		if i == len(parts)-1 {
			amount = pool.Sub(allocated)
		} else {
			amount = pool.Mul(p.Percentage).Div(hundred).Round(2)
			allocated = allocated.Add(amount)
		}
		out[i] = Allocation{
			ParticipationID: p.ParticipationID,
			InvestorName:    p.InvestorName,
			Amount:          amount,
		}
	}
	return out
}

// ScaleSplit shrinks a full-installment split down to a partial payment.
// proportion = paid/gross, capped at 1.0; the intermediary share and every
// investor share except the last are scaled and rounded, and the last
// investor again absorbs the remainder so everything sums to paid exactly.
func ScaleSplit(gross, intermediary decimal.Decimal, allocs []Allocation, paid decimal.Decimal) (decimal.Decimal, []Allocation) {
	if gross.IsZero() || len(allocs) == 0 {
		return decimal.Zero, nil
	}
	proportion := paid.Div(gross)
	if proportion.GreaterThan(decimal.NewFromInt(1)) {
		proportion = decimal.NewFromInt(1)
	}

	interScaled := intermediary.Mul(proportion).Round(2)
	out := make([]Allocation, len(allocs))
	allocated := interScaled
	for i, a := range allocs {
		var amount decimal.Decimal
		if i == len(allocs)-1 {
			amount = paid.Sub(allocated)
		} else {
			amount = a.Amount.Mul(proportion).Round(2)
			allocated = allocated.Add(amount)
		}
		out[i] = Allocation{
			ParticipationID: a.ParticipationID,
			InvestorName:    a.InvestorName,
			Amount:          amount,
		}
	}
	return interScaled, out
}
