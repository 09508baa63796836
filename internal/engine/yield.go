package engine

import (
	"github.com/shopspring/decimal"

	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
)

var hundred = decimal.NewFromInt(100)

// ComputeYield values one installment that accrues months worth of the
// monthly rate. Quarterly and annual cadences are simple multiples of the
// monthly rate, never compounded. Rates are plain percent numbers (3.5 means
// 3.5%). The invariant gross = intermediary + investorPool holds exactly:
// the pool is derived by subtraction, so no rounding drift can appear here.
func ComputeYield(l *loan.Loan, months int) Yield {
	factor := decimal.NewFromInt(int64(months))
	gross := l.Principal.Mul(l.TotalRate).Mul(factor).Div(hundred).Round(2)
	intermediary := l.Principal.Mul(l.IntermediaryRate).Mul(factor).Div(hundred).Round(2)
	return Yield{
		Gross:        gross,
		Intermediary: intermediary,
		InvestorPool: gross.Sub(intermediary),
	}
}
