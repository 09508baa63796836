package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// testLoan: R$100.000 at 3% total / 0.8% intermediary, quarterly, three
// investors at 33.3/33.3/33.4.
func testLoan() *loan.Loan {
	return &loan.Loan{
		ID:               1,
		LoanID:           "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		Debtor:           "João Silva",
		Principal:        d("100000"),
		TotalRate:        d("3"),
		IntermediaryRate: d("0.8"),
		IntermediaryName: "Corretora X",
		OriginationDate:  date(2025, time.January, 15),
		Cadence:          loan.CadenceQuarterly,
		Status:           loan.StatusActive,
		Participations: []loan.Participation{
			{ParticipationID: "p1", InvestorName: "Ana", InvestedAmount: d("33300"), Percentage: d("33.3"), Position: 0},
			{ParticipationID: "p2", InvestorName: "Bruno", InvestedAmount: d("33300"), Percentage: d("33.3"), Position: 1},
			{ParticipationID: "p3", InvestorName: "Carla", InvestedAmount: d("33400"), Percentage: d("33.4"), Position: 2},
		},
	}
}
