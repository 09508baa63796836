// Package engine is the installment projection and revenue-allocation core.
// Everything here is pure: functions over loans and payments already loaded
// into memory, deterministic for identical inputs, safe to recompute on every
// page load.
package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/payment"
)

// maxPeriods caps schedule walks at roughly ten years so malformed cadence
// data can never spin forever.
const maxPeriods = 120

// Settlement classification for one installment after reconciliation.
type Settlement string

const (
	SettlementPending Settlement = Settlement(payment.StatusPending)
	SettlementPartial Settlement = Settlement(payment.StatusPartial)
	SettlementPaid    Settlement = Settlement(payment.StatusPaid)
	SettlementOverdue Settlement = Settlement(payment.StatusOverdue)
)

// Allocation is one investor's slice of an installment's investor pool,
// keyed by the stable participation id rather than the display name.
type Allocation struct {
	ParticipationID string          `json:"participation_id"`
	InvestorName    string          `json:"investor_name"`
	Amount          decimal.Decimal `json:"amount"`
}

// Yield is the three-way value of one installment.
type Yield struct {
	Gross        decimal.Decimal `json:"gross"`
	Intermediary decimal.Decimal `json:"intermediary"`
	InvestorPool decimal.Decimal `json:"investor_pool"`
}

// Installment is one due date for one loan, derived on demand and never
// persisted.
type Installment struct {
	LoanID             string          `json:"loan_id"`
	Debtor             string          `json:"debtor"`
	DueDate            time.Time       `json:"due_date"`
	Cadence            loan.Cadence    `json:"cadence"`
	AccumulationMonths int             `json:"accumulation_months"`
	GrossYield         decimal.Decimal `json:"gross_yield"`
	IntermediaryYield  decimal.Decimal `json:"intermediary_yield"`
	InvestorPoolYield  decimal.Decimal `json:"investor_pool_yield"`
	Allocations        []Allocation    `json:"allocations"`
	Settlement         Settlement      `json:"settlement"`
	ReceivedAmount     decimal.Decimal `json:"received_amount"`
}

// InvestorSummary is one investor's portfolio-wide rollup.
type InvestorSummary struct {
	ParticipationID string          `json:"participation_id"`
	InvestorName    string          `json:"investor_name"`
	Capital         decimal.Decimal `json:"capital"`
	Realized        decimal.Decimal `json:"realized"`
	ROI             decimal.Decimal `json:"roi"`
}

// DebtorSummary is one debtor's rollup across their loans.
type DebtorSummary struct {
	Debtor            string          `json:"debtor"`
	Principal         decimal.Decimal `json:"principal"`
	AmountPaid        decimal.Decimal `json:"amount_paid"`
	OverdueCount      int             `json:"overdue_count"`
	ArrearsAmount     decimal.Decimal `json:"arrears_amount"`
	PaymentHistoryPct decimal.Decimal `json:"payment_history_pct"`
	Overdue           bool            `json:"overdue"`
}

// PortfolioSummary folds per-installment results across the whole loan set.
type PortfolioSummary struct {
	AsOf                 time.Time         `json:"as_of"`
	PrincipalOutstanding decimal.Decimal   `json:"principal_outstanding"`
	ActiveLoans          int               `json:"active_loans"`
	RealizedTotal        decimal.Decimal   `json:"realized_total"`
	RealizedIntermediary decimal.Decimal   `json:"realized_intermediary"`
	RealizedInvestors    decimal.Decimal   `json:"realized_investors"`
	ProjectedSixMonths   decimal.Decimal   `json:"projected_six_months"`
	UpcomingDue30Days    decimal.Decimal   `json:"upcoming_due_30_days"`
	UpcomingInstallments int               `json:"upcoming_installments"`
	PortfolioROI         decimal.Decimal   `json:"portfolio_roi"`
	Investors            []InvestorSummary `json:"investors"`
	Debtors              []DebtorSummary   `json:"debtors"`
}
