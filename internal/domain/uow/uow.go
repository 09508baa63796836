package uow

import (
	"context"

	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/partner"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/payment"
)

// Repos bundles all repositories bound to one transaction.
type Repos struct {
	Loans    loan.Repository
	Payments payment.Repository
	Partners partner.Repository
}

type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row up-front so concurrent edits and
	// payment registrations cannot interleave.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
