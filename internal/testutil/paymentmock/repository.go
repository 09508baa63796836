package paymentmock

import (
	"context"
	"time"

	domain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/payment"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn             func(ctx context.Context, p *domain.Payment) error
	ListByLoanFn         func(ctx context.Context, loanRef uint64) ([]domain.Payment, error)
	ListByLoanAndMonthFn func(ctx context.Context, loanRef uint64, year int, month time.Month) ([]domain.Payment, error)
	ListAllFn            func(ctx context.Context) ([]domain.Payment, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}
func (m *Repo) ListByLoan(ctx context.Context, loanRef uint64) ([]domain.Payment, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanRef)
	}
	return nil, nil
}
func (m *Repo) ListByLoanAndMonth(ctx context.Context, loanRef uint64, year int, month time.Month) ([]domain.Payment, error) {
	if m.ListByLoanAndMonthFn != nil {
		return m.ListByLoanAndMonthFn(ctx, loanRef, year, month)
	}
	return nil, nil
}
func (m *Repo) ListAll(ctx context.Context) ([]domain.Payment, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, nil
}
