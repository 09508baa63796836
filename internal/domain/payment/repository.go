package payment

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	ListByLoan(ctx context.Context, loanRef uint64) ([]Payment, error)
	// ListByLoanAndMonth matches on calendar month/year of the due date,
	// never the day; late and early registrations must still qualify.
	ListByLoanAndMonth(ctx context.Context, loanRef uint64, year int, month time.Month) ([]Payment, error)
	ListAll(ctx context.Context) ([]Payment, error)
}
