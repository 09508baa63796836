package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	paymentDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/payment"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) ListByLoan(ctx context.Context, loanRef uint64) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	err := r.db.WithContext(ctx).
		Where("loan_ref = ?", loanRef).
		Order("due_date ASC, id ASC").
		Find(&out).Error
	return out, err
}

// ListByLoanAndMonth filters on the due date's calendar month and year only;
// the day is never part of the key.
func (r *PaymentRepository) ListByLoanAndMonth(ctx context.Context, loanRef uint64, year int, month time.Month) ([]paymentDomain.Payment, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	var out []paymentDomain.Payment
	err := r.db.WithContext(ctx).
		Where("loan_ref = ? AND due_date >= ? AND due_date < ?", loanRef, start, end).
		Order("due_date ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *PaymentRepository) ListAll(ctx context.Context) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	err := r.db.WithContext(ctx).
		Order("due_date ASC, id ASC").
		Find(&out).Error
	return out, err
}
