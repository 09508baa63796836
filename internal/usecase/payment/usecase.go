package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	loanDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
	paymentDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/payment"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/uow"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/engine"
	"github.com/luizao-f/sistema-emprestimo-financeiro/pkg/id"
)

var ErrValidation = errors.New("validation failed")

// SummaryInvalidator drops cached portfolio aggregates after a write.
type SummaryInvalidator interface {
	InvalidateSummary(ctx context.Context)
}

type Usecase struct {
	uow   uow.UnitOfWork
	cache SummaryInvalidator
	log   *zap.Logger
	now   func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, cache SummaryInvalidator, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{uow: tx, cache: cache, log: log, now: func() time.Time { return time.Now().UTC() }}
}

type RecordPaymentInput struct {
	DueDate      time.Time       `json:"due_date"`
	Amount       decimal.Decimal `json:"amount"`
	ReceivedDate *time.Time      `json:"received_date"`
	Notes        string          `json:"notes"`
}

type PaymentDTO struct {
	PaymentID          string          `json:"payment_id"`
	LoanID             string          `json:"loan_id"`
	DueDate            time.Time       `json:"due_date"`
	ReceivedDate       *time.Time      `json:"received_date,omitempty"`
	ExpectedAmount     decimal.Decimal `json:"expected_amount"`
	ReceivedAmount     decimal.Decimal `json:"received_amount"`
	IntermediaryAmount decimal.Decimal `json:"intermediary_amount"`
	InvestorAmount     decimal.Decimal `json:"investor_amount"`
	Status             paymentDomain.Status `json:"status"`
}

// Record registers an actual money-received event against the installment
// whose due month matches in.DueDate. The write is rejected when the
// cumulative received total would exceed the installment's gross yield
// (small epsilon aside); otherwise the amount is split proportionally into
// intermediary and investor shares and stored.
func (u *Usecase) Record(ctx context.Context, loanID string, in RecordPaymentInput) (*PaymentDTO, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if in.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: due date is required", ErrValidation)
	}

	var dto *PaymentDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		months := l.Cadence.AccumulationMonths()
		if months == 0 {
			return fmt.Errorf("%w: loan has no valid payment cadence", ErrValidation)
		}
		y := engine.ComputeYield(l, months)

		existing, err := r.Payments.ListByLoanAndMonth(ctx, l.ID, in.DueDate.Year(), in.DueDate.Month())
		if err != nil {
			return err
		}
		already := decimal.Zero
		for i := range existing {
			already = already.Add(existing[i].ReceivedAmount)
		}
		if err := engine.ValidateNewAmount(y.Gross, already, in.Amount); err != nil {
			return fmt.Errorf("%w: %s", ErrValidation, err)
		}

		allocs := engine.SplitAmong(y.InvestorPool, l.NormalizedParticipations())
		interShare, _ := engine.ScaleSplit(y.Gross, y.Intermediary, allocs, in.Amount)

		receivedDate := in.ReceivedDate
		if receivedDate == nil {
			now := u.now()
			receivedDate = &now
		}
		cumulative := already.Add(in.Amount)
		status := paymentDomain.StatusPartial
		if cumulative.GreaterThanOrEqual(y.Gross.Mul(decimal.NewFromFloat(0.99))) {
			status = paymentDomain.StatusPaid
		}

		p := &paymentDomain.Payment{
			PaymentID:          id.NewID32(),
			LoanRef:            l.ID,
			LoanID:             l.LoanID,
			DueDate:            in.DueDate,
			ReceivedDate:       receivedDate,
			ExpectedAmount:     y.Gross,
			ReceivedAmount:     in.Amount,
			IntermediaryAmount: interShare,
			InvestorAmount:     in.Amount.Sub(interShare),
			Status:             status,
			Notes:              in.Notes,
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}
		dto = toDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("payment recorded",
		zap.String("loan_id", loanID),
		zap.String("amount", in.Amount.StringFixed(2)),
		zap.String("due_date", in.DueDate.Format("2006-01-02")),
	)
	u.invalidate(ctx)
	return dto, nil
}

// MarkPaid is the one-click settle: it records a payment equal to whatever
// remains expected for the due date's installment.
func (u *Usecase) MarkPaid(ctx context.Context, loanID string, dueDate time.Time) (*PaymentDTO, error) {
	var remaining decimal.Decimal
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		months := l.Cadence.AccumulationMonths()
		if months == 0 {
			return fmt.Errorf("%w: loan has no valid payment cadence", ErrValidation)
		}
		y := engine.ComputeYield(l, months)
		existing, err := r.Payments.ListByLoanAndMonth(ctx, l.ID, dueDate.Year(), dueDate.Month())
		if err != nil {
			return err
		}
		already := decimal.Zero
		for i := range existing {
			already = already.Add(existing[i].ReceivedAmount)
		}
		remaining = y.Gross.Sub(already)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !remaining.IsPositive() {
		return nil, fmt.Errorf("%w: installment is already settled", ErrValidation)
	}
	return u.Record(ctx, loanID, RecordPaymentInput{DueDate: dueDate, Amount: remaining})
}

func (u *Usecase) invalidate(ctx context.Context) {
	if u.cache != nil {
		u.cache.InvalidateSummary(ctx)
	}
}

func toDTO(p *paymentDomain.Payment) *PaymentDTO {
	return &PaymentDTO{
		PaymentID:          p.PaymentID,
		LoanID:             p.LoanID,
		DueDate:            p.DueDate,
		ReceivedDate:       p.ReceivedDate,
		ExpectedAmount:     p.ExpectedAmount,
		ReceivedAmount:     p.ReceivedAmount,
		IntermediaryAmount: p.IntermediaryAmount,
		InvestorAmount:     p.InvestorAmount,
		Status:             p.Status,
	}
}
