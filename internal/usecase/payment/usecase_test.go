package payment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	loanDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
	paymentDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/payment"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/uow"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/testutil/loanmock"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/testutil/paymentmock"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/testutil/uowmock"
)

func d(s string) decimal.Decimal { v, _ := decimal.NewFromString(s); return v }

// 100k quarterly at 3% total / 0.8% intermediary: gross 9000, intermediary
// 2400, investor pool 6600 per installment.
func testLoan() *loanDomain.Loan {
	return &loanDomain.Loan{
		ID:               1,
		LoanID:           strings.Repeat("a", 32),
		Debtor:           "Carlos Mendes",
		Principal:        d("100000"),
		TotalRate:        d("3"),
		IntermediaryRate: d("0.8"),
		IntermediaryName: "Roberto",
		OriginationDate:  time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Cadence:          loanDomain.CadenceQuarterly,
		Status:           loanDomain.StatusActive,
		Participations: []loanDomain.Participation{
			{ParticipationID: strings.Repeat("1", 32), InvestorName: "Ana", InvestedAmount: d("50000"), Percentage: d("50"), Position: 0},
			{ParticipationID: strings.Repeat("2", 32), InvestorName: "Bruno", InvestedAmount: d("50000"), Percentage: d("50"), Position: 1},
		},
	}
}

func txFor(l *loanDomain.Loan, payments *paymentmock.Repo) *uowmock.UoW {
	return &uowmock.UoW{
		WithinLoanTxFn: func(ctx context.Context, loanID string, fn func(r uow.Repos, lk *loanDomain.Loan) error) error {
			if loanID != l.LoanID {
				return loanDomain.ErrNotFound
			}
			return fn(uow.Repos{Loans: &loanmock.Repo{}, Payments: payments}, l)
		},
	}
}

func TestRecord_PartialSplitsProportionally(t *testing.T) {
	l := testLoan()
	var created *paymentDomain.Payment
	payments := &paymentmock.Repo{
		CreateFn: func(ctx context.Context, p *paymentDomain.Payment) error {
			created = p
			return nil
		},
	}
	uc := NewUsecase(txFor(l, payments), nil, nil)

	due := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	dto, err := uc.Record(context.Background(), l.LoanID, RecordPaymentInput{
		DueDate: due,
		Amount:  d("500"),
	})
	if err != nil {
		t.Fatalf("Record err: %v", err)
	}
	if created == nil {
		t.Fatalf("payment not persisted")
	}
	if !dto.ExpectedAmount.Equal(d("9000")) {
		t.Fatalf("expected = %s, want 9000", dto.ExpectedAmount)
	}
	// intermediary share scales with the partial: 2400 * 500/9000 = 133.33
	if !dto.IntermediaryAmount.Equal(d("133.33")) {
		t.Fatalf("intermediary = %s, want 133.33", dto.IntermediaryAmount)
	}
	if !dto.InvestorAmount.Equal(d("366.67")) {
		t.Fatalf("investor = %s, want 366.67", dto.InvestorAmount)
	}
	if dto.Status != paymentDomain.StatusPartial {
		t.Fatalf("status = %s, want partially_received", dto.Status)
	}
	if dto.ReceivedDate == nil {
		t.Fatalf("received date must default to now")
	}
}

func TestRecord_FullAmountMarksPaid(t *testing.T) {
	l := testLoan()
	payments := &paymentmock.Repo{}
	uc := NewUsecase(txFor(l, payments), nil, nil)

	due := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	dto, err := uc.Record(context.Background(), l.LoanID, RecordPaymentInput{
		DueDate: due,
		Amount:  d("9000"),
	})
	if err != nil {
		t.Fatalf("Record err: %v", err)
	}
	if dto.Status != paymentDomain.StatusPaid {
		t.Fatalf("status = %s, want paid", dto.Status)
	}
	if !dto.IntermediaryAmount.Equal(d("2400")) {
		t.Fatalf("intermediary = %s, want 2400", dto.IntermediaryAmount)
	}
	if !dto.InvestorAmount.Equal(d("6600")) {
		t.Fatalf("investor = %s, want 6600", dto.InvestorAmount)
	}
}

func TestRecord_NinetyNinePercentCountsAsPaid(t *testing.T) {
	l := testLoan()
	uc := NewUsecase(txFor(l, &paymentmock.Repo{}), nil, nil)

	dto, err := uc.Record(context.Background(), l.LoanID, RecordPaymentInput{
		DueDate: time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		Amount:  d("8910"), // exactly 99% of 9000
	})
	if err != nil {
		t.Fatalf("Record err: %v", err)
	}
	if dto.Status != paymentDomain.StatusPaid {
		t.Fatalf("status = %s, want paid at the 99%% threshold", dto.Status)
	}
}

func TestRecord_RejectsOverpayment(t *testing.T) {
	l := testLoan()
	payments := &paymentmock.Repo{
		ListByLoanAndMonthFn: func(ctx context.Context, loanRef uint64, year int, month time.Month) ([]paymentDomain.Payment, error) {
			return []paymentDomain.Payment{{ReceivedAmount: d("8800")}}, nil
		},
	}
	uc := NewUsecase(txFor(l, payments), nil, nil)

	_, err := uc.Record(context.Background(), l.LoanID, RecordPaymentInput{
		DueDate: time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		Amount:  d("500"),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestRecord_RejectsNonPositiveAmount(t *testing.T) {
	uc := NewUsecase(&uowmock.UoW{}, nil, nil)
	_, err := uc.Record(context.Background(), "xxx", RecordPaymentInput{
		DueDate: time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		Amount:  decimal.Zero,
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestMarkPaid_RecordsRemaining(t *testing.T) {
	l := testLoan()
	var created *paymentDomain.Payment
	payments := &paymentmock.Repo{
		ListByLoanAndMonthFn: func(ctx context.Context, loanRef uint64, year int, month time.Month) ([]paymentDomain.Payment, error) {
			return []paymentDomain.Payment{{ReceivedAmount: d("500")}}, nil
		},
		CreateFn: func(ctx context.Context, p *paymentDomain.Payment) error {
			created = p
			return nil
		},
	}
	uc := NewUsecase(txFor(l, payments), nil, nil)

	dto, err := uc.MarkPaid(context.Background(), l.LoanID, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("MarkPaid err: %v", err)
	}
	if created == nil {
		t.Fatalf("payment not persisted")
	}
	if !dto.ReceivedAmount.Equal(d("8500")) {
		t.Fatalf("received = %s, want 8500 (9000 minus the 500 on file)", dto.ReceivedAmount)
	}
	if dto.Status != paymentDomain.StatusPaid {
		t.Fatalf("status = %s, want paid", dto.Status)
	}
}

func TestMarkPaid_AlreadySettled(t *testing.T) {
	l := testLoan()
	payments := &paymentmock.Repo{
		ListByLoanAndMonthFn: func(ctx context.Context, loanRef uint64, year int, month time.Month) ([]paymentDomain.Payment, error) {
			return []paymentDomain.Payment{{ReceivedAmount: d("9000")}}, nil
		},
	}
	uc := NewUsecase(txFor(l, payments), nil, nil)

	_, err := uc.MarkPaid(context.Background(), l.LoanID, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}
