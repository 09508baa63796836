package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	loanDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
	paymentDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/payment"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/engine"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/testutil/loanmock"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/testutil/paymentmock"
)

func d(s string) decimal.Decimal { v, _ := decimal.NewFromString(s); return v }

type fakeCache struct {
	store   map[string][]byte
	getErr  error
	setErr  error
	gets    int
	sets    int
	deletes int
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.store[key], nil
}
func (f *fakeCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.store[key] = val
	return nil
}
func (f *fakeCache) Del(ctx context.Context, key string) error {
	f.deletes++
	delete(f.store, key)
	return nil
}

func fixtureLoan() loanDomain.Loan {
	return loanDomain.Loan{
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

func fixtureRepos() (*loanmock.Repo, *paymentmock.Repo) {
	loans := &loanmock.Repo{
		ListFn: func(ctx context.Context, f loanDomain.Filter) ([]loanDomain.Loan, error) {
			return []loanDomain.Loan{fixtureLoan()}, nil
		},
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
			l := fixtureLoan()
			if loanID != l.LoanID {
				return nil, loanDomain.ErrNotFound
			}
			return &l, nil
		},
	}
	payments := &paymentmock.Repo{
		ListAllFn: func(ctx context.Context) ([]paymentDomain.Payment, error) {
			return []paymentDomain.Payment{{
				LoanRef: 1, LoanID: strings.Repeat("a", 32),
				DueDate:            time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
				ExpectedAmount:     d("9000"),
				ReceivedAmount:     d("9000"),
				IntermediaryAmount: d("2400"),
				InvestorAmount:     d("6600"),
				Status:             paymentDomain.StatusPaid,
			}}, nil
		},
	}
	return loans, payments
}

func fixedNow() time.Time { return time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC) }

func newTestUsecase(cache Cache) *Usecase {
	loans, payments := fixtureRepos()
	u := NewUsecase(loans, payments, cache, time.Minute, nil)
	u.now = fixedNow
	return u
}

func TestSummary_ComputesAndCaches(t *testing.T) {
	fc := newFakeCache()
	u := newTestUsecase(fc)

	s, err := u.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary err: %v", err)
	}
	if !s.PrincipalOutstanding.Equal(d("100000")) {
		t.Fatalf("principal = %s, want 100000", s.PrincipalOutstanding)
	}
	if !s.RealizedTotal.Equal(d("9000")) {
		t.Fatalf("realized = %s, want 9000", s.RealizedTotal)
	}
	if fc.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", fc.sets)
	}

	// second call must come from the cache, not a recompute
	raw := fc.store["portfolio:summary"]
	if raw == nil {
		t.Fatalf("summary not cached under portfolio:summary")
	}
	var cached engine.PortfolioSummary
	if err := json.Unmarshal(raw, &cached); err != nil {
		t.Fatalf("cached payload not JSON: %v", err)
	}
	s2, err := u.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary (cached) err: %v", err)
	}
	if fc.sets != 1 {
		t.Fatalf("cache hit must not rewrite, sets = %d", fc.sets)
	}
	if !s2.PrincipalOutstanding.Equal(s.PrincipalOutstanding) {
		t.Fatalf("cached summary drifted: %s vs %s", s2.PrincipalOutstanding, s.PrincipalOutstanding)
	}
}

func TestSummary_CacheFailureDegradesToRecompute(t *testing.T) {
	fc := newFakeCache()
	fc.getErr = errors.New("redis down")
	fc.setErr = errors.New("redis down")
	u := newTestUsecase(fc)

	s, err := u.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary must not fail on cache errors: %v", err)
	}
	if !s.PrincipalOutstanding.Equal(d("100000")) {
		t.Fatalf("principal = %s, want 100000", s.PrincipalOutstanding)
	}
}

func TestSummary_NilCache(t *testing.T) {
	u := newTestUsecase(nil)
	if _, err := u.Summary(context.Background()); err != nil {
		t.Fatalf("Summary with nil cache: %v", err)
	}
}

func TestInvalidateSummary(t *testing.T) {
	fc := newFakeCache()
	u := newTestUsecase(fc)

	if _, err := u.Summary(context.Background()); err != nil {
		t.Fatalf("Summary err: %v", err)
	}
	u.InvalidateSummary(context.Background())
	if fc.deletes != 1 {
		t.Fatalf("deletes = %d, want 1", fc.deletes)
	}
	if _, ok := fc.store["portfolio:summary"]; ok {
		t.Fatalf("cache entry should be gone")
	}
}

func TestInstallments_RangeProjection(t *testing.T) {
	u := newTestUsecase(nil)

	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC)
	insts, err := u.Installments(context.Background(), strings.Repeat("a", 32), from, to)
	if err != nil {
		t.Fatalf("Installments err: %v", err)
	}
	// quarterly from Jan 15: Apr, Jul, Oct due dates fall inside the window
	if len(insts) != 3 {
		t.Fatalf("installments = %d, want 3", len(insts))
	}
	if insts[0].Settlement != engine.SettlementPaid {
		t.Fatalf("april installment should be paid, got %s", insts[0].Settlement)
	}
	if insts[1].Settlement != engine.SettlementPending {
		t.Fatalf("july installment should be pending, got %s", insts[1].Settlement)
	}
}

func TestInstallments_UnknownLoan(t *testing.T) {
	u := newTestUsecase(nil)
	_, err := u.Installments(context.Background(), "nope", time.Now(), time.Now())
	if !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMonthView(t *testing.T) {
	u := newTestUsecase(nil)

	insts, err := u.MonthView(context.Background(), time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("MonthView err: %v", err)
	}
	if len(insts) != 1 {
		t.Fatalf("april view = %d installments, want 1", len(insts))
	}
	if !insts[0].ReceivedAmount.Equal(d("9000")) {
		t.Fatalf("received = %s, want 9000", insts[0].ReceivedAmount)
	}

	// a month with no due dates is empty, not an error
	insts, err = u.MonthView(context.Background(), time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("MonthView err: %v", err)
	}
	if len(insts) != 0 {
		t.Fatalf("may view = %d installments, want 0", len(insts))
	}
}

func TestMonthlyReport_RendersText(t *testing.T) {
	u := newTestUsecase(nil)

	text, err := u.MonthlyReport(context.Background(), time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("MonthlyReport err: %v", err)
	}
	if !strings.Contains(text, "Distribuição de Abril/2025") {
		t.Fatalf("missing header: %q", text)
	}
	if !strings.Contains(text, "Ana") || !strings.Contains(text, "Bruno") {
		t.Fatalf("missing investor blocks: %q", text)
	}
}
