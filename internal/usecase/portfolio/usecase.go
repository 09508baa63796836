package portfolio

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	loanDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
	paymentDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/payment"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/engine"
)

const summaryCacheKey = "portfolio:summary"

// Cache is the small slice of redis the usecase needs. A nil Cache disables
// caching entirely; a miss is (nil, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type Usecase struct {
	loans    loanDomain.Repository
	payments paymentDomain.Repository
	cache    Cache
	ttl      time.Duration
	log      *zap.Logger
	now      func() time.Time
}

func NewUsecase(loans loanDomain.Repository, payments paymentDomain.Repository, cache Cache, ttl time.Duration, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{
		loans:    loans,
		payments: payments,
		cache:    cache,
		ttl:      ttl,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Summary computes the portfolio aggregate, cache-aside with a short TTL.
// Cache failures degrade to a recompute, never to an error: the engine is
// cheap and idempotent over the authoritative records.
func (u *Usecase) Summary(ctx context.Context) (*engine.PortfolioSummary, error) {
	if u.cache != nil {
		if raw, err := u.cache.Get(ctx, summaryCacheKey); err == nil && raw != nil {
			var cached engine.PortfolioSummary
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		} else if err != nil {
			u.log.Warn("summary cache read failed", zap.Error(err))
		}
	}

	loans, paymentsByLoan, err := u.load(ctx)
	if err != nil {
		return nil, err
	}
	s := engine.Aggregate(loans, paymentsByLoan, u.now())

	if u.cache != nil {
		if raw, err := json.Marshal(&s); err == nil {
			if err := u.cache.Set(ctx, summaryCacheKey, raw, u.ttl); err != nil {
				u.log.Warn("summary cache write failed", zap.Error(err))
			}
		}
	}
	return &s, nil
}

// InvalidateSummary drops the cached aggregate after any loan or payment
// write. Errors are logged and swallowed: a stale entry expires on its own.
func (u *Usecase) InvalidateSummary(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Del(ctx, summaryCacheKey); err != nil {
		u.log.Warn("summary cache invalidation failed", zap.Error(err))
	}
}

// Installments projects and reconciles one loan's installments due within
// [from, to].
func (u *Usecase) Installments(ctx context.Context, loanID string, from, to time.Time) ([]engine.Installment, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	payments, err := u.payments.ListByLoan(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	return engine.ProjectRange(l, from, to, payments, u.now()), nil
}

// MonthView is the cross-loan installment list for one calendar month, the
// backing data of the receipts screen.
func (u *Usecase) MonthView(ctx context.Context, month time.Time) ([]engine.Installment, error) {
	loans, paymentsByLoan, err := u.load(ctx)
	if err != nil {
		return nil, err
	}
	now := u.now()
	var out []engine.Installment
	for i := range loans {
		l := &loans[i]
		for _, due := range engine.DueDatesInMonth(l, month) {
			inst := engine.Project(l, due)
			engine.Reconcile(&inst, paymentsByLoan[l.ID], now)
			out = append(out, inst)
		}
	}
	return out, nil
}

// MonthlyReport renders the copy-to-clipboard distribution text for a month.
func (u *Usecase) MonthlyReport(ctx context.Context, month time.Time) (string, error) {
	loans, paymentsByLoan, err := u.load(ctx)
	if err != nil {
		return "", err
	}
	return engine.MonthlyReport(loans, paymentsByLoan, month, u.now()), nil
}

func (u *Usecase) load(ctx context.Context) ([]loanDomain.Loan, map[uint64][]paymentDomain.Payment, error) {
	loans, err := u.loans.List(ctx, loanDomain.Filter{})
	if err != nil {
		return nil, nil, err
	}
	payments, err := u.payments.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	byLoan := make(map[uint64][]paymentDomain.Payment, len(loans))
	for i := range payments {
		byLoan[payments[i].LoanRef] = append(byLoan[payments[i].LoanRef], payments[i])
	}
	return loans, byLoan, nil
}
