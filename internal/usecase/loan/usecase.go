package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	loanDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/uow"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/engine"
	"github.com/luizao-f/sistema-emprestimo-financeiro/pkg/id"
)

// ErrValidation marks user-input failures; handlers map it to 400.
var ErrValidation = errors.New("validation failed")

// sumTolerance: participations must sum to the principal (and percentages to
// 100) within one cent.
var (
	sumTolerance = decimal.NewFromFloat(0.01)
	hundred      = decimal.NewFromInt(100)
)

// SummaryInvalidator drops cached portfolio aggregates after a write.
type SummaryInvalidator interface {
	InvalidateSummary(ctx context.Context)
}

type Usecase struct {
	repo  loanDomain.Repository
	uow   uow.UnitOfWork
	cache SummaryInvalidator
	log   *zap.Logger
}

func NewUsecase(r loanDomain.Repository, tx uow.UnitOfWork, cache SummaryInvalidator, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: r, uow: tx, cache: cache, log: log}
}

type ParticipationInput struct {
	InvestorName   string          `json:"investor_name"`
	InvestedAmount decimal.Decimal `json:"invested_amount"`
	Percentage     decimal.Decimal `json:"percentage"`
	Notes          string          `json:"notes"`
}

type CreateLoanInput struct {
	Debtor           string               `json:"debtor"`
	Principal        decimal.Decimal      `json:"principal"`
	TotalRate        decimal.Decimal      `json:"total_rate"`
	IntermediaryRate decimal.Decimal      `json:"intermediary_rate"`
	IntermediaryName string               `json:"intermediary_name"`
	OriginationDate  time.Time            `json:"origination_date"`
	MaturityDate     *time.Time           `json:"maturity_date"`
	Cadence          loanDomain.Cadence   `json:"cadence"`
	Status           loanDomain.Status    `json:"status"`
	Notes            string               `json:"notes"`
	Participations   []ParticipationInput `json:"participations"`
}

type LoanDTO struct {
	LoanID           string             `json:"loan_id"`
	Debtor           string             `json:"debtor"`
	Principal        decimal.Decimal    `json:"principal"`
	TotalRate        decimal.Decimal    `json:"total_rate"`
	IntermediaryRate decimal.Decimal    `json:"intermediary_rate"`
	InvestorRate     decimal.Decimal    `json:"investor_rate"`
	IntermediaryName string             `json:"intermediary_name,omitempty"`
	OriginationDate  time.Time          `json:"origination_date"`
	MaturityDate     *time.Time         `json:"maturity_date,omitempty"`
	Cadence          loanDomain.Cadence `json:"cadence"`
	Status           loanDomain.Status  `json:"status"`
	Notes            string             `json:"notes,omitempty"`
	MonthlyYield     decimal.Decimal    `json:"monthly_yield"`
	Participations   []ParticipationDTO `json:"participations"`
	CreatedAt        time.Time          `json:"created_at"`
}

type ParticipationDTO struct {
	ParticipationID string          `json:"participation_id"`
	InvestorName    string          `json:"investor_name"`
	InvestedAmount  decimal.Decimal `json:"invested_amount"`
	Percentage      decimal.Decimal `json:"percentage"`
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if in.Status == "" {
		in.Status = loanDomain.StatusActive
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	l := &loanDomain.Loan{
		LoanID:           id.NewID32(),
		Debtor:           in.Debtor,
		Principal:        in.Principal,
		TotalRate:        in.TotalRate,
		IntermediaryRate: in.IntermediaryRate,
		IntermediaryName: in.IntermediaryName,
		OriginationDate:  in.OriginationDate,
		MaturityDate:     in.MaturityDate,
		Cadence:          in.Cadence,
		Status:           in.Status,
		Notes:            in.Notes,
		Participations:   buildParticipations(in.Participations),
	}

	if err := u.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create loan: %w", err)
	}
	u.log.Info("loan created",
		zap.String("loan_id", l.LoanID),
		zap.String("debtor", l.Debtor),
		zap.String("principal", l.Principal.StringFixed(2)),
	)
	u.invalidate(ctx)
	return toDTO(l), nil
}

type UpdateLoanInput struct {
	Debtor           string               `json:"debtor"`
	Principal        decimal.Decimal      `json:"principal"`
	TotalRate        decimal.Decimal      `json:"total_rate"`
	IntermediaryRate decimal.Decimal      `json:"intermediary_rate"`
	IntermediaryName string               `json:"intermediary_name"`
	OriginationDate  time.Time            `json:"origination_date"`
	MaturityDate     *time.Time           `json:"maturity_date"`
	Cadence          loanDomain.Cadence   `json:"cadence"`
	Status           loanDomain.Status    `json:"status"`
	Notes            string               `json:"notes"`
	Participations   []ParticipationInput `json:"participations"`
}

// Update rewrites the loan and replaces the whole participation batch in one
// transaction. Partial patching of participations is deliberately not
// supported; the form always submits the full set.
func (u *Usecase) Update(ctx context.Context, loanID string, in UpdateLoanInput) (*LoanDTO, error) {
	create := CreateLoanInput{
		Debtor:           in.Debtor,
		Principal:        in.Principal,
		TotalRate:        in.TotalRate,
		IntermediaryRate: in.IntermediaryRate,
		IntermediaryName: in.IntermediaryName,
		OriginationDate:  in.OriginationDate,
		MaturityDate:     in.MaturityDate,
		Cadence:          in.Cadence,
		Status:           in.Status,
		Notes:            in.Notes,
		Participations:   in.Participations,
	}
	if create.Status == "" {
		create.Status = loanDomain.StatusActive
	}
	if err := validateInput(&create); err != nil {
		return nil, err
	}

	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		l.Debtor = create.Debtor
		l.Principal = create.Principal
		l.TotalRate = create.TotalRate
		l.IntermediaryRate = create.IntermediaryRate
		l.IntermediaryName = create.IntermediaryName
		l.OriginationDate = create.OriginationDate
		l.MaturityDate = create.MaturityDate
		l.Cadence = create.Cadence
		l.Status = create.Status
		l.Notes = create.Notes
		// Once the multi-investor batch is written the legacy columns are
		// retired for good.
		l.LegacyOwnAmount = nil
		l.LegacyPartnerAmount = nil

		parts := buildParticipations(create.Participations)
		for i := range parts {
			parts[i].LoanRef = l.ID
		}
		if err := r.Loans.ReplaceParticipations(ctx, l.ID, parts); err != nil {
			return err
		}
		l.Participations = parts
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("loan updated", zap.String("loan_id", loanID))
	u.invalidate(ctx)
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) List(ctx context.Context, f loanDomain.Filter) ([]LoanDTO, error) {
	loans, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, *toDTO(&loans[i]))
	}
	return out, nil
}

// Close marks an active or pending loan closed. The engine stops generating
// installments for it from that point on.
func (u *Usecase) Close(ctx context.Context, loanID string) (*LoanDTO, error) {
	return u.transition(ctx, loanID, loanDomain.StatusClosed)
}

// Reactivate puts a pending or closed loan back in the active schedule.
func (u *Usecase) Reactivate(ctx context.Context, loanID string) (*LoanDTO, error) {
	return u.transition(ctx, loanID, loanDomain.StatusActive)
}

func (u *Usecase) transition(ctx context.Context, loanID string, to loanDomain.Status) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if l.Status == to {
			return loanDomain.ErrInvalidTransition
		}
		l.Status = to
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("loan status changed", zap.String("loan_id", loanID), zap.String("status", string(to)))
	u.invalidate(ctx)
	return dto, nil
}

func (u *Usecase) invalidate(ctx context.Context) {
	if u.cache != nil {
		u.cache.InvalidateSummary(ctx)
	}
}

// validateInput enforces the creation/edit invariants. It also derives
// missing percentages from invested amounts (rounding adjustment on the last
// partner) before checking the 100% sum.
func validateInput(in *CreateLoanInput) error {
	if in.Debtor == "" {
		return fmt.Errorf("%w: debtor is required", ErrValidation)
	}
	if !in.Principal.IsPositive() {
		return fmt.Errorf("%w: principal must be positive", ErrValidation)
	}
	if !in.TotalRate.IsPositive() {
		return fmt.Errorf("%w: total rate must be positive", ErrValidation)
	}
	if in.IntermediaryRate.IsNegative() {
		return fmt.Errorf("%w: intermediary rate cannot be negative", ErrValidation)
	}
	if in.IntermediaryRate.GreaterThan(in.TotalRate) {
		return fmt.Errorf("%w: intermediary rate cannot exceed total rate", ErrValidation)
	}
	if in.IntermediaryRate.IsPositive() && in.IntermediaryName == "" {
		return fmt.Errorf("%w: intermediary name is required when intermediary rate is set", ErrValidation)
	}
	if in.IntermediaryName != "" && !in.IntermediaryRate.IsPositive() {
		return fmt.Errorf("%w: intermediary rate is required when intermediary is named", ErrValidation)
	}
	if !in.Cadence.Valid() {
		return fmt.Errorf("%w: unknown payment cadence %q", ErrValidation, in.Cadence)
	}
	if in.OriginationDate.IsZero() {
		return fmt.Errorf("%w: origination date is required", ErrValidation)
	}
	if len(in.Participations) == 0 {
		return fmt.Errorf("%w: at least one participation is required", ErrValidation)
	}

	invested := decimal.Zero
	pctSum := decimal.Zero
	allPctZero := true
	for i := range in.Participations {
		p := &in.Participations[i]
		if p.InvestorName == "" {
			return fmt.Errorf("%w: participation %d: investor name is required", ErrValidation, i+1)
		}
		if !p.InvestedAmount.IsPositive() {
			return fmt.Errorf("%w: participation %d: invested amount must be positive", ErrValidation, i+1)
		}
		if p.Percentage.IsNegative() {
			return fmt.Errorf("%w: participation %d: percentage cannot be negative", ErrValidation, i+1)
		}
		invested = invested.Add(p.InvestedAmount)
		pctSum = pctSum.Add(p.Percentage)
		if !p.Percentage.IsZero() {
			allPctZero = false
		}
	}

	if invested.Sub(in.Principal).Abs().GreaterThan(sumTolerance) {
		return fmt.Errorf("%w: invested amounts sum to %s, principal is %s",
			ErrValidation, invested.StringFixed(2), in.Principal.StringFixed(2))
	}

	if allPctZero {
		derivePercentages(in.Participations, invested)
		return nil
	}
	if pctSum.Sub(hundred).Abs().GreaterThan(sumTolerance) {
		return fmt.Errorf("%w: participation percentages sum to %s, want 100",
			ErrValidation, pctSum.StringFixed(2))
	}
	return nil
}

// derivePercentages fills percentages from invested amounts, adjusting the
// last partner so the series sums to exactly 100.
func derivePercentages(parts []ParticipationInput, total decimal.Decimal) {
	assigned := decimal.Zero
	for i := range parts {
		if i == len(parts)-1 {
			parts[i].Percentage = hundred.Sub(assigned)
			break
		}
		pct := parts[i].InvestedAmount.Mul(hundred).Div(total).Round(2)
		parts[i].Percentage = pct
		assigned = assigned.Add(pct)
	}
}

func buildParticipations(in []ParticipationInput) []loanDomain.Participation {
	out := make([]loanDomain.Participation, 0, len(in))
	for i, p := range in {
		out = append(out, loanDomain.Participation{
			ParticipationID: id.NewID32(),
			InvestorName:    p.InvestorName,
			InvestedAmount:  p.InvestedAmount,
			Percentage:      p.Percentage,
			Position:        i,
			Notes:           p.Notes,
		})
	}
	return out
}

func toDTO(l *loanDomain.Loan) *LoanDTO {
	monthly := engine.ComputeYield(l, 1)
	parts := l.NormalizedParticipations()
	dtos := make([]ParticipationDTO, 0, len(parts))
	for _, p := range parts {
		dtos = append(dtos, ParticipationDTO{
			ParticipationID: p.ParticipationID,
			InvestorName:    p.InvestorName,
			InvestedAmount:  p.InvestedAmount,
			Percentage:      p.Percentage,
		})
	}
	return &LoanDTO{
		LoanID:           l.LoanID,
		Debtor:           l.Debtor,
		Principal:        l.Principal,
		TotalRate:        l.TotalRate,
		IntermediaryRate: l.IntermediaryRate,
		InvestorRate:     l.InvestorRate(),
		IntermediaryName: l.IntermediaryName,
		OriginationDate:  l.OriginationDate,
		MaturityDate:     l.MaturityDate,
		Cadence:          l.Cadence,
		Status:           l.Status,
		Notes:            l.Notes,
		MonthlyYield:     monthly.Gross,
		Participations:   dtos,
		CreatedAt:        l.CreatedAt,
	}
}
