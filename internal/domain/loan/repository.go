package loan

import "context"

// Filter narrows List results; zero values mean "no constraint".
type Filter struct {
	Debtor string
	Status Status
}

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	List(ctx context.Context, f Filter) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
	// ReplaceParticipations deletes the loan's current batch and inserts ps.
	ReplaceParticipations(ctx context.Context, loanRef uint64, ps []Participation) error
}
