package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	// Omit the association: participation batches are managed explicitly via
	// ReplaceParticipations, never upserted as a side effect of Save.
	return r.db.WithContext(ctx).Omit("Participations").Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Preload("Participations", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("loan_id = ?", loanID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Participations", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("loan_id = ?", loanID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *LoanRepository) List(ctx context.Context, f loanDomain.Filter) ([]loanDomain.Loan, error) {
	q := r.db.WithContext(ctx).
		Preload("Participations", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC, id DESC")
	if f.Debtor != "" {
		q = q.Where("debtor LIKE ?", "%"+f.Debtor+"%")
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []loanDomain.Loan
	return out, q.Find(&out).Error
}

// ReplaceParticipations implements the delete-then-reinsert batch semantics:
// the form always submits the full set, so incremental patching is pointless.
func (r *LoanRepository) ReplaceParticipations(ctx context.Context, loanRef uint64, ps []loanDomain.Participation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("loan_ref = ?", loanRef).Delete(&loanDomain.Participation{}).Error; err != nil {
			return err
		}
		if len(ps) == 0 {
			return nil
		}
		for i := range ps {
			ps[i].LoanRef = loanRef
		}
		return tx.Create(&ps).Error
	})
}
