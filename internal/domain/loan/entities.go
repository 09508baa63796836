package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Cadence string

const (
	CadenceMonthly   Cadence = "monthly"
	CadenceQuarterly Cadence = "quarterly"
	CadenceAnnual    Cadence = "annual"
)

// AccumulationMonths is how many months of the monthly rate one installment
// accrues. Zero means the cadence is unknown and no schedule can be built.
func (c Cadence) AccumulationMonths() int {
	switch c {
	case CadenceMonthly:
		return 1
	case CadenceQuarterly:
		return 3
	case CadenceAnnual:
		return 12
	default:
		return 0
	}
}

func (c Cadence) Valid() bool { return c.AccumulationMonths() > 0 }

type Status string

const (
	StatusActive  Status = "active"
	StatusPending Status = "pending"
	StatusClosed  Status = "closed"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidTransition = errors.New("invalid loan status transition")
)

type Loan struct {
	ID               uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID           string          `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	Debtor           string          `gorm:"size:128;index:idx_loans_debtor" json:"debtor"`
	Principal        decimal.Decimal `gorm:"type:decimal(18,2)" json:"principal"`
	TotalRate        decimal.Decimal `gorm:"type:decimal(6,3)" json:"total_rate"`
	IntermediaryRate decimal.Decimal `gorm:"type:decimal(6,3)" json:"intermediary_rate"`
	IntermediaryName string          `gorm:"size:128" json:"intermediary_name,omitempty"`
	OriginationDate  time.Time       `gorm:"type:date" json:"origination_date"`
	MaturityDate     *time.Time      `gorm:"type:date" json:"maturity_date,omitempty"`
	Cadence          Cadence         `gorm:"type:enum('monthly','quarterly','annual');default:'monthly'" json:"cadence"`
	Status           Status          `gorm:"type:enum('active','pending','closed');default:'active'" json:"status"`
	Notes            string          `gorm:"type:text" json:"notes,omitempty"`

	// Legacy two-party columns that predate the participation table. Rows
	// still carrying them are normalized into Participations at read time.
	LegacyOwnAmount     *decimal.Decimal `gorm:"type:decimal(18,2);column:legacy_own_amount" json:"-"`
	LegacyPartnerAmount *decimal.Decimal `gorm:"type:decimal(18,2);column:legacy_partner_amount" json:"-"`

	Participations []Participation `gorm:"foreignKey:LoanRef;references:ID" json:"participations"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// InvestorRate is the monthly rate left for investors after the
// intermediary's cut. Never negative on validated loans.
func (l *Loan) InvestorRate() decimal.Decimal {
	return l.TotalRate.Sub(l.IntermediaryRate)
}

// Participation is one investor's stake in one loan. The batch is replaced
// whole on every loan save; Position preserves insertion order, which matters
// because the last participation absorbs rounding remainders in splits.
type Participation struct {
	ID              uint64          `gorm:"primaryKey;column:id" json:"-"`
	ParticipationID string          `gorm:"size:32;uniqueIndex:ux_participations_pid" json:"participation_id"`
	LoanRef         uint64          `gorm:"column:loan_ref;index:idx_participations_loan" json:"-"`
	InvestorName    string          `gorm:"size:128" json:"investor_name"`
	InvestedAmount  decimal.Decimal `gorm:"type:decimal(18,2)" json:"invested_amount"`
	Percentage      decimal.Decimal `gorm:"type:decimal(6,2)" json:"percentage"`
	Position        int             `gorm:"column:position" json:"position"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Participation) TableName() string { return "participations" }

// NormalizedParticipations returns the canonical participation list in stable
// position order. Loans stored under the old two-party schema get their pair
// synthesized here so callers never branch on the legacy shape.
func (l *Loan) NormalizedParticipations() []Participation {
	if len(l.Participations) > 0 {
		out := make([]Participation, len(l.Participations))
		copy(out, l.Participations)
		for i := 1; i < len(out); i++ {
			for j := i; j > 0 && out[j].Position < out[j-1].Position; j-- {
				out[j], out[j-1] = out[j-1], out[j]
			}
		}
		return out
	}

	if l.LegacyOwnAmount == nil && l.LegacyPartnerAmount == nil {
		return nil
	}

	own := decimal.Zero
	if l.LegacyOwnAmount != nil {
		own = *l.LegacyOwnAmount
	}
	partner := decimal.Zero
	if l.LegacyPartnerAmount != nil {
		partner = *l.LegacyPartnerAmount
	}
	total := own.Add(partner)
	if total.IsZero() {
		return nil
	}

	hundred := decimal.NewFromInt(100)
	ownPct := own.Mul(hundred).Div(total).Round(2)
	out := []Participation{{
		ParticipationID: l.LoanID + "-own",
		LoanRef:         l.ID,
		InvestorName:    "Você",
		InvestedAmount:  own,
		Percentage:      ownPct,
		Position:        0,
	}}
	if partner.IsPositive() {
		out = append(out, Participation{
			ParticipationID: l.LoanID + "-partner",
			LoanRef:         l.ID,
			InvestorName:    "Parceiro",
			InvestedAmount:  partner,
			Percentage:      hundred.Sub(ownPct),
			Position:        1,
		})
	}
	return out
}
