package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPartial Status = "partially_received"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

var (
	ErrNotFound    = errors.New("payment not found")
	ErrExceedsOwed = errors.New("payment exceeds amount owed for the installment")
)

// Payment is one money-received event against a loan installment. Several
// rows may target the same due month; reconciliation sums them.
type Payment struct {
	ID                 uint64          `gorm:"primaryKey;column:id" json:"-"`
	PaymentID          string          `gorm:"size:32;uniqueIndex:ux_payments_pid" json:"payment_id"`
	LoanRef            uint64          `gorm:"column:loan_ref;index:idx_payments_loan" json:"-"`
	LoanID             string          `gorm:"size:32;index:idx_payments_loan_id" json:"loan_id"`
	DueDate            time.Time       `gorm:"type:date;index:idx_payments_due" json:"due_date"`
	ReceivedDate       *time.Time      `gorm:"type:date" json:"received_date,omitempty"`
	ExpectedAmount     decimal.Decimal `gorm:"type:decimal(18,2)" json:"expected_amount"`
	ReceivedAmount     decimal.Decimal `gorm:"type:decimal(18,2)" json:"received_amount"`
	IntermediaryAmount decimal.Decimal `gorm:"type:decimal(18,2)" json:"intermediary_amount"`
	InvestorAmount     decimal.Decimal `gorm:"type:decimal(18,2)" json:"investor_amount"`
	Status             Status          `gorm:"type:enum('pending','partially_received','paid','overdue');default:'pending'" json:"status"`
	Notes              string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Payment) TableName() string { return "payments" }
