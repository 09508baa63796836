package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/payment"
)

// paidThreshold: summed payments at or above 99% of the gross yield count as
// fully paid. A tolerance band, not exact equality, to absorb rounding on
// manually registered amounts.
var paidThreshold = decimal.NewFromFloat(0.99)

// overpayEpsilon: a new payment may not push the cumulative received total
// past gross * 1.0001.
var overpayEpsilon = decimal.NewFromFloat(1.0001)

// SameDueMonth reports whether a payment's due date qualifies for an
// installment due at due. Only calendar month and year are compared; the day
// is deliberately ignored so late/early registrations still reconcile.
func SameDueMonth(p *payment.Payment, due time.Time) bool {
	return p.DueDate.Year() == due.Year() && p.DueDate.Month() == due.Month()
}

// QualifyingTotal sums the received amounts of every payment matching the
// installment's due month. Payments are assumed pre-filtered to the loan.
func QualifyingTotal(payments []payment.Payment, due time.Time) decimal.Decimal {
	total := decimal.Zero
	for i := range payments {
		if SameDueMonth(&payments[i], due) {
			total = total.Add(payments[i].ReceivedAmount)
		}
	}
	return total
}

// Reconcile classifies the installment against the loan's recorded payments
// as of today, setting Settlement and ReceivedAmount in place.
func Reconcile(inst *Installment, payments []payment.Payment, today time.Time) {
	received := QualifyingTotal(payments, inst.DueDate)
	inst.ReceivedAmount = received

	if received.IsPositive() {
		if received.GreaterThanOrEqual(inst.GrossYield.Mul(paidThreshold)) {
			inst.Settlement = SettlementPaid
		} else {
			inst.Settlement = SettlementPartial
		}
		return
	}

	due := dateOnly(inst.DueDate)
	if due.Before(dateOnly(today)) {
		inst.Settlement = SettlementOverdue
	} else {
		inst.Settlement = SettlementPending
	}
}

// ValidateNewAmount rejects a payment that would push the cumulative
// received total past the installment's gross yield (tiny epsilon for
// floating tolerance on imported data).
func ValidateNewAmount(gross, alreadyReceived, amount decimal.Decimal) error {
	if alreadyReceived.Add(amount).GreaterThan(gross.Mul(overpayEpsilon)) {
		return payment.ErrExceedsOwed
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
