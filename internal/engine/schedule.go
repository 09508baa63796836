package engine

import (
	"time"

	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
)

// addMonths advances t by n calendar months, clamping the day to the last
// day of the target month (Jan 31 + 1 month = Feb 28/29, never Mar 2).
// Quarter and year boundaries are month arithmetic, never day counting.
func addMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	m := int(month-1) + n
	year += m / 12
	m = m % 12
	if m < 0 {
		m += 12
		year--
	}
	target := time.Month(m + 1)
	if last := daysIn(year, target); day > last {
		day = last
	}
	return time.Date(year, target, day, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NextDueDate is the due date of installment number index (1-based) for a
// loan originated at origination with the given cadence.
func NextDueDate(origination time.Time, c loan.Cadence, index int) time.Time {
	return addMonths(origination, c.AccumulationMonths()*index)
}

// DueDatesWithin lists the loan's due dates d with start <= d <= end, in
// order. Loans that are not active produce no installments, and the walk is
// capped at maxPeriods regardless of the window.
func DueDatesWithin(l *loan.Loan, start, end time.Time) []time.Time {
	if l.Status != loan.StatusActive || !l.Cadence.Valid() {
		return nil
	}
	var out []time.Time
	for i := 1; i <= maxPeriods; i++ {
		due := NextDueDate(l.OriginationDate, l.Cadence, i)
		if due.After(end) {
			break
		}
		if !due.Before(start) {
			out = append(out, due)
		}
	}
	return out
}

// DueDatesInMonth lists the loan's due dates falling in the calendar month
// containing month.
func DueDatesInMonth(l *loan.Loan, month time.Time) []time.Time {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	end := addMonths(start, 1).AddDate(0, 0, -1)
	return DueDatesWithin(l, start, end)
}
