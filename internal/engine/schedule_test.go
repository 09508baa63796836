package engine

import (
	"testing"
	"time"

	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
)

func TestNextDueDate_QuarterlyIsCalendarMonths(t *testing.T) {
	origin := date(2025, time.January, 15)
	want := []time.Time{
		date(2025, time.April, 15),
		date(2025, time.July, 15),
		date(2025, time.October, 15),
		date(2026, time.January, 15),
	}
	for i, w := range want {
		got := NextDueDate(origin, loan.CadenceQuarterly, i+1)
		if !got.Equal(w) {
			t.Fatalf("installment %d: got %s, want %s", i+1, got, w)
		}
	}
}

func TestNextDueDate_MonthEndClamps(t *testing.T) {
	origin := date(2025, time.January, 31)
	if got := NextDueDate(origin, loan.CadenceMonthly, 1); !got.Equal(date(2025, time.February, 28)) {
		t.Fatalf("Jan 31 + 1 month = %s, want 2025-02-28", got)
	}
	// leap year
	leapOrigin := date(2024, time.January, 31)
	if got := NextDueDate(leapOrigin, loan.CadenceMonthly, 1); !got.Equal(date(2024, time.February, 29)) {
		t.Fatalf("leap Jan 31 + 1 month = %s, want 2024-02-29", got)
	}
	// the day springs back once the target month accommodates it
	if got := NextDueDate(origin, loan.CadenceMonthly, 2); !got.Equal(date(2025, time.March, 31)) {
		t.Fatalf("Jan 31 + 2 months = %s, want 2025-03-31", got)
	}
}

func TestNextDueDate_DecemberRollover(t *testing.T) {
	origin := date(2024, time.November, 30)
	if got := NextDueDate(origin, loan.CadenceMonthly, 2); !got.Equal(date(2025, time.January, 30)) {
		t.Fatalf("Nov 30 + 2 months = %s, want 2025-01-30", got)
	}
	if got := NextDueDate(origin, loan.CadenceAnnual, 1); !got.Equal(date(2025, time.November, 30)) {
		t.Fatalf("Nov 30 + 12 months = %s, want 2025-11-30", got)
	}
}

func TestDueDatesWithin_WindowInclusive(t *testing.T) {
	l := testLoan()
	got := DueDatesWithin(l, date(2025, time.April, 15), date(2025, time.October, 15))
	if len(got) != 3 {
		t.Fatalf("got %d due dates, want 3: %v", len(got), got)
	}
	if !got[0].Equal(date(2025, time.April, 15)) || !got[2].Equal(date(2025, time.October, 15)) {
		t.Fatalf("window bounds must be inclusive, got %v", got)
	}
}

func TestDueDatesWithin_NonActiveLoansExcluded(t *testing.T) {
	for _, st := range []loan.Status{loan.StatusPending, loan.StatusClosed} {
		l := testLoan()
		l.Status = st
		if got := DueDatesWithin(l, date(2025, time.January, 1), date(2030, time.January, 1)); got != nil {
			t.Fatalf("status %s must produce no installments, got %v", st, got)
		}
	}
}

func TestDueDatesWithin_CappedAt120Periods(t *testing.T) {
	l := testLoan()
	l.Cadence = loan.CadenceMonthly
	got := DueDatesWithin(l, date(2025, time.January, 1), date(2099, time.January, 1))
	if len(got) != 120 {
		t.Fatalf("safety cap: got %d due dates, want 120", len(got))
	}
}

func TestDueDatesWithin_MalformedCadence(t *testing.T) {
	l := testLoan()
	l.Cadence = loan.Cadence("weekly")
	if got := DueDatesWithin(l, date(2025, time.January, 1), date(2030, time.January, 1)); got != nil {
		t.Fatalf("unknown cadence must produce no installments, got %v", got)
	}
}

func TestDueDatesInMonth(t *testing.T) {
	l := testLoan()
	got := DueDatesInMonth(l, date(2025, time.July, 1))
	if len(got) != 1 || !got[0].Equal(date(2025, time.July, 15)) {
		t.Fatalf("got %v, want [2025-07-15]", got)
	}
	if got := DueDatesInMonth(l, date(2025, time.June, 1)); len(got) != 0 {
		t.Fatalf("June has no quarterly due date, got %v", got)
	}
}
