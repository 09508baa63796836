package engine

import (
	"testing"
)

func TestComputeYield_QuarterlyExample(t *testing.T) {
	// R$100.000 at 3% total / 0.8% intermediary, quarterly bucket = 3 months.
	l := testLoan()
	y := ComputeYield(l, 3)

	if !y.Gross.Equal(d("9000")) {
		t.Fatalf("gross = %s, want 9000", y.Gross)
	}
	if !y.Intermediary.Equal(d("2400")) {
		t.Fatalf("intermediary = %s, want 2400", y.Intermediary)
	}
	if !y.InvestorPool.Equal(d("6600")) {
		t.Fatalf("investor pool = %s, want 6600", y.InvestorPool)
	}
}

func TestComputeYield_SimpleMultiplesNotCompounded(t *testing.T) {
	l := testLoan()
	monthly := ComputeYield(l, 1)
	annual := ComputeYield(l, 12)
	if !annual.Gross.Equal(monthly.Gross.Mul(d("12"))) {
		t.Fatalf("annual gross %s must be 12x monthly %s", annual.Gross, monthly.Gross)
	}
}

func TestComputeYield_InvariantGrossEqualsParts(t *testing.T) {
	cases := []struct{ principal, total, inter string }{
		{"100000", "3", "0.8"},
		{"50000", "2.5", "0"},
		{"33333.33", "1.75", "0.33"},
		{"1", "3.333", "1.111"},
	}
	for _, c := range cases {
		l := testLoan()
		l.Principal = d(c.principal)
		l.TotalRate = d(c.total)
		l.IntermediaryRate = d(c.inter)
		for _, months := range []int{1, 3, 12} {
			y := ComputeYield(l, months)
			if !y.Gross.Equal(y.Intermediary.Add(y.InvestorPool)) {
				t.Fatalf("principal=%s rate=%s/%s months=%d: gross %s != %s + %s",
					c.principal, c.total, c.inter, months, y.Gross, y.Intermediary, y.InvestorPool)
			}
		}
	}
}

func TestInvestorRate_NeverPredivided(t *testing.T) {
	l := testLoan()
	if !l.InvestorRate().Equal(d("2.2")) {
		t.Fatalf("investor rate = %s, want 2.2", l.InvestorRate())
	}
}
