package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotalsEndToEnd(t *testing.T) {
	in := TotalsInput{
		Current:  CurrentAccounts{CurrentSecondary: dec("10"), Shared: dec("5"), CurrentPrimary: dec("5"), Other: dec("0")},
		Cash:     CashAccounts{Saver: dec("100"), HighInterest: dec("50")},
		Uk:       UkAccounts{SharesIsaGbp: dec("100"), GbpAud: dec("2")},
		Super:    SuperAccounts{GbpAud: dec("2")},
		Mortgage: Mortgage{Price: dec("500"), Debt1: dec("200")},
	}

	got := ComputeTotals(in)

	assertDec(t, "20", got.Current, "current")
	assertDec(t, "150", got.Cash, "cash")
	assertDec(t, "200", got.Uk, "uk")
	assertDec(t, "0", got.Super, "super")
	assertDec(t, "0", got.Investments, "investments")
	assertDec(t, "300", got.HouseEquity, "houseEquity")
	assertDec(t, "670", got.Total, "total")
	assertDec(t, "370", got.Liquid, "liquid")
}

func TestComputeTotalsAllZero(t *testing.T) {
	got := ComputeTotals(TotalsInput{})
	assert.True(t, got.Total.IsZero())
	assert.True(t, got.Liquid.IsZero())
}

func TestComputeTotalsIdentities(t *testing.T) {
	inputs := []TotalsInput{
		{
			Super:       SuperAccounts{Pension: dec("10"), Super1: dec("5"), GbpAud: dec("1.8")},
			Uk:          UkAccounts{CurrentGbp: dec("3.3"), GbpAud: dec("1.9")},
			Investments: InvestmentAccounts{ManagedFund1: dec("100"), InvestmentLoan: dec("-250")},
			Mortgage:    Mortgage{Price: dec("800000"), Debt1: dec("500000"), Debt2: dec("10000")},
			Cash:        CashAccounts{Saver: dec("0.01")},
			Current:     CurrentAccounts{Other: dec("-42")},
		},
		{
			Mortgage: Mortgage{Debt1: dec("100")},
		},
	}
	for i, in := range inputs {
		r := ComputeTotals(in)
		sum := r.Super.Add(r.Uk).Add(r.Investments).Add(r.HouseEquity).Add(r.Cash).Add(r.Current)
		assert.Truef(t, r.Total.Equal(sum), "case %d: total %s != component sum %s", i, r.Total, sum)
		liquid := r.Total.Sub(r.Super).Sub(r.HouseEquity)
		assert.Truef(t, r.Liquid.Equal(liquid), "case %d: liquid %s != %s", i, r.Liquid, liquid)
	}
}
