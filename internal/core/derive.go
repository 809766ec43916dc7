package core

import "github.com/shopspring/decimal"

// Derived field sets. Each is a pure function of one snapshot's raw fields.
type (
	CurrentAccountsDerived struct {
		Total decimal.Decimal `json:"total"`
	}

	CashAccountsDerived struct {
		Total decimal.Decimal `json:"total"`
	}

	UkAccountsDerived struct {
		TotalGbp decimal.Decimal `json:"totalGbp"`
		TotalAud decimal.Decimal `json:"totalAud"`
		AudGbp   decimal.Decimal `json:"audGbp"`
	}

	SuperAccountsDerived struct {
		PensionAud decimal.Decimal `json:"pensionAud"`
		Total      decimal.Decimal `json:"total"`
	}

	InvestmentAccountsDerived struct {
		ManagedFundNet decimal.Decimal `json:"managedFundNet"`
		Total          decimal.Decimal `json:"total"`
	}

	MortgageDerived struct {
		TotalDebt decimal.Decimal `json:"totalDebt"`
		Equity    decimal.Decimal `json:"equity"`
	}

	BudgetDerived struct {
		TotalIn  decimal.Decimal `json:"totalIn"`
		TotalOut decimal.Decimal `json:"totalOut"`
		Net      decimal.Decimal `json:"net"`
	}
)

func (c CurrentAccounts) Derive() CurrentAccountsDerived {
	return CurrentAccountsDerived{Total: sum(c.CurrentSecondary, c.Shared, c.CurrentPrimary, c.Other)}
}

func (c CashAccounts) Derive() CashAccountsDerived {
	return CashAccountsDerived{Total: c.Saver.Add(c.HighInterest)}
}

func (u UkAccounts) TotalGbp() decimal.Decimal {
	return sum(u.CurrentGbp, u.SaverGbp, u.CashIsaGbp, u.SharesIsaGbp)
}

func (u UkAccounts) TotalAud() decimal.Decimal {
	return u.TotalGbp().Mul(u.GbpAud)
}

// AudGbp is the inverse rate. A zero rate yields zero.
func (u UkAccounts) AudGbp() decimal.Decimal {
	if u.GbpAud.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).Div(u.GbpAud)
}

func (u UkAccounts) Derive() UkAccountsDerived {
	return UkAccountsDerived{TotalGbp: u.TotalGbp(), TotalAud: u.TotalAud(), AudGbp: u.AudGbp()}
}

func (s SuperAccounts) PensionAud() decimal.Decimal {
	return s.Pension.Mul(s.GbpAud)
}

func (s SuperAccounts) Total() decimal.Decimal {
	return sum(s.PensionAud(), s.Super1, s.Super2, s.Super3)
}

func (s SuperAccounts) Derive() SuperAccountsDerived {
	return SuperAccountsDerived{PensionAud: s.PensionAud(), Total: s.Total()}
}

func (i InvestmentAccounts) ManagedFundNet() decimal.Decimal {
	return i.ManagedFund1.Add(i.InvestmentLoan)
}

func (i InvestmentAccounts) Total() decimal.Decimal {
	return sum(
		i.ManagedFundNet(),
		i.TradingAus1,
		i.TradingInt1,
		i.TradingInt2.Mul(i.UsdAud),
		i.ManagedFund2,
		i.TradingAus2,
		i.ManagedFund3,
		i.Crypto1,
		i.Crypto2,
	)
}

func (i InvestmentAccounts) Derive() InvestmentAccountsDerived {
	return InvestmentAccountsDerived{ManagedFundNet: i.ManagedFundNet(), Total: i.Total()}
}

func (m Mortgage) TotalDebt() decimal.Decimal {
	return m.Debt1.Add(m.Debt2)
}

func (m Mortgage) Equity() decimal.Decimal {
	return m.Price.Sub(m.TotalDebt())
}

func (m Mortgage) Derive() MortgageDerived {
	return MortgageDerived{TotalDebt: m.TotalDebt(), Equity: m.Equity()}
}

func (b Budget) Derive() BudgetDerived {
	in := sum(b.IncomePrimary, b.IncomeSecondary, b.BillContrib)
	out := sum(b.Credit2, b.Credit1, b.Credit3, b.OneOffs, b.Shared)
	return BudgetDerived{TotalIn: in, TotalOut: out, Net: in.Sub(out)}
}
