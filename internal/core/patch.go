package core

import "github.com/shopspring/decimal"

// Patch applies only the fields a caller supplied. Nil fields leave the
// stored value untouched.
type Patch[T any] interface {
	Apply(*T)
	IsEmpty() bool
}

func set(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}

func setOptional(dst **decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		c := *v
		*dst = &c
	}
}

func noneSet(fields ...*decimal.Decimal) bool {
	for _, f := range fields {
		if f != nil {
			return false
		}
	}
	return true
}

type CurrentAccountsPatch struct {
	CurrentSecondary *decimal.Decimal `json:"currentSecondary,omitempty"`
	Shared           *decimal.Decimal `json:"shared,omitempty"`
	CurrentPrimary   *decimal.Decimal `json:"currentPrimary,omitempty"`
	Other            *decimal.Decimal `json:"other,omitempty"`
}

func (p CurrentAccountsPatch) Apply(r *CurrentAccounts) {
	set(&r.CurrentSecondary, p.CurrentSecondary)
	set(&r.Shared, p.Shared)
	set(&r.CurrentPrimary, p.CurrentPrimary)
	set(&r.Other, p.Other)
}

func (p CurrentAccountsPatch) IsEmpty() bool {
	return noneSet(p.CurrentSecondary, p.Shared, p.CurrentPrimary, p.Other)
}

type CashAccountsPatch struct {
	Saver        *decimal.Decimal `json:"saver,omitempty"`
	HighInterest *decimal.Decimal `json:"highInterest,omitempty"`
}

func (p CashAccountsPatch) Apply(r *CashAccounts) {
	set(&r.Saver, p.Saver)
	set(&r.HighInterest, p.HighInterest)
}

func (p CashAccountsPatch) IsEmpty() bool {
	return noneSet(p.Saver, p.HighInterest)
}

type UkAccountsPatch struct {
	CurrentGbp   *decimal.Decimal `json:"currentGbp,omitempty"`
	SaverGbp     *decimal.Decimal `json:"saverGbp,omitempty"`
	CashIsaGbp   *decimal.Decimal `json:"cashIsaGbp,omitempty"`
	SharesIsaGbp *decimal.Decimal `json:"sharesIsaGbp,omitempty"`
	GbpAud       *decimal.Decimal `json:"gbpAud,omitempty"`
}

func (p UkAccountsPatch) Apply(r *UkAccounts) {
	set(&r.CurrentGbp, p.CurrentGbp)
	set(&r.SaverGbp, p.SaverGbp)
	set(&r.CashIsaGbp, p.CashIsaGbp)
	set(&r.SharesIsaGbp, p.SharesIsaGbp)
	set(&r.GbpAud, p.GbpAud)
}

func (p UkAccountsPatch) IsEmpty() bool {
	return noneSet(p.CurrentGbp, p.SaverGbp, p.CashIsaGbp, p.SharesIsaGbp, p.GbpAud)
}

type SuperAccountsPatch struct {
	Pension *decimal.Decimal `json:"pension,omitempty"`
	Super1  *decimal.Decimal `json:"super1,omitempty"`
	Super2  *decimal.Decimal `json:"super2,omitempty"`
	Super3  *decimal.Decimal `json:"super3,omitempty"`
	GbpAud  *decimal.Decimal `json:"gbpAud,omitempty"`
}

func (p SuperAccountsPatch) Apply(r *SuperAccounts) {
	set(&r.Pension, p.Pension)
	set(&r.Super1, p.Super1)
	set(&r.Super2, p.Super2)
	set(&r.Super3, p.Super3)
	set(&r.GbpAud, p.GbpAud)
}

func (p SuperAccountsPatch) IsEmpty() bool {
	return noneSet(p.Pension, p.Super1, p.Super2, p.Super3, p.GbpAud)
}

type InvestmentAccountsPatch struct {
	ManagedFund1   *decimal.Decimal `json:"managedFund1,omitempty"`
	InvestmentLoan *decimal.Decimal `json:"investmentLoan,omitempty"`
	TradingAus1    *decimal.Decimal `json:"tradingAus1,omitempty"`
	TradingInt1    *decimal.Decimal `json:"tradingInt1,omitempty"`
	TradingInt2    *decimal.Decimal `json:"tradingInt2,omitempty"`
	UsdAud         *decimal.Decimal `json:"usdAud,omitempty"`
	ManagedFund2   *decimal.Decimal `json:"managedFund2,omitempty"`
	TradingAus2    *decimal.Decimal `json:"tradingAus2,omitempty"`
	ManagedFund3   *decimal.Decimal `json:"managedFund3,omitempty"`
	Crypto1        *decimal.Decimal `json:"crypto1,omitempty"`
	Crypto2        *decimal.Decimal `json:"crypto2,omitempty"`
}

func (p InvestmentAccountsPatch) Apply(r *InvestmentAccounts) {
	set(&r.ManagedFund1, p.ManagedFund1)
	set(&r.InvestmentLoan, p.InvestmentLoan)
	set(&r.TradingAus1, p.TradingAus1)
	set(&r.TradingInt1, p.TradingInt1)
	set(&r.TradingInt2, p.TradingInt2)
	set(&r.UsdAud, p.UsdAud)
	set(&r.ManagedFund2, p.ManagedFund2)
	set(&r.TradingAus2, p.TradingAus2)
	set(&r.ManagedFund3, p.ManagedFund3)
	set(&r.Crypto1, p.Crypto1)
	set(&r.Crypto2, p.Crypto2)
}

func (p InvestmentAccountsPatch) IsEmpty() bool {
	return noneSet(p.ManagedFund1, p.InvestmentLoan, p.TradingAus1, p.TradingInt1, p.TradingInt2,
		p.UsdAud, p.ManagedFund2, p.TradingAus2, p.ManagedFund3, p.Crypto1, p.Crypto2)
}

type MortgagePatch struct {
	Deposit         *decimal.Decimal `json:"deposit,omitempty"`
	FamilyContrib   *decimal.Decimal `json:"familyContrib,omitempty"`
	Debt1           *decimal.Decimal `json:"debt1,omitempty"`
	Debt2           *decimal.Decimal `json:"debt2,omitempty"`
	InterestCharged *decimal.Decimal `json:"interestCharged,omitempty"`
	PrincipalPaid   *decimal.Decimal `json:"principalPaid,omitempty"`
	Contrib1        *decimal.Decimal `json:"contrib1,omitempty"`
	Contrib2        *decimal.Decimal `json:"contrib2,omitempty"`
	Contrib3        *decimal.Decimal `json:"contrib3,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	LandValue       *decimal.Decimal `json:"landValue,omitempty"`
	CapitalGrowth   *decimal.Decimal `json:"capitalGrowth,omitempty"`
}

func (p MortgagePatch) Apply(r *Mortgage) {
	set(&r.Deposit, p.Deposit)
	set(&r.FamilyContrib, p.FamilyContrib)
	set(&r.Debt1, p.Debt1)
	set(&r.Debt2, p.Debt2)
	set(&r.InterestCharged, p.InterestCharged)
	set(&r.PrincipalPaid, p.PrincipalPaid)
	set(&r.Contrib1, p.Contrib1)
	set(&r.Contrib2, p.Contrib2)
	set(&r.Contrib3, p.Contrib3)
	set(&r.Price, p.Price)
	set(&r.LandValue, p.LandValue)
	set(&r.CapitalGrowth, p.CapitalGrowth)
}

func (p MortgagePatch) IsEmpty() bool {
	return noneSet(p.Deposit, p.FamilyContrib, p.Debt1, p.Debt2, p.InterestCharged, p.PrincipalPaid,
		p.Contrib1, p.Contrib2, p.Contrib3, p.Price, p.LandValue, p.CapitalGrowth)
}

type BudgetPatch struct {
	IncomePrimary   *decimal.Decimal `json:"incomePrimary,omitempty"`
	IncomeSecondary *decimal.Decimal `json:"incomeSecondary,omitempty"`
	BillContrib     *decimal.Decimal `json:"billContrib,omitempty"`
	Credit2         *decimal.Decimal `json:"credit2,omitempty"`
	Credit1         *decimal.Decimal `json:"credit1,omitempty"`
	Credit3         *decimal.Decimal `json:"credit3,omitempty"`
	OneOffs         *decimal.Decimal `json:"oneOffs,omitempty"`
	Shared          *decimal.Decimal `json:"shared,omitempty"`
	SinkOrSwim      *decimal.Decimal `json:"sinkOrSwim,omitempty"`
	Variable        *decimal.Decimal `json:"variable,omitempty"`
	Fixed           *decimal.Decimal `json:"fixed,omitempty"`
	Rent            *decimal.Decimal `json:"rent,omitempty"`
	RateVar         *decimal.Decimal `json:"rateVar,omitempty"`
	RateFix         *decimal.Decimal `json:"rateFix,omitempty"`
}

func (p BudgetPatch) Apply(r *Budget) {
	set(&r.IncomePrimary, p.IncomePrimary)
	set(&r.IncomeSecondary, p.IncomeSecondary)
	set(&r.BillContrib, p.BillContrib)
	set(&r.Credit2, p.Credit2)
	set(&r.Credit1, p.Credit1)
	set(&r.Credit3, p.Credit3)
	set(&r.OneOffs, p.OneOffs)
	set(&r.Shared, p.Shared)
	set(&r.SinkOrSwim, p.SinkOrSwim)
	set(&r.Variable, p.Variable)
	set(&r.Fixed, p.Fixed)
	set(&r.Rent, p.Rent)
	setOptional(&r.RateVar, p.RateVar)
	setOptional(&r.RateFix, p.RateFix)
}

func (p BudgetPatch) IsEmpty() bool {
	return noneSet(p.IncomePrimary, p.IncomeSecondary, p.BillContrib, p.Credit2, p.Credit1, p.Credit3,
		p.OneOffs, p.Shared, p.SinkOrSwim, p.Variable, p.Fixed, p.Rent, p.RateVar, p.RateFix)
}

type CryptoSummaryPatch struct {
	TotalDeposited *decimal.Decimal `json:"totalDeposited,omitempty"`
	TotalWithdrawn *decimal.Decimal `json:"totalWithdrawn,omitempty"`
	CurrentValue   *decimal.Decimal `json:"currentValue,omitempty"`
}

func (p CryptoSummaryPatch) Apply(r *CryptoSummary) {
	set(&r.TotalDeposited, p.TotalDeposited)
	set(&r.TotalWithdrawn, p.TotalWithdrawn)
	set(&r.CurrentValue, p.CurrentValue)
}

func (p CryptoSummaryPatch) IsEmpty() bool {
	return noneSet(p.TotalDeposited, p.TotalWithdrawn, p.CurrentValue)
}
