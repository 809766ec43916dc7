package core

import "github.com/shopspring/decimal"

// TotalsInput carries the current snapshot of each net worth category.
// Crypto and budget are informational and never part of the totals.
type TotalsInput struct {
	Super       SuperAccounts
	Uk          UkAccounts
	Investments InvestmentAccounts
	Mortgage    Mortgage
	Cash        CashAccounts
	Current     CurrentAccounts
}

// TotalsResult is computed on demand and never stored.
type TotalsResult struct {
	Super       decimal.Decimal `json:"super"`
	Uk          decimal.Decimal `json:"uk"`
	Investments decimal.Decimal `json:"investments"`
	HouseEquity decimal.Decimal `json:"houseEquity"`
	Cash        decimal.Decimal `json:"cash"`
	Current     decimal.Decimal `json:"current"`
	Total       decimal.Decimal `json:"total"`
	Liquid      decimal.Decimal `json:"liquid"`
}

// DatedTotals is one point of the totals history.
type DatedTotals struct {
	Date Date `json:"date"`
	TotalsResult
}

// ComputeTotals sums the six components. Liquid excludes retirement funds
// and home equity.
func ComputeTotals(in TotalsInput) TotalsResult {
	r := TotalsResult{
		Super:       in.Super.Total(),
		Uk:          in.Uk.TotalAud(),
		Investments: in.Investments.Total(),
		HouseEquity: in.Mortgage.Equity(),
		Cash:        in.Cash.Derive().Total,
		Current:     in.Current.Derive().Total,
	}
	r.Total = sum(r.Super, r.Uk, r.Investments, r.HouseEquity, r.Cash, r.Current)
	r.Liquid = r.Total.Sub(r.Super).Sub(r.HouseEquity)
	return r
}
