package storage

import "networth/internal/core"

// columns maps one raw snapshot type onto its table. values and fields must
// list the same columns in the same order as names.
type columns[T any] struct {
	table  string
	names  []string
	values func(T) []any
	fields func(*T) []any
}

var currentAccountsColumns = columns[core.CurrentAccounts]{
	table: "current_accounts",
	names: []string{"current_secondary", "shared", "current_primary", "other"},
	values: func(r core.CurrentAccounts) []any {
		return []any{r.CurrentSecondary, r.Shared, r.CurrentPrimary, r.Other}
	},
	fields: func(r *core.CurrentAccounts) []any {
		return []any{&r.CurrentSecondary, &r.Shared, &r.CurrentPrimary, &r.Other}
	},
}

var cashAccountsColumns = columns[core.CashAccounts]{
	table:  "cash_accounts",
	names:  []string{"saver", "high_interest"},
	values: func(r core.CashAccounts) []any { return []any{r.Saver, r.HighInterest} },
	fields: func(r *core.CashAccounts) []any { return []any{&r.Saver, &r.HighInterest} },
}

var ukAccountsColumns = columns[core.UkAccounts]{
	table: "uk_accounts",
	names: []string{"current_gbp", "saver_gbp", "cash_isa_gbp", "shares_isa_gbp", "gbp_aud"},
	values: func(r core.UkAccounts) []any {
		return []any{r.CurrentGbp, r.SaverGbp, r.CashIsaGbp, r.SharesIsaGbp, r.GbpAud}
	},
	fields: func(r *core.UkAccounts) []any {
		return []any{&r.CurrentGbp, &r.SaverGbp, &r.CashIsaGbp, &r.SharesIsaGbp, &r.GbpAud}
	},
}

var superAccountsColumns = columns[core.SuperAccounts]{
	table: "super_accounts",
	names: []string{"pension", "super1", "super2", "super3", "gbp_aud"},
	values: func(r core.SuperAccounts) []any {
		return []any{r.Pension, r.Super1, r.Super2, r.Super3, r.GbpAud}
	},
	fields: func(r *core.SuperAccounts) []any {
		return []any{&r.Pension, &r.Super1, &r.Super2, &r.Super3, &r.GbpAud}
	},
}

var investmentAccountsColumns = columns[core.InvestmentAccounts]{
	table: "investment_accounts",
	names: []string{
		"managed_fund1", "investment_loan", "trading_aus1", "trading_int1", "trading_int2", "usd_aud",
		"managed_fund2", "trading_aus2", "managed_fund3", "crypto1", "crypto2",
	},
	values: func(r core.InvestmentAccounts) []any {
		return []any{
			r.ManagedFund1, r.InvestmentLoan, r.TradingAus1, r.TradingInt1, r.TradingInt2, r.UsdAud,
			r.ManagedFund2, r.TradingAus2, r.ManagedFund3, r.Crypto1, r.Crypto2,
		}
	},
	fields: func(r *core.InvestmentAccounts) []any {
		return []any{
			&r.ManagedFund1, &r.InvestmentLoan, &r.TradingAus1, &r.TradingInt1, &r.TradingInt2, &r.UsdAud,
			&r.ManagedFund2, &r.TradingAus2, &r.ManagedFund3, &r.Crypto1, &r.Crypto2,
		}
	},
}

var mortgageColumns = columns[core.Mortgage]{
	table: "mortgage",
	names: []string{
		"deposit", "family_contrib", "debt1", "debt2", "interest_charged", "principal_paid",
		"contrib1", "contrib2", "contrib3", "price", "land_value", "capital_growth",
	},
	values: func(r core.Mortgage) []any {
		return []any{
			r.Deposit, r.FamilyContrib, r.Debt1, r.Debt2, r.InterestCharged, r.PrincipalPaid,
			r.Contrib1, r.Contrib2, r.Contrib3, r.Price, r.LandValue, r.CapitalGrowth,
		}
	},
	fields: func(r *core.Mortgage) []any {
		return []any{
			&r.Deposit, &r.FamilyContrib, &r.Debt1, &r.Debt2, &r.InterestCharged, &r.PrincipalPaid,
			&r.Contrib1, &r.Contrib2, &r.Contrib3, &r.Price, &r.LandValue, &r.CapitalGrowth,
		}
	},
}

// budgetColumns stores the optional rates as NULL when absent.
var budgetColumns = columns[core.Budget]{
	table: "budget",
	names: []string{
		"income_primary", "income_secondary", "bill_contrib", "credit2", "credit1", "credit3",
		"one_offs", "shared", "sink_or_swim", "variable", "fixed", "rent", "rate_var", "rate_fix",
	},
	values: func(r core.Budget) []any {
		return []any{
			r.IncomePrimary, r.IncomeSecondary, r.BillContrib, r.Credit2, r.Credit1, r.Credit3,
			r.OneOffs, r.Shared, r.SinkOrSwim, r.Variable, r.Fixed, r.Rent, r.RateVar, r.RateFix,
		}
	},
	fields: func(r *core.Budget) []any {
		return []any{
			&r.IncomePrimary, &r.IncomeSecondary, &r.BillContrib, &r.Credit2, &r.Credit1, &r.Credit3,
			&r.OneOffs, &r.Shared, &r.SinkOrSwim, &r.Variable, &r.Fixed, &r.Rent, &r.RateVar, &r.RateFix,
		}
	},
}
