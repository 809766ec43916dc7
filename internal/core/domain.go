package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Category names one record table. The values double as API path segments.
type Category string

const (
	CategoryCurrent            Category = "currentAccounts"
	CategoryCash               Category = "cashAccounts"
	CategoryUk                 Category = "ukAccounts"
	CategorySuper              Category = "superAccounts"
	CategoryInvestments        Category = "investmentAccounts"
	CategoryMortgage           Category = "mortgage"
	CategoryBudget             Category = "budget"
	CategoryCryptoTransactions Category = "cryptoTransactions"
	CategoryCryptoSummaries    Category = "cryptoSummaries"
)

// SnapshotCategories are the dated tables, in row-add order.
var SnapshotCategories = []Category{
	CategoryCurrent,
	CategoryCash,
	CategoryUk,
	CategorySuper,
	CategoryInvestments,
	CategoryMortgage,
	CategoryBudget,
}

// NetWorthCategories are the six tables that feed ComputeTotals.
var NetWorthCategories = []Category{
	CategorySuper,
	CategoryUk,
	CategoryInvestments,
	CategoryMortgage,
	CategoryCash,
	CategoryCurrent,
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryCurrent, CategoryCash, CategoryUk, CategorySuper, CategoryInvestments,
		CategoryMortgage, CategoryBudget, CategoryCryptoTransactions, CategoryCryptoSummaries:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }

var (
	ErrZeroDate          = errors.New("date cannot be zero")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrNegativeRate      = errors.New("exchange rate cannot be negative")
	ErrInvalidPlatform   = errors.New("invalid platform")
	ErrInvalidTxType     = errors.New("invalid transaction type")
	ErrInvalidCategory   = errors.New("invalid category")
)

// Raw is implemented by every snapshot's stored field set.
type Raw interface {
	Validate() error
}

// Snapshot is one dated record of raw values for a category.
type Snapshot[T any] struct {
	ID   int64 `json:"id"`
	Date Date  `json:"date"`
	Raw  T     `json:"raw"`
}

// View is a snapshot with its derived fields attached.
type View[T, D any] struct {
	ID      int64 `json:"id"`
	Date    Date  `json:"date"`
	Raw     T     `json:"raw"`
	Derived D     `json:"derived"`
}

// NewView derives d from s.
func NewView[T, D any](s Snapshot[T], derive func(T) D) View[T, D] {
	return View[T, D]{ID: s.ID, Date: s.Date, Raw: s.Raw, Derived: derive(s.Raw)}
}

type (
	CurrentAccounts struct {
		CurrentSecondary decimal.Decimal `json:"currentSecondary"`
		Shared           decimal.Decimal `json:"shared"`
		CurrentPrimary   decimal.Decimal `json:"currentPrimary"`
		Other            decimal.Decimal `json:"other"`
	}

	CashAccounts struct {
		Saver        decimal.Decimal `json:"saver"`
		HighInterest decimal.Decimal `json:"highInterest"`
	}

	// UkAccounts balances are GBP; GbpAud converts them.
	UkAccounts struct {
		CurrentGbp   decimal.Decimal `json:"currentGbp"`
		SaverGbp     decimal.Decimal `json:"saverGbp"`
		CashIsaGbp   decimal.Decimal `json:"cashIsaGbp"`
		SharesIsaGbp decimal.Decimal `json:"sharesIsaGbp"`
		GbpAud       decimal.Decimal `json:"gbpAud"`
	}

	// SuperAccounts holds a GBP pension and three AUD funds.
	SuperAccounts struct {
		Pension decimal.Decimal `json:"pension"`
		Super1  decimal.Decimal `json:"super1"`
		Super2  decimal.Decimal `json:"super2"`
		Super3  decimal.Decimal `json:"super3"`
		GbpAud  decimal.Decimal `json:"gbpAud"`
	}

	// InvestmentAccounts are AUD except TradingInt2, which is USD.
	// InvestmentLoan is stored signed.
	InvestmentAccounts struct {
		ManagedFund1   decimal.Decimal `json:"managedFund1"`
		InvestmentLoan decimal.Decimal `json:"investmentLoan"`
		TradingAus1    decimal.Decimal `json:"tradingAus1"`
		TradingInt1    decimal.Decimal `json:"tradingInt1"`
		TradingInt2    decimal.Decimal `json:"tradingInt2"`
		UsdAud         decimal.Decimal `json:"usdAud"`
		ManagedFund2   decimal.Decimal `json:"managedFund2"`
		TradingAus2    decimal.Decimal `json:"tradingAus2"`
		ManagedFund3   decimal.Decimal `json:"managedFund3"`
		Crypto1        decimal.Decimal `json:"crypto1"`
		Crypto2        decimal.Decimal `json:"crypto2"`
	}

	Mortgage struct {
		Deposit         decimal.Decimal `json:"deposit"`
		FamilyContrib   decimal.Decimal `json:"familyContrib"`
		Debt1           decimal.Decimal `json:"debt1"`
		Debt2           decimal.Decimal `json:"debt2"`
		InterestCharged decimal.Decimal `json:"interestCharged"`
		PrincipalPaid   decimal.Decimal `json:"principalPaid"`
		Contrib1        decimal.Decimal `json:"contrib1"`
		Contrib2        decimal.Decimal `json:"contrib2"`
		Contrib3        decimal.Decimal `json:"contrib3"`
		Price           decimal.Decimal `json:"price"`
		LandValue       decimal.Decimal `json:"landValue"`
		CapitalGrowth   decimal.Decimal `json:"capitalGrowth"`
	}

	Budget struct {
		IncomePrimary   decimal.Decimal  `json:"incomePrimary"`
		IncomeSecondary decimal.Decimal  `json:"incomeSecondary"`
		BillContrib     decimal.Decimal  `json:"billContrib"`
		Credit2         decimal.Decimal  `json:"credit2"`
		Credit1         decimal.Decimal  `json:"credit1"`
		Credit3         decimal.Decimal  `json:"credit3"`
		OneOffs         decimal.Decimal  `json:"oneOffs"`
		Shared          decimal.Decimal  `json:"shared"`
		SinkOrSwim      decimal.Decimal  `json:"sinkOrSwim"`
		Variable        decimal.Decimal  `json:"variable"`
		Fixed           decimal.Decimal  `json:"fixed"`
		Rent            decimal.Decimal  `json:"rent"`
		RateVar         *decimal.Decimal `json:"rateVar,omitempty"`
		RateFix         *decimal.Decimal `json:"rateFix,omitempty"`
	}
)

func (CurrentAccounts) Validate() error      { return nil }
func (CashAccounts) Validate() error         { return nil }
func (Mortgage) Validate() error             { return nil }
func (u UkAccounts) Validate() error         { return validateRate(u.GbpAud) }
func (s SuperAccounts) Validate() error      { return validateRate(s.GbpAud) }
func (i InvestmentAccounts) Validate() error { return validateRate(i.UsdAud) }

func (b Budget) Validate() error {
	if b.RateVar != nil && b.RateVar.IsNegative() {
		return fmt.Errorf("variable rate: %w", ErrNegativeRate)
	}
	if b.RateFix != nil && b.RateFix.IsNegative() {
		return fmt.Errorf("fixed rate: %w", ErrNegativeRate)
	}
	return nil
}
