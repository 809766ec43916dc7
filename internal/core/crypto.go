package core

import "github.com/shopspring/decimal"

type Platform string

const (
	PlatformA Platform = "platform_a"
	PlatformB Platform = "platform_b"
)

func (p Platform) IsValid() bool {
	return p == PlatformA || p == PlatformB
}

type TxType string

const (
	TxDeposit    TxType = "deposit"
	TxWithdrawal TxType = "withdrawal"
)

func (t TxType) IsValid() bool {
	return t == TxDeposit || t == TxWithdrawal
}

// CryptoTransaction is an append-only ledger entry. Date is optional.
type CryptoTransaction struct {
	ID       int64           `json:"id"`
	Platform Platform        `json:"platform"`
	Date     *Date           `json:"date,omitempty"`
	Type     TxType          `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
}

func (t CryptoTransaction) Validate() error {
	if !t.Platform.IsValid() {
		return ErrInvalidPlatform
	}
	if !t.Type.IsValid() {
		return ErrInvalidTxType
	}
	if t.Date != nil {
		if err := t.Date.Validate(); err != nil {
			return err
		}
	}
	if !t.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return nil
}

// CryptoSummary is a separately entered per-platform aggregate.
type CryptoSummary struct {
	ID             int64           `json:"id"`
	Platform       Platform        `json:"platform"`
	TotalDeposited decimal.Decimal `json:"totalDeposited"`
	TotalWithdrawn decimal.Decimal `json:"totalWithdrawn"`
	CurrentValue   decimal.Decimal `json:"currentValue"`
}

func (s CryptoSummary) Validate() error {
	if !s.Platform.IsValid() {
		return ErrInvalidPlatform
	}
	return nil
}

// Net is the gain over net contributions.
func (s CryptoSummary) Net() decimal.Decimal {
	return s.CurrentValue.Sub(s.TotalDeposited.Sub(s.TotalWithdrawn))
}

type CryptoSummaryView struct {
	CryptoSummary
	Net decimal.Decimal `json:"net"`
}

func (s CryptoSummary) View() CryptoSummaryView {
	return CryptoSummaryView{CryptoSummary: s, Net: s.Net()}
}
