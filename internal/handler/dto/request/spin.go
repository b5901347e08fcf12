package request

import "github.com/shopspring/decimal"

type SpinRequest struct {
	Wager decimal.Decimal `json:"wager"`
}

type BatchSpinRequest struct {
	Wager decimal.Decimal `json:"wager"`
	Count int             `json:"count" binding:"required,min=1"`
}

type CreditWalletRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference" binding:"max=64"`
}
