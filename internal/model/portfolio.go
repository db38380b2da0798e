package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TradeSide string

const (
	Buy  TradeSide = "BUY"
	Sell TradeSide = "SELL"
)

func ParseTradeSide(s string) (TradeSide, error) {
	switch TradeSide(s) {
	case Buy, Sell:
		return TradeSide(s), nil
	}
	return "", fmt.Errorf("unknown trade side %q", s)
}

// Position is one open holding with its weighted-average cost basis.
type Position struct {
	Symbol   string          `json:"symbol" db:"symbol"`
	Shares   int64           `json:"shares" db:"shares"`
	AvgPrice decimal.Decimal `json:"avgPrice" db:"avg_price"`
	// CurrentPrice is filled in at valuation time from the quote source,
	// the ledger never stores it.
	CurrentPrice decimal.Decimal `json:"currentPrice" db:"-"`
}

// Trade is an immutable executed-order record.
type Trade struct {
	ID        string          `json:"id" db:"id"`
	Symbol    string          `json:"symbol" db:"symbol"`
	Side      TradeSide       `json:"type" db:"side"`
	Shares    int64           `json:"shares" db:"shares"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Total     decimal.Decimal `json:"total" db:"total"`
	Timestamp time.Time       `json:"timestamp" db:"executed_at"`
}

// Portfolio is a valued ledger snapshot returned to the API layer.
type Portfolio struct {
	Cash               decimal.Decimal `json:"cash"`
	Positions          []Position      `json:"positions"`
	Trades             []Trade         `json:"trades"`
	TotalValue         decimal.Decimal `json:"totalValue"`
	TotalReturn        decimal.Decimal `json:"totalReturn"`
	TotalReturnPercent decimal.Decimal `json:"totalReturnPercent"`
	Timestamp          time.Time       `json:"timestamp"`
}

// LedgerSnapshot is the persistable ledger state, serialized verbatim.
type LedgerSnapshot struct {
	Cash        decimal.Decimal `json:"cash" db:"cash"`
	InitialCash decimal.Decimal `json:"initialCash" db:"initial_cash"`
	Positions   []Position      `json:"positions"`
	Trades      []Trade         `json:"trades"`
}
