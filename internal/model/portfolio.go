package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is one manually entered holding.
type Position struct {
	Ticker      string          `json:"ticker"`
	Quantity    int64           `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PositionValue is a position marked to a current price.
type PositionValue struct {
	Position
	Price      decimal.Decimal `json:"price"`
	Value      decimal.Decimal `json:"value"`
	PnL        decimal.Decimal `json:"pnl"`
	PnLPercent float64         `json:"pnl_percent"`
}

// PortfolioValuation aggregates marked positions.
type PortfolioValuation struct {
	Positions  []PositionValue `json:"positions"`
	TotalValue decimal.Decimal `json:"total_value"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	PnL        decimal.Decimal `json:"pnl"`
	PnLPercent float64         `json:"pnl_percent"`
}
