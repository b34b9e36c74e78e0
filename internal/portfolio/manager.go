package portfolio

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"BistSentinel/internal/model"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrNotHeld         = errors.New("ticker not in portfolio")
)

// Manager keeps manually entered positions in memory with concurrency safety.
type Manager struct {
	mu        sync.Mutex
	positions map[string]*model.Position
	now       func() time.Time
}

// NewManager creates an empty portfolio.
func NewManager() *Manager {
	return &Manager{positions: make(map[string]*model.Position), now: time.Now}
}

// Add records a purchase. Re-entering a held ticker averages the cost by quantity.
func (m *Manager) Add(ticker string, quantity int64, price decimal.Decimal) (model.Position, error) {
	if quantity <= 0 {
		return model.Position{}, ErrInvalidQuantity
	}
	if !price.IsPositive() {
		return model.Position{}, ErrInvalidPrice
	}
	ticker = model.NormalizeTicker(ticker)
	if ticker == "" {
		return model.Position{}, errors.New("ticker is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.positions[ticker]
	if !ok {
		p = &model.Position{Ticker: ticker, Quantity: quantity, AverageCost: price, UpdatedAt: m.now()}
		m.positions[ticker] = p
		return *p, nil
	}

	oldQty := decimal.NewFromInt(p.Quantity)
	addQty := decimal.NewFromInt(quantity)
	total := p.AverageCost.Mul(oldQty).Add(price.Mul(addQty))
	p.Quantity += quantity
	p.AverageCost = total.Div(decimal.NewFromInt(p.Quantity))
	p.UpdatedAt = m.now()
	return *p, nil
}

// Remove deletes a position.
func (m *Manager) Remove(ticker string) error {
	ticker = model.NormalizeTicker(ticker)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.positions[ticker]; !ok {
		return fmt.Errorf("%s: %w", ticker, ErrNotHeld)
	}
	delete(m.positions, ticker)
	return nil
}

// Holds reports whether the ticker is in the portfolio.
func (m *Manager) Holds(ticker string) bool {
	ticker = model.NormalizeTicker(ticker)
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.positions[ticker]
	return ok
}

// Tickers returns the held tickers, sorted.
func (m *Manager) Tickers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.positions))
	for t := range m.positions {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Positions returns copies of all positions sorted by ticker.
func (m *Manager) Positions() []model.Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Position, 0, len(m.positions))
	for _, p := range m.positions {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

// Valuate marks positions to the given prices. Positions without a price are skipped.
func (m *Manager) Valuate(prices map[string]float64) model.PortfolioValuation {
	var v model.PortfolioValuation
	for _, p := range m.Positions() {
		last, ok := prices[p.Ticker]
		if !ok || last <= 0 {
			continue
		}
		price := decimal.NewFromFloat(last)
		qty := decimal.NewFromInt(p.Quantity)
		cost := p.AverageCost.Mul(qty)
		value := price.Mul(qty)
		pnl := value.Sub(cost)

		v.Positions = append(v.Positions, model.PositionValue{
			Position:   p,
			Price:      price,
			Value:      value,
			PnL:        pnl,
			PnLPercent: percentOf(pnl, cost),
		})
		v.TotalValue = v.TotalValue.Add(value)
		v.TotalCost = v.TotalCost.Add(cost)
	}
	v.PnL = v.TotalValue.Sub(v.TotalCost)
	v.PnLPercent = percentOf(v.PnL, v.TotalCost)
	return v
}

func percentOf(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	f, _ := part.Div(whole).Mul(decimal.NewFromInt(100)).Float64()
	return f
}
