package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/InfinityAbhi/Growth-High-AI/internal/model"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidOrder rejects malformed input: empty symbol, unknown side,
	// non-positive shares or price.
	ErrInvalidOrder = errors.New("invalid order")
	// ErrInsufficientFunds rejects a BUY whose total exceeds available cash.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientShares rejects a SELL exceeding the held quantity.
	ErrInsufficientShares = errors.New("insufficient shares")
)

var _hundred = decimal.NewFromInt(100)

// Ledger is the per-account paper-trading book: cash, open positions and an
// append-only trade log. All mutation goes through ExecuteTrade, which is a
// critical section: concurrent trades on the same ledger are serialized so the
// funds/shares check and the mutation commit atomically.
type Ledger struct {
	mu sync.Mutex

	cash        decimal.Decimal
	initialCash decimal.Decimal
	positions   map[string]model.Position
	trades      []model.Trade
}

func New(initialCash decimal.Decimal) *Ledger {
	return &Ledger{
		cash:        initialCash,
		initialCash: initialCash,
		positions:   make(map[string]model.Position),
	}
}

// Restore rebuilds a ledger from a persisted snapshot, verbatim.
func Restore(snap model.LedgerSnapshot) (*Ledger, error) {
	if snap.Cash.IsNegative() {
		return nil, fmt.Errorf("negative cash %s", snap.Cash)
	}
	if !snap.InitialCash.IsPositive() {
		return nil, fmt.Errorf("non-positive initial cash %s", snap.InitialCash)
	}

	positions := make(map[string]model.Position, len(snap.Positions))
	for _, pos := range snap.Positions {
		symbol := strings.ToUpper(pos.Symbol)
		if symbol == "" || pos.Shares <= 0 || pos.AvgPrice.IsNegative() {
			return nil, fmt.Errorf("malformed position %+v", pos)
		}
		if _, ok := positions[symbol]; ok {
			return nil, fmt.Errorf("duplicate position %s", symbol)
		}
		pos.Symbol = symbol
		pos.CurrentPrice = decimal.Decimal{}
		positions[symbol] = pos
	}

	return &Ledger{
		cash:        snap.Cash,
		initialCash: snap.InitialCash,
		positions:   positions,
		trades:      append([]model.Trade(nil), snap.Trades...),
	}, nil
}

// ExecuteTrade executes a market order immediately and completely at the
// caller-supplied price. It either fully commits and returns the appended
// trade, or fully fails leaving the ledger untouched.
func (l *Ledger) ExecuteTrade(symbol string, side model.TradeSide, shares int64, price decimal.Decimal) (model.Trade, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.Trade{}, fmt.Errorf("%w: empty symbol", ErrInvalidOrder)
	}
	if side != model.Buy && side != model.Sell {
		return model.Trade{}, fmt.Errorf("%w: unknown side %q", ErrInvalidOrder, side)
	}
	if shares <= 0 {
		return model.Trade{}, fmt.Errorf("%w: shares must be a positive integer", ErrInvalidOrder)
	}
	if !price.IsPositive() {
		return model.Trade{}, fmt.Errorf("%w: price must be positive", ErrInvalidOrder)
	}

	price = price.Round(2)
	if !price.IsPositive() {
		return model.Trade{}, fmt.Errorf("%w: price rounds to zero", ErrInvalidOrder)
	}
	total := price.Mul(decimal.NewFromInt(shares))

	l.mu.Lock()
	defer l.mu.Unlock()

	switch side {
	case model.Buy:
		if total.GreaterThan(l.cash) {
			return model.Trade{}, fmt.Errorf("%w: order total %s exceeds cash %s", ErrInsufficientFunds, total, l.cash)
		}
		l.cash = l.cash.Sub(total)
		if pos, ok := l.positions[symbol]; ok {
			newShares := pos.Shares + shares
			cost := pos.AvgPrice.Mul(decimal.NewFromInt(pos.Shares)).Add(total)
			pos.Shares = newShares
			pos.AvgPrice = cost.Div(decimal.NewFromInt(newShares))
			l.positions[symbol] = pos
		} else {
			l.positions[symbol] = model.Position{
				Symbol:   symbol,
				Shares:   shares,
				AvgPrice: price,
			}
		}
	case model.Sell:
		pos, ok := l.positions[symbol]
		if !ok || pos.Shares < shares {
			return model.Trade{}, fmt.Errorf("%w: want to sell %d %s, hold %d", ErrInsufficientShares, shares, symbol, pos.Shares)
		}
		l.cash = l.cash.Add(total)
		pos.Shares -= shares
		if pos.Shares == 0 {
			delete(l.positions, symbol)
		} else {
			l.positions[symbol] = pos
		}
	}

	trade := model.Trade{
		ID:        ulid.Make().String(),
		Symbol:    symbol,
		Side:      side,
		Shares:    shares,
		Price:     price,
		Total:     total,
		Timestamp: time.Now().UTC(),
	}
	l.trades = append(l.trades, trade)

	return trade, nil
}

// Snapshot values the ledger against caller-supplied current prices. A symbol
// missing from quotes is valued at its own average price. Pure read.
func (l *Ledger) Snapshot(quotes map[string]decimal.Decimal) model.Portfolio {
	l.mu.Lock()
	defer l.mu.Unlock()

	totalValue := l.cash
	positions := make([]model.Position, 0, len(l.positions))
	for _, pos := range l.positions {
		current, ok := quotes[pos.Symbol]
		if !ok || !current.IsPositive() {
			current = pos.AvgPrice
		}
		pos.CurrentPrice = current
		totalValue = totalValue.Add(current.Mul(decimal.NewFromInt(pos.Shares)))
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].Symbol < positions[j].Symbol })

	totalReturn := totalValue.Sub(l.initialCash)
	returnPercent := decimal.Zero
	if l.initialCash.IsPositive() {
		returnPercent = totalReturn.Div(l.initialCash).Mul(_hundred).Round(2)
	}
	return model.Portfolio{
		Cash:               l.cash,
		Positions:          positions,
		Trades:             append([]model.Trade(nil), l.trades...),
		TotalValue:         totalValue.Round(2),
		TotalReturn:        totalReturn.Round(2),
		TotalReturnPercent: returnPercent,
		Timestamp:          time.Now().UTC(),
	}
}

// Export dumps the persistable state for the snapshot store.
func (l *Ledger) Export() model.LedgerSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	positions := make([]model.Position, 0, len(l.positions))
	for _, pos := range l.positions {
		pos.CurrentPrice = decimal.Decimal{}
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].Symbol < positions[j].Symbol })

	return model.LedgerSnapshot{
		Cash:        l.cash,
		InitialCash: l.initialCash,
		Positions:   positions,
		Trades:      append([]model.Trade(nil), l.trades...),
	}
}

// Symbols lists held symbols, for quote lookups before valuation.
func (l *Ledger) Symbols() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	symbols := make([]string, 0, len(l.positions))
	for symbol := range l.positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
