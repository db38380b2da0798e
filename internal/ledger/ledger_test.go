package ledger

import (
	"errors"
	"sync"
	"testing"

	"github.com/InfinityAbhi/Growth-High-AI/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(dec("100000"))
}

func TestExecuteTradeValidation(t *testing.T) {
	l := newTestLedger(t)

	cases := []struct {
		name   string
		symbol string
		side   model.TradeSide
		shares int64
		price  decimal.Decimal
	}{
		{"empty symbol", "", model.Buy, 10, dec("100")},
		{"blank symbol", "   ", model.Buy, 10, dec("100")},
		{"unknown side", "AAPL", model.TradeSide("SHORT"), 10, dec("100")},
		{"zero shares", "AAPL", model.Buy, 0, dec("100")},
		{"negative shares", "AAPL", model.Sell, -5, dec("100")},
		{"zero price", "AAPL", model.Buy, 10, dec("0")},
		{"negative price", "AAPL", model.Buy, 10, dec("-1")},
		{"price rounds to zero", "AAPL", model.Buy, 10, dec("0.001")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.ExecuteTrade(tc.symbol, tc.side, tc.shares, tc.price)
			require.ErrorIs(t, err, ErrInvalidOrder)
		})
	}

	snap := l.Snapshot(nil)
	assert.True(t, snap.Cash.Equal(dec("100000")))
	assert.Empty(t, snap.Positions)
	assert.Empty(t, snap.Trades)
}

func TestWeightedAverageCost(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.ExecuteTrade("aapl", model.Buy, 50, dec("170.00"))
	require.NoError(t, err)
	_, err = l.ExecuteTrade("AAPL", model.Buy, 25, dec("176.00"))
	require.NoError(t, err)

	snap := l.Snapshot(nil)
	require.Len(t, snap.Positions, 1)
	pos := snap.Positions[0]
	assert.Equal(t, "AAPL", pos.Symbol)
	assert.Equal(t, int64(75), pos.Shares)
	assert.True(t, pos.AvgPrice.Equal(dec("172.00")), "avg price %s", pos.AvgPrice)
	assert.True(t, snap.Cash.Equal(dec("87100")), "cash %s", snap.Cash)
}

func TestInsufficientFundsLeavesStateUnchanged(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.ExecuteTrade("NVDA", model.Buy, 100, dec("456.89"))
	require.NoError(t, err)
	before := l.Export()

	_, err = l.ExecuteTrade("NVDA", model.Buy, 1000, dec("456.89"))
	require.ErrorIs(t, err, ErrInsufficientFunds)

	assert.Equal(t, before, l.Export())
}

func TestOversellFailsAndLeavesStateUnchanged(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.ExecuteTrade("MSFT", model.Buy, 30, dec("375.00"))
	require.NoError(t, err)
	before := l.Export()

	_, err = l.ExecuteTrade("MSFT", model.Sell, 31, dec("380.00"))
	require.ErrorIs(t, err, ErrInsufficientShares)
	_, err = l.ExecuteTrade("GOOG", model.Sell, 1, dec("140.00"))
	require.ErrorIs(t, err, ErrInsufficientShares)

	assert.Equal(t, before, l.Export())
}

func TestSellToZeroRemovesPosition(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.ExecuteTrade("TSLA", model.Buy, 10, dec("100.00"))
	require.NoError(t, err)
	_, err = l.ExecuteTrade("TSLA", model.Sell, 10, dec("110.00"))
	require.NoError(t, err)

	snap := l.Snapshot(nil)
	assert.Empty(t, snap.Positions)
	assert.True(t, snap.Cash.Equal(dec("100100")), "cash %s", snap.Cash)
	require.Len(t, snap.Trades, 2)
	assert.Equal(t, model.Buy, snap.Trades[0].Side)
	assert.Equal(t, model.Sell, snap.Trades[1].Side)
}

func TestPartialSellKeepsCostBasis(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.ExecuteTrade("AMZN", model.Buy, 40, dec("145.78"))
	require.NoError(t, err)
	_, err = l.ExecuteTrade("AMZN", model.Sell, 15, dec("150.00"))
	require.NoError(t, err)

	snap := l.Snapshot(nil)
	require.Len(t, snap.Positions, 1)
	assert.Equal(t, int64(25), snap.Positions[0].Shares)
	assert.True(t, snap.Positions[0].AvgPrice.Equal(dec("145.78")))
}

// Conservation: cash plus cost basis of open positions must equal initial cash
// minus buy totals plus sell totals, with no drift.
func TestCashConservation(t *testing.T) {
	l := newTestLedger(t)

	type order struct {
		symbol string
		side   model.TradeSide
		shares int64
		price  decimal.Decimal
	}
	orders := []order{
		{"AAPL", model.Buy, 50, dec("170.00")},
		{"GOOGL", model.Buy, 25, dec("140.00")},
		{"AAPL", model.Buy, 25, dec("176.00")},
		{"AAPL", model.Sell, 30, dec("180.00")},
		{"MSFT", model.Buy, 10, dec("375.33")},
		{"GOOGL", model.Sell, 25, dec("142.67")},
	}

	buys, sells := decimal.Zero, decimal.Zero
	for _, o := range orders {
		trade, err := l.ExecuteTrade(o.symbol, o.side, o.shares, o.price)
		require.NoError(t, err)
		if o.side == model.Buy {
			buys = buys.Add(trade.Total)
		} else {
			sells = sells.Add(trade.Total)
		}
	}

	snap := l.Export()
	assert.True(t, snap.Cash.Equal(dec("100000").Sub(buys).Add(sells)), "cash %s", snap.Cash)
	assert.False(t, snap.Cash.IsNegative())

	// Cost basis of what is still open: AAPL 45 @ 172.00, MSFT 10 @ 375.33.
	basis := decimal.Zero
	for _, pos := range snap.Positions {
		basis = basis.Add(pos.AvgPrice.Mul(decimal.NewFromInt(pos.Shares)))
	}
	assert.True(t, basis.Equal(dec("11493.30")), "basis %s", basis)
}

func TestSnapshotValuation(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.ExecuteTrade("AAPL", model.Buy, 50, dec("170.00"))
	require.NoError(t, err)

	snap := l.Snapshot(map[string]decimal.Decimal{"AAPL": dec("175.23")})
	require.Len(t, snap.Positions, 1)
	assert.True(t, snap.Positions[0].CurrentPrice.Equal(dec("175.23")))
	assert.True(t, snap.TotalValue.Equal(dec("100261.50")), "total %s", snap.TotalValue)
	assert.True(t, snap.TotalReturn.Equal(dec("261.50")))
	assert.True(t, snap.TotalReturnPercent.Equal(dec("0.26")))
}

func TestSnapshotMissingQuoteFallsBackToAvgPrice(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.ExecuteTrade("JNJ", model.Buy, 10, dec("167.89"))
	require.NoError(t, err)

	snap := l.Snapshot(nil)
	require.Len(t, snap.Positions, 1)
	assert.True(t, snap.Positions[0].CurrentPrice.Equal(dec("167.89")))
	assert.True(t, snap.TotalValue.Equal(dec("100000")), "total %s", snap.TotalValue)
	assert.True(t, snap.TotalReturn.IsZero())
}

func TestRestoreRoundTrip(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.ExecuteTrade("AAPL", model.Buy, 50, dec("170.00"))
	require.NoError(t, err)
	_, err = l.ExecuteTrade("AAPL", model.Sell, 20, dec("175.00"))
	require.NoError(t, err)

	snap := l.Export()
	restored, err := Restore(snap)
	require.NoError(t, err)
	assert.Equal(t, snap, restored.Export())
}

func TestRestoreRejectsMalformedSnapshots(t *testing.T) {
	base := model.LedgerSnapshot{Cash: dec("10"), InitialCash: dec("100")}

	bad := base
	bad.Cash = dec("-1")
	_, err := Restore(bad)
	require.Error(t, err)

	bad = base
	bad.Positions = []model.Position{{Symbol: "AAPL", Shares: 0, AvgPrice: dec("1")}}
	_, err = Restore(bad)
	require.Error(t, err)

	bad = base
	bad.Positions = []model.Position{
		{Symbol: "aapl", Shares: 1, AvgPrice: dec("1")},
		{Symbol: "AAPL", Shares: 2, AvgPrice: dec("2")},
	}
	_, err = Restore(bad)
	require.Error(t, err)
}

// Two concurrent sells of the full position must serialize: exactly one
// succeeds, the other fails with ErrInsufficientShares.
func TestConcurrentSellsSerialize(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.ExecuteTrade("AAPL", model.Buy, 100, dec("100.00"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	start := make(chan struct{})
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = l.ExecuteTrade("AAPL", model.Sell, 100, dec("101.00"))
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrInsufficientShares):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)

	snap := l.Export()
	assert.Empty(t, snap.Positions)
	assert.True(t, snap.Cash.Equal(dec("100100")), "cash %s", snap.Cash)
	assert.Len(t, snap.Trades, 2)
}

func TestConcurrentBuysNeverOverdraw(t *testing.T) {
	l := New(dec("1000"))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = l.ExecuteTrade("JPM", model.Buy, 1, dec("156.78"))
		}()
	}
	wg.Wait()

	snap := l.Export()
	assert.False(t, snap.Cash.IsNegative(), "cash %s", snap.Cash)
	require.Len(t, snap.Positions, 1)
	// 1000 / 156.78 affords exactly 6 shares.
	assert.Equal(t, int64(6), snap.Positions[0].Shares)
}
