package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/InfinityAbhi/Growth-High-AI/internal/account"
	"github.com/InfinityAbhi/Growth-High-AI/internal/ledger"
	"github.com/InfinityAbhi/Growth-High-AI/internal/logger"
	"github.com/InfinityAbhi/Growth-High-AI/internal/model"
	"github.com/jmoiron/sqlx"
)

const (
	_schema = `
		CREATE TABLE IF NOT EXISTS ledgers (
			account_id   TEXT PRIMARY KEY,
			cash         NUMERIC NOT NULL,
			initial_cash NUMERIC NOT NULL
		);
		CREATE TABLE IF NOT EXISTS positions (
			account_id TEXT NOT NULL,
			symbol     TEXT NOT NULL,
			shares     BIGINT NOT NULL,
			avg_price  NUMERIC NOT NULL,
			PRIMARY KEY (account_id, symbol)
		);
		CREATE TABLE IF NOT EXISTS trades (
			id          TEXT PRIMARY KEY,
			account_id  TEXT NOT NULL,
			symbol      TEXT NOT NULL,
			side        TEXT NOT NULL,
			shares      BIGINT NOT NULL,
			price       NUMERIC NOT NULL,
			total       NUMERIC NOT NULL,
			executed_at TIMESTAMPTZ NOT NULL
		);`

	_queryLedger    = "SELECT cash, initial_cash FROM ledgers WHERE account_id = $1"
	_queryPositions = "SELECT symbol, shares, avg_price FROM positions WHERE account_id = $1 ORDER BY symbol"
	_queryTrades    = "SELECT id, symbol, side, shares, price, total, executed_at FROM trades WHERE account_id = $1 ORDER BY executed_at, id"

	_upsertLedger = `INSERT INTO ledgers (account_id, cash, initial_cash)
						VALUES ($1, $2, $3)
						ON CONFLICT (account_id)
						DO UPDATE SET cash = EXCLUDED.cash, initial_cash = EXCLUDED.initial_cash;`
	_deletePositions = "DELETE FROM positions WHERE account_id = $1"
	_insertPosition  = "INSERT INTO positions (account_id, symbol, shares, avg_price) VALUES ($1, $2, $3, $4)"
	// Trades are append-only, an already persisted id is never rewritten.
	_insertTrade = `INSERT INTO trades (id, account_id, symbol, side, shares, price, total, executed_at)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
						ON CONFLICT (id) DO NOTHING;`
)

// SnapshotStore persists per-account ledger snapshots so a restart preserves
// the book. The ledger stays the source of truth in memory, the store only
// mirrors it on an interval.
type SnapshotStore struct {
	db       *sqlx.DB
	accounts *account.Directory

	flushInterval time.Duration
	logger        logger.Logger
}

func NewSnapshotStore(db *sqlx.DB, accounts *account.Directory, flushInterval time.Duration, logger logger.Logger) *SnapshotStore {
	return &SnapshotStore{
		db:            db,
		accounts:      accounts,
		flushInterval: flushInterval,
		logger:        logger,
	}
}

func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, _schema); err != nil {
		return fmt.Errorf("%w: can't ensure schema", err)
	}
	return nil
}

// Load reads one account's snapshot. The bool reports whether one exists.
func (s *SnapshotStore) Load(ctx context.Context, accountID string) (model.LedgerSnapshot, bool, error) {
	var snap model.LedgerSnapshot
	if err := s.db.GetContext(ctx, &snap, _queryLedger, accountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return snap, false, nil
		}
		return snap, false, fmt.Errorf("%w: can't query ledger", err)
	}

	if err := s.db.SelectContext(ctx, &snap.Positions, _queryPositions, accountID); err != nil {
		return snap, false, fmt.Errorf("%w: can't query positions", err)
	}
	if err := s.db.SelectContext(ctx, &snap.Trades, _queryTrades, accountID); err != nil {
		return snap, false, fmt.Errorf("%w: can't query trades", err)
	}

	return snap, true, nil
}

// Save upserts one account's snapshot in a single transaction. Positions are
// rewritten wholesale so closed positions disappear.
func (s *SnapshotStore) Save(ctx context.Context, accountID string, snap model.LedgerSnapshot) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: can't begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, _upsertLedger, accountID, snap.Cash, snap.InitialCash); err != nil {
		return fmt.Errorf("%w: can't upsert ledger", err)
	}

	if _, err := tx.ExecContext(ctx, _deletePositions, accountID); err != nil {
		return fmt.Errorf("%w: can't clear positions", err)
	}
	for _, pos := range snap.Positions {
		if _, err := tx.ExecContext(ctx, _insertPosition, accountID, pos.Symbol, pos.Shares, pos.AvgPrice); err != nil {
			return fmt.Errorf("%w: can't insert position %s", err, pos.Symbol)
		}
	}

	for _, trade := range snap.Trades {
		if _, err := tx.ExecContext(ctx, _insertTrade,
			trade.ID, accountID, trade.Symbol, trade.Side, trade.Shares, trade.Price, trade.Total, trade.Timestamp,
		); err != nil {
			return fmt.Errorf("%w: can't insert trade %s", err, trade.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: can't commit snapshot", err)
	}
	return nil
}

// RestoreLedgers swaps persisted ledgers into the directory at boot.
func (s *SnapshotStore) RestoreLedgers(ctx context.Context) error {
	for _, acc := range s.accounts.Accounts() {
		snap, ok, err := s.Load(ctx, acc.ID)
		if err != nil {
			return fmt.Errorf("%w: can't load snapshot for %s", err, acc.ID)
		}
		if !ok {
			continue
		}

		restored, err := ledger.Restore(snap)
		if err != nil {
			return fmt.Errorf("%w: corrupt snapshot for %s", err, acc.ID)
		}
		if err := s.accounts.ReplaceLedger(acc.Email, restored); err != nil {
			return fmt.Errorf("%w: can't attach restored ledger", err)
		}
		s.logger.Infof("restored ledger for %s: %d trades", acc.Email, len(snap.Trades))
	}
	return nil
}

func (s *SnapshotStore) FlushAll(ctx context.Context) error {
	for _, acc := range s.accounts.Accounts() {
		if err := s.Save(ctx, acc.ID, acc.Ledger().Export()); err != nil {
			return fmt.Errorf("%w: can't flush %s", err, acc.ID)
		}
	}
	return nil
}

// Run flushes all ledgers on the configured interval until ctx is done, then
// does a final flush.
func (s *SnapshotStore) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.FlushAll(flushCtx); err != nil {
				s.logger.Errorf("%s: final flush failed", err)
			}
			return
		case <-time.After(s.flushInterval):
			if err := s.FlushAll(ctx); err != nil {
				s.logger.Errorf("%s: error flushing ledgers", err)
			}
		}
	}
}
