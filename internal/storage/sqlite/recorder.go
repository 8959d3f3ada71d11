package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"poolScope/internal/model"
)

// Recorder appends every derived batch to a local SQLite history.
type Recorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewRecorder opens (or creates) the database and runs migrations.
func NewRecorder(path string, logger *zap.Logger) (*Recorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &Recorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", path))
	return r, nil
}

func (r *Recorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id     TEXT PRIMARY KEY,
			digest     TEXT NOT NULL,
			derived_at INTEGER NOT NULL,
			banks      INTEGER NOT NULL,
			pools      INTEGER NOT NULL,
			skipped    INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS bank_history (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id              TEXT NOT NULL,
			derived_at          INTEGER NOT NULL,
			bank_id             TEXT NOT NULL,
			version             INTEGER NOT NULL,
			coin_type           TEXT,
			total_funds         TEXT,
			funds_deployed      TEXT,
			exchange_rate       TEXT,
			utilization_percent TEXT,
			yield_percent       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bank_history_bank ON bank_history(bank_id, derived_at)`,

		`CREATE TABLE IF NOT EXISTS pool_history (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id                TEXT NOT NULL,
			derived_at            INTEGER NOT NULL,
			pool_id               TEXT NOT NULL,
			version               INTEGER NOT NULL,
			variant               TEXT,
			price_x               TEXT,
			price_y               TEXT,
			tvl                   TEXT,
			fee_tier_percent      TEXT,
			blended_yield_percent TEXT,
			lp_supply             TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pool_history_pool ON pool_history(pool_id, derived_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// PutBatch records the run and its rows in one transaction. Decimals are
// stored as text to keep full precision.
func (r *Recorder) PutBatch(ctx context.Context, batch model.DerivedBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	ts := batch.DerivedAt.Unix()
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO runs
		(run_id, digest, derived_at, banks, pools, skipped)
		VALUES (?,?,?,?,?,?)`,
		batch.RunID, batch.Digest, ts, len(batch.Banks), len(batch.Pools), batch.Skipped,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, bank := range batch.Banks {
		if _, err := tx.ExecContext(ctx, `INSERT INTO bank_history
			(run_id, derived_at, bank_id, version, coin_type, total_funds, funds_deployed,
			 exchange_rate, utilization_percent, yield_percent)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			batch.RunID, ts, bank.BankID, int64(bank.Version), bank.CoinType,
			text(bank.TotalFunds), text(bank.FundsDeployed), text(bank.ExchangeRate),
			text(bank.UtilizationPercent), text(bank.YieldPercent),
		); err != nil {
			return fmt.Errorf("insert bank %s: %w", bank.BankID, err)
		}
	}

	for _, pool := range batch.Pools {
		if _, err := tx.ExecContext(ctx, `INSERT INTO pool_history
			(run_id, derived_at, pool_id, version, variant, price_x, price_y, tvl,
			 fee_tier_percent, blended_yield_percent, lp_supply)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			batch.RunID, ts, pool.PoolID, int64(pool.Version), string(pool.Variant),
			text(pool.Price0), text(pool.Price1), text(pool.TVL),
			text(pool.FeeTierPercent), text(pool.BlendedYieldPercent), text(pool.LPSupply),
		); err != nil {
			return fmt.Errorf("insert pool %s: %w", pool.PoolID, err)
		}
	}

	return tx.Commit()
}

func (r *Recorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}

func text(d decimal.Decimal) string {
	return d.String()
}
