package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"poolScope/internal/model"
)

// Store provides Postgres persistence for derived metrics.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS banks (
		bank_id             TEXT PRIMARY KEY,
		version             BIGINT NOT NULL,
		coin_type           TEXT NOT NULL,
		ftoken_type         TEXT NOT NULL,
		funds_available     NUMERIC NOT NULL,
		funds_deployed      NUMERIC NOT NULL,
		total_funds         NUMERIC NOT NULL,
		ftoken_supply       NUMERIC NOT NULL,
		exchange_rate       NUMERIC NOT NULL,
		utilization_percent NUMERIC NOT NULL,
		yield_percent       NUMERIC NOT NULL,
		run_id              TEXT NOT NULL,
		derived_at          TIMESTAMPTZ NOT NULL,
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS pools (
		pool_id               TEXT PRIMARY KEY,
		version               BIGINT NOT NULL,
		variant               TEXT NOT NULL,
		coin_type_x           TEXT NOT NULL,
		coin_type_y           TEXT NOT NULL,
		balance_x             NUMERIC NOT NULL,
		balance_y             NUMERIC NOT NULL,
		price_x               NUMERIC NOT NULL,
		price_y               NUMERIC NOT NULL,
		tvl                   NUMERIC NOT NULL,
		fee_tier_percent      NUMERIC NOT NULL,
		protocol_fee_percent  NUMERIC NOT NULL,
		yield_x_percent       NUMERIC NOT NULL,
		yield_y_percent       NUMERIC NOT NULL,
		blended_yield_percent NUMERIC NOT NULL,
		lp_supply             NUMERIC NOT NULL,
		lp_minted             NUMERIC,
		lp_burned             NUMERIC,
		run_id                TEXT NOT NULL,
		derived_at            TIMESTAMPTZ NOT NULL,
		updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS derive_state (
		name       TEXT PRIMARY KEY,
		run_id     TEXT NOT NULL,
		digest     TEXT NOT NULL,
		derived_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates the tables when they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// PutBatch upserts the batch's banks and pools.
func (s *Store) PutBatch(ctx context.Context, batch model.DerivedBatch) error {
	if err := s.UpsertBanks(ctx, batch.RunID, batch.DerivedAt, batch.Banks); err != nil {
		return fmt.Errorf("upsert banks: %w", err)
	}
	if err := s.UpsertPools(ctx, batch.RunID, batch.DerivedAt, batch.Pools); err != nil {
		return fmt.Errorf("upsert pools: %w", err)
	}
	return nil
}

// UpsertBanks inserts or updates the latest metrics of each bank. Rows from an
// older object version never overwrite newer ones.
func (s *Store) UpsertBanks(ctx context.Context, runID string, derivedAt time.Time, banks []model.ParsedBank) error {
	if len(banks) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, bank := range banks {
		batch.Queue(`
			INSERT INTO banks (
				bank_id, version, coin_type, ftoken_type, funds_available, funds_deployed, total_funds,
				ftoken_supply, exchange_rate, utilization_percent, yield_percent, run_id, derived_at, updated_at
			) VALUES ($1,$2,$3,$4,$5::numeric,$6::numeric,$7::numeric,$8::numeric,$9::numeric,$10::numeric,$11::numeric,$12,$13,now())
			ON CONFLICT (bank_id)
			DO UPDATE SET
				version = EXCLUDED.version,
				coin_type = EXCLUDED.coin_type,
				ftoken_type = EXCLUDED.ftoken_type,
				funds_available = EXCLUDED.funds_available,
				funds_deployed = EXCLUDED.funds_deployed,
				total_funds = EXCLUDED.total_funds,
				ftoken_supply = EXCLUDED.ftoken_supply,
				exchange_rate = EXCLUDED.exchange_rate,
				utilization_percent = EXCLUDED.utilization_percent,
				yield_percent = EXCLUDED.yield_percent,
				run_id = EXCLUDED.run_id,
				derived_at = EXCLUDED.derived_at,
				updated_at = now()
			WHERE banks.version <= EXCLUDED.version
		`,
			bank.BankID,
			int64(bank.Version),
			bank.CoinType,
			bank.DerivativeType,
			bank.FundsAvailable.String(),
			bank.FundsDeployed.String(),
			bank.TotalFunds.String(),
			bank.DerivativeSupply.String(),
			bank.ExchangeRate.String(),
			bank.UtilizationPercent.String(),
			bank.YieldPercent.String(),
			runID,
			derivedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range banks {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertPools inserts or updates the latest metrics of each pool.
func (s *Store) UpsertPools(ctx context.Context, runID string, derivedAt time.Time, pools []model.ParsedPool) error {
	if len(pools) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, pool := range pools {
		batch.Queue(`
			INSERT INTO pools (
				pool_id, version, variant, coin_type_x, coin_type_y, balance_x, balance_y, price_x, price_y,
				tvl, fee_tier_percent, protocol_fee_percent, yield_x_percent, yield_y_percent,
				blended_yield_percent, lp_supply, lp_minted, lp_burned, run_id, derived_at, updated_at
			) VALUES (
				$1,$2,$3,$4,$5,$6::numeric,$7::numeric,$8::numeric,$9::numeric,$10::numeric,$11::numeric,$12::numeric,
				$13::numeric,$14::numeric,$15::numeric,$16::numeric,$17::numeric,$18::numeric,$19,$20,now()
			)
			ON CONFLICT (pool_id)
			DO UPDATE SET
				version = EXCLUDED.version,
				variant = EXCLUDED.variant,
				coin_type_x = EXCLUDED.coin_type_x,
				coin_type_y = EXCLUDED.coin_type_y,
				balance_x = EXCLUDED.balance_x,
				balance_y = EXCLUDED.balance_y,
				price_x = EXCLUDED.price_x,
				price_y = EXCLUDED.price_y,
				tvl = EXCLUDED.tvl,
				fee_tier_percent = EXCLUDED.fee_tier_percent,
				protocol_fee_percent = EXCLUDED.protocol_fee_percent,
				yield_x_percent = EXCLUDED.yield_x_percent,
				yield_y_percent = EXCLUDED.yield_y_percent,
				blended_yield_percent = EXCLUDED.blended_yield_percent,
				lp_supply = EXCLUDED.lp_supply,
				lp_minted = EXCLUDED.lp_minted,
				lp_burned = EXCLUDED.lp_burned,
				run_id = EXCLUDED.run_id,
				derived_at = EXCLUDED.derived_at,
				updated_at = now()
			WHERE pools.version <= EXCLUDED.version
		`,
			pool.PoolID,
			int64(pool.Version),
			string(pool.Variant),
			pool.CoinType0,
			pool.CoinType1,
			pool.Balance0.String(),
			pool.Balance1.String(),
			pool.Price0.String(),
			pool.Price1.String(),
			pool.TVL.String(),
			pool.FeeTierPercent.String(),
			pool.ProtocolFeePercent.String(),
			pool.Yield0Percent.String(),
			pool.Yield1Percent.String(),
			pool.BlendedYieldPercent.String(),
			pool.LPSupply.String(),
			optionalNumeric(pool.LPMinted),
			optionalNumeric(pool.LPBurned),
			runID,
			derivedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range pools {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns the last published run for a name.
func (s *Store) LoadState(ctx context.Context, name string) (model.RunState, bool, error) {
	if name == "" {
		return model.RunState{}, false, fmt.Errorf("state name required")
	}
	var state model.RunState
	row := s.pool.QueryRow(ctx, `SELECT run_id, digest, derived_at FROM derive_state WHERE name=$1`, name)
	if err := row.Scan(&state.RunID, &state.Digest, &state.DerivedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RunState{}, false, nil
		}
		return model.RunState{}, false, err
	}
	return state, true, nil
}

// SaveState upserts the last published run for a name.
func (s *Store) SaveState(ctx context.Context, name string, state model.RunState) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO derive_state (name, run_id, digest, derived_at, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (name) DO UPDATE
		SET run_id = EXCLUDED.run_id, digest = EXCLUDED.digest, derived_at = EXCLUDED.derived_at, updated_at = now()
	`, name, state.RunID, state.Digest, state.DerivedAt)
	return err
}

func optionalNumeric(value *decimal.Decimal) *string {
	if value == nil {
		return nil
	}
	s := value.String()
	return &s
}
