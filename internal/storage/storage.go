// Package storage persists completed assessments to Postgres. Persistence is
// best-effort infrastructure around the pipeline: the server logs and
// continues when a save fails.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oncorisk/ovassess"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS assessments (
	id               TEXT PRIMARY KEY,
	risk_level       TEXT NOT NULL,
	probability      DOUBLE PRECISION NOT NULL,
	base_probability DOUBLE PRECISION NOT NULL,
	label            INTEGER NOT NULL,
	risk_details     JSONB NOT NULL,
	used_fallback    BOOLEAN NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store writes assessment records to a Postgres pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against url, verifies it with a short ping, and
// ensures the assessments table exists.
func Connect(ctx context.Context, url string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure assessments table: %w", err)
	}
	return nil
}

// SaveAssessment records one completed assessment. The narrative bundle is
// not persisted; it is derivable and may contain remote-service text the
// log has no use for.
func (s *Store) SaveAssessment(ctx context.Context, a *ovassess.Assessment) error {
	details, err := json.Marshal(a.RiskDetails)
	if err != nil {
		return fmt.Errorf("encode risk details: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO assessments
			(id, risk_level, probability, base_probability, label, risk_details, used_fallback)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, string(a.RiskLevel), a.Probability, a.BaseProbability, a.Label, details, a.UsedFallback)
	if err != nil {
		return fmt.Errorf("insert assessment %s: %w", a.ID, err)
	}
	return nil
}

// Ping reports pool health.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}
