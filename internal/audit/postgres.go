package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roelstierum/plcsim-go/internal/obslog"
)

// PostgresSink is a jackc/pgx/v5-backed Sink, grounded on the teacher's
// internal/repository connection-pool-and-upsert style: a single pool,
// a schema-ensure step on construction, and one insert statement per
// call, with no transaction spanning multiple writes since each
// transition is independent.
type PostgresSink struct {
	pool *pgxpool.Pool
	log  *obslog.Logger
}

// NewPostgresSink opens a pool against dsn and ensures the
// cycle_transitions table exists.
func NewPostgresSink(ctx context.Context, dsn string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("audit: unable to connect to database: %w", err)
	}
	s := &PostgresSink{pool: pool, log: obslog.New("audit.postgres")}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("audit: ensure schema: %w", err)
	}
	return s, nil
}

func (s *PostgresSink) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS cycle_transitions (
			id         BIGSERIAL PRIMARY KEY,
			lift       SMALLINT    NOT NULL,
			from_cycle INTEGER     NOT NULL,
			to_cycle   INTEGER     NOT NULL,
			reason     TEXT        NOT NULL,
			occurred_at TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

// Record inserts one transition row.
func (s *PostgresSink) Record(ctx context.Context, t Transition) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cycle_transitions (lift, from_cycle, to_cycle, reason, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`, t.Lift, t.FromCycle, t.ToCycle, t.Reason, t.At)
	if err != nil {
		s.log.Warn("record transition failed", "lift", t.Lift, "err", err)
		return fmt.Errorf("audit: record transition: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}

var _ Sink = (*PostgresSink)(nil)
