package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter manages the global monotonic sequence number shared across
// all event types. Each event type lives in its own table, so per-table
// auto-increment IDs can't establish cross-type ordering. This shared
// counter assigns a single increasing sequence to every event regardless of
// type, so a life regeneration and the session that spent the life can be
// put in order.
//
// Uses raw SQL outside the schema migration because the counter is a single
// row updated with RETURNING. The mutex serializes within the process; the
// RETURNING clause makes the increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
}

// newSequenceCounter ensures the tracking table exists.
func newSequenceCounter(ctx context.Context, q dialect.ExecQuerier) (*sequenceCounter, error) {
	if err := execSQL(ctx, q, `CREATE TABLE IF NOT EXISTS `+tableGlobalCounter+` (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`); err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	if err := execSQL(ctx, q, `INSERT OR IGNORE INTO `+tableGlobalCounter+` (id, next_val) VALUES (1, 1)`); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{}, nil
}

// Next atomically returns the next sequence number and increments the
// counter. q is either the driver or an open transaction.
func (sc *sequenceCounter) Next(ctx context.Context, q dialect.ExecQuerier) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := queryRows(ctx, q,
		`UPDATE `+tableGlobalCounter+` SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
		[]any{},
		func(rows *entsql.Rows) error { return rows.Scan(&seq) },
	)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	if seq == 0 {
		return 0, fmt.Errorf("next sequence: %w", sql.ErrNoRows)
	}
	return seq, nil
}

// execSQL runs a statement that returns no rows.
func execSQL(ctx context.Context, q dialect.ExecQuerier, query string, args ...any) error {
	if args == nil {
		args = []any{}
	}
	var res sql.Result
	return q.Exec(ctx, query, args, &res)
}

// execAffected runs a statement and returns the number of rows it changed.
func execAffected(ctx context.Context, q dialect.ExecQuerier, query string, args []any) (int64, error) {
	var res sql.Result
	if err := q.Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// queryRows runs query and calls scan for every returned row.
func queryRows(ctx context.Context, q dialect.ExecQuerier, query string, args []any, scan func(*entsql.Rows) error) error {
	if args == nil {
		args = []any{}
	}
	var rows entsql.Rows
	if err := q.Query(ctx, query, args, &rows); err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(&rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
