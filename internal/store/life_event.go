package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendLife(ctx context.Context, data LifeEventData) error {
	return appendLife(ctx, r.drv, r.seq, data)
}

func (r *eventRepo) QueryLife(ctx context.Context, learnerID string, opts QueryOpts) ([]LifeEvent, error) {
	sel := builder.Select("id", "sequence", "timestamp", "learner_id", "reason", "lives_before", "lives_after").
		From(entsql.Table(tableLifeEvents))
	if learnerID != "" {
		sel.Where(entsql.EQ("learner_id", learnerID))
	}
	applyQueryOpts(sel, opts)
	query, args := sel.Query()

	var out []LifeEvent
	err := queryRows(ctx, r.drv, query, args, func(rows *entsql.Rows) error {
		var (
			e      LifeEvent
			ts     int64
			reason string
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.LearnerID, &reason, &e.LivesBefore, &e.LivesAfter); err != nil {
			return err
		}
		e.Timestamp = time.UnixMilli(ts)
		e.Reason = LifeReason(reason)
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query life events: %w", err)
	}
	return out, nil
}

func appendLife(ctx context.Context, q dialect.ExecQuerier, seq *sequenceCounter, data LifeEventData) error {
	seqNum, err := seq.Next(ctx, q)
	if err != nil {
		return err
	}

	query, args := builder.Insert(tableLifeEvents).
		Columns("sequence", "timestamp", "learner_id", "reason", "lives_before", "lives_after").
		Values(seqNum, eventTime(data.Timestamp), data.LearnerID, string(data.Reason), data.LivesBefore, data.LivesAfter).
		Query()
	if _, err := execAffected(ctx, q, query, args); err != nil {
		return fmt.Errorf("save life event: %w", err)
	}
	return nil
}
