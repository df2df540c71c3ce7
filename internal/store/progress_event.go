package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by the ent SQL driver and the
// global sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

var progressColumns = []string{
	"id", "sequence", "timestamp", "session_id", "learner_id", "course_id", "lesson_id",
	"score", "total_questions", "passed", "practice", "effective_experience", "rating_delta", "leveled_up",
}

func (r *eventRepo) AppendProgress(ctx context.Context, data ProgressEventData) error {
	return appendProgress(ctx, r.drv, r.seq, data)
}

func (r *eventRepo) QueryProgress(ctx context.Context, learnerID string, opts QueryOpts) ([]ProgressEvent, error) {
	sel := builder.Select(progressColumns...).From(entsql.Table(tableProgress))
	if learnerID != "" {
		sel.Where(entsql.EQ("learner_id", learnerID))
	}
	applyQueryOpts(sel, opts)
	query, args := sel.Query()

	var out []ProgressEvent
	err := queryRows(ctx, r.drv, query, args, func(rows *entsql.Rows) error {
		var (
			e         ProgressEvent
			ts        int64
			leveledUp string
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.SessionID, &e.LearnerID, &e.CourseID, &e.LessonID,
			&e.Score, &e.TotalQuestions, &e.Passed, &e.Practice, &e.EffectiveExperience, &e.RatingDelta, &leveledUp); err != nil {
			return err
		}
		e.Timestamp = time.UnixMilli(ts)
		if leveledUp != "" {
			e.LeveledUp = strings.Split(leveledUp, ",")
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query progress events: %w", err)
	}
	return out, nil
}

func appendProgress(ctx context.Context, q dialect.ExecQuerier, seq *sequenceCounter, data ProgressEventData) error {
	seqNum, err := seq.Next(ctx, q)
	if err != nil {
		return err
	}

	query, args := builder.Insert(tableProgress).
		Columns(progressColumns[1:]...).
		Values(
			seqNum,
			eventTime(data.Timestamp),
			data.SessionID,
			data.LearnerID,
			data.CourseID,
			data.LessonID,
			data.Score,
			data.TotalQuestions,
			data.Passed,
			data.Practice,
			data.EffectiveExperience,
			data.RatingDelta,
			strings.Join(data.LeveledUp, ","),
		).
		Query()
	if _, err := execAffected(ctx, q, query, args); err != nil {
		return fmt.Errorf("save progress event: %w", err)
	}
	return nil
}

// applyQueryOpts adds the filters and pagination of opts, newest first.
func applyQueryOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UnixMilli()))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}

func eventTime(t time.Time) int64 {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().UnixMilli()
}
