package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var llmColumns = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose", "input_tokens", "output_tokens",
	"latency_ms", "success", "error_message", "request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx, r.drv)
	if err != nil {
		return err
	}

	query, args := builder.Insert(tableLLMRequests).
		Columns(llmColumns[1:]...).
		Values(
			seqNum,
			eventTime(time.Time{}),
			data.Provider,
			data.Model,
			data.Purpose,
			data.InputTokens,
			data.OutputTokens,
			data.LatencyMs,
			data.Success,
			data.ErrorMessage,
			data.RequestBody,
			data.ResponseBody,
		).
		Query()
	if _, err := execAffected(ctx, r.drv, query, args); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	sel := builder.Select(llmColumns...).From(entsql.Table(tableLLMRequests))
	applyQueryOpts(sel, opts)
	query, args := sel.Query()

	out, err := r.scanLLM(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error) {
	query, args := builder.Select(llmColumns...).
		From(entsql.Table(tableLLMRequests)).
		Where(entsql.EQ("id", id)).
		Query()

	out, err := r.scanLLM(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("get LLM event %d: %w", id, ErrNotFound)
	}
	return &out[0], nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	query := `SELECT purpose, COUNT(*), COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0), COALESCE(AVG(latency_ms), 0)
		FROM ` + tableLLMRequests + ` GROUP BY purpose ORDER BY COUNT(*) DESC, purpose`

	var out []PurposeUsage
	err := queryRows(ctx, r.drv, query, nil, func(rows *entsql.Rows) error {
		var (
			u   PurposeUsage
			avg float64
		)
		if err := rows.Scan(&u.Purpose, &u.Calls, &u.InputTokens, &u.OutputTokens, &avg); err != nil {
			return err
		}
		u.AvgLatencyMs = int64(avg)
		out = append(out, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("usage by purpose: %w", err)
	}
	return out, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	query := `SELECT model, COUNT(*), COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0)
		FROM ` + tableLLMRequests + ` GROUP BY model ORDER BY COUNT(*) DESC, model`

	var out []ModelUsage
	err := queryRows(ctx, r.drv, query, nil, func(rows *entsql.Rows) error {
		var u ModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens); err != nil {
			return err
		}
		out = append(out, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("usage by model: %w", err)
	}
	return out, nil
}

func (r *eventRepo) scanLLM(ctx context.Context, query string, args []any) ([]LLMEvent, error) {
	var out []LLMEvent
	err := queryRows(ctx, r.drv, query, args, func(rows *entsql.Rows) error {
		var (
			e  LLMEvent
			ts int64
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.Provider, &e.Model, &e.Purpose, &e.InputTokens, &e.OutputTokens,
			&e.LatencyMs, &e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody); err != nil {
			return err
		}
		e.Timestamp = time.UnixMilli(ts)
		out = append(out, e)
		return nil
	})
	return out, err
}
