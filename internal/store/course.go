package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/madan-d/classmos/internal/progression"
)

type courseRepo struct {
	drv *entsql.Driver
}

var courseColumns = []string{"id", "title", "flag", "code", "owner_id", "structure", "created_at"}

func (r *courseRepo) Save(ctx context.Context, c Course) error {
	data, err := json.Marshal(c.Structure)
	if err != nil {
		return fmt.Errorf("marshal structure: %w", err)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	query, args := builder.Insert(tableCourses).
		Columns(courseColumns...).
		Values(c.ID, c.Title, c.Flag, c.Code, c.OwnerID, string(data), c.CreatedAt.UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := execAffected(ctx, r.drv, query, args); err != nil {
		return fmt.Errorf("save course %s: %w", c.ID, err)
	}
	return nil
}

func (r *courseRepo) Load(ctx context.Context, id string) (*Course, error) {
	return r.findOne(ctx, entsql.EQ("id", id), "course "+id)
}

func (r *courseRepo) FindByCode(ctx context.Context, code string) (*Course, error) {
	return r.findOne(ctx, entsql.EQ("code", code), "course code "+code)
}

func (r *courseRepo) List(ctx context.Context) ([]Course, error) {
	query, args := builder.Select(courseColumns...).
		From(entsql.Table(tableCourses)).
		OrderBy("created_at", "id").
		Query()
	out, err := r.scan(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return out, nil
}

func (r *courseRepo) findOne(ctx context.Context, p *entsql.Predicate, what string) (*Course, error) {
	query, args := builder.Select(courseColumns...).
		From(entsql.Table(tableCourses)).
		Where(p).
		Limit(1).
		Query()
	out, err := r.scan(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", what, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("load %s: %w", what, ErrNotFound)
	}
	return &out[0], nil
}

func (r *courseRepo) scan(ctx context.Context, query string, args []any) ([]Course, error) {
	var out []Course
	err := queryRows(ctx, r.drv, query, args, func(rows *entsql.Rows) error {
		var (
			c         Course
			structure string
			created   int64
		)
		if err := rows.Scan(&c.ID, &c.Title, &c.Flag, &c.Code, &c.OwnerID, &structure, &created); err != nil {
			return err
		}
		var s progression.Structure
		if err := json.Unmarshal([]byte(structure), &s); err != nil {
			return fmt.Errorf("decode structure: %w", err)
		}
		c.Structure = s
		c.CreatedAt = time.UnixMilli(created)
		out = append(out, c)
		return nil
	})
	return out, err
}
