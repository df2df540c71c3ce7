package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/madan-d/classmos/internal/progression"
)

// builder produces SQLite flavoured statements.
var builder = entsql.Dialect(dialect.SQLite)

type learnerRepo struct {
	drv *entsql.Driver
}

func (r *learnerRepo) Load(ctx context.Context, id string) (*progression.Learner, error) {
	l, _, err := loadLearner(ctx, r.drv, id)
	return l, err
}

func (r *learnerRepo) LoadVersioned(ctx context.Context, id string) (*progression.Learner, int64, error) {
	return loadLearner(ctx, r.drv, id)
}

func (r *learnerRepo) Save(ctx context.Context, id string, l progression.Learner) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal learner: %w", err)
	}
	err = execSQL(ctx, r.drv, `INSERT INTO `+tableLearners+` (id, name, role, experience_total, version, data, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			experience_total = excluded.experience_total,
			version = `+tableLearners+`.version + 1,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		id, l.Name, string(l.Role), l.ExperienceTotal, string(data), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save learner %s: %w", id, err)
	}
	return nil
}

func (r *learnerRepo) SaveIfVersion(ctx context.Context, id string, l progression.Learner, expected int64) (int64, error) {
	return putLearner(ctx, r.drv, id, l, expected)
}

func (r *learnerRepo) List(ctx context.Context) ([]progression.Learner, error) {
	query, args := builder.Select("data").
		From(entsql.Table(tableLearners)).
		OrderBy("id").
		Query()

	var out []progression.Learner
	err := queryRows(ctx, r.drv, query, args, func(rows *entsql.Rows) error {
		var data string
		if err := rows.Scan(&data); err != nil {
			return err
		}
		l, err := decodeLearner(data)
		if err != nil {
			return err
		}
		out = append(out, *l)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list learners: %w", err)
	}
	return out, nil
}

func (r *learnerRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	pathQuery, pathArgs := builder.Delete(tableLessonPaths).Where(entsql.EQ("learner_id", id)).Query()
	if _, err := execAffected(ctx, tx, pathQuery, pathArgs); err != nil {
		tx.Rollback()
		return fmt.Errorf("delete lesson paths: %w", err)
	}

	query, args := builder.Delete(tableLearners).Where(entsql.EQ("id", id)).Query()
	n, err := execAffected(ctx, tx, query, args)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("delete learner: %w", err)
	}
	if n == 0 {
		tx.Rollback()
		return fmt.Errorf("delete learner %s: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

func loadLearner(ctx context.Context, q dialect.ExecQuerier, id string) (*progression.Learner, int64, error) {
	query, args := builder.Select("data", "version").
		From(entsql.Table(tableLearners)).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		data    string
		version int64
		found   bool
	)
	err := queryRows(ctx, q, query, args, func(rows *entsql.Rows) error {
		found = true
		return rows.Scan(&data, &version)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("load learner %s: %w", id, err)
	}
	if !found {
		return nil, 0, fmt.Errorf("load learner %s: %w", id, ErrNotFound)
	}

	l, err := decodeLearner(data)
	if err != nil {
		return nil, 0, err
	}
	return l, version, nil
}

// putLearner performs the version compare-and-swap write shared by
// SaveIfVersion and SaveProgress.
func putLearner(ctx context.Context, q dialect.ExecQuerier, id string, l progression.Learner, expected int64) (int64, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return 0, fmt.Errorf("marshal learner: %w", err)
	}
	now := time.Now().UnixMilli()

	if expected == 0 {
		query, args := builder.Insert(tableLearners).
			Columns("id", "name", "role", "experience_total", "version", "data", "updated_at").
			Values(id, l.Name, string(l.Role), l.ExperienceTotal, int64(1), string(data), now).
			Query()
		if _, err := execAffected(ctx, q, query, args); err != nil {
			if Classify(err) == KindConflict {
				return 0, fmt.Errorf("insert learner %s: %w", id, ErrConflict)
			}
			return 0, fmt.Errorf("insert learner %s: %w", id, err)
		}
		return 1, nil
	}

	query, args := builder.Update(tableLearners).
		Set("name", l.Name).
		Set("role", string(l.Role)).
		Set("experience_total", l.ExperienceTotal).
		Set("version", expected+1).
		Set("data", string(data)).
		Set("updated_at", now).
		Where(entsql.And(entsql.EQ("id", id), entsql.EQ("version", expected))).
		Query()
	n, err := execAffected(ctx, q, query, args)
	if err != nil {
		return 0, fmt.Errorf("update learner %s: %w", id, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("update learner %s at version %d: %w", id, expected, ErrConflict)
	}
	return expected + 1, nil
}

func decodeLearner(data string) (*progression.Learner, error) {
	var l progression.Learner
	if err := json.Unmarshal([]byte(data), &l); err != nil {
		return nil, fmt.Errorf("decode learner: %w", err)
	}
	l.Normalize()
	return &l, nil
}
