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

type lessonRepo struct {
	drv *entsql.Driver
}

func (r *lessonRepo) Load(ctx context.Context, learnerID, courseID string) (progression.Path, error) {
	query, args := builder.Select("lessons").
		From(entsql.Table(tableLessonPaths)).
		Where(entsql.And(entsql.EQ("learner_id", learnerID), entsql.EQ("course_id", courseID))).
		Query()

	var (
		data  string
		found bool
	)
	err := queryRows(ctx, r.drv, query, args, func(rows *entsql.Rows) error {
		found = true
		return rows.Scan(&data)
	})
	if err != nil {
		return nil, fmt.Errorf("load path %s/%s: %w", learnerID, courseID, err)
	}
	if !found {
		return nil, fmt.Errorf("load path %s/%s: %w", learnerID, courseID, ErrNotFound)
	}

	var path progression.Path
	if err := json.Unmarshal([]byte(data), &path); err != nil {
		return nil, fmt.Errorf("decode path: %w", err)
	}
	return path, nil
}

func (r *lessonRepo) Save(ctx context.Context, learnerID, courseID string, path progression.Path) error {
	return putPath(ctx, r.drv, learnerID, courseID, path)
}

func (r *lessonRepo) Courses(ctx context.Context, learnerID string) ([]string, error) {
	query, args := builder.Select("course_id").
		From(entsql.Table(tableLessonPaths)).
		Where(entsql.EQ("learner_id", learnerID)).
		OrderBy("course_id").
		Query()

	var out []string
	err := queryRows(ctx, r.drv, query, args, func(rows *entsql.Rows) error {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		out = append(out, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list paths for %s: %w", learnerID, err)
	}
	return out, nil
}

// putPath upserts the path for learnerID and courseID.
func putPath(ctx context.Context, q dialect.ExecQuerier, learnerID, courseID string, path progression.Path) error {
	if path == nil {
		path = progression.Path{}
	}
	data, err := json.Marshal(path)
	if err != nil {
		return fmt.Errorf("marshal path: %w", err)
	}

	query, args := builder.Insert(tableLessonPaths).
		Columns("learner_id", "course_id", "lessons", "updated_at").
		Values(learnerID, courseID, string(data), time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("learner_id", "course_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := execAffected(ctx, q, query, args); err != nil {
		return fmt.Errorf("save path %s/%s: %w", learnerID, courseID, err)
	}
	return nil
}
