package store

import (
	"context"
	"fmt"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"golang.org/x/mod/semver"
)

const metaAppVersion = "app_version"

// checkVersion rejects databases last written by a newer release and
// records appVersion otherwise. Non-semver versions such as development
// builds skip the check.
func checkVersion(ctx context.Context, q dialect.ExecQuerier, appVersion string) error {
	current := canonicalVersion(appVersion)
	if current == "" {
		return nil
	}

	stored, err := getMeta(ctx, q, metaAppVersion)
	if err != nil {
		return err
	}
	if prev := canonicalVersion(stored); prev != "" {
		switch semver.Compare(prev, current) {
		case 1:
			return fmt.Errorf("%w: database %s, binary %s", ErrStoreTooNew, prev, current)
		case 0:
			return nil
		}
	}
	return setMeta(ctx, q, metaAppVersion, current)
}

// StoredVersion returns the release that last opened the database, or "".
func (s *Store) StoredVersion(ctx context.Context) (string, error) {
	return getMeta(ctx, s.drv, metaAppVersion)
}

func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}

func getMeta(ctx context.Context, q dialect.ExecQuerier, key string) (string, error) {
	query, args := builder.Select("value").
		From(entsql.Table(tableMeta)).
		Where(entsql.EQ("id", key)).
		Query()

	var value string
	err := queryRows(ctx, q, query, args, func(rows *entsql.Rows) error {
		return rows.Scan(&value)
	})
	if err != nil {
		return "", fmt.Errorf("read meta %s: %w", key, err)
	}
	return value, nil
}

func setMeta(ctx context.Context, q dialect.ExecQuerier, key, value string) error {
	query, args := builder.Insert(tableMeta).
		Columns("id", "value").
		Values(key, value).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := execAffected(ctx, q, query, args); err != nil {
		return fmt.Errorf("write meta %s: %w", key, err)
	}
	return nil
}
