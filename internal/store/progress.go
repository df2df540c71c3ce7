package store

import (
	"context"
	"fmt"

	"github.com/madan-d/classmos/internal/progression"
)

// ProgressCommit is everything one finished session writes.
type ProgressCommit struct {
	LearnerID string
	Learner   progression.Learner

	// ExpectedVersion is the learner row version the commit was computed
	// from. Zero means the learner is new.
	ExpectedVersion int64

	CourseID string
	Path     progression.Path

	Event ProgressEventData

	// Life is recorded alongside the session when lives changed.
	Life *LifeEventData
}

// SaveProgress writes the learner, the lesson path and the session event in
// one transaction. The learner write is conditional on ExpectedVersion; a
// stale version aborts the whole commit with ErrConflict. It returns the
// new learner version.
func (s *Store) SaveProgress(ctx context.Context, c ProgressCommit) (version int64, err error) {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	version, err = putLearner(ctx, tx, c.LearnerID, c.Learner, c.ExpectedVersion)
	if err != nil {
		return 0, err
	}
	if err = putPath(ctx, tx, c.LearnerID, c.CourseID, c.Path); err != nil {
		return 0, err
	}
	if err = appendProgress(ctx, tx, s.seq, c.Event); err != nil {
		return 0, err
	}
	if c.Life != nil {
		if err = appendLife(ctx, tx, s.seq, *c.Life); err != nil {
			return 0, err
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return version, nil
}

// SaveLearnerWithEvent conditionally writes the learner and records a life
// event in one transaction.
func (s *Store) SaveLearnerWithEvent(ctx context.Context, id string, l progression.Learner, expected int64, life LifeEventData) (version int64, err error) {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	version, err = putLearner(ctx, tx, id, l, expected)
	if err != nil {
		return 0, err
	}
	if err = appendLife(ctx, tx, s.seq, life); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return version, nil
}
