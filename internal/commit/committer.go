// Package commit applies finished sessions and life changes to stored
// learner state, retrying transient failures and never leaving a half
// written session behind.
package commit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/madan-d/classmos/internal/backoff"
	"github.com/madan-d/classmos/internal/progression"
	"github.com/madan-d/classmos/internal/store"
)

// ErrNoPath is returned when the learner has no lesson path for the course.
var ErrNoPath = errors.New("no lesson path for course")

// ErrLessonLocked is returned when starting or completing a lesson that is
// not unlocked.
var ErrLessonLocked = progression.ErrLessonLocked

// Backend is the persistence the committer needs. *store.Store satisfies it.
type Backend interface {
	Learners() store.LearnerRepo
	Lessons() store.LessonRepo
	SaveProgress(ctx context.Context, c store.ProgressCommit) (int64, error)
	SaveLearnerWithEvent(ctx context.Context, id string, l progression.Learner, expected int64, life store.LifeEventData) (int64, error)
}

// Request identifies a finished session.
type Request struct {
	LearnerID string
	CourseID  string
	LessonID  int
	Result    progression.SessionResult

	// SessionID is generated when empty.
	SessionID string
}

// Result is either Committed or RolledBack.
type Result interface {
	isResult()
}

// Committed carries the applied outcome and the learner's new version.
type Committed struct {
	SessionID string
	Outcome   progression.Outcome
	Version   int64
}

// RolledBack reports a session that was not persisted. Previous and
// PreviousPath are the state last read from the store, unchanged.
type RolledBack struct {
	Previous     progression.Learner
	PreviousPath progression.Path
	Err          error
}

func (Committed) isResult()  {}
func (RolledBack) isResult() {}

// Committer serializes session outcomes into the store.
type Committer struct {
	backend Backend
	policy  backoff.Policy
	metrics *Metrics
	logger  logrus.FieldLogger
	now     func() time.Time
	loc     *time.Location
}

// Option configures a Committer.
type Option func(*Committer)

// WithPolicy sets the retry policy.
func WithPolicy(p backoff.Policy) Option { return func(c *Committer) { c.policy = p } }

// WithMetrics sets the collectors.
func WithMetrics(m *Metrics) Option { return func(c *Committer) { c.metrics = m } }

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option { return func(c *Committer) { c.logger = l } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(c *Committer) { c.now = now } }

// WithLocation sets the time zone calendar days are counted in.
func WithLocation(loc *time.Location) Option { return func(c *Committer) { c.loc = loc } }

// DefaultPolicy retries a handful of times with short waits; SQLite
// contention clears quickly.
var DefaultPolicy = backoff.Policy{
	MaxAttempts: 5,
	InitialWait: 20 * time.Millisecond,
	MaxWait:     500 * time.Millisecond,
	Multiplier:  2,
}

// New creates a Committer over b.
func New(b Backend, opts ...Option) *Committer {
	c := &Committer{
		backend: b,
		policy:  DefaultPolicy,
		now:     time.Now,
		loc:     time.Local,
	}
	for _, o := range opts {
		o(c)
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(nil)
	}
	if c.logger == nil {
		c.logger = logrus.StandardLogger()
	}
	return c
}

func (c *Committer) clock() time.Time {
	return c.now().In(c.loc)
}

// Retryable reports whether err may clear if the operation is re-run from
// a fresh read.
func Retryable(err error) bool {
	switch store.Classify(err) {
	case store.KindTransient, store.KindConflict:
		return true
	}
	return false
}

// retry runs fn until it succeeds, fails with a non-retryable error or the
// policy is exhausted. fn must re-read any state it depends on.
func (c *Committer) retry(ctx context.Context, log logrus.FieldLogger, fn func() error) error {
	var err error
	attempts := c.policy.Attempts()
	for attempt := range attempts {
		if attempt > 0 {
			c.metrics.Retries.Inc()
			log.WithError(err).WithField("attempt", attempt+1).Debug("retrying commit")
			if serr := backoff.Sleep(ctx, c.policy.Delay(attempt-1)); serr != nil {
				return errors.Join(err, serr)
			}
		}
		if err = fn(); err == nil {
			return nil
		}
		if store.IsPermissionDenied(err) {
			log.WithError(err).Error("store is not writable")
			return err
		}
		if !Retryable(err) {
			return err
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
}

// Complete applies a finished session and persists it atomically. The
// caller must only surface the new state when the result is Committed. A
// locked lesson rolls back with ErrLessonLocked and a student without lives
// rolls back with ErrNoLives unless the lesson is already completed.
func (c *Committer) Complete(ctx context.Context, req Request) Result {
	start := time.Now()
	defer func() { c.metrics.Duration.Observe(time.Since(start).Seconds()) }()

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	log := c.logger.WithFields(logrus.Fields{
		"learner_id": req.LearnerID,
		"course_id":  req.CourseID,
		"lesson_id":  req.LessonID,
		"session_id": req.SessionID,
	})

	var (
		prev     progression.Learner
		prevPath progression.Path
		out      progression.Outcome
		version  int64
	)
	err := c.retry(ctx, log, func() error {
		l, expected, err := c.loadLearner(ctx, req.LearnerID)
		if err != nil {
			return err
		}
		path, err := c.backend.Lessons().Load(ctx, req.LearnerID, req.CourseID)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w %s", ErrNoPath, req.CourseID)
		}
		if err != nil {
			return err
		}
		prev, prevPath = l.Clone(), path.Clone()

		now := c.clock()
		if lesson, ok := path.Find(req.LessonID); ok {
			// Lives that accrued since the last tick count toward the gate.
			// They are persisted by the next regeneration tick.
			gate := l.Clone()
			progression.RegenerateLearner(&gate, now)
			if err := progression.CanStart(gate, lesson); err != nil {
				return err
			}
		}
		out, err = progression.Advance(progression.Input{
			Learner:        l,
			Path:           path,
			LessonID:       req.LessonID,
			Result:         req.Result,
			ActiveCourseID: req.CourseID,
			Now:            now,
		})
		if err != nil {
			return err
		}

		version, err = c.backend.SaveProgress(ctx, store.ProgressCommit{
			LearnerID:       req.LearnerID,
			Learner:         out.Learner,
			ExpectedVersion: expected,
			CourseID:        req.CourseID,
			Path:            out.Path,
			Event:           progressEvent(req, out, now),
			Life:            lifeEvent(req.LearnerID, store.LifeRecovered, l.Lives, out.Learner.Lives, now),
		})
		return err
	})
	if err != nil {
		c.metrics.Sessions.WithLabelValues(OutcomeRolledBack).Inc()
		log.WithError(err).Warn("session rolled back")
		return RolledBack{Previous: prev, PreviousPath: prevPath, Err: err}
	}

	outcome := OutcomeFailed
	switch {
	case out.Practice:
		outcome = OutcomePractice
	case out.Verdict.Passed:
		outcome = OutcomePassed
	}
	c.metrics.Sessions.WithLabelValues(outcome).Inc()
	log.WithFields(logrus.Fields{
		"outcome":    outcome,
		"experience": out.Verdict.EffectiveExperience,
		"version":    version,
	}).Info("session committed")

	return Committed{SessionID: req.SessionID, Outcome: out, Version: version}
}

// loadLearner returns the stored learner and version, or a fresh student
// at version zero when none exists.
func (c *Committer) loadLearner(ctx context.Context, id string) (progression.Learner, int64, error) {
	l, version, err := c.backend.Learners().LoadVersioned(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return progression.NewLearner(id, "", c.clock()), 0, nil
	}
	if err != nil {
		return progression.Learner{}, 0, err
	}
	return *l, version, nil
}

func progressEvent(req Request, out progression.Outcome, now time.Time) store.ProgressEventData {
	return store.ProgressEventData{
		SessionID:           req.SessionID,
		LearnerID:           req.LearnerID,
		CourseID:            req.CourseID,
		LessonID:            req.LessonID,
		Score:               req.Result.Score,
		TotalQuestions:      req.Result.TotalQuestions,
		Passed:              out.Verdict.Passed,
		Practice:            out.Practice,
		EffectiveExperience: out.Verdict.EffectiveExperience,
		RatingDelta:         out.RatingDelta,
		LeveledUp:           lo.Map(out.LeveledUp, func(a progression.Achievement, _ int) string { return a.Key }),
		Timestamp:           now,
	}
}

// lifeEvent returns nil when lives did not change.
func lifeEvent(learnerID string, reason store.LifeReason, before, after int, now time.Time) *store.LifeEventData {
	if before == after {
		return nil
	}
	return &store.LifeEventData{
		LearnerID:   learnerID,
		Reason:      reason,
		LivesBefore: before,
		LivesAfter:  after,
		Timestamp:   now,
	}
}
