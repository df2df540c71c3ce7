package commit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/madan-d/classmos/internal/progression"
	"github.com/madan-d/classmos/internal/store"
)

// LivesState is a learner's lives after an operation.
type LivesState struct {
	Lives      int
	NextRefill time.Duration
	Changed    bool
}

func livesState(l progression.Learner, now time.Time, changed bool) LivesState {
	return LivesState{
		Lives:      l.Lives,
		NextRefill: progression.NextRefillIn(l.Lives, l.LastLifeRefillAt, now),
		Changed:    changed,
	}
}

// Regenerate runs one regeneration tick for learnerID and persists any
// recovered lives.
func (c *Committer) Regenerate(ctx context.Context, learnerID string) (LivesState, error) {
	log := c.logger.WithField("learner_id", learnerID)
	var state LivesState
	err := c.retry(ctx, log, func() error {
		l, version, err := c.backend.Learners().LoadVersioned(ctx, learnerID)
		if err != nil {
			return err
		}
		now := c.clock()
		before := l.Lives
		if !progression.RegenerateLearner(l, now) {
			state = livesState(*l, now, false)
			return nil
		}
		if _, err := c.backend.SaveLearnerWithEvent(ctx, learnerID, *l, version,
			*lifeEvent(learnerID, store.LifeRegenerated, before, l.Lives, now)); err != nil {
			return err
		}
		c.metrics.LivesRegenerated.Add(float64(l.Lives - before))
		log.WithFields(logrus.Fields{"lives": l.Lives, "recovered": l.Lives - before}).Debug("lives regenerated")
		state = livesState(*l, now, true)
		return nil
	})
	return state, err
}

// RegenerateAll runs a regeneration tick for every student below the cap
// and returns how many learners recovered lives. A failure for one learner
// does not stop the others.
func (c *Committer) RegenerateAll(ctx context.Context) (int, error) {
	learners, err := c.backend.Learners().List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list learners: %w", err)
	}
	var (
		changed int
		errs    []error
	)
	for _, l := range learners {
		if !l.IsStudent() || l.Lives >= progression.MaxLives {
			continue
		}
		state, err := c.Regenerate(ctx, l.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("regenerate %s: %w", l.ID, err))
			continue
		}
		if state.Changed {
			changed++
		}
	}
	return changed, errors.Join(errs...)
}

// LoseLife charges one life for a wrong answer. Practice sessions are free
// and leave the learner untouched.
func (c *Committer) LoseLife(ctx context.Context, learnerID string, practice bool) (LivesState, error) {
	log := c.logger.WithField("learner_id", learnerID)
	var state LivesState
	err := c.retry(ctx, log, func() error {
		l, version, err := c.backend.Learners().LoadVersioned(ctx, learnerID)
		if err != nil {
			return err
		}
		now := c.clock()
		if !l.IsStudent() {
			return progression.ErrNotStudent
		}
		if practice {
			state = livesState(*l, now, false)
			return nil
		}
		progression.RegenerateLearner(l, now)
		if l.Lives == 0 {
			state = livesState(*l, now, false)
			return nil
		}

		before := l.Lives
		l.Lives, l.LastLifeRefillAt = progression.LoseLife(l.Lives, l.LastLifeRefillAt, now)
		if _, err := c.backend.SaveLearnerWithEvent(ctx, learnerID, *l, version,
			*lifeEvent(learnerID, store.LifeLost, before, l.Lives, now)); err != nil {
			return err
		}
		log.WithField("lives", l.Lives).Debug("life lost")
		state = livesState(*l, now, true)
		return nil
	})
	return state, err
}

// Session is a lesson ready to be played.
type Session struct {
	Learner  progression.Learner
	Lesson   progression.Lesson
	Practice bool
	Lives    LivesState
}

// Start checks that learnerID may play lessonID in courseID, running one
// regeneration tick first so a refilled life counts. A learner with no
// record yet starts as a fresh student, matching Complete. On ErrNoLives
// the returned session still carries the lives state.
func (c *Committer) Start(ctx context.Context, learnerID, courseID string, lessonID int) (Session, error) {
	l, lives, err := c.startLearner(ctx, learnerID)
	if err != nil {
		return Session{}, err
	}
	path, err := c.backend.Lessons().Load(ctx, learnerID, courseID)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, fmt.Errorf("%w %s", ErrNoPath, courseID)
	}
	if err != nil {
		return Session{}, fmt.Errorf("load path: %w", err)
	}
	lesson, ok := path.Find(lessonID)
	if !ok {
		return Session{}, progression.ErrLessonNotFound
	}
	if lesson.Status == progression.StatusLocked {
		return Session{}, ErrLessonLocked
	}
	if err := progression.CanStart(l, lesson); err != nil {
		return Session{Learner: l, Lesson: lesson, Lives: lives}, err
	}
	return Session{Learner: l, Lesson: lesson, Practice: lesson.Completed(), Lives: lives}, nil
}

func (c *Committer) startLearner(ctx context.Context, learnerID string) (progression.Learner, LivesState, error) {
	lives, err := c.Regenerate(ctx, learnerID)
	if errors.Is(err, store.ErrNotFound) {
		now := c.clock()
		l := progression.NewLearner(learnerID, "", now)
		return l, livesState(l, now, false), nil
	}
	if err != nil {
		return progression.Learner{}, LivesState{}, fmt.Errorf("regenerate lives: %w", err)
	}
	l, err := c.backend.Learners().Load(ctx, learnerID)
	if err != nil {
		return progression.Learner{}, LivesState{}, fmt.Errorf("load learner: %w", err)
	}
	return *l, lives, nil
}
