package commit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madan-d/classmos/internal/backoff"
	"github.com/madan-d/classmos/internal/progression"
	"github.com/madan-d/classmos/internal/store"
)

var testNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	name := regexp.MustCompile(`\W`).ReplaceAllString(t.Name(), "_")
	s, err := store.Open(fmt.Sprintf("file:commit_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// flakyBackend fails SaveProgress with queued errors before delegating.
type flakyBackend struct {
	*store.Store
	failures []error
	calls    int
}

func (f *flakyBackend) SaveProgress(ctx context.Context, c store.ProgressCommit) (int64, error) {
	f.calls++
	if len(f.failures) > 0 {
		err := f.failures[0]
		f.failures = f.failures[1:]
		return 0, err
	}
	return f.Store.SaveProgress(ctx, c)
}

type fixture struct {
	store   *store.Store
	backend *flakyBackend
	c       *Committer
	metrics *Metrics
	hook    *test.Hook
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := openTestStore(t)
	f := &fixture{store: st, backend: &flakyBackend{Store: st}, now: testNow}
	f.metrics = NewMetrics(prometheus.NewRegistry())
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	f.hook = hook
	f.c = New(f.backend,
		WithMetrics(f.metrics),
		WithLogger(logger),
		WithClock(func() time.Time { return f.now }),
		WithLocation(time.UTC),
		WithPolicy(backoff.Policy{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 2 * time.Millisecond, Multiplier: 2}),
	)
	return f
}

func threeLessonPath() progression.Path {
	return progression.BuildPath(progression.Structure{Units: []progression.Unit{{
		Title:    "Basics",
		Sections: []progression.Section{{Title: "Greetings"}},
	}}}, 1, 0, 0)
}

func (f *fixture) seed(t *testing.T, l progression.Learner) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.Learners().Save(ctx, l.ID, l))
	require.NoError(t, f.store.Lessons().Save(ctx, l.ID, "c1", threeLessonPath()))
}

func pass() progression.SessionResult {
	return progression.SessionResult{Score: 3, TotalQuestions: 3, CoveredConcepts: []string{"Greetings"}, RawExperience: 16}
}

func TestComplete_Committed(t *testing.T) {
	f := newFixture(t)
	f.seed(t, progression.NewLearner("s1", "Sam", testNow.Add(-24*time.Hour)))
	ctx := context.Background()

	res := f.c.Complete(ctx, Request{LearnerID: "s1", CourseID: "c1", LessonID: 1, Result: pass()})
	committed, ok := res.(Committed)
	require.True(t, ok, "got %#v", res)
	assert.NotEmpty(t, committed.SessionID)
	assert.True(t, committed.Outcome.Verdict.Passed)
	assert.Equal(t, int64(2), committed.Version)

	l, err := f.store.Learners().Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, committed.Outcome.Learner.ExperienceTotal, l.ExperienceTotal)
	assert.Equal(t, 16, l.PerCourseExperience["c1"])

	path, err := f.store.Lessons().Load(ctx, "s1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, path[0].LevelsCompleted)

	events, err := f.store.EventRepo().QueryProgress(ctx, "s1", store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, committed.SessionID, events[0].SessionID)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Sessions.WithLabelValues(OutcomePassed)))
	assert.Equal(t, "session committed", f.hook.LastEntry().Message)
	assert.Equal(t, "s1", f.hook.LastEntry().Data["learner_id"])
}

func TestComplete_FreshLearner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Lessons().Save(ctx, "s9", "c1", threeLessonPath()))

	res := f.c.Complete(ctx, Request{LearnerID: "s9", CourseID: "c1", LessonID: 1, Result: pass()})
	committed, ok := res.(Committed)
	require.True(t, ok, "got %#v", res)
	assert.Equal(t, int64(1), committed.Version)

	l, err := f.store.Learners().Load(ctx, "s9")
	require.NoError(t, err)
	assert.Equal(t, 16, l.ExperienceTotal)
}

func TestComplete_RetriesTransientAndConflict(t *testing.T) {
	f := newFixture(t)
	f.seed(t, progression.NewLearner("s1", "Sam", testNow))
	f.backend.failures = []error{
		fmt.Errorf("save: %w", context.DeadlineExceeded),
		fmt.Errorf("save: %w", store.ErrConflict),
	}

	res := f.c.Complete(context.Background(), Request{LearnerID: "s1", CourseID: "c1", LessonID: 1, Result: pass()})
	_, ok := res.(Committed)
	require.True(t, ok, "got %#v", res)
	assert.Equal(t, 3, f.backend.calls)
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.Retries))

	events, err := f.store.EventRepo().QueryProgress(context.Background(), "s1", store.QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, events, 1, "retries never double count")
}

func TestComplete_RolledBack(t *testing.T) {
	f := newFixture(t)
	orig := progression.NewLearner("s1", "Sam", testNow)
	f.seed(t, orig)
	ctx := context.Background()

	f.backend.failures = []error{
		store.ErrConflict, store.ErrConflict, store.ErrConflict,
	}
	res := f.c.Complete(ctx, Request{LearnerID: "s1", CourseID: "c1", LessonID: 1, Result: pass()})
	rb, ok := res.(RolledBack)
	require.True(t, ok, "got %#v", res)
	assert.ErrorIs(t, rb.Err, store.ErrConflict)
	assert.Equal(t, orig.ExperienceTotal, rb.Previous.ExperienceTotal)
	assert.Equal(t, 0, rb.PreviousPath[0].LevelsCompleted)
	assert.Equal(t, 3, f.backend.calls)

	l, err := f.store.Learners().Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, l.ExperienceTotal, "nothing persisted")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Sessions.WithLabelValues(OutcomeRolledBack)))
}

func TestComplete_PermissionDeniedIsFatal(t *testing.T) {
	f := newFixture(t)
	f.seed(t, progression.NewLearner("s1", "Sam", testNow))
	f.backend.failures = []error{
		&os.PathError{Op: "write", Path: "classmos.db", Err: os.ErrPermission},
	}

	res := f.c.Complete(context.Background(), Request{LearnerID: "s1", CourseID: "c1", LessonID: 1, Result: pass()})
	rb, ok := res.(RolledBack)
	require.True(t, ok, "got %#v", res)
	assert.True(t, store.IsPermissionDenied(rb.Err))
	assert.Equal(t, 1, f.backend.calls)
	assert.Zero(t, testutil.ToFloat64(f.metrics.Retries))
}

func TestComplete_NotRetried(t *testing.T) {
	f := newFixture(t)
	f.seed(t, progression.NewLearner("s1", "Sam", testNow))
	f.seed(t, learnerWithLives("s0", 0, testNow.Add(-time.Minute)))
	ctx := context.Background()

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"unknown lesson", Request{LearnerID: "s1", CourseID: "c1", LessonID: 99, Result: pass()}, progression.ErrLessonNotFound},
		{"no path", Request{LearnerID: "s1", CourseID: "nope", LessonID: 1, Result: pass()}, ErrNoPath},
		{"locked lesson", Request{LearnerID: "s1", CourseID: "c1", LessonID: 3, Result: pass()}, ErrLessonLocked},
		{"no lives", Request{LearnerID: "s0", CourseID: "c1", LessonID: 1, Result: pass()}, progression.ErrNoLives},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb, ok := f.c.Complete(ctx, tt.req).(RolledBack)
			require.True(t, ok)
			assert.ErrorIs(t, rb.Err, tt.want)
		})
	}
	assert.Zero(t, f.backend.calls)
}

func TestComplete_PracticeRecoversLife(t *testing.T) {
	f := newFixture(t)
	l := progression.NewLearner("s1", "Sam", testNow)
	l.Lives = 3
	l.LastLifeRefillAt = testNow
	f.seed(t, l)
	ctx := context.Background()

	path := threeLessonPath()
	path[0].Status = progression.StatusCompleted
	require.NoError(t, f.store.Lessons().Save(ctx, "s1", "c1", path))

	result := pass()
	result.LifeRecovered = true
	committed, ok := f.c.Complete(ctx, Request{LearnerID: "s1", CourseID: "c1", LessonID: 1, Result: result}).(Committed)
	require.True(t, ok)
	assert.True(t, committed.Outcome.Practice)
	assert.Equal(t, 4, committed.Outcome.Learner.Lives)

	lives, err := f.store.EventRepo().QueryLife(ctx, "s1", store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, lives, 1)
	assert.Equal(t, store.LifeRecovered, lives[0].Reason)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Sessions.WithLabelValues(OutcomePractice)))
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{store.ErrConflict, true},
		{context.DeadlineExceeded, true},
		{store.ErrNotFound, false},
		{errors.New("boom"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := Retryable(tt.err); got != tt.want {
			t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestComplete_LockedLessonKeepsPath(t *testing.T) {
	f := newFixture(t)
	f.seed(t, progression.NewLearner("s1", "Sam", testNow))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res := f.c.Complete(ctx, Request{LearnerID: "s1", CourseID: "c1", LessonID: 3, Result: pass()})
		rb, ok := res.(RolledBack)
		require.True(t, ok, "attempt %d: got %#v", i, res)
		assert.ErrorIs(t, rb.Err, ErrLessonLocked)
	}

	path, err := f.store.Lessons().Load(ctx, "s1", "c1")
	require.NoError(t, err)
	for i, want := range threeLessonPath() {
		if path[i].Status != want.Status || path[i].LevelsCompleted != 0 {
			t.Errorf("lesson %d = %s/%d, want %s/0", path[i].ID, path[i].Status, path[i].LevelsCompleted, want.Status)
		}
	}
}

func TestComplete_LivesGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Six minutes since the last refill is worth one life.
	f.seed(t, learnerWithLives("refilled", 0, testNow.Add(-6*time.Minute)))
	_, ok := f.c.Complete(ctx, Request{LearnerID: "refilled", CourseID: "c1", LessonID: 1, Result: pass()}).(Committed)
	assert.True(t, ok, "accrued life should open the gate")

	f.seed(t, learnerWithLives("practice", 0, testNow))
	path := threeLessonPath()
	path[0].Status = progression.StatusCompleted
	path[1].Status = progression.StatusCurrent
	require.NoError(t, f.store.Lessons().Save(ctx, "practice", "c1", path))
	_, ok = f.c.Complete(ctx, Request{LearnerID: "practice", CourseID: "c1", LessonID: 1, Result: pass()}).(Committed)
	assert.True(t, ok, "practice on a completed lesson needs no lives")

	rb, ok := f.c.Complete(ctx, Request{LearnerID: "practice", CourseID: "c1", LessonID: 2, Result: pass()}).(RolledBack)
	require.True(t, ok)
	assert.ErrorIs(t, rb.Err, progression.ErrNoLives)

	l, err := f.store.Learners().Load(ctx, "practice")
	require.NoError(t, err)
	assert.Equal(t, rb.Previous.ExperienceTotal, l.ExperienceTotal)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Sessions.WithLabelValues(OutcomeRolledBack)))
}
