package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPath() Path {
	return Path{
		{ID: 1, UnitID: 1, Status: StatusCompleted, Kind: KindStar, LevelsCompleted: 3, TotalLevels: 3, Difficulty: Hard},
		{ID: 2, UnitID: 1, Status: StatusCurrent, Kind: KindStar, LevelsCompleted: 0, TotalLevels: 3, Difficulty: Easy},
		{ID: 3, UnitID: 1, Status: StatusLocked, Kind: KindTrophy, TotalLevels: 3, Difficulty: Easy},
		{ID: 4, UnitID: 1, Status: StatusLocked, Kind: KindChest, TotalLevels: 1, Difficulty: Easy},
	}
}

func testLearner() Learner {
	l := NewLearner("s1", "Sam", testNow.AddDate(0, 0, -10))
	l.LastActiveDate = testNow.AddDate(0, 0, -1)
	l.StreakLength = 4
	l.DailyExperience = 40
	l.ExperienceTotal = 90
	l.Achievements[0].Level = 2
	l.Achievements[0].Threshold = 10
	return l
}

func advance(t *testing.T, l Learner, p Path, lessonID int, res SessionResult) Outcome {
	t.Helper()
	out, err := Advance(Input{
		Learner:        l,
		Path:           p,
		LessonID:       lessonID,
		Result:         res,
		ActiveCourseID: "course-1",
		Now:            testNow,
	})
	require.NoError(t, err)
	return out
}

func TestAdvancePassingSession(t *testing.T) {
	res := SessionResult{Score: 7, TotalQuestions: 10, RawExperience: 20, CoveredConcepts: []string{"verbs", "nouns", "verbs"}}
	out := advance(t, testLearner(), testPath(), 2, res)

	assert.True(t, out.Verdict.Passed)
	assert.Equal(t, 20, out.Verdict.EffectiveExperience)
	assert.False(t, out.Practice)

	l := out.Learner
	assert.Equal(t, 110, l.ExperienceTotal)
	assert.Equal(t, 5, l.StreakLength, "next-day pass extends the streak")
	assert.Equal(t, 20, l.DailyExperience, "daily resets on a new day")
	assert.Equal(t, 97.0, l.AccuracyRating)
	assert.Equal(t, 101.0, l.RetentionRating)
	assert.Equal(t, StartingGems+SessionGemBonus, l.Gems)
	assert.Equal(t, 20, l.PerCourseExperience["course-1"])
	assert.True(t, l.LastActiveDate.Equal(testNow))
	assert.Len(t, l.SkillRatingHistory, 2)

	lesson := out.Path[1]
	assert.Equal(t, 1, lesson.LevelsCompleted)
	assert.Equal(t, Medium, lesson.Difficulty)
	assert.Equal(t, StatusCurrent, lesson.Status)
	assert.Equal(t, []string{"verbs", "nouns"}, lesson.CoveredConcepts)
	assert.Nil(t, out.Unlocked)
	assert.False(t, out.LessonFinished)

	require.Len(t, out.LeveledUp, 1)
	assert.Equal(t, "sage", out.LeveledUp[0].Key)
	assert.Equal(t, 200, out.LeveledUp[0].Threshold)
}

func TestAdvanceFinishesLessonAndUnlocksNext(t *testing.T) {
	p := testPath()
	p[1].LevelsCompleted = 2
	p[1].Difficulty = Hard

	out := advance(t, testLearner(), p, 2, SessionResult{Score: 9, TotalQuestions: 10, RawExperience: 28})

	assert.Equal(t, StatusCompleted, out.Path[1].Status)
	assert.Equal(t, 3, out.Path[1].LevelsCompleted)
	assert.Equal(t, Hard, out.Path[1].Difficulty)
	assert.Equal(t, StatusCurrent, out.Path[2].Status)
	assert.Equal(t, StatusLocked, out.Path[3].Status)
	require.NotNil(t, out.Unlocked)
	assert.Equal(t, 3, out.Unlocked.ID)
	assert.True(t, out.LessonFinished)
}

func TestAdvanceLastLessonHasNoSuccessor(t *testing.T) {
	p := Path{{ID: 9, UnitID: 2, Status: StatusCurrent, Kind: KindChest, TotalLevels: 1, Difficulty: Easy}}
	out := advance(t, testLearner(), p, 9, SessionResult{Score: 3, TotalQuestions: 3, RawExperience: 16})

	assert.Equal(t, StatusCompleted, out.Path[0].Status)
	assert.Nil(t, out.Unlocked)
	assert.True(t, out.Path.Done())
}

func TestAdvanceFailingSession(t *testing.T) {
	in := testLearner()
	res := SessionResult{Score: 6, TotalQuestions: 10, RawExperience: 20, CoveredConcepts: []string{"tense"}}
	out := advance(t, in, testPath(), 2, res)

	assert.False(t, out.Verdict.Passed)
	assert.Equal(t, 5, out.Verdict.EffectiveExperience)

	l := out.Learner
	assert.Equal(t, 4, l.StreakLength, "failed sessions leave the streak alone")
	assert.Equal(t, 45, l.DailyExperience)
	assert.Equal(t, in.Gems, l.Gems)
	assert.Equal(t, 95, l.ExperienceTotal)
	assert.True(t, l.LastActiveDate.Equal(testNow), "last active is stamped on failure too")

	lesson := out.Path[1]
	assert.Equal(t, 0, lesson.LevelsCompleted)
	assert.Equal(t, Easy, lesson.Difficulty)
	assert.Equal(t, []string{"tense"}, lesson.CoveredConcepts)
}

func TestAdvancePracticeIsIdempotentOnLesson(t *testing.T) {
	for _, score := range []int{0, 4, 10} {
		out := advance(t, testLearner(), testPath(), 1, SessionResult{Score: score, TotalQuestions: 10, RawExperience: 17, CoveredConcepts: []string{"review"}})

		assert.True(t, out.Practice)
		assert.Equal(t, 17, out.Verdict.EffectiveExperience, "practice keeps full experience")

		lesson := out.Path[0]
		assert.Equal(t, StatusCompleted, lesson.Status)
		assert.Equal(t, 3, lesson.LevelsCompleted)
		assert.Equal(t, Hard, lesson.Difficulty)
		assert.Equal(t, []string{"review"}, lesson.CoveredConcepts)
		assert.Equal(t, StatusCurrent, out.Path[1].Status)
		assert.Nil(t, out.Unlocked)

		assert.Equal(t, 5, out.Learner.StreakLength, "practice counts toward the streak")
	}
}

func TestAdvanceDoesNotMutateInputs(t *testing.T) {
	l := testLearner()
	p := testPath()
	p[1].LevelsCompleted = 2

	_ = advance(t, l, p, 2, SessionResult{Score: 10, TotalQuestions: 10, RawExperience: 30, CoveredConcepts: []string{"x"}})

	assert.Equal(t, 90, l.ExperienceTotal)
	assert.Len(t, l.SkillRatingHistory, 1)
	assert.Empty(t, l.PerCourseExperience)
	assert.Equal(t, 1, l.Achievements[1].Level)
	assert.Equal(t, StatusCurrent, p[1].Status)
	assert.Equal(t, StatusLocked, p[2].Status)
	assert.Nil(t, p[1].CoveredConcepts)
}

func TestAdvanceLessonNotFound(t *testing.T) {
	_, err := Advance(Input{Learner: testLearner(), Path: testPath(), LessonID: 42, Now: testNow})
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestAdvanceLockedLesson(t *testing.T) {
	p := testPath()
	_, err := Advance(Input{
		Learner:  testLearner(),
		Path:     p,
		LessonID: 3,
		Result:   SessionResult{Score: 10, TotalQuestions: 10, RawExperience: 30},
		Now:      testNow,
	})
	assert.ErrorIs(t, err, ErrLessonLocked)
	assert.Equal(t, StatusLocked, p[2].Status)
	assert.Zero(t, p[2].LevelsCompleted)
}

func TestAdvanceLifeRecovered(t *testing.T) {
	l := testLearner()
	l.Lives = 3
	out := advance(t, l, testPath(), 1, SessionResult{Score: 8, TotalQuestions: 10, RawExperience: 21, LifeRecovered: true})
	assert.Equal(t, 4, out.Learner.Lives)

	l.Lives = MaxLives
	out = advance(t, l, testPath(), 1, SessionResult{Score: 8, TotalQuestions: 10, RawExperience: 21, LifeRecovered: true})
	assert.Equal(t, MaxLives, out.Learner.Lives)
}

func TestAdvanceStreakAchievementScenario(t *testing.T) {
	l := testLearner()
	l.StreakLength = 9
	l.Achievements[0].Level = 2
	l.Achievements[0].Threshold = 10

	out := advance(t, l, testPath(), 2, SessionResult{Score: 10, TotalQuestions: 10, RawExperience: 30})

	wf := out.Learner.Achievements[0]
	assert.Equal(t, 10, wf.Progress)
	assert.Equal(t, 3, wf.Level)
	assert.Equal(t, 17, wf.Threshold)
	assert.Equal(t, "Reach a 17 day streak", wf.Description)
}

func TestAdvanceBoundsHold(t *testing.T) {
	l := testLearner()
	l.RetentionRating = MaxRetention
	l.AccuracyRating = 100
	out := advance(t, l, testPath(), 2, SessionResult{Score: 10, TotalQuestions: 10, RawExperience: 30})
	assert.Equal(t, float64(MaxRetention), out.Learner.RetentionRating)
	assert.Equal(t, 100.0, out.Learner.AccuracyRating)

	l.RetentionRating = 1
	l.AccuracyRating = 0
	out = advance(t, l, testPath(), 2, SessionResult{Score: 0, TotalQuestions: 10, RawExperience: 10})
	assert.Equal(t, 0.0, out.Learner.RetentionRating)
	assert.Equal(t, 0.0, out.Learner.AccuracyRating)
	assert.GreaterOrEqual(t, out.Learner.SkillRating, 0.0)
}

func TestAdvanceTeacherLeavesStatsUntouched(t *testing.T) {
	teacher := NewTeacher("t1", "Ms T", testNow.Add(-time.Hour))
	out := advance(t, teacher, testPath(), 2, SessionResult{Score: 10, TotalQuestions: 10, RawExperience: 30})

	assert.Equal(t, 0, out.Learner.ExperienceTotal)
	assert.True(t, out.Learner.LastActiveDate.IsZero())
	assert.Equal(t, 1, out.Path[1].LevelsCompleted)
}
