package progression

import (
	"errors"
	"math"
	"time"

	"github.com/samber/lo"
)

var (
	// ErrLessonNotFound is returned when the target lesson is not on the path.
	ErrLessonNotFound = errors.New("lesson not found on path")

	// ErrLessonLocked is returned when the target lesson has not been
	// unlocked yet.
	ErrLessonLocked = errors.New("lesson is locked")
)

// SessionGemBonus is the gem reward for a passing session.
const SessionGemBonus = 5

// SessionResult is the aggregate of one finished exercise session.
type SessionResult struct {
	Score           int      `json:"score"`
	TotalQuestions  int      `json:"total_questions"`
	CoveredConcepts []string `json:"covered_concepts"`

	// RawExperience is the experience offered before the failure penalty.
	RawExperience int `json:"raw_experience"`

	// LifeRecovered grants one life back when set.
	LifeRecovered bool `json:"life_recovered"`
}

// Input bundles everything Advance reads.
type Input struct {
	Learner        Learner
	Path           Path
	LessonID       int
	Result         SessionResult
	ActiveCourseID string
	Now            time.Time
}

// Outcome is the result of applying one session.
type Outcome struct {
	Learner Learner `json:"learner"`
	Path    Path    `json:"path"`

	Lesson      Lesson  `json:"lesson"`
	Verdict     Verdict `json:"verdict"`
	Practice    bool    `json:"practice"`
	RatingDelta float64 `json:"rating_delta"`

	// LessonFinished is set when the session completed the lesson.
	LessonFinished bool `json:"lesson_finished"`

	// Unlocked is the lesson that became current, if any.
	Unlocked *Lesson `json:"unlocked,omitempty"`

	// LeveledUp lists achievement tracks that gained a level.
	LeveledUp []Achievement `json:"leveled_up,omitempty"`
}

// Advance applies a finished session to copies of the learner and path.
// The inputs are never mutated. A locked target lesson is rejected with
// ErrLessonLocked.
func Advance(in Input) (Outcome, error) {
	path := in.Path.Clone()
	idx := path.Index(in.LessonID)
	if idx < 0 {
		return Outcome{}, ErrLessonNotFound
	}
	if path[idx].Status == StatusLocked {
		return Outcome{}, ErrLessonLocked
	}
	learner := in.Learner.Clone()
	learner.Normalize()

	lesson := path[idx]
	practice := lesson.Completed()
	res := in.Result
	verdict := Grade(res.Score, res.TotalQuestions, res.RawExperience, practice)

	out := Outcome{Verdict: verdict, Practice: practice}

	if learner.IsStudent() {
		out.RatingDelta, out.LeveledUp = applyLearnerStats(&learner, lesson.Difficulty, res, verdict, practice, in.ActiveCourseID, in.Now)
	}

	out.LessonFinished, out.Unlocked = applyLesson(path, idx, res.CoveredConcepts, verdict.Passed)

	if learner.IsStudent() {
		learner.LastActiveDate = in.Now
	}

	out.Learner = learner
	out.Path = path
	out.Lesson = path[idx]
	return out, nil
}

func applyLearnerStats(l *Learner, difficulty Difficulty, res SessionResult, v Verdict, practice bool, courseID string, now time.Time) (float64, []Achievement) {
	eff := v.EffectiveExperience

	l.AccuracyRating = clamp(math.Round(l.AccuracyRating*0.9+v.Percentage*0.1), 0, MaxAccuracy)
	l.RetentionRating = clamp(l.RetentionRating+retentionDelta(v.Percentage), 0, MaxRetention)

	var delta float64
	l.SkillRating, l.SkillRatingHistory, delta = UpdateSkillRating(
		l.SkillRating, l.SkillRatingHistory, res.Score, res.TotalQuestions, difficulty)

	updateStreak(l, v.Passed || practice, eff, now)

	l.ExperienceTotal += eff
	var leveled []Achievement
	for i := range l.Achievements {
		if advanceAchievement(&l.Achievements[i], l.ExperienceTotal, l.StreakLength) {
			leveled = append(leveled, l.Achievements[i])
		}
	}

	if v.Passed {
		l.Gems += SessionGemBonus
	}
	if res.LifeRecovered && l.Lives < MaxLives {
		l.Lives++
	}

	if courseID != "" {
		l.PerCourseExperience[courseID] += eff
	}
	return delta, leveled
}

func retentionDelta(pct float64) float64 {
	switch {
	case pct >= 90:
		return 2
	case pct >= PassPercentage:
		return 1
	case pct < 50:
		return -2
	default:
		return 0
	}
}

// applyLesson mutates path[idx] and possibly its successor. It reports
// whether the lesson finished and which lesson was unlocked.
func applyLesson(path Path, idx int, concepts []string, passed bool) (bool, *Lesson) {
	lesson := &path[idx]
	// Concepts from the latest attempt replace earlier ones, so focus
	// areas reflect only the most recent session on the lesson.
	lesson.CoveredConcepts = lo.Uniq(concepts)

	if lesson.Completed() || !passed {
		return false, nil
	}

	lesson.LevelsCompleted++
	lesson.Difficulty = difficultyFor(lesson.LevelsCompleted, lesson.Difficulty)
	if lesson.LevelsCompleted < lesson.TotalLevels {
		return false, nil
	}
	lesson.Status = StatusCompleted

	if idx+1 >= len(path) || path[idx+1].Status != StatusLocked {
		return true, nil
	}
	path[idx+1].Status = StatusCurrent
	next := path[idx+1]
	return true, &next
}
