// Package progression turns finished exercise sessions into updated learner
// and lesson-path state. It performs no I/O and reads time only from its
// arguments.
package progression

import (
	"maps"
	"slices"
	"time"
)

// Role distinguishes students, who carry progression state, from teachers.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Bounds and defaults for learner state.
const (
	MaxLives       = 5
	MaxRetention   = 365
	MaxAccuracy    = 100
	StartingRating = 800
	StartingGems   = 500
	StartingLeague = "Bronze"
)

// Learner is the full progression record for one user.
type Learner struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`

	ExperienceTotal int       `json:"experience_total"`
	DailyExperience int       `json:"daily_experience"`
	LastActiveDate  time.Time `json:"last_active_date"`
	StreakLength    int       `json:"streak_length"`

	Lives            int       `json:"lives"`
	LastLifeRefillAt time.Time `json:"last_life_refill_at"`
	Gems             int       `json:"gems"`
	League           string    `json:"league"`

	AccuracyRating     float64   `json:"accuracy_rating"`
	RetentionRating    float64   `json:"retention_rating"`
	SkillRating        float64   `json:"skill_rating"`
	SkillRatingHistory []float64 `json:"skill_rating_history"`

	PerCourseExperience map[string]int `json:"per_course_experience"`
	EnrolledCourseIDs   []string       `json:"enrolled_course_ids"`
	Achievements        []Achievement  `json:"achievements"`
}

// NewLearner returns a fresh student with starting stats and the two
// default achievement tracks.
func NewLearner(id, name string, now time.Time) Learner {
	return Learner{
		ID:                  id,
		Name:                name,
		Role:                RoleStudent,
		JoinedAt:            now,
		StreakLength:        1,
		Lives:               MaxLives,
		LastLifeRefillAt:    now,
		Gems:                StartingGems,
		League:              StartingLeague,
		LastActiveDate:      now,
		AccuracyRating:      MaxAccuracy,
		RetentionRating:     100,
		SkillRating:         StartingRating,
		SkillRatingHistory:  []float64{StartingRating},
		PerCourseExperience: map[string]int{},
		Achievements:        DefaultAchievements(),
	}
}

// NewTeacher returns a teacher record. Teachers carry identity only.
func NewTeacher(id, name string, now time.Time) Learner {
	return Learner{
		ID:                  id,
		Name:                name,
		Role:                RoleTeacher,
		JoinedAt:            now,
		PerCourseExperience: map[string]int{},
	}
}

// IsStudent reports whether the learner accrues progression state.
// Records without a role are treated as students.
func (l Learner) IsStudent() bool {
	return l.Role == RoleStudent || l.Role == ""
}

// Normalize repairs records loaded from storage so every bound holds.
func (l *Learner) Normalize() {
	if l.Role == "" {
		l.Role = RoleStudent
	}
	if l.PerCourseExperience == nil {
		l.PerCourseExperience = map[string]int{}
	}
	if !l.IsStudent() {
		return
	}
	if len(l.SkillRatingHistory) == 0 {
		l.SkillRatingHistory = []float64{StartingRating}
	}
	if l.StreakLength < 1 {
		l.StreakLength = 1
	}
	l.Lives = clampInt(l.Lives, 0, MaxLives)
	l.AccuracyRating = clamp(l.AccuracyRating, 0, MaxAccuracy)
	l.RetentionRating = clamp(l.RetentionRating, 0, MaxRetention)
	l.SkillRating = max(0, l.SkillRating)
	l.ExperienceTotal = max(0, l.ExperienceTotal)
	l.DailyExperience = max(0, l.DailyExperience)
	l.Gems = max(0, l.Gems)
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (l Learner) Clone() Learner {
	out := l
	out.SkillRatingHistory = slices.Clone(l.SkillRatingHistory)
	out.PerCourseExperience = maps.Clone(l.PerCourseExperience)
	if out.PerCourseExperience == nil {
		out.PerCourseExperience = map[string]int{}
	}
	out.EnrolledCourseIDs = slices.Clone(l.EnrolledCourseIDs)
	out.Achievements = slices.Clone(l.Achievements)
	return out
}

// Enroll adds courseID to the enrolled set if absent.
func (l *Learner) Enroll(courseID string) bool {
	if slices.Contains(l.EnrolledCourseIDs, courseID) {
		return false
	}
	l.EnrolledCourseIDs = append(l.EnrolledCourseIDs, courseID)
	return true
}

// Leave removes courseID from the enrolled set.
func (l *Learner) Leave(courseID string) bool {
	i := slices.Index(l.EnrolledCourseIDs, courseID)
	if i < 0 {
		return false
	}
	l.EnrolledCourseIDs = slices.Delete(l.EnrolledCourseIDs, i, i+1)
	return true
}

// CourseExperience returns experience earned in courseID.
func (l Learner) CourseExperience(courseID string) int {
	return l.PerCourseExperience[courseID]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
