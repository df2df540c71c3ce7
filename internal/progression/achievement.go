package progression

import "fmt"

// AchievementKind selects how an achievement track levels up.
type AchievementKind string

const (
	// KindExperience tracks lifetime experience. Thresholds double per level
	// and several levels may be gained in one session.
	KindExperience AchievementKind = "experience"

	// KindStreak tracks the daily streak. Thresholds grow by a week per
	// level and at most one level is gained per session.
	KindStreak AchievementKind = "streak"
)

const streakThresholdStep = 7

// Achievement is one levelled achievement track.
type Achievement struct {
	Key         string          `json:"key"`
	Title       string          `json:"title"`
	Kind        AchievementKind `json:"kind"`
	Level       int             `json:"level"`
	MaxLevel    int             `json:"max_level"`
	Progress    int             `json:"progress"`
	Threshold   int             `json:"threshold"`
	Description string          `json:"description"`
}

// DefaultAchievements returns the tracks every new student starts with.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{
			Key:         "wildfire",
			Title:       "Wildfire",
			Kind:        KindStreak,
			Level:       1,
			MaxLevel:    10,
			Progress:    1,
			Threshold:   3,
			Description: describe(KindStreak, 3),
		},
		{
			Key:         "sage",
			Title:       "Sage",
			Kind:        KindExperience,
			Level:       1,
			MaxLevel:    10,
			Progress:    0,
			Threshold:   100,
			Description: describe(KindExperience, 100),
		},
	}
}

// Maxed reports whether the track has reached its final level.
func (a Achievement) Maxed() bool {
	return a.Level >= a.MaxLevel
}

// PercentToNext returns progress toward the current threshold in [0, 100].
func (a Achievement) PercentToNext() int {
	if a.Threshold <= 0 || a.Maxed() {
		return 100
	}
	return clampInt(a.Progress*100/a.Threshold, 0, 100)
}

// advanceAchievement recomputes progress for a track and levels it up.
// It reports whether the level changed.
func advanceAchievement(a *Achievement, experienceTotal, streak int) bool {
	start := a.Level
	switch a.Kind {
	case KindExperience:
		a.Progress = experienceTotal
		for a.Progress >= a.Threshold && a.Level < a.MaxLevel {
			a.Level++
			a.Threshold *= 2
			a.Description = describe(a.Kind, a.Threshold)
		}
	case KindStreak:
		// Single step even when the streak overshoots the threshold.
		a.Progress = streak
		if a.Progress >= a.Threshold && a.Level < a.MaxLevel {
			a.Level++
			a.Threshold += streakThresholdStep
			a.Description = describe(a.Kind, a.Threshold)
		}
	}
	return a.Level != start
}

func describe(kind AchievementKind, threshold int) string {
	switch kind {
	case KindExperience:
		return fmt.Sprintf("Earn %d XP", threshold)
	case KindStreak:
		return fmt.Sprintf("Reach a %d day streak", threshold)
	default:
		return ""
	}
}
