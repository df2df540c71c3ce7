package progression

import "time"

// DaysBetween returns the absolute number of calendar days between a and b,
// measured in loc. A zero a counts from the Unix epoch.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	if a.IsZero() {
		a = time.Unix(0, 0)
	}
	da := midnight(a.In(loc))
	db := midnight(b.In(loc))
	diff := db.Sub(da)
	if diff < 0 {
		diff = -diff
	}
	return int(diff / (24 * time.Hour))
}

// midnight returns the civil date of t as UTC midnight so that day
// differences are unaffected by DST transitions.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// updateStreak applies the daily streak rules to l. Only passing or
// practice sessions move the streak.
func updateStreak(l *Learner, countsTowardStreak bool, effective int, now time.Time) {
	if !countsTowardStreak {
		l.DailyExperience += effective
		return
	}
	switch DaysBetween(l.LastActiveDate, now, now.Location()) {
	case 0:
		l.DailyExperience += effective
	case 1:
		l.StreakLength++
		l.DailyExperience = effective
	default:
		if !l.LastActiveDate.IsZero() {
			l.StreakLength = 1
		}
		l.DailyExperience = effective
	}
}
