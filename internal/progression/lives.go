package progression

import (
	"errors"
	"time"
)

// RefillInterval is the time it takes to recover one life.
const RefillInterval = 5 * time.Minute

var (
	// ErrNoLives is returned when a non-practice session is attempted
	// with no lives left.
	ErrNoLives = errors.New("no lives left")

	// ErrNotStudent is returned for progression operations on a teacher.
	ErrNotStudent = errors.New("learner is not a student")
)

// Regenerate recovers lives that accrued since lastRefill. The refill
// timestamp keeps the partial progress toward the next life. When no life
// is recovered the inputs are returned unchanged and changed is false.
func Regenerate(lives int, lastRefill, now time.Time) (newLives int, newRefill time.Time, changed bool) {
	if lives >= MaxLives {
		return lives, lastRefill, false
	}
	elapsed := now.Sub(lastRefill)
	if elapsed < RefillInterval {
		return lives, lastRefill, false
	}
	recovered := int(elapsed / RefillInterval)
	newLives = min(MaxLives, lives+recovered)
	if newLives <= lives {
		return lives, lastRefill, false
	}
	return newLives, now.Add(-(elapsed % RefillInterval)), true
}

// RegenerateLearner applies Regenerate to a student record in place.
func RegenerateLearner(l *Learner, now time.Time) bool {
	if !l.IsStudent() {
		return false
	}
	lives, refill, changed := Regenerate(l.Lives, l.LastLifeRefillAt, now)
	if changed {
		l.Lives = lives
		l.LastLifeRefillAt = refill
	}
	return changed
}

// LoseLife charges one life. The refill clock starts when the learner
// drops below the cap.
func LoseLife(lives int, lastRefill, now time.Time) (int, time.Time) {
	if lives == MaxLives {
		lastRefill = now
	}
	return max(0, lives-1), lastRefill
}

// CanStart reports whether the learner may begin a session on lesson.
// Completed lessons can always be practised.
func CanStart(l Learner, lesson Lesson) error {
	if !l.IsStudent() {
		return nil
	}
	if l.Lives <= 0 && !lesson.Completed() {
		return ErrNoLives
	}
	return nil
}

// NextRefillIn returns the wait until the next life, or zero at full lives.
func NextRefillIn(lives int, lastRefill, now time.Time) time.Duration {
	if lives >= MaxLives {
		return 0
	}
	elapsed := now.Sub(lastRefill)
	if elapsed < 0 {
		return RefillInterval - elapsed
	}
	return RefillInterval - elapsed%RefillInterval
}
