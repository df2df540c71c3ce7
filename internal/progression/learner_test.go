package progression

import "testing"

func TestNewLearnerDefaults(t *testing.T) {
	l := NewLearner("s1", "Sam", testNow)

	if l.Lives != MaxLives {
		t.Errorf("lives = %d, want %d", l.Lives, MaxLives)
	}
	if l.Gems != StartingGems {
		t.Errorf("gems = %d, want %d", l.Gems, StartingGems)
	}
	if l.StreakLength != 1 {
		t.Errorf("streak = %d, want 1", l.StreakLength)
	}
	if l.SkillRating != StartingRating || len(l.SkillRatingHistory) != 1 {
		t.Errorf("rating = %v history = %v, want 800 [800]", l.SkillRating, l.SkillRatingHistory)
	}
	if l.AccuracyRating != 100 || l.RetentionRating != 100 {
		t.Errorf("accuracy = %v retention = %v, want 100 100", l.AccuracyRating, l.RetentionRating)
	}
	if !l.LastActiveDate.Equal(testNow) || !l.LastLifeRefillAt.Equal(testNow) {
		t.Errorf("timestamps not initialised to now")
	}
	if l.League != "Bronze" {
		t.Errorf("league = %q, want Bronze", l.League)
	}
}

func TestNormalize(t *testing.T) {
	l := Learner{
		Lives:           9,
		AccuracyRating:  120,
		RetentionRating: -4,
		SkillRating:     -10,
	}
	l.Normalize()

	if l.Role != RoleStudent {
		t.Errorf("role = %q, want student", l.Role)
	}
	if l.Lives != MaxLives {
		t.Errorf("lives = %d, want %d", l.Lives, MaxLives)
	}
	if l.AccuracyRating != 100 {
		t.Errorf("accuracy = %v, want 100", l.AccuracyRating)
	}
	if l.RetentionRating != 0 {
		t.Errorf("retention = %v, want 0", l.RetentionRating)
	}
	if l.SkillRating != 0 {
		t.Errorf("rating = %v, want 0", l.SkillRating)
	}
	if l.StreakLength != 1 {
		t.Errorf("streak = %d, want 1", l.StreakLength)
	}
	if len(l.SkillRatingHistory) != 1 || l.SkillRatingHistory[0] != StartingRating {
		t.Errorf("history = %v, want [800]", l.SkillRatingHistory)
	}
	if l.PerCourseExperience == nil {
		t.Error("expected per-course map to be initialised")
	}
}

func TestEnrollLeave(t *testing.T) {
	l := NewLearner("s1", "Sam", testNow)
	if !l.Enroll("c1") {
		t.Error("Enroll(c1) = false, want true")
	}
	if l.Enroll("c1") {
		t.Error("Enroll(c1) twice = true, want false")
	}
	l.Enroll("c2")
	if !l.Leave("c1") {
		t.Error("Leave(c1) = false, want true")
	}
	if len(l.EnrolledCourseIDs) != 1 || l.EnrolledCourseIDs[0] != "c2" {
		t.Errorf("enrolled = %v, want [c2]", l.EnrolledCourseIDs)
	}
	if l.Leave("missing") {
		t.Error("Leave(missing) = true, want false")
	}
}

func TestPathHelpers(t *testing.T) {
	p := Path{
		{ID: 1, UnitID: 1, Status: StatusCompleted, CoveredConcepts: []string{"a"}},
		{ID: 2, UnitID: 1, Status: StatusCurrent, CoveredConcepts: []string{"b", "c"}},
		{ID: 5, UnitID: 2, Status: StatusLocked, CoveredConcepts: []string{"c", "d"}},
	}

	if got := p.MaxID(); got != 5 {
		t.Errorf("MaxID() = %d, want 5", got)
	}
	if got := p.MaxUnit(); got != 2 {
		t.Errorf("MaxUnit() = %d, want 2", got)
	}
	if got := p.ActiveUnit(); got != 1 {
		t.Errorf("ActiveUnit() = %d, want 1", got)
	}
	if cur, ok := p.Current(); !ok || cur.ID != 2 {
		t.Errorf("Current() = %v, %v; want lesson 2", cur.ID, ok)
	}
	if p.Done() {
		t.Error("Done() = true, want false")
	}
	focus := p.FocusAreas()
	want := []string{"b", "c", "d"}
	if len(focus) != len(want) {
		t.Fatalf("FocusAreas() = %v, want %v", focus, want)
	}
	for i := range want {
		if focus[i] != want[i] {
			t.Errorf("FocusAreas()[%d] = %q, want %q", i, focus[i], want[i])
		}
	}
}
