package progression

import (
	"cmp"
	"math"
	"slices"

	"github.com/samber/lo"
)

// Standing is one row of a leaderboard.
type Standing struct {
	Rank       int    `json:"rank"`
	LearnerID  string `json:"learner_id"`
	Name       string `json:"name"`
	Experience int    `json:"experience"`
	Streak     int    `json:"streak"`
	League     string `json:"league"`
}

// Leaderboard ranks students by experience. With a course id only learners
// enrolled in that course are ranked, by the experience earned in it.
// Ties are broken by name.
func Leaderboard(learners []Learner, courseID string) []Standing {
	students := lo.Filter(learners, func(l Learner, _ int) bool {
		if !l.IsStudent() {
			return false
		}
		return courseID == "" || slices.Contains(l.EnrolledCourseIDs, courseID)
	})

	rows := lo.Map(students, func(l Learner, _ int) Standing {
		xp := l.ExperienceTotal
		if courseID != "" {
			xp = l.CourseExperience(courseID)
		}
		return Standing{
			LearnerID:  l.ID,
			Name:       l.Name,
			Experience: xp,
			Streak:     l.StreakLength,
			League:     l.League,
		}
	})

	slices.SortStableFunc(rows, func(a, b Standing) int {
		if c := cmp.Compare(b.Experience, a.Experience); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// Segment labels a student for a teacher's class view.
type Segment string

const (
	SegmentTopPerformer Segment = "Top Performer"
	SegmentConsistent   Segment = "Consistent Learner"
	SegmentNeedsSupport Segment = "Needs Support"
)

// Insight thresholds.
const (
	AtRiskBelow       = 60
	TopPerformerFrom  = 85
	streakSaturation  = 30
	minInsightStudent = 5
)

// StudentInsight is the derived retention view of one student.
type StudentInsight struct {
	LearnerID      string  `json:"learner_id"`
	Name           string  `json:"name"`
	Accuracy       float64 `json:"accuracy"`
	Streak         int     `json:"streak"`
	Experience     int     `json:"experience"`
	SkillRating    float64 `json:"skill_rating"`
	RetentionScore float64 `json:"retention_score"`
	Segment        Segment `json:"segment"`
	AtRisk         bool    `json:"at_risk"`
}

// ClassReport summarises a class. Sufficient is false when the class is
// too small for the segments to be meaningful.
type ClassReport struct {
	Students   []StudentInsight `json:"students"`
	Sufficient bool             `json:"sufficient"`
	AtRisk     int              `json:"at_risk"`
}

// RetentionScore blends accuracy with a streak saturating at 30 days.
func RetentionScore(accuracy float64, streak int) float64 {
	streakNorm := math.Min(float64(streak)/streakSaturation, 1) * 100
	return accuracy*0.7 + streakNorm*0.3
}

// SegmentFor maps a retention score to a segment.
func SegmentFor(score float64) Segment {
	switch {
	case score >= TopPerformerFrom:
		return SegmentTopPerformer
	case score < AtRiskBelow:
		return SegmentNeedsSupport
	default:
		return SegmentConsistent
	}
}

// ClassInsights derives retention scores and segments for every student,
// ordered from most to least at risk.
func ClassInsights(learners []Learner) ClassReport {
	var report ClassReport
	for _, l := range learners {
		if !l.IsStudent() {
			continue
		}
		score := RetentionScore(l.AccuracyRating, l.StreakLength)
		in := StudentInsight{
			LearnerID:      l.ID,
			Name:           l.Name,
			Accuracy:       l.AccuracyRating,
			Streak:         l.StreakLength,
			Experience:     l.ExperienceTotal,
			SkillRating:    l.SkillRating,
			RetentionScore: score,
			Segment:        SegmentFor(score),
			AtRisk:         score < AtRiskBelow,
		}
		if in.AtRisk {
			report.AtRisk++
		}
		report.Students = append(report.Students, in)
	}
	slices.SortStableFunc(report.Students, func(a, b StudentInsight) int {
		return cmp.Compare(a.RetentionScore, b.RetentionScore)
	})
	report.Sufficient = len(report.Students) >= minInsightStudent
	return report
}
