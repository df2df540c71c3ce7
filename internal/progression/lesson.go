package progression

import (
	"slices"
)

// Status is the gating state of a lesson node.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusCurrent   Status = "current"
	StatusCompleted Status = "completed"
)

// Difficulty is the lesson difficulty band.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// ReferenceRating returns the opponent rating used by the skill-rating
// update for the difficulty band. Unknown values rate as Easy.
func (d Difficulty) ReferenceRating() float64 {
	switch d {
	case Medium:
		return 1200
	case Hard:
		return 1600
	default:
		return 800
	}
}

// Valid reports whether d is one of the known bands.
func (d Difficulty) Valid() bool {
	return d == Easy || d == Medium || d == Hard
}

// difficultyFor maps levels completed to the escalated band.
func difficultyFor(levelsCompleted int, current Difficulty) Difficulty {
	switch {
	case levelsCompleted >= 2:
		return Hard
	case levelsCompleted == 1:
		return Medium
	default:
		return current
	}
}

// LessonKind is the path node decoration.
type LessonKind string

const (
	KindStar   LessonKind = "star"
	KindTrophy LessonKind = "trophy"
	KindChest  LessonKind = "chest"
)

// Position is the horizontal placement of a node on the path.
type Position string

const (
	PositionCenter Position = "center"
	PositionLeft   Position = "left"
	PositionRight  Position = "right"
)

// Lesson is one node on a learner's path.
type Lesson struct {
	ID                 int        `json:"id"`
	UnitID             int        `json:"unit_id"`
	Status             Status     `json:"status"`
	Kind               LessonKind `json:"kind"`
	Position           Position   `json:"position"`
	Topic              string     `json:"topic"`
	SectionTitle       string     `json:"section_title,omitempty"`
	SectionDescription string     `json:"section_description,omitempty"`
	LevelsCompleted    int        `json:"levels_completed"`
	TotalLevels        int        `json:"total_levels"`
	Difficulty         Difficulty `json:"difficulty"`
	CoveredConcepts    []string   `json:"covered_concepts,omitempty"`
}

// Completed reports whether the lesson has been finished. Replaying a
// completed lesson is practice.
func (l Lesson) Completed() bool {
	return l.Status == StatusCompleted
}

// Path is the ordered lesson sequence of one learner in one course.
type Path []Lesson

// Clone deep-copies the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	for i, l := range p {
		l.CoveredConcepts = slices.Clone(l.CoveredConcepts)
		out[i] = l
	}
	return out
}

// Index returns the position of the lesson with id, or -1.
func (p Path) Index(id int) int {
	return slices.IndexFunc(p, func(l Lesson) bool { return l.ID == id })
}

// Find returns the lesson with id.
func (p Path) Find(id int) (Lesson, bool) {
	i := p.Index(id)
	if i < 0 {
		return Lesson{}, false
	}
	return p[i], true
}

// Current returns the first lesson with status current.
func (p Path) Current() (Lesson, bool) {
	i := slices.IndexFunc(p, func(l Lesson) bool { return l.Status == StatusCurrent })
	if i < 0 {
		return Lesson{}, false
	}
	return p[i], true
}

// ActiveUnit returns the unit of the current lesson, or the first unit.
func (p Path) ActiveUnit() int {
	if l, ok := p.Current(); ok {
		return l.UnitID
	}
	return 1
}

// MaxID returns the largest lesson id in the path, 0 when empty.
func (p Path) MaxID() int {
	m := 0
	for _, l := range p {
		m = max(m, l.ID)
	}
	return m
}

// MaxUnit returns the largest unit id in the path, 0 when empty.
func (p Path) MaxUnit() int {
	m := 0
	for _, l := range p {
		m = max(m, l.UnitID)
	}
	return m
}

// CompletedCount returns how many lessons are completed.
func (p Path) CompletedCount() int {
	n := 0
	for _, l := range p {
		if l.Completed() {
			n++
		}
	}
	return n
}

// Done reports whether every lesson in the path is completed.
func (p Path) Done() bool {
	return len(p) > 0 && p.CompletedCount() == len(p)
}

// FocusAreas lists concepts attempted on lessons that are not yet completed,
// in path order without duplicates.
func (p Path) FocusAreas() []string {
	var out []string
	seen := map[string]bool{}
	for _, l := range p {
		if l.Completed() {
			continue
		}
		for _, c := range l.CoveredConcepts {
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
