package progression

import "fmt"

// Structure is the authored outline of a course.
type Structure struct {
	CourseTitle string `json:"courseTitle" yaml:"courseTitle"`
	Units       []Unit `json:"units" yaml:"units"`
	Code        string `json:"code,omitempty" yaml:"code,omitempty"`
}

// Unit groups sections under a title. Every unit ends in a review chest.
type Unit struct {
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Sections    []Section `json:"sections" yaml:"sections"`
}

// Section is the source material a lesson's exercises are generated from.
type Section struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

var sectionSteps = [...]string{"Part 1", "Part 2", "Part 3"}

const (
	stepLevels   = 3
	reviewLevels = 1
)

// BuildPath lays out the lessons for structure. IDs run sequentially from
// startID, unit numbers from unitOffset+1, and node placement continues
// from pathIndexOffset. The first generated lesson is current.
func BuildPath(s Structure, startID, pathIndexOffset, unitOffset int) Path {
	var out Path
	id := startID
	pathIndex := pathIndexOffset

	for u, unit := range s.Units {
		unitID := unitOffset + u + 1

		for _, section := range unit.Sections {
			for step, topic := range sectionSteps {
				kind := KindStar
				if step == len(sectionSteps)-1 {
					kind = KindTrophy
				}
				out = append(out, Lesson{
					ID:                 id,
					UnitID:             unitID,
					Status:             StatusLocked,
					Kind:               kind,
					Position:           positionAt(pathIndex),
					Topic:              topic,
					SectionTitle:       section.Title,
					SectionDescription: section.Description,
					TotalLevels:        stepLevels,
					Difficulty:         Easy,
				})
				id++
				pathIndex++
			}
		}

		out = append(out, Lesson{
			ID:                 id,
			UnitID:             unitID,
			Status:             StatusLocked,
			Kind:               KindChest,
			Position:           PositionCenter,
			Topic:              fmt.Sprintf("Unit Complete: %s", unit.Title),
			SectionTitle:       "Unit Completion",
			SectionDescription: fmt.Sprintf("Final Review for %s", unit.Title),
			TotalLevels:        reviewLevels,
			Difficulty:         Easy,
		})
		id++
		pathIndex++
	}

	if len(out) > 0 {
		out[0].Status = StatusCurrent
	}
	return out
}

// AppendUnits extends path with the lessons of structure's units. The
// existing lessons are left untouched. The first appended lesson is only
// made current when path has no current lesson.
func AppendUnits(path Path, s Structure) Path {
	if len(path) == 0 {
		return BuildPath(s, 1, 0, 0)
	}
	added := BuildPath(s, path.MaxID()+1, len(path)/4, path.MaxUnit())
	if _, ok := path.Current(); ok && len(added) > 0 {
		added[0].Status = StatusLocked
	}
	out := path.Clone()
	return append(out, added...)
}

// LessonCount returns how many lessons BuildPath yields for s.
func (s Structure) LessonCount() int {
	n := 0
	for _, u := range s.Units {
		n += len(u.Sections)*len(sectionSteps) + 1
	}
	return n
}

// Merge returns s with the units of added appended. The title and code of
// s are kept.
func (s Structure) Merge(added Structure) Structure {
	out := s
	out.Units = make([]Unit, 0, len(s.Units)+len(added.Units))
	out.Units = append(out.Units, s.Units...)
	out.Units = append(out.Units, added.Units...)
	if out.CourseTitle == "" {
		out.CourseTitle = added.CourseTitle
	}
	return out
}

func positionAt(pathIndex int) Position {
	switch {
	case pathIndex%2 == 0:
		return PositionCenter
	case pathIndex%4 == 1:
		return PositionLeft
	default:
		return PositionRight
	}
}
