package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStructure() Structure {
	return Structure{
		CourseTitle: "Spanish",
		Units: []Unit{
			{
				Title: "Basics",
				Sections: []Section{
					{Title: "Greetings", Description: "hola, adios"},
					{Title: "Numbers", Description: "uno, dos, tres"},
				},
			},
		},
	}
}

func TestBuildPathLayout(t *testing.T) {
	p := BuildPath(testStructure(), 1, 0, 0)
	require.Len(t, p, 7)

	wantTopics := []string{"Part 1", "Part 2", "Part 3", "Part 1", "Part 2", "Part 3", "Unit Complete: Basics"}
	wantKinds := []LessonKind{KindStar, KindStar, KindTrophy, KindStar, KindStar, KindTrophy, KindChest}
	wantPos := []Position{PositionCenter, PositionLeft, PositionCenter, PositionRight, PositionCenter, PositionLeft, PositionCenter}

	for i, l := range p {
		assert.Equal(t, i+1, l.ID)
		assert.Equal(t, 1, l.UnitID)
		assert.Equal(t, wantTopics[i], l.Topic, "topic %d", i)
		assert.Equal(t, wantKinds[i], l.Kind, "kind %d", i)
		assert.Equal(t, wantPos[i], l.Position, "position %d", i)
		assert.Equal(t, Easy, l.Difficulty)
		if i == 0 {
			assert.Equal(t, StatusCurrent, l.Status)
		} else {
			assert.Equal(t, StatusLocked, l.Status)
		}
	}

	assert.Equal(t, "Greetings", p[0].SectionTitle)
	assert.Equal(t, "uno, dos, tres", p[3].SectionDescription)
	assert.Equal(t, 3, p[0].TotalLevels)

	chest := p[6]
	assert.Equal(t, "Unit Completion", chest.SectionTitle)
	assert.Equal(t, "Final Review for Basics", chest.SectionDescription)
	assert.Equal(t, 1, chest.TotalLevels)
}

func TestBuildPathEmpty(t *testing.T) {
	assert.Empty(t, BuildPath(Structure{}, 1, 0, 0))
	assert.Equal(t, 0, Structure{}.LessonCount())
}

func TestAppendUnitsContinuesIDsAndUnits(t *testing.T) {
	base := BuildPath(testStructure(), 1, 0, 0)
	added := Structure{Units: []Unit{{Title: "Food", Sections: []Section{{Title: "Fruit"}}}}}

	out := AppendUnits(base, added)
	require.Len(t, out, 7+4)

	first := out[7]
	assert.Equal(t, 8, first.ID)
	assert.Equal(t, 2, first.UnitID)
	assert.Equal(t, StatusLocked, first.Status, "existing current lesson keeps the learner's place")
	assert.Equal(t, PositionLeft, first.Position, "placement continues from len/4")
	assert.Equal(t, "Unit Complete: Food", out[10].Topic)

	cur, ok := out.Current()
	require.True(t, ok)
	assert.Equal(t, 1, cur.ID)
	assert.Len(t, base, 7, "input path is not extended in place")
}

func TestAppendUnitsAfterFinishedPath(t *testing.T) {
	base := BuildPath(testStructure(), 1, 0, 0)
	for i := range base {
		base[i].Status = StatusCompleted
	}
	out := AppendUnits(base, Structure{Units: []Unit{{Title: "Food", Sections: []Section{{Title: "Fruit"}}}}})

	cur, ok := out.Current()
	require.True(t, ok)
	assert.Equal(t, 8, cur.ID)
}

func TestAppendUnitsToEmptyPath(t *testing.T) {
	out := AppendUnits(nil, testStructure())
	require.Len(t, out, 7)
	assert.Equal(t, StatusCurrent, out[0].Status)
}

func TestStructureMerge(t *testing.T) {
	s := testStructure()
	s.Code = "ABC123"
	merged := s.Merge(Structure{CourseTitle: "Other", Units: []Unit{{Title: "Food"}}})

	assert.Equal(t, "Spanish", merged.CourseTitle)
	assert.Equal(t, "ABC123", merged.Code)
	require.Len(t, merged.Units, 2)
	assert.Equal(t, "Food", merged.Units[1].Title)
	assert.Len(t, s.Units, 1)
	assert.Equal(t, 7+1, merged.LessonCount())
}
