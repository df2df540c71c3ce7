package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/madan-d/classmos/internal/progression"
)

func readRows(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestWriteLeaderboard(t *testing.T) {
	standings := []progression.Standing{
		{Rank: 1, LearnerID: "a", Name: "Ana", Experience: 120, Streak: 4, League: "Bronze"},
		{Rank: 2, LearnerID: "b", Name: "Ben", Experience: 80, Streak: 1, League: "Bronze"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteLeaderboard(&buf, standings))

	rows := readRows(t, buf.Bytes(), Sheet)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Rank", "Name", "Learner ID", "XP", "Streak", "League"}, rows[0])
	assert.Equal(t, []string{"1", "Ana", "a", "120", "4", "Bronze"}, rows[1])
	assert.Equal(t, "Ben", rows[2][1])
}

func TestWriteInsights(t *testing.T) {
	report := progression.ClassReport{Students: []progression.StudentInsight{
		{LearnerID: "a", Name: "Ana", Accuracy: 50, Streak: 2, RetentionScore: 37, Segment: progression.SegmentNeedsSupport, AtRisk: true},
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteInsights(&buf, report))

	rows := readRows(t, buf.Bytes(), Sheet)
	require.Len(t, rows, 2)
	assert.Equal(t, "Segment", rows[0][7])
	assert.Equal(t, "Needs Support", rows[1][7])
	assert.Equal(t, "TRUE", rows[1][8])
}

func TestWriteLeaderboard_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLeaderboard(&buf, nil))
	assert.Len(t, readRows(t, buf.Bytes(), Sheet), 1)
}
