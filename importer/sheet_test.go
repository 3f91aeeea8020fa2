package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSheet = "Date\tExercise\tReps\tSets\n" +
	"2020-04-01\tBicep Curl\t6\t25, 30, 35, 37.5 (cheat at 5)\n" +
	"    2020-04-02\tMeow\t7\t30, 40, 45👍, 22 (woot)\n" +
	"    2020-04-01\tMiliatary Press\t7\t30, 35, 37.5, 40, 45👍\n" +
	"    \n"

func date(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParseSheet(t *testing.T) {
	days, err := ParseSheet(strings.NewReader(testSheet))
	require.NoError(t, err)

	require.Len(t, days, 2)
	assert.Equal(t, "2020-04-01", days[0].Label())
	assert.Equal(t, "2020-04-02", days[1].Label())
	assert.Len(t, days[0].Records, 2)
	assert.Len(t, days[1].Records, 1)
	assert.Equal(t, 3, days.Records())

	assert.Equal(t, Record{
		Date:     date("2020-04-01"),
		Exercise: "Bicep Curl",
		Reps:     "6",
		Sets:     "25, 30, 35, 37.5 (cheat at 5)",
	}, days[0].Records[0])
	assert.Equal(t, "Miliatary Press", days[0].Records[1].Exercise)
	assert.Equal(t, "30, 40, 45👍, 22 (woot)", days[1].Records[0].Sets)
}

func TestParseSheet_SkipsInvalidRows(t *testing.T) {
	sheet := "Date\tExercise\tReps\tSets\n" +
		"not a date\tSquat\t5\t100\n" +
		"2020/04/01\tSquat\t5\t100\n" +
		"\tSquat\t5\t100\n" +
		"2020-04-03\t\t5\t100\n" +
		"2020-04-03\tSquat\n" +
		"2020-04-03\tSquat\t5\t100, 110\n"

	days, err := ParseSheet(strings.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.Len(t, days[0].Records, 1)
	assert.Equal(t, "100, 110", days[0].Records[0].Sets)
}

func TestParseSheet_ColumnOrderFromHeader(t *testing.T) {
	sheet := "Sets\tReps\tExercise\tDate\tNotes\n" +
		"1, 2\t3\tRow\t2021-01-05\tfelt good\n"

	days, err := ParseSheet(strings.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, Record{
		Date:     date("2021-01-05"),
		Exercise: "Row",
		Reps:     "3",
		Sets:     "1, 2",
	}, days[0].Records[0])
}

func TestParseSheet_HeaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		sheet   string
		wantErr string
	}{
		{
			name:    "empty",
			sheet:   "",
			wantErr: "sheet is empty",
		},
		{
			name:    "missing columns",
			sheet:   "Date\tExercise\n2020-04-01\tSquat\n",
			wantErr: "sheet header missing columns: Reps, Sets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSheet(strings.NewReader(tt.sheet))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseSheet_HeaderOnly(t *testing.T) {
	days, err := ParseSheet(strings.NewReader("Date\tExercise\tReps\tSets\n"))
	require.NoError(t, err)
	assert.Empty(t, days)
}
