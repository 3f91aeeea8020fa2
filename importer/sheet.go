package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// DateLayout is the date format of the sheet's Date column.
const DateLayout = "2006-01-02"

var sheetColumns = []string{"Date", "Exercise", "Reps", "Sets"}

// Record is one row of the workout sheet.
type Record struct {
	Date     time.Time `json:"date"`
	Exercise string    `json:"exercise"`
	Reps     string    `json:"reps"`
	Sets     string    `json:"sets"`
}

// Day is every record logged on one date, in sheet order.
type Day struct {
	Date    time.Time `json:"date"`
	Records []Record  `json:"records"`
}

// Label returns the day's date in DateLayout.
func (d Day) Label() string {
	return d.Date.Format(DateLayout)
}

// Days is a parsed sheet ordered by ascending date.
type Days []Day

// Records returns the total number of records across all days.
func (d Days) Records() int {
	n := 0
	for _, day := range d {
		n += len(day.Records)
	}
	return n
}

// ParseSheet reads a tab-separated workout sheet whose header names the
// Date, Exercise, Reps and Sets columns. Fields are trimmed. Rows that are
// short, have no exercise, or whose date is not YYYY-MM-DD are skipped.
func ParseSheet(r io.Reader) (Days, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("sheet is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	byDate := make(map[time.Time][]Record)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		record, ok := parseRow(row, index)
		if !ok {
			continue
		}
		byDate[record.Date] = append(byDate[record.Date], record)
	}

	days := make(Days, 0, len(byDate))
	for date, records := range byDate {
		days = append(days, Day{Date: date, Records: records})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range sheetColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("sheet header missing columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func parseRow(row []string, index map[string]int) (Record, bool) {
	field := func(col string) (string, bool) {
		i := index[col]
		if i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	values := make([]string, len(sheetColumns))
	for i, col := range sheetColumns {
		v, ok := field(col)
		if !ok {
			return Record{}, false
		}
		values[i] = v
	}

	date, err := time.Parse(DateLayout, values[0])
	if err != nil || values[1] == "" {
		return Record{}, false
	}

	return Record{
		Date:     date,
		Exercise: values[1],
		Reps:     values[2],
		Sets:     values[3],
	}, true
}
