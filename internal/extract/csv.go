package extract

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"schedule-etl/internal/domain"
)

// timeOfDay is the wire format for bare meeting times in the delimited
// sources.
const timeOfDay = "15:04:05"

// readCSV parses a delimited source and maps the wanted columns by header
// name. Rows shorter than the header are a malformed-file error; a wanted
// column absent from the header is a missing-field error.
func (e *Extractor) readCSV(name string, wanted []string) ([][]string, map[string]int, error) {
	b, err := e.readFile(name)
	if err != nil {
		return nil, nil, err
	}

	r := csv.NewReader(bytes.NewReader(b))
	records, err := r.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
		}
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrEmptyFile, name)
	}

	idx := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		idx[strings.TrimSpace(col)] = i
	}
	for _, col := range wanted {
		if _, ok := idx[col]; !ok {
			return nil, nil, fmt.Errorf("%w: %s: column %q", ErrMissingField, name, col)
		}
	}
	return records[1:], idx, nil
}

// Meetings extracts the delimited meeting source. Rows with a missing or
// unparsable field are dropped.
func (e *Extractor) Meetings(name string) ([]domain.Meeting, error) {
	rows, idx, err := e.readCSV(name, []string{"mid", "ccode", "start", "end", "day"})
	if err != nil {
		return nil, err
	}

	var meetings []domain.Meeting
	for _, row := range rows {
		mid, ok1 := intField(row, idx["mid"])
		code, ok2 := strField(row, idx["ccode"])
		start, ok3 := timeField(row, idx["start"])
		end, ok4 := timeField(row, idx["end"])
		days, ok5 := strField(row, idx["day"])
		if !(ok1 && ok2 && ok3 && ok4 && ok5) {
			continue
		}
		meetings = append(meetings, domain.Meeting{
			MID:   mid,
			Code:  code,
			Start: start,
			End:   end,
			Days:  days,
		})
	}
	return meetings, nil
}

// Sections extracts the delimited section source. Rows with a missing or
// unparsable field are dropped.
func (e *Extractor) Sections(name string) ([]domain.Section, error) {
	cols := []string{"sid", "room_id", "class_id", "meeting_id", "semester", "year", "capacity"}
	rows, idx, err := e.readCSV(name, cols)
	if err != nil {
		return nil, err
	}

	var sections []domain.Section
	for _, row := range rows {
		sid, ok1 := intField(row, idx["sid"])
		roomID, ok2 := intField(row, idx["room_id"])
		classID, ok3 := intField(row, idx["class_id"])
		meetingID, ok4 := intField(row, idx["meeting_id"])
		semester, ok5 := strField(row, idx["semester"])
		year, ok6 := intField(row, idx["year"])
		capacity, ok7 := intField(row, idx["capacity"])
		if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7) {
			continue
		}
		sections = append(sections, domain.Section{
			SID:       sid,
			RoomID:    roomID,
			ClassID:   classID,
			MeetingID: meetingID,
			Semester:  semester,
			Year:      year,
			Capacity:  capacity,
		})
	}
	return sections, nil
}

func strField(row []string, i int) (string, bool) {
	if i >= len(row) {
		return "", false
	}
	v := strings.TrimSpace(row[i])
	return v, v != ""
}

func intField(row []string, i int) (int, bool) {
	v, ok := strField(row, i)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func timeField(row []string, i int) (time.Time, bool) {
	v, ok := strField(row, i)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(timeOfDay, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
