// Package staging reads and writes the corrected delimited handoff between
// transform and load: five files in a fixed directory, carrying the
// destination column names. The loader's batch path consumes these instead
// of an in-memory handoff.
package staging

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"schedule-etl/internal/domain"
)

const (
	ClassFile     = "class.csv"
	MeetingFile   = "meeting.csv"
	RequisiteFile = "requisite.csv"
	RoomFile      = "room.csv"
	SectionFile   = "section.csv"
)

var (
	classHeader     = []string{"cid", "cname", "ccode", "cdesc", "term", "years", "cred", "csyllabus"}
	meetingHeader   = []string{"mid", "ccode", "starttime", "endtime", "cdays"}
	requisiteHeader = []string{"classid", "reqid", "prereq"}
	roomHeader      = []string{"rid", "building", "room_number", "capacity"}
	sectionHeader   = []string{"sid", "roomid", "cid", "mid", "semester", "years", "capacity"}
)

// Write emits the five staged files into dir, creating it if needed.
func Write(dir string, t domain.Tables) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	classRows := make([][]string, 0, len(t.Courses))
	for _, c := range t.Courses {
		classRows = append(classRows, []string{
			strconv.Itoa(c.ClassID), c.Name, c.Code, c.Description,
			c.Term, c.Years, strconv.Itoa(c.Credits), c.Syllabus,
		})
	}
	if err := writeFile(dir, ClassFile, classHeader, classRows); err != nil {
		return err
	}

	meetingRows := make([][]string, 0, len(t.Meetings))
	for _, m := range t.Meetings {
		meetingRows = append(meetingRows, []string{
			strconv.Itoa(m.MID), m.Code,
			m.Start.Format(time.RFC3339), m.End.Format(time.RFC3339), m.Days,
		})
	}
	if err := writeFile(dir, MeetingFile, meetingHeader, meetingRows); err != nil {
		return err
	}

	requisiteRows := make([][]string, 0, len(t.Requisites))
	for _, r := range t.Requisites {
		requisiteRows = append(requisiteRows, []string{
			strconv.Itoa(r.ClassID), strconv.Itoa(r.ReqID), strconv.FormatBool(r.Prereq),
		})
	}
	if err := writeFile(dir, RequisiteFile, requisiteHeader, requisiteRows); err != nil {
		return err
	}

	roomRows := make([][]string, 0, len(t.Rooms))
	for _, r := range t.Rooms {
		roomRows = append(roomRows, []string{
			strconv.Itoa(r.RID), r.Building, r.Number, strconv.Itoa(r.Capacity),
		})
	}
	if err := writeFile(dir, RoomFile, roomHeader, roomRows); err != nil {
		return err
	}

	sectionRows := make([][]string, 0, len(t.Sections))
	for _, s := range t.Sections {
		sectionRows = append(sectionRows, []string{
			strconv.Itoa(s.SID), strconv.Itoa(s.RoomID), strconv.Itoa(s.ClassID),
			strconv.Itoa(s.MeetingID), s.Semester, strconv.Itoa(s.Year), strconv.Itoa(s.Capacity),
		})
	}
	return writeFile(dir, SectionFile, sectionHeader, sectionRows)
}

func writeFile(dir, name string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Read loads the five staged files back into tables. Staged files are the
// pipeline's own artifact, so any inconsistency here is an error rather than
// a row to drop.
func Read(dir string) (domain.Tables, error) {
	var t domain.Tables

	classRows, err := readFile(dir, ClassFile, classHeader)
	if err != nil {
		return t, err
	}
	for _, row := range classRows {
		cid, err1 := strconv.Atoi(row[0])
		cred, err2 := strconv.Atoi(row[6])
		if err1 != nil || err2 != nil {
			return t, fmt.Errorf("staging: bad class row %v", row)
		}
		t.Courses = append(t.Courses, domain.Course{
			ClassID: cid, Name: row[1], Code: row[2], Description: row[3],
			Term: row[4], Years: row[5], Credits: cred, Syllabus: row[7],
		})
	}

	meetingRows, err := readFile(dir, MeetingFile, meetingHeader)
	if err != nil {
		return t, err
	}
	for _, row := range meetingRows {
		mid, err := strconv.Atoi(row[0])
		if err != nil {
			return t, fmt.Errorf("staging: bad meeting row %v", row)
		}
		start, err := parseStagedTime(row[2])
		if err != nil {
			return t, fmt.Errorf("staging: bad meeting start %q", row[2])
		}
		end, err := parseStagedTime(row[3])
		if err != nil {
			return t, fmt.Errorf("staging: bad meeting end %q", row[3])
		}
		t.Meetings = append(t.Meetings, domain.Meeting{
			MID: mid, Code: row[1], Start: start, End: end, Days: row[4],
		})
	}

	requisiteRows, err := readFile(dir, RequisiteFile, requisiteHeader)
	if err != nil {
		return t, err
	}
	for _, row := range requisiteRows {
		classID, err1 := strconv.Atoi(row[0])
		reqID, err2 := strconv.Atoi(row[1])
		prereq, err3 := strconv.ParseBool(row[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return t, fmt.Errorf("staging: bad requisite row %v", row)
		}
		t.Requisites = append(t.Requisites, domain.Requisite{ClassID: classID, ReqID: reqID, Prereq: prereq})
	}

	roomRows, err := readFile(dir, RoomFile, roomHeader)
	if err != nil {
		return t, err
	}
	for _, row := range roomRows {
		rid, err1 := strconv.Atoi(row[0])
		capacity, err2 := strconv.Atoi(row[3])
		if err1 != nil || err2 != nil {
			return t, fmt.Errorf("staging: bad room row %v", row)
		}
		t.Rooms = append(t.Rooms, domain.Room{RID: rid, Building: row[1], Number: row[2], Capacity: capacity})
	}

	sectionRows, err := readFile(dir, SectionFile, sectionHeader)
	if err != nil {
		return t, err
	}
	for _, row := range sectionRows {
		sid, err1 := strconv.Atoi(row[0])
		roomID, err2 := strconv.Atoi(row[1])
		classID, err3 := strconv.Atoi(row[2])
		mid, err4 := strconv.Atoi(row[3])
		year, err5 := strconv.Atoi(row[5])
		capacity, err6 := strconv.Atoi(row[6])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil {
			return t, fmt.Errorf("staging: bad section row %v", row)
		}
		t.Sections = append(t.Sections, domain.Section{
			SID: sid, RoomID: roomID, ClassID: classID, MeetingID: mid,
			Semester: row[4], Year: year, Capacity: capacity,
		})
	}

	return t, nil
}

func readFile(dir, name string, header []string) ([][]string, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("staging: %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("staging: %s: missing header", name)
	}
	for i, col := range header {
		if i >= len(records[0]) || records[0][i] != col {
			return nil, fmt.Errorf("staging: %s: unexpected header %v", name, records[0])
		}
	}
	return records[1:], nil
}

// parseStagedTime accepts the staged RFC 3339 form and the raw HH:MM:SS form
// so hand-corrected files remain loadable.
func parseStagedTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("15:04:05", v)
}
