package extract

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"schedule-etl/internal/domain"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestMeetings(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "meeting.csv",
		"mid,ccode,start,end,day\n"+
			"1,CS101,08:00:00,09:15:00,MJ\n"+
			"2,,08:00:00,08:50:00,LMV\n"+ // empty ccode, dropped
			"3,CS103,not-a-time,08:50:00,LMV\n"+ // unparsable time, dropped
			"4,CS104,10:00:00,10:50:00,LMV\n")

	got, err := New(dir).Meetings("meeting.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 meetings, got %d", len(got))
	}
	if got[0].MID != 1 || got[1].MID != 4 {
		t.Errorf("unexpected meetings: %+v", got)
	}
	if got[0].Start.Hour() != 8 || got[0].End.Minute() != 15 {
		t.Errorf("times not parsed: %+v", got[0])
	}
}

func TestMeetingsErrors(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "empty.csv", "   \n")
	writeFixture(t, dir, "noheader.csv", "mid,ccode,start,end\n1,CS101,08:00:00,09:15:00\n")
	writeFixture(t, dir, "broken.csv", "mid,ccode,start,end,day\n1,\"CS101,08:00:00\n")

	e := New(dir)
	testCases := []struct {
		name string
		file string
		want error
	}{
		{"missing file", "nope.csv", ErrMissingFile},
		{"empty file", "empty.csv", ErrEmptyFile},
		{"missing column", "noheader.csv", ErrMissingField},
		{"malformed", "broken.csv", ErrMalformed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Meetings(tc.file)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSections(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "sections.csv",
		"sid,room_id,class_id,meeting_id,semester,year,capacity\n"+
			"1,1,10,1,Fall,2024,15\n"+
			"2,2,11,2,,2024,25\n"+ // empty semester, dropped
			"3,1,10,3,Spring,2025,10\n")

	got, err := New(dir).Sections("sections.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(got))
	}
	want := domain.Section{SID: 1, RoomID: 1, ClassID: 10, MeetingID: 1, Semester: "Fall", Year: 2024, Capacity: 15}
	if got[0] != want {
		t.Errorf("got %+v, want %+v", got[0], want)
	}
}

func TestRooms(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "rooms.json", `{
		"Stefani": [
			{"id": 1, "number": "101", "capacity": 30},
			{"id": 2, "number": "205"}
		],
		"Chardon": [
			{"id": 3, "number": "120", "capacity": 45}
		]
	}`)

	got, err := New(dir).Rooms("rooms.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rooms (incomplete one dropped), got %d", len(got))
	}
	if got[0].RID != 1 || got[0].Building != "Stefani" || got[0].Capacity != 30 {
		t.Errorf("unexpected first room: %+v", got[0])
	}
	if got[1].RID != 3 || got[1].Building != "Chardon" {
		t.Errorf("unexpected second room: %+v", got[1])
	}
}

func TestRoomsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "rooms.json", `{"Stefani": [`)

	_, err := New(dir).Rooms("rooms.json")
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestCourses(t *testing.T) {
	dir := t.TempDir()
	// Sibling fragments without a single root, as the source provides them.
	writeFixture(t, dir, "courses.xml",
		`<Courses>
			<classid>10</classid>
			<cred>3</cred>
			<description>Intro to computing</description>
			<syllabus>https://example.edu/cs101.pdf</syllabus>
			<term>First</term>
			<years>2024</years>
			<classes><code>CS101</code><name>Intro CS</name></classes>
		</Courses>
		<Courses>
			<classid>11</classid>
			<cred>3</cred>
			<description>Partial record, no name</description>
			<syllabus>None</syllabus>
			<term>Second</term>
			<years>2024</years>
			<classes><code>CS102</code></classes>
		</Courses>
		<Courses>
			<classid>12</classid>
			<cred>4</cred>
			<syllabus>None</syllabus>
			<term>Second</term>
			<years>2024</years>
			<classes><code>CS103</code><name>Data Structures</name></classes>
		</Courses>`)

	got, err := New(dir).Courses("courses.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected only the complete fragment, got %d", len(got))
	}
	c := got[0]
	if c.ClassID != 10 || c.Code != "CS101" || c.Name != "Intro CS" || c.Credits != 3 {
		t.Errorf("unexpected course: %+v", c)
	}
}

func TestCoursesMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "courses.xml", `<Courses><classid>10</Courses>`)

	_, err := New(dir).Courses("courses.xml")
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestCoursesEncoding(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "courses.xml"), []byte{0xff, 0xfe, 0x00, 0x41}, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(dir).Courses("courses.xml")
	if !errors.Is(err, ErrEncoding) {
		t.Errorf("expected ErrEncoding, got %v", err)
	}
}

func TestRequisites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requisites.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE requisites (classid integer, reqid integer, prereq integer);`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO requisites VALUES (10, 5, 1), (11, NULL, 0), (12, 6, 0);`); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := New(dir).Requisites("requisites.db")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 requisites (null row dropped), got %d", len(got))
	}
	if got[0] != (domain.Requisite{ClassID: 10, ReqID: 5, Prereq: true}) {
		t.Errorf("unexpected edge: %+v", got[0])
	}
	if got[1].Prereq {
		t.Errorf("prereq flag should be false: %+v", got[1])
	}
}

func TestRequisitesMissingFile(t *testing.T) {
	_, err := New(t.TempDir()).Requisites("requisites.db")
	if !errors.Is(err, ErrMissingFile) {
		t.Errorf("expected ErrMissingFile, got %v", err)
	}
}

// All must tolerate every source failing: the result is empty tables, not a
// crash.
func TestAllEmptyDataDir(t *testing.T) {
	tables := New(t.TempDir()).All()
	if len(tables.Courses) != 0 || len(tables.Meetings) != 0 || len(tables.Requisites) != 0 ||
		len(tables.Rooms) != 0 || len(tables.Sections) != 0 {
		t.Errorf("expected empty tables, got %+v", tables)
	}
}
