package domain

import "time"

// The scheduling tables are value records, not ORM entities: every stage of
// the pipeline consumes a slice, returns a narrowed/enriched slice, and never
// shares mutable state with another stage.

const (
	// SentinelClassID is the reserved placeholder class used for legacy
	// records. It is kept in the class table but excluded from the
	// requisite graph and from section validity.
	SentinelClassID = 37

	// MinClassID is the lowest real class id; the destination sequence
	// also starts here (slot 1 is reserved).
	MinClassID = 2
)

// Day patterns carried on meetings. The pattern determines the fixed session
// length and, for MJ, the allowed daily windows.
const (
	PatternMJ  = "MJ"  // two sessions per week, 75-minute block
	PatternLMV = "LMV" // three sessions per week, 50-minute block
)

// PatternDuration returns the fixed session length for a day pattern. The
// second result is false for patterns with no duration rule.
func PatternDuration(days string) (time.Duration, bool) {
	switch days {
	case PatternMJ:
		return 75 * time.Minute, true
	case PatternLMV:
		return 50 * time.Minute, true
	}
	return 0, false
}

// MJ meetings must fit inside one of two daily windows.
var (
	MorningStart   = ClockMinutes(7, 30)
	MorningEnd     = ClockMinutes(10, 15)
	AfternoonStart = ClockMinutes(12, 30)
	AfternoonEnd   = ClockMinutes(19, 45)
)

// ClockMinutes converts a wall-clock time to minutes past midnight.
func ClockMinutes(hour, min int) int { return hour*60 + min }

// MinutesOfDay reports a timestamp's wall-clock position in minutes past
// midnight, ignoring its date component.
func MinutesOfDay(t time.Time) int { return ClockMinutes(t.Hour(), t.Minute()) }

// SemesterAnchor maps a semester label to the (month, day) a bare meeting
// time is anchored to when producing absolute timestamps. Unknown labels
// anchor to January 1.
func SemesterAnchor(semester string) (time.Month, int) {
	switch semester {
	case "Fall":
		return time.September, 1
	case "Spring":
		return time.January, 15
	case "V2":
		return time.June, 1
	}
	return time.January, 1
}

// Course is one catalog entry from the fragment-markup source.
type Course struct {
	ClassID     int
	Name        string
	Code        string
	Description string
	Term        string
	Years       string
	Credits     int
	Syllabus    string // URL of the syllabus document; may be empty or "None"
}

// Room is one physical room flattened out of the building inventory.
type Room struct {
	RID      int
	Building string
	Number   string
	Capacity int
}

// Meeting is a weekly time slot. Start and End carry only a wall-clock time
// until the timestamp-adjustment pass anchors them to a semester date.
type Meeting struct {
	MID   int // source-space id; the destination assigns its own
	Code  string
	Start time.Time
	End   time.Time
	Days  string
}

// Section ties a class, a room and a meeting together for one term.
type Section struct {
	SID       int
	RoomID    int
	ClassID   int
	MeetingID int
	Semester  string
	Year      int
	Capacity  int
}

// Requisite is a directed edge class -> requisite in the prerequisite graph.
type Requisite struct {
	ClassID int
	ReqID   int
	Prereq  bool
}

// Tables bundles the five datasets handed between pipeline stages.
type Tables struct {
	Courses    []Course
	Meetings   []Meeting
	Requisites []Requisite
	Rooms      []Room
	Sections   []Section
}
