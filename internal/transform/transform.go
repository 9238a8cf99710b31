// Package transform runs the ordered cleaning and validation passes over the
// five scheduling tables. Every pass is a pure function: it consumes slices
// and returns narrowed or enriched slices, never mutating its input. The
// pass order is load-bearing — later passes assume earlier cleanup.
package transform

import (
	"context"
	"log"

	"schedule-etl/internal/domain"
	"schedule-etl/internal/syllabus"
)

// CleanCourses keeps class rows with a real id (>= 2) or the reserved
// sentinel record.
func CleanCourses(courses []domain.Course) []domain.Course {
	var out []domain.Course
	for _, c := range courses {
		if c.ClassID >= domain.MinClassID || c.ClassID == domain.SentinelClassID {
			out = append(out, c)
		}
	}
	return out
}

// CleanRequisites drops edges where either endpoint is the sentinel class.
func CleanRequisites(requisites []domain.Requisite) []domain.Requisite {
	var out []domain.Requisite
	for _, r := range requisites {
		if r.ClassID == domain.SentinelClassID || r.ReqID == domain.SentinelClassID {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterMeetings drops MJ meetings that do not fit inside one of the two
// allowed daily windows (07:30-10:15 and 12:30-19:45). Other patterns pass
// through untouched.
func FilterMeetings(meetings []domain.Meeting) []domain.Meeting {
	var out []domain.Meeting
	for _, m := range meetings {
		if m.Days == domain.PatternMJ && !insideAllowedWindow(m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func insideAllowedWindow(m domain.Meeting) bool {
	start := domain.MinutesOfDay(m.Start)
	end := domain.MinutesOfDay(m.End)
	morning := start >= domain.MorningStart && end <= domain.MorningEnd
	afternoon := start >= domain.AfternoonStart && end <= domain.AfternoonEnd
	return morning || afternoon
}

// ValidateMeetingDurations drops meetings whose length does not equal their
// pattern's fixed duration (75 minutes for MJ, 50 for LMV). Patterns without
// a duration rule are left untouched. Running the pass on its own output is
// a no-op.
func ValidateMeetingDurations(meetings []domain.Meeting) []domain.Meeting {
	var out []domain.Meeting
	for _, m := range meetings {
		expected, ok := domain.PatternDuration(m.Days)
		if ok && m.End.Sub(m.Start) != expected {
			continue
		}
		out = append(out, m)
	}
	return out
}

// CheckOvercapacity drops sections whose capacity exceeds their room's.
// Sections referencing an unknown room are kept here; the referential pass
// removes them.
func CheckOvercapacity(sections []domain.Section, rooms []domain.Room) []domain.Section {
	byRID := make(map[int]domain.Room, len(rooms))
	for _, r := range rooms {
		byRID[r.RID] = r
	}

	var out []domain.Section
	for _, s := range sections {
		if room, ok := byRID[s.RoomID]; ok && s.Capacity > room.Capacity {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ValidateSections keeps only sections that resolve to an existing cleaned
// class, meeting and room, and never the sentinel class.
func ValidateSections(sections []domain.Section, courses []domain.Course, meetings []domain.Meeting, rooms []domain.Room) []domain.Section {
	classIDs := make(map[int]bool, len(courses))
	for _, c := range courses {
		classIDs[c.ClassID] = true
	}
	meetingIDs := make(map[int]bool, len(meetings))
	for _, m := range meetings {
		meetingIDs[m.MID] = true
	}
	roomIDs := make(map[int]bool, len(rooms))
	for _, r := range rooms {
		roomIDs[r.RID] = true
	}

	var out []domain.Section
	for _, s := range sections {
		if s.ClassID == domain.SentinelClassID {
			continue
		}
		if !meetingIDs[s.MeetingID] || !classIDs[s.ClassID] || !roomIDs[s.RoomID] {
			continue
		}
		out = append(out, s)
	}
	return out
}

// All executes the passes in their fixed order and, when a downloader is
// supplied, runs the syllabus fetch stage after the pure transforms. The
// download report never affects the returned tables.
func All(ctx context.Context, t domain.Tables, dl *syllabus.Downloader) (domain.Tables, *syllabus.Report) {
	t.Courses = CleanCourses(t.Courses)
	t.Requisites = CleanRequisites(t.Requisites)
	t.Sections = ResolveSectionConflicts(t.Sections, t.Meetings)
	t.Meetings = FilterMeetings(t.Meetings)
	t.Meetings = ValidateMeetingDurations(t.Meetings)
	t.Sections = CheckOvercapacity(t.Sections, t.Rooms)
	t.Sections = ValidateSections(t.Sections, t.Courses, t.Meetings, t.Rooms)
	t.Meetings = AdjustTimestamps(t.Meetings, t.Sections)

	var report *syllabus.Report
	if dl != nil {
		report = dl.DownloadAll(ctx, t.Courses)
	}

	log.Printf("[etl] transformations complete: %d courses, %d meetings, %d requisites, %d rooms, %d sections",
		len(t.Courses), len(t.Meetings), len(t.Requisites), len(t.Rooms), len(t.Sections))
	return t, report
}
