package transform

import (
	"time"

	"schedule-etl/internal/domain"
)

// AdjustTimestamps anchors each meeting's bare start/end times to a concrete
// calendar date: the governing section (first section referencing the
// meeting) supplies year and semester, and the semester label maps to a
// fixed (month, day) anchor. Meetings with no governing section keep their
// unanchored year with a January 1 anchor.
func AdjustTimestamps(meetings []domain.Meeting, sections []domain.Section) []domain.Meeting {
	governing := make(map[int]domain.Section, len(sections))
	for _, s := range sections {
		if _, ok := governing[s.MeetingID]; !ok {
			governing[s.MeetingID] = s
		}
	}

	out := make([]domain.Meeting, len(meetings))
	for i, m := range meetings {
		year := m.Start.Year()
		month, day := time.January, 1
		if s, ok := governing[m.MID]; ok {
			year = s.Year
			month, day = domain.SemesterAnchor(s.Semester)
		}
		m.Start = anchor(m.Start, year, month, day)
		m.End = anchor(m.End, year, month, day)
		out[i] = m
	}
	return out
}

func anchor(t time.Time, year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
