package transform

import (
	"sort"

	"schedule-etl/internal/domain"
)

// slot is a section joined to its meeting's scheduling data.
type slot struct {
	sid      int
	start    int // minutes past midnight
	end      int
	year     int
	semester string
}

// ResolveSectionConflicts removes double bookings: sections joined to their
// meetings, grouped by (room, day pattern), compared pairwise. Two sections
// conflict when their [start,end) intervals overlap in the same year and
// semester; the one with the larger id is dropped. Removals are applied once
// after every group has been scanned. Sections for the sentinel class, or
// whose meeting id does not resolve, are not considered here.
func ResolveSectionConflicts(sections []domain.Section, meetings []domain.Meeting) []domain.Section {
	byMID := make(map[int]domain.Meeting, len(meetings))
	for _, m := range meetings {
		byMID[m.MID] = m
	}

	type groupKey struct {
		roomID int
		days   string
	}
	groups := make(map[groupKey][]slot)
	for _, s := range sections {
		if s.ClassID == domain.SentinelClassID {
			continue
		}
		m, ok := byMID[s.MeetingID]
		if !ok {
			continue
		}
		key := groupKey{roomID: s.RoomID, days: m.Days}
		groups[key] = append(groups[key], slot{
			sid:      s.SID,
			start:    domain.MinutesOfDay(m.Start),
			end:      domain.MinutesOfDay(m.End),
			year:     s.Year,
			semester: s.Semester,
		})
	}

	drop := make(map[int]bool)
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			if group[i].start != group[j].start {
				return group[i].start < group[j].start
			}
			return group[i].end < group[j].end
		})
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if a.start < b.end && b.start < a.end && a.year == b.year && a.semester == b.semester {
					drop[maxInt(a.sid, b.sid)] = true
				}
			}
		}
	}

	var out []domain.Section
	for _, s := range sections {
		if drop[s.SID] {
			continue
		}
		out = append(out, s)
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
