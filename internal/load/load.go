// Package load creates the destination schema and inserts the transformed
// tables in dependency order, bridging source meeting ids to the
// destination-generated ones. One connection, one transaction per LoadAll
// call: either every step commits or none do — with the explicit exception
// of class rows under RowPolicyTolerate.
package load

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"schedule-etl/internal/domain"
	"schedule-etl/internal/staging"
)

// RowPolicy names the class-row failure policy. The source pipeline
// tolerated bad class rows while every other step aborted the load; the
// asymmetry is kept but made an explicit choice.
type RowPolicy int

const (
	// RowPolicyTolerate skips class rows that fail to insert, recording
	// each in the report, and carries on with the load.
	RowPolicyTolerate RowPolicy = iota
	// RowPolicyStrict aborts the whole load on the first failing class row.
	RowPolicyStrict
)

type Options struct {
	RowPolicy RowPolicy
}

type Loader struct {
	conn *pgx.Conn
	opts Options
}

// Open connects to the destination database. The loader holds this one
// connection until Close; nothing else writes to the schema concurrently.
func Open(ctx context.Context, databaseURL string, opts Options) (*Loader, error) {
	conn, err := pgx.Connect(ctx, NormalizeURL(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return &Loader{conn: conn, opts: opts}, nil
}

func (l *Loader) Close(ctx context.Context) error {
	return l.conn.Close(ctx)
}

// NormalizeURL rewrites the legacy postgres:// scheme that hosted providers
// hand out.
func NormalizeURL(u string) string {
	if rest, ok := strings.CutPrefix(u, "postgres://"); ok {
		return "postgresql://" + rest
	}
	return u
}

// CreateTables drops and recreates the destination schema in one DDL
// transaction, so a failure leaves no half-created schema behind.
func (l *Loader) CreateTables(ctx context.Context) error {
	tx, err := l.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, stmt := range dropStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("drop: %w", err)
		}
	}
	for _, stmt := range createStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	log.Printf("[etl] tables created")
	return nil
}

// RowFailure records one class row that could not be inserted.
type RowFailure struct {
	Index int
	Code  string
	Err   error
}

// Report summarizes one LoadAll call.
type Report struct {
	Classes         int
	Rooms           int
	Meetings        int
	Requisites      int
	Sections        int
	SkippedSections int
	ClassFailures   []RowFailure
}

// LoadAll inserts the five tables in FK order inside a single transaction
// with one commit at the end. A failure in rooms, meetings, requisites or
// sections rolls everything back; class-row failures follow the configured
// RowPolicy.
func (l *Loader) LoadAll(ctx context.Context, t domain.Tables) (*Report, error) {
	tx, err := l.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	report := &Report{}
	if err := l.loadClasses(ctx, tx, t.Courses, report); err != nil {
		return nil, fmt.Errorf("load classes: %w", err)
	}
	if err := loadRooms(ctx, tx, t.Rooms, report); err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	midMap, err := loadMeetings(ctx, tx, t.Meetings, report)
	if err != nil {
		return nil, fmt.Errorf("load meetings: %w", err)
	}
	if err := loadRequisites(ctx, tx, t.Requisites, report); err != nil {
		return nil, fmt.Errorf("load requisites: %w", err)
	}
	if err := loadSections(ctx, tx, t.Sections, midMap, report); err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	log.Printf("[etl] load committed: %d classes (%d failed rows), %d rooms, %d meetings, %d requisites, %d sections (%d skipped)",
		report.Classes, len(report.ClassFailures), report.Rooms, report.Meetings,
		report.Requisites, report.Sections, report.SkippedSections)
	return report, nil
}

// LoadStaged is the batch path: it reads the corrected staged files and
// loads them.
func (l *Loader) LoadStaged(ctx context.Context, dir string) (*Report, error) {
	t, err := staging.Read(dir)
	if err != nil {
		return nil, err
	}
	log.Printf("[etl] staged data read: %d classes, %d meetings, %d requisites, %d rooms, %d sections",
		len(t.Courses), len(t.Meetings), len(t.Requisites), len(t.Rooms), len(t.Sections))
	return l.LoadAll(ctx, t)
}

// loadClasses inserts class rows one by one. Each insert runs inside a
// savepoint so a failing row can be rolled back without poisoning the outer
// transaction when the policy tolerates it.
func (l *Loader) loadClasses(ctx context.Context, tx pgx.Tx, courses []domain.Course, report *Report) error {
	for i, c := range courses {
		sp, err := tx.Begin(ctx)
		if err != nil {
			return err
		}
		if _, err := sp.Exec(ctx, insertClass,
			c.Name, c.Code, c.Description, c.Term, c.Years, c.Credits, c.Syllabus); err != nil {
			_ = sp.Rollback(ctx)
			if l.opts.RowPolicy == RowPolicyStrict {
				return fmt.Errorf("row %d (%s): %w", i, c.Code, err)
			}
			log.Printf("[etl] class row %d (%s) failed: %v", i, c.Code, err)
			report.ClassFailures = append(report.ClassFailures, RowFailure{Index: i, Code: c.Code, Err: err})
			continue
		}
		if err := sp.Commit(ctx); err != nil {
			return err
		}
		report.Classes++
	}
	return nil
}

func loadRooms(ctx context.Context, tx pgx.Tx, rooms []domain.Room, report *Report) error {
	for _, r := range rooms {
		var rid int
		err := tx.QueryRow(ctx, insertRoom, r.Building, r.Number, r.Capacity).Scan(&rid)
		if err != nil {
			return err
		}
		report.Rooms++
	}
	return nil
}

// loadMeetings inserts meetings and returns the bridge from source meeting
// ids to destination-generated ones. A row without a source id is keyed by
// its ordinal position.
func loadMeetings(ctx context.Context, tx pgx.Tx, meetings []domain.Meeting, report *Report) (map[int]int, error) {
	midMap := make(map[int]int, len(meetings))
	for i, m := range meetings {
		var newMID int
		err := tx.QueryRow(ctx, insertMeeting, m.Code, m.Start, m.End, m.Days).Scan(&newMID)
		if err != nil {
			return nil, err
		}
		midMap[sourceMeetingID(m, i)] = newMID
		report.Meetings++
	}
	return midMap, nil
}

func sourceMeetingID(m domain.Meeting, ordinal int) int {
	if m.MID == 0 {
		return ordinal
	}
	return m.MID
}

func loadRequisites(ctx context.Context, tx pgx.Tx, requisites []domain.Requisite, report *Report) error {
	for _, r := range requisites {
		if _, err := tx.Exec(ctx, insertRequisite, r.ClassID, r.ReqID, r.Prereq); err != nil {
			return err
		}
		report.Requisites++
	}
	return nil
}

// gateSections filters sections through the meeting-id map: a section whose
// source meeting id was never assigned a destination id is dropped. The map
// is an existence gate only — inserted rows keep their original mid value,
// because the meeting's natural key (course code + time + days) is stable
// across load even though surrogate ids are regenerated.
func gateSections(sections []domain.Section, midMap map[int]int) ([]domain.Section, int) {
	var keep []domain.Section
	skipped := 0
	for _, s := range sections {
		if _, ok := midMap[s.MeetingID]; !ok {
			skipped++
			continue
		}
		keep = append(keep, s)
	}
	return keep, skipped
}

func loadSections(ctx context.Context, tx pgx.Tx, sections []domain.Section, midMap map[int]int, report *Report) error {
	keep, skipped := gateSections(sections, midMap)
	report.SkippedSections += skipped
	for _, s := range keep {
		if _, err := tx.Exec(ctx, insertSection,
			s.RoomID, s.ClassID, s.MeetingID, s.Semester, strconv.Itoa(s.Year), s.Capacity); err != nil {
			return err
		}
		report.Sections++
	}
	return nil
}
