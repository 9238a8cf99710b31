package load

import (
	"context"
	"log"
)

// Maintenance operations outside the main load path.

// CleanDuplicateSections removes sections that duplicate another section's
// scheduling data: physical duplicate ids first, then sections sharing the
// same room and meeting across a different semester or year, keeping the
// lowest id.
func (l *Loader) CleanDuplicateSections(ctx context.Context) error {
	tx, err := l.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		WITH duplicate_sids AS (
			SELECT sid
			FROM section
			GROUP BY sid
			HAVING COUNT(*) > 1
		)
		DELETE FROM section
		WHERE sid IN (SELECT sid FROM duplicate_sids);
	`); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		WITH duplicate_schedules AS (
			SELECT s1.sid
			FROM section s1
			JOIN section s2 ON s1.roomid = s2.roomid
				AND s1.mid = s2.mid
				AND (s1.semester != s2.semester OR s1.years != s2.years)
				AND s1.sid > s2.sid
		)
		DELETE FROM section
		WHERE sid IN (SELECT sid FROM duplicate_schedules);
	`); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	log.Printf("[etl] duplicate sections cleaned")
	return nil
}

// ResetSequences moves each table's auto-increment cursor past the highest
// existing id, so the next insert does not collide after a bulk load.
func (l *Loader) ResetSequences(ctx context.Context) error {
	sequences := []struct {
		table string
		id    string
	}{
		{"class", "cid"},
		{"meeting", "mid"},
		{"room", "rid"},
		{"section", "sid"},
	}

	tx, err := l.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, s := range sequences {
		stmt := `SELECT setval('` + s.table + `_` + s.id + `_seq',
			COALESCE((SELECT MAX(` + s.id + `) FROM ` + s.table + `), 1), true);`
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	log.Printf("[etl] sequences reset")
	return nil
}
