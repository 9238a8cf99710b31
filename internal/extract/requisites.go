package extract

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"schedule-etl/internal/domain"

	_ "modernc.org/sqlite"
)

// requisiteQuery is the one fixed query run against the embedded store.
const requisiteQuery = "SELECT classid, reqid, prereq FROM requisites"

// Requisites opens the embedded relational file carrying the prerequisite
// edges, runs the fixed query, and closes the store. Rows with a null field
// are dropped.
func (e *Extractor) Requisites(name string) ([]domain.Requisite, error) {
	path := e.path(name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, name)
		}
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStore, name, err)
	}
	defer db.Close()

	rows, err := db.Query(requisiteQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStore, name, err)
	}
	defer rows.Close()

	var requisites []domain.Requisite
	for rows.Next() {
		var classID, reqID, prereq sql.NullInt64
		if err := rows.Scan(&classID, &reqID, &prereq); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrStore, name, err)
		}
		if !classID.Valid || !reqID.Valid || !prereq.Valid {
			continue
		}
		requisites = append(requisites, domain.Requisite{
			ClassID: int(classID.Int64),
			ReqID:   int(reqID.Int64),
			Prereq:  prereq.Int64 != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStore, name, err)
	}
	return requisites, nil
}
