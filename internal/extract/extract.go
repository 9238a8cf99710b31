// Package extract reads the four heterogeneous scheduling sources into the
// five uniform tables. Extraction applies per-row completeness filtering
// only; business validation belongs to the transform stage.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"unicode/utf8"

	"schedule-etl/internal/domain"
)

// One error kind per source-format failure mode. Callers match with
// errors.Is; every kind is non-fatal to the pipeline as a whole.
var (
	ErrMissingFile  = errors.New("source file not found")
	ErrEmptyFile    = errors.New("source file is empty")
	ErrMalformed    = errors.New("malformed source file")
	ErrEncoding     = errors.New("source file encoding fault")
	ErrMissingField = errors.New("missing expected field")
	ErrStore        = errors.New("embedded store fault")
)

type Extractor struct {
	DataDir string
}

func New(dataDir string) *Extractor {
	return &Extractor{DataDir: dataDir}
}

func (e *Extractor) path(name string) string {
	return filepath.Join(e.DataDir, name)
}

// readFile loads a source file and screens the failure modes shared by the
// text formats.
func (e *Extractor) readFile(name string) ([]byte, error) {
	b, err := os.ReadFile(e.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, name)
		}
		return nil, err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, name)
	}
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("%w: %s", ErrEncoding, name)
	}
	return b, nil
}

// All extracts every source in a fixed order. A failed source is logged and
// contributes an empty table; downstream passes tolerate short inputs.
func (e *Extractor) All() domain.Tables {
	var t domain.Tables
	var err error

	if t.Courses, err = e.Courses("courses.xml"); err != nil {
		log.Printf("[etl] extract courses: %v", err)
	}
	if t.Meetings, err = e.Meetings("meeting.csv"); err != nil {
		log.Printf("[etl] extract meetings: %v", err)
	}
	if t.Requisites, err = e.Requisites("requisites.db"); err != nil {
		log.Printf("[etl] extract requisites: %v", err)
	}
	if t.Rooms, err = e.Rooms("rooms.json"); err != nil {
		log.Printf("[etl] extract rooms: %v", err)
	}
	if t.Sections, err = e.Sections("sections.csv"); err != nil {
		log.Printf("[etl] extract sections: %v", err)
	}

	log.Printf("[etl] extraction complete: %d courses, %d meetings, %d requisites, %d rooms, %d sections",
		len(t.Courses), len(t.Meetings), len(t.Requisites), len(t.Rooms), len(t.Sections))
	return t
}
