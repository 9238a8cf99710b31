// Package syllabus fetches the course syllabus artifacts referenced by the
// catalog. The stage is I/O-bound and independent per course, so it runs on
// a bounded worker pool; a single course's failure is recorded in the report
// and never aborts the stage.
package syllabus

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"schedule-etl/internal/concurrency"
	"schedule-etl/internal/domain"
	"schedule-etl/internal/httpx"
)

type Downloader struct {
	// Dir is where artifacts are written.
	Dir string
	// Workers bounds concurrent fetches; 0 means the pool default.
	Workers int
	// Client is used for fetches; nil means http.DefaultClient.
	Client *http.Client
}

// Report summarizes one download run.
type Report struct {
	Fetched int
	Skipped int
	Failed  int
	// Unprocessed counts courses whose fetch never ran because the context
	// was canceled before a worker picked them up.
	Unprocessed int
	// Failures holds one entry per failed course.
	Failures []Failure
}

type Failure struct {
	Code string
	Err  error
}

// Filename derives the deterministic artifact name for a course:
// {name}-{code}-{description}.pdf with spaces replaced by hyphens and
// slashes by underscores.
func Filename(name, code, description string) string {
	raw := fmt.Sprintf("%s-%s-%s.pdf", name, code, strings.TrimSpace(description))
	raw = strings.ReplaceAll(raw, " ", "-")
	raw = strings.ReplaceAll(raw, "/", "_")
	return raw
}

type status int

// statusUnprocessed is deliberately the zero value: the pool returns
// zero outcomes for items it never dispatched, and those must not be
// mistaken for skips.
const (
	statusUnprocessed status = iota
	statusSkipped
	statusFetched
	statusFailed
)

type outcome struct {
	status status
	code   string
	err    error
}

// DownloadAll fetches every referenced syllabus over the worker pool and
// blocks until all dispatched fetches finish. Completion order is not
// significant; the report is tallied from per-course outcomes.
func (d *Downloader) DownloadAll(ctx context.Context, courses []domain.Course) *Report {
	log.Printf("[etl] starting syllabus downloads (%d courses)", len(courses))

	opts := concurrency.Options{MaxWorkers: d.Workers}
	outcomes, _ := concurrency.ProcessParallel(ctx, courses, opts,
		func(ctx context.Context, _ int, c domain.Course) (outcome, error) {
			return d.fetchOne(ctx, c), nil
		})

	report := &Report{}
	for _, o := range outcomes {
		switch o.status {
		case statusFetched:
			report.Fetched++
		case statusSkipped:
			report.Skipped++
		case statusFailed:
			report.Failed++
			report.Failures = append(report.Failures, Failure{Code: o.code, Err: o.err})
		case statusUnprocessed:
			report.Unprocessed++
		}
	}

	log.Printf("[etl] syllabus downloads done: %d fetched, %d skipped, %d failed, %d unprocessed",
		report.Fetched, report.Skipped, report.Failed, report.Unprocessed)
	return report
}

func (d *Downloader) fetchOne(ctx context.Context, c domain.Course) outcome {
	url := strings.TrimSpace(c.Syllabus)
	if url == "" || strings.EqualFold(url, "none") {
		log.Printf("[etl] no syllabus URL for %s, skipping", c.Code)
		return outcome{status: statusSkipped, code: c.Code}
	}

	name := Filename(c.Name, c.Code, c.Description)
	path := filepath.Join(d.Dir, name)

	if _, err := os.Stat(path); err == nil {
		log.Printf("[etl] syllabus already exists: %s", name)
		return outcome{status: statusSkipped, code: c.Code}
	}

	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return d.failed(c.Code, err)
	}

	body, err := httpx.Fetch(ctx, d.Client, url)
	if err != nil {
		return d.failed(c.Code, fmt.Errorf("fetch %s: %w", url, err))
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return d.failed(c.Code, err)
	}

	log.Printf("[etl] downloaded %s", name)
	return outcome{status: statusFetched, code: c.Code}
}

func (d *Downloader) failed(code string, err error) outcome {
	log.Printf("[etl] syllabus download failed for %s: %v", code, err)
	return outcome{status: statusFailed, code: code, err: err}
}
