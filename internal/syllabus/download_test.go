package syllabus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"schedule-etl/internal/domain"
)

func TestFilename(t *testing.T) {
	testCases := []struct {
		name        string
		code        string
		description string
		expected    string
	}{
		{"Intro CS", "CS101", "Basics of computing", "Intro-CS-CS101-Basics-of-computing.pdf"},
		{"Systems/Networks", "CS330", "OS", "Systems_Networks-CS330-OS.pdf"},
		{"Databases", "CS340", "  padded  ", "Databases-CS340-padded.pdf"},
	}

	for _, tc := range testCases {
		result := Filename(tc.name, tc.code, tc.description)
		if result != tc.expected {
			t.Errorf("Filename(%q, %q, %q) = %q, want %q", tc.name, tc.code, tc.description, result, tc.expected)
		}
	}
}

func TestDownloadAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad.pdf" {
			http.Error(w, "gone", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("%PDF-1.4 fake syllabus"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	courses := []domain.Course{
		{Code: "CS101", Name: "Intro CS", Description: "Basics", Syllabus: srv.URL + "/cs101.pdf"},
		{Code: "CS102", Name: "Databases", Description: "SQL", Syllabus: srv.URL + "/bad.pdf"},
		{Code: "CS103", Name: "Networks", Description: "TCP", Syllabus: ""},
		{Code: "CS104", Name: "Compilers", Description: "Parsing", Syllabus: "None"},
	}

	d := &Downloader{Dir: dir, Workers: 2, Client: srv.Client()}
	report := d.DownloadAll(context.Background(), courses)

	if report.Fetched != 1 || report.Skipped != 2 || report.Failed != 1 {
		t.Fatalf("report = %+v", report)
	}
	if len(report.Failures) != 1 || report.Failures[0].Code != "CS102" {
		t.Errorf("unexpected failures: %+v", report.Failures)
	}

	path := filepath.Join(dir, Filename("Intro CS", "CS101", "Basics"))
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	if string(body) != "%PDF-1.4 fake syllabus" {
		t.Errorf("unexpected artifact body: %q", body)
	}

	// A second run finds the artifact on disk and skips the fetch.
	report = d.DownloadAll(context.Background(), courses)
	if report.Fetched != 0 || report.Skipped != 3 || report.Failed != 1 {
		t.Errorf("second run report = %+v", report)
	}
}

// Courses the pool never dispatches because the context was already
// canceled must be reported as unprocessed, not as skipped.
func TestDownloadAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	courses := []domain.Course{
		{Code: "CS101", Name: "Intro CS", Description: "Basics", Syllabus: "http://example.invalid/cs101.pdf"},
		{Code: "CS102", Name: "Databases", Description: "SQL", Syllabus: "http://example.invalid/cs102.pdf"},
		{Code: "CS103", Name: "Networks", Description: "TCP", Syllabus: "http://example.invalid/cs103.pdf"},
	}

	d := &Downloader{Dir: t.TempDir(), Workers: 2}
	report := d.DownloadAll(ctx, courses)

	if report.Unprocessed != len(courses) {
		t.Errorf("Unprocessed = %d, want %d", report.Unprocessed, len(courses))
	}
	if report.Fetched != 0 || report.Skipped != 0 || report.Failed != 0 {
		t.Errorf("report = %+v, want only unprocessed outcomes", report)
	}
}
