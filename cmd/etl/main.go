// The etl command runs the full pipeline: extract the four sources,
// transform the five tables, download syllabi, and load the result into the
// selected database.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"schedule-etl/internal/config"
	"schedule-etl/internal/extract"
	"schedule-etl/internal/load"
	"schedule-etl/internal/syllabus"
	"schedule-etl/internal/transform"
)

func main() {
	env := flag.String("env", "production", "environment to run against (loads .env.<env>)")
	strictRows := flag.Bool("strict-rows", false, "abort the load on the first failing class row")
	flag.Parse()

	config.LoadEnvFile(*env)
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	for _, dir := range []string{cfg.DataDir, cfg.SyllabusDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("create directory %s: %v", dir, err)
		}
	}

	ctx := context.Background()

	log.Printf("[etl] starting data extraction...")
	tables := extract.New(cfg.DataDir).All()

	log.Printf("[etl] starting data transformation...")
	dl := &syllabus.Downloader{
		Dir:     cfg.SyllabusDir,
		Workers: cfg.DownloadWorkers,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
	tables, dlReport := transform.All(ctx, tables, dl)
	if dlReport != nil && dlReport.Failed > 0 {
		for _, f := range dlReport.Failures {
			log.Printf("[etl] syllabus %s: %v", f.Code, f.Err)
		}
	}

	log.Printf("[etl] starting data load...")
	opts := load.Options{RowPolicy: load.RowPolicyTolerate}
	if *strictRows {
		opts.RowPolicy = load.RowPolicyStrict
	}
	loader, err := load.Open(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Fatalf("[etl] load: %v", err)
	}
	defer loader.Close(ctx)

	if err := loader.CreateTables(ctx); err != nil {
		log.Fatalf("[etl] create tables: %v", err)
	}
	report, err := loader.LoadAll(ctx, tables)
	if err != nil {
		log.Fatalf("[etl] load: %v", err)
	}
	for _, f := range report.ClassFailures {
		log.Printf("[etl] class row %d (%s) was skipped: %v", f.Index, f.Code, f.Err)
	}

	log.Printf("[etl] data successfully loaded into the %s database", *env)
}
