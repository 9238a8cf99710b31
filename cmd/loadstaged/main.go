// The loadstaged command loads the corrected staged CSVs into the database,
// with optional schema creation and post-load maintenance.
package main

import (
	"context"
	"flag"
	"log"

	"schedule-etl/internal/config"
	"schedule-etl/internal/load"
)

func main() {
	env := flag.String("env", "production", "environment to run against (loads .env.<env>)")
	dir := flag.String("dir", "", "staging directory (default from ETL_STAGING_DIR)")
	create := flag.Bool("create", false, "drop and recreate the destination schema first")
	dedupe := flag.Bool("dedupe", false, "clean duplicate sections after loading")
	resetSeq := flag.Bool("reset-seq", false, "resynchronize sequences after loading")
	flag.Parse()

	config.LoadEnvFile(*env)
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	stagingDir := *dir
	if stagingDir == "" {
		stagingDir = cfg.StagingDir
	}

	ctx := context.Background()
	loader, err := load.Open(ctx, cfg.DatabaseURL, load.Options{})
	if err != nil {
		log.Fatalf("[etl] connect: %v", err)
	}
	defer loader.Close(ctx)

	if *create {
		if err := loader.CreateTables(ctx); err != nil {
			log.Fatalf("[etl] create tables: %v", err)
		}
	}

	report, err := loader.LoadStaged(ctx, stagingDir)
	if err != nil {
		log.Fatalf("[etl] load staged: %v", err)
	}
	for _, f := range report.ClassFailures {
		log.Printf("[etl] class row %d (%s) was skipped: %v", f.Index, f.Code, f.Err)
	}

	if *dedupe {
		if err := loader.CleanDuplicateSections(ctx); err != nil {
			log.Fatalf("[etl] dedupe: %v", err)
		}
	}
	if *resetSeq {
		if err := loader.ResetSequences(ctx); err != nil {
			log.Fatalf("[etl] reset sequences: %v", err)
		}
	}
}
