// The stage command runs extract + transform and writes the corrected
// tables to the staging directory, optionally archiving and uploading them
// to the drop host.
package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"

	"schedule-etl/internal/archive"
	"schedule-etl/internal/config"
	"schedule-etl/internal/extract"
	"schedule-etl/internal/sftpclient"
	"schedule-etl/internal/staging"
	"schedule-etl/internal/transform"
)

func main() {
	env := flag.String("env", "production", "environment to run against (loads .env.<env>)")
	upload := flag.Bool("upload", false, "archive the staging directory and upload it via SFTP")
	flag.Parse()

	config.LoadEnvFile(*env)
	cfg := config.Load()

	ctx := context.Background()

	log.Printf("[etl] starting data extraction...")
	tables := extract.New(cfg.DataDir).All()

	log.Printf("[etl] starting data transformation...")
	// Staging only corrects tables; syllabus artifacts are the etl
	// command's concern.
	tables, _ = transform.All(ctx, tables, nil)

	if err := staging.Write(cfg.StagingDir, tables); err != nil {
		log.Fatalf("[etl] write staging: %v", err)
	}
	log.Printf("[etl] staged tables written to %s", cfg.StagingDir)

	if !*upload {
		return
	}

	archivePath := filepath.Clean(cfg.StagingDir) + ".tar.br"
	if err := archive.Compress(cfg.StagingDir, archivePath); err != nil {
		log.Fatalf("[etl] archive: %v", err)
	}

	err := sftpclient.UploadFile(ctx, sftpclient.Config{
		Host:                  cfg.SFTPHost,
		Port:                  cfg.SFTPPort,
		User:                  cfg.SFTPUser,
		Pass:                  cfg.SFTPPass,
		RemoteDir:             cfg.SFTPDir,
		InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
	}, archivePath, filepath.Base(archivePath))
	if err != nil {
		log.Fatalf("[etl] upload: %v", err)
	}
	log.Printf("[etl] staging archive uploaded")
}
