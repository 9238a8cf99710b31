package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Pipeline directories
	DataDir     string
	SyllabusDir string
	StagingDir  string

	// Destination database
	DatabaseURL string

	// Syllabus download stage
	DownloadWorkers int

	// Staging drop host
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPInsecureIgnoreHostKey bool
}

// LoadEnvFile reads .env.<env> into the process environment before Load.
// A missing file is not an error: deployed runs configure the environment
// directly.
func LoadEnvFile(env string) {
	_ = godotenv.Load(".env." + env)
}

func Load() Config {
	return Config{
		DataDir:     getenv("ETL_DATA_DIR", "ETL/Files"),
		SyllabusDir: getenv("ETL_SYLLABUS_DIR", "syllabuses"),
		StagingDir:  getenv("ETL_STAGING_DIR", "ETL/FixedData"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		DownloadWorkers: getenvInt("ETL_DOWNLOAD_WORKERS", 5),

		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/inbound"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", true),
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
