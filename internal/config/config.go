package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendSpreadsheet = "spreadsheet"
	BackendDatabase    = "database"

	SourceDir = "dir"
	SourceS3  = "s3"
)

type Config struct {
	HTTPAddr string
	Backend  string

	// Workbook location
	DataSource    string
	DataDir       string
	DonationsFile string
	CEPFile       string
	MedicalFile   string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3Prefix      string
	S3PathStyle   bool

	DBDriver    string
	DBDSN       string
	DBKeepalive time.Duration

	JWTSecret    string
	AdminEmail   string
	AdminPass    string
	AuthRequired bool
	CORSOrigin   string

	GelfAddr string
}

// Load reads .env when present and builds the config from the environment.
// It reports whether a .env file was loaded so the caller can log it once
// logging is set up.
func Load() (*Config, bool) {
	envLoaded := godotenv.Load() == nil
	return FromEnv(), envLoaded
}

func FromEnv() *Config {
	return &Config{
		HTTPAddr: getEnv("CAREBOARD_ADDR", ":8080"),
		Backend:  strings.ToLower(getEnv("CAREBOARD_BACKEND", BackendSpreadsheet)),

		DataSource:    strings.ToLower(getEnv("CAREBOARD_DATA_SOURCE", SourceDir)),
		DataDir:       getEnv("CAREBOARD_DATA_DIR", "."),
		DonationsFile: getEnv("CAREBOARD_DONATIONS_FILE", "Donation_Dashboard_Updated.xlsx"),
		CEPFile:       getEnv("CAREBOARD_CEP_FILE", "CEP 2025 (AASTHA FOUNDATION).xlsx"),
		MedicalFile:   getEnv("CAREBOARD_MEDICAL_FILE", "Patient_Records (1).xlsx"),
		S3Bucket:      getEnv("CAREBOARD_S3_BUCKET", ""),
		S3Region:      getEnv("CAREBOARD_S3_REGION", "us-east-1"),
		S3Endpoint:    getEnv("CAREBOARD_S3_ENDPOINT", ""),
		S3Prefix:      getEnv("CAREBOARD_S3_PREFIX", ""),
		S3PathStyle:   getEnvBool("CAREBOARD_S3_PATH_STYLE", false),

		DBDriver:    strings.ToLower(getEnv("CAREBOARD_DB_DRIVER", "sqlite")),
		DBDSN:       getEnv("CAREBOARD_DB_DSN", "data/careboard.db"),
		DBKeepalive: getEnvDuration("CAREBOARD_DB_KEEPALIVE", 30*time.Second),

		JWTSecret:    getEnv("CAREBOARD_JWT_SECRET", "careboard-dev-secret-change-me"),
		AdminEmail:   getEnv("CAREBOARD_ADMIN_EMAIL", "admin@careboard.local"),
		AdminPass:    getEnv("CAREBOARD_ADMIN_PASS", "admin123"),
		AuthRequired: getEnvBool("CAREBOARD_AUTH_REQUIRED", true),
		CORSOrigin:   getEnv("CAREBOARD_CORS_ORIGIN", "*"),

		GelfAddr: getEnv("CAREBOARD_GELF_ADDR", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
