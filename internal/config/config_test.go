package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"CAREBOARD_ADDR", "CAREBOARD_BACKEND", "CAREBOARD_AUTH_REQUIRED", "CAREBOARD_DB_KEEPALIVE"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("addr = %q", cfg.HTTPAddr)
	}
	if cfg.Backend != BackendSpreadsheet {
		t.Fatalf("backend = %q", cfg.Backend)
	}
	if !cfg.AuthRequired {
		t.Fatal("auth should be required by default")
	}
	if cfg.DBKeepalive != 30*time.Second {
		t.Fatalf("keepalive = %s", cfg.DBKeepalive)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CAREBOARD_BACKEND", "Database")
	t.Setenv("CAREBOARD_AUTH_REQUIRED", "off")
	t.Setenv("CAREBOARD_DB_KEEPALIVE", "5s")
	t.Setenv("CAREBOARD_S3_PATH_STYLE", "true")

	cfg := FromEnv()
	if cfg.Backend != BackendDatabase {
		t.Fatalf("backend = %q", cfg.Backend)
	}
	if cfg.AuthRequired {
		t.Fatal("auth should be disabled")
	}
	if cfg.DBKeepalive != 5*time.Second {
		t.Fatalf("keepalive = %s", cfg.DBKeepalive)
	}
	if !cfg.S3PathStyle {
		t.Fatal("path style should be on")
	}
}

func TestGetEnvDurationInvalidFallsBack(t *testing.T) {
	t.Setenv("CAREBOARD_TEST_DUR", "soon")
	if got := getEnvDuration("CAREBOARD_TEST_DUR", time.Minute); got != time.Minute {
		t.Fatalf("got %s", got)
	}
}
