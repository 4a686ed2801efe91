// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every variable ParseFlags reads for the rest of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DATABASE_URL", "DATABASE_TYPE", "LOG_DIR", "REDIS_ADDR", "LOOKUP_TTL"} {
		t.Setenv(k, "")
	}
}

func noEnvFile(t *testing.T) string {
	return "-env=" + filepath.Join(t.TempDir(), "missing.env")
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "mentoria.db")
	t.Setenv("LOG_DIR", "/var/log/mentoria")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LOOKUP_TTL", "90s")

	cfg, err := ParseFlags([]string{noEnvFile(t)})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "mentoria.db" {
		t.Errorf("expected database URL from env, got %q", cfg.DatabaseURL)
	}
	if cfg.LogDir != "/var/log/mentoria" {
		t.Errorf("expected log dir from env, got %q", cfg.LogDir)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("expected redis addr from env, got %q", cfg.RedisAddr)
	}
	if cfg.LookupTTL != 90*time.Second {
		t.Errorf("expected TTL 90s, got %s", cfg.LookupTTL)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseFlags([]string{noEnvFile(t), "-d", "mentoria.db"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("expected default port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected sqlite by default, got %q", cfg.DatabaseType)
	}
	if cfg.LogDir != DefaultLogDir {
		t.Errorf("expected default log dir, got %q", cfg.LogDir)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("expected no redis by default, got %q", cfg.RedisAddr)
	}
	if cfg.LookupTTL != DefaultLookupTTL {
		t.Errorf("expected default TTL, got %s", cfg.LookupTTL)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_TYPE", "sqlite")

	cfg, err := ParseFlags([]string{noEnvFile(t), "-p", "8080", "-d", "postgres://localhost/mentoria", "-t", "postgres", "-lookup-ttl", "1m"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("CLI should override env: expected postgres, got %q", cfg.DatabaseType)
	}
	if cfg.LookupTTL != time.Minute {
		t.Errorf("expected TTL 1m, got %s", cfg.LookupTTL)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing database", nil, nil},
		{"invalid port env", map[string]string{"PORT": "abc", "DATABASE_URL": "x.db"}, nil},
		{"port out of range", nil, []string{"-p", "70000", "-d", "x.db"}},
		{"unknown database type", nil, []string{"-d", "x.db", "-t", "mysql"}},
		{"invalid ttl env", map[string]string{"DATABASE_URL": "x.db", "LOOKUP_TTL": "soon"}, nil},
		{"negative ttl", nil, []string{"-d", "x.db", "-lookup-ttl", "-1m"}},
		{"unknown flag", nil, []string{"-admin-salt", "s1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			args := append([]string{noEnvFile(t)}, tt.args...)
			if _, err := ParseFlags(args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseFlags_DotenvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("PORT")
	t.Setenv("LOG_DIR", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	content := "DATABASE_URL=dotenv.db\nPORT=4100\nLOG_DIR=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("PORT")
	})

	cfg, err := ParseFlags([]string{"-env", path})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DatabaseURL != "dotenv.db" {
		t.Errorf("expected database URL from .env, got %q", cfg.DatabaseURL)
	}
	if cfg.Port != 4100 {
		t.Errorf("expected port from .env, got %d", cfg.Port)
	}
	// real environment wins over the file
	if cfg.LogDir != "from-env" {
		t.Errorf("expected environment to win, got %q", cfg.LogDir)
	}
}
