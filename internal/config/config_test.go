package config

import (
	"strings"
	"testing"
)

func TestValidate_MissingStorage(t *testing.T) {
	cfg := &Config{PollIntervalSeconds: 10, ProductURL: "https://example.com/p/1"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error without DB settings")
	}
	if !strings.Contains(err.Error(), "DATABASE_URL or DB_USER") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := &Config{
		DBUser:              "tracker",
		ProductURL:          "https://example.com/p/1",
		PollIntervalSeconds: 10,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "dbhost", DBPort: 5433, DBName: "prices",
		DBUser: "u", DBPassword: "p",
	}
	want := "postgres://u:p@dbhost:5433/prices?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}

	cfg.DatabaseURL = "postgres://elsewhere/db"
	if got := cfg.DSN(); got != cfg.DatabaseURL {
		t.Fatalf("DATABASE_URL should win, got %q", got)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CFG_TEST_STR", "hello")
	t.Setenv("CFG_TEST_INT", "42")
	t.Setenv("CFG_TEST_BAD_INT", "forty-two")

	if got := envStr("CFG_TEST_STR", "x"); got != "hello" {
		t.Fatalf("envStr = %q", got)
	}
	if got := envStr("CFG_TEST_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("envStr fallback = %q", got)
	}
	if got := envInt("CFG_TEST_INT", 0); got != 42 {
		t.Fatalf("envInt = %d", got)
	}
	if got := envInt("CFG_TEST_BAD_INT", 7); got != 7 {
		t.Fatalf("envInt bad value = %d", got)
	}
}
