package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"TOKEN_TTL_HOURS", "SERVER_PORT", "LEGACY_PROJECT_EXPENSE_MATCH"} {
		t.Setenv(key, "")
	}
	cfg := LoadConfig()

	if cfg.Auth.TokenTTLHours != 24 {
		t.Errorf("TokenTTLHours = %d, want 24", cfg.Auth.TokenTTLHours)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Finance.LegacyProjectExpenseMatch {
		t.Error("LegacyProjectExpenseMatch should default to false")
	}
}

func TestLoadConfigFinanceFlag(t *testing.T) {
	t.Setenv("LEGACY_PROJECT_EXPENSE_MATCH", "true")
	if cfg := LoadConfig(); !cfg.Finance.LegacyProjectExpenseMatch {
		t.Error("LEGACY_PROJECT_EXPENSE_MATCH=true not picked up")
	}
}

func TestDSN(t *testing.T) {
	dsn := DBConfig{
		Host: "db", Port: "5432", User: "app", Password: "secret",
		Name: "structa", SSLMode: "disable",
	}.DSN()
	want := "host=db port=5432 user=app password=secret dbname=structa sslmode=disable"
	if dsn != want {
		t.Errorf("DSN = %q, want %q", dsn, want)
	}
}
