package config

import (
	"strings"
	"testing"
)

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		User:     "dosirak",
		Password: "secret",
		Name:     "dosirak",
	}

	dsn := cfg.DSN()

	if !strings.Contains(dsn, "tcp(db.internal:3306)") {
		t.Errorf("expected default port appended, got %q", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("expected parseTime enabled, got %q", dsn)
	}
	// DATE columns must scan back in the local zone, or same-day checks
	// against local midnights shift across a day boundary.
	if !strings.Contains(dsn, "loc=Local") {
		t.Errorf("expected loc=Local, got %q", dsn)
	}
}

func TestDatabaseConfig_DSN_ExplicitPortKept(t *testing.T) {
	cfg := DatabaseConfig{Host: "db.internal:3307", User: "u", Password: "p", Name: "d"}

	if dsn := cfg.DSN(); !strings.Contains(dsn, "tcp(db.internal:3307)") {
		t.Errorf("expected explicit port preserved, got %q", dsn)
	}
}

func TestDatabaseConfig_DSN_OverrideWins(t *testing.T) {
	cfg := DatabaseConfig{
		Host:        "ignored",
		dsnOverride: "dosirak:secret@tcp(other:3306)/dosirak?parseTime=true",
	}

	if got := cfg.DSN(); got != cfg.dsnOverride {
		t.Errorf("expected DATABASE_URL returned as-is, got %q", got)
	}
}
