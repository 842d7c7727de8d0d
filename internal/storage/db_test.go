package storage

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig("test.db")

	if config.Path != "test.db" {
		t.Errorf("expected path 'test.db', got '%s'", config.Path)
	}
	if config.MaxOpenConns != 10 {
		t.Errorf("expected MaxOpenConns 10, got %d", config.MaxOpenConns)
	}
	if config.BusyTimeout != 5*time.Second {
		t.Errorf("expected BusyTimeout 5s, got %v", config.BusyTimeout)
	}
	if config.JournalMode != "WAL" {
		t.Errorf("expected JournalMode 'WAL', got '%s'", config.JournalMode)
	}
	if config.AutoMigrate {
		t.Error("expected AutoMigrate off by default")
	}
}

func TestOpenInMemory(t *testing.T) {
	db, err := Open(DefaultConfig(":memory:"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Errorf("failed to ping database: %v", err)
	}
	if db.Conn() == nil {
		t.Error("expected non-nil connection")
	}
}

func TestOpenWithNilConfig(t *testing.T) {
	if _, err := Open(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestOpenAutoMigrateRejectsMemory(t *testing.T) {
	config := DefaultConfig(":memory:")
	config.AutoMigrate = true
	if _, err := Open(config); err == nil {
		t.Error("expected error for in-memory auto-migrate")
	}
}

func TestDSNPragmas(t *testing.T) {
	got := dsn(DefaultConfig("/tmp/cards.db"))
	for _, want := range []string{"busy_timeout%285000%29", "foreign_keys%281%29", "journal_mode%28WAL%29"} {
		if !strings.Contains(got, want) {
			t.Errorf("dsn %q missing %q", got, want)
		}
	}
	if strings.Contains(dsn(DefaultConfig(":memory:")), "journal_mode") {
		t.Error("in-memory databases should not set a journal mode")
	}
}

func TestMigrationsCreateTables(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	if err := MigrateUp(dbPath); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	mgr, err := NewMigrationManager(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen migration manager: %v", err)
	}
	version, dirty, err := mgr.Version()
	if err != nil {
		t.Fatalf("failed to get version: %v", err)
	}
	if dirty || version != 2 {
		t.Errorf("expected clean version 2, got %d (dirty=%v)", version, dirty)
	}
	if err := mgr.Down(); err != nil {
		t.Errorf("failed to roll back: %v", err)
	}
	_ = mgr.Close()

	// Applying again after a rollback must succeed.
	if err := MigrateUp(dbPath); err != nil {
		t.Fatalf("failed to re-apply migrations: %v", err)
	}

	db, err := Open(DefaultConfig(dbPath))
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"cards", "report_snapshots"} {
		var name string
		err := db.Conn().QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}
