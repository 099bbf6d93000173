package database

import (
	"path/filepath"
	"testing"

	"lingua_backend/internal/config"
	"lingua_backend/internal/model"
)

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	if _, err := Dialector(&config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
	for _, driver := range []string{"", "mysql", "postgres"} {
		d, err := Dialector(&config.DatabaseConfig{Driver: driver, Host: "localhost", Port: 5432})
		if err != nil || d == nil {
			t.Fatalf("driver %q: %v", driver, err)
		}
	}
}

func TestInitDBSqliteAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lingua.db")
	db, err := InitDB(&config.DatabaseConfig{Driver: "sqlite", Path: path}, false)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("DB: %v", err)
	}
	defer sqlDB.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	for _, m := range model.AllModels() {
		if !db.Migrator().HasTable(m) {
			t.Fatalf("table for %T not created", m)
		}
	}
}
