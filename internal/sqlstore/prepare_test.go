package sqlstore

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestPrepareClosesDatabaseOnFailure(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ponto.db")), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	// A view under the entries table name makes the migration fail.
	if err := db.Exec("CREATE VIEW time_entries AS SELECT 1 AS id").Error; err != nil {
		t.Fatal(err)
	}

	if _, err := prepare(db); err == nil {
		t.Fatal("prepare succeeded over a conflicting schema")
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	if err := sqlDB.Ping(); err == nil {
		t.Error("database still open after failed prepare")
	}
}
