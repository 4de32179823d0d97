package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/smallbiznis/gardenwatch/pkg/db"
)

func TestApplyAutoMigratesSQLite(t *testing.T) {
	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := Apply(conn, db.TypeSQLite); err != nil {
		t.Fatalf("apply: %v", err)
	}

	for _, table := range []string{"users", "sessions", "email_verifications", "user_profiles", "available_keywords", "subscriptions", "community_unlocks"} {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("expected table %s", table)
		}
	}

	// Running twice is a no-op.
	if err := Apply(conn, db.TypeSQLite); err != nil {
		t.Fatalf("second apply: %v", err)
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	if ups == 0 || ups != downs {
		t.Fatalf("expected paired migrations, got %d up and %d down", ups, downs)
	}
}

func TestApplyRequiresHandle(t *testing.T) {
	if err := Apply(nil, db.TypePostgres); err == nil {
		t.Fatal("expected error for nil handle")
	}
}
