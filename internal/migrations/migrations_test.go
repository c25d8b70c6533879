package migrations

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadMigrationsSortsAndPairsUpDown(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/000002_settings.up.sql":   {Data: []byte("CREATE TABLE app_settings (key TEXT);")},
		"sql/000002_settings.down.sql": {Data: []byte("DROP TABLE app_settings;")},
		"sql/000001_crm.up.sql":        {Data: []byte("CREATE TABLE orders (id BIGINT);")},
		"sql/000001_crm.down.sql":      {Data: []byte("DROP TABLE orders;")},
	}

	items, err := loadMigrations(fsys)
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d", len(items))
	}
	if items[0].Version != 1 || items[1].Version != 2 {
		t.Fatalf("unexpected migration order: %+v", items)
	}
}

func TestLoadMigrationsErrorsWhenDownMissing(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/000001_crm.up.sql": {Data: []byte("CREATE TABLE orders (id BIGINT);")},
	}
	_, err := loadMigrations(fsys)
	if err == nil {
		t.Fatal("expected error for missing down migration")
	}
	if !strings.Contains(err.Error(), "missing down SQL") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	items, err := loadMigrations(embeddedFS)
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	if len(items) == 0 {
		t.Fatal("no embedded migrations found")
	}
}
