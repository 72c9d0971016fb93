package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asachdeva-dev/shopfront-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestProductsMigrationGuardsStock(t *testing.T) {
	content := readMigration(t, "*_create_products_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0)",
		"price NUMERIC(10,2) NOT NULL CHECK (price >= 0)",
		"CREATE INDEX IF NOT EXISTS idx_products_user_id",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_orders_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"total NUMERIC(10,2) NOT NULL CHECK (total >= 0)",
		"quantity INTEGER NOT NULL CHECK (quantity > 0)",
		"CREATE INDEX IF NOT EXISTS idx_orders_gateway_order_id",
		"ON DELETE CASCADE",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestStoreSettingsMigrationHasUniqueSlug(t *testing.T) {
	content := readMigration(t, "*_create_store_settings_table.sql")

	if !strings.Contains(content, "CREATE UNIQUE INDEX IF NOT EXISTS idx_store_settings_slug") {
		t.Error("missing unique slug index")
	}
	if !strings.Contains(content, "schedule_days INTEGER[]") {
		t.Error("missing schedule_days array column")
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
