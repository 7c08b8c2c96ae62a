package migrate

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateDirAcceptsEmbeddedSet(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("embedded migration set failed validation: %v", err)
	}
}

func TestCreateSQLMigrationProducesValidFile(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Coating Colors!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_coating_colors.sql") {
		t.Fatalf("unexpected sanitized filename %q", filepath.Base(path))
	}

	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration failed validation: %v", err)
	}
}

func TestCreateSQLMigrationRejectsEmptyName(t *testing.T) {
	if _, err := CreateSQLMigration(t.TempDir(), "!!!"); err == nil {
		t.Fatal("expected error for unsanitizable name")
	}
}
