package migrations

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	bridge "github.com/goliatone/go-bridge"
	_ "github.com/mattn/go-sqlite3"
)

func TestFilesystems_ReturnsPostgresAndSQLite(t *testing.T) {
	filesystems, err := Filesystems()
	if err != nil {
		t.Fatalf("filesystems: %v", err)
	}
	if len(filesystems) != 2 {
		t.Fatalf("expected 2 filesystems, got %d", len(filesystems))
	}

	var postgresFound bool
	var sqliteFound bool
	for _, entry := range filesystems {
		matches, globErr := fs.Glob(entry.FS, "*.up.sql")
		if globErr != nil {
			t.Fatalf("glob %s: %v", entry.Dialect, globErr)
		}
		if len(matches) == 0 {
			t.Fatalf("expected %s migration files, got none", entry.Dialect)
		}
		switch entry.Dialect {
		case DialectPostgres:
			postgresFound = true
		case DialectSQLite:
			sqliteFound = true
		}
	}

	if !postgresFound {
		t.Fatalf("expected postgres filesystem")
	}
	if !sqliteFound {
		t.Fatalf("expected sqlite filesystem")
	}
}

func TestRegister_UsesValidationTargets(t *testing.T) {
	var calls []string
	_, err := Register(context.Background(), func(_ context.Context, dialect string, _ string, _ fs.FS) error {
		calls = append(calls, dialect)
		return nil
	}, WithValidationTargets(DialectSQLite))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if len(calls) != 1 {
		t.Fatalf("expected 1 registration call, got %d", len(calls))
	}
	if calls[0] != DialectSQLite {
		t.Fatalf("expected sqlite registration, got %q", calls[0])
	}
}

func TestCoreSchemaMigrationPair_ExistsForBothDialects(t *testing.T) {
	root := bridge.GetCoreMigrationsFS()
	paths := []string{
		"data/sql/migrations/00001_bridge_core_schema.up.sql",
		"data/sql/migrations/00001_bridge_core_schema.down.sql",
		"data/sql/migrations/sqlite/00001_bridge_core_schema.up.sql",
		"data/sql/migrations/sqlite/00001_bridge_core_schema.down.sql",
	}
	for _, migrationPath := range paths {
		content, err := fs.ReadFile(root, migrationPath)
		if err != nil {
			t.Fatalf("read migration %s: %v", migrationPath, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			t.Fatalf("expected migration %s to have SQL content", migrationPath)
		}
	}
}

func TestSQLiteCoreSchemaMigration_ApplyAndRollback(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:migrations-bridge-core?mode=memory&cache=shared&_foreign_keys=on")
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	defer func() { _ = db.Close() }()

	root := bridge.GetCoreMigrationsFS()
	sqliteMigrations, err := fs.Sub(root, "data/sql/migrations/sqlite")
	if err != nil {
		t.Fatalf("resolve sqlite migrations: %v", err)
	}

	ctx := context.Background()
	if err := execSQLMigration(ctx, db, sqliteMigrations, "00001_bridge_core_schema.up.sql"); err != nil {
		t.Fatalf("apply core schema up: %v", err)
	}

	if _, err := db.ExecContext(ctx,
		"INSERT INTO bridge_nonces (dest, nonce, updated_at) VALUES (?, ?, ?)",
		7, 1, "2026-08-01T00:00:00Z",
	); err != nil {
		t.Fatalf("insert nonce row: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		"INSERT INTO bridge_delivery_events (id, channel, dest, nonce, outcome, reason, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		"evt-1", "0x1111111111111111111111111111111111111111", 7, 1, "dispatched", "", "2026-08-01T00:00:00Z",
	); err != nil {
		t.Fatalf("insert delivery event row: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		"INSERT INTO bridge_delivery_events (id, channel, dest, nonce, outcome, reason, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		"evt-2", "0x1111111111111111111111111111111111111111", 7, 1, "dispatched", "", "2026-08-01T00:00:00Z",
	); err == nil {
		t.Fatalf("expected dest/nonce uniqueness violation")
	}

	if err := execSQLMigration(ctx, db, sqliteMigrations, "00001_bridge_core_schema.down.sql"); err != nil {
		t.Fatalf("apply core schema down: %v", err)
	}

	var tableName string
	err = db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?",
		"bridge_nonces",
	).Scan(&tableName)
	if err != sql.ErrNoRows {
		t.Fatalf("expected bridge_nonces to be dropped, got %q err %v", tableName, err)
	}
}

func execSQLMigration(ctx context.Context, db *sql.DB, fsys fs.FS, filename string) error {
	content, err := fs.ReadFile(fsys, filepath.Clean(filename))
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, string(content))
	return err
}
