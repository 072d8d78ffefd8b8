package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/naari3/rkpack/internal/config"
	"github.com/naari3/rkpack/internal/dbaccess"
	"github.com/naari3/rkpack/internal/platform"
)

// defaultKey is the well-known SQLCipher key rekordbox ships with. A real
// decrypting driver needs this (or a user-supplied --key) before the core
// ever sees row data; dbaccess itself stays driver-agnostic per the Library
// DB being an opaque relational store to the engine.
const defaultKey = "402fd482c38817c35ffa8ffb8c7d93143b749e7d315df7a81732a1ff43608497"

// resolveDBPath picks the Library DB path in priority order: --db-path flag,
// then the persisted config default, then platform auto-detection.
func resolveDBPath(flagPath string, cfg *config.Config) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	if cfg.Database.Path != "" {
		return cfg.Database.Path, nil
	}
	return platform.DefaultDBPath()
}

func resolveKey(flagKey string, cfg *config.Config) string {
	if flagKey != "" {
		return flagKey
	}
	if cfg.Database.Key != "" {
		return cfg.Database.Key
	}
	return defaultKey
}

// openLibraryDB opens the Library DB at path, issuing the SQLCipher
// unlock pragmas before handing the handle to the core. This only actually
// decrypts when dbaccess's go-sqlite3 driver was built against a
// SQLCipher-providing libsqlite3 (see DESIGN.md); plain (unencrypted)
// SQLite files, and non-SQLCipher driver builds, tolerate the pragmas as
// no-ops since SQLite silently ignores unrecognized pragma names.
func openLibraryDB(path, key string, readOnly bool) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("Library DB not found at %s: %w", path, err)
	}

	db, err := dbaccess.Open(path, readOnly)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA cipher_compatibility = 4"); err != nil {
		db.Close()
		return nil, fmt.Errorf("unlock database: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA key = '%s'", key)); err != nil {
		db.Close()
		return nil, fmt.Errorf("unlock database: %w", err)
	}

	return db, nil
}

// openDBFromFlags resolves the Library DB path and key from the root
// command's persistent --db-path/--key flags and the loaded config, then
// opens it. Every subcommand goes through this single entry point.
func openDBFromFlags(readOnly bool) (*sql.DB, error) {
	path, err := resolveDBPath(dbPathFlag, cfg)
	if err != nil {
		return nil, err
	}
	key := resolveKey(keyFlag, cfg)

	fmt.Println("DB:", path)
	return openLibraryDB(path, key, readOnly)
}
