// Package database stores the history of fasthosts runs in SQLite.
package database

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/apex/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/sqlite"
)

// migrations contains the schema of the history database.
var migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{{
		Id: "0001-create-runs",
		Up: []string{`CREATE TABLE runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_uuid VARCHAR(36) NOT NULL UNIQUE,
			started_at DATETIME NOT NULL,
			hosts INTEGER NOT NULL DEFAULT 0,
			candidates INTEGER NOT NULL DEFAULT 0,
			reachable INTEGER NOT NULL DEFAULT 0
		);`},
		Down: []string{`DROP TABLE runs;`},
	}, {
		Id: "0002-create-selections",
		Up: []string{`CREATE TABLE selections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			hostname VARCHAR(255) NOT NULL,
			ip VARCHAR(15) NOT NULL,
			latency_ms REAL NOT NULL
		);`, `CREATE INDEX selections_run_id ON selections(run_id);`},
		Down: []string{`DROP TABLE selections;`},
	}},
}

// RunMigrations runs the database migrations.
func RunMigrations(sqldb *sql.DB) error {
	n, err := migrate.Exec(sqldb, "sqlite3", migrations, migrate.Up)
	if err != nil {
		return errors.Wrap(err, "running migrations")
	}
	log.Debugf("database: performed %d migrations", n)
	return nil
}

// Database is the history database.
type Database struct {
	sess db.Session
}

// Open opens or creates the database at path, creating its parent
// directory if needed, and brings the schema up to date.
func Open(path string) (*Database, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, errors.Wrap(err, "creating database directory")
		}
	}
	sqldb, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err := RunMigrations(sqldb); err != nil {
		sqldb.Close()
		return nil, err
	}
	sess, err := sqlite.New(sqldb)
	if err != nil {
		sqldb.Close()
		return nil, errors.Wrap(err, "creating database session")
	}
	return &Database{sess: sess}, nil
}

// Close closes the database.
func (d *Database) Close() error {
	return d.sess.Close()
}
