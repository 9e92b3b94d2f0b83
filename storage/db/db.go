// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db stores benchmark collections in a SQL database so that
// reports can be rendered again later without the original logs.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/packbench/packstat/packstat"
)

// DB is a high-level interface to a database of benchmark runs. It's
// safe for concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRun       *sql.Stmt
	insertBenchmark *sql.Stmt
	insertEntry     *sql.Stmt
}

// ErrNotFound is returned by Run if there is no run with the
// requested ID.
var ErrNotFound = errors.New("run not found")

// now is overridden by tests.
var now = time.Now

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
//
// The caller must import the driver it names.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Runs (
	RunID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Created BIGINT,
	GroupName VARCHAR(255)
);
CREATE TABLE IF NOT EXISTS Benchmarks (
	RunID BIGINT UNSIGNED,
	BenchmarkID BIGINT UNSIGNED,
	Name VARCHAR(255),
	PRIMARY KEY (RunID, BenchmarkID),
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS Entries (
	RunID BIGINT UNSIGNED,
	BenchmarkID BIGINT UNSIGNED,
	EntryID BIGINT UNSIGNED,
	Name VARCHAR(255),
	Bytes BIGINT UNSIGNED NULL,
	PackTime VARCHAR(64),
	UnpackTime VARCHAR(64),
	PRIMARY KEY (RunID, BenchmarkID, EntryID),
{{if not .sqlite3}}
	Index (Name(100)),
{{end}}
	FOREIGN KEY (RunID, BenchmarkID) REFERENCES Benchmarks(RunID, BenchmarkID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS EntriesName ON Entries(Name);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertRun, err = db.sql.Prepare("INSERT INTO Runs(Created, GroupName) VALUES (?, ?)")
	if err != nil {
		return err
	}
	db.insertBenchmark, err = db.sql.Prepare("INSERT INTO Benchmarks(RunID, BenchmarkID, Name) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	db.insertEntry, err = db.sql.Prepare("INSERT INTO Entries(RunID, BenchmarkID, EntryID, Name, Bytes, PackTime, UnpackTime) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// InsertRun stores every benchmark of c as a new run and returns the
// run's ID. The run is stored in a single transaction.
func (db *DB) InsertRun(ctx context.Context, c *packstat.Collection) (id int64, err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	res, err := tx.StmtContext(ctx, db.insertRun).ExecContext(ctx, now().Unix(), c.Group)
	if err != nil {
		return 0, err
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, err
	}
	insertBenchmark := tx.StmtContext(ctx, db.insertBenchmark)
	insertEntry := tx.StmtContext(ctx, db.insertEntry)
	for bi, b := range c.Benchmarks {
		if _, err := insertBenchmark.ExecContext(ctx, id, bi, b.Name); err != nil {
			return 0, err
		}
		for ei, e := range b.Entries {
			var n sql.NullInt64
			if e.HasBytes {
				n = sql.NullInt64{Int64: int64(e.Bytes), Valid: true}
			}
			if _, err := insertEntry.ExecContext(ctx, id, bi, ei, e.Name, n, e.PackTime, e.UnpackTime); err != nil {
				return 0, err
			}
		}
	}
	return id, nil
}

// Run loads the run with the given ID. Benchmarks and entries are
// returned in the order they were inserted.
func (db *DB) Run(ctx context.Context, id int64) (*packstat.Collection, error) {
	c := new(packstat.Collection)
	err := db.sql.QueryRowContext(ctx, "SELECT GroupName FROM Runs WHERE RunID = ?", id).Scan(&c.Group)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d: %w", id, ErrNotFound)
	} else if err != nil {
		return nil, err
	}

	rows, err := db.sql.QueryContext(ctx, "SELECT Name FROM Benchmarks WHERE RunID = ? ORDER BY BenchmarkID", id)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		b := new(packstat.Benchmark)
		if err := rows.Scan(&b.Name); err != nil {
			rows.Close()
			return nil, err
		}
		c.Benchmarks = append(c.Benchmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.sql.QueryContext(ctx, "SELECT BenchmarkID, Name, Bytes, PackTime, UnpackTime FROM Entries WHERE RunID = ? ORDER BY BenchmarkID, EntryID", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			bi int
			e  packstat.Entry
			n  sql.NullInt64
		)
		if err := rows.Scan(&bi, &e.Name, &n, &e.PackTime, &e.UnpackTime); err != nil {
			return nil, err
		}
		if bi < 0 || bi >= len(c.Benchmarks) {
			return nil, fmt.Errorf("run %d: entry %s refers to missing benchmark %d", id, e.Name, bi)
		}
		if n.Valid {
			e.Bytes, e.HasBytes = uint64(n.Int64), true
		}
		b := c.Benchmarks[bi]
		b.Entries = append(b.Entries, &e)
	}
	return c, rows.Err()
}

// RunInfo describes a stored run.
type RunInfo struct {
	ID         int64
	Created    time.Time
	Group      string
	Benchmarks int
}

// Runs lists all stored runs, oldest first.
func (db *DB) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := db.sql.QueryContext(ctx, `SELECT r.RunID, r.Created, r.GroupName, COUNT(b.BenchmarkID)
FROM Runs r LEFT JOIN Benchmarks b ON b.RunID = r.RunID
GROUP BY r.RunID, r.Created, r.GroupName
ORDER BY r.RunID`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []RunInfo
	for rows.Next() {
		var ri RunInfo
		var created int64
		if err := rows.Scan(&ri.ID, &created, &ri.Group, &ri.Benchmarks); err != nil {
			return nil, err
		}
		ri.Created = time.Unix(created, 0).UTC()
		runs = append(runs, ri)
	}
	return runs, rows.Err()
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertRun, db.insertBenchmark, db.insertEntry} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
