// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dbtest

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/packbench/packstat/storage/db"
)

var mysqlDSN = flag.String("mysql", "", "run database tests against the MySQL server at this `dsn` (user:pass@tcp(host)/) instead of SQLite")

// createEmptyMySQLDB makes a new, empty database for the test.
func createEmptyMySQLDB(t *testing.T) (dsn string, cleanup func()) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		t.Fatal(err)
	}

	name := "packstat_test_" + hex.EncodeToString(buf)

	prefix := *mysqlDSN
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	db, err := sql.Open("mysql", prefix)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := db.Exec(fmt.Sprintf("CREATE DATABASE `%s`", name)); err != nil {
		db.Close()
		t.Fatal(err)
	}

	t.Logf("Using database %q", name)

	return prefix + name, func() {
		if _, err := db.Exec(fmt.Sprintf("DROP DATABASE `%s`", name)); err != nil {
			t.Error(err)
		}
		db.Close()
	}
}

// NewDB makes a connection to a testing database, either a SQLite file
// in a temporary directory or a fresh MySQL database depending on the
// -mysql flag. It returns the driver and data source name used so that
// callers can open the same database again. The database is closed
// and removed when the test finishes.
func NewDB(t *testing.T) (d *db.DB, driverName, dataSourceName string) {
	t.Helper()
	driverName = "sqlite3"
	dataSourceName = filepath.Join(t.TempDir(), "packstat.db")
	if *mysqlDSN != "" {
		var cleanup func()
		driverName = "mysql"
		dataSourceName, cleanup = createEmptyMySQLDB(t)
		t.Cleanup(cleanup)
	}
	d, err := db.OpenSQL(driverName, dataSourceName)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	// Make sure the database really is empty.
	runs, err := d.Runs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Fatalf("found %d run(s), want 0", len(runs))
	}
	return d, driverName, dataSourceName
}
