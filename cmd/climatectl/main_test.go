package main

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

const datasetDDL = `
CREATE TABLE station (id INTEGER PRIMARY KEY, station TEXT, name TEXT, latitude FLOAT, longitude FLOAT, elevation FLOAT);
CREATE TABLE measurement (id INTEGER PRIMARY KEY, station TEXT, date TEXT, prcp FLOAT, tobs FLOAT);
`

func useDataset(t *testing.T, ddl string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hawaii.sqlite")
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("create dataset: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Exec(ddl); err != nil {
		t.Fatalf("seed dataset: %v", err)
	}
	t.Setenv("SQLITE_PATH", path)
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("LOG_LEVEL", "error")
}

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_usage(t *testing.T) {
	code, _, stderr := runCmd(t)
	if code != 2 || !strings.Contains(stderr, "usage:") {
		t.Errorf("run() = %d, %q; want 2 with usage", code, stderr)
	}

	code, _, stderr = runCmd(t, "migrate")
	if code != 2 || !strings.Contains(stderr, "unknown command: migrate") {
		t.Errorf("run(migrate) = %d, %q; want 2 with unknown command", code, stderr)
	}
}

func TestRun_check(t *testing.T) {
	useDataset(t, datasetDDL)

	code, stdout, stderr := runCmd(t, "check")
	if code != 0 {
		t.Fatalf("check = %d, stderr %q", code, stderr)
	}
	if strings.TrimSpace(stdout) != "schema ok" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRun_checkDrift(t *testing.T) {
	useDataset(t, `CREATE TABLE measurement (id INTEGER PRIMARY KEY, station TEXT, date TEXT, prcp FLOAT, tobs FLOAT);`)

	code, _, stderr := runCmd(t, "check")
	if code != 1 {
		t.Fatalf("check = %d; want 1", code)
	}
	if !strings.Contains(stderr, "schema mismatch") {
		t.Errorf("stderr = %q; want schema mismatch", stderr)
	}
}

func TestRun_summary(t *testing.T) {
	useDataset(t, datasetDDL+`
		INSERT INTO station (station) VALUES ('USC00519281'), ('USC00519397');
		INSERT INTO measurement (station, date, prcp, tobs) VALUES
		  ('USC00519281', '2010-01-01', 0.1, 70),
		  ('USC00519281', '2017-08-18', 0.0, 79),
		  ('USC00519397', '2017-08-23', 0.0, 81);
	`)

	code, stdout, stderr := runCmd(t, "summary")
	if code != 0 {
		t.Fatalf("summary = %d, stderr %q", code, stderr)
	}
	for _, want := range []string{
		"stations:      2",
		"measurements:  3",
		"2010-01-01 .. 2017-08-23",
		"tobs station:  USC00519281",
		"2016-08-18 .. 2017-08-18",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("summary missing %q in:\n%s", want, stdout)
		}
	}
}

func TestRun_summaryEmpty(t *testing.T) {
	useDataset(t, datasetDDL)

	code, stdout, _ := runCmd(t, "summary")
	if code != 0 {
		t.Fatalf("summary = %d", code)
	}
	if !strings.Contains(stdout, "dates:         none") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRun_missingDataset(t *testing.T) {
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "absent.sqlite"))
	t.Setenv("DB_DRIVER", "sqlite3")

	code, _, stderr := runCmd(t, "check")
	if code != 1 || !strings.Contains(stderr, "db open") {
		t.Errorf("check = %d, %q; want 1 with db open error", code, stderr)
	}
}
