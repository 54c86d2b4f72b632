package climate

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"climate-server/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE station (id INTEGER PRIMARY KEY, station TEXT, name TEXT, latitude FLOAT, longitude FLOAT, elevation FLOAT);
CREATE TABLE measurement (id INTEGER PRIMARY KEY, station TEXT, date TEXT, prcp FLOAT, tobs FLOAT);
`

func newFeature(t *testing.T, seed string) *http.ServeMux {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(schema + seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	mux := http.NewServeMux()
	RegisterFeature(mux, db, config.Reference{})
	return mux
}

func get(t *testing.T, mux *http.ServeMux, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Code, strings.TrimSpace(rec.Body.String())
}

func TestRegisterFeature_singleObservation(t *testing.T) {
	mux := newFeature(t, `
		INSERT INTO station (station, name) VALUES ('USC00519281', 'WAIHEE 837.5, HI US');
		INSERT INTO measurement (station, date, prcp, tobs) VALUES ('USC00519281', '2017-08-23', 0.45, 79);
	`)

	code, body := get(t, mux, "/api/v1.0/2017-08-23")
	if code != http.StatusOK {
		t.Fatalf("status = %d; want 200", code)
	}
	want := `["Minimum temperature:",[79],"Maximum temperature:",[79],"Average temperature:",[79]]`
	if body != want {
		t.Errorf("body = %s; want %s", body, want)
	}

	if _, body := get(t, mux, "/api/v1.0/precipitation"); body != `[{"2017-08-23":0.45}]` {
		t.Errorf("precipitation = %s", body)
	}
	if _, body := get(t, mux, "/api/v1.0/stations"); body != `["USC00519281"]` {
		t.Errorf("stations = %s", body)
	}
}

func TestRegisterFeature_emptyDataset(t *testing.T) {
	mux := newFeature(t, "")

	for _, path := range []string{"/api/v1.0/precipitation", "/api/v1.0/stations", "/api/v1.0/tobs"} {
		code, body := get(t, mux, path)
		if code != http.StatusOK || body != `[]` {
			t.Errorf("%s = %d %s; want 200 []", path, code, body)
		}
	}
	code, body := get(t, mux, "/api/v1.0/2017-08-23")
	if code != http.StatusOK || !strings.Contains(body, "[null]") {
		t.Errorf("stats on empty dataset = %d %s", code, body)
	}
}

func TestRegisterFeature_tobsWindow(t *testing.T) {
	mux := newFeature(t, `
		INSERT INTO station (station) VALUES ('USC00519281'), ('USC00519397');
		INSERT INTO measurement (station, date, prcp, tobs) VALUES
		  ('USC00519281', '2016-08-17', NULL, 60),
		  ('USC00519281', '2016-08-18', NULL, 77),
		  ('USC00519397', '2017-01-01', NULL, 99),
		  ('USC00519281', '2017-03-01', NULL, 70),
		  ('USC00519281', '2017-08-18', NULL, 79),
		  ('USC00519397', '2017-08-23', NULL, 81);
	`)

	code, body := get(t, mux, "/api/v1.0/tobs")
	if code != http.StatusOK {
		t.Fatalf("status = %d; want 200", code)
	}
	if body != `[77,70,79]` {
		t.Errorf("tobs = %s; want [77,70,79]", body)
	}

	// Open-ended stats stop at the dataset's latest date.
	_, body = get(t, mux, "/api/v1.0/2017-08-18")
	want := `["Minimum temperature:",[79],"Maximum temperature:",[81],"Average temperature:",[80]]`
	if body != want {
		t.Errorf("stats = %s; want %s", body, want)
	}
}
