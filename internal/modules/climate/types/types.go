package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the only accepted date format, on the wire and in the store.
const DateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day or zone.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// AddDays returns d shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores dates as YYYY-MM-DD text, which compares correctly as a string
// in sqlite and casts implicitly to DATE in PostgreSQL.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan accepts TEXT dates (optionally followed by a time part), DATE columns
// and NULL, which leaves the zero Date.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		return d.scanText([]byte(v))
	case []byte:
		return d.scanText(v)
	default:
		return fmt.Errorf("scan date: unsupported type %T", src)
	}
}

func (d *Date) scanText(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > len(DateLayout) {
		b = b[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, string(b))
	if err != nil {
		return fmt.Errorf("scan date %q: %w", b, err)
	}
	*d = Date{t}
	return nil
}

type Station struct {
	ID        string   `json:"station"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Elevation *float64 `json:"elevation"`
}

type Measurement struct {
	StationID     string   `json:"station"`
	Date          Date     `json:"date"`
	Precipitation *float64 `json:"prcp"`
	Temperature   float64  `json:"tobs"`
}

// Precipitation is one (date, prcp) pair. It serializes as a single-key
// object, {"2017-08-23": 0.45}, with null for a missing reading.
type Precipitation struct {
	Date  Date
	Value *float64
}

func (p Precipitation) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]*float64{p.Date.String(): p.Value})
}

// TemperatureStats aggregates temperature observations over a date range.
type TemperatureStats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Count int64   `json:"count"`
}

// DatasetSummary describes the loaded dataset for operators.
type DatasetSummary struct {
	Stations     int64 `json:"stations"`
	Measurements int64 `json:"measurements"`
	FirstDate    Date  `json:"firstDate"`
	LatestDate   Date  `json:"latestDate"`
}
