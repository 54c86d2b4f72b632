package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"climate-server/internal/modules/climate/types"
)

//go:embed sql/get-precipitation.sql
var getPrecipitationSQL string

//go:embed sql/get-station-ids.sql
var getStationIDsSQL string

//go:embed sql/get-recent-temperatures.sql
var getRecentTemperaturesSQL string

//go:embed sql/get-temperature-stats-from.sql
var getTemperatureStatsFromSQL string

//go:embed sql/get-temperature-stats-range.sql
var getTemperatureStatsRangeSQL string

//go:embed sql/get-latest-date.sql
var getLatestDateSQL string

//go:embed sql/get-station-latest-date.sql
var getStationLatestDateSQL string

//go:embed sql/get-most-active-station.sql
var getMostActiveStationSQL string

//go:embed sql/get-dataset-summary.sql
var getDatasetSummarySQL string

//go:embed sql/check-station-columns.sql
var checkStationColumnsSQL string

//go:embed sql/check-measurement-columns.sql
var checkMeasurementColumnsSQL string

// ErrSchemaMismatch wraps every ValidateSchema failure.
var ErrSchemaMismatch = errors.New("dataset schema mismatch")

type ClimateRepository interface {
	GetPrecipitation(ctx context.Context) ([]types.Precipitation, error)
	GetStationIDs(ctx context.Context) ([]string, error)
	GetRecentTemperatures(ctx context.Context, stationID string, windowEnd types.Date, windowDays int) ([]float64, error)
	// GetTemperatureStats returns nil stats when no observation matches.
	// A nil end leaves the range open-ended.
	GetTemperatureStats(ctx context.Context, start types.Date, end *types.Date) (*types.TemperatureStats, error)

	GetLatestDate(ctx context.Context) (types.Date, bool, error)
	GetStationLatestDate(ctx context.Context, stationID string) (types.Date, bool, error)
	GetMostActiveStation(ctx context.Context) (string, bool, error)
	GetSummary(ctx context.Context) (types.DatasetSummary, error)

	ValidateSchema(ctx context.Context) error
	Ping(ctx context.Context) error
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ClimateRepository {
	return &repositoryImpl{db: db}
}

// withConn runs fn on a dedicated pooled connection and always hands it back.
func (r *repositoryImpl) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Error("release connection", "error", err)
		}
	}()
	return fn(conn)
}

func (r *repositoryImpl) GetPrecipitation(ctx context.Context) ([]types.Precipitation, error) {
	out := []types.Precipitation{}
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, getPrecipitationSQL)
		if err != nil {
			return err
		}
		defer closeRows(rows, "precipitation")
		for rows.Next() {
			var p types.Precipitation
			var prcp sql.NullFloat64
			if err := rows.Scan(&p.Date, &prcp); err != nil {
				return err
			}
			if prcp.Valid {
				v := prcp.Float64
				p.Value = &v
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("get precipitation: %w", err)
	}
	return out, nil
}

func (r *repositoryImpl) GetStationIDs(ctx context.Context) ([]string, error) {
	out := []string{}
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, getStationIDsSQL)
		if err != nil {
			return err
		}
		defer closeRows(rows, "stations")
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return err
			}
			out = append(out, id)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("get stations: %w", err)
	}
	return out, nil
}

func (r *repositoryImpl) GetRecentTemperatures(ctx context.Context, stationID string, windowEnd types.Date, windowDays int) ([]float64, error) {
	if windowDays < 0 {
		return nil, fmt.Errorf("get recent temperatures: negative window %d", windowDays)
	}
	windowStart := windowEnd.AddDays(-windowDays)

	out := []float64{}
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, getRecentTemperaturesSQL, stationID, windowStart, windowEnd)
		if err != nil {
			return err
		}
		defer closeRows(rows, "recent temperatures")
		for rows.Next() {
			var tobs float64
			if err := rows.Scan(&tobs); err != nil {
				return err
			}
			out = append(out, tobs)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("get recent temperatures for %s: %w", stationID, err)
	}
	return out, nil
}

func (r *repositoryImpl) GetTemperatureStats(ctx context.Context, start types.Date, end *types.Date) (*types.TemperatureStats, error) {
	query, args := getTemperatureStatsFromSQL, []any{start}
	if end != nil {
		query, args = getTemperatureStatsRangeSQL, []any{start, *end}
	}

	var (
		minT, maxT, avgT sql.NullFloat64
		count            int64
	)
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, query, args...).Scan(&minT, &maxT, &avgT, &count)
	})
	if err != nil {
		return nil, fmt.Errorf("get temperature stats: %w", err)
	}
	if count == 0 || !minT.Valid || !maxT.Valid || !avgT.Valid {
		return nil, nil
	}
	return &types.TemperatureStats{
		Min:   minT.Float64,
		Max:   maxT.Float64,
		Avg:   avgT.Float64,
		Count: count,
	}, nil
}

func (r *repositoryImpl) GetLatestDate(ctx context.Context) (types.Date, bool, error) {
	var d types.Date
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, getLatestDateSQL).Scan(&d)
	})
	if err != nil {
		return types.Date{}, false, fmt.Errorf("get latest date: %w", err)
	}
	return d, !d.IsZero(), nil
}

func (r *repositoryImpl) GetStationLatestDate(ctx context.Context, stationID string) (types.Date, bool, error) {
	var d types.Date
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, getStationLatestDateSQL, stationID).Scan(&d)
	})
	if err != nil {
		return types.Date{}, false, fmt.Errorf("get latest date for %s: %w", stationID, err)
	}
	return d, !d.IsZero(), nil
}

func (r *repositoryImpl) GetMostActiveStation(ctx context.Context) (string, bool, error) {
	var (
		id string
		n  int64
	)
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, getMostActiveStationSQL).Scan(&id, &n)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get most active station: %w", err)
	}
	return id, true, nil
}

func (r *repositoryImpl) GetSummary(ctx context.Context) (types.DatasetSummary, error) {
	var s types.DatasetSummary
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, getDatasetSummarySQL).Scan(&s.Stations, &s.Measurements, &s.FirstDate, &s.LatestDate)
	})
	if err != nil {
		return types.DatasetSummary{}, fmt.Errorf("get dataset summary: %w", err)
	}
	return s, nil
}

// ValidateSchema checks that both tables expose the columns this service reads
// and that a sample row of each scans into the Go types.
func (r *repositoryImpl) ValidateSchema(ctx context.Context) error {
	return r.withConn(ctx, func(conn *sql.Conn) error {
		var st types.Station
		var id int64
		err := conn.QueryRowContext(ctx, checkStationColumnsSQL).
			Scan(&id, &st.ID, &st.Name, &st.Latitude, &st.Longitude, &st.Elevation)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: station: %w", ErrSchemaMismatch, err)
		}

		var m types.Measurement
		err = conn.QueryRowContext(ctx, checkMeasurementColumnsSQL).
			Scan(&id, &m.StationID, &m.Date, &m.Precipitation, &m.Temperature)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: measurement: %w", ErrSchemaMismatch, err)
		}
		return nil
	})
}

func (r *repositoryImpl) Ping(ctx context.Context) error {
	return r.withConn(ctx, func(conn *sql.Conn) error {
		var ok int
		if err := conn.QueryRowContext(ctx, `SELECT 1`).Scan(&ok); err != nil {
			return err
		}
		if ok != 1 {
			return errors.New("unexpected ping result")
		}
		return nil
	})
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Error("close "+what+" rows", "error", err)
	}
}
