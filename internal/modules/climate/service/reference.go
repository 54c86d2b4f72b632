package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"climate-server/internal/config"
	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/types"
)

const defaultTobsWindowDays = 365

// TobsWindow is the station and inclusive date window served by /tobs.
type TobsWindow struct {
	StationID string
	End       types.Date
	Days      int
}

func (w TobsWindow) Start() types.Date {
	return w.End.AddDays(-w.Days)
}

// Reference resolves the dataset-relative values the API is anchored to.
// The bool results are false when the dataset has nothing to anchor on.
type Reference interface {
	LatestDate(ctx context.Context) (types.Date, bool, error)
	TobsWindow(ctx context.Context) (TobsWindow, bool, error)
}

type referenceImpl struct {
	repository repository.ClimateRepository
	pinned     config.Reference

	// The dataset is immutable while the process runs, so successful lookups
	// are kept for its lifetime.
	mu     sync.Mutex
	latest *types.Date
	window *TobsWindow
}

func NewReference(repository repository.ClimateRepository, pinned config.Reference) Reference {
	if pinned.TobsWindowDays <= 0 {
		pinned.TobsWindowDays = defaultTobsWindowDays
	}
	return &referenceImpl{repository: repository, pinned: pinned}
}

func (r *referenceImpl) LatestDate(ctx context.Context) (types.Date, bool, error) {
	if !r.pinned.LatestDate.IsZero() {
		return types.NewDate(r.pinned.LatestDate), true, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest != nil {
		return *r.latest, true, nil
	}

	d, ok, err := r.repository.GetLatestDate(ctx)
	if err != nil {
		return types.Date{}, false, fmt.Errorf("resolve latest date: %w", err)
	}
	if !ok {
		return types.Date{}, false, nil
	}
	r.latest = &d
	slog.Debug("resolved latest date", "date", d)
	return d, true, nil
}

func (r *referenceImpl) TobsWindow(ctx context.Context) (TobsWindow, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.window != nil {
		return *r.window, true, nil
	}

	stationID := r.pinned.TobsStation
	if stationID == "" {
		id, ok, err := r.repository.GetMostActiveStation(ctx)
		if err != nil {
			return TobsWindow{}, false, fmt.Errorf("resolve tobs station: %w", err)
		}
		if !ok {
			return TobsWindow{}, false, nil
		}
		stationID = id
	}

	end := types.NewDate(r.pinned.TobsEndDate)
	if end.IsZero() {
		d, ok, err := r.repository.GetStationLatestDate(ctx, stationID)
		if err != nil {
			return TobsWindow{}, false, fmt.Errorf("resolve tobs window end: %w", err)
		}
		if !ok {
			return TobsWindow{}, false, nil
		}
		end = d
	}

	w := TobsWindow{StationID: stationID, End: end, Days: r.pinned.TobsWindowDays}
	r.window = &w
	slog.Debug("resolved tobs window", "station", w.StationID, "start", w.Start(), "end", w.End)
	return w, true, nil
}
