package controller

import (
	"io"
	"log/slog"
	"net/http"

	"climate-server/internal/modules/climate/types"
	"climate-server/internal/modules/climate/views"
	"climate-server/internal/utils"
)

func (c *climateControllerImpl) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := views.IndexData{Routes: indexRoutes}

	// The page still renders when the dataset cannot be consulted; it only
	// loses the reference details.
	if latest, ok, err := c.reference.LatestDate(r.Context()); err != nil {
		slog.Warn("index: resolve latest date failed", "error", err)
	} else if ok {
		data.LatestDate = latest.String()
	}
	if window, ok, err := c.reference.TobsWindow(r.Context()); err != nil {
		slog.Warn("index: resolve tobs window failed", "error", err)
	} else if ok {
		data.TobsStation = window.StationID
		data.TobsStart = window.Start().String()
		data.TobsEnd = window.End.String()
	}

	utils.WriteHTML(w, http.StatusOK, func(out io.Writer) error {
		return views.RenderIndex(out, &data)
	})
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	precipitation, err := c.repository.GetPrecipitation(r.Context())
	if err != nil {
		slog.Error("precipitation: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load precipitation")
		return
	}
	utils.WriteJSON(w, http.StatusOK, precipitation)
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := c.repository.GetStationIDs(r.Context())
	if err != nil {
		slog.Error("stations: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load stations")
		return
	}
	utils.WriteJSON(w, http.StatusOK, stations)
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	window, ok, err := c.reference.TobsWindow(r.Context())
	if err != nil {
		slog.Error("tobs: resolve window failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load temperature observations")
		return
	}
	if !ok {
		utils.WriteJSON(w, http.StatusOK, []float64{})
		return
	}

	temps, err := c.repository.GetRecentTemperatures(r.Context(), window.StationID, window.End, window.Days)
	if err != nil {
		slog.Error("tobs: query failed", "station", window.StationID, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load temperature observations")
		return
	}
	utils.WriteJSON(w, http.StatusOK, temps)
}

func (c *climateControllerImpl) handleStatsFrom(w http.ResponseWriter, r *http.Request) {
	start, err := parseDatePath(r, "start")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var end *types.Date
	latest, ok, err := c.reference.LatestDate(r.Context())
	if err != nil {
		slog.Error("stats: resolve latest date failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load temperature stats")
		return
	}
	if ok {
		end = &latest
	}
	c.writeStats(w, r, start, end)
}

func (c *climateControllerImpl) handleStatsRange(w http.ResponseWriter, r *http.Request) {
	start, err := parseDatePath(r, "start")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDatePath(r, "end")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	c.writeStats(w, r, start, &end)
}

func (c *climateControllerImpl) writeStats(w http.ResponseWriter, r *http.Request, start types.Date, end *types.Date) {
	stats, err := c.repository.GetTemperatureStats(r.Context(), start, end)
	if err != nil {
		slog.Error("stats: query failed", "start", start, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load temperature stats")
		return
	}
	utils.WriteJSON(w, http.StatusOK, legacyStats(stats))
}
