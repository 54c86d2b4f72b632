package controller

import (
	"net/http"

	"climate-server/internal/modules/climate/types"
	"climate-server/internal/modules/climate/views"
)

var indexRoutes = []views.Route{
	{
		Path:        apiPrefix + "/precipitation",
		Href:        apiPrefix + "/precipitation",
		Description: "Return precipitation measurements for all dates.",
	},
	{
		Path:        apiPrefix + "/stations",
		Href:        apiPrefix + "/stations",
		Description: "Return list of stations.",
	},
	{
		Path:        apiPrefix + "/tobs",
		Href:        apiPrefix + "/tobs",
		Description: "Return temperature observations for the last year from the most active station.",
	},
	{
		Path:        apiPrefix + "/<start_date>",
		Description: "Return minimum, maximum and average temperature for all dates between the start date and the most recent date.",
	},
	{
		Path:        apiPrefix + "/<start_date>/<end_date>",
		Description: "Return minimum, maximum and average temperature for all dates in the selected range.",
	},
}

// parseDatePath reads a YYYY-MM-DD path segment.
func parseDatePath(r *http.Request, name string) (types.Date, error) {
	return types.ParseDate(r.PathValue(name))
}

// legacyStats renders stats in the array shape published clients depend on:
// ["Minimum temperature:", [min], "Maximum temperature:", [max], "Average temperature:", [avg]].
// A nil stats value yields [null] for each figure.
func legacyStats(stats *types.TemperatureStats) []any {
	var minT, maxT, avgT any
	if stats != nil {
		minT, maxT, avgT = stats.Min, stats.Max, stats.Avg
	}
	return []any{
		"Minimum temperature:", []any{minT},
		"Maximum temperature:", []any{maxT},
		"Average temperature:", []any{avgT},
	}
}
