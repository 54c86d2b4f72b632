package controller

import (
	"net/http"

	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/service"
)

const apiPrefix = "/api/v1.0"

type ClimateController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type climateControllerImpl struct {
	repository repository.ClimateRepository
	reference  service.Reference
}

func NewClimateController(repository repository.ClimateRepository, reference service.Reference) ClimateController {
	return &climateControllerImpl{repository: repository, reference: reference}
}

func (c *climateControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleIndex)
	mux.HandleFunc("GET "+apiPrefix+"/precipitation", c.handlePrecipitation)
	mux.HandleFunc("GET "+apiPrefix+"/stations", c.handleStations)
	mux.HandleFunc("GET "+apiPrefix+"/tobs", c.handleTobs)
	mux.HandleFunc("GET "+apiPrefix+"/{start}", c.handleStatsFrom)
	mux.HandleFunc("GET "+apiPrefix+"/{start}/{end}", c.handleStatsRange)
}
