package climate

import (
	"database/sql"
	"net/http"

	"climate-server/internal/config"
	"climate-server/internal/modules/climate/controller"
	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/service"
)

func RegisterFeature(mux *http.ServeMux, db *sql.DB, pinned config.Reference) {
	climateRepository := repository.NewRepository(db)
	reference := service.NewReference(climateRepository, pinned)
	climateController := controller.NewClimateController(climateRepository, reference)
	climateController.RegisterRoutes(mux)
}
