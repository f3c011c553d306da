package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Sankalvax/opt/internal/models"
	"github.com/Sankalvax/opt/internal/services"
)

// ScenarioHandlers runs what-if scenarios against the current baseline.
type ScenarioHandlers struct {
	simulation services.SimulationService
	capacity   services.CapacityService
	scenario   services.ScenarioService
	archive    services.ArchiveService
}

func NewScenarioHandlers(simulation services.SimulationService, capacity services.CapacityService, scenario services.ScenarioService, archive services.ArchiveService) *ScenarioHandlers {
	return &ScenarioHandlers{simulation: simulation, capacity: capacity, scenario: scenario, archive: archive}
}

// RunScenarioRequest represents the scenario request payload.
type RunScenarioRequest struct {
	HorizonMonths int                   `json:"horizon_months"`
	Scenario      models.ScenarioConfig `json:"scenario"`
}

// RunScenario builds the baseline analysis, applies the scenario, and
// returns the comparison with its impact summary.
func (h *ScenarioHandlers) RunScenario(c echo.Context) error {
	ctx := c.Request().Context()

	var req RunScenarioRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid scenario payload")
	}
	if req.Scenario.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Scenario name is required")
	}
	if req.HorizonMonths == 0 {
		req.HorizonMonths = defaultHorizonMonths
	}
	if req.HorizonMonths < 1 || req.HorizonMonths > maxHorizonMonths {
		return echo.NewHTTPError(http.StatusBadRequest, "Horizon must be between 1 and 36 months")
	}

	forecast, err := h.simulation.Run(ctx, req.HorizonMonths)
	if err != nil {
		if errors.Is(err, services.ErrUnknownKey) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate baseline forecast")
	}

	baseline := h.capacity.AnalyzeNetwork(forecast)
	result, err := h.scenario.Run(baseline, &req.Scenario)
	if err != nil {
		if errors.Is(err, services.ErrUnknownKey) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if h.archive != nil {
		if archiveErr := h.archive.ArchiveRun(ctx, "scenario", result.RunID, result); archiveErr != nil {
			log.Printf("Failed to archive scenario run %s: %v", result.RunID, archiveErr)
		}
	}

	return c.JSON(http.StatusOK, result)
}
