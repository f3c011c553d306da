package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Sankalvax/opt/internal/services"
)

const (
	defaultHorizonMonths = 12
	maxHorizonMonths     = 36
)

// ForecastHandlers triggers rolling simulation runs over HTTP.
type ForecastHandlers struct {
	simulation services.SimulationService
	archive    services.ArchiveService
}

func NewForecastHandlers(simulation services.SimulationService, archive services.ArchiveService) *ForecastHandlers {
	return &ForecastHandlers{simulation: simulation, archive: archive}
}

// RunForecastRequest represents the forecast run request payload.
type RunForecastRequest struct {
	HorizonMonths int `json:"horizon_months" query:"horizon"`
}

// RunForecast handles generating a rolling inventory forecast.
func (h *ForecastHandlers) RunForecast(c echo.Context) error {
	ctx := c.Request().Context()

	var req RunForecastRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if req.HorizonMonths == 0 {
		req.HorizonMonths = defaultHorizonMonths
	}
	if req.HorizonMonths < 1 || req.HorizonMonths > maxHorizonMonths {
		return echo.NewHTTPError(http.StatusBadRequest, "Horizon must be between 1 and 36 months")
	}

	result, err := h.simulation.Run(ctx, req.HorizonMonths)
	if err != nil {
		if errors.Is(err, services.ErrUnknownKey) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate forecast")
	}

	if h.archive != nil {
		if archiveErr := h.archive.ArchiveRun(ctx, "forecast", result.RunID, result); archiveErr != nil {
			log.Printf("Failed to archive forecast run %s: %v", result.RunID, archiveErr)
		}
	}

	return c.JSON(http.StatusOK, result)
}
