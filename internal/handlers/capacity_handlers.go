package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Sankalvax/opt/internal/services"
)

// CapacityHandlers exposes capacity analysis and transfer optimization.
type CapacityHandlers struct {
	simulation services.SimulationService
	capacity   services.CapacityService
	transfer   services.TransferService
}

func NewCapacityHandlers(simulation services.SimulationService, capacity services.CapacityService, transfer services.TransferService) *CapacityHandlers {
	return &CapacityHandlers{simulation: simulation, capacity: capacity, transfer: transfer}
}

// AnalyzeCapacityRequest represents query parameters for capacity analysis.
type AnalyzeCapacityRequest struct {
	HorizonMonths int `query:"horizon"`
}

// AnalyzeCapacity runs (or reuses) a forecast and returns the capacity
// analysis, transfer recommendations, and alerts built from it.
func (h *CapacityHandlers) AnalyzeCapacity(c echo.Context) error {
	ctx := c.Request().Context()

	var req AnalyzeCapacityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
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

	analyses := h.capacity.AnalyzeNetwork(result)
	transfers := h.transfer.Recommend(analyses)
	alerts := h.capacity.GenerateAlerts(analyses)
	productRecs := h.transfer.RecommendByProduct(result)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"run_id":                  result.RunID,
		"forecast_horizon":        req.HorizonMonths,
		"capacity_analysis":       analyses,
		"transfer_opportunities":  transfers,
		"capacity_alerts":         alerts,
		"product_recommendations": productRecs,
	})
}
