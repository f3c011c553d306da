// Package forecast defines the forecast oracle capability consumed by the
// rolling inventory simulator. Model fitting lives behind the Oracle
// interface so any backend (statistical, learned, or a fixed lookup for
// tests) can be substituted.
package forecast

import (
	"context"
	"errors"
	"time"
)

// FlowType distinguishes the two forecastable flow directions of a series.
type FlowType string

const (
	FlowInflow  FlowType = "inflows"
	FlowOutflow FlowType = "outflows"
)

// SeriesKey identifies one forecastable (warehouse, product, flow) series.
type SeriesKey struct {
	Warehouse string
	Product   string
	Flow      FlowType
}

// Prediction is a non-negative point estimate with its interval bounds.
// Source records where the numbers came from so callers can tell a model
// forecast apart from a degraded fallback.
type Prediction struct {
	Point  float64
	Lower  float64
	Upper  float64
	Source string
}

// ErrNoModel is the sentinel an oracle returns when it has no trained model
// for a series. It is a data-quality signal, not a failure: callers fall back
// to the historical mean.
var ErrNoModel = errors.New("no forecast model for series")

// Oracle produces flow predictions for a series at a target date. Predictions
// are pure values with no side effects.
type Oracle interface {
	Predict(ctx context.Context, key SeriesKey, date time.Time) (Prediction, error)
}

// NoModel is an Oracle with no models at all. Wrapped in a FallbackOracle it
// yields a pure historical-mean projection, which is how the service runs
// when no forecasting backend is attached.
type NoModel struct{}

func (NoModel) Predict(ctx context.Context, key SeriesKey, date time.Time) (Prediction, error) {
	return Prediction{}, ErrNoModel
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
