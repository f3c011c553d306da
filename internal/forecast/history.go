package forecast

import (
	"context"
	"errors"
	"time"

	"github.com/Sankalvax/opt/internal/models"
)

// FlowHistory holds each series' historical monthly quantities, the training
// data the mean fallback is computed from.
type FlowHistory map[SeriesKey][]float64

// Append records one more monthly observation for a series.
func (h FlowHistory) Append(key SeriesKey, quantity float64) {
	h[key] = append(h[key], quantity)
}

// Mean returns the historical mean of a series, or false when no history
// exists.
func (h FlowHistory) Mean(key SeriesKey) (float64, bool) {
	values := h[key]
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// Fallback interval bounds applied to a historical-mean prediction.
const (
	fallbackLowerFactor = 0.8
	fallbackUpperFactor = 1.2
)

// FallbackOracle wraps a primary oracle with the historical-mean fallback.
// When the primary reports ErrNoModel the series' training mean is used
// instead; when no history exists either, the series is projected as zero.
// Both cases are degraded-but-valid results, not errors. All predictions are
// clamped non-negative — flows cannot be negative in this domain.
type FallbackOracle struct {
	primary Oracle
	history FlowHistory
}

func NewFallbackOracle(primary Oracle, history FlowHistory) *FallbackOracle {
	return &FallbackOracle{primary: primary, history: history}
}

func (f *FallbackOracle) Predict(ctx context.Context, key SeriesKey, date time.Time) (Prediction, error) {
	p, err := f.primary.Predict(ctx, key, date)
	if err == nil {
		if p.Source == "" {
			p.Source = models.ForecastSourceModel
		}
		p.Point = clamp(p.Point)
		p.Lower = clamp(p.Lower)
		p.Upper = clamp(p.Upper)
		return p, nil
	}
	if !errors.Is(err, ErrNoModel) {
		return Prediction{}, err
	}
	mean, ok := f.history.Mean(key)
	if !ok {
		return Prediction{Source: models.ForecastSourceNone}, nil
	}
	mean = clamp(mean)
	return Prediction{
		Point:  mean,
		Lower:  mean * fallbackLowerFactor,
		Upper:  mean * fallbackUpperFactor,
		Source: models.ForecastSourceHistoricalMean,
	}, nil
}
