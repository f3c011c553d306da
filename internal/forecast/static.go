package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Sankalvax/opt/internal/models"
)

// StaticOracle serves predictions from a fixed lookup keyed by series and
// period ("2006-01"). Series it has never heard of get ErrNoModel, which
// routes them through the fallback. Used for tests and for offline runs fed
// from pre-computed forecast files.
type StaticOracle struct {
	series map[SeriesKey]map[string]Prediction
}

func NewStaticOracle() *StaticOracle {
	return &StaticOracle{series: make(map[SeriesKey]map[string]Prediction)}
}

// Set registers a prediction for one series-period.
func (s *StaticOracle) Set(key SeriesKey, period string, p Prediction) {
	if s.series[key] == nil {
		s.series[key] = make(map[string]Prediction)
	}
	s.series[key][period] = p
}

// SetConstant registers the same point forecast for every period of a series.
// The empty period key acts as the wildcard.
func (s *StaticOracle) SetConstant(key SeriesKey, point float64) {
	s.Set(key, "", Prediction{Point: point, Lower: point, Upper: point})
}

func (s *StaticOracle) Predict(ctx context.Context, key SeriesKey, date time.Time) (Prediction, error) {
	periods, ok := s.series[key]
	if !ok {
		return Prediction{}, ErrNoModel
	}
	p, ok := periods[date.Format("2006-01")]
	if !ok {
		p, ok = periods[""]
	}
	if !ok {
		return Prediction{}, ErrNoModel
	}
	p.Source = models.ForecastSourceModel
	return p, nil
}

// staticForecastFile is the on-disk layout of a pre-computed forecast dump.
type staticForecastFile struct {
	Series []struct {
		Warehouse string             `json:"warehouse"`
		Product   string             `json:"product"`
		Flow      string             `json:"flow_type"`
		Periods   map[string]float64 `json:"periods"`
	} `json:"series"`
}

// LoadStaticOracle builds a StaticOracle from a JSON forecast file.
func LoadStaticOracle(path string) (*StaticOracle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read forecast file: %w", err)
	}
	var file staticForecastFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse forecast file: %w", err)
	}
	oracle := NewStaticOracle()
	for _, s := range file.Series {
		key := SeriesKey{Warehouse: s.Warehouse, Product: s.Product, Flow: FlowType(s.Flow)}
		for period, point := range s.Periods {
			oracle.Set(key, period, Prediction{Point: point, Lower: point * 0.8, Upper: point * 1.2})
		}
	}
	return oracle, nil
}
