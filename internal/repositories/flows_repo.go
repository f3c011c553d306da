package repositories

import (
	"context"

	"github.com/Sankalvax/opt/internal/forecast"
)

// FlowRepository reads the historical inflow/outflow series the fallback
// oracle trains its means on.
type FlowRepository interface {
	History(ctx context.Context) (forecast.FlowHistory, error)
}

type flowRepo struct {
	db DBTX
}

func NewFlowRepo(db DBTX) FlowRepository {
	return &flowRepo{db: db}
}

func (r *flowRepo) History(ctx context.Context) (forecast.FlowHistory, error) {
	query := `
		SELECT warehouse, product, flow_type, quantity
		FROM flow_history
		ORDER BY warehouse, product, flow_type, month
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make(forecast.FlowHistory)
	for rows.Next() {
		var warehouse, product, flowType string
		var quantity float64
		if err := rows.Scan(&warehouse, &product, &flowType, &quantity); err != nil {
			return nil, err
		}
		key := forecast.SeriesKey{Warehouse: warehouse, Product: product, Flow: forecast.FlowType(flowType)}
		history.Append(key, quantity)
	}
	return history, rows.Err()
}
