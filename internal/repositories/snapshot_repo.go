package repositories

import (
	"context"

	"github.com/Sankalvax/opt/internal/models"
)

// SnapshotRepository reads the persisted inventory dataset. The simulator
// always starts from the most recent snapshot.
type SnapshotRepository interface {
	Latest(ctx context.Context) (models.StartingInventory, error)
}

type snapshotRepo struct {
	db DBTX
}

func NewSnapshotRepo(db DBTX) SnapshotRepository {
	return &snapshotRepo{db: db}
}

func (r *snapshotRepo) Latest(ctx context.Context) (models.StartingInventory, error) {
	query := `
		SELECT warehouse, product, quantity
		FROM inventory_snapshots
		WHERE snapshot_date = (SELECT MAX(snapshot_date) FROM inventory_snapshots)
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	inventory := make(models.StartingInventory)
	for rows.Next() {
		var warehouse, product string
		var quantity float64
		if err := rows.Scan(&warehouse, &product, &quantity); err != nil {
			return nil, err
		}
		if inventory[warehouse] == nil {
			inventory[warehouse] = make(map[string]float64)
		}
		inventory[warehouse][product] = quantity
	}
	return inventory, rows.Err()
}
