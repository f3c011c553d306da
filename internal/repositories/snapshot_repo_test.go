package repositories

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type SnapshotRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    SnapshotRepository
	context context.Context
}

func (suite *SnapshotRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewSnapshotRepo(mock)
	suite.context = context.Background()
}

func (suite *SnapshotRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestSnapshotRepoTestSuite(t *testing.T) {
	suite.Run(t, new(SnapshotRepoTestSuite))
}

func (suite *SnapshotRepoTestSuite) TestLatest_Success() {
	rows := pgxmock.NewRows([]string{"warehouse", "product", "quantity"}).
		AddRow("Atlanta", "Footwear", 45000.0).
		AddRow("Atlanta", "Apparel", 30000.0).
		AddRow("Chicago", "Footwear", 60000.0)

	suite.mock.ExpectQuery(`
		SELECT warehouse, product, quantity
		FROM inventory_snapshots
		WHERE snapshot_date = \(SELECT MAX\(snapshot_date\) FROM inventory_snapshots\)
	`).WillReturnRows(rows)

	inventory, err := suite.repo.Latest(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 45000.0, inventory["Atlanta"]["Footwear"])
	assert.Equal(suite.T(), 30000.0, inventory["Atlanta"]["Apparel"])
	assert.Equal(suite.T(), 60000.0, inventory["Chicago"]["Footwear"])
	assert.Equal(suite.T(), 75000.0, inventory.Total("Atlanta"))
}

func (suite *SnapshotRepoTestSuite) TestLatest_NoSnapshots() {
	suite.mock.ExpectQuery(`
		SELECT warehouse, product, quantity
		FROM inventory_snapshots
		WHERE snapshot_date = \(SELECT MAX\(snapshot_date\) FROM inventory_snapshots\)
	`).WillReturnRows(pgxmock.NewRows([]string{"warehouse", "product", "quantity"}))

	inventory, err := suite.repo.Latest(suite.context)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), inventory)
}

func (suite *SnapshotRepoTestSuite) TestLatest_DatabaseError() {
	suite.mock.ExpectQuery(`
		SELECT warehouse, product, quantity
		FROM inventory_snapshots
		WHERE snapshot_date = \(SELECT MAX\(snapshot_date\) FROM inventory_snapshots\)
	`).WillReturnError(errors.New("database connection failed"))

	inventory, err := suite.repo.Latest(suite.context)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), inventory)
}
