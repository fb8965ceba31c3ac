package account

import (
	"adbridge/internal/db"
	"adbridge/internal/db/accounttest"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

type testSuite struct {
	accounttest.RepositorySuite
	pool *pgxpool.Pool
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool(suite.T())
	suite.Repo = NewPgxRepository(suite.pool)
}

func (suite *testSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxAccountRepository(t *testing.T) {
	suite.Run(t, new(testSuite))
}
