package keeper_test

import (
	"github.com/prometheus/client_golang/prometheus/testutil"

	keepertest "github.com/paw-chain/burnoracle/testutil/keeper"
	"github.com/paw-chain/burnoracle/x/oracle/keeper"
)

func (suite *KeeperTestSuite) TestRefreshMetrics() {
	feedID := suite.submitReferenceWindow()
	suite.f.AtHeight(10)
	_, err := suite.keeper.FinalizeConsensus(suite.ctx(), feedID, 0)
	suite.Require().NoError(err)
	_, err = suite.keeper.ToggleEmergencyPause(suite.ctx(), keepertest.EmergencyAdmin.String())
	suite.Require().NoError(err)

	m := keeper.GetOracleMetrics()
	m.Paused.Set(0)
	m.FeedsTracked.Set(0)

	suite.Require().NoError(suite.keeper.RefreshMetrics(suite.ctx()))

	suite.Require().Equal(1.0, testutil.ToFloat64(m.Paused))
	suite.Require().Equal(1.0, testutil.ToFloat64(m.FeedsTracked))
	suite.Require().Equal(106.0, testutil.ToFloat64(m.ConsensusPrice.WithLabelValues("BTC/USD")))
	suite.Require().Equal(105.0, testutil.ToFloat64(m.ReporterReputation.WithLabelValues(reporterB.String())))
}
