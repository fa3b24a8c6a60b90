package keeper_test

import (
	"cosmossdk.io/math"

	keepertest "github.com/paw-chain/burnoracle/testutil/keeper"
	"github.com/paw-chain/burnoracle/x/oracle/types"
)

func (suite *KeeperTestSuite) TestToggleEmergencyPause() {
	paused, err := suite.keeper.ToggleEmergencyPause(suite.ctx(), keepertest.EmergencyAdmin.String())
	suite.Require().NoError(err)
	suite.Require().True(paused)
	suite.Require().True(suite.keeper.IsPaused(suite.ctx()))
	suite.Require().ErrorIs(suite.keeper.CheckCircuitBreaker(suite.ctx()), types.ErrCircuitBreakerActive)

	paused, err = suite.keeper.ToggleEmergencyPause(suite.ctx(), keepertest.EmergencyAdmin.String())
	suite.Require().NoError(err)
	suite.Require().False(paused)
	suite.Require().NoError(suite.keeper.CheckCircuitBreaker(suite.ctx()))
}

func (suite *KeeperTestSuite) TestToggleEmergencyPause_OnlyEmergencyAdmin() {
	_, err := suite.keeper.ToggleEmergencyPause(suite.ctx(), keepertest.Owner.String())
	suite.Require().ErrorIs(err, types.ErrUnauthorized)

	_, err = suite.keeper.ToggleEmergencyPause(suite.ctx(), outsider.String())
	suite.Require().ErrorIs(err, types.ErrUnauthorized)

	suite.Require().False(suite.keeper.IsPaused(suite.ctx()))
}

func (suite *KeeperTestSuite) TestIsPaused_UnreadableAdminStateFailsClosed() {
	suite.Require().False(suite.keeper.IsPaused(suite.ctx()))

	store := suite.ctx().KVStore(suite.f.App.GetKey(types.StoreKey))
	store.Set(types.AdminStateKey, []byte("{not json"))

	suite.Require().True(suite.keeper.IsPaused(suite.ctx()))
	suite.Require().ErrorIs(suite.keeper.CheckCircuitBreaker(suite.ctx()), types.ErrStateCorruption)
}

func (suite *KeeperTestSuite) TestPause_BlocksWritesKeepsReads() {
	feedID := suite.submitReferenceWindow()
	_, err := suite.keeper.ToggleEmergencyPause(suite.ctx(), keepertest.EmergencyAdmin.String())
	suite.Require().NoError(err)

	suite.f.Fund(suite.T(), reporterC, 1_000_000)
	_, err = suite.keeper.SubmitFeedData(suite.ctx(), reporterC, feedID, math.NewInt(100), math.NewInt(1_000_000))
	suite.Require().ErrorIs(err, types.ErrCircuitBreakerActive)
	requireIntEqual(suite.T(), 1_000_000, suite.f.Balance(reporterC))

	_, err = suite.keeper.CreateFeed(suite.ctx(), keepertest.Owner.String(), "ETH/USD")
	suite.Require().ErrorIs(err, types.ErrCircuitBreakerActive)

	_, _, err = suite.keeper.GetPrice(suite.ctx(), feedID)
	suite.Require().NoError(err)
	_, err = suite.keeper.GetSubmission(suite.ctx(), feedID, 0, reporterA)
	suite.Require().NoError(err)
	status, err := suite.keeper.GetContractStatus(suite.ctx())
	suite.Require().NoError(err)
	suite.Require().True(status.Paused)
}

func (suite *KeeperTestSuite) TestSetEmergencyAdmin() {
	newAdmin := keepertest.TestAddr(0xB0)

	err := suite.keeper.SetEmergencyAdmin(suite.ctx(), keepertest.EmergencyAdmin.String(), newAdmin.String())
	suite.Require().ErrorIs(err, types.ErrUnauthorized)

	err = suite.keeper.SetEmergencyAdmin(suite.ctx(), keepertest.Owner.String(), "not-an-address")
	suite.Require().ErrorIs(err, types.ErrInvalidAddress)

	suite.Require().NoError(suite.keeper.SetEmergencyAdmin(suite.ctx(), keepertest.Owner.String(), newAdmin.String()))

	_, err = suite.keeper.ToggleEmergencyPause(suite.ctx(), keepertest.EmergencyAdmin.String())
	suite.Require().ErrorIs(err, types.ErrUnauthorized, "the previous admin lost the role")

	paused, err := suite.keeper.ToggleEmergencyPause(suite.ctx(), newAdmin.String())
	suite.Require().NoError(err)
	suite.Require().True(paused)

	// rotation is not gated by the pause
	suite.Require().NoError(suite.keeper.SetEmergencyAdmin(suite.ctx(), keepertest.Owner.String(), keepertest.EmergencyAdmin.String()))
}

func (suite *KeeperTestSuite) TestGetContractStatus() {
	suite.f.CreateFeed(suite.T(), "BTC/USD")
	suite.f.AtHeight(27)

	status, err := suite.keeper.GetContractStatus(suite.ctx())
	suite.Require().NoError(err)
	suite.Require().Equal(keepertest.Owner.String(), status.Owner)
	suite.Require().Equal(uint64(1), status.FeedCount)
	suite.Require().Equal(int64(27), status.BlockHeight)
	suite.Require().Equal(int64(20), status.CurrentWindow)
	suite.Require().Equal(int64(10), status.Params.ConsensusWindow)
}
