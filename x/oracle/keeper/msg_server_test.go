package keeper_test

import (
	"cosmossdk.io/math"

	keepertest "github.com/paw-chain/burnoracle/testutil/keeper"
	"github.com/paw-chain/burnoracle/x/oracle/keeper"
	"github.com/paw-chain/burnoracle/x/oracle/types"
)

func (suite *KeeperTestSuite) TestMsgServer_Lifecycle() {
	ms := keeper.NewMsgServerImpl(*suite.keeper)
	owner := keepertest.Owner.String()

	created, err := ms.CreateFeed(suite.ctx(), types.NewMsgCreateFeed(owner, "BTC/USD"))
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(1), created.FeedId)

	suite.f.Fund(suite.T(), reporterA, 1_000_000)
	submitted, err := ms.SubmitFeedData(suite.ctx(), types.NewMsgSubmitFeedData(
		reporterA.String(), created.FeedId, math.NewInt(250), math.NewInt(1_000_000),
	))
	suite.Require().NoError(err)
	suite.Require().Equal(int64(0), submitted.WindowId)
	requireIntEqual(suite.T(), 100_000_000, submitted.Weight)

	suite.f.AtHeight(10)
	finalized, err := ms.FinalizeConsensus(suite.ctx(), types.NewMsgFinalizeConsensus(reporterB.String(), created.FeedId, 0))
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), 250, finalized.ConsensusPrice)
	suite.Require().Equal(uint64(1), finalized.Round)

	slashed, err := ms.SlashOracle(suite.ctx(), types.NewMsgSlashOracle(owner, created.FeedId, 0, reporterA.String()))
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(85), slashed.Score)

	toggled, err := ms.ToggleEmergencyPause(suite.ctx(), types.NewMsgToggleEmergencyPause(keepertest.EmergencyAdmin.String()))
	suite.Require().NoError(err)
	suite.Require().True(toggled.Paused)

	_, err = ms.SetEmergencyAdmin(suite.ctx(), types.NewMsgSetEmergencyAdmin(owner, reporterB.String()))
	suite.Require().NoError(err)
	state, err := suite.keeper.GetAdminState(suite.ctx())
	suite.Require().NoError(err)
	suite.Require().Equal(reporterB.String(), state.EmergencyAdmin)
}

func (suite *KeeperTestSuite) TestMsgServer_ValidateBasicRunsFirst() {
	ms := keeper.NewMsgServerImpl(*suite.keeper)

	_, err := ms.CreateFeed(suite.ctx(), types.NewMsgCreateFeed("garbage", "BTC/USD"))
	suite.Require().ErrorIs(err, types.ErrInvalidAddress)

	_, err = ms.SubmitFeedData(suite.ctx(), &types.MsgSubmitFeedData{Reporter: reporterA.String(), FeedId: 1})
	suite.Require().ErrorIs(err, types.ErrInvalidAmount)

	_, err = ms.FinalizeConsensus(suite.ctx(), types.NewMsgFinalizeConsensus(reporterA.String(), 1, -1))
	suite.Require().ErrorIs(err, types.ErrInvalidTimestamp)

	_, err = ms.SlashOracle(suite.ctx(), types.NewMsgSlashOracle(keepertest.Owner.String(), 1, 0, "nobody"))
	suite.Require().ErrorIs(err, types.ErrInvalidAddress)
}
