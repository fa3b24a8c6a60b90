package keeper_test

import (
	keepertest "github.com/paw-chain/burnoracle/testutil/keeper"
	"github.com/paw-chain/burnoracle/x/oracle/types"
)

func (suite *KeeperTestSuite) TestSlashOracle_PenalizesReporter() {
	feedID := suite.submitReferenceWindow()

	rep, err := suite.keeper.SlashOracle(suite.ctx(), keepertest.Owner.String(), feedID, 0, reporterB)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(80), rep.Score)

	sub, err := suite.keeper.GetSubmission(suite.ctx(), feedID, 0, reporterB)
	suite.Require().NoError(err)
	suite.Require().True(sub.Slashed)

	var slashed bool
	for _, ev := range suite.ctx().EventManager().Events() {
		if ev.Type == types.EventTypeOracleSlash {
			slashed = true
		}
	}
	suite.Require().True(slashed)
}

func (suite *KeeperTestSuite) TestSlashOracle_DoesNotRewritePrice() {
	feedID := suite.submitReferenceWindow()

	suite.f.AtHeight(10)
	_, err := suite.keeper.FinalizeConsensus(suite.ctx(), feedID, 0)
	suite.Require().NoError(err)

	_, err = suite.keeper.SlashOracle(suite.ctx(), keepertest.Owner.String(), feedID, 0, reporterB)
	suite.Require().NoError(err)

	price, _, err := suite.keeper.GetPrice(suite.ctx(), feedID)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), 106, price)

	round, _, err := suite.keeper.GetConsensusRound(suite.ctx(), feedID, 0)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), 300_000_000, round.WeightSum)

	// accuracy reward then slash: 100 + 5 - 20
	rep, err := suite.keeper.GetOrInitReputation(suite.ctx(), reporterB)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(85), rep.Score)
}

func (suite *KeeperTestSuite) TestSlashOracle_Rejections() {
	feedID := suite.submitReferenceWindow()

	_, err := suite.keeper.SlashOracle(suite.ctx(), outsider.String(), feedID, 0, reporterA)
	suite.Require().ErrorIs(err, types.ErrUnauthorized)

	_, err = suite.keeper.SlashOracle(suite.ctx(), keepertest.EmergencyAdmin.String(), feedID, 0, reporterA)
	suite.Require().ErrorIs(err, types.ErrUnauthorized, "the emergency admin cannot slash")

	_, err = suite.keeper.SlashOracle(suite.ctx(), keepertest.Owner.String(), feedID, 0, reporterC)
	suite.Require().ErrorIs(err, types.ErrSubmissionNotFound)

	_, err = suite.keeper.SlashOracle(suite.ctx(), keepertest.Owner.String(), feedID, 10, reporterA)
	suite.Require().ErrorIs(err, types.ErrSubmissionNotFound)

	_, err = suite.keeper.SlashOracle(suite.ctx(), keepertest.Owner.String(), feedID, 0, reporterA)
	suite.Require().NoError(err)
	_, err = suite.keeper.SlashOracle(suite.ctx(), keepertest.Owner.String(), feedID, 0, reporterA)
	suite.Require().ErrorIs(err, types.ErrInvalidAmount)

	rep, err := suite.keeper.GetOrInitReputation(suite.ctx(), reporterA)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(80), rep.Score, "second slash must not apply")
}

func (suite *KeeperTestSuite) TestSlashOracle_AllowedWhilePaused() {
	feedID := suite.submitReferenceWindow()
	_, err := suite.keeper.ToggleEmergencyPause(suite.ctx(), keepertest.EmergencyAdmin.String())
	suite.Require().NoError(err)

	_, err = suite.keeper.SlashOracle(suite.ctx(), keepertest.Owner.String(), feedID, 0, reporterA)
	suite.Require().NoError(err)
}

func (suite *KeeperTestSuite) TestSlashOracle_ScoreFloor() {
	feedID := suite.f.CreateFeed(suite.T(), "BTC/USD")
	params := suite.keeper.GetParams(suite.ctx())
	rep := types.NewReputation(reporterA.String(), params)
	rep.Score = params.MinScore + 3
	suite.Require().NoError(suite.keeper.SetReputation(suite.ctx(), rep))
	suite.f.Submit(suite.T(), reporterA, feedID, 100, 1_000_000)

	got, err := suite.keeper.SlashOracle(suite.ctx(), keepertest.Owner.String(), feedID, 0, reporterA)
	suite.Require().NoError(err)
	suite.Require().Equal(params.MinScore, got.Score)
}
