package keeper_test

import (
	"cosmossdk.io/math"

	keepertest "github.com/paw-chain/burnoracle/testutil/keeper"
	"github.com/paw-chain/burnoracle/x/oracle/types"
)

// two reporters at neutral reputation: weights 1e8 and 2e8
func (suite *KeeperTestSuite) submitReferenceWindow() uint64 {
	feedID := suite.f.CreateFeed(suite.T(), "BTC/USD")
	suite.f.Submit(suite.T(), reporterA, feedID, 100, 1_000_000)
	suite.f.Submit(suite.T(), reporterB, feedID, 110, 2_000_000)
	return feedID
}

func (suite *KeeperTestSuite) TestFinalizeConsensus_WeightedAverage() {
	feedID := suite.submitReferenceWindow()

	suite.f.AtHeight(10)
	entry, err := suite.keeper.FinalizeConsensus(suite.ctx(), feedID, 0)
	suite.Require().NoError(err)

	requireIntEqual(suite.T(), 106, entry.Price)
	suite.Require().Equal(uint64(1), entry.Round)
	suite.Require().Equal(uint64(2), entry.ParticipantCount)
	suite.Require().Equal(int64(0), entry.WindowId)

	price, ts, err := suite.keeper.GetPrice(suite.ctx(), feedID)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), 106, price)
	suite.Require().Equal(suite.ctx().BlockTime().Unix(), ts)

	round, _, err := suite.keeper.GetConsensusRound(suite.ctx(), feedID, 0)
	suite.Require().NoError(err)
	suite.Require().True(round.Finalized)
	suite.Require().Equal(int64(10), round.FinalizedHeight)
	requireIntEqual(suite.T(), 106, round.ConsensusPrice)

	stored, found, err := suite.keeper.GetConsensusHistoryEntry(suite.ctx(), feedID, 1)
	suite.Require().NoError(err)
	suite.Require().True(found)
	requireIntEqual(suite.T(), 106, stored.Price)
}

func (suite *KeeperTestSuite) TestFinalizeConsensus_UpdatesReputation() {
	feedID := suite.submitReferenceWindow()

	suite.f.AtHeight(10)
	_, err := suite.keeper.FinalizeConsensus(suite.ctx(), feedID, 0)
	suite.Require().NoError(err)

	// |100-106| = 6 is outside the 5% band of 106 (5); |110-106| = 4 is inside
	repA, err := suite.keeper.GetOrInitReputation(suite.ctx(), reporterA)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(90), repA.Score)
	suite.Require().Zero(repA.AccurateSubmissions)

	repB, err := suite.keeper.GetOrInitReputation(suite.ctx(), reporterB)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(105), repB.Score)
	suite.Require().Equal(uint64(1), repB.AccurateSubmissions)

	multiplier, err := suite.keeper.ReputationMultiplier(suite.ctx(), reporterA)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(50), multiplier)
}

func (suite *KeeperTestSuite) TestFinalizeConsensus_AtMostOnce() {
	feedID := suite.submitReferenceWindow()

	suite.f.AtHeight(10)
	_, err := suite.keeper.FinalizeConsensus(suite.ctx(), feedID, 0)
	suite.Require().NoError(err)

	suite.f.AtHeight(11)
	_, err = suite.keeper.FinalizeConsensus(suite.ctx(), feedID, 0)
	suite.Require().ErrorIs(err, types.ErrRoundFinalized)

	feed, err := suite.keeper.GetFeed(suite.ctx(), feedID)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(1), feed.RoundCount)

	repB, err := suite.keeper.GetOrInitReputation(suite.ctx(), reporterB)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(105), repB.Score, "outcomes apply once")
}

func (suite *KeeperTestSuite) TestFinalizeConsensus_WindowStillOpen() {
	feedID := suite.submitReferenceWindow()

	for _, height := range []int64{1, 5, 9} {
		suite.f.AtHeight(height)
		_, err := suite.keeper.FinalizeConsensus(suite.ctx(), feedID, 0)
		suite.Require().ErrorIs(err, types.ErrInvalidTimestamp, "height %d", height)
	}

	feed, err := suite.keeper.GetFeed(suite.ctx(), feedID)
	suite.Require().NoError(err)
	suite.Require().Zero(feed.RoundCount)
}

func (suite *KeeperTestSuite) TestFinalizeConsensus_UnknownWindow() {
	feedID := suite.f.CreateFeed(suite.T(), "BTC/USD")
	suite.f.AtHeight(100)

	_, err := suite.keeper.FinalizeConsensus(suite.ctx(), feedID, 50)
	suite.Require().ErrorIs(err, types.ErrRoundNotFound)

	_, err = suite.keeper.FinalizeConsensus(suite.ctx(), 77, 0)
	suite.Require().ErrorIs(err, types.ErrRoundNotFound)
}

func (suite *KeeperTestSuite) TestFinalizeConsensus_AllowedWhilePaused() {
	feedID := suite.submitReferenceWindow()
	_, err := suite.keeper.ToggleEmergencyPause(suite.ctx(), keepertest.EmergencyAdmin.String())
	suite.Require().NoError(err)

	suite.f.AtHeight(10)
	entry, err := suite.keeper.FinalizeConsensus(suite.ctx(), feedID, 0)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), 106, entry.Price)
}

func (suite *KeeperTestSuite) TestConsensusHistory_AppendsPerRound() {
	feedID := suite.f.CreateFeed(suite.T(), "ETH/USD")

	prices := []int64{2000, 2100, 1950}
	for i, p := range prices {
		window := int64(i * 10)
		suite.f.AtHeight(window + 1)
		suite.f.Submit(suite.T(), reporterA, feedID, p, 1_000_000)
		suite.f.AtHeight(window + 10)
		_, err := suite.keeper.FinalizeConsensus(suite.ctx(), feedID, window)
		suite.Require().NoError(err)
	}

	history, err := suite.keeper.GetConsensusHistory(suite.ctx(), feedID)
	suite.Require().NoError(err)
	suite.Require().Len(history, len(prices))
	for i, entry := range history {
		suite.Require().Equal(uint64(i+1), entry.Round)
		suite.Require().True(entry.Price.Equal(math.NewInt(prices[i])))
	}

	price, _, err := suite.keeper.GetPrice(suite.ctx(), feedID)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), 1950, price)
}
