package keeper_test

import (
	keepertest "github.com/paw-chain/burnoracle/testutil/keeper"
	"github.com/paw-chain/burnoracle/x/oracle/types"
)

func (suite *KeeperTestSuite) TestCreateFeed_SequentialIDs() {
	first := suite.f.CreateFeed(suite.T(), "BTC/USD")
	second := suite.f.CreateFeed(suite.T(), "ETH/USD")
	suite.Require().Equal(uint64(1), first)
	suite.Require().Equal(uint64(2), second)

	feed, err := suite.keeper.GetFeed(suite.ctx(), second)
	suite.Require().NoError(err)
	suite.Require().Equal("ETH/USD", feed.Name)
	suite.Require().True(feed.Active)
	suite.Require().Zero(feed.RoundCount)
	suite.Require().Zero(feed.LatestTimestamp)
	requireIntEqual(suite.T(), 0, feed.LatestPrice)

	state, err := suite.keeper.GetAdminState(suite.ctx())
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(2), state.FeedCount)

	feeds, err := suite.keeper.GetAllFeeds(suite.ctx())
	suite.Require().NoError(err)
	suite.Require().Len(feeds, 2)
	suite.Require().Equal(first, feeds[0].Id)
}

func (suite *KeeperTestSuite) TestCreateFeed_EmitsEvent() {
	suite.f.CreateFeed(suite.T(), "SOL/USD")

	events := suite.ctx().EventManager().Events()
	suite.Require().NotEmpty(events)
	last := events[len(events)-1]
	suite.Require().Equal(types.EventTypeFeedCreated, last.Type)
}

func (suite *KeeperTestSuite) TestCreateFeed_Rejections() {
	_, err := suite.keeper.CreateFeed(suite.ctx(), outsider.String(), "BTC/USD")
	suite.Require().ErrorIs(err, types.ErrUnauthorized)

	_, err = suite.keeper.CreateFeed(suite.ctx(), keepertest.Owner.String(), "")
	suite.Require().ErrorIs(err, types.ErrInvalidFeedName)

	_, err = suite.keeper.CreateFeed(suite.ctx(), keepertest.Owner.String(), string(make([]byte, types.MaxFeedNameLength+1)))
	suite.Require().ErrorIs(err, types.ErrInvalidFeedName)

	state, err := suite.keeper.GetAdminState(suite.ctx())
	suite.Require().NoError(err)
	suite.Require().Zero(state.FeedCount, "rejected creations must not consume ids")
}

func (suite *KeeperTestSuite) TestCreateFeed_PausedBeforeOwnerCheck() {
	_, err := suite.keeper.ToggleEmergencyPause(suite.ctx(), keepertest.EmergencyAdmin.String())
	suite.Require().NoError(err)

	_, err = suite.keeper.CreateFeed(suite.ctx(), keepertest.Owner.String(), "BTC/USD")
	suite.Require().ErrorIs(err, types.ErrCircuitBreakerActive)

	_, err = suite.keeper.CreateFeed(suite.ctx(), outsider.String(), "BTC/USD")
	suite.Require().ErrorIs(err, types.ErrCircuitBreakerActive)
}

func (suite *KeeperTestSuite) TestGetPrice_NeverFinalized() {
	id := suite.f.CreateFeed(suite.T(), "BTC/USD")

	price, ts, err := suite.keeper.GetPrice(suite.ctx(), id)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), 0, price)
	suite.Require().Zero(ts)

	_, _, err = suite.keeper.GetPrice(suite.ctx(), 42)
	suite.Require().ErrorIs(err, types.ErrFeedNotFound)
}

func (suite *KeeperTestSuite) TestOracleKeeperV1_ConsumerView() {
	var reader types.OracleKeeperV1 = suite.keeper

	feedID := suite.submitReferenceWindow()
	suite.f.AtHeight(10)
	_, err := suite.keeper.FinalizeConsensus(suite.ctx(), feedID, 0)
	suite.Require().NoError(err)

	price, ts, err := reader.GetPrice(suite.ctx(), feedID)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), 106, price)
	suite.Require().Equal(suite.ctx().BlockTime().Unix(), ts)
	suite.Require().False(reader.IsPaused(suite.ctx()))

	_, err = suite.keeper.ToggleEmergencyPause(suite.ctx(), keepertest.EmergencyAdmin.String())
	suite.Require().NoError(err)
	suite.Require().True(reader.IsPaused(suite.ctx()))
}
