package keeper_test

import (
	"github.com/cosmos/cosmos-sdk/types/query"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	keepertest "github.com/paw-chain/burnoracle/testutil/keeper"
	"github.com/paw-chain/burnoracle/x/oracle/keeper"
	"github.com/paw-chain/burnoracle/x/oracle/types"
)

func (suite *KeeperTestSuite) queryServer() types.QueryServer {
	return keeper.NewQueryServerImpl(*suite.keeper)
}

func (suite *KeeperTestSuite) requireCode(err error, code codes.Code) {
	suite.Require().Error(err)
	st, ok := status.FromError(err)
	suite.Require().True(ok, "expected a gRPC status error, got %v", err)
	suite.Require().Equal(code, st.Code(), st.Message())
}

func (suite *KeeperTestSuite) TestQueryServer_NilRequests() {
	qs := suite.queryServer()
	ctx := suite.ctx()

	_, err := qs.Price(ctx, nil)
	suite.requireCode(err, codes.InvalidArgument)
	_, err = qs.FeedInfo(ctx, nil)
	suite.requireCode(err, codes.InvalidArgument)
	_, err = qs.OracleReputation(ctx, nil)
	suite.requireCode(err, codes.InvalidArgument)
	_, err = qs.Submission(ctx, nil)
	suite.requireCode(err, codes.InvalidArgument)
	_, err = qs.ConsensusData(ctx, nil)
	suite.requireCode(err, codes.InvalidArgument)
	_, err = qs.ConsensusHistory(ctx, nil)
	suite.requireCode(err, codes.InvalidArgument)
	_, err = qs.ContractStatus(ctx, nil)
	suite.requireCode(err, codes.InvalidArgument)
	_, err = qs.RequiredBurn(ctx, nil)
	suite.requireCode(err, codes.InvalidArgument)
}

func (suite *KeeperTestSuite) TestQueryServer_FeedAndPrice() {
	feedID := suite.submitReferenceWindow()
	qs := suite.queryServer()

	_, err := qs.Price(suite.ctx(), &types.QueryPriceRequest{FeedId: 9})
	suite.requireCode(err, codes.NotFound)

	priceRes, err := qs.Price(suite.ctx(), &types.QueryPriceRequest{FeedId: feedID})
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), 0, priceRes.Price)

	suite.f.AtHeight(10)
	_, err = suite.keeper.FinalizeConsensus(suite.ctx(), feedID, 0)
	suite.Require().NoError(err)

	priceRes, err = qs.Price(suite.ctx(), &types.QueryPriceRequest{FeedId: feedID})
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), 106, priceRes.Price)
	suite.Require().Equal(suite.ctx().BlockTime().Unix(), priceRes.Timestamp)

	feedRes, err := qs.FeedInfo(suite.ctx(), &types.QueryFeedInfoRequest{FeedId: feedID})
	suite.Require().NoError(err)
	suite.Require().Equal("BTC/USD", feedRes.Feed.Name)
	suite.Require().Equal(uint64(1), feedRes.Feed.RoundCount)
}

func (suite *KeeperTestSuite) TestQueryServer_Reputation() {
	qs := suite.queryServer()

	res, err := qs.OracleReputation(suite.ctx(), &types.QueryOracleReputationRequest{Reporter: reporterC.String()})
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(100), res.Reputation.Score)
	suite.Require().Zero(res.Reputation.TotalSubmissions)
	suite.Require().Equal(uint64(100), res.Multiplier)

	_, err = qs.OracleReputation(suite.ctx(), &types.QueryOracleReputationRequest{Reporter: "bogus"})
	suite.requireCode(err, codes.InvalidArgument)

	burn, err := qs.RequiredBurn(suite.ctx(), &types.QueryRequiredBurnRequest{Reporter: reporterC.String()})
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), 1_000_000, burn.Amount)
	suite.Require().Equal(types.DefaultBurnDenom, burn.Denom)
}

func (suite *KeeperTestSuite) TestQueryServer_SubmissionAndRound() {
	feedID := suite.submitReferenceWindow()
	qs := suite.queryServer()

	sub, err := qs.Submission(suite.ctx(), &types.QuerySubmissionRequest{FeedId: feedID, WindowId: 0, Reporter: reporterB.String()})
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), 110, sub.Submission.Price)

	_, err = qs.Submission(suite.ctx(), &types.QuerySubmissionRequest{FeedId: feedID, WindowId: 0, Reporter: reporterC.String()})
	suite.requireCode(err, codes.NotFound)

	round, err := qs.ConsensusData(suite.ctx(), &types.QueryConsensusDataRequest{FeedId: feedID, WindowId: 0})
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(2), round.Round.SubmissionCount)

	_, err = qs.ConsensusData(suite.ctx(), &types.QueryConsensusDataRequest{FeedId: feedID, WindowId: 10})
	suite.requireCode(err, codes.NotFound)
}

func (suite *KeeperTestSuite) TestQueryServer_ConsensusHistoryPagination() {
	feedID := suite.f.CreateFeed(suite.T(), "BTC/USD")
	for i := int64(0); i < 3; i++ {
		window := i * 10
		suite.f.AtHeight(window + 1)
		suite.f.Submit(suite.T(), reporterA, feedID, 1000+i, 1_000_000)
		suite.f.AtHeight(window + 10)
		_, err := suite.keeper.FinalizeConsensus(suite.ctx(), feedID, window)
		suite.Require().NoError(err)
	}
	qs := suite.queryServer()

	page1, err := qs.ConsensusHistory(suite.ctx(), &types.QueryConsensusHistoryRequest{
		FeedId:     feedID,
		Pagination: &query.PageRequest{Limit: 2},
	})
	suite.Require().NoError(err)
	suite.Require().Len(page1.Entries, 2)
	suite.Require().Equal(uint64(1), page1.Entries[0].Round)
	suite.Require().NotEmpty(page1.Pagination.NextKey)

	page2, err := qs.ConsensusHistory(suite.ctx(), &types.QueryConsensusHistoryRequest{
		FeedId:     feedID,
		Pagination: &query.PageRequest{Key: page1.Pagination.NextKey, Limit: 2},
	})
	suite.Require().NoError(err)
	suite.Require().Len(page2.Entries, 1)
	suite.Require().Equal(uint64(3), page2.Entries[0].Round)
	requireIntEqual(suite.T(), 1002, page2.Entries[0].Price)

	all, err := qs.ConsensusHistory(suite.ctx(), &types.QueryConsensusHistoryRequest{FeedId: feedID})
	suite.Require().NoError(err)
	suite.Require().Len(all.Entries, 3)

	_, err = qs.ConsensusHistory(suite.ctx(), &types.QueryConsensusHistoryRequest{FeedId: 99})
	suite.requireCode(err, codes.NotFound)
}

func (suite *KeeperTestSuite) TestQueryServer_ContractStatus() {
	_, err := suite.keeper.ToggleEmergencyPause(suite.ctx(), keepertest.EmergencyAdmin.String())
	suite.Require().NoError(err)

	res, err := suite.queryServer().ContractStatus(suite.ctx(), &types.QueryContractStatusRequest{})
	suite.Require().NoError(err)
	suite.Require().True(res.Status.Paused)
	suite.Require().Equal(keepertest.EmergencyAdmin.String(), res.Status.EmergencyAdmin)
}
