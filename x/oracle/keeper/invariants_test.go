package keeper_test

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/paw-chain/burnoracle/testutil/keeper"
	"github.com/paw-chain/burnoracle/x/oracle/keeper"
	"github.com/paw-chain/burnoracle/x/oracle/types"
)

type routeRecorder struct {
	routes map[string]sdk.Invariant
}

func (r *routeRecorder) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.routes[moduleName+"/"+route] = invar
}

func (suite *KeeperTestSuite) TestRegisterInvariants_Routes() {
	ir := &routeRecorder{routes: map[string]sdk.Invariant{}}
	keeper.RegisterInvariants(ir, *suite.keeper)

	suite.Require().Len(ir.routes, 4)
	for _, route := range []string{"reputation-bounds", "round-totals", "finalized-price-consistency", "feed-count"} {
		invar, ok := ir.routes[types.ModuleName+"/"+route]
		suite.Require().True(ok, route)
		msg, broken := invar(suite.ctx())
		suite.Require().False(broken, msg)
	}
}

func (suite *KeeperTestSuite) TestInvariants_HoldAfterActivity() {
	feedID := suite.submitReferenceWindow()
	suite.f.AtHeight(10)
	_, err := suite.keeper.FinalizeConsensus(suite.ctx(), feedID, 0)
	suite.Require().NoError(err)
	_, err = suite.keeper.SlashOracle(suite.ctx(), keepertest.Owner.String(), feedID, 0, reporterA)
	suite.Require().NoError(err)

	msg, broken := keeper.AllInvariants(*suite.keeper)(suite.ctx())
	suite.Require().False(broken, msg)
}

func (suite *KeeperTestSuite) TestReputationBoundsInvariant_Broken() {
	params := suite.keeper.GetParams(suite.ctx())
	suite.f.Submit(suite.T(), reporterA, suite.f.CreateFeed(suite.T(), "BTC/USD"), 100, 1_000_000)

	rep, err := suite.keeper.GetOrInitReputation(suite.ctx(), reporterA)
	suite.Require().NoError(err)
	rep.Score = params.MaxScore + 1
	suite.Require().NoError(suite.keeper.SetReputation(suite.ctx(), rep))

	_, broken := keeper.ReputationBoundsInvariant(*suite.keeper)(suite.ctx())
	suite.Require().True(broken)
}

func (suite *KeeperTestSuite) TestRoundTotalsInvariant_Broken() {
	feedID := suite.submitReferenceWindow()

	round, _, err := suite.keeper.GetConsensusRound(suite.ctx(), feedID, 0)
	suite.Require().NoError(err)
	round.WeightSum = round.WeightSum.AddRaw(1)
	suite.Require().NoError(suite.keeper.SetConsensusRound(suite.ctx(), round))

	_, broken := keeper.RoundTotalsInvariant(*suite.keeper)(suite.ctx())
	suite.Require().True(broken)
}

func (suite *KeeperTestSuite) TestFinalizedPriceInvariant_Broken() {
	feedID := suite.f.CreateFeed(suite.T(), "BTC/USD")

	feed, err := suite.keeper.GetFeed(suite.ctx(), feedID)
	suite.Require().NoError(err)
	feed.LatestPrice = math.NewInt(5)
	suite.Require().NoError(suite.keeper.SetFeed(suite.ctx(), feed))

	_, broken := keeper.FinalizedPriceInvariant(*suite.keeper)(suite.ctx())
	suite.Require().True(broken, "a price without a finalized round")
}

func (suite *KeeperTestSuite) TestFeedCountInvariant_Broken() {
	suite.f.CreateFeed(suite.T(), "BTC/USD")

	state, err := suite.keeper.GetAdminState(suite.ctx())
	suite.Require().NoError(err)
	state.FeedCount = 4
	suite.Require().NoError(suite.keeper.SetAdminState(suite.ctx(), state))

	_, broken := keeper.FeedCountInvariant(*suite.keeper)(suite.ctx())
	suite.Require().True(broken)
}
