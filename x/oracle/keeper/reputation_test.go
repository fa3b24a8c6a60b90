package keeper_test

import (
	"cosmossdk.io/math"

	"github.com/paw-chain/burnoracle/x/oracle/types"
)

func (suite *KeeperTestSuite) TestGetOrInitReputation_DefaultNotPersisted() {
	rep, err := suite.keeper.GetOrInitReputation(suite.ctx(), reporterA)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(100), rep.Score)
	suite.Require().Zero(rep.TotalSubmissions)

	_, found, err := suite.keeper.GetReputation(suite.ctx(), reporterA)
	suite.Require().NoError(err)
	suite.Require().False(found)
}

func (suite *KeeperTestSuite) TestRecordSubmission_Counters() {
	suite.Require().NoError(suite.keeper.RecordSubmission(suite.ctx(), reporterA, math.NewInt(1_000_000), 0))
	suite.Require().NoError(suite.keeper.RecordSubmission(suite.ctx(), reporterA, math.NewInt(500_000), 10))

	rep, found, err := suite.keeper.GetReputation(suite.ctx(), reporterA)
	suite.Require().NoError(err)
	suite.Require().True(found)
	suite.Require().Equal(uint64(2), rep.TotalSubmissions)
	suite.Require().Equal(uint64(100), rep.Score)
	requireIntEqual(suite.T(), 1_500_000, rep.TotalBurned)
}

func (suite *KeeperTestSuite) TestRequiredBurn_ScalesWithReputation() {
	tests := []struct {
		score uint64
		want  int64
	}{
		{90, 2_000_000},
		{100, 1_000_000},
		{150, 500_000},
		{200, 333_333},
	}

	for _, tc := range tests {
		rep := types.NewReputation(reporterA.String(), types.DefaultParams())
		rep.Score = tc.score
		suite.Require().NoError(suite.keeper.SetReputation(suite.ctx(), rep))

		burn, err := suite.keeper.RequiredBurn(suite.ctx(), reporterA)
		suite.Require().NoError(err)
		requireIntEqual(suite.T(), tc.want, burn)

		mult, err := suite.keeper.ReputationMultiplier(suite.ctx(), reporterA)
		suite.Require().NoError(err)
		suite.Require().Equal(types.ReputationMultiplier(tc.score), mult)
	}
}

func (suite *KeeperTestSuite) TestApplyAccuracyOutcome_EmitsEvent() {
	rep, err := suite.keeper.ApplyAccuracyOutcome(suite.ctx(), reporterB, true)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(105), rep.Score)

	var found bool
	for _, ev := range suite.ctx().EventManager().Events() {
		if ev.Type != types.EventTypeReputationUpdated {
			continue
		}
		found = true
		attr, ok := ev.GetAttribute(types.AttributeKeyScore)
		suite.Require().True(ok)
		suite.Require().Equal("105", attr.Value)
	}
	suite.Require().True(found)
}

func (suite *KeeperTestSuite) TestSetReputation_RejectsBadAddress() {
	rep := types.NewReputation("not-an-address", types.DefaultParams())
	err := suite.keeper.SetReputation(suite.ctx(), rep)
	suite.Require().ErrorIs(err, types.ErrInvalidAddress)
}
