package types

import (
	"context"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/types/query"
)

// QueryServer is the read-only surface of the oracle. Every method stays
// available while the oracle is paused.
type QueryServer interface {
	Price(context.Context, *QueryPriceRequest) (*QueryPriceResponse, error)
	FeedInfo(context.Context, *QueryFeedInfoRequest) (*QueryFeedInfoResponse, error)
	OracleReputation(context.Context, *QueryOracleReputationRequest) (*QueryOracleReputationResponse, error)
	Submission(context.Context, *QuerySubmissionRequest) (*QuerySubmissionResponse, error)
	ConsensusData(context.Context, *QueryConsensusDataRequest) (*QueryConsensusDataResponse, error)
	ConsensusHistory(context.Context, *QueryConsensusHistoryRequest) (*QueryConsensusHistoryResponse, error)
	ContractStatus(context.Context, *QueryContractStatusRequest) (*QueryContractStatusResponse, error)
	RequiredBurn(context.Context, *QueryRequiredBurnRequest) (*QueryRequiredBurnResponse, error)
}

type QueryPriceRequest struct {
	FeedId uint64 `json:"feed_id"`
}

type QueryPriceResponse struct {
	Price     math.Int `json:"price"`
	Timestamp int64    `json:"timestamp"`
}

type QueryFeedInfoRequest struct {
	FeedId uint64 `json:"feed_id"`
}

type QueryFeedInfoResponse struct {
	Feed Feed `json:"feed"`
}

type QueryOracleReputationRequest struct {
	Reporter string `json:"reporter"`
}

type QueryOracleReputationResponse struct {
	Reputation Reputation `json:"reputation"`
	Multiplier uint64     `json:"multiplier"`
}

type QuerySubmissionRequest struct {
	FeedId   uint64 `json:"feed_id"`
	WindowId int64  `json:"window_id"`
	Reporter string `json:"reporter"`
}

type QuerySubmissionResponse struct {
	Submission Submission `json:"submission"`
}

type QueryConsensusDataRequest struct {
	FeedId   uint64 `json:"feed_id"`
	WindowId int64  `json:"window_id"`
}

type QueryConsensusDataResponse struct {
	Round ConsensusRound `json:"round"`
}

type QueryConsensusHistoryRequest struct {
	FeedId     uint64             `json:"feed_id"`
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

type QueryConsensusHistoryResponse struct {
	Entries    []ConsensusHistoryEntry `json:"entries"`
	Pagination *query.PageResponse     `json:"pagination,omitempty"`
}

type QueryContractStatusRequest struct{}

type QueryContractStatusResponse struct {
	Status ContractStatus `json:"status"`
}

type QueryRequiredBurnRequest struct {
	Reporter string `json:"reporter"`
}

type QueryRequiredBurnResponse struct {
	Amount math.Int `json:"amount"`
	Denom  string   `json:"denom"`
}
