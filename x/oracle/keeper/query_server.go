package keeper

import (
	"context"
	"encoding/json"
	"errors"

	"cosmossdk.io/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/paw-chain/burnoracle/x/oracle/types"
)

type queryServer struct {
	Keeper
}

const (
	defaultPaginationLimit = 100
	maxPaginationLimit     = 1000
)

// NewQueryServerImpl returns an implementation of the QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

// sanitizePagination enforces sensible defaults and caps for paginated queries.
func sanitizePagination(p *query.PageRequest) *query.PageRequest {
	if p == nil {
		return &query.PageRequest{Limit: defaultPaginationLimit}
	}

	if p.Limit == 0 {
		p.Limit = defaultPaginationLimit
	}

	if p.Limit > maxPaginationLimit {
		p.Limit = maxPaginationLimit
	}

	return p
}

// toStatus maps registered oracle errors onto gRPC codes
func toStatus(err error) error {
	switch {
	case errors.Is(err, types.ErrFeedNotFound),
		errors.Is(err, types.ErrSubmissionNotFound),
		errors.Is(err, types.ErrRoundNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, types.ErrInvalidAddress):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func parseReporter(bech string) (sdk.AccAddress, error) {
	addr, err := sdk.AccAddressFromBech32(bech)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid reporter address: %v", err)
	}
	return addr, nil
}

// Price returns the latest finalized price of a feed. A feed that never
// finalized reports zero.
func (qs queryServer) Price(goCtx context.Context, req *types.QueryPriceRequest) (*types.QueryPriceResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	price, timestamp, err := qs.GetPrice(goCtx, req.FeedId)
	if err != nil {
		return nil, toStatus(err)
	}

	return &types.QueryPriceResponse{Price: price, Timestamp: timestamp}, nil
}

// FeedInfo returns a feed record
func (qs queryServer) FeedInfo(goCtx context.Context, req *types.QueryFeedInfoRequest) (*types.QueryFeedInfoResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	feed, err := qs.GetFeed(goCtx, req.FeedId)
	if err != nil {
		return nil, toStatus(err)
	}

	return &types.QueryFeedInfoResponse{Feed: feed}, nil
}

// OracleReputation returns a reporter's reputation, or the default record
// for a reporter that never submitted
func (qs queryServer) OracleReputation(goCtx context.Context, req *types.QueryOracleReputationRequest) (*types.QueryOracleReputationResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	reporter, err := parseReporter(req.Reporter)
	if err != nil {
		return nil, err
	}

	rep, err := qs.GetOrInitReputation(goCtx, reporter)
	if err != nil {
		return nil, toStatus(err)
	}

	return &types.QueryOracleReputationResponse{
		Reputation: rep,
		Multiplier: types.ReputationMultiplier(rep.Score),
	}, nil
}

// Submission returns one stored submission
func (qs queryServer) Submission(goCtx context.Context, req *types.QuerySubmissionRequest) (*types.QuerySubmissionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	reporter, err := parseReporter(req.Reporter)
	if err != nil {
		return nil, err
	}

	submission, err := qs.GetSubmission(goCtx, req.FeedId, req.WindowId, reporter)
	if err != nil {
		return nil, toStatus(err)
	}

	return &types.QuerySubmissionResponse{Submission: submission}, nil
}

// ConsensusData returns the accumulator of a (feed, window) pair
func (qs queryServer) ConsensusData(goCtx context.Context, req *types.QueryConsensusDataRequest) (*types.QueryConsensusDataResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	round, found, err := qs.GetConsensusRound(goCtx, req.FeedId, req.WindowId)
	if err != nil {
		return nil, toStatus(err)
	}
	if !found {
		return nil, status.Errorf(codes.NotFound, "no round for feed %d window %d", req.FeedId, req.WindowId)
	}

	return &types.QueryConsensusDataResponse{Round: round}, nil
}

// ConsensusHistory pages through a feed's finalized rounds in round order
func (qs queryServer) ConsensusHistory(goCtx context.Context, req *types.QueryConsensusHistoryRequest) (*types.QueryConsensusHistoryResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	if _, err := qs.GetFeed(goCtx, req.FeedId); err != nil {
		return nil, toStatus(err)
	}

	store := prefix.NewStore(qs.getStore(goCtx), types.ConsensusHistoryPrefix(req.FeedId))
	entries := []types.ConsensusHistoryEntry{}
	pageRes, err := query.Paginate(store, sanitizePagination(req.Pagination), func(key []byte, value []byte) error {
		var entry types.ConsensusHistoryEntry
		if err := json.Unmarshal(value, &entry); err != nil {
			return types.ErrStateCorruption.Wrapf("history entry %X: %s", key, err)
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryConsensusHistoryResponse{Entries: entries, Pagination: pageRes}, nil
}

// ContractStatus returns the admin state together with chain position and params
func (qs queryServer) ContractStatus(goCtx context.Context, req *types.QueryContractStatusRequest) (*types.QueryContractStatusResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	st, err := qs.GetContractStatus(goCtx)
	if err != nil {
		return nil, toStatus(err)
	}

	return &types.QueryContractStatusResponse{Status: st}, nil
}

// RequiredBurn returns the reputation-scaled burn suggested for a reporter
func (qs queryServer) RequiredBurn(goCtx context.Context, req *types.QueryRequiredBurnRequest) (*types.QueryRequiredBurnResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	reporter, err := parseReporter(req.Reporter)
	if err != nil {
		return nil, err
	}

	amount, err := qs.Keeper.RequiredBurn(goCtx, reporter)
	if err != nil {
		return nil, toStatus(err)
	}

	return &types.QueryRequiredBurnResponse{Amount: amount, Denom: qs.GetParams(goCtx).BurnDenom}, nil
}
