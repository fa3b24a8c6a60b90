package keeper

import (
	"context"
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	"github.com/paw-chain/burnoracle/x/oracle/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// observe records the handler latency and an outcome counter labelled with
// the registered error on failure
func observe(msgType string, start time.Time, err *error) {
	telemetry.MeasureSince(start, types.ModuleName, "msg", msgType)
	if *err == nil {
		telemetry.IncrCounter(1, types.ModuleName, "msg", msgType, "success")
		return
	}

	codespace, code, _ := errorsmod.ABCIInfo(*err, false)
	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "msg", "failed"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("msg", msgType),
			telemetry.NewLabel("reason", fmt.Sprintf("%s/%d", codespace, code)),
		},
	)
}

// CreateFeed handles feed registration by the owner
func (ms msgServer) CreateFeed(goCtx context.Context, msg *types.MsgCreateFeed) (_ *types.MsgCreateFeedResponse, err error) {
	defer observe(types.TypeMsgCreateFeed, time.Now(), &err)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	feedID, err := ms.Keeper.CreateFeed(goCtx, msg.Owner, msg.Name)
	if err != nil {
		return nil, err
	}

	return &types.MsgCreateFeedResponse{FeedId: feedID}, nil
}

// SubmitFeedData handles a burn-backed price observation
func (ms msgServer) SubmitFeedData(goCtx context.Context, msg *types.MsgSubmitFeedData) (_ *types.MsgSubmitFeedDataResponse, err error) {
	defer observe(types.TypeMsgSubmitFeedData, time.Now(), &err)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	reporter, err := sdk.AccAddressFromBech32(msg.Reporter)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid reporter address: %s", err)
	}

	submission, err := ms.Keeper.SubmitFeedData(goCtx, reporter, msg.FeedId, msg.Price, msg.BurnAmount)
	if err != nil {
		return nil, err
	}

	return &types.MsgSubmitFeedDataResponse{
		WindowId: submission.WindowId,
		Weight:   submission.Weight,
	}, nil
}

// FinalizeConsensus closes a window. It is permissionless and stays
// available while the oracle is paused.
func (ms msgServer) FinalizeConsensus(goCtx context.Context, msg *types.MsgFinalizeConsensus) (_ *types.MsgFinalizeConsensusResponse, err error) {
	defer observe(types.TypeMsgFinalizeConsensus, time.Now(), &err)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	entry, err := ms.Keeper.FinalizeConsensus(goCtx, msg.FeedId, msg.WindowId)
	if err != nil {
		return nil, err
	}

	return &types.MsgFinalizeConsensusResponse{
		ConsensusPrice: entry.Price,
		Round:          entry.Round,
	}, nil
}

// SlashOracle handles owner-initiated slashing of a submission
func (ms msgServer) SlashOracle(goCtx context.Context, msg *types.MsgSlashOracle) (_ *types.MsgSlashOracleResponse, err error) {
	defer observe(types.TypeMsgSlashOracle, time.Now(), &err)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	reporter, err := sdk.AccAddressFromBech32(msg.Reporter)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid reporter address: %s", err)
	}

	rep, err := ms.Keeper.SlashOracle(goCtx, msg.Owner, msg.FeedId, msg.WindowId, reporter)
	if err != nil {
		return nil, err
	}

	return &types.MsgSlashOracleResponse{Score: rep.Score}, nil
}

// ToggleEmergencyPause flips the circuit breaker
func (ms msgServer) ToggleEmergencyPause(goCtx context.Context, msg *types.MsgToggleEmergencyPause) (_ *types.MsgToggleEmergencyPauseResponse, err error) {
	defer observe(types.TypeMsgToggleEmergencyPause, time.Now(), &err)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	paused, err := ms.Keeper.ToggleEmergencyPause(goCtx, msg.Admin)
	if err != nil {
		return nil, err
	}

	return &types.MsgToggleEmergencyPauseResponse{Paused: paused}, nil
}

// SetEmergencyAdmin rotates the emergency admin
func (ms msgServer) SetEmergencyAdmin(goCtx context.Context, msg *types.MsgSetEmergencyAdmin) (_ *types.MsgSetEmergencyAdminResponse, err error) {
	defer observe(types.TypeMsgSetEmergencyAdmin, time.Now(), &err)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	if err := ms.Keeper.SetEmergencyAdmin(goCtx, msg.Owner, msg.NewAdmin); err != nil {
		return nil, err
	}

	return &types.MsgSetEmergencyAdminResponse{}, nil
}
