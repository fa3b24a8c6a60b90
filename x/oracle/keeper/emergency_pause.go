package keeper

import (
	"context"
	"fmt"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/burnoracle/x/oracle/types"
)

// ToggleEmergencyPause flips the global pause flag and returns the new state.
// Only the emergency admin may call it.
func (k Keeper) ToggleEmergencyPause(ctx context.Context, signer string) (bool, error) {
	state, err := k.GetAdminState(ctx)
	if err != nil {
		return false, err
	}
	if err := requireEmergencyAdmin(state, signer); err != nil {
		return false, err
	}

	state.Paused = !state.Paused
	if err := k.SetAdminState(ctx, state); err != nil {
		return false, fmt.Errorf("ToggleEmergencyPause: %w", err)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePauseToggled,
			sdk.NewAttribute(types.AttributeKeyActor, signer),
			sdk.NewAttribute(types.AttributeKeyPaused, strconv.FormatBool(state.Paused)),
			sdk.NewAttribute(types.AttributeKeyBlockHeight, fmt.Sprintf("%d", sdkCtx.BlockHeight())),
		),
	)

	if state.Paused {
		k.Logger(ctx).Warn("Oracle paused", "by", signer, "height", sdkCtx.BlockHeight())
	} else {
		k.Logger(ctx).Info("Oracle resumed", "by", signer, "height", sdkCtx.BlockHeight())
	}
	k.metrics.Paused.Set(boolToFloat(state.Paused))

	return state.Paused, nil
}

// SetEmergencyAdmin hands the pause role to a new address. Owner only.
func (k Keeper) SetEmergencyAdmin(ctx context.Context, signer, newAdmin string) error {
	state, err := k.GetAdminState(ctx)
	if err != nil {
		return err
	}
	if err := requireOwner(state, signer); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(newAdmin); err != nil {
		return types.ErrInvalidAddress.Wrapf("new emergency admin: %s", err)
	}

	previous := state.EmergencyAdmin
	state.EmergencyAdmin = newAdmin
	if err := k.SetAdminState(ctx, state); err != nil {
		return fmt.Errorf("SetEmergencyAdmin: %w", err)
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEmergencyAdminSet,
			sdk.NewAttribute(types.AttributeKeyActor, signer),
			sdk.NewAttribute(types.AttributeKeyEmergencyAdmin, newAdmin),
		),
	)

	k.Logger(ctx).Info("Emergency admin rotated", "previous", previous, "new", newAdmin)
	return nil
}

// GetContractStatus summarizes admin state, the current window and params
func (k Keeper) GetContractStatus(ctx context.Context) (types.ContractStatus, error) {
	state, err := k.GetAdminState(ctx)
	if err != nil {
		return types.ContractStatus{}, err
	}
	params := k.GetParams(ctx)
	height := sdk.UnwrapSDKContext(ctx).BlockHeight()

	return types.ContractStatus{
		Owner:          state.Owner,
		EmergencyAdmin: state.EmergencyAdmin,
		Paused:         state.Paused,
		FeedCount:      state.FeedCount,
		BlockHeight:    height,
		CurrentWindow:  params.WindowID(height),
		Params:         params,
	}, nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
