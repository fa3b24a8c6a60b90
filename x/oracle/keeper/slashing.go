package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/burnoracle/x/oracle/types"
)

// SlashOracle marks one submission invalid and applies the slash penalty to
// its author. Owner only. The window's totals and any finalized price are
// left as they are.
func (k Keeper) SlashOracle(
	ctx context.Context,
	signer string,
	feedID uint64,
	windowID int64,
	reporter sdk.AccAddress,
) (types.Reputation, error) {
	state, err := k.GetAdminState(ctx)
	if err != nil {
		return types.Reputation{}, err
	}
	if err := requireOwner(state, signer); err != nil {
		return types.Reputation{}, err
	}

	submission, err := k.GetSubmission(ctx, feedID, windowID, reporter)
	if err != nil {
		return types.Reputation{}, err
	}
	if submission.Slashed {
		return types.Reputation{}, types.ErrInvalidAmount.Wrapf(
			"submission of %s for feed %d window %d already slashed", reporter, feedID, windowID,
		)
	}

	submission.Slashed = true
	if err := k.SetSubmission(ctx, submission); err != nil {
		return types.Reputation{}, fmt.Errorf("SlashOracle: %w", err)
	}

	rep, err := k.ApplySlashPenalty(ctx, reporter)
	if err != nil {
		return types.Reputation{}, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOracleSlash,
			sdk.NewAttribute(types.AttributeKeyFeedID, fmt.Sprintf("%d", feedID)),
			sdk.NewAttribute(types.AttributeKeyWindowID, fmt.Sprintf("%d", windowID)),
			sdk.NewAttribute(types.AttributeKeyReporter, submission.Reporter),
			sdk.NewAttribute(types.AttributeKeyPrice, submission.Price.String()),
			sdk.NewAttribute(types.AttributeKeyScore, fmt.Sprintf("%d", rep.Score)),
			sdk.NewAttribute(types.AttributeKeyBlockHeight, fmt.Sprintf("%d", sdkCtx.BlockHeight())),
		),
	)

	k.Logger(ctx).Info(
		"Slashed oracle submission",
		"feed_id", feedID,
		"window_id", windowID,
		"reporter", submission.Reporter,
		"submitted_price", submission.Price.String(),
		"score", rep.Score,
	)
	k.metrics.SlashingEvents.WithLabelValues(fmt.Sprintf("%d", feedID)).Inc()

	return rep, nil
}
