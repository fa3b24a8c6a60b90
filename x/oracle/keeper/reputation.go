package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/burnoracle/x/oracle/types"
)

// GetReputation returns the stored reputation of a reporter and whether it exists
func (k Keeper) GetReputation(ctx context.Context, reporter sdk.AccAddress) (types.Reputation, bool, error) {
	var rep types.Reputation
	found, err := getValue(k.getStore(ctx), types.ReputationKey(reporter), &rep)
	return rep, found, err
}

// GetOrInitReputation returns the stored reputation, or the documented
// default (neutral score, zero counters) for a reporter never seen before.
// The default is not persisted.
func (k Keeper) GetOrInitReputation(ctx context.Context, reporter sdk.AccAddress) (types.Reputation, error) {
	rep, found, err := k.GetReputation(ctx, reporter)
	if err != nil {
		return types.Reputation{}, err
	}
	if !found {
		return types.NewReputation(reporter.String(), k.GetParams(ctx)), nil
	}
	return rep, nil
}

// SetReputation stores a reputation record
func (k Keeper) SetReputation(ctx context.Context, rep types.Reputation) error {
	reporter, err := sdk.AccAddressFromBech32(rep.Reporter)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("reputation reporter: %s", err)
	}
	return setValue(k.getStore(ctx), types.ReputationKey(reporter), rep)
}

// GetAllReputations returns every stored reputation
func (k Keeper) GetAllReputations(ctx context.Context) ([]types.Reputation, error) {
	return collectValues[types.Reputation](k.getStore(ctx), types.ReputationKeyPrefix)
}

// ReputationMultiplier returns the reporter's current stake multiplier in hundredths
func (k Keeper) ReputationMultiplier(ctx context.Context, reporter sdk.AccAddress) (uint64, error) {
	rep, err := k.GetOrInitReputation(ctx, reporter)
	if err != nil {
		return 0, err
	}
	return types.ReputationMultiplier(rep.Score), nil
}

// RequiredBurn returns MinBurnAmount scaled down by the reporter's multiplier.
// It is advisory: SubmitFeedData enforces only the flat minimum.
func (k Keeper) RequiredBurn(ctx context.Context, reporter sdk.AccAddress) (math.Int, error) {
	rep, err := k.GetOrInitReputation(ctx, reporter)
	if err != nil {
		return math.Int{}, err
	}
	return types.RequiredBurn(k.GetParams(ctx).MinBurnAmount, rep.Score), nil
}

// RecordSubmission bumps a reporter's submission and burn counters
func (k Keeper) RecordSubmission(ctx context.Context, reporter sdk.AccAddress, burn math.Int, windowID int64) error {
	rep, err := k.GetOrInitReputation(ctx, reporter)
	if err != nil {
		return err
	}
	rep.RecordSubmission(burn, windowID)
	return k.SetReputation(ctx, rep)
}

// ApplyAccuracyOutcome adjusts a reporter's score after a window it took part in was finalized
func (k Keeper) ApplyAccuracyOutcome(ctx context.Context, reporter sdk.AccAddress, accurate bool) (types.Reputation, error) {
	rep, err := k.GetOrInitReputation(ctx, reporter)
	if err != nil {
		return types.Reputation{}, err
	}
	before := rep.Score
	rep.ApplyAccuracyOutcome(accurate, k.GetParams(ctx))
	if err := k.SetReputation(ctx, rep); err != nil {
		return types.Reputation{}, fmt.Errorf("ApplyAccuracyOutcome: %w", err)
	}

	k.emitReputationUpdated(ctx, rep, before, fmt.Sprintf("%t", accurate))
	return rep, nil
}

// ApplySlashPenalty lowers a reporter's score by the slash penalty
func (k Keeper) ApplySlashPenalty(ctx context.Context, reporter sdk.AccAddress) (types.Reputation, error) {
	rep, err := k.GetOrInitReputation(ctx, reporter)
	if err != nil {
		return types.Reputation{}, err
	}
	before := rep.Score
	rep.ApplySlashPenalty(k.GetParams(ctx))
	if err := k.SetReputation(ctx, rep); err != nil {
		return types.Reputation{}, fmt.Errorf("ApplySlashPenalty: %w", err)
	}

	k.emitReputationUpdated(ctx, rep, before, "slashed")
	return rep, nil
}

func (k Keeper) emitReputationUpdated(ctx context.Context, rep types.Reputation, before uint64, outcome string) {
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeReputationUpdated,
			sdk.NewAttribute(types.AttributeKeyReporter, rep.Reporter),
			sdk.NewAttribute(types.AttributeKeyScore, fmt.Sprintf("%d", rep.Score)),
			sdk.NewAttribute(types.AttributeKeyAccurate, outcome),
		),
	)

	k.Logger(ctx).Debug("Reputation updated",
		"reporter", rep.Reporter,
		"before", before,
		"after", rep.Score,
		"outcome", outcome,
	)
	k.metrics.ReporterReputation.WithLabelValues(rep.Reporter).Set(float64(rep.Score))
}
