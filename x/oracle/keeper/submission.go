package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/burnoracle/x/oracle/types"
)

// Rejection reasons recorded in metrics
const (
	rejectPaused        = "paused"
	rejectFeed          = "feed_not_found"
	rejectBurn          = "insufficient_burn"
	rejectPrice         = "invalid_price"
	rejectDuplicate     = "duplicate"
	rejectRoundFinal    = "round_finalized"
	rejectBurnExecution = "burn_failed"
	rejectOverflow      = "weight_overflow"
)

// SubmitFeedData accepts one price observation for the current window.
// Checks run in order: pause, feed, burn floor, price, duplicate, finalized
// window, weight overflow. Nothing is written until all of them pass; the
// burn, the submission record, the round totals and the reputation counters
// are then written together.
func (k Keeper) SubmitFeedData(
	ctx context.Context,
	reporter sdk.AccAddress,
	feedID uint64,
	price math.Int,
	burnAmount math.Int,
) (types.Submission, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	params := k.GetParams(ctx)

	if err := k.CheckCircuitBreaker(ctx); err != nil {
		k.metrics.SubmissionRejections.WithLabelValues(rejectPaused).Inc()
		return types.Submission{}, err
	}

	feed, err := k.GetFeed(ctx, feedID)
	if err != nil {
		k.metrics.SubmissionRejections.WithLabelValues(rejectFeed).Inc()
		return types.Submission{}, err
	}
	if !feed.Active {
		k.metrics.SubmissionRejections.WithLabelValues(rejectFeed).Inc()
		return types.Submission{}, types.ErrFeedNotFound.Wrapf("feed %d is inactive", feedID)
	}

	if burnAmount.IsNil() || burnAmount.LT(params.MinBurnAmount) {
		k.metrics.SubmissionRejections.WithLabelValues(rejectBurn).Inc()
		return types.Submission{}, types.ErrInsufficientBurn.Wrapf("burn %s below minimum %s", burnAmount, params.MinBurnAmount)
	}

	if price.IsNil() || !price.IsPositive() {
		k.metrics.SubmissionRejections.WithLabelValues(rejectPrice).Inc()
		return types.Submission{}, types.ErrInvalidAmount.Wrapf("price must be positive, got %s", price)
	}

	windowID := params.WindowID(sdkCtx.BlockHeight())
	store := k.getStore(ctx)
	submissionKey := types.SubmissionKey(feedID, windowID, reporter)
	if store.Has(submissionKey) {
		k.metrics.SubmissionRejections.WithLabelValues(rejectDuplicate).Inc()
		return types.Submission{}, types.ErrDuplicateSubmission.Wrapf("feed %d window %d reporter %s", feedID, windowID, reporter)
	}

	round, found, err := k.GetConsensusRound(ctx, feedID, windowID)
	if err != nil {
		return types.Submission{}, err
	}
	if !found {
		round = types.NewConsensusRound(feedID, windowID)
	}
	if round.Finalized {
		k.metrics.SubmissionRejections.WithLabelValues(rejectRoundFinal).Inc()
		return types.Submission{}, types.ErrRoundFinalized.Wrapf("feed %d window %d", feedID, windowID)
	}

	rep, err := k.GetOrInitReputation(ctx, reporter)
	if err != nil {
		return types.Submission{}, err
	}
	weight, err := types.SubmissionWeight(burnAmount, rep.Score)
	if err != nil {
		k.metrics.SubmissionRejections.WithLabelValues(rejectOverflow).Inc()
		return types.Submission{}, err
	}
	if err := round.Fold(price, weight); err != nil {
		k.metrics.SubmissionRejections.WithLabelValues(rejectOverflow).Inc()
		return types.Submission{}, err
	}

	if err := k.burnStake(ctx, reporter, params.BurnDenom, burnAmount); err != nil {
		k.metrics.SubmissionRejections.WithLabelValues(rejectBurnExecution).Inc()
		k.Logger(ctx).Error("Burn failed", "reporter", reporter.String(), "amount", burnAmount.String(), "error", err)
		return types.Submission{}, err
	}

	submission := types.Submission{
		FeedId:     feedID,
		WindowId:   windowID,
		Reporter:   reporter.String(),
		Price:      price,
		BurnAmount: burnAmount,
		Timestamp:  sdkCtx.BlockTime().Unix(),
		Weight:     weight,
		Slashed:    false,
	}
	if err := setValue(store, submissionKey, submission); err != nil {
		return types.Submission{}, fmt.Errorf("SubmitFeedData: %w", err)
	}

	if err := k.SetConsensusRound(ctx, round); err != nil {
		return types.Submission{}, fmt.Errorf("SubmitFeedData: %w", err)
	}

	if err := k.RecordSubmission(ctx, reporter, burnAmount, windowID); err != nil {
		return types.Submission{}, fmt.Errorf("SubmitFeedData: %w", err)
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDataSubmitted,
			sdk.NewAttribute(types.AttributeKeyFeedID, fmt.Sprintf("%d", feedID)),
			sdk.NewAttribute(types.AttributeKeyWindowID, fmt.Sprintf("%d", windowID)),
			sdk.NewAttribute(types.AttributeKeyReporter, submission.Reporter),
			sdk.NewAttribute(types.AttributeKeyPrice, price.String()),
			sdk.NewAttribute(types.AttributeKeyBurnAmount, burnAmount.String()),
			sdk.NewAttribute(types.AttributeKeyWeight, weight.String()),
		),
	)

	k.Logger(ctx).Info("Feed data submitted",
		"feed_id", feedID,
		"window_id", windowID,
		"reporter", submission.Reporter,
		"price", price.String(),
		"weight", weight.String(),
	)
	k.metrics.Submissions.WithLabelValues(feed.Name).Inc()
	k.metrics.BurnedAmount.WithLabelValues(params.BurnDenom).Add(intToFloat(burnAmount))

	return submission, nil
}

// GetSubmission returns a single submission
func (k Keeper) GetSubmission(ctx context.Context, feedID uint64, windowID int64, reporter sdk.AccAddress) (types.Submission, error) {
	var submission types.Submission
	found, err := getValue(k.getStore(ctx), types.SubmissionKey(feedID, windowID, reporter), &submission)
	if err != nil {
		return types.Submission{}, err
	}
	if !found {
		return types.Submission{}, types.ErrSubmissionNotFound.Wrapf("feed %d window %d reporter %s", feedID, windowID, reporter)
	}
	return submission, nil
}

// SetSubmission stores a submission record
func (k Keeper) SetSubmission(ctx context.Context, submission types.Submission) error {
	reporter, err := sdk.AccAddressFromBech32(submission.Reporter)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("submission reporter: %s", err)
	}
	return setValue(k.getStore(ctx), types.SubmissionKey(submission.FeedId, submission.WindowId, reporter), submission)
}

// GetWindowSubmissions returns every submission of a (feed, window) pair
func (k Keeper) GetWindowSubmissions(ctx context.Context, feedID uint64, windowID int64) ([]types.Submission, error) {
	return collectValues[types.Submission](k.getStore(ctx), types.SubmissionsByWindowPrefix(feedID, windowID))
}

// GetAllSubmissions returns every stored submission
func (k Keeper) GetAllSubmissions(ctx context.Context) ([]types.Submission, error) {
	return collectValues[types.Submission](k.getStore(ctx), types.SubmissionKeyPrefix)
}

// burnStake moves amount from the reporter into the module account and burns it.
// An insufficient balance fails the send before anything is burned.
func (k Keeper) burnStake(ctx context.Context, reporter sdk.AccAddress, denom string, amount math.Int) error {
	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, reporter, types.ModuleName, coins); err != nil {
		return types.ErrBurnFailed.Wrapf("collect %s from %s: %s", coins, reporter, err)
	}
	if err := k.bankKeeper.BurnCoins(ctx, types.ModuleName, coins); err != nil {
		return types.ErrBurnFailed.Wrapf("burn %s: %s", coins, err)
	}
	return nil
}

func intToFloat(i math.Int) float64 {
	f, _ := math.LegacyNewDecFromInt(i).Float64()
	return f
}
