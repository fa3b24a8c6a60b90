package keeper

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/burnoracle/x/oracle/types"
)

// FinalizeConsensus converts a closed window's weighted submissions into the
// feed's new price, appends it to the history log and updates the
// reputation of every participant. A window is finalized at most once.
func (k Keeper) FinalizeConsensus(ctx context.Context, feedID uint64, windowID int64) (types.ConsensusHistoryEntry, error) {
	start := time.Now()
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	params := k.GetParams(ctx)

	round, found, err := k.GetConsensusRound(ctx, feedID, windowID)
	if err != nil {
		return types.ConsensusHistoryEntry{}, err
	}
	if !found {
		return types.ConsensusHistoryEntry{}, types.ErrRoundNotFound.Wrapf("feed %d window %d", feedID, windowID)
	}
	if round.Finalized {
		return types.ConsensusHistoryEntry{}, types.ErrRoundFinalized.Wrapf("feed %d window %d", feedID, windowID)
	}
	if round.SubmissionCount == 0 {
		return types.ConsensusHistoryEntry{}, types.ErrInvalidAmount.Wrapf("feed %d window %d has no submissions", feedID, windowID)
	}

	// the window must have fully elapsed: height - windowStart >= window length
	if elapsed := sdkCtx.BlockHeight() - windowID; elapsed < params.ConsensusWindow {
		return types.ConsensusHistoryEntry{}, types.ErrInvalidTimestamp.Wrapf(
			"window %d still open at height %d: %d of %d blocks elapsed",
			windowID, sdkCtx.BlockHeight(), elapsed, params.ConsensusWindow,
		)
	}

	consensusPrice, err := round.WeightedAverage()
	if err != nil {
		return types.ConsensusHistoryEntry{}, err
	}

	feed, err := k.GetFeed(ctx, feedID)
	if err != nil {
		return types.ConsensusHistoryEntry{}, err
	}
	feed, err = k.recordFinalizedPrice(ctx, feed, consensusPrice)
	if err != nil {
		return types.ConsensusHistoryEntry{}, fmt.Errorf("FinalizeConsensus: %w", err)
	}

	entry := types.ConsensusHistoryEntry{
		FeedId:           feedID,
		Round:            feed.RoundCount,
		Price:            consensusPrice,
		ParticipantCount: round.SubmissionCount,
		WindowId:         windowID,
		Timestamp:        feed.LatestTimestamp,
	}
	if err := k.SetConsensusHistoryEntry(ctx, entry); err != nil {
		return types.ConsensusHistoryEntry{}, fmt.Errorf("FinalizeConsensus: %w", err)
	}

	round.Finalized = true
	round.ConsensusPrice = consensusPrice
	round.FinalizedHeight = sdkCtx.BlockHeight()
	if err := k.SetConsensusRound(ctx, round); err != nil {
		return types.ConsensusHistoryEntry{}, fmt.Errorf("FinalizeConsensus: %w", err)
	}

	accurate, err := k.applyWindowOutcomes(ctx, feedID, windowID, consensusPrice, params)
	if err != nil {
		return types.ConsensusHistoryEntry{}, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeConsensusFinalized,
			sdk.NewAttribute(types.AttributeKeyFeedID, fmt.Sprintf("%d", feedID)),
			sdk.NewAttribute(types.AttributeKeyWindowID, fmt.Sprintf("%d", windowID)),
			sdk.NewAttribute(types.AttributeKeyRound, fmt.Sprintf("%d", entry.Round)),
			sdk.NewAttribute(types.AttributeKeyConsensusPrice, consensusPrice.String()),
			sdk.NewAttribute(types.AttributeKeyParticipants, fmt.Sprintf("%d", entry.ParticipantCount)),
			sdk.NewAttribute(types.AttributeKeyTimestamp, fmt.Sprintf("%d", entry.Timestamp)),
		),
	)

	k.Logger(ctx).Info("Consensus finalized",
		"feed_id", feedID,
		"window_id", windowID,
		"round", entry.Round,
		"price", consensusPrice.String(),
		"participants", entry.ParticipantCount,
		"accurate", accurate,
	)
	k.metrics.Finalizations.WithLabelValues(feed.Name).Inc()
	k.metrics.ConsensusPrice.WithLabelValues(feed.Name).Set(intToFloat(consensusPrice))
	k.metrics.ConsensusParticipants.WithLabelValues(feed.Name).Set(float64(entry.ParticipantCount))
	k.metrics.FinalizationLatency.Observe(time.Since(start).Seconds())

	return entry, nil
}

// applyWindowOutcomes classifies every participant of the window against the
// consensus price and updates its reputation. The first failure aborts the
// whole finalization. It returns how many participants were accurate.
func (k Keeper) applyWindowOutcomes(ctx context.Context, feedID uint64, windowID int64, consensusPrice math.Int, params types.Params) (int, error) {
	// collected up front; the reputation writes below must not run under an open iterator
	submissions, err := k.GetWindowSubmissions(ctx, feedID, windowID)
	if err != nil {
		return 0, err
	}

	accurateCount := 0
	for _, submission := range submissions {
		reporter, err := sdk.AccAddressFromBech32(submission.Reporter)
		if err != nil {
			return 0, types.ErrStateCorruption.Wrapf("submission reporter %q: %s", submission.Reporter, err)
		}

		accurate := types.IsAccurate(submission.Price, consensusPrice, params.DeviationDivisor)
		if accurate {
			accurateCount++
		}
		if _, err := k.ApplyAccuracyOutcome(ctx, reporter, accurate); err != nil {
			return 0, fmt.Errorf("apply outcome for %s: %w", submission.Reporter, err)
		}
	}

	return accurateCount, nil
}

// GetConsensusRound returns the accumulator of a (feed, window) pair and whether it exists
func (k Keeper) GetConsensusRound(ctx context.Context, feedID uint64, windowID int64) (types.ConsensusRound, bool, error) {
	var round types.ConsensusRound
	found, err := getValue(k.getStore(ctx), types.ConsensusRoundKey(feedID, windowID), &round)
	return round, found, err
}

// SetConsensusRound stores a round accumulator
func (k Keeper) SetConsensusRound(ctx context.Context, round types.ConsensusRound) error {
	return setValue(k.getStore(ctx), types.ConsensusRoundKey(round.FeedId, round.WindowId), round)
}

// GetAllConsensusRounds returns every stored round
func (k Keeper) GetAllConsensusRounds(ctx context.Context) ([]types.ConsensusRound, error) {
	return collectValues[types.ConsensusRound](k.getStore(ctx), types.ConsensusRoundKeyPrefix)
}

// SetConsensusHistoryEntry appends a finalized round to the audit log
func (k Keeper) SetConsensusHistoryEntry(ctx context.Context, entry types.ConsensusHistoryEntry) error {
	return setValue(k.getStore(ctx), types.ConsensusHistoryKey(entry.FeedId, entry.Round), entry)
}

// GetConsensusHistoryEntry returns one finalized round of a feed
func (k Keeper) GetConsensusHistoryEntry(ctx context.Context, feedID, round uint64) (types.ConsensusHistoryEntry, bool, error) {
	var entry types.ConsensusHistoryEntry
	found, err := getValue(k.getStore(ctx), types.ConsensusHistoryKey(feedID, round), &entry)
	return entry, found, err
}

// GetConsensusHistory returns a feed's finalized rounds in round order
func (k Keeper) GetConsensusHistory(ctx context.Context, feedID uint64) ([]types.ConsensusHistoryEntry, error) {
	return collectValues[types.ConsensusHistoryEntry](k.getStore(ctx), types.ConsensusHistoryPrefix(feedID))
}

// GetAllConsensusHistory returns the history of every feed
func (k Keeper) GetAllConsensusHistory(ctx context.Context) ([]types.ConsensusHistoryEntry, error) {
	return collectValues[types.ConsensusHistoryEntry](k.getStore(ctx), types.ConsensusHistoryKeyPrefix)
}
