package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/burnoracle/x/oracle/types"
)

// RegisterInvariants registers all oracle module invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "reputation-bounds",
		ReputationBoundsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "round-totals",
		RoundTotalsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "finalized-price-consistency",
		FinalizedPriceInvariant(k))
	ir.RegisterRoute(types.ModuleName, "feed-count",
		FeedCountInvariant(k))
}

// AllInvariants runs all invariants of the oracle module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := ReputationBoundsInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		res, stop = RoundTotalsInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		res, stop = FinalizedPriceInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		return FeedCountInvariant(k)(ctx)
	}
}

// ReputationBoundsInvariant checks that every stored score lies within [MinScore, MaxScore]
func ReputationBoundsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		params := k.GetParams(ctx)
		var (
			msg    string
			broken bool
		)

		reputations, err := k.GetAllReputations(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "reputation-bounds", err.Error()), true
		}

		for _, rep := range reputations {
			if rep.Score < params.MinScore || rep.Score > params.MaxScore {
				msg += fmt.Sprintf("reporter %s: score %d outside [%d, %d]\n", rep.Reporter, rep.Score, params.MinScore, params.MaxScore)
				broken = true
			}
			if rep.AccurateSubmissions > rep.TotalSubmissions {
				msg += fmt.Sprintf("reporter %s: %d accurate of %d total\n", rep.Reporter, rep.AccurateSubmissions, rep.TotalSubmissions)
				broken = true
			}
		}

		return sdk.FormatInvariant(
			types.ModuleName, "reputation-bounds",
			fmt.Sprintf("found %d reputations with invalid state\n%s", len(reputations), msg),
		), broken
	}
}

// RoundTotalsInvariant checks that each round's running totals equal the sums
// over its stored submissions. Slashing does not alter totals, so slashed
// submissions count too.
func RoundTotalsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg    string
			broken bool
		)

		rounds, err := k.GetAllConsensusRounds(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "round-totals", err.Error()), true
		}

		for _, round := range rounds {
			submissions, err := k.GetWindowSubmissions(ctx, round.FeedId, round.WindowId)
			if err != nil {
				return sdk.FormatInvariant(types.ModuleName, "round-totals", err.Error()), true
			}

			recomputed := types.NewConsensusRound(round.FeedId, round.WindowId)
			for _, s := range submissions {
				if err := recomputed.Fold(s.Price, s.Weight); err != nil {
					msg += fmt.Sprintf("round (%d, %d): %s\n", round.FeedId, round.WindowId, err)
					broken = true
					break
				}
			}
			weightSum, priceWeightSum := recomputed.WeightSum, recomputed.PriceWeightSum

			if uint64(len(submissions)) != round.SubmissionCount {
				msg += fmt.Sprintf("round (%d, %d): count %d, stored submissions %d\n",
					round.FeedId, round.WindowId, round.SubmissionCount, len(submissions))
				broken = true
			}
			if !weightSum.Equal(round.WeightSum) {
				msg += fmt.Sprintf("round (%d, %d): weight sum %s, recomputed %s\n",
					round.FeedId, round.WindowId, round.WeightSum, weightSum)
				broken = true
			}
			if !priceWeightSum.Equal(round.PriceWeightSum) {
				msg += fmt.Sprintf("round (%d, %d): price-weight sum %s, recomputed %s\n",
					round.FeedId, round.WindowId, round.PriceWeightSum, priceWeightSum)
				broken = true
			}
		}

		return sdk.FormatInvariant(
			types.ModuleName, "round-totals",
			fmt.Sprintf("checked %d rounds\n%s", len(rounds), msg),
		), broken
	}
}

// FinalizedPriceInvariant checks that every feed's round counter matches its
// history and that the latest price is the last finalized consensus price
func FinalizedPriceInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg    string
			broken bool
		)

		feeds, err := k.GetAllFeeds(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "finalized-price-consistency", err.Error()), true
		}

		for _, feed := range feeds {
			history, err := k.GetConsensusHistory(ctx, feed.Id)
			if err != nil {
				return sdk.FormatInvariant(types.ModuleName, "finalized-price-consistency", err.Error()), true
			}

			if uint64(len(history)) != feed.RoundCount {
				msg += fmt.Sprintf("feed %d: round count %d, history entries %d\n", feed.Id, feed.RoundCount, len(history))
				broken = true
				continue
			}
			if feed.RoundCount == 0 {
				if !feed.LatestPrice.IsZero() {
					msg += fmt.Sprintf("feed %d: price %s without a finalized round\n", feed.Id, feed.LatestPrice)
					broken = true
				}
				continue
			}

			last := history[len(history)-1]
			if !last.Price.Equal(feed.LatestPrice) {
				msg += fmt.Sprintf("feed %d: latest price %s, last consensus %s\n", feed.Id, feed.LatestPrice, last.Price)
				broken = true
			}
		}

		return sdk.FormatInvariant(
			types.ModuleName, "finalized-price-consistency",
			fmt.Sprintf("checked %d feeds\n%s", len(feeds), msg),
		), broken
	}
}

// FeedCountInvariant checks that feed ids run densely from 1 to FeedCount
func FeedCountInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		state, err := k.GetAdminState(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "feed-count", err.Error()), true
		}
		feeds, err := k.GetAllFeeds(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "feed-count", err.Error()), true
		}

		var (
			msg    string
			broken bool
		)
		if uint64(len(feeds)) != state.FeedCount {
			msg += fmt.Sprintf("feed count %d, stored feeds %d\n", state.FeedCount, len(feeds))
			broken = true
		}
		for i, feed := range feeds {
			if feed.Id != uint64(i+1) {
				msg += fmt.Sprintf("feed at position %d has id %d\n", i, feed.Id)
				broken = true
			}
		}

		return sdk.FormatInvariant(types.ModuleName, "feed-count", msg), broken
	}
}
