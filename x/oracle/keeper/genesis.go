package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/burnoracle/x/oracle/types"
)

// InitGenesis initializes the oracle module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, data types.GenesisState) error {
	if err := data.Validate(); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}

	if err := k.SetParams(ctx, data.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}

	if err := k.SetAdminState(ctx, data.AdminState); err != nil {
		return fmt.Errorf("failed to set admin state: %w", err)
	}

	for _, feed := range data.Feeds {
		if err := k.SetFeed(ctx, feed); err != nil {
			return fmt.Errorf("failed to set feed %d: %w", feed.Id, err)
		}
	}

	for _, rep := range data.Reputations {
		if err := k.SetReputation(ctx, rep); err != nil {
			return fmt.Errorf("failed to set reputation for %s: %w", rep.Reporter, err)
		}
	}

	for _, submission := range data.Submissions {
		if err := k.SetSubmission(ctx, submission); err != nil {
			return fmt.Errorf("failed to set submission: %w", err)
		}
	}

	for _, round := range data.Rounds {
		if err := k.SetConsensusRound(ctx, round); err != nil {
			return fmt.Errorf("failed to set round (%d, %d): %w", round.FeedId, round.WindowId, err)
		}
	}

	for _, entry := range data.History {
		if err := k.SetConsensusHistoryEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to set history entry (%d, %d): %w", entry.FeedId, entry.Round, err)
		}
	}

	k.metrics.Paused.Set(boolToFloat(data.AdminState.Paused))
	k.metrics.FeedsTracked.Set(float64(data.AdminState.FeedCount))

	return nil
}

// ExportGenesis exports the oracle module's state to a genesis state
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	state, err := k.GetAdminState(ctx)
	if err != nil {
		return nil, err
	}

	feeds, err := k.GetAllFeeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export feeds: %w", err)
	}

	reputations, err := k.GetAllReputations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export reputations: %w", err)
	}

	submissions, err := k.GetAllSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export submissions: %w", err)
	}

	rounds, err := k.GetAllConsensusRounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export rounds: %w", err)
	}

	history, err := k.GetAllConsensusHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export history: %w", err)
	}

	return &types.GenesisState{
		Params:      k.GetParams(ctx),
		AdminState:  state,
		Feeds:       feeds,
		Reputations: reputations,
		Submissions: submissions,
		Rounds:      rounds,
		History:     history,
	}, nil
}
