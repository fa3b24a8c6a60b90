package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/burnoracle/x/oracle/types"
)

// CreateFeed registers a new active feed under the next sequential id. Owner only.
func (k Keeper) CreateFeed(ctx context.Context, signer, name string) (uint64, error) {
	state, err := k.GetAdminState(ctx)
	if err != nil {
		return 0, err
	}
	if err := checkPaused(state); err != nil {
		return 0, err
	}
	if err := requireOwner(state, signer); err != nil {
		return 0, err
	}
	if err := types.ValidateFeedName(name); err != nil {
		return 0, err
	}

	state.FeedCount++
	feed := types.NewFeed(state.FeedCount, name)
	if err := k.SetFeed(ctx, feed); err != nil {
		return 0, fmt.Errorf("CreateFeed: %w", err)
	}
	if err := k.SetAdminState(ctx, state); err != nil {
		return 0, fmt.Errorf("CreateFeed: %w", err)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeedCreated,
			sdk.NewAttribute(types.AttributeKeyFeedID, fmt.Sprintf("%d", feed.Id)),
			sdk.NewAttribute(types.AttributeKeyFeedName, feed.Name),
			sdk.NewAttribute(types.AttributeKeyBlockHeight, fmt.Sprintf("%d", sdkCtx.BlockHeight())),
		),
	)

	k.Logger(ctx).Info("Feed created", "feed_id", feed.Id, "name", feed.Name)
	k.metrics.FeedsTracked.Set(float64(state.FeedCount))

	return feed.Id, nil
}

// GetFeed returns a feed by id
func (k Keeper) GetFeed(ctx context.Context, feedID uint64) (types.Feed, error) {
	var feed types.Feed
	found, err := getValue(k.getStore(ctx), types.FeedKey(feedID), &feed)
	if err != nil {
		return types.Feed{}, err
	}
	if !found {
		return types.Feed{}, types.ErrFeedNotFound.Wrapf("feed %d", feedID)
	}
	return feed, nil
}

// GetPrice returns the latest finalized price of a feed and the block time it was finalized at
func (k Keeper) GetPrice(ctx context.Context, feedID uint64) (math.Int, int64, error) {
	feed, err := k.GetFeed(ctx, feedID)
	if err != nil {
		return math.Int{}, 0, err
	}
	return feed.LatestPrice, feed.LatestTimestamp, nil
}

// SetFeed stores a feed record
func (k Keeper) SetFeed(ctx context.Context, feed types.Feed) error {
	return setValue(k.getStore(ctx), types.FeedKey(feed.Id), feed)
}

// GetAllFeeds returns every feed ordered by id
func (k Keeper) GetAllFeeds(ctx context.Context) ([]types.Feed, error) {
	return collectValues[types.Feed](k.getStore(ctx), types.FeedKeyPrefix)
}

// recordFinalizedPrice is the only path that writes a feed's latest price.
// The returned feed's RoundCount is the new round number.
func (k Keeper) recordFinalizedPrice(ctx context.Context, feed types.Feed, price math.Int) (types.Feed, error) {
	feed.LatestPrice = price
	feed.LatestTimestamp = sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
	feed.RoundCount++
	if err := k.SetFeed(ctx, feed); err != nil {
		return types.Feed{}, err
	}
	return feed, nil
}
