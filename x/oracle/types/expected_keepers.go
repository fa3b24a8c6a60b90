package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper defines the bank keeper methods the oracle uses to burn stake.
// SendCoinsFromAccountToModule fails cleanly when the balance is insufficient.
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	BurnCoins(ctx context.Context, moduleName string, amounts sdk.Coins) error
}

// OracleKeeperV1 is the versioned read interface for external consumers of finalized prices.
type OracleKeeperV1 interface {
	// GetPrice returns the latest finalized price and its block timestamp.
	GetPrice(ctx context.Context, feedID uint64) (price math.Int, timestamp int64, err error)

	// IsPaused reports whether the global circuit breaker is engaged.
	IsPaused(ctx context.Context) bool
}
