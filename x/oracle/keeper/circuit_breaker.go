package keeper

import (
	"context"

	"github.com/paw-chain/burnoracle/x/oracle/types"
	sharedkeeper "github.com/paw-chain/burnoracle/x/shared/keeper"
)

// IsPaused checks if the global circuit breaker is engaged. An unreadable
// admin state counts as paused.
func (k Keeper) IsPaused(ctx context.Context) bool {
	state, err := k.GetAdminState(ctx)
	if err != nil {
		k.Logger(ctx).Error("Failed to read admin state, treating oracle as paused", "error", err)
		return true
	}
	return state.Paused
}

// CheckCircuitBreaker returns ErrCircuitBreakerActive while the oracle is paused
func (k Keeper) CheckCircuitBreaker(ctx context.Context) error {
	state, err := k.GetAdminState(ctx)
	if err != nil {
		return err
	}
	return checkPaused(state)
}

func checkPaused(state types.AdminState) error {
	if state.Paused {
		return types.ErrCircuitBreakerActive.Wrapf("paused by emergency admin %s", state.EmergencyAdmin)
	}
	return nil
}

// requireOwner rejects any signer other than the fixed owner
func requireOwner(state types.AdminState, signer string) error {
	if err := sharedkeeper.ValidateAuthority(state.Owner, signer); err != nil {
		return types.ErrUnauthorized.Wrapf("owner only: %s", err)
	}
	return nil
}

// requireEmergencyAdmin rejects any signer other than the current emergency admin
func requireEmergencyAdmin(state types.AdminState, signer string) error {
	if err := sharedkeeper.ValidateAuthority(state.EmergencyAdmin, signer); err != nil {
		return types.ErrUnauthorized.Wrapf("emergency admin only: %s", err)
	}
	return nil
}
