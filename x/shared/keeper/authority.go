// Package keeper provides shared keeper utilities for admin-gated operations.
package keeper

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// ValidateAuthority checks that the signer of an admin operation matches the
// principal recorded in state.
//
// Parameters:
//   - expected: the principal address stored in state (owner or emergency admin)
//   - actual: the signer address of the message
//
// Returns:
//   - error: sdkerrors.ErrUnauthorized on mismatch or when no principal is set, nil otherwise
//
// Usage example:
//
//	if err := keeper.ValidateAuthority(state.Owner, msg.Owner); err != nil {
//	    return nil, types.ErrUnauthorized.Wrap(err.Error())
//	}
func ValidateAuthority(expected, actual string) error {
	if expected == "" {
		return sdkerrors.ErrUnauthorized.Wrap("no authority configured")
	}
	if expected != actual {
		return sdkerrors.ErrUnauthorized.Wrapf(
			"invalid authority; expected %s, got %s",
			expected,
			actual,
		)
	}
	return nil
}
