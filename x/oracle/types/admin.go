package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AdminState is the owned configuration object every operation consults:
// the fixed owner, the rotatable emergency admin, the global pause flag and
// the feed counter.
type AdminState struct {
	Owner          string `json:"owner"`
	EmergencyAdmin string `json:"emergency_admin"`
	Paused         bool   `json:"paused"`
	FeedCount      uint64 `json:"feed_count"`
}

// Validate checks both principals are well-formed addresses
func (s AdminState) Validate() error {
	if _, err := sdk.AccAddressFromBech32(s.Owner); err != nil {
		return ErrInvalidAddress.Wrapf("owner: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(s.EmergencyAdmin); err != nil {
		return ErrInvalidAddress.Wrapf("emergency admin: %s", err)
	}
	return nil
}

// ContractStatus is the read-only summary returned by the status query
type ContractStatus struct {
	Owner          string `json:"owner"`
	EmergencyAdmin string `json:"emergency_admin"`
	Paused         bool   `json:"paused"`
	FeedCount      uint64 `json:"feed_count"`
	BlockHeight    int64  `json:"block_height"`
	CurrentWindow  int64  `json:"current_window"`
	Params         Params `json:"params"`
}
