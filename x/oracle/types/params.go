package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// DefaultBurnDenom is the denom reporters burn to submit
const DefaultBurnDenom = "uoracle"

// Params defines the tunable constants of the oracle
type Params struct {
	BurnDenom     string   `json:"burn_denom"`
	MinBurnAmount math.Int `json:"min_burn_amount"`

	// ConsensusWindow is the window length in blocks
	ConsensusWindow int64 `json:"consensus_window"`

	MinScore          uint64 `json:"min_score"`
	MaxScore          uint64 `json:"max_score"`
	DefaultScore      uint64 `json:"default_score"`
	AccuracyReward    uint64 `json:"accuracy_reward"`
	InaccuracyPenalty uint64 `json:"inaccuracy_penalty"`
	SlashPenalty      uint64 `json:"slash_penalty"`

	// DeviationDivisor sets the accuracy band: |price - consensus| < consensus / DeviationDivisor
	DeviationDivisor int64 `json:"deviation_divisor"`
}

// DefaultParams returns default oracle parameters
func DefaultParams() Params {
	return Params{
		BurnDenom:         DefaultBurnDenom,
		MinBurnAmount:     math.NewInt(1_000_000),
		ConsensusWindow:   10, // 10 blocks
		MinScore:          10,
		MaxScore:          300,
		DefaultScore:      100,
		AccuracyReward:    5,
		InaccuracyPenalty: 10,
		SlashPenalty:      20,
		DeviationDivisor:  20, // 5%
	}
}

// Validate performs basic validation of oracle parameters
func (p Params) Validate() error {
	if err := sdk.ValidateDenom(p.BurnDenom); err != nil {
		return ErrInvalidParams.Wrapf("burn denom: %s", err)
	}
	if p.MinBurnAmount.IsNil() || !p.MinBurnAmount.IsPositive() {
		return ErrInvalidParams.Wrap("min burn amount must be positive")
	}
	if p.ConsensusWindow <= 0 {
		return ErrInvalidParams.Wrapf("consensus window must be positive: %d", p.ConsensusWindow)
	}
	if p.MinScore == 0 || p.MinScore > p.MaxScore {
		return ErrInvalidParams.Wrapf("score bounds must satisfy 0 < min <= max, got [%d, %d]", p.MinScore, p.MaxScore)
	}
	if p.DefaultScore < p.MinScore || p.DefaultScore > p.MaxScore {
		return ErrInvalidParams.Wrapf("default score %d outside [%d, %d]", p.DefaultScore, p.MinScore, p.MaxScore)
	}
	if p.DeviationDivisor <= 0 {
		return ErrInvalidParams.Wrapf("deviation divisor must be positive: %d", p.DeviationDivisor)
	}

	return nil
}

// WindowID returns the window a block height belongs to: the window's start height
func (p Params) WindowID(height int64) int64 {
	return height - height%p.ConsensusWindow
}

// String implements fmt.Stringer
func (p Params) String() string {
	return fmt.Sprintf(
		"burn_denom=%s min_burn=%s window=%d score=[%d,%d] default=%d",
		p.BurnDenom, p.MinBurnAmount, p.ConsensusWindow, p.MinScore, p.MaxScore, p.DefaultScore,
	)
}
