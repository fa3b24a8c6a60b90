package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "oracle"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

var (
	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x01}

	// AdminStateKey is the key for owner, emergency admin, pause flag and feed counter
	AdminStateKey = []byte{0x02}

	// FeedKeyPrefix is the prefix for feed records, keyed by feed id
	FeedKeyPrefix = []byte{0x10}

	// SubmissionKeyPrefix is the prefix for submissions, keyed by (feed, window, reporter)
	SubmissionKeyPrefix = []byte{0x11}

	// ReputationKeyPrefix is the prefix for reporter reputation, keyed by reporter
	ReputationKeyPrefix = []byte{0x12}

	// ConsensusRoundKeyPrefix is the prefix for per-window accumulators, keyed by (feed, window)
	ConsensusRoundKeyPrefix = []byte{0x13}

	// ConsensusHistoryKeyPrefix is the prefix for the append-only finalized price log, keyed by (feed, round)
	ConsensusHistoryKeyPrefix = []byte{0x14}
)

// FeedKey returns the store key for a feed
func FeedKey(feedID uint64) []byte {
	return append(cloneKey(FeedKeyPrefix), sdk.Uint64ToBigEndian(feedID)...)
}

// SubmissionsByWindowPrefix returns the prefix for all submissions of a (feed, window) pair.
// Iterating it yields exactly the participants of that window.
func SubmissionsByWindowPrefix(feedID uint64, windowID int64) []byte {
	key := append(cloneKey(SubmissionKeyPrefix), sdk.Uint64ToBigEndian(feedID)...)
	return append(key, sdk.Uint64ToBigEndian(uint64(windowID))...)
}

// SubmissionKey returns the store key for a single reporter's submission in a window
func SubmissionKey(feedID uint64, windowID int64, reporter sdk.AccAddress) []byte {
	return append(SubmissionsByWindowPrefix(feedID, windowID), address.MustLengthPrefix(reporter)...)
}

// ReputationKey returns the store key for a reporter's reputation
func ReputationKey(reporter sdk.AccAddress) []byte {
	return append(cloneKey(ReputationKeyPrefix), address.MustLengthPrefix(reporter)...)
}

// ConsensusRoundKey returns the store key for a (feed, window) accumulator
func ConsensusRoundKey(feedID uint64, windowID int64) []byte {
	key := append(cloneKey(ConsensusRoundKeyPrefix), sdk.Uint64ToBigEndian(feedID)...)
	return append(key, sdk.Uint64ToBigEndian(uint64(windowID))...)
}

// ConsensusHistoryPrefix returns the prefix for a feed's finalized price log
func ConsensusHistoryPrefix(feedID uint64) []byte {
	return append(cloneKey(ConsensusHistoryKeyPrefix), sdk.Uint64ToBigEndian(feedID)...)
}

// ConsensusHistoryKey returns the store key for one finalized round of a feed
func ConsensusHistoryKey(feedID, round uint64) []byte {
	return append(ConsensusHistoryPrefix(feedID), sdk.Uint64ToBigEndian(round)...)
}

// prefixes are package-level slices; appending to them directly could alias
func cloneKey(prefix []byte) []byte {
	key := make([]byte, len(prefix), len(prefix)+32)
	copy(key, prefix)
	return key
}
