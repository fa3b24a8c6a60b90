package types

import (
	"errors"

	sdkerrors "cosmossdk.io/errors"
)

// Oracle module sentinel errors
var (
	// Admin and authorization errors
	ErrUnauthorized         = sdkerrors.Register(ModuleName, 2, "unauthorized")
	ErrCircuitBreakerActive = sdkerrors.Register(ModuleName, 3, "circuit breaker is active")

	// Submission errors
	ErrInvalidAmount       = sdkerrors.Register(ModuleName, 4, "invalid amount")
	ErrFeedNotFound        = sdkerrors.Register(ModuleName, 5, "feed not found")
	ErrInsufficientBurn    = sdkerrors.Register(ModuleName, 6, "insufficient burn amount")
	ErrInvalidTimestamp    = sdkerrors.Register(ModuleName, 7, "invalid timestamp")
	ErrDuplicateSubmission = sdkerrors.Register(ModuleName, 8, "duplicate submission")
	ErrBurnFailed          = sdkerrors.Register(ModuleName, 9, "burn failed")
	ErrInvalidFeedName     = sdkerrors.Register(ModuleName, 10, "invalid feed name")
	ErrInvalidAddress      = sdkerrors.Register(ModuleName, 11, "invalid address")

	// Consensus errors
	ErrRoundNotFound      = sdkerrors.Register(ModuleName, 20, "consensus round not found")
	ErrRoundFinalized     = sdkerrors.Register(ModuleName, 21, "consensus round already finalized")
	ErrSubmissionNotFound = sdkerrors.Register(ModuleName, 22, "submission not found")

	// State errors
	ErrInvalidParams   = sdkerrors.Register(ModuleName, 30, "invalid params")
	ErrInvalidGenesis  = sdkerrors.Register(ModuleName, 31, "invalid genesis state")
	ErrStateCorruption = sdkerrors.Register(ModuleName, 32, "state corruption detected")
)

// ErrorWithRecovery wraps an error with recovery suggestions
type ErrorWithRecovery struct {
	Err      error
	Recovery string
}

func (e *ErrorWithRecovery) Error() string {
	return e.Err.Error()
}

func (e *ErrorWithRecovery) Unwrap() error {
	return e.Err
}

// RecoverySuggestions provides actionable recovery steps for each error type
var RecoverySuggestions = map[error]string{
	ErrUnauthorized:         "Only the owner may create feeds, slash or rotate the emergency admin. Only the emergency admin may toggle the pause flag. Check the signer against the contract status query.",
	ErrCircuitBreakerActive: "The oracle is paused. Submissions and feed creation resume once the emergency admin toggles the pause flag off. Read-only queries remain available.",

	ErrInvalidAmount:       "Price must be positive. Finalization needs at least one submission. A slashed submission cannot be slashed again.",
	ErrFeedNotFound:        "Feed id does not exist or the feed is inactive. Query the contract status for the current feed count.",
	ErrInsufficientBurn:    "Burn amount is below the minimum. Query required-burn for the reputation-scaled amount and min_burn_amount in params for the flat floor.",
	ErrInvalidTimestamp:    "The reporting window has not closed yet. Wait until consensus_window blocks have passed since the window start height.",
	ErrDuplicateSubmission: "A submission for this feed, window and reporter already exists. Each reporter submits once per window. Wait for the next window.",
	ErrBurnFailed:          "The burn could not be executed. Check that the reporter holds enough of the burn denom.",
	ErrInvalidFeedName:     "Feed name must be non-empty, printable and at most 64 characters.",
	ErrInvalidAddress:      "Address is not valid bech32. Check the account prefix.",

	ErrRoundNotFound:      "No submission was ever recorded for this feed and window. Window ids are the start height of a window.",
	ErrRoundFinalized:     "The window was already finalized. Query consensus data for the stored result.",
	ErrSubmissionNotFound: "No submission exists for this feed, window and reporter.",

	ErrInvalidParams:   "Params failed validation. Check score bounds, window length and burn floor.",
	ErrInvalidGenesis:  "Genesis failed validation. Check owner and emergency admin addresses and that every record references an existing feed.",
	ErrStateCorruption: "CRITICAL: a stored oracle record could not be decoded. Export genesis from the last good height and inspect the failing key.",
}

// WrapWithRecovery wraps an error with recovery suggestion
func WrapWithRecovery(err error, msg string, args ...interface{}) error {
	wrapped := sdkerrors.Wrapf(err, msg, args...)

	if suggestion, ok := RecoverySuggestions[err]; ok {
		return &ErrorWithRecovery{
			Err:      wrapped,
			Recovery: suggestion,
		}
	}

	return wrapped
}

// GetRecoverySuggestion returns the recovery suggestion for an error
func GetRecoverySuggestion(err error) string {
	for _, sentinel := range recoveryOrder {
		if errors.Is(err, sentinel) {
			return RecoverySuggestions[sentinel]
		}
	}

	return "No recovery suggestion available. Check error message for details. Query contract status."
}

// map iteration order is random; errors.Is must be tried in a fixed order
var recoveryOrder = []error{
	ErrUnauthorized,
	ErrCircuitBreakerActive,
	ErrInvalidAmount,
	ErrFeedNotFound,
	ErrInsufficientBurn,
	ErrInvalidTimestamp,
	ErrDuplicateSubmission,
	ErrBurnFailed,
	ErrInvalidFeedName,
	ErrInvalidAddress,
	ErrRoundNotFound,
	ErrRoundFinalized,
	ErrSubmissionNotFound,
	ErrInvalidParams,
	ErrInvalidGenesis,
	ErrStateCorruption,
}
