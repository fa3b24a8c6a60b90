package types

import (
	"strings"
	"unicode"

	"cosmossdk.io/math"
)

// MaxFeedNameLength bounds feed names
const MaxFeedNameLength = 64

// Feed is a named price feed and its latest finalized price.
// LatestPrice is only ever written by consensus finalization.
type Feed struct {
	Id              uint64   `json:"id"`
	Name            string   `json:"name"`
	LatestPrice     math.Int `json:"latest_price"`
	LatestTimestamp int64    `json:"latest_timestamp"`
	RoundCount      uint64   `json:"round_count"`
	Active          bool     `json:"active"`
}

// NewFeed returns an active feed with no finalized price yet
func NewFeed(id uint64, name string) Feed {
	return Feed{
		Id:          id,
		Name:        name,
		LatestPrice: math.ZeroInt(),
		Active:      true,
	}
}

// ValidateFeedName checks a feed name is non-empty, printable and bounded
func ValidateFeedName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidFeedName.Wrap("name cannot be empty")
	}
	if len(name) > MaxFeedNameLength {
		return ErrInvalidFeedName.Wrapf("name length %d exceeds %d", len(name), MaxFeedNameLength)
	}
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return ErrInvalidFeedName.Wrapf("name contains non-printable character %q", r)
		}
	}
	return nil
}

// Validate checks a stored feed record
func (f Feed) Validate() error {
	if f.Id == 0 {
		return ErrFeedNotFound.Wrap("feed id must be positive")
	}
	if err := ValidateFeedName(f.Name); err != nil {
		return err
	}
	if f.LatestPrice.IsNil() || f.LatestPrice.IsNegative() {
		return ErrInvalidAmount.Wrapf("feed %d has invalid latest price", f.Id)
	}
	return nil
}
