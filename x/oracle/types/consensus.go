package types

import (
	"cosmossdk.io/math"
)

// Submission is one reporter's observation for a (feed, window).
// Weight is fixed when the submission is accepted; only Slashed changes afterwards.
type Submission struct {
	FeedId     uint64   `json:"feed_id"`
	WindowId   int64    `json:"window_id"`
	Reporter   string   `json:"reporter"`
	Price      math.Int `json:"price"`
	BurnAmount math.Int `json:"burn_amount"`
	Timestamp  int64    `json:"timestamp"`
	Weight     math.Int `json:"weight"`
	Slashed    bool     `json:"slashed"`
}

// ConsensusRound accumulates the weighted submissions of one (feed, window)
type ConsensusRound struct {
	FeedId          uint64   `json:"feed_id"`
	WindowId        int64    `json:"window_id"`
	WeightSum       math.Int `json:"weight_sum"`
	PriceWeightSum  math.Int `json:"price_weight_sum"`
	SubmissionCount uint64   `json:"submission_count"`
	Finalized       bool     `json:"finalized"`
	ConsensusPrice  math.Int `json:"consensus_price"`
	FinalizedHeight int64    `json:"finalized_height,omitempty"`
}

// ConsensusHistoryEntry is the audit record of one finalized round
type ConsensusHistoryEntry struct {
	FeedId           uint64   `json:"feed_id"`
	Round            uint64   `json:"round"`
	Price            math.Int `json:"price"`
	ParticipantCount uint64   `json:"participant_count"`
	WindowId         int64    `json:"window_id"`
	Timestamp        int64    `json:"timestamp"`
}

// NewConsensusRound returns an empty open round
func NewConsensusRound(feedID uint64, windowID int64) ConsensusRound {
	return ConsensusRound{
		FeedId:         feedID,
		WindowId:       windowID,
		WeightSum:      math.ZeroInt(),
		PriceWeightSum: math.ZeroInt(),
		ConsensusPrice: math.ZeroInt(),
	}
}

// Fold adds one weighted observation to the running totals.
// The round is left untouched when either total would overflow.
func (r *ConsensusRound) Fold(price, weight math.Int) error {
	weightSum, err := r.WeightSum.SafeAdd(weight)
	if err != nil {
		return ErrInvalidAmount.Wrapf("round (%d, %d) weight sum: %s", r.FeedId, r.WindowId, err)
	}
	product, err := price.SafeMul(weight)
	if err != nil {
		return ErrInvalidAmount.Wrapf("price %s * weight %s: %s", price, weight, err)
	}
	priceWeightSum, err := r.PriceWeightSum.SafeAdd(product)
	if err != nil {
		return ErrInvalidAmount.Wrapf("round (%d, %d) price weight sum: %s", r.FeedId, r.WindowId, err)
	}

	r.WeightSum = weightSum
	r.PriceWeightSum = priceWeightSum
	r.SubmissionCount++
	return nil
}

// WeightedAverage returns PriceWeightSum / WeightSum, truncated toward zero
func (r ConsensusRound) WeightedAverage() (math.Int, error) {
	if r.SubmissionCount == 0 || r.WeightSum.IsNil() || !r.WeightSum.IsPositive() {
		return math.Int{}, ErrInvalidAmount.Wrapf("round (%d, %d) has no weighted submissions", r.FeedId, r.WindowId)
	}
	return r.PriceWeightSum.Quo(r.WeightSum), nil
}

// IsAccurate reports whether price lies strictly within consensus/divisor of consensus
func IsAccurate(price, consensus math.Int, divisor int64) bool {
	band := consensus.QuoRaw(divisor)
	return price.Sub(consensus).Abs().LT(band)
}
