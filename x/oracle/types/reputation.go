package types

import (
	"cosmossdk.io/math"
)

// Reputation multipliers are expressed in hundredths: 100 == 1.0x.
const (
	MultiplierDenominator = 100

	multiplierTierLow     = 50
	multiplierTierNeutral = 100
	multiplierTierHigh    = 200
	multiplierTierTop     = 300
)

// Reputation tier thresholds
const (
	ScoreThresholdNeutral = 100
	ScoreThresholdHigh    = 150
	ScoreThresholdTop     = 200
)

// Reputation is the long-lived trust record of a reporter
type Reputation struct {
	Reporter            string   `json:"reporter"`
	TotalSubmissions    uint64   `json:"total_submissions"`
	AccurateSubmissions uint64   `json:"accurate_submissions"`
	TotalBurned         math.Int `json:"total_burned"`
	Score               uint64   `json:"score"`
	LastActiveWindow    int64    `json:"last_active_window"`
}

// NewReputation returns the default record of a reporter that never submitted:
// zero counters and the neutral score from params.
func NewReputation(reporter string, params Params) Reputation {
	return Reputation{
		Reporter:    reporter,
		TotalBurned: math.ZeroInt(),
		Score:       params.DefaultScore,
	}
}

// ReputationMultiplier maps a score to its stake multiplier in hundredths.
// Tiers: >=200 -> 3.0x, >=150 -> 2.0x, >=100 -> 1.0x, below -> 0.5x.
func ReputationMultiplier(score uint64) uint64 {
	switch {
	case score >= ScoreThresholdTop:
		return multiplierTierTop
	case score >= ScoreThresholdHigh:
		return multiplierTierHigh
	case score >= ScoreThresholdNeutral:
		return multiplierTierNeutral
	default:
		return multiplierTierLow
	}
}

// SubmissionWeight is burn * multiplier, in hundredths of a burned unit
func SubmissionWeight(burn math.Int, score uint64) (math.Int, error) {
	weight, err := burn.SafeMul(math.NewIntFromUint64(ReputationMultiplier(score)))
	if err != nil {
		return math.Int{}, ErrInvalidAmount.Wrapf("weight of burn %s: %s", burn, err)
	}
	return weight, nil
}

// RequiredBurn scales the flat minimum down by the reporter's multiplier
func RequiredBurn(minBurn math.Int, score uint64) math.Int {
	return minBurn.MulRaw(MultiplierDenominator).Quo(math.NewIntFromUint64(ReputationMultiplier(score)))
}

// RecordSubmission bumps the submission counters. The score is untouched.
func (r *Reputation) RecordSubmission(burn math.Int, windowID int64) {
	r.TotalSubmissions++
	if r.TotalBurned.IsNil() {
		r.TotalBurned = math.ZeroInt()
	}
	r.TotalBurned = r.TotalBurned.Add(burn)
	r.LastActiveWindow = windowID
}

// ApplyAccuracyOutcome rewards or penalizes the score after a finalized window
func (r *Reputation) ApplyAccuracyOutcome(accurate bool, params Params) {
	if accurate {
		r.AccurateSubmissions++
		r.Score = raiseScore(r.Score, params.AccuracyReward, params)
		return
	}
	r.Score = lowerScore(r.Score, params.InaccuracyPenalty, params)
}

// ApplySlashPenalty lowers the score by the slash penalty
func (r *Reputation) ApplySlashPenalty(params Params) {
	r.Score = lowerScore(r.Score, params.SlashPenalty, params)
}

// AccuracyRate returns accurate/total, zero when nothing was submitted
func (r Reputation) AccuracyRate() math.LegacyDec {
	if r.TotalSubmissions == 0 {
		return math.LegacyZeroDec()
	}
	return math.LegacyNewDec(int64(r.AccurateSubmissions)).QuoInt64(int64(r.TotalSubmissions))
}

func raiseScore(score, delta uint64, params Params) uint64 {
	if score >= params.MaxScore || delta >= params.MaxScore-score {
		return params.MaxScore
	}
	return ClampScore(score+delta, params)
}

func lowerScore(score, delta uint64, params Params) uint64 {
	if score <= params.MinScore || delta >= score-params.MinScore {
		return params.MinScore
	}
	return ClampScore(score-delta, params)
}

// ClampScore bounds a score to [MinScore, MaxScore]
func ClampScore(score uint64, params Params) uint64 {
	if score < params.MinScore {
		return params.MinScore
	}
	if score > params.MaxScore {
		return params.MaxScore
	}
	return score
}
