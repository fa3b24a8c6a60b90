// Package keeper implements the oracle keeper for burn-staked price feeds.
//
// Reporters back each observation by burning tokens. A submission's weight is
// the burned amount times a multiplier derived from the reporter's reputation
// score, so long-lived accurate reporters move the price more per burned unit.
//
// # Core Functionality
//
// Feed Registry: the owner creates named feeds under sequential ids. A feed's
// latest price is written only when a window is finalized.
//
// Submissions: one per (feed, window, reporter). Windows are fixed spans of
// ConsensusWindow blocks identified by their start height. The burn, the
// submission record, the window accumulator and the reputation counters are
// written together or not at all.
//
// Consensus: once a window has closed anyone may finalize it. The consensus
// price is the weight-averaged price truncated toward zero. Finalization
// appends to the feed's history and rewards reporters within 5% of consensus.
//
// Slashing: the owner may flag a submission. The reporter's score drops; the
// recorded consensus price is not recomputed.
//
// Circuit Breaker: the emergency admin toggles a global pause that blocks new
// feeds and submissions. Queries, finalization and slashing stay available.
//
// # Usage Patterns
//
//	id, err := k.CreateFeed(ctx, owner, "BTC/USD")
//	sub, err := k.SubmitFeedData(ctx, reporter, id, price, burn)
//	entry, err := k.FinalizeConsensus(ctx, id, sub.WindowId)
//	price, ts, err := k.GetPrice(ctx, id)
//
// # Metrics
//
// Exposes Prometheus metrics for submissions, burns, rejections,
// finalizations and reporter scores via OracleMetrics.
package keeper
