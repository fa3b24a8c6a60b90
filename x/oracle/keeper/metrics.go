package keeper

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/paw-chain/burnoracle/x/oracle/types"
)

// OracleMetrics holds all Prometheus metrics for the oracle module
type OracleMetrics struct {
	// Submission metrics
	Submissions          *prometheus.CounterVec
	BurnedAmount         *prometheus.CounterVec
	SubmissionRejections *prometheus.CounterVec

	// Consensus metrics
	Finalizations         *prometheus.CounterVec
	ConsensusPrice        *prometheus.GaugeVec
	ConsensusParticipants *prometheus.GaugeVec
	FinalizationLatency   prometheus.Histogram

	// Reputation metrics
	ReporterReputation *prometheus.GaugeVec
	SlashingEvents     *prometheus.CounterVec

	// Admin metrics
	Paused       prometheus.Gauge
	FeedsTracked prometheus.Gauge
}

var (
	oracleMetricsOnce sync.Once
	oracleMetrics     *OracleMetrics
)

// NewOracleMetrics creates and registers oracle metrics (singleton pattern)
func NewOracleMetrics() *OracleMetrics {
	oracleMetricsOnce.Do(func() {
		oracleMetrics = &OracleMetrics{
			Submissions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "burnoracle",
					Subsystem: "oracle",
					Name:      "submissions_total",
					Help:      "Accepted burn-backed submissions by feed",
				},
				[]string{"feed"},
			),
			BurnedAmount: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "burnoracle",
					Subsystem: "oracle",
					Name:      "burned_amount_total",
					Help:      "Base units destroyed by submissions",
				},
				[]string{"denom"},
			),
			SubmissionRejections: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "burnoracle",
					Subsystem: "oracle",
					Name:      "submission_rejections_total",
					Help:      "Rejected submissions by reason",
				},
				[]string{"reason"},
			),

			Finalizations: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "burnoracle",
					Subsystem: "oracle",
					Name:      "finalizations_total",
					Help:      "Finalized consensus rounds by feed",
				},
				[]string{"feed"},
			),
			ConsensusPrice: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "burnoracle",
					Subsystem: "oracle",
					Name:      "consensus_price",
					Help:      "Latest finalized price by feed",
				},
				[]string{"feed"},
			),
			ConsensusParticipants: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "burnoracle",
					Subsystem: "oracle",
					Name:      "consensus_participants",
					Help:      "Submissions in the last finalized round by feed",
				},
				[]string{"feed"},
			),
			FinalizationLatency: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "burnoracle",
					Subsystem: "oracle",
					Name:      "finalization_latency_seconds",
					Help:      "Time to finalize a round including reputation updates",
					Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
				},
			),

			ReporterReputation: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "burnoracle",
					Subsystem: "oracle",
					Name:      "reporter_reputation",
					Help:      "Reputation score by reporter",
				},
				[]string{"reporter"},
			),
			SlashingEvents: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "burnoracle",
					Subsystem: "oracle",
					Name:      "slashing_events_total",
					Help:      "Slashed submissions by feed",
				},
				[]string{"feed_id"},
			),

			Paused: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "burnoracle",
					Subsystem: "oracle",
					Name:      "paused",
					Help:      "1 while the circuit breaker is engaged",
				},
			),
			FeedsTracked: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "burnoracle",
					Subsystem: "oracle",
					Name:      "feeds_tracked",
					Help:      "Number of feeds ever created",
				},
			),
		}
	})
	return oracleMetrics
}

// GetOracleMetrics returns the singleton oracle metrics instance
func GetOracleMetrics() *OracleMetrics {
	return NewOracleMetrics()
}

// RefreshMetrics sets the state gauges from stored state. A process that did
// not execute the transitions itself uses it to publish current values.
func (k Keeper) RefreshMetrics(ctx context.Context) error {
	state, err := k.GetAdminState(ctx)
	if err != nil {
		return err
	}
	k.metrics.Paused.Set(boolToFloat(state.Paused))
	k.metrics.FeedsTracked.Set(float64(state.FeedCount))

	feeds, err := k.GetAllFeeds(ctx)
	if err != nil {
		return err
	}
	for _, feed := range feeds {
		if feed.RoundCount > 0 {
			k.metrics.ConsensusPrice.WithLabelValues(feed.Name).Set(intToFloat(feed.LatestPrice))
		}
	}

	return iterateValues(k.getStore(ctx), types.ReputationKeyPrefix, func(rep types.Reputation) (bool, error) {
		k.metrics.ReporterReputation.WithLabelValues(rep.Reporter).Set(float64(rep.Score))
		return false, nil
	})
}
