package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const flagRefreshInterval = "refresh-interval"

// StartPrometheusServer starts a Prometheus metrics HTTP server on the given port.
// It runs in a background goroutine and logs startup failures.
func StartPrometheusServer(nctx *nodeContext, port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			nctx.logger.Error("prometheus server error", "error", err)
		}
	}()

	return server
}

// StartMetricsCmd serves /metrics and republishes the state gauges on an interval
func StartMetricsCmd(nctx *nodeContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-metrics",
		Short: "Serve oracle metrics on /metrics",
		Long: `Serve Prometheus metrics on the configured metrics port. State gauges (pause
flag, feed count, consensus prices, reputations) are reloaded from the state
database every refresh interval. A refresh is skipped while another command
holds the database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			interval, _ := cmd.Flags().GetDuration(flagRefreshInterval)
			if interval <= 0 {
				return fmt.Errorf("refresh interval must be positive, got %s", interval)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			refreshMetrics(nctx)
			server := StartPrometheusServer(nctx, nctx.config.MetricsPort)
			nctx.logger.Info("serving metrics", "port", nctx.config.MetricsPort, "refresh", interval)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					return server.Shutdown(shutdownCtx)
				case <-ticker.C:
					refreshMetrics(nctx)
				}
			}
		},
	}

	cmd.Flags().Duration(flagRefreshInterval, 10*time.Second, "how often state gauges are reloaded")
	return cmd
}

func refreshMetrics(nctx *nodeContext) {
	a, err := nctx.openApp()
	if err != nil {
		nctx.logger.Warn("skipping metrics refresh", "error", err)
		return
	}
	defer a.Close()

	ctx, err := a.QueryContext()
	if err != nil {
		nctx.logger.Warn("skipping metrics refresh", "error", err)
		return
	}
	if err := a.OracleKeeper.RefreshMetrics(ctx); err != nil {
		nctx.logger.Error("metrics refresh failed", "error", err)
	}
}
