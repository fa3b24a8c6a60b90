package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paw-chain/burnoracle/api"
	"github.com/paw-chain/burnoracle/x/oracle/keeper"
	"github.com/paw-chain/burnoracle/x/oracle/types"
)

const (
	flagAPIPort     = "api-port"
	flagCORSOrigins = "cors-origins"
	flagRateLimit   = "rate-limit"
)

// StartAPICmd serves the read-only REST gateway
func StartAPICmd(nctx *nodeContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-api",
		Short: "Serve the read-only REST gateway",
		Long: `Serve oracle queries over HTTP under /oracle/v1. Each request opens the state
database, so requests are served one at a time and fail with 503 while
another command holds the database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := api.DefaultConfig()
			cfg.Port, _ = cmd.Flags().GetInt(flagAPIPort)
			cfg.CORSOrigins, _ = cmd.Flags().GetStringSlice(flagCORSOrigins)
			cfg.RateLimitRPS, _ = cmd.Flags().GetInt(flagRateLimit)

			server, err := api.NewServer(stateSource(nctx), cfg, nctx.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				return server.Stop(context.Background())
			}
		},
	}

	def := api.DefaultConfig()
	cmd.Flags().Int(flagAPIPort, def.Port, "port of the REST gateway")
	cmd.Flags().StringSlice(flagCORSOrigins, def.CORSOrigins, "allowed CORS origins")
	cmd.Flags().Int(flagRateLimit, def.RateLimitRPS, "requests per second per client IP; 0 disables limiting")
	return cmd
}

// stateSource opens the node state per request
func stateSource(nctx *nodeContext) api.QuerySource {
	var mu sync.Mutex

	return func() (context.Context, types.QueryServer, func(), error) {
		mu.Lock()
		a, err := nctx.openApp()
		if err != nil {
			mu.Unlock()
			return nil, nil, nil, err
		}
		release := func() {
			_ = a.Close()
			mu.Unlock()
		}

		ctx, err := a.QueryContext()
		if err != nil {
			release()
			return nil, nil, nil, err
		}
		return ctx, keeper.NewQueryServerImpl(*a.OracleKeeper), release, nil
	}
}
