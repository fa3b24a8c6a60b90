package cmd

import (
	"context"
	"fmt"
	"os"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/paw-chain/burnoracle/app"
	"github.com/paw-chain/burnoracle/app/telemetry"
)

const (
	flagHome        = "home"
	flagLogLevel    = "log-level"
	flagMetricsPort = "metrics-port"
	flagDBBackend   = "db-backend"
	flagBlockTime   = "block-time"
	flagOTLP        = "otlp-endpoint"
)

// nodeContext carries the resolved home, configuration and logger to every command
type nodeContext struct {
	viper   *viper.Viper
	home    string
	config  Config
	logger  log.Logger
	tracing *telemetry.Provider
}

// NewRootCmd creates a new root command for oracled. It is called once in the
// main function.
func NewRootCmd() *cobra.Command {
	nctx := &nodeContext{viper: newViper()}

	rootCmd := &cobra.Command{
		Use:   app.AppName,
		Short: "Burn-staked consensus oracle node",
		Long: `oracled runs a single-node ledger hosting the burn-staked oracle. Reporters
burn tokens to back price submissions, a reputation-weighted average closes
each window, and the owner may slash bad data.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// set the default command outputs
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			return nctx.load(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return nctx.shutdown(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(flagHome, DefaultNodeHome(), "directory for config and data")
	flags.String(flagLogLevel, DefaultConfig().LogLevel, "log level (trace|debug|info|warn|error)")
	flags.Int(flagMetricsPort, DefaultConfig().MetricsPort, "port of the Prometheus /metrics endpoint")
	flags.String(flagDBBackend, DefaultConfig().DBBackend, "state database backend (goleveldb|memdb)")
	flags.Duration(flagBlockTime, DefaultConfig().BlockTime, "header time advance per block")
	flags.String(flagOTLP, "", "OTLP/HTTP collector address for traces; empty disables tracing")

	if err := bindFlags(nctx.viper, flags); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(
		InitCmd(nctx),
		TxCmd(nctx),
		QueryCmd(nctx),
		AdvanceCmd(nctx),
		StartMetricsCmd(nctx),
		StartAPICmd(nctx),
	)

	return rootCmd
}

// bindFlags maps the persistent flags onto their config keys
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, flag := range map[string]string{
		keyLogLevel:    flagLogLevel,
		keyMetricsPort: flagMetricsPort,
		keyDBBackend:   flagDBBackend,
		keyBlockTime:   flagBlockTime,
		keyOTLP:        flagOTLP,
		flagHome:       flagHome,
	} {
		f := flags.Lookup(flag)
		if f == nil {
			return fmt.Errorf("flag --%s not defined", flag)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

func (n *nodeContext) load(cmd *cobra.Command) error {
	n.home = n.viper.GetString(flagHome)
	if n.home == "" {
		n.home = DefaultNodeHome()
	}

	cfg, err := loadConfig(n.viper, n.home)
	if err != nil {
		return err
	}
	n.config = cfg

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	n.logger = log.NewLogger(cmd.ErrOrStderr(), log.LevelOption(level)).With("module", "oracled")

	n.tracing, err = telemetry.NewProvider(telemetry.Config{
		Enabled:      cfg.OTLPEndpoint != "",
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRate:   cfg.TraceSampleRate,
	})
	if err != nil {
		return err
	}

	return nil
}

// shutdown flushes pending spans
func (n *nodeContext) shutdown(ctx context.Context) error {
	if n.tracing == nil {
		return nil
	}
	return n.tracing.Shutdown(ctx)
}

// openApp opens the node state. The caller must Close the app.
func (n *nodeContext) openApp() (*app.App, error) {
	if n.config.DBBackend != "memdb" {
		if err := os.MkdirAll(dataDir(n.home), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := openDB(n.config.DBBackend, dataDir(n.home))
	if err != nil {
		return nil, err
	}

	a, err := app.New(db, n.logger, n.config.BlockTime)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}
