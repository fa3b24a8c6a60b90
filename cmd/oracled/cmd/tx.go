package cmd

import (
	"fmt"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/burnoracle/app"
	"github.com/paw-chain/burnoracle/app/telemetry"
	"github.com/paw-chain/burnoracle/x/oracle/keeper"
	"github.com/paw-chain/burnoracle/x/oracle/types"
	sharedkeeper "github.com/paw-chain/burnoracle/x/shared/keeper"
)

const flagFrom = "from"

type txResult struct {
	Height   int64      `json:"height"`
	Response any        `json:"response"`
	Events   sdk.Events `json:"events"`
}

// TxCmd returns the transaction commands. Each transaction is executed as
// its own block.
func TxCmd(nctx *nodeContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "tx",
		Short:                      "Oracle transaction subcommands",
		SuggestionsMinimumDistance: 2,
		RunE:                       validateCmd,
	}

	cmd.PersistentFlags().String(flagFrom, "", "bech32 address of the caller")

	cmd.AddCommand(
		CmdCreateFeed(nctx),
		CmdSubmitFeedData(nctx),
		CmdFinalizeConsensus(nctx),
		CmdSlashOracle(nctx),
		CmdToggleEmergencyPause(nctx),
		CmdSetEmergencyAdmin(nctx),
		CmdFund(nctx),
	)

	return cmd
}

func validateCmd(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown subcommand %q for %q", args[0], cmd.CommandPath())
	}
	return cmd.Help()
}

func fromAddress(cmd *cobra.Command) (string, error) {
	from, _ := cmd.Flags().GetString(flagFrom)
	if from == "" {
		return "", fmt.Errorf("--%s is required", flagFrom)
	}
	if _, err := sdk.AccAddressFromBech32(from); err != nil {
		return "", types.ErrInvalidAddress.Wrapf("--%s: %s", flagFrom, err)
	}
	return from, nil
}

// runTx opens the node state and executes exec as a new block
func runTx(cmd *cobra.Command, nctx *nodeContext, msg types.Msg, exec func(sdk.Context, types.MsgServer) (any, error)) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}

	a, err := nctx.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	return runTxOn(cmd, nctx, a, msg, exec)
}

// runTxOn executes exec as a new block of a and prints its response and
// events. A failed call still commits an empty block.
func runTxOn(cmd *cobra.Command, nctx *nodeContext, a *app.App, msg types.Msg, exec func(sdk.Context, types.MsgServer) (any, error)) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}

	var resp any
	events, height, err := a.ExecuteBlock(func(ctx sdk.Context) error {
		spanCtx, span := telemetry.StartMsgSpan(ctx.Context(), msg.Type(), msg.GetSigner())
		r, err := exec(ctx.WithContext(spanCtx), keeper.NewMsgServerImpl(*a.OracleKeeper))
		telemetry.EndSpan(span, err)
		resp = r
		return err
	})
	if err != nil {
		nctx.logger.Error("transaction failed", "type", msg.Type(), "signer", msg.GetSigner(), "error", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "recovery: %s\n", types.GetRecoverySuggestion(err))
		return err
	}

	return printJSON(cmd, txResult{Height: height, Response: resp, Events: events})
}

func parseUint(arg, name string) (uint64, error) {
	v, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, arg, err)
	}
	return v, nil
}

func parseInt64(arg, name string) (int64, error) {
	v, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, arg, err)
	}
	return v, nil
}

func parseAmount(arg, name string) (math.Int, error) {
	v, ok := math.NewIntFromString(arg)
	if !ok {
		return math.Int{}, types.ErrInvalidAmount.Wrapf("invalid %s %q", name, arg)
	}
	return v, nil
}

// CmdCreateFeed returns the create-feed command
func CmdCreateFeed(nctx *nodeContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create-feed [name]",
		Short: "Register a new feed (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			msg := types.NewMsgCreateFeed(from, args[0])
			return runTx(cmd, nctx, msg, func(ctx sdk.Context, ms types.MsgServer) (any, error) {
				return ms.CreateFeed(ctx, msg)
			})
		},
	}
}

// CmdSubmitFeedData returns the submit command
func CmdSubmitFeedData(nctx *nodeContext) *cobra.Command {
	return &cobra.Command{
		Use:   "submit [feed-id] [price] [burn-amount]",
		Short: "Submit a price backed by burning burn-amount of the burn denom",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			feedID, err := parseUint(args[0], "feed id")
			if err != nil {
				return err
			}
			price, err := parseAmount(args[1], "price")
			if err != nil {
				return err
			}
			burn, err := parseAmount(args[2], "burn amount")
			if err != nil {
				return err
			}
			msg := types.NewMsgSubmitFeedData(from, feedID, price, burn)
			return runTx(cmd, nctx, msg, func(ctx sdk.Context, ms types.MsgServer) (any, error) {
				return ms.SubmitFeedData(ctx, msg)
			})
		},
	}
}

// CmdFinalizeConsensus returns the finalize command
func CmdFinalizeConsensus(nctx *nodeContext) *cobra.Command {
	return &cobra.Command{
		Use:   "finalize [feed-id] [window-id]",
		Short: "Finalize a closed window into the feed price",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			feedID, err := parseUint(args[0], "feed id")
			if err != nil {
				return err
			}
			windowID, err := parseInt64(args[1], "window id")
			if err != nil {
				return err
			}
			msg := types.NewMsgFinalizeConsensus(from, feedID, windowID)
			return runTx(cmd, nctx, msg, func(ctx sdk.Context, ms types.MsgServer) (any, error) {
				return ms.FinalizeConsensus(ctx, msg)
			})
		},
	}
}

// CmdSlashOracle returns the slash command
func CmdSlashOracle(nctx *nodeContext) *cobra.Command {
	return &cobra.Command{
		Use:   "slash [feed-id] [window-id] [reporter]",
		Short: "Slash a submission (owner only)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			feedID, err := parseUint(args[0], "feed id")
			if err != nil {
				return err
			}
			windowID, err := parseInt64(args[1], "window id")
			if err != nil {
				return err
			}
			msg := types.NewMsgSlashOracle(from, feedID, windowID, args[2])
			return runTx(cmd, nctx, msg, func(ctx sdk.Context, ms types.MsgServer) (any, error) {
				return ms.SlashOracle(ctx, msg)
			})
		},
	}
}

// CmdToggleEmergencyPause returns the toggle-pause command
func CmdToggleEmergencyPause(nctx *nodeContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-pause",
		Short: "Flip the circuit breaker (emergency admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			msg := types.NewMsgToggleEmergencyPause(from)
			return runTx(cmd, nctx, msg, func(ctx sdk.Context, ms types.MsgServer) (any, error) {
				return ms.ToggleEmergencyPause(ctx, msg)
			})
		},
	}
}

// CmdSetEmergencyAdmin returns the set-emergency-admin command
func CmdSetEmergencyAdmin(nctx *nodeContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-emergency-admin [address]",
		Short: "Rotate the emergency admin (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			msg := types.NewMsgSetEmergencyAdmin(from, args[0])
			return runTx(cmd, nctx, msg, func(ctx sdk.Context, ms types.MsgServer) (any, error) {
				return ms.SetEmergencyAdmin(ctx, msg)
			})
		},
	}
}

// fundMsg is the development faucet call. It is not part of the oracle surface.
type fundMsg struct {
	Owner   string    `json:"owner"`
	Address string    `json:"address"`
	Coins   sdk.Coins `json:"coins"`
}

func (m fundMsg) Type() string      { return "fund" }
func (m fundMsg) GetSigner() string { return m.Owner }

func (m fundMsg) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Address); err != nil {
		return types.ErrInvalidAddress.Wrapf("invalid recipient: %s", err)
	}
	if !m.Coins.IsValid() || m.Coins.IsZero() {
		return types.ErrInvalidAmount.Wrapf("invalid coins %s", m.Coins)
	}
	return nil
}

// CmdFund returns the fund command
func CmdFund(nctx *nodeContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fund [address] [coins]",
		Short: "Mint development funds into an account (owner only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			coins, err := sdk.ParseCoinsNormalized(args[1])
			if err != nil {
				return types.ErrInvalidAmount.Wrapf("invalid coins %q: %s", args[1], err)
			}
			msg := fundMsg{Owner: from, Address: args[0], Coins: coins}

			a, err := nctx.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return runTxOn(cmd, nctx, a, msg, func(ctx sdk.Context, _ types.MsgServer) (any, error) {
				state, err := a.OracleKeeper.GetAdminState(ctx)
				if err != nil {
					return nil, err
				}
				if err := sharedkeeper.ValidateAuthority(state.Owner, msg.Owner); err != nil {
					return nil, types.ErrUnauthorized.Wrapf("fund: %s", err)
				}
				recipient := sdk.MustAccAddressFromBech32(msg.Address)
				if err := a.FundAccount(ctx, recipient, msg.Coins); err != nil {
					return nil, err
				}
				return map[string]string{"address": msg.Address, "coins": msg.Coins.String()}, nil
			})
		},
	}
}
