package cmd

import (
	"context"

	"github.com/cosmos/cosmos-sdk/types/query"
	"github.com/spf13/cobra"

	"github.com/paw-chain/burnoracle/x/oracle/keeper"
	"github.com/paw-chain/burnoracle/x/oracle/types"
)

const (
	flagPageKey    = "page-key"
	flagPageOffset = "offset"
	flagPageLimit  = "limit"
	flagReverse    = "reverse"
)

// QueryCmd returns the read-only commands. They stay available while the
// oracle is paused.
func QueryCmd(nctx *nodeContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      "Oracle query subcommands",
		SuggestionsMinimumDistance: 2,
		RunE:                       validateCmd,
	}

	cmd.AddCommand(
		CmdQueryPrice(nctx),
		CmdQueryFeed(nctx),
		CmdQueryReputation(nctx),
		CmdQuerySubmission(nctx),
		CmdQueryConsensus(nctx),
		CmdQueryHistory(nctx),
		CmdQueryStatus(nctx),
		CmdQueryRequiredBurn(nctx),
	)

	return cmd
}

// runQuery runs exec against the last committed block and prints its result
func runQuery(cmd *cobra.Command, nctx *nodeContext, exec func(context.Context, types.QueryServer) (any, error)) error {
	a, err := nctx.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, err := a.QueryContext()
	if err != nil {
		return err
	}

	res, err := exec(ctx, keeper.NewQueryServerImpl(*a.OracleKeeper))
	if err != nil {
		return err
	}
	return printJSON(cmd, res)
}

// CmdQueryPrice returns the price query command
func CmdQueryPrice(nctx *nodeContext) *cobra.Command {
	return &cobra.Command{
		Use:   "price [feed-id]",
		Short: "Query the latest finalized price of a feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			feedID, err := parseUint(args[0], "feed id")
			if err != nil {
				return err
			}
			return runQuery(cmd, nctx, func(ctx context.Context, qs types.QueryServer) (any, error) {
				return qs.Price(ctx, &types.QueryPriceRequest{FeedId: feedID})
			})
		},
	}
}

// CmdQueryFeed returns the feed query command
func CmdQueryFeed(nctx *nodeContext) *cobra.Command {
	return &cobra.Command{
		Use:   "feed [feed-id]",
		Short: "Query a feed record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			feedID, err := parseUint(args[0], "feed id")
			if err != nil {
				return err
			}
			return runQuery(cmd, nctx, func(ctx context.Context, qs types.QueryServer) (any, error) {
				return qs.FeedInfo(ctx, &types.QueryFeedInfoRequest{FeedId: feedID})
			})
		},
	}
}

// CmdQueryReputation returns the reputation query command
func CmdQueryReputation(nctx *nodeContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reputation [reporter]",
		Short: "Query a reporter's reputation and stake multiplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, nctx, func(ctx context.Context, qs types.QueryServer) (any, error) {
				return qs.OracleReputation(ctx, &types.QueryOracleReputationRequest{Reporter: args[0]})
			})
		},
	}
}

// CmdQuerySubmission returns the submission query command
func CmdQuerySubmission(nctx *nodeContext) *cobra.Command {
	return &cobra.Command{
		Use:   "submission [feed-id] [window-id] [reporter]",
		Short: "Query one submission",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			feedID, err := parseUint(args[0], "feed id")
			if err != nil {
				return err
			}
			windowID, err := parseInt64(args[1], "window id")
			if err != nil {
				return err
			}
			return runQuery(cmd, nctx, func(ctx context.Context, qs types.QueryServer) (any, error) {
				return qs.Submission(ctx, &types.QuerySubmissionRequest{FeedId: feedID, WindowId: windowID, Reporter: args[2]})
			})
		},
	}
}

// CmdQueryConsensus returns the consensus round query command
func CmdQueryConsensus(nctx *nodeContext) *cobra.Command {
	return &cobra.Command{
		Use:   "consensus [feed-id] [window-id]",
		Short: "Query the running totals or result of a window",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			feedID, err := parseUint(args[0], "feed id")
			if err != nil {
				return err
			}
			windowID, err := parseInt64(args[1], "window id")
			if err != nil {
				return err
			}
			return runQuery(cmd, nctx, func(ctx context.Context, qs types.QueryServer) (any, error) {
				return qs.ConsensusData(ctx, &types.QueryConsensusDataRequest{FeedId: feedID, WindowId: windowID})
			})
		},
	}
}

// CmdQueryHistory returns the consensus history query command
func CmdQueryHistory(nctx *nodeContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [feed-id]",
		Short: "Page through a feed's finalized rounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			feedID, err := parseUint(args[0], "feed id")
			if err != nil {
				return err
			}
			pageKey, _ := cmd.Flags().GetBytesBase64(flagPageKey)
			offset, _ := cmd.Flags().GetUint64(flagPageOffset)
			limit, _ := cmd.Flags().GetUint64(flagPageLimit)
			reverse, _ := cmd.Flags().GetBool(flagReverse)

			req := &types.QueryConsensusHistoryRequest{
				FeedId: feedID,
				Pagination: &query.PageRequest{
					Key:     pageKey,
					Offset:  offset,
					Limit:   limit,
					Reverse: reverse,
				},
			}
			return runQuery(cmd, nctx, func(ctx context.Context, qs types.QueryServer) (any, error) {
				return qs.ConsensusHistory(ctx, req)
			})
		},
	}

	cmd.Flags().BytesBase64(flagPageKey, nil, "pagination key from a previous response")
	cmd.Flags().Uint64(flagPageOffset, 0, "pagination offset; ignored when --page-key is set")
	cmd.Flags().Uint64(flagPageLimit, defaultHistoryLimit, "maximum number of rounds returned")
	cmd.Flags().Bool(flagReverse, false, "newest rounds first")

	return cmd
}

const defaultHistoryLimit = 100

// CmdQueryStatus returns the contract status query command
func CmdQueryStatus(nctx *nodeContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Query owner, emergency admin, pause flag, feed count and params",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, nctx, func(ctx context.Context, qs types.QueryServer) (any, error) {
				return qs.ContractStatus(ctx, &types.QueryContractStatusRequest{})
			})
		},
	}
}

// CmdQueryRequiredBurn returns the required-burn query command
func CmdQueryRequiredBurn(nctx *nodeContext) *cobra.Command {
	return &cobra.Command{
		Use:   "required-burn [reporter]",
		Short: "Query the reputation-scaled burn suggested for a reporter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, nctx, func(ctx context.Context, qs types.QueryServer) (any, error) {
				return qs.RequiredBurn(ctx, &types.QueryRequiredBurnRequest{Reporter: args[0]})
			})
		},
	}
}
