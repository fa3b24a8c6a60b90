package cmd

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"
)

// AdvanceCmd commits empty blocks so that reporting windows close
func AdvanceCmd(nctx *nodeContext) *cobra.Command {
	return &cobra.Command{
		Use:   "advance [blocks]",
		Short: "Commit empty blocks",
		Long: `Commit the given number of empty blocks (default 1). A window can be
finalized once consensus_window blocks have passed since its start height.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blocks := int64(1)
			if len(args) == 1 {
				n, err := parseInt64(args[0], "block count")
				if err != nil {
					return err
				}
				if n <= 0 {
					return fmt.Errorf("block count must be positive, got %d", n)
				}
				blocks = n
			}

			a, err := nctx.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			noop := func(sdk.Context) error { return nil }
			var height int64
			for i := int64(0); i < blocks; i++ {
				if _, height, err = a.ExecuteBlock(noop); err != nil {
					return err
				}
			}

			params := a.OracleKeeper.GetParams(a.NewUncachedContext(height))
			nctx.logger.Info("advanced chain", "blocks", blocks, "height", height)
			return printJSON(cmd, map[string]int64{
				"height":         height,
				"current_window": params.WindowID(height),
			})
		},
	}
}
