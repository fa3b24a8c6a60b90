package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/burnoracle/app"
)

const (
	flagOwner          = "owner"
	flagEmergencyAdmin = "emergency-admin"
	flagChainID        = "chain-id"
	flagGenesisAccount = "account"
	flagOverwrite      = "overwrite"
)

// InitCmd writes the node config and genesis and commits the genesis block
func InitCmd(nctx *nodeContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the node config, genesis and state",
		Long: `Write $HOME/config/oracled.toml and $HOME/config/genesis.json, then load the
genesis into a fresh state database.

Example:
  oracled init --owner cosmos1... --emergency-admin cosmos1... --account cosmos1...=5000000uoracle`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, _ := cmd.Flags().GetString(flagOwner)
			emergencyAdmin, _ := cmd.Flags().GetString(flagEmergencyAdmin)
			chainID, _ := cmd.Flags().GetString(flagChainID)
			accounts, _ := cmd.Flags().GetStringSlice(flagGenesisAccount)
			overwrite, _ := cmd.Flags().GetBool(flagOverwrite)

			if _, err := os.Stat(genesisPath(nctx.home)); err == nil && !overwrite {
				return fmt.Errorf("genesis already exists at %s; use --%s to replace it", genesisPath(nctx.home), flagOverwrite)
			}

			genesis := app.NewDefaultGenesis(chainID, owner, emergencyAdmin)
			for _, entry := range accounts {
				balance, err := parseGenesisAccount(entry)
				if err != nil {
					return err
				}
				genesis.Balances = append(genesis.Balances, balance)
			}
			if err := genesis.Validate(); err != nil {
				return err
			}

			if err := writeConfig(nctx.home, nctx.config); err != nil {
				return err
			}
			if err := app.WriteGenesisFile(genesisPath(nctx.home), genesis); err != nil {
				return err
			}

			a, err := nctx.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.InitChain(genesis); err != nil {
				return err
			}

			nctx.logger.Info("initialized node", "home", nctx.home, "chain_id", chainID, "height", a.LastBlockHeight())
			return printJSON(cmd, map[string]any{
				"chain_id": chainID,
				"home":     nctx.home,
				"height":   a.LastBlockHeight(),
			})
		},
	}

	cmd.Flags().String(flagOwner, "", "bech32 address of the oracle owner")
	cmd.Flags().String(flagEmergencyAdmin, "", "bech32 address of the emergency admin")
	cmd.Flags().String(flagChainID, app.DefaultChainID, "chain id written to genesis")
	cmd.Flags().StringSlice(flagGenesisAccount, nil, "genesis balance as address=coins, repeatable")
	cmd.Flags().Bool(flagOverwrite, false, "replace an existing genesis file")
	_ = cmd.MarkFlagRequired(flagOwner)
	_ = cmd.MarkFlagRequired(flagEmergencyAdmin)

	return cmd
}

func parseGenesisAccount(entry string) (banktypes.Balance, error) {
	bech, coinsStr, ok := strings.Cut(entry, "=")
	if !ok {
		return banktypes.Balance{}, fmt.Errorf("genesis account %q: expected address=coins", entry)
	}
	addr, err := sdk.AccAddressFromBech32(bech)
	if err != nil {
		return banktypes.Balance{}, fmt.Errorf("genesis account %q: %w", entry, err)
	}
	coins, err := sdk.ParseCoinsNormalized(coinsStr)
	if err != nil {
		return banktypes.Balance{}, fmt.Errorf("genesis account %q: %w", entry, err)
	}
	return banktypes.Balance{Address: addr.String(), Coins: coins}, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}
