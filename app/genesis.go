package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	oracletypes "github.com/paw-chain/burnoracle/x/oracle/types"
)

// Genesis is the initial state of an oracle node
type Genesis struct {
	ChainID     string                    `json:"chain_id"`
	GenesisTime time.Time                 `json:"genesis_time"`
	Balances    []banktypes.Balance       `json:"balances"`
	Oracle      *oracletypes.GenesisState `json:"oracle"`
}

// NewDefaultGenesis returns a genesis with default oracle params and the two principals set
func NewDefaultGenesis(chainID, owner, emergencyAdmin string) Genesis {
	return Genesis{
		ChainID:     chainID,
		GenesisTime: time.Now().UTC().Truncate(time.Second),
		Balances:    []banktypes.Balance{},
		Oracle:      oracletypes.NewGenesisState(owner, emergencyAdmin),
	}
}

// Validate performs stateless checks of the genesis
func (g Genesis) Validate() error {
	if g.ChainID == "" {
		return fmt.Errorf("chain id cannot be empty")
	}
	if g.Oracle == nil {
		return fmt.Errorf("oracle genesis missing")
	}
	for _, b := range g.Balances {
		if _, err := sdk.AccAddressFromBech32(b.Address); err != nil {
			return fmt.Errorf("balance address %q: %w", b.Address, err)
		}
		if err := b.Coins.Validate(); err != nil {
			return fmt.Errorf("balance of %s: %w", b.Address, err)
		}
	}
	return g.Oracle.Validate()
}

// ReadGenesisFile loads and validates a genesis JSON file
func ReadGenesisFile(path string) (Genesis, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, fmt.Errorf("read genesis: %w", err)
	}
	var g Genesis
	if err := json.Unmarshal(bz, &g); err != nil {
		return Genesis{}, fmt.Errorf("decode genesis: %w", err)
	}
	if err := g.Validate(); err != nil {
		return Genesis{}, fmt.Errorf("invalid genesis: %w", err)
	}
	return g, nil
}

// WriteGenesisFile writes the genesis as indented JSON
func WriteGenesisFile(path string, g Genesis) error {
	bz, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("encode genesis: %w", err)
	}
	return os.WriteFile(path, bz, 0o600)
}
