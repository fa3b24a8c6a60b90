package app

import (
	"time"
)

const (
	// AppName is the name of the oracle node
	AppName = "oracled"

	// FaucetModuleName is the module account that mints funds for the fund command
	FaucetModuleName = "faucet"

	// DefaultChainID is written by init when no chain id is given
	DefaultChainID = "burnoracle-local"

	// DefaultBlockTime is the header time advance per committed block
	DefaultBlockTime = 5 * time.Second
)
