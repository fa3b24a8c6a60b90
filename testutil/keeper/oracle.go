package keeper

import (
	"bytes"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/burnoracle/app"
	"github.com/paw-chain/burnoracle/x/oracle/keeper"
	"github.com/paw-chain/burnoracle/x/oracle/types"
)

// GenesisTime is the genesis time of every fixture chain
var GenesisTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// TestAddr returns a deterministic account address for index i
func TestAddr(i byte) sdk.AccAddress {
	return sdk.AccAddress(bytes.Repeat([]byte{i}, 20))
}

var (
	// Owner is the oracle owner of every fixture chain
	Owner = TestAddr(0xA1)
	// EmergencyAdmin is the emergency admin of every fixture chain
	EmergencyAdmin = TestAddr(0xA2)
)

// OracleFixture bundles an initialized in-memory chain with a context that
// writes directly into its state
type OracleFixture struct {
	App    *app.App
	Keeper *keeper.Keeper
	Ctx    sdk.Context
}

// NewOracleFixture creates a memdb-backed chain with default params and the
// fixture owner and emergency admin. The context sits at height 1.
func NewOracleFixture(t testing.TB) *OracleFixture {
	return NewOracleFixtureWithGenesis(t, types.NewGenesisState(Owner.String(), EmergencyAdmin.String()))
}

// NewOracleFixtureWithGenesis creates a fixture chain from a custom oracle genesis
func NewOracleFixtureWithGenesis(t testing.TB, oracleGenesis *types.GenesisState) *OracleFixture {
	a, err := app.New(dbm.NewMemDB(), log.NewNopLogger(), app.DefaultBlockTime)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	genesis := app.NewDefaultGenesis("burnoracle-test", Owner.String(), EmergencyAdmin.String())
	genesis.GenesisTime = GenesisTime
	genesis.Oracle = oracleGenesis
	require.NoError(t, a.InitChain(genesis))

	return &OracleFixture{
		App:    a,
		Keeper: a.OracleKeeper,
		Ctx:    a.NewUncachedContext(1),
	}
}

// OracleKeeper creates a test keeper for the oracle module backed by real
// auth and bank keepers. Returns the keeper and a context at height 1.
func OracleKeeper(t testing.TB) (*keeper.Keeper, sdk.Context) {
	f := NewOracleFixture(t)
	return f.Keeper, f.Ctx
}

// AtHeight returns the fixture context moved to height with a fresh event manager
func (f *OracleFixture) AtHeight(height int64) sdk.Context {
	f.Ctx = f.App.NewUncachedContext(height)
	return f.Ctx
}

// Fund mints amount of the burn denom into addr
func (f *OracleFixture) Fund(t testing.TB, addr sdk.AccAddress, amount int64) {
	denom := f.Keeper.GetParams(f.Ctx).BurnDenom
	require.NoError(t, f.App.FundAccount(f.Ctx, addr, sdk.NewCoins(sdk.NewInt64Coin(denom, amount))))
}

// Balance returns addr's balance of the burn denom
func (f *OracleFixture) Balance(addr sdk.AccAddress) math.Int {
	denom := f.Keeper.GetParams(f.Ctx).BurnDenom
	return f.App.BankKeeper.GetBalance(f.Ctx, addr, denom).Amount
}

// CreateFeed registers a feed as the fixture owner
func (f *OracleFixture) CreateFeed(t testing.TB, name string) uint64 {
	id, err := f.Keeper.CreateFeed(f.Ctx, Owner.String(), name)
	require.NoError(t, err)
	return id
}

// Submit funds reporter with exactly burn and submits price
func (f *OracleFixture) Submit(t testing.TB, reporter sdk.AccAddress, feedID uint64, price, burn int64) types.Submission {
	f.Fund(t, reporter, burn)
	submission, err := f.Keeper.SubmitFeedData(f.Ctx, reporter, feedID, math.NewInt(price), math.NewInt(burn))
	require.NoError(t, err)
	return submission
}
