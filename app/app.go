package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	"github.com/paw-chain/burnoracle/app/telemetry"
	oraclekeeper "github.com/paw-chain/burnoracle/x/oracle/keeper"
	oracletypes "github.com/paw-chain/burnoracle/x/oracle/types"
)

const metaStoreName = "meta"

var (
	metaChainIDKey     = []byte("chain_id")
	metaGenesisTimeKey = []byte("genesis_time")
)

var (
	// ErrNotInitialized is returned before InitChain has committed the first block
	ErrNotInitialized = errors.New("chain not initialized")
	// ErrAlreadyInitialized is returned by InitChain on a chain with committed state
	ErrAlreadyInitialized = errors.New("chain already initialized")
	// ErrNoOpenBlock is returned by Deliver and Commit outside BeginBlock/Commit
	ErrNoOpenBlock = errors.New("no block in progress")
)

// App is the ledger that hosts the oracle: it supplies block height and
// time, executes every call on a cache branch so that a failed call leaves
// no trace, and owns the bank keeper that burns reporter stakes.
// Calls are serialised.
type App struct {
	mu sync.Mutex

	logger    log.Logger
	db        dbm.DB
	cms       storetypes.CommitMultiStore
	keys      map[string]*storetypes.KVStoreKey
	blockTime time.Duration

	AccountKeeper authkeeper.AccountKeeper
	BankKeeper    bankkeeper.BaseKeeper
	OracleKeeper  *oraclekeeper.Keeper

	chainID     string
	genesisTime time.Time

	header     cmtproto.Header
	blockStore storetypes.CacheMultiStore
}

// MaccPerms returns the module account permissions. The oracle burns
// stakes; the faucet mints development funds.
func MaccPerms() map[string][]string {
	return map[string][]string{
		oracletypes.ModuleName: {authtypes.Burner},
		FaucetModuleName:       {authtypes.Minter},
	}
}

// BlockedAddrs returns the module addresses that cannot receive funds
func BlockedAddrs() map[string]bool {
	blocked := make(map[string]bool)
	for name := range MaccPerms() {
		blocked[authtypes.NewModuleAddress(name).String()] = true
	}
	return blocked
}

// New opens the multistore on db and wires the keepers. blockTime is the
// header time advance per block.
func New(db dbm.DB, logger log.Logger, blockTime time.Duration) (*App, error) {
	if blockTime <= 0 {
		blockTime = DefaultBlockTime
	}

	keys := storetypes.NewKVStoreKeys(authtypes.StoreKey, banktypes.StoreKey, oracletypes.StoreKey, metaStoreName)
	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("load multistore: %w", err)
	}

	encCfg := MakeEncodingConfig()
	bech32Prefix := sdk.GetConfig().GetBech32AccountAddrPrefix()
	authority := authtypes.NewModuleAddress(oracletypes.ModuleName).String()

	accountKeeper := authkeeper.NewAccountKeeper(
		encCfg.Codec,
		runtime.NewKVStoreService(keys[authtypes.StoreKey]),
		authtypes.ProtoBaseAccount,
		MaccPerms(),
		address.NewBech32Codec(bech32Prefix),
		bech32Prefix,
		authority,
	)

	bankKeeper := bankkeeper.NewBaseKeeper(
		encCfg.Codec,
		runtime.NewKVStoreService(keys[banktypes.StoreKey]),
		accountKeeper,
		BlockedAddrs(),
		authority,
		logger,
	)

	app := &App{
		logger:        logger,
		db:            db,
		cms:           cms,
		keys:          keys,
		blockTime:     blockTime,
		AccountKeeper: accountKeeper,
		BankKeeper:    bankKeeper,
		OracleKeeper:  oraclekeeper.NewKeeper(keys[oracletypes.StoreKey], bankKeeper),
	}

	if err := app.loadMeta(); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *App) loadMeta() error {
	metaStore := app.cms.GetKVStore(app.keys[metaStoreName])
	if bz := metaStore.Get(metaChainIDKey); bz != nil {
		app.chainID = string(bz)
	}
	if bz := metaStore.Get(metaGenesisTimeKey); bz != nil {
		if err := json.Unmarshal(bz, &app.genesisTime); err != nil {
			return fmt.Errorf("decode genesis time: %w", err)
		}
	}
	return nil
}

// LastBlockHeight returns the height of the last committed block
func (app *App) LastBlockHeight() int64 {
	return app.cms.LastCommitID().Version
}

// GetKey returns the KVStoreKey for the provided store name
func (app *App) GetKey(storeKey string) *storetypes.KVStoreKey {
	return app.keys[storeKey]
}

// ChainID returns the chain id recorded at genesis
func (app *App) ChainID() string {
	return app.chainID
}

func (app *App) blockHeader(height int64) cmtproto.Header {
	return cmtproto.Header{
		ChainID: app.chainID,
		Height:  height,
		Time:    app.genesisTime.Add(time.Duration(height) * app.blockTime),
	}
}

// InitChain loads the genesis into an empty store and commits it as block 1
func (app *App) InitChain(genesis Genesis) error {
	if err := genesis.Validate(); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	if app.LastBlockHeight() != 0 {
		return ErrAlreadyInitialized
	}

	app.chainID = genesis.ChainID
	app.genesisTime = genesis.GenesisTime.UTC()
	app.beginBlock()
	defer func() { app.blockStore = nil }()

	ctx := app.blockContext()
	metaStore := ctx.KVStore(app.keys[metaStoreName])
	metaStore.Set(metaChainIDKey, []byte(app.chainID))
	bz, err := json.Marshal(app.genesisTime)
	if err != nil {
		return err
	}
	metaStore.Set(metaGenesisTimeKey, bz)

	if err := app.AccountKeeper.Params.Set(ctx, authtypes.DefaultParams()); err != nil {
		return fmt.Errorf("auth params: %w", err)
	}
	if err := app.BankKeeper.SetParams(ctx, banktypes.DefaultParams()); err != nil {
		return fmt.Errorf("bank params: %w", err)
	}
	for _, balance := range genesis.Balances {
		addr, err := sdk.AccAddressFromBech32(balance.Address)
		if err != nil {
			return err
		}
		if err := app.fundAccount(ctx, addr, balance.Coins); err != nil {
			return fmt.Errorf("genesis balance of %s: %w", balance.Address, err)
		}
	}
	if err := app.OracleKeeper.InitGenesis(ctx, *genesis.Oracle); err != nil {
		return err
	}

	_, err = app.commit()
	return err
}

// BeginBlock opens the next block. Its header height is one above the last
// committed block and its time advances by the configured block time.
func (app *App) BeginBlock() error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.LastBlockHeight() == 0 {
		return ErrNotInitialized
	}
	app.beginBlock()
	return nil
}

func (app *App) beginBlock() {
	app.header = app.blockHeader(app.LastBlockHeight() + 1)
	app.blockStore = app.cms.CacheMultiStore()
}

func (app *App) blockContext() sdk.Context {
	return sdk.NewContext(app.blockStore, app.header, false, app.logger)
}

// Deliver runs fn against the open block on its own cache branch. The
// branch is written only when fn succeeds; the events fn emitted are returned.
func (app *App) Deliver(fn func(ctx sdk.Context) error) (sdk.Events, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	return app.deliver(fn)
}

// deliver turns a panic inside fn into ErrPanic; the branch is dropped as
// for any other failure.
func (app *App) deliver(fn func(ctx sdk.Context) error) (events sdk.Events, err error) {
	if app.blockStore == nil {
		return nil, ErrNoOpenBlock
	}

	defer func() {
		if r := recover(); r != nil {
			app.logger.Error("Panic recovered",
				"height", app.header.Height,
				"panic", fmt.Sprintf("%v", r),
				"stack_trace", string(debug.Stack()),
			)
			events, err = nil, errorsmod.Wrapf(sdkerrors.ErrPanic, "recovered: %v", r)
		}
	}()

	cacheCtx, write := app.blockContext().CacheContext()
	if err := fn(cacheCtx); err != nil {
		return nil, err
	}
	write()

	return cacheCtx.EventManager().Events(), nil
}

// Commit checks the oracle invariants against the open block, then writes
// and commits it. A broken invariant discards the block.
func (app *App) Commit() (storetypes.CommitID, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	return app.commit()
}

func (app *App) commit() (storetypes.CommitID, error) {
	if app.blockStore == nil {
		return storetypes.CommitID{}, ErrNoOpenBlock
	}
	defer func() { app.blockStore = nil }()

	if msg, broken := oraclekeeper.AllInvariants(*app.OracleKeeper)(app.blockContext()); broken {
		return storetypes.CommitID{}, fmt.Errorf("invariant broken at height %d: %s", app.header.Height, msg)
	}

	app.blockStore.Write()
	commitID := app.cms.Commit()
	app.logger.Debug("committed block", "height", commitID.Version, "hash", fmt.Sprintf("%X", commitID.Hash))
	return commitID, nil
}

// ExecuteBlock runs fn as the only call of a new block and commits the
// block whether fn succeeds or not.
func (app *App) ExecuteBlock(fn func(ctx sdk.Context) error) (sdk.Events, int64, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.LastBlockHeight() == 0 {
		return nil, 0, ErrNotInitialized
	}
	app.beginBlock()
	_, span := telemetry.StartBlockSpan(context.Background(), app.header.Height, app.chainID)
	events, deliverErr := app.deliver(fn)
	commitID, err := app.commit()
	if err != nil {
		telemetry.EndSpan(span, err)
		return nil, 0, err
	}
	telemetry.EndSpan(span, deliverErr)
	return events, commitID.Version, deliverErr
}

// QueryContext returns a read-only view of the last committed block. Writes
// made through it are never persisted.
func (app *App) QueryContext() (sdk.Context, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	height := app.LastBlockHeight()
	if height == 0 {
		return sdk.Context{}, ErrNotInitialized
	}
	return sdk.NewContext(app.cms.CacheMultiStore(), app.blockHeader(height), false, app.logger), nil
}

// FundAccount mints coins through the faucet module and sends them to addr
func (app *App) FundAccount(ctx sdk.Context, addr sdk.AccAddress, coins sdk.Coins) error {
	return app.fundAccount(ctx, addr, coins)
}

func (app *App) fundAccount(ctx sdk.Context, addr sdk.AccAddress, coins sdk.Coins) error {
	if err := app.BankKeeper.MintCoins(ctx, FaucetModuleName, coins); err != nil {
		return err
	}
	return app.BankKeeper.SendCoinsFromModuleToAccount(ctx, FaucetModuleName, addr, coins)
}

// Close releases the underlying database
func (app *App) Close() error {
	return app.db.Close()
}

// NewUncachedContext returns a context at height that writes straight into
// the working state of the multistore, outside any block.
func (app *App) NewUncachedContext(height int64) sdk.Context {
	return sdk.NewContext(app.cms, app.blockHeader(height), false, app.logger)
}
