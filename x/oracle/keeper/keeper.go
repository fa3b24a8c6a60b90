package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/burnoracle/x/oracle/types"
)

var _ types.OracleKeeperV1 = Keeper{}

// Keeper maintains the state of the Oracle module
type Keeper struct {
	storeKey   storetypes.StoreKey
	bankKeeper types.BankKeeper
	metrics    *OracleMetrics
}

// NewKeeper creates a new Oracle Keeper instance
func NewKeeper(storeKey storetypes.StoreKey, bankKeeper types.BankKeeper) *Keeper {
	return &Keeper{
		storeKey:   storeKey,
		bankKeeper: bankKeeper,
		metrics:    NewOracleMetrics(),
	}
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey)
}

// GetParams gets all parameters from the store
func (k Keeper) GetParams(ctx context.Context) types.Params {
	var params types.Params
	found, err := getValue(k.getStore(ctx), types.ParamsKey, &params)
	if err != nil || !found {
		return types.DefaultParams()
	}

	return params
}

// SetParams sets the module parameters
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	return setValue(k.getStore(ctx), types.ParamsKey, params)
}

// GetAdminState returns the owner, emergency admin, pause flag and feed
// counter. Before genesis it returns the zero state, which authorizes nobody.
func (k Keeper) GetAdminState(ctx context.Context) (types.AdminState, error) {
	var state types.AdminState
	if _, err := getValue(k.getStore(ctx), types.AdminStateKey, &state); err != nil {
		return types.AdminState{}, fmt.Errorf("GetAdminState: %w", err)
	}
	return state, nil
}

// SetAdminState persists the admin state
func (k Keeper) SetAdminState(ctx context.Context, state types.AdminState) error {
	return setValue(k.getStore(ctx), types.AdminStateKey, state)
}

// getValue decodes the JSON value at key into out. It reports false when the key is absent.
func getValue(store storetypes.KVStore, key []byte, out any) (bool, error) {
	bz := store.Get(key)
	if bz == nil {
		return false, nil
	}
	if err := json.Unmarshal(bz, out); err != nil {
		return false, types.ErrStateCorruption.Wrapf("corrupt state at key %X: %s", key, err)
	}
	return true, nil
}

func setValue(store storetypes.KVStore, key []byte, value any) error {
	bz, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal state at key %X: %w", key, err)
	}
	store.Set(key, bz)
	return nil
}

// iterateValues decodes every value under prefix in key order. cb returning true stops iteration.
func iterateValues[T any](store storetypes.KVStore, prefix []byte, cb func(T) (stop bool, err error)) error {
	iter := storetypes.KVStorePrefixIterator(store, prefix)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		var v T
		if err := json.Unmarshal(iter.Value(), &v); err != nil {
			return types.ErrStateCorruption.Wrapf("decode value at key %X: %s", iter.Key(), err)
		}
		stop, err := cb(v)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}

// collectValues returns every value under prefix
func collectValues[T any](store storetypes.KVStore, prefix []byte) ([]T, error) {
	out := []T{}
	err := iterateValues(store, prefix, func(v T) (bool, error) {
		out = append(out, v)
		return false, nil
	})
	return out, err
}
