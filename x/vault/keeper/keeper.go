package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/openalpha/yield-vault/x/vault/types"
)

// Store key prefixes
var (
	ParamsKey        = []byte{0x01}
	LedgerStateKey   = []byte{0x02}
	AccountKeyPrefix = []byte{0x03}
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}

// Keeper manages the vault module state
type Keeper struct {
	cdc        codec.BinaryCodec
	storeKey   storetypes.StoreKey
	bankKeeper BankKeeper
	logger     log.Logger
	authority  string
}

// NewKeeper creates a new vault keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	bankKeeper BankKeeper,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:        cdc,
		storeKey:   storeKey,
		bankKeeper: bankKeeper,
		authority:  authority,
		logger:     logger.With("module", "x/vault"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the administrator address
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// ModuleAddress returns the account that custodies deposited value
func (k *Keeper) ModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

// atomically runs fn on a branched store and commits only if fn succeeds
func (k *Keeper) atomically(ctx sdk.Context, fn func(sdk.Context) error) error {
	cacheCtx, write := ctx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	write()
	return nil
}

func (k *Keeper) requireAuthority(caller string) error {
	if caller != k.authority {
		return types.ErrUnauthorized.Wrapf("%s is not the vault administrator", caller)
	}
	return nil
}

// ============ Params ============

// SetParams saves the params to the store
func (k *Keeper) SetParams(ctx sdk.Context, params types.Params) {
	bz, _ := json.Marshal(params)
	k.GetStore(ctx).Set(ParamsKey, bz)
}

// GetParams returns the stored params, or defaults if none were set
func (k *Keeper) GetParams(ctx sdk.Context) types.Params {
	bz := k.GetStore(ctx).Get(ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}
	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.DefaultParams()
	}
	return params
}

// ============ Ledger State ============

// SetLedgerState saves the global ledger state
func (k *Keeper) SetLedgerState(ctx sdk.Context, state types.LedgerState) {
	bz, _ := json.Marshal(state)
	k.GetStore(ctx).Set(LedgerStateKey, bz)
}

// GetLedgerState returns the global ledger state
func (k *Keeper) GetLedgerState(ctx sdk.Context) types.LedgerState {
	bz := k.GetStore(ctx).Get(LedgerStateKey)
	if bz == nil {
		return types.NewLedgerState(k.authority)
	}
	var state types.LedgerState
	if err := json.Unmarshal(bz, &state); err != nil {
		return types.NewLedgerState(k.authority)
	}
	return state
}

// ============ Accounts ============

// AccountKey returns the store key of the account of owner
func AccountKey(owner string) []byte {
	return append(append([]byte{}, AccountKeyPrefix...), []byte(owner)...)
}

// SetAccount saves a user account
func (k *Keeper) SetAccount(ctx sdk.Context, acc *types.UserAccount) {
	bz, _ := json.Marshal(acc)
	k.GetStore(ctx).Set(AccountKey(acc.Owner), bz)
}

// GetAccount returns the account of owner or nil
func (k *Keeper) GetAccount(ctx sdk.Context, owner string) *types.UserAccount {
	bz := k.GetStore(ctx).Get(AccountKey(owner))
	if bz == nil {
		return nil
	}
	var acc types.UserAccount
	if err := json.Unmarshal(bz, &acc); err != nil {
		return nil
	}
	return &acc
}

// DeleteAccount removes the account of owner
func (k *Keeper) DeleteAccount(ctx sdk.Context, owner string) {
	k.GetStore(ctx).Delete(AccountKey(owner))
}

// GetAllAccounts returns every user account ordered by owner
func (k *Keeper) GetAllAccounts(ctx sdk.Context) []*types.UserAccount {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), AccountKeyPrefix)
	defer iterator.Close()

	var accounts []*types.UserAccount
	for ; iterator.Valid(); iterator.Next() {
		var acc types.UserAccount
		if err := json.Unmarshal(iterator.Value(), &acc); err != nil {
			continue
		}
		accounts = append(accounts, &acc)
	}
	return accounts
}

// ============ Value transfers ============

func (k *Keeper) coins(ctx sdk.Context, amount math.Int) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(k.GetParams(ctx).Denom, amount))
}

// pull moves amount from addr into the module account
func (k *Keeper) pull(ctx sdk.Context, from string, amount math.Int) error {
	addr, err := sdk.AccAddressFromBech32(from)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("%q: %s", from, err)
	}
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, addr, types.ModuleName, k.coins(ctx, amount)); err != nil {
		return types.ErrTransferFailed.Wrapf("pull %s from %s: %s", amount, from, err)
	}
	return nil
}

// pay moves amount from the module account to addr
func (k *Keeper) pay(ctx sdk.Context, to string, amount math.Int) error {
	addr, err := sdk.AccAddressFromBech32(to)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("%q: %s", to, err)
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, addr, k.coins(ctx, amount)); err != nil {
		return types.ErrTransferFailed.Wrapf("pay %s to %s: %s", amount, to, err)
	}
	return nil
}

// GetContractBalance returns the value custodied by the module account
func (k *Keeper) GetContractBalance(ctx sdk.Context) math.Int {
	return k.bankKeeper.GetBalance(ctx, k.ModuleAddress(), k.GetParams(ctx).Denom).Amount
}
