// Package localnet runs the vault keeper on an in-memory multistore, for the
// standalone API service and for tests.
package localnet

import (
	"fmt"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/yield-vault/x/vault/keeper"
	"github.com/openalpha/yield-vault/x/vault/types"
)

// Config describes the local chain to build
type Config struct {
	Authority   string
	Treasury    string
	Params      types.Params
	GenesisTime time.Time
	Logger      log.Logger
}

// Chain bundles a vault keeper with its bank and store
type Chain struct {
	Keeper *keeper.Keeper
	Bank   *Bank

	ctx sdk.Context
}

// NewChain creates a fresh in-memory chain with vault genesis applied
func NewChain(cfg Config) (*Chain, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.NewNopLogger()
	}
	if cfg.Params.Denom == "" {
		cfg.Params = types.DefaultParams()
	}
	if cfg.GenesisTime.IsZero() {
		cfg.GenesisTime = time.Now()
	}

	interfaceRegistry := codectypes.NewInterfaceRegistry()
	types.RegisterInterfaces(interfaceRegistry)
	cdc := codec.NewProtoCodec(interfaceRegistry)

	vaultKey := storetypes.NewKVStoreKey(types.StoreKey)
	bankKey := storetypes.NewKVStoreKey("bank")

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, cfg.Logger, metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(vaultKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{
		Time:   cfg.GenesisTime,
		Height: 1,
	}, false, cfg.Logger)

	bank := NewBank(bankKey)
	k := keeper.NewKeeper(cdc, vaultKey, bank, cfg.Authority, cfg.Logger)

	gs := types.DefaultGenesis()
	gs.Params = cfg.Params
	gs.State.Treasury = cfg.Treasury
	if err := gs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}
	k.InitGenesis(ctx, *gs)

	return &Chain{Keeper: k, Bank: bank, ctx: ctx}, nil
}

// Context returns the chain context at the current block
func (c *Chain) Context() sdk.Context {
	return c.ctx
}

// Now returns the current block time
func (c *Chain) Now() time.Time {
	return c.ctx.BlockTime()
}

// SetTime moves block time to t and advances the height by one
func (c *Chain) SetTime(t time.Time) sdk.Context {
	c.ctx = c.ctx.WithBlockTime(t).WithBlockHeight(c.ctx.BlockHeight() + 1)
	return c.ctx
}

// Advance moves block time forward by d
func (c *Chain) Advance(d time.Duration) sdk.Context {
	return c.SetTime(c.ctx.BlockTime().Add(d))
}

// Fund mints amount of the vault denom to addr
func (c *Chain) Fund(addr sdk.AccAddress, amount int64) {
	denom := c.Keeper.GetParams(c.ctx).Denom
	c.Bank.Fund(c.ctx, addr, sdk.NewCoins(sdk.NewInt64Coin(denom, amount)))
}

// Balance returns the vault denom balance of addr
func (c *Chain) Balance(addr sdk.AccAddress) int64 {
	denom := c.Keeper.GetParams(c.ctx).Denom
	return c.Bank.GetBalance(c.ctx, addr, denom).Amount.Int64()
}

// EndBlock runs the vault EndBlocker at the current height
func (c *Chain) EndBlock() error {
	return c.Keeper.EndBlocker(c.ctx)
}
