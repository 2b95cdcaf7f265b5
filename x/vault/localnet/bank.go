package localnet

import (
	"context"
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

var balancePrefix = []byte{0x01}

// Bank is a minimal bank keeper whose balances live in the same multistore
// as the vault, so branched contexts roll transfers back with ledger writes.
type Bank struct {
	storeKey storetypes.StoreKey
	blocked  map[string]bool
}

// NewBank creates a bank persisting balances under storeKey
func NewBank(storeKey storetypes.StoreKey) *Bank {
	return &Bank{
		storeKey: storeKey,
		blocked:  make(map[string]bool),
	}
}

// Block makes addr reject all incoming transfers
func (b *Bank) Block(addr sdk.AccAddress) {
	b.blocked[addr.String()] = true
}

// Unblock lets addr receive transfers again
func (b *Bank) Unblock(addr sdk.AccAddress) {
	delete(b.blocked, addr.String())
}

// Fund mints coins into addr
func (b *Bank) Fund(ctx context.Context, addr sdk.AccAddress, coins sdk.Coins) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	for _, c := range coins {
		b.setBalance(sdkCtx, addr, c.Denom, b.balance(sdkCtx, addr, c.Denom).Add(c.Amount))
	}
}

// GetBalance returns the balance of addr in denom
func (b *Bank) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	return sdk.NewCoin(denom, b.balance(sdk.UnwrapSDKContext(ctx), addr, denom))
}

// SendCoinsFromAccountToModule moves amt from sender into the module account
func (b *Bank) SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	return b.send(sdk.UnwrapSDKContext(ctx), senderAddr, authtypes.NewModuleAddress(recipientModule), amt)
}

// SendCoinsFromModuleToAccount moves amt out of the module account
func (b *Bank) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	if b.blocked[recipientAddr.String()] {
		return errorsmod.Wrapf(sdkerrors.ErrUnauthorized, "%s is not allowed to receive funds", recipientAddr)
	}
	return b.send(sdk.UnwrapSDKContext(ctx), authtypes.NewModuleAddress(senderModule), recipientAddr, amt)
}

func (b *Bank) send(ctx sdk.Context, from, to sdk.AccAddress, amt sdk.Coins) error {
	if !amt.IsValid() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidCoins, amt.String())
	}
	for _, c := range amt {
		have := b.balance(ctx, from, c.Denom)
		if have.LT(c.Amount) {
			return errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "%s%s is smaller than %s", have, c.Denom, c)
		}
		b.setBalance(ctx, from, c.Denom, have.Sub(c.Amount))
		b.setBalance(ctx, to, c.Denom, b.balance(ctx, to, c.Denom).Add(c.Amount))
	}
	return nil
}

func balanceKey(addr sdk.AccAddress, denom string) []byte {
	key := append([]byte{}, balancePrefix...)
	key = append(key, address.MustLengthPrefix(addr)...)
	return append(key, []byte(denom)...)
}

func (b *Bank) balance(ctx sdk.Context, addr sdk.AccAddress, denom string) math.Int {
	bz := ctx.KVStore(b.storeKey).Get(balanceKey(addr, denom))
	if bz == nil {
		return math.ZeroInt()
	}
	var amount math.Int
	if err := json.Unmarshal(bz, &amount); err != nil {
		return math.ZeroInt()
	}
	return amount
}

func (b *Bank) setBalance(ctx sdk.Context, addr sdk.AccAddress, denom string, amount math.Int) {
	store := ctx.KVStore(b.storeKey)
	if amount.IsZero() {
		store.Delete(balanceKey(addr, denom))
		return
	}
	bz, _ := json.Marshal(amount)
	store.Set(balanceKey(addr, denom), bz)
}
