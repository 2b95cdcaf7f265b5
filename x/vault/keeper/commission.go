package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/yield-vault/x/vault/types"
)

// TakeCommission splits gross into the net amount credited to the depositor and
// the commission owed to the treasury. Commission rounds toward zero.
func TakeCommission(gross math.Int, commissionBps uint64) (net, commission math.Int) {
	commission = gross.Mul(math.NewIntFromUint64(commissionBps)).QuoRaw(types.BpsDenominator)
	return gross.Sub(commission), commission
}

// forwardCommission sends commission from the module account to the treasury.
// A failed transfer never fails the caller: the amount is parked in
// PendingCommission and stays in the module account.
func (k *Keeper) forwardCommission(ctx sdk.Context, commission math.Int) {
	if !commission.IsPositive() {
		return
	}
	state := k.GetLedgerState(ctx)

	err := k.atomically(ctx, func(cacheCtx sdk.Context) error {
		return k.pay(cacheCtx, state.Treasury, commission)
	})
	if err != nil {
		state.PendingCommission = state.PendingCommission.Add(commission)
		k.SetLedgerState(ctx, state)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeCommissionPending,
				sdk.NewAttribute(types.AttributeKeyTreasury, state.Treasury),
				sdk.NewAttribute(types.AttributeKeyCommission, commission.String()),
				sdk.NewAttribute(types.AttributeKeyPending, state.PendingCommission.String()),
				sdk.NewAttribute(types.AttributeKeyError, err.Error()),
			),
		)
		k.logger.Warn("Commission forward failed, parked as pending",
			"treasury", state.Treasury,
			"commission", commission.String(),
			"pending", state.PendingCommission.String(),
			"error", err,
		)
		return
	}

	state.TotalCommissionForwarded = state.TotalCommissionForwarded.Add(commission)
	k.SetLedgerState(ctx, state)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCommissionForwarded,
			sdk.NewAttribute(types.AttributeKeyTreasury, state.Treasury),
			sdk.NewAttribute(types.AttributeKeyCommission, commission.String()),
		),
	)
}

// WithdrawPendingCommission pays the full pending commission to the treasury
func (k *Keeper) WithdrawPendingCommission(ctx context.Context, caller string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.requireAuthority(caller); err != nil {
		return math.ZeroInt(), err
	}

	var paid math.Int
	err := k.atomically(sdkCtx, func(ctx sdk.Context) error {
		state := k.GetLedgerState(ctx)
		if !state.PendingCommission.IsPositive() {
			return types.ErrNoPendingCommission
		}

		paid = state.PendingCommission
		state.PendingCommission = math.ZeroInt()
		state.TotalCommissionForwarded = state.TotalCommissionForwarded.Add(paid)
		k.SetLedgerState(ctx, state)

		if err := k.pay(ctx, state.Treasury, paid); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePendingCommissionWithdraw,
				sdk.NewAttribute(types.AttributeKeyTreasury, state.Treasury),
				sdk.NewAttribute(types.AttributeKeyAmount, paid.String()),
			),
		)
		return nil
	})
	if err != nil {
		return math.ZeroInt(), err
	}

	k.logger.Info("Pending commission withdrawn", "amount", paid.String())
	return paid, nil
}

// ChangeTreasury rotates the commission recipient
func (k *Keeper) ChangeTreasury(ctx context.Context, caller, treasury string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.requireAuthority(caller); err != nil {
		return err
	}
	if treasury == "" {
		return types.ErrInvalidAddress.Wrap("treasury cannot be empty")
	}
	addr, err := sdk.AccAddressFromBech32(treasury)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("treasury %q: %s", treasury, err)
	}
	if addr.Equals(k.ModuleAddress()) {
		return types.ErrInvalidAddress.Wrap("treasury cannot be the vault module account")
	}

	state := k.GetLedgerState(sdkCtx)
	old := state.Treasury
	state.Treasury = treasury
	k.SetLedgerState(sdkCtx, state)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTreasuryChanged,
			sdk.NewAttribute(types.AttributeKeyOldTreasury, old),
			sdk.NewAttribute(types.AttributeKeyTreasury, treasury),
		),
	)
	k.logger.Info("Treasury changed", "old", old, "new", treasury)
	return nil
}
