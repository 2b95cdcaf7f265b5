package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/yield-vault/x/vault/types"
)

// Pause blocks deposits, withdrawals and compounding and opens the emergency paths
func (k *Keeper) Pause(ctx context.Context, caller string) error {
	return k.setPaused(ctx, caller, true)
}

// Unpause returns the vault to normal operation
func (k *Keeper) Unpause(ctx context.Context, caller string) error {
	return k.setPaused(ctx, caller, false)
}

func (k *Keeper) setPaused(ctx context.Context, caller string, paused bool) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.requireAuthority(caller); err != nil {
		return err
	}

	state := k.GetLedgerState(sdkCtx)
	if paused && state.Paused {
		return types.ErrPaused.Wrap("vault is already paused")
	}
	if !paused && !state.Paused {
		return types.ErrNotPaused.Wrap("vault is not paused")
	}

	state.Paused = paused
	k.SetLedgerState(sdkCtx, state)

	eventType := types.EventTypeUnpaused
	if paused {
		eventType = types.EventTypePaused
	}
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute(types.AttributeKeyAdmin, caller),
		),
	)
	k.logger.Info("Vault pause state changed", "paused", paused, "status", state.Status())
	return nil
}

// MigrateToNewContract permanently closes the vault to new deposits and records
// where depositors should go instead. Existing deposits stay withdrawable.
func (k *Keeper) MigrateToNewContract(ctx context.Context, caller, newAddress string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.requireAuthority(caller); err != nil {
		return err
	}
	if newAddress == "" {
		return types.ErrInvalidAddress.Wrap("migration target cannot be empty")
	}
	if _, err := sdk.AccAddressFromBech32(newAddress); err != nil {
		return types.ErrInvalidAddress.Wrapf("migration target %q: %s", newAddress, err)
	}

	state := k.GetLedgerState(sdkCtx)
	if state.Migrated {
		return types.ErrContractIsMigrated.Wrapf("already migrated to %s", state.MigrationTarget)
	}

	state.Migrated = true
	state.MigrationTarget = newAddress
	k.SetLedgerState(sdkCtx, state)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMigrated,
			sdk.NewAttribute(types.AttributeKeyAdmin, caller),
			sdk.NewAttribute(types.AttributeKeyTarget, newAddress),
		),
	)
	k.logger.Info("Vault migrated", "target", newAddress)
	return nil
}

// EmergencyUserWithdraw returns the caller's principal while the vault is
// paused. Accrued reward is forfeited and the account is closed.
func (k *Keeper) EmergencyUserWithdraw(ctx context.Context, owner string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	state := k.GetLedgerState(sdkCtx)
	if !state.Paused {
		return math.ZeroInt(), types.ErrNotPaused.Wrap("emergency withdrawal requires a paused vault")
	}

	acc := k.GetAccount(sdkCtx, owner)
	if acc == nil || len(acc.Deposits) == 0 {
		return math.ZeroInt(), types.ErrNoDepositsFound.Wrapf("user %s", owner)
	}
	principal := acc.TotalDeposited()

	err := k.atomically(sdkCtx, func(ctx sdk.Context) error {
		k.DeleteAccount(ctx, owner)

		state.TotalPoolBalance = state.TotalPoolBalance.Sub(principal)
		if state.UniqueUsersCount > 0 {
			state.UniqueUsersCount--
		}
		k.SetLedgerState(ctx, state)

		if err := k.pay(ctx, owner, principal); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeEmergencyUserWithdraw,
				sdk.NewAttribute(types.AttributeKeyUser, owner),
				sdk.NewAttribute(types.AttributeKeyPrincipal, principal.String()),
			),
		)
		return nil
	})
	if err != nil {
		return math.ZeroInt(), err
	}

	k.logger.Warn("Emergency user withdrawal", "user", owner, "principal", principal.String())
	return principal, nil
}

// EmergencyWithdraw sweeps the entire module balance to the given address.
// Ledger records are left untouched.
func (k *Keeper) EmergencyWithdraw(ctx context.Context, caller, to string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.requireAuthority(caller); err != nil {
		return math.ZeroInt(), err
	}
	if !k.GetLedgerState(sdkCtx).Paused {
		return math.ZeroInt(), types.ErrNotPaused.Wrap("emergency sweep requires a paused vault")
	}
	if to == "" {
		return math.ZeroInt(), types.ErrInvalidAddress.Wrap("recipient cannot be empty")
	}
	if _, err := sdk.AccAddressFromBech32(to); err != nil {
		return math.ZeroInt(), types.ErrInvalidAddress.Wrapf("recipient %q: %s", to, err)
	}

	balance := k.GetContractBalance(sdkCtx)
	if !balance.IsPositive() {
		return math.ZeroInt(), nil
	}

	err := k.atomically(sdkCtx, func(ctx sdk.Context) error {
		if err := k.pay(ctx, to, balance); err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeEmergencyWithdraw,
				sdk.NewAttribute(types.AttributeKeyAdmin, caller),
				sdk.NewAttribute(types.AttributeKeyTarget, to),
				sdk.NewAttribute(types.AttributeKeyAmount, balance.String()),
			),
		)
		return nil
	})
	if err != nil {
		return math.ZeroInt(), err
	}

	k.logger.Warn("Emergency sweep", "to", to, "amount", balance.String())
	return balance, nil
}
