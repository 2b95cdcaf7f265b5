package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/yield-vault/x/vault/types"
)

// Deposit pulls amount from depositor, takes commission and records a new
// deposit of the net amount with the given lockup
func (k *Keeper) Deposit(ctx context.Context, depositor string, lockupDays uint64, amount math.Int) (*types.Deposit, math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	params := k.GetParams(sdkCtx)
	state := k.GetLedgerState(sdkCtx)

	if state.Paused {
		return nil, math.ZeroInt(), types.ErrPaused.Wrap("deposits are blocked while paused")
	}
	if state.Migrated {
		return nil, math.ZeroInt(), types.ErrContractIsMigrated.Wrapf("deposits moved to %s", state.MigrationTarget)
	}
	if amount.IsNil() || amount.LT(params.MinDeposit) {
		return nil, math.ZeroInt(), types.ErrDepositTooLow.Wrapf("amount %s < min %s", amount, params.MinDeposit)
	}
	if amount.GT(params.MaxDeposit) {
		return nil, math.ZeroInt(), types.ErrDepositTooHigh.Wrapf("amount %s > max %s", amount, params.MaxDeposit)
	}
	lockup, err := types.ParseLockup(lockupDays)
	if err != nil {
		return nil, math.ZeroInt(), err
	}
	if _, err := sdk.AccAddressFromBech32(depositor); err != nil {
		return nil, math.ZeroInt(), types.ErrInvalidAddress.Wrapf("depositor %q: %s", depositor, err)
	}

	now := sdkCtx.BlockTime().Unix()
	acc := k.GetAccount(sdkCtx, depositor)
	firstDeposit := acc == nil
	if firstDeposit {
		acc = types.NewUserAccount(depositor, now)
	}
	if uint32(len(acc.Deposits)) >= params.MaxDepositsPerUser {
		return nil, math.ZeroInt(), types.ErrMaxDepositsReached.Wrapf("%s holds %d deposits, max %d",
			depositor, len(acc.Deposits), params.MaxDepositsPerUser)
	}

	net, commission := TakeCommission(amount, params.CommissionBps)

	var deposit types.Deposit
	err = k.atomically(sdkCtx, func(ctx sdk.Context) error {
		deposit = types.NewDeposit(state.NextDepositID, net, lockup, now)
		acc.Deposits = append(acc.Deposits, deposit)
		k.SetAccount(ctx, acc)

		state.NextDepositID++
		state.TotalPoolBalance = state.TotalPoolBalance.Add(net)
		if firstDeposit {
			state.UniqueUsersCount++
		}
		k.SetLedgerState(ctx, state)

		if err := k.pull(ctx, depositor, amount); err != nil {
			return err
		}
		k.forwardCommission(ctx, commission)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeDeposit,
				sdk.NewAttribute(types.AttributeKeyUser, depositor),
				sdk.NewAttribute(types.AttributeKeyDepositID, strconv.FormatUint(deposit.ID, 10)),
				sdk.NewAttribute(types.AttributeKeyGross, amount.String()),
				sdk.NewAttribute(types.AttributeKeyNet, net.String()),
				sdk.NewAttribute(types.AttributeKeyCommission, commission.String()),
				sdk.NewAttribute(types.AttributeKeyLockupDays, strconv.FormatUint(uint64(lockup), 10)),
			),
		)
		return nil
	})
	if err != nil {
		return nil, math.ZeroInt(), err
	}

	k.logger.Info("Deposit processed",
		"user", depositor,
		"deposit_id", deposit.ID,
		"gross", amount.String(),
		"net", net.String(),
		"commission", commission.String(),
		"lockup", lockup.String(),
	)

	return &deposit, commission, nil
}

// AddBalance injects value into the module account to fund future rewards
func (k *Keeper) AddBalance(ctx context.Context, caller string, amount math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.requireAuthority(caller); err != nil {
		return err
	}
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrap("amount must be greater than zero")
	}

	err := k.atomically(sdkCtx, func(ctx sdk.Context) error {
		state := k.GetLedgerState(ctx)
		state.TotalInjected = state.TotalInjected.Add(amount)
		k.SetLedgerState(ctx, state)

		if err := k.pull(ctx, caller, amount); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeAddBalance,
				sdk.NewAttribute(types.AttributeKeyAdmin, caller),
				sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			),
		)
		return nil
	})
	if err != nil {
		return err
	}

	k.logger.Info("Balance added", "amount", amount.String())
	return nil
}

// GetUserDeposits returns the deposits of user in insertion order
func (k *Keeper) GetUserDeposits(ctx sdk.Context, user string) []types.Deposit {
	acc := k.GetAccount(ctx, user)
	if acc == nil {
		return []types.Deposit{}
	}
	return acc.Deposits
}

// GetTotalDeposit returns the sum of the live deposits of user
func (k *Keeper) GetTotalDeposit(ctx sdk.Context, user string) math.Int {
	acc := k.GetAccount(ctx, user)
	if acc == nil {
		return math.ZeroInt()
	}
	return acc.TotalDeposited()
}
