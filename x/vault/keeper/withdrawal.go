package keeper

import (
	"context"
	"strconv"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/yield-vault/x/vault/types"
)

// Compound adds every deposit's accrued reward to the deposit at depositIndex
// and restarts accrual for all deposits. Returns the compounded amount.
func (k *Keeper) Compound(ctx context.Context, owner string, depositIndex uint32) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	state := k.GetLedgerState(sdkCtx)
	if state.Paused {
		return math.ZeroInt(), types.ErrPaused.Wrap("compounding is blocked while paused")
	}

	acc := k.GetAccount(sdkCtx, owner)
	if acc == nil || len(acc.Deposits) == 0 {
		return math.ZeroInt(), types.ErrNoDepositsFound.Wrapf("user %s", owner)
	}
	if int(depositIndex) >= len(acc.Deposits) {
		return math.ZeroInt(), types.ErrInvalidDepositIndex.Wrapf("index %d, user holds %d deposits", depositIndex, len(acc.Deposits))
	}

	now := sdkCtx.BlockTime().Unix()
	total, perDeposit := AccrueAll(acc, now, k.GetParams(sdkCtx))
	if !total.IsPositive() {
		return math.ZeroInt(), types.ErrNoRewardsAvailable.Wrapf("user %s", owner)
	}

	err := k.atomically(sdkCtx, func(ctx sdk.Context) error {
		settleRewards(acc, perDeposit, now)
		acc.Deposits[depositIndex].Amount = acc.Deposits[depositIndex].Amount.Add(total)
		k.SetAccount(ctx, acc)

		state.TotalPoolBalance = state.TotalPoolBalance.Add(total)
		state.TotalRewardsPaid = state.TotalRewardsPaid.Add(total)
		k.SetLedgerState(ctx, state)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeCompound,
				sdk.NewAttribute(types.AttributeKeyUser, owner),
				sdk.NewAttribute(types.AttributeKeyReward, total.String()),
				sdk.NewAttribute(types.AttributeKeyDepositIndex, strconv.FormatUint(uint64(depositIndex), 10)),
				sdk.NewAttribute(types.AttributeKeyPoolBalance, state.TotalPoolBalance.String()),
			),
		)
		return nil
	})
	if err != nil {
		return math.ZeroInt(), err
	}

	k.logger.Info("Rewards compounded",
		"user", owner,
		"reward", total.String(),
		"deposit_index", depositIndex,
	)
	return total, nil
}

// Withdraw pays out the accrued reward of owner, keeping principal in place
func (k *Keeper) Withdraw(ctx context.Context, owner string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	state := k.GetLedgerState(sdkCtx)
	if state.Paused {
		return math.ZeroInt(), types.ErrPaused.Wrap("withdrawals are blocked while paused")
	}

	acc := k.GetAccount(sdkCtx, owner)
	if acc == nil || len(acc.Deposits) == 0 {
		return math.ZeroInt(), types.ErrNoDepositsFound.Wrapf("user %s", owner)
	}

	now := sdkCtx.BlockTime().Unix()
	if acc.HasLockedDeposit(now) {
		return math.ZeroInt(), types.ErrFundsAreLocked.Wrapf("locked until %s",
			time.Unix(acc.LatestUnlock(), 0).UTC().Format(time.RFC3339))
	}

	params := k.GetParams(sdkCtx)
	total, perDeposit := AccrueAll(acc, now, params)
	if !total.IsPositive() {
		return math.ZeroInt(), types.ErrNoRewardsAvailable.Wrapf("user %s", owner)
	}

	used := acc.WindowUsage(now)
	if used.Add(total).GT(params.DailyWithdrawalLimit) {
		return math.ZeroInt(), types.ErrDailyWithdrawalLimitExceeded.Wrapf("requested %s, already withdrawn %s, limit %s",
			total, used, params.DailyWithdrawalLimit)
	}

	err := k.atomically(sdkCtx, func(ctx sdk.Context) error {
		settleRewards(acc, perDeposit, now)
		acc.WithdrawnInWindow = used.Add(total)
		acc.LastWithdrawTimestamp = now
		k.SetAccount(ctx, acc)

		state.TotalRewardsPaid = state.TotalRewardsPaid.Add(total)
		k.SetLedgerState(ctx, state)

		if err := k.pay(ctx, owner, total); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeWithdraw,
				sdk.NewAttribute(types.AttributeKeyUser, owner),
				sdk.NewAttribute(types.AttributeKeyReward, total.String()),
			),
		)
		return nil
	})
	if err != nil {
		return math.ZeroInt(), err
	}

	k.logger.Info("Rewards withdrawn", "user", owner, "amount", total.String())
	return total, nil
}

// WithdrawAll pays out principal plus reward of every deposit and closes the
// account. Any deposit still inside its lockup fails the whole call.
func (k *Keeper) WithdrawAll(ctx context.Context, owner string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	state := k.GetLedgerState(sdkCtx)
	if state.Paused {
		return math.ZeroInt(), types.ErrPaused.Wrap("withdrawals are blocked while paused")
	}

	acc := k.GetAccount(sdkCtx, owner)
	if acc == nil || len(acc.Deposits) == 0 {
		return math.ZeroInt(), types.ErrNoDepositsFound.Wrapf("user %s", owner)
	}

	now := sdkCtx.BlockTime().Unix()
	for _, d := range acc.Deposits {
		if d.IsLocked(now) {
			return math.ZeroInt(), types.ErrFundsAreLocked.Wrapf("deposit %d locked until %s",
				d.ID, time.Unix(d.UnlockAt(), 0).UTC().Format(time.RFC3339))
		}
	}

	reward, _ := AccrueAll(acc, now, k.GetParams(sdkCtx))
	principal := acc.TotalDeposited()
	payout := principal.Add(reward)

	err := k.atomically(sdkCtx, func(ctx sdk.Context) error {
		k.DeleteAccount(ctx, owner)

		state.TotalPoolBalance = state.TotalPoolBalance.Sub(principal)
		state.TotalRewardsPaid = state.TotalRewardsPaid.Add(reward)
		if state.UniqueUsersCount > 0 {
			state.UniqueUsersCount--
		}
		k.SetLedgerState(ctx, state)

		if err := k.pay(ctx, owner, payout); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeWithdrawAll,
				sdk.NewAttribute(types.AttributeKeyUser, owner),
				sdk.NewAttribute(types.AttributeKeyPrincipal, principal.String()),
				sdk.NewAttribute(types.AttributeKeyReward, reward.String()),
				sdk.NewAttribute(types.AttributeKeyAmount, payout.String()),
			),
		)
		return nil
	})
	if err != nil {
		return math.ZeroInt(), err
	}

	k.logger.Info("Account closed",
		"user", owner,
		"principal", principal.String(),
		"reward", reward.String(),
	)
	return payout, nil
}
