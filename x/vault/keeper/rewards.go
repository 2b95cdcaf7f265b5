package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/yield-vault/x/vault/types"
)

// AccrueReward returns the reward a deposit has earned since its accrual
// baseline, clamped to the remaining lifetime ROI headroom.
//
//	base       = amount * baseHourlyRate * hoursElapsed
//	multiplier = 1 + timeBonus(held) + lockupBonus(lockup)
//	reward     = trunc(base * multiplier), at most cap - rewardPaid
func AccrueReward(d types.Deposit, now int64, params types.Params) math.Int {
	elapsed := now - d.LastClaimTime
	if elapsed <= 0 || !d.Amount.IsPositive() {
		return math.ZeroInt()
	}

	headroom := d.RewardCap(params.MaxROIBps).Sub(d.RewardPaid)
	if !headroom.IsPositive() {
		return math.ZeroInt()
	}

	multiplier := math.LegacyOneDec().
		Add(params.TimeBonus(now - d.Timestamp)).
		Add(d.LockupDays.Bonus())

	// Divide by seconds-per-hour last to keep precision on short intervals
	reward := math.LegacyNewDecFromInt(d.Amount).
		Mul(params.BaseHourlyRate).
		MulInt64(elapsed).
		Mul(multiplier).
		QuoInt64(types.SecondsPerHour).
		TruncateInt()

	if reward.GT(headroom) {
		return headroom
	}
	return reward
}

// AccrueAll returns the total accrued reward of an account along with the
// per-deposit breakdown in deposit order
func AccrueAll(acc *types.UserAccount, now int64, params types.Params) (math.Int, []math.Int) {
	total := math.ZeroInt()
	if acc == nil {
		return total, nil
	}
	perDeposit := make([]math.Int, len(acc.Deposits))
	for i, d := range acc.Deposits {
		perDeposit[i] = AccrueReward(d, now, params)
		total = total.Add(perDeposit[i])
	}
	return total, perDeposit
}

// settleRewards applies per-deposit rewards: each deposit's lifetime paid
// amount grows and its accrual baseline moves to now
func settleRewards(acc *types.UserAccount, perDeposit []math.Int, now int64) {
	for i := range acc.Deposits {
		acc.Deposits[i].RewardPaid = acc.Deposits[i].RewardPaid.Add(perDeposit[i])
		acc.Deposits[i].LastClaimTime = now
	}
	acc.LastClaimTime = now
}

// CalculateRewards returns the reward accrued by user at the current block time
func (k *Keeper) CalculateRewards(ctx sdk.Context, user string) math.Int {
	total, _ := AccrueAll(k.GetAccount(ctx, user), ctx.BlockTime().Unix(), k.GetParams(ctx))
	return total
}

// GetUserInfo returns the deposit total, pending rewards and last withdrawal of user
func (k *Keeper) GetUserInfo(ctx sdk.Context, user string) types.UserInfo {
	acc := k.GetAccount(ctx, user)
	if acc == nil {
		return types.UserInfo{
			TotalDeposited: math.ZeroInt(),
			PendingRewards: math.ZeroInt(),
		}
	}
	pending, _ := AccrueAll(acc, ctx.BlockTime().Unix(), k.GetParams(ctx))
	return types.UserInfo{
		TotalDeposited: acc.TotalDeposited(),
		PendingRewards: pending,
		LastWithdraw:   acc.LastWithdrawTimestamp,
		DepositCount:   len(acc.Deposits),
	}
}
