package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/suite"

	"github.com/openalpha/yield-vault/x/vault/keeper"
	"github.com/openalpha/yield-vault/x/vault/localnet"
	"github.com/openalpha/yield-vault/x/vault/types"
)

const day = 24 * time.Hour

func testAddr(name string) sdk.AccAddress {
	bz := make([]byte, 20)
	copy(bz, name)
	return sdk.AccAddress(bz)
}

// KeeperTestSuite runs vault keeper operations on an in-memory chain
type KeeperTestSuite struct {
	suite.Suite

	chain    *localnet.Chain
	k        *keeper.Keeper
	admin    sdk.AccAddress
	treasury sdk.AccAddress
	alice    sdk.AccAddress
	bob      sdk.AccAddress
}

func TestKeeperTestSuite(t *testing.T) {
	suite.Run(t, new(KeeperTestSuite))
}

// SetupTest runs before each test
func (s *KeeperTestSuite) SetupTest() {
	s.admin = testAddr("admin")
	s.treasury = testAddr("treasury")
	s.alice = testAddr("alice")
	s.bob = testAddr("bob")

	chain, err := localnet.NewChain(localnet.Config{
		Authority:   s.admin.String(),
		Treasury:    s.treasury.String(),
		GenesisTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
	s.chain = chain
	s.k = chain.Keeper

	s.chain.Fund(s.admin, 10_000_000)
	s.chain.Fund(s.alice, 10_000_000)
	s.chain.Fund(s.bob, 10_000_000)
}

func (s *KeeperTestSuite) ctx() sdk.Context {
	return s.chain.Context()
}

func (s *KeeperTestSuite) deposit(owner sdk.AccAddress, lockup uint64, amount int64) *types.Deposit {
	d, _, err := s.k.Deposit(s.ctx(), owner.String(), lockup, math.NewInt(amount))
	s.Require().NoError(err)
	return d
}

func (s *KeeperTestSuite) setParams(mutate func(p *types.Params)) {
	p := s.k.GetParams(s.ctx())
	mutate(&p)
	s.Require().NoError(p.Validate())
	s.k.SetParams(s.ctx(), p)
}

func (s *KeeperTestSuite) hasEvent(eventType string) bool {
	for _, ev := range s.ctx().EventManager().Events() {
		if ev.Type == eventType {
			return true
		}
	}
	return false
}

// ============ Deposits and commission ============

func (s *KeeperTestSuite) TestDeposit_NetOfCommission() {
	d, commission, err := s.k.Deposit(s.ctx(), s.alice.String(), 0, math.NewInt(100))
	s.Require().NoError(err)

	s.Require().Equal(int64(94), d.Amount.Int64())
	s.Require().Equal(int64(94), d.Principal.Int64())
	s.Require().Equal(int64(6), commission.Int64())
	s.Require().Equal(uint64(1), d.ID)

	state := s.k.GetLedgerState(s.ctx())
	s.Require().Equal(int64(94), state.TotalPoolBalance.Int64())
	s.Require().Equal(uint64(1), state.UniqueUsersCount)
	s.Require().True(state.PendingCommission.IsZero())
	s.Require().Equal(int64(6), state.TotalCommissionForwarded.Int64())

	s.Require().Equal(int64(6), s.chain.Balance(s.treasury))
	s.Require().Equal(int64(94), s.k.GetContractBalance(s.ctx()).Int64())
	s.Require().Equal(int64(10_000_000-100), s.chain.Balance(s.alice))
	s.Require().True(s.hasEvent(types.EventTypeDeposit))
	s.Require().True(s.hasEvent(types.EventTypeCommissionForwarded))
}

func (s *KeeperTestSuite) TestDeposit_UniqueUsersCountedOnce() {
	s.deposit(s.alice, 0, 1000)
	s.deposit(s.alice, 30, 1000)
	s.deposit(s.bob, 90, 1000)

	state := s.k.GetLedgerState(s.ctx())
	s.Require().Equal(uint64(2), state.UniqueUsersCount)
	s.Require().Equal(int64(3*940), state.TotalPoolBalance.Int64())
	s.Require().Equal(uint64(4), state.NextDepositID)

	deposits := s.k.GetUserDeposits(s.ctx(), s.alice.String())
	s.Require().Len(deposits, 2)
	s.Require().Equal(types.Lockup30Days, deposits[1].LockupDays)
	s.Require().Equal(int64(1880), s.k.GetTotalDeposit(s.ctx(), s.alice.String()).Int64())
}

func (s *KeeperTestSuite) TestDeposit_Bounds() {
	cases := []struct {
		name   string
		amount int64
		lockup uint64
		err    error
	}{
		{"below min", 99, 0, types.ErrDepositTooLow},
		{"above max", 1_000_000_001, 0, types.ErrDepositTooHigh},
		{"unknown lockup", 1000, 45, types.ErrInvalidLockupDuration},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, _, err := s.k.Deposit(s.ctx(), s.alice.String(), tc.lockup, math.NewInt(tc.amount))
			s.Require().ErrorIs(err, tc.err)
			s.Require().True(s.k.GetLedgerState(s.ctx()).TotalPoolBalance.IsZero())
			s.Require().Nil(s.k.GetAccount(s.ctx(), s.alice.String()))
		})
	}
}

func (s *KeeperTestSuite) TestDeposit_BoundsAreInclusive() {
	s.chain.Fund(s.alice, 1_000_000_000)
	s.deposit(s.alice, 0, 100)
	s.deposit(s.alice, 0, 1_000_000_000)
}

func (s *KeeperTestSuite) TestDeposit_MaxDepositsReached() {
	s.setParams(func(p *types.Params) { p.MaxDepositsPerUser = 2 })

	s.deposit(s.alice, 0, 100)
	s.deposit(s.alice, 0, 100)

	_, _, err := s.k.Deposit(s.ctx(), s.alice.String(), 0, math.NewInt(100))
	s.Require().ErrorIs(err, types.ErrMaxDepositsReached)
	s.Require().Len(s.k.GetUserDeposits(s.ctx(), s.alice.String()), 2)
}

func (s *KeeperTestSuite) TestDeposit_InsufficientFundsRollsBack() {
	poor := testAddr("poor")
	s.chain.Fund(poor, 50)

	_, _, err := s.k.Deposit(s.ctx(), poor.String(), 0, math.NewInt(100))
	s.Require().ErrorIs(err, types.ErrTransferFailed)

	state := s.k.GetLedgerState(s.ctx())
	s.Require().True(state.TotalPoolBalance.IsZero())
	s.Require().Zero(state.UniqueUsersCount)
	s.Require().Equal(uint64(1), state.NextDepositID)
	s.Require().Nil(s.k.GetAccount(s.ctx(), poor.String()))
	s.Require().Equal(int64(50), s.chain.Balance(poor))
	s.Require().Zero(s.chain.Balance(s.treasury))
}

func (s *KeeperTestSuite) TestDeposit_TreasuryRejectsTransfers() {
	s.chain.Bank.Block(s.treasury)

	d, commission, err := s.k.Deposit(s.ctx(), s.alice.String(), 0, math.NewInt(100))
	s.Require().NoError(err)
	s.Require().Equal(int64(94), d.Amount.Int64())

	state := s.k.GetLedgerState(s.ctx())
	s.Require().Equal(commission.Int64(), state.PendingCommission.Int64())
	s.Require().Equal(int64(94), state.TotalPoolBalance.Int64())
	s.Require().True(state.TotalCommissionForwarded.IsZero())
	s.Require().Zero(s.chain.Balance(s.treasury))
	s.Require().Equal(int64(100), s.k.GetContractBalance(s.ctx()).Int64())
	s.Require().True(s.hasEvent(types.EventTypeCommissionPending))

	s.deposit(s.bob, 0, 1000)
	s.Require().Equal(int64(66), s.k.GetLedgerState(s.ctx()).PendingCommission.Int64())
}

func (s *KeeperTestSuite) TestWithdrawPendingCommission() {
	s.chain.Bank.Block(s.treasury)
	s.deposit(s.alice, 0, 1000)

	_, err := s.k.WithdrawPendingCommission(s.ctx(), s.alice.String())
	s.Require().ErrorIs(err, types.ErrUnauthorized)

	// still blocked: the retrieval itself is all-or-nothing
	_, err = s.k.WithdrawPendingCommission(s.ctx(), s.admin.String())
	s.Require().ErrorIs(err, types.ErrTransferFailed)
	s.Require().Equal(int64(60), s.k.GetLedgerState(s.ctx()).PendingCommission.Int64())

	s.chain.Bank.Unblock(s.treasury)
	paid, err := s.k.WithdrawPendingCommission(s.ctx(), s.admin.String())
	s.Require().NoError(err)
	s.Require().Equal(int64(60), paid.Int64())
	s.Require().Equal(int64(60), s.chain.Balance(s.treasury))

	state := s.k.GetLedgerState(s.ctx())
	s.Require().True(state.PendingCommission.IsZero())
	s.Require().Equal(int64(60), state.TotalCommissionForwarded.Int64())

	_, err = s.k.WithdrawPendingCommission(s.ctx(), s.admin.String())
	s.Require().ErrorIs(err, types.ErrNoPendingCommission)
}

func (s *KeeperTestSuite) TestChangeTreasury() {
	newTreasury := testAddr("treasury2")

	s.Require().ErrorIs(s.k.ChangeTreasury(s.ctx(), s.alice.String(), newTreasury.String()), types.ErrUnauthorized)
	s.Require().ErrorIs(s.k.ChangeTreasury(s.ctx(), s.admin.String(), ""), types.ErrInvalidAddress)
	s.Require().ErrorIs(s.k.ChangeTreasury(s.ctx(), s.admin.String(), "not-an-address"), types.ErrInvalidAddress)
	s.Require().ErrorIs(s.k.ChangeTreasury(s.ctx(), s.admin.String(), s.k.ModuleAddress().String()), types.ErrInvalidAddress)
	s.Require().Equal(s.treasury.String(), s.k.GetLedgerState(s.ctx()).Treasury)

	s.Require().NoError(s.k.ChangeTreasury(s.ctx(), s.admin.String(), newTreasury.String()))
	s.deposit(s.alice, 0, 1000)

	s.Require().Equal(int64(60), s.chain.Balance(newTreasury))
	s.Require().Zero(s.chain.Balance(s.treasury))
}

func (s *KeeperTestSuite) TestAddBalance() {
	s.Require().ErrorIs(s.k.AddBalance(s.ctx(), s.alice.String(), math.NewInt(1000)), types.ErrUnauthorized)
	s.Require().ErrorIs(s.k.AddBalance(s.ctx(), s.admin.String(), math.ZeroInt()), types.ErrInvalidAmount)

	s.Require().NoError(s.k.AddBalance(s.ctx(), s.admin.String(), math.NewInt(5000)))

	state := s.k.GetLedgerState(s.ctx())
	s.Require().Equal(int64(5000), state.TotalInjected.Int64())
	s.Require().True(state.TotalPoolBalance.IsZero())
	s.Require().Equal(int64(5000), s.k.GetContractBalance(s.ctx()).Int64())
}

// ============ Rewards and withdrawals ============

func (s *KeeperTestSuite) TestWithdraw_LockedThenUnlocked() {
	s.Require().NoError(s.k.AddBalance(s.ctx(), s.admin.String(), math.NewInt(10_000)))
	s.deposit(s.alice, 30, 100)

	s.chain.Advance(29 * day)
	_, err := s.k.Withdraw(s.ctx(), s.alice.String())
	s.Require().ErrorIs(err, types.ErrFundsAreLocked)

	s.chain.Advance(2 * day)
	before := s.chain.Balance(s.alice)
	paid, err := s.k.Withdraw(s.ctx(), s.alice.String())
	s.Require().NoError(err)

	// 94 * 0.0001 * 744h * (1 + 0.05 held + 0.05 lockup) = 7.69
	s.Require().Equal(int64(7), paid.Int64())
	s.Require().Equal(before+7, s.chain.Balance(s.alice))
	s.Require().Equal(int64(94), s.k.GetTotalDeposit(s.ctx(), s.alice.String()).Int64())
	s.Require().Equal(int64(94), s.k.GetLedgerState(s.ctx()).TotalPoolBalance.Int64())
	s.Require().True(s.k.CalculateRewards(s.ctx(), s.alice.String()).IsZero())
}

func (s *KeeperTestSuite) TestWithdraw_NoDepositsOrRewards() {
	_, err := s.k.Withdraw(s.ctx(), s.alice.String())
	s.Require().ErrorIs(err, types.ErrNoDepositsFound)

	s.deposit(s.alice, 0, 100)
	_, err = s.k.Withdraw(s.ctx(), s.alice.String())
	s.Require().ErrorIs(err, types.ErrNoRewardsAvailable)
}

func (s *KeeperTestSuite) TestWithdraw_DailyLimit() {
	s.setParams(func(p *types.Params) { p.DailyWithdrawalLimit = math.NewInt(2500) })
	s.deposit(s.alice, 0, 1_000_000) // net 940000, 94 per hour

	s.chain.Advance(20 * time.Hour)
	paid, err := s.k.Withdraw(s.ctx(), s.alice.String())
	s.Require().NoError(err)
	s.Require().Equal(int64(1880), paid.Int64())

	s.chain.Advance(10 * time.Hour)
	_, err = s.k.Withdraw(s.ctx(), s.alice.String())
	s.Require().ErrorIs(err, types.ErrDailyWithdrawalLimitExceeded)

	acc := s.k.GetAccount(s.ctx(), s.alice.String())
	s.Require().Equal(int64(1880), acc.WithdrawnInWindow.Int64())

	// window resets 24h after the last successful withdrawal
	s.chain.Advance(14 * time.Hour)
	paid, err = s.k.Withdraw(s.ctx(), s.alice.String())
	s.Require().NoError(err)
	s.Require().Equal(int64(2256), paid.Int64())

	acc = s.k.GetAccount(s.ctx(), s.alice.String())
	s.Require().Equal(int64(2256), acc.WithdrawnInWindow.Int64())
	s.Require().Equal(s.chain.Now().Unix(), acc.LastWithdrawTimestamp)
}

func (s *KeeperTestSuite) TestWithdraw_TransferFailureLeavesStateUntouched() {
	s.deposit(s.alice, 0, 10_000)
	s.chain.Advance(10 * time.Hour)

	s.chain.Bank.Block(s.alice)
	_, err := s.k.Withdraw(s.ctx(), s.alice.String())
	s.Require().ErrorIs(err, types.ErrTransferFailed)

	acc := s.k.GetAccount(s.ctx(), s.alice.String())
	s.Require().True(acc.Deposits[0].RewardPaid.IsZero())
	s.Require().Zero(acc.LastWithdrawTimestamp)
	s.Require().Equal(int64(9), s.k.CalculateRewards(s.ctx(), s.alice.String()).Int64())
	s.Require().True(s.k.GetLedgerState(s.ctx()).TotalRewardsPaid.IsZero())
}

func (s *KeeperTestSuite) TestRewardCap() {
	s.Require().NoError(s.k.AddBalance(s.ctx(), s.admin.String(), math.NewInt(10_000)))
	s.deposit(s.alice, 365, 1000) // net 940, cap 1222

	s.chain.Advance(400 * day)
	s.Require().Equal(int64(1222), s.k.CalculateRewards(s.ctx(), s.alice.String()).Int64())

	paid, err := s.k.Withdraw(s.ctx(), s.alice.String())
	s.Require().NoError(err)
	s.Require().Equal(int64(1222), paid.Int64())

	s.chain.Advance(100 * day)
	s.Require().True(s.k.CalculateRewards(s.ctx(), s.alice.String()).IsZero())
	_, err = s.k.Withdraw(s.ctx(), s.alice.String())
	s.Require().ErrorIs(err, types.ErrNoRewardsAvailable)

	acc := s.k.GetAccount(s.ctx(), s.alice.String())
	s.Require().Equal(acc.Deposits[0].RewardCap(types.DefaultMaxROIBps).Int64(), acc.Deposits[0].RewardPaid.Int64())
}

func (s *KeeperTestSuite) TestCompound() {
	s.deposit(s.alice, 0, 10_000) // net 9400
	s.deposit(s.alice, 0, 10_000)

	_, err := s.k.Compound(s.ctx(), s.alice.String(), 0)
	s.Require().ErrorIs(err, types.ErrNoRewardsAvailable)

	s.chain.Advance(10 * time.Hour)
	_, err = s.k.Compound(s.ctx(), s.alice.String(), 2)
	s.Require().ErrorIs(err, types.ErrInvalidDepositIndex)

	compounded, err := s.k.Compound(s.ctx(), s.alice.String(), 1)
	s.Require().NoError(err)
	s.Require().Equal(int64(18), compounded.Int64())

	deposits := s.k.GetUserDeposits(s.ctx(), s.alice.String())
	s.Require().Equal(int64(9400), deposits[0].Amount.Int64())
	s.Require().Equal(int64(9418), deposits[1].Amount.Int64())
	s.Require().Equal(int64(9400), deposits[1].Principal.Int64())
	s.Require().Equal(int64(18818), s.k.GetLedgerState(s.ctx()).TotalPoolBalance.Int64())

	s.Require().True(s.k.CalculateRewards(s.ctx(), s.alice.String()).IsZero())
	_, err = s.k.Compound(s.ctx(), s.alice.String(), 0)
	s.Require().ErrorIs(err, types.ErrNoRewardsAvailable)
}

func (s *KeeperTestSuite) TestWithdrawAll() {
	s.Require().NoError(s.k.AddBalance(s.ctx(), s.admin.String(), math.NewInt(1000)))
	s.deposit(s.alice, 0, 100)
	s.deposit(s.alice, 30, 1000)
	s.deposit(s.bob, 0, 100)

	s.chain.Advance(10 * day)
	_, err := s.k.WithdrawAll(s.ctx(), s.alice.String())
	s.Require().ErrorIs(err, types.ErrFundsAreLocked)
	s.Require().Len(s.k.GetUserDeposits(s.ctx(), s.alice.String()), 2)

	s.chain.Advance(21 * day)
	before := s.chain.Balance(s.alice)
	paid, err := s.k.WithdrawAll(s.ctx(), s.alice.String())
	s.Require().NoError(err)

	// principal 94 + 940, rewards 7 + 76 after 31 days
	s.Require().Equal(int64(1117), paid.Int64())
	s.Require().Equal(before+1117, s.chain.Balance(s.alice))
	s.Require().Nil(s.k.GetAccount(s.ctx(), s.alice.String()))

	state := s.k.GetLedgerState(s.ctx())
	s.Require().Equal(uint64(1), state.UniqueUsersCount)
	s.Require().Equal(int64(94), state.TotalPoolBalance.Int64())

	_, err = s.k.WithdrawAll(s.ctx(), s.alice.String())
	s.Require().ErrorIs(err, types.ErrNoDepositsFound)
}

func (s *KeeperTestSuite) TestUserInfo() {
	info := s.k.GetUserInfo(s.ctx(), s.alice.String())
	s.Require().True(info.TotalDeposited.IsZero())
	s.Require().True(info.PendingRewards.IsZero())

	s.deposit(s.alice, 0, 10_000)
	s.chain.Advance(10 * time.Hour)
	_, err := s.k.Withdraw(s.ctx(), s.alice.String())
	s.Require().NoError(err)
	s.chain.Advance(10 * time.Hour)

	info = s.k.GetUserInfo(s.ctx(), s.alice.String())
	s.Require().Equal(int64(9400), info.TotalDeposited.Int64())
	s.Require().Equal(int64(9), info.PendingRewards.Int64())
	s.Require().Equal(s.chain.Now().Add(-10*time.Hour).Unix(), info.LastWithdraw)
	s.Require().Equal(1, info.DepositCount)
}

// ============ Admin state machine ============

func (s *KeeperTestSuite) TestPause_BlocksUserOperations() {
	s.deposit(s.alice, 0, 10_000)
	s.chain.Advance(10 * time.Hour)

	s.Require().ErrorIs(s.k.Pause(s.ctx(), s.alice.String()), types.ErrUnauthorized)
	s.Require().NoError(s.k.Pause(s.ctx(), s.admin.String()))
	s.Require().ErrorIs(s.k.Pause(s.ctx(), s.admin.String()), types.ErrPaused)
	s.Require().Equal(types.StatusPaused, s.k.GetLedgerState(s.ctx()).Status())

	_, _, err := s.k.Deposit(s.ctx(), s.alice.String(), 0, math.NewInt(1000))
	s.Require().ErrorIs(err, types.ErrPaused)
	_, err = s.k.Withdraw(s.ctx(), s.alice.String())
	s.Require().ErrorIs(err, types.ErrPaused)
	_, err = s.k.WithdrawAll(s.ctx(), s.alice.String())
	s.Require().ErrorIs(err, types.ErrPaused)
	_, err = s.k.Compound(s.ctx(), s.alice.String(), 0)
	s.Require().ErrorIs(err, types.ErrPaused)

	s.Require().NoError(s.k.Unpause(s.ctx(), s.admin.String()))
	s.Require().ErrorIs(s.k.Unpause(s.ctx(), s.admin.String()), types.ErrNotPaused)

	_, err = s.k.Withdraw(s.ctx(), s.alice.String())
	s.Require().NoError(err)
}

func (s *KeeperTestSuite) TestEmergencyUserWithdraw() {
	s.deposit(s.alice, 365, 100)
	s.deposit(s.alice, 0, 1000)
	s.deposit(s.bob, 0, 1000)
	s.chain.Advance(10 * day)

	_, err := s.k.EmergencyUserWithdraw(s.ctx(), s.alice.String())
	s.Require().ErrorIs(err, types.ErrNotPaused)

	s.Require().NoError(s.k.Pause(s.ctx(), s.admin.String()))

	before := s.chain.Balance(s.alice)
	paid, err := s.k.EmergencyUserWithdraw(s.ctx(), s.alice.String())
	s.Require().NoError(err)
	s.Require().Equal(int64(94+940), paid.Int64())
	s.Require().Equal(before+94+940, s.chain.Balance(s.alice))
	s.Require().Empty(s.k.GetUserDeposits(s.ctx(), s.alice.String()))

	state := s.k.GetLedgerState(s.ctx())
	s.Require().Equal(int64(940), state.TotalPoolBalance.Int64())
	s.Require().Equal(uint64(1), state.UniqueUsersCount)

	_, err = s.k.EmergencyUserWithdraw(s.ctx(), s.alice.String())
	s.Require().ErrorIs(err, types.ErrNoDepositsFound)
}

func (s *KeeperTestSuite) TestEmergencyWithdraw() {
	rescue := testAddr("rescue")
	s.deposit(s.alice, 0, 1000)
	s.Require().NoError(s.k.AddBalance(s.ctx(), s.admin.String(), math.NewInt(500)))

	_, err := s.k.EmergencyWithdraw(s.ctx(), s.admin.String(), rescue.String())
	s.Require().ErrorIs(err, types.ErrNotPaused)

	s.Require().NoError(s.k.Pause(s.ctx(), s.admin.String()))

	_, err = s.k.EmergencyWithdraw(s.ctx(), s.alice.String(), rescue.String())
	s.Require().ErrorIs(err, types.ErrUnauthorized)
	_, err = s.k.EmergencyWithdraw(s.ctx(), s.admin.String(), "")
	s.Require().ErrorIs(err, types.ErrInvalidAddress)

	swept, err := s.k.EmergencyWithdraw(s.ctx(), s.admin.String(), rescue.String())
	s.Require().NoError(err)
	s.Require().Equal(int64(1440), swept.Int64())
	s.Require().Equal(int64(1440), s.chain.Balance(rescue))
	s.Require().True(s.k.GetContractBalance(s.ctx()).IsZero())

	// ledger records are kept for off-chain reconciliation
	s.Require().Equal(int64(940), s.k.GetLedgerState(s.ctx()).TotalPoolBalance.Int64())
}

func (s *KeeperTestSuite) TestMigrate() {
	target := testAddr("vault2")
	s.Require().NoError(s.k.AddBalance(s.ctx(), s.admin.String(), math.NewInt(1000)))
	s.deposit(s.alice, 0, 10_000)

	s.Require().ErrorIs(s.k.MigrateToNewContract(s.ctx(), s.alice.String(), target.String()), types.ErrUnauthorized)
	s.Require().ErrorIs(s.k.MigrateToNewContract(s.ctx(), s.admin.String(), ""), types.ErrInvalidAddress)

	s.Require().NoError(s.k.MigrateToNewContract(s.ctx(), s.admin.String(), target.String()))
	s.Require().ErrorIs(s.k.MigrateToNewContract(s.ctx(), s.admin.String(), target.String()), types.ErrContractIsMigrated)

	state := s.k.GetLedgerState(s.ctx())
	s.Require().True(state.Migrated)
	s.Require().Equal(target.String(), state.MigrationTarget)
	s.Require().Equal(types.StatusMigrated, state.Status())

	_, _, err := s.k.Deposit(s.ctx(), s.alice.String(), 0, math.NewInt(1000))
	s.Require().ErrorIs(err, types.ErrContractIsMigrated)

	// existing depositors can still leave
	s.chain.Advance(10 * time.Hour)
	_, err = s.k.WithdrawAll(s.ctx(), s.alice.String())
	s.Require().NoError(err)

	s.Require().NoError(s.k.Pause(s.ctx(), s.admin.String()))
	s.Require().Equal(types.StatusPausedMigrated, s.k.GetLedgerState(s.ctx()).Status())
}

func (s *KeeperTestSuite) TestEndBlocker() {
	s.deposit(s.alice, 0, 1000)
	s.Require().NoError(s.chain.EndBlock())
	s.Require().True(s.hasEvent(types.EventTypeEndBlock))
}
