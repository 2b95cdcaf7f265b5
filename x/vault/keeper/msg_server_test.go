package keeper_test

import (
	"time"

	"github.com/openalpha/yield-vault/x/vault/keeper"
	"github.com/openalpha/yield-vault/x/vault/types"
)

func (s *KeeperTestSuite) TestMsgServer_DepositCompoundWithdraw() {
	srv := keeper.NewMsgServerImpl(s.k)

	depRes, err := srv.Deposit(s.ctx(), &types.MsgDeposit{
		Depositor:  s.alice.String(),
		LockupDays: 30,
		Amount:     "10000",
	})
	s.Require().NoError(err)
	s.Require().Equal(uint64(1), depRes.DepositID)
	s.Require().Equal("9400", depRes.NetAmount)
	s.Require().Equal("600", depRes.Commission)
	s.Require().Equal(s.chain.Now().Add(30*day).Unix(), depRes.UnlockAt)

	_, err = srv.Deposit(s.ctx(), &types.MsgDeposit{Depositor: s.alice.String(), Amount: "1.5"})
	s.Require().ErrorIs(err, types.ErrInvalidAmount)

	s.chain.Advance(10 * time.Hour)
	compRes, err := srv.Compound(s.ctx(), &types.MsgCompound{Owner: s.alice.String()})
	s.Require().NoError(err)
	// 9400 * 0.0001 * 10h * 1.05 lockup bonus = 9.87
	s.Require().Equal("9", compRes.Compounded)
	s.Require().Equal("9409", compRes.NewAmount)

	_, err = srv.Withdraw(s.ctx(), &types.MsgWithdraw{Owner: s.alice.String()})
	s.Require().ErrorIs(err, types.ErrFundsAreLocked)

	_, err = srv.AddBalance(s.ctx(), &types.MsgAddBalance{Authority: s.admin.String(), Amount: "100000"})
	s.Require().NoError(err)

	s.chain.Advance(31 * day)
	payRes, err := srv.WithdrawAll(s.ctx(), &types.MsgWithdrawAll{Owner: s.alice.String()})
	s.Require().NoError(err)
	s.Require().NotEqual("0", payRes.AmountPaid)
	s.Require().Nil(s.k.GetAccount(s.ctx(), s.alice.String()))
}

func (s *KeeperTestSuite) TestMsgServer_AdminFlow() {
	srv := keeper.NewMsgServerImpl(s.k)
	rescue := testAddr("rescue")

	_, err := srv.Deposit(s.ctx(), &types.MsgDeposit{Depositor: s.bob.String(), Amount: "1000"})
	s.Require().NoError(err)

	_, err = srv.Pause(s.ctx(), &types.MsgPause{Authority: s.bob.String()})
	s.Require().ErrorIs(err, types.ErrUnauthorized)

	_, err = srv.Pause(s.ctx(), &types.MsgPause{Authority: s.admin.String()})
	s.Require().NoError(err)

	res, err := srv.EmergencyUserWithdraw(s.ctx(), &types.MsgEmergencyUserWithdraw{Owner: s.bob.String()})
	s.Require().NoError(err)
	s.Require().Equal("940", res.AmountPaid)

	_, err = srv.EmergencyWithdraw(s.ctx(), &types.MsgEmergencyWithdraw{Authority: s.admin.String(), To: rescue.String()})
	s.Require().NoError(err)

	_, err = srv.Unpause(s.ctx(), &types.MsgUnpause{Authority: s.admin.String()})
	s.Require().NoError(err)

	_, err = srv.ChangeTreasury(s.ctx(), &types.MsgChangeTreasury{Authority: s.admin.String(), Treasury: rescue.String()})
	s.Require().NoError(err)
	s.Require().Equal(rescue.String(), s.k.GetLedgerState(s.ctx()).Treasury)

	_, err = srv.WithdrawPendingCommission(s.ctx(), &types.MsgWithdrawPendingCommission{Authority: s.admin.String()})
	s.Require().ErrorIs(err, types.ErrNoPendingCommission)

	_, err = srv.Migrate(s.ctx(), &types.MsgMigrate{Authority: s.admin.String(), NewAddress: rescue.String()})
	s.Require().NoError(err)
	s.Require().True(s.k.GetLedgerState(s.ctx()).Migrated)
}

func (s *KeeperTestSuite) TestQueryServer() {
	q := keeper.NewQueryServerImpl(s.k)
	s.deposit(s.alice, 0, 10_000)
	s.chain.Advance(10 * time.Hour)

	deposits, err := q.UserDeposits(s.ctx(), s.alice.String())
	s.Require().NoError(err)
	s.Require().Len(deposits, 1)

	total, err := q.TotalDeposit(s.ctx(), s.alice.String())
	s.Require().NoError(err)
	s.Require().Equal(int64(9400), total.Int64())

	rewards, err := q.Rewards(s.ctx(), s.alice.String())
	s.Require().NoError(err)
	s.Require().Equal(int64(9), rewards.Int64())

	info, err := q.UserInfo(s.ctx(), s.alice.String())
	s.Require().NoError(err)
	s.Require().Equal(1, info.DepositCount)

	balance, err := q.ContractBalance(s.ctx())
	s.Require().NoError(err)
	s.Require().Equal(int64(9400), balance.Int64())

	state, err := q.LedgerState(s.ctx())
	s.Require().NoError(err)
	s.Require().Equal(types.StatusActive, state.Status())

	params, err := q.Params(s.ctx())
	s.Require().NoError(err)
	s.Require().Equal(types.DefaultDenom, params.Denom)

	_, err = q.UserDeposits(s.ctx(), "bogus")
	s.Require().ErrorIs(err, types.ErrInvalidAddress)
}
